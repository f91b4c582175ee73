// Package csvexport reads brokerage account exports in a simple CSV layout:
// one file for open positions, one for transactions, one for cash balances.
// It only decodes; every row becomes a model value through the model's own
// constructors, which enforce all invariants.
package csvexport

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/coffersh/coffer"
	"github.com/coffersh/coffer/date"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Source is an AccountSource over a directory of CSV exports. Paths left
// empty contribute no data. In lenient mode rows that fail to decode are
// logged and skipped instead of failing the whole load.
type Source struct {
	PositionsPath    string
	TransactionsPath string
	BalancesPath     string
	Lenient          bool
}

var _ coffer.AccountSource = (*Source)(nil)

type positionRow struct {
	Kind       string `csv:"Kind"`
	Symbol     string `csv:"Symbol"`
	Currency   string `csv:"Currency"`
	Quantity   string `csv:"Quantity"`
	CostBasis  string `csv:"CostBasis"`
	Multiplier string `csv:"Multiplier"`
	Exchange   string `csv:"Exchange"`
	Underlying string `csv:"Underlying"`
	OptionType string `csv:"OptionType"`
	Expiration string `csv:"Expiration"`
	Strike     string `csv:"Strike"`
}

type transactionRow struct {
	Date       string `csv:"Date"`
	Type       string `csv:"Type"` // trade or payment
	Kind       string `csv:"Kind"` // instrument kind, may be empty for payments
	Symbol     string `csv:"Symbol"`
	Currency   string `csv:"Currency"`
	Quantity   string `csv:"Quantity"`
	Amount     string `csv:"Amount"`
	Fees       string `csv:"Fees"`
	Status     string `csv:"Status"`
	Underlying string `csv:"Underlying"`
	OptionType string `csv:"OptionType"`
	Expiration string `csv:"Expiration"`
	Strike     string `csv:"Strike"`
	Multiplier string `csv:"Multiplier"`
}

type balanceRow struct {
	Currency string `csv:"Currency"`
	Amount   string `csv:"Amount"`
}

func readRows[T any](path string) ([]*T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []*T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rows, nil
}

// Positions decodes the positions file.
func (s *Source) Positions() ([]coffer.Position, error) {
	if s.PositionsPath == "" {
		return nil, nil
	}
	rows, err := readRows[positionRow](s.PositionsPath)
	if err != nil {
		return nil, err
	}
	positions := make([]coffer.Position, 0, len(rows))
	for n, row := range rows {
		p, err := decodePosition(row)
		if err != nil {
			if s.Lenient {
				log.Printf("%s: skipping position row %d: %v", s.PositionsPath, n+1, err)
				continue
			}
			return nil, fmt.Errorf("%s: position row %d: %w", s.PositionsPath, n+1, err)
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// Activity decodes the transactions file.
func (s *Source) Activity() ([]coffer.Activity, error) {
	if s.TransactionsPath == "" {
		return nil, nil
	}
	rows, err := readRows[transactionRow](s.TransactionsPath)
	if err != nil {
		return nil, err
	}
	activity := make([]coffer.Activity, 0, len(rows))
	for n, row := range rows {
		a, err := decodeActivity(row)
		if err != nil {
			if s.Lenient {
				log.Printf("%s: skipping transaction row %d: %v", s.TransactionsPath, n+1, err)
				continue
			}
			return nil, fmt.Errorf("%s: transaction row %d: %w", s.TransactionsPath, n+1, err)
		}
		activity = append(activity, a)
	}
	return activity, nil
}

// Balance decodes the balances file.
func (s *Source) Balance() (coffer.AccountBalance, error) {
	if s.BalancesPath == "" {
		return coffer.NewAccountBalance(), nil
	}
	rows, err := readRows[balanceRow](s.BalancesPath)
	if err != nil {
		return coffer.AccountBalance{}, err
	}
	amounts := make([]coffer.Cash, 0, len(rows))
	for n, row := range rows {
		currency, err := coffer.ParseCurrency(row.Currency)
		if err != nil {
			if s.Lenient {
				log.Printf("%s: skipping balance row %d: %v", s.BalancesPath, n+1, err)
				continue
			}
			return coffer.AccountBalance{}, fmt.Errorf("%s: balance row %d: %w", s.BalancesPath, n+1, err)
		}
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			if s.Lenient {
				log.Printf("%s: skipping balance row %d: %v", s.BalancesPath, n+1, err)
				continue
			}
			return coffer.AccountBalance{}, fmt.Errorf("%s: balance row %d: %w", s.BalancesPath, n+1, err)
		}
		amounts = append(amounts, coffer.NewCash(currency, amount))
	}
	return coffer.NewAccountBalance(amounts...), nil
}

func decodeInstrument(kind, symbol, currencyCode, multiplier, exchange, underlying, optionType, expiration, strike string) (coffer.Instrument, error) {
	currency, err := coffer.ParseCurrency(currencyCode)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(kind) {
	case "stock", "etf", "":
		return coffer.NewStockOnExchange(symbol, exchange, currency)
	case "bond":
		return coffer.NewBond(symbol, currency)
	case "option", "futureoption":
		typ, err := coffer.ParseOptionType(optionType)
		if err != nil {
			return nil, err
		}
		expires, err := date.Parse(expiration)
		if err != nil {
			return nil, err
		}
		strikePrice, err := decimal.NewFromString(strike)
		if err != nil {
			return nil, fmt.Errorf("invalid strike %q: %w", strike, err)
		}
		mult := coffer.DefaultOptionMultiplier
		if multiplier != "" {
			if mult, err = decimal.NewFromString(multiplier); err != nil {
				return nil, fmt.Errorf("invalid multiplier %q: %w", multiplier, err)
			}
		}
		if strings.ToLower(kind) == "futureoption" {
			return coffer.NewFutureOption(symbol, underlying, currency, typ, expires, strikePrice, mult)
		}
		return coffer.NewOptionWithSymbol(symbol, underlying, currency, typ, expires, strikePrice, mult)
	case "future":
		expires, err := date.Parse(expiration)
		if err != nil {
			return nil, err
		}
		mult, err := decimal.NewFromString(multiplier)
		if err != nil {
			return nil, fmt.Errorf("invalid multiplier %q: %w", multiplier, err)
		}
		return coffer.NewFuture(symbol, currency, mult, expires)
	case "forex":
		// Symbol is the concatenated pair, e.g. GBPUSD.
		if len(symbol) != 6 {
			return nil, fmt.Errorf("invalid forex symbol %q", symbol)
		}
		base, err := coffer.ParseCurrency(symbol[:3])
		if err != nil {
			return nil, err
		}
		quote, err := coffer.ParseCurrency(symbol[3:])
		if err != nil {
			return nil, err
		}
		return coffer.NewForex(base, quote)
	}
	return nil, fmt.Errorf("unknown instrument kind %q", kind)
}

func decodePosition(row *positionRow) (coffer.Position, error) {
	instrument, err := decodeInstrument(row.Kind, row.Symbol, row.Currency, row.Multiplier, row.Exchange, row.Underlying, row.OptionType, row.Expiration, row.Strike)
	if err != nil {
		return coffer.Position{}, err
	}
	quantity, err := decimal.NewFromString(row.Quantity)
	if err != nil {
		return coffer.Position{}, fmt.Errorf("invalid quantity %q: %w", row.Quantity, err)
	}
	basis, err := decimal.NewFromString(row.CostBasis)
	if err != nil {
		return coffer.Position{}, fmt.Errorf("invalid cost basis %q: %w", row.CostBasis, err)
	}
	return coffer.NewPosition(instrument, quantity, coffer.NewCash(instrument.Currency(), basis))
}

func decodeActivity(row *transactionRow) (coffer.Activity, error) {
	when, err := time.Parse(date.DateFormat, row.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", row.Date, err)
	}
	currency, err := coffer.ParseCurrency(row.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}

	switch strings.ToLower(row.Type) {
	case "payment", "dividend", "interest":
		var instrument coffer.Instrument
		if row.Symbol != "" {
			instrument, err = decodeInstrument(row.Kind, row.Symbol, row.Currency, row.Multiplier, "", row.Underlying, row.OptionType, row.Expiration, row.Strike)
			if err != nil {
				return nil, err
			}
		}
		return coffer.NewCashPayment(when, instrument, coffer.NewCash(currency, amount)), nil
	case "trade":
		instrument, err := decodeInstrument(row.Kind, row.Symbol, row.Currency, row.Multiplier, "", row.Underlying, row.OptionType, row.Expiration, row.Strike)
		if err != nil {
			return nil, err
		}
		quantity, err := decimal.NewFromString(row.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", row.Quantity, err)
		}
		fees := zero
		if row.Fees != "" {
			if fees, err = decimal.NewFromString(row.Fees); err != nil {
				return nil, fmt.Errorf("invalid fees %q: %w", row.Fees, err)
			}
		}
		status, err := coffer.ParseTradeStatus(row.Status)
		if err != nil {
			return nil, err
		}
		return coffer.NewTrade(when, instrument, quantity, coffer.NewCash(currency, amount), coffer.NewCash(currency, fees), status)
	}
	return nil, fmt.Errorf("unknown transaction type %q", row.Type)
}

var zero = decimal.NewFromInt(0)
