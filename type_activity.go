package coffer

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Activity is any dated portfolio event: a Trade or a CashPayment. The set
// is closed; switches over the two variants are expected to be exhaustive.
type Activity interface {
	// Date is when the event settled or was recorded.
	Date() time.Time

	sealedActivity()
}

// CashPayment is cash hitting the account: a stock dividend, bond interest,
// a stock-loan fee. Instrument is nil for flows with no instrument, such as
// interest on an aggregate balance.
type CashPayment struct {
	date       time.Time
	instrument Instrument
	proceeds   Cash
}

// NewCashPayment records a payment of proceeds, optionally attributed to an
// instrument (nil for account-level flows).
func NewCashPayment(date time.Time, instrument Instrument, proceeds Cash) CashPayment {
	return CashPayment{date: date, instrument: instrument, proceeds: proceeds}
}

func (p CashPayment) Date() time.Time        { return p.date }
func (p CashPayment) Instrument() Instrument { return p.instrument }
func (p CashPayment) Proceeds() Cash         { return p.proceeds }
func (CashPayment) sealedActivity()          {}

func (p CashPayment) String() string {
	symbol := ""
	if p.instrument != nil {
		symbol = p.instrument.Symbol()
	}
	return fmt.Sprintf("%s Cash payment   %-21s %s", p.date.Format("2006-01-02"), symbol, p.proceeds.Format(10))
}

// InvalidTradeStatusError reports a TradeStatus outside the six permitted
// states.
type InvalidTradeStatusError struct {
	Status TradeStatus
}

func (e *InvalidTradeStatusError) Error() string {
	return fmt.Sprintf("invalid trade status %d", uint8(e.Status))
}

// TradeStatus says how a trade changed exposure. A trade either opens or
// closes, optionally annotated with how: a dividend reinvestment opens, an
// expiration closes, and an assignment or exercise can do either (the sign
// of the trade quantity says which side).
type TradeStatus uint8

const (
	// TradeOpen is a plain opening trade.
	TradeOpen TradeStatus = 1 + iota
	// TradeClose is a plain closing trade.
	TradeClose
	// TradeOpenDRIP is an opening trade funded by a reinvested dividend.
	TradeOpenDRIP
	// TradeOpenAssigned is a position opened through assignment or exercise.
	TradeOpenAssigned
	// TradeCloseExpired is a position closed by an expiring contract.
	TradeCloseExpired
	// TradeCloseAssigned is a position closed through assignment or exercise.
	TradeCloseAssigned
)

// IsValid reports whether s is one of the six permitted states.
func (s TradeStatus) IsValid() bool { return s >= TradeOpen && s <= TradeCloseAssigned }

// Opening reports whether the trade added exposure.
func (s TradeStatus) Opening() bool {
	return s == TradeOpen || s == TradeOpenDRIP || s == TradeOpenAssigned
}

// Closing reports whether the trade removed exposure.
func (s TradeStatus) Closing() bool {
	return s == TradeClose || s == TradeCloseExpired || s == TradeCloseAssigned
}

var tradeStatusNames = map[TradeStatus]string{
	TradeOpen:          "open",
	TradeClose:         "close",
	TradeOpenDRIP:      "open/drip",
	TradeOpenAssigned:  "open/assigned",
	TradeCloseExpired:  "close/expired",
	TradeCloseAssigned: "close/assigned",
}

func (s TradeStatus) String() string {
	if name, ok := tradeStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TradeStatus(%d)", uint8(s))
}

// ParseTradeStatus reads the form produced by String.
func ParseTradeStatus(s string) (TradeStatus, error) {
	for status, name := range tradeStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, &InvalidTradeStatusError{}
}

// Trade is a single position-affecting event. Amount is the signed cash
// moved (negative when buying), fees the transaction cost taken on top.
type Trade struct {
	date       time.Time
	instrument Instrument
	quantity   decimal.Decimal
	amount     Cash
	fees       Cash
	status     TradeStatus
}

// NewTrade builds a trade. Amount and fees must share the instrument's
// currency, and status must be one of the six permitted states.
func NewTrade(date time.Time, instrument Instrument, quantity decimal.Decimal, amount, fees Cash, status TradeStatus) (Trade, error) {
	if instrument == nil {
		return Trade{}, fmt.Errorf("trade requires an instrument")
	}
	if !status.IsValid() {
		return Trade{}, &InvalidTradeStatusError{Status: status}
	}
	if amount.Currency() != fees.Currency() {
		return Trade{}, &CurrencyMismatchError{Left: amount.Currency(), Right: fees.Currency()}
	}
	return Trade{
		date:       date,
		instrument: instrument,
		quantity:   quantizeQuantity(quantity),
		amount:     amount,
		fees:       fees,
		status:     status,
	}, nil
}

// NewTradeFloat is NewTrade for float quantities, rejecting NaN and
// infinities.
func NewTradeFloat(date time.Time, instrument Instrument, quantity float64, amount, fees Cash, status TradeStatus) (Trade, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return Trade{}, &NonFiniteError{What: "trade quantity", Value: quantity}
	}
	return NewTrade(date, instrument, decimal.NewFromFloat(quantity), amount, fees, status)
}

func (t Trade) Date() time.Time            { return t.date }
func (t Trade) Instrument() Instrument     { return t.instrument }
func (t Trade) Quantity() decimal.Decimal  { return t.quantity }
func (t Trade) Amount() Cash               { return t.amount }
func (t Trade) Fees() Cash                 { return t.fees }
func (t Trade) Status() TradeStatus        { return t.status }
func (Trade) sealedActivity()              {}

// Price is the per-unit price of the trade, always expressed as a
// cost-to-open figure: buying 5 shares for -1000 and selling 5 shares for
// +1000 both price at 200.
func (t Trade) Price() Cash {
	price := t.amount.Div(t.instrument.Multiplier())
	if t.quantity.Sign() >= 0 {
		return price.Neg()
	}
	return price
}

// Proceeds is the net cash effect of the trade: amount minus fees.
func (t Trade) Proceeds() Cash {
	proceeds, err := t.amount.Sub(t.fees)
	if err != nil {
		// NewTrade checked the currencies already.
		panic(err)
	}
	return proceeds
}

// WithStatus returns a copy of the trade under a corrected status. Used when
// reconciling broker records, e.g. re-marking the opening leg of a short
// sale.
func (t Trade) WithStatus(status TradeStatus) (Trade, error) {
	return NewTrade(t.date, t.instrument, t.quantity, t.amount, t.fees, status)
}

func (t Trade) String() string {
	action := "Buy "
	if t.quantity.Sign() < 0 {
		action = "Sell"
	}
	return fmt.Sprintf("%s %s %9s %-21s %s (before %s in fees)",
		t.date.Format("2006-01-02"), action, t.quantity.Abs().String(), t.instrument.Symbol(), t.amount.Format(10), t.fees.Format(5))
}
