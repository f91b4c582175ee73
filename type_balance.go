package coffer

import (
	"fmt"
	"sort"
	"strings"
)

// AccountBalance is uninvested cash sitting in one or more currencies.
// Cash parked in money-market positions is accounted as positions instead.
// Zero entries are elided, so an empty balance and a balance that netted
// out to zero compare equal.
type AccountBalance struct {
	cash map[Currency]Cash
}

// NewAccountBalance collects per-currency cash amounts into a balance.
// Amounts sharing a currency are summed; zero amounts are dropped.
func NewAccountBalance(amounts ...Cash) AccountBalance {
	b := AccountBalance{cash: make(map[Currency]Cash)}
	for _, amount := range amounts {
		b.accumulate(amount)
	}
	return b
}

func (b *AccountBalance) accumulate(amount Cash) {
	current, ok := b.cash[amount.Currency()]
	if ok {
		// Same currency by construction of the map key.
		current, _ = current.Add(amount)
	} else {
		current = amount
	}
	if current.IsZero() {
		delete(b.cash, amount.Currency())
		return
	}
	b.cash[amount.Currency()] = current
}

// Cash returns the balance held in one currency (zero if none).
func (b AccountBalance) Cash(currency Currency) Cash {
	if amount, ok := b.cash[currency]; ok {
		return amount
	}
	return NewCash(currency, zeroDecimal)
}

// Currencies lists the currencies with a non-zero balance, in currency
// order.
func (b AccountBalance) Currencies() []Currency {
	currencies := make([]Currency, 0, len(b.cash))
	for c := range b.cash {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Less(currencies[j]) })
	return currencies
}

// Amounts lists the non-zero cash entries, in currency order.
func (b AccountBalance) Amounts() []Cash {
	amounts := make([]Cash, 0, len(b.cash))
	for _, c := range b.Currencies() {
		amounts = append(amounts, b.cash[c])
	}
	return amounts
}

// Add merges another balance into this one, returning a new balance.
func (b AccountBalance) Add(other AccountBalance) AccountBalance {
	return NewAccountBalance(append(b.Amounts(), other.Amounts()...)...)
}

// AddCash returns a new balance with one amount added.
func (b AccountBalance) AddCash(amount Cash) AccountBalance {
	return NewAccountBalance(append(b.Amounts(), amount)...)
}

// SubCash returns a new balance with one amount removed.
func (b AccountBalance) SubCash(amount Cash) AccountBalance {
	return b.AddCash(amount.Neg())
}

// Equal compares the non-zero entries of two balances.
func (b AccountBalance) Equal(other AccountBalance) bool {
	if len(b.cash) != len(other.cash) {
		return false
	}
	for currency, amount := range b.cash {
		if !other.Cash(currency).Equal(amount) {
			return false
		}
	}
	return true
}

func (b AccountBalance) String() string {
	var sb strings.Builder
	sb.WriteString("Balances:")
	for _, amount := range b.Amounts() {
		fmt.Fprintf(&sb, "\n%s", amount)
	}
	return sb.String()
}
