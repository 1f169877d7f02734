package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	EUR Currency = "EUR" // Euro (default)
	USD Currency = "USD" // US Dollar
	GBP Currency = "GBP" // British Pound
	CHF Currency = "CHF" // Swiss Franc
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = EUR

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyEUR creates Money in EUR
func NewMoneyEUR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: EUR}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Add adds another Money of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Mul multiplies the amount by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Equals returns true if amount and currency both match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a human-readable representation
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
