package price

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the fixed set of currencies an admin may price in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyKES Currency = "KES"
)

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyKES:
		return Currency(s), nil
	default:
		return "", fmt.Errorf("unknown currency: %s", s)
	}
}

// Price is the admin-set payable amount for one booking: the sole source of
// truth for what may be charged. Quoted estimates and UI totals never
// authorize a capture. Zero-or-one per booking; locked flips to true when the
// booking leaves the pre-payment family and is never unset by normal flow.
type Price struct {
	BookingID string          `json:"bookingId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  Currency        `json:"currency"`
	Locked    bool            `json:"locked"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

var (
	ErrNotFound = errors.New("price not found")
	// ErrLocked means an upsert hit a price that payment already froze.
	ErrLocked = errors.New("price is locked")
)
