package warehouse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNegativeAmount = errors.New("negative amount")

// Amount converts an amount in cents to a decimal with two places.
func Amount(cents int64) (decimal.Decimal, error) {
	if cents < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %d cents", ErrNegativeAmount, cents)
	}

	return decimal.New(cents, -2), nil
}

// FullName joins the non-empty name parts with a space.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Label renders the display label of an order.
func Label(customer, note string) string {
	if note == "" {
		return customer
	}

	return customer + " (" + note + ")"
}
