// Package money represents monetary values as exact integers in minor
// currency units (cents, paise). Floating point is never used for
// arithmetic; decimal strings are only accepted and produced at the edges.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds any single parsed amount so that summing a realistic
// ledger cannot overflow int64.
const MaxAmount Amount = 1_000_000_000_000_00

// ErrInvalid is returned when a decimal string cannot be represented
// exactly in minor units.
var ErrInvalid = errors.New("invalid amount")

// Amount is a signed quantity of minor currency units.
type Amount int64

// Parse converts a decimal string such as "12.34" or "-5" into minor units.
// More than two significant fractional digits are rejected rather than
// rounded.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	minor := d.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalid, s)
	}
	if minor.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalid, s)
	}
	return Amount(minor.IntPart()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats the amount in major units with two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// MarshalJSON encodes the amount as a decimal string to keep it exact for
// JavaScript clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a decimal string ("12.34") or a bare JSON
// number (12.34).
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
