package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitPlaces is the currency subunit precision (paise: 2 decimal places).
const minorUnitPlaces = 2

var minorUnitFactor = decimal.New(1, minorUnitPlaces)

// MinorUnits converts a monetary amount to integer minor units (paise).
// Balance comparisons run on the integer representation so that decimal
// drift can never make two equal sums compare unequal.
// Amounts carrying sub-paisa precision are rejected.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	shifted := amount.Mul(minorUnitFactor)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount.String(), minorUnitPlaces)
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -minorUnitPlaces)
}
