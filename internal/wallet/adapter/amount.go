package adapter

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseAmount converts a major unit decimal string ("0.01") to minor units with the given decimals.
func ParseAmount(value string, decimals int32) (*big.Int, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, errors.Errorf("amount must not be negative, got %s", value)
	}

	minor := amount.Shift(decimals)
	if !minor.IsInteger() {
		return nil, errors.Errorf("amount %s has more than %d decimal places", value, decimals)
	}

	return minor.BigInt(), nil
}
