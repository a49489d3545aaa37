package cli

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// parseUnits parses a non-negative decimal amount into its integer value with
// the given number of decimals, e.g. "1.5" with 18 decimals is 1.5e18
func parseUnits(value string, decimals int) (*big.Int, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), "_", "")
	if value == "" {
		return nil, errors.New("empty amount")
	}
	if strings.HasPrefix(value, "-") {
		return nil, fmt.Errorf("negative amount %q", value)
	}

	whole, frac, hasFrac := strings.Cut(value, ".")
	if hasFrac && len(frac) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimals", value, decimals)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))

	amount, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	return amount, nil
}
