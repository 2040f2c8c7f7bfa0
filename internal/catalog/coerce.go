package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// ParsePrice converts text to a finite, non-negative price.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: price %q is not a number", types.ErrInvalidValue, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: price must be non-negative, got %q", types.ErrInvalidValue, s)
	}
	return v, nil
}

// ParseQuantity converts text to a non-negative whole quantity.
func ParseQuantity(s string) (int, error) {
	return parseCount("quantity", s)
}

// ParseThreshold converts text to a non-negative low-stock threshold.
func ParseThreshold(s string) (int, error) {
	return parseCount("threshold", s)
}

func parseCount(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a whole number", types.ErrInvalidValue, field, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s must be non-negative, got %q", types.ErrInvalidValue, field, s)
	}
	return v, nil
}
