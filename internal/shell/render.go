package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Outcome renders a failed catalog operation on id as one line of text.
func Outcome(id string, err error) string {
	switch {
	case errors.Is(err, types.ErrInvalidID):
		return "Invalid item ID. It must be a non-empty string."
	case errors.Is(err, types.ErrDuplicateID):
		return fmt.Sprintf("Item with ID %s already exists.", id)
	case errors.Is(err, types.ErrNotFound):
		return fmt.Sprintf("Item with ID %s not found.", id)
	case errors.Is(err, types.ErrInvalidValue):
		return fmt.Sprintf("Invalid input: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// LoadOutcome renders the result of hydrating a catalog from location.
func LoadOutcome(location string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Inventory loaded from %s.", location)
	case errors.Is(err, types.ErrNotFound):
		return "Inventory file not found. Starting with an empty inventory."
	case errors.Is(err, types.ErrCorruptFormat):
		return "Error reading the inventory file. Starting with an empty inventory."
	default:
		return fmt.Sprintf("Error loading inventory: %v", err)
	}
}

// Money formats v with two decimal places and a dollar sign. Rounding is
// applied to the binary value, so 2.675 shows as $2.67.
func Money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
