package types

import (
	"fmt"
	"strconv"
)

// Item is one inventory record. ID is the catalog key and never changes
// after creation. Price and Quantity are never negative for a stored item.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// String renders the item for human-readable listings.
func (i Item) String() string {
	return fmt.Sprintf("Item(id=%s, name=%s, price=%s, quantity=%d)",
		i.ID, i.Name, strconv.FormatFloat(i.Price, 'f', -1, 64), i.Quantity)
}
