// Package catalog holds the in-memory inventory: an insertion-ordered
// mapping from item ID to Item with the validation, update, query, and
// load/save rules of the ledger.
//
// A Catalog is not safe for concurrent use.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Catalog owns every Item. Methods hand out copies, never pointers into the
// mapping.
type Catalog struct {
	items map[string]*types.Item
	order []string
}

// Patch lists the fields Update may change. Absent fields stay as they are.
// Price and Quantity carry the caller's raw text and are coerced on apply.
type Patch struct {
	Name     types.Optional[string]
	Price    types.Optional[string]
	Quantity types.Optional[string]
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{items: make(map[string]*types.Item)}
}

// NewID returns a fresh UUID v7 string for front ends that assign IDs.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Add inserts a new item. It returns ErrInvalidID for an empty id,
// ErrDuplicateID if id is taken (the stored item is left alone), and
// ErrInvalidValue if price or quantity do not coerce to non-negative numbers.
func (c *Catalog) Add(id, name, price, quantity string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if _, ok := c.items[id]; ok {
		return fmt.Errorf("%w: %q", types.ErrDuplicateID, id)
	}
	p, err := ParsePrice(price)
	if err != nil {
		return err
	}
	q, err := ParseQuantity(quantity)
	if err != nil {
		return err
	}
	c.insert(types.Item{ID: id, Name: name, Price: p, Quantity: q})
	return nil
}

// Update applies patch to the item with the given id, field by field in the
// order name, price, quantity. The first field that fails coercion stops the
// update with ErrInvalidValue; fields applied before it stay applied.
// An empty patch on an existing item succeeds without changes.
func (c *Catalog) Update(id string, patch Patch) error {
	item, err := c.lookup(id)
	if err != nil {
		return err
	}
	if name, ok := patch.Name.Get(); ok {
		item.Name = name
	}
	if raw, ok := patch.Price.Get(); ok {
		p, err := ParsePrice(raw)
		if err != nil {
			return err
		}
		item.Price = p
	}
	if raw, ok := patch.Quantity.Get(); ok {
		q, err := ParseQuantity(raw)
		if err != nil {
			return err
		}
		item.Quantity = q
	}
	return nil
}

// Delete removes the item with the given id.
func (c *Catalog) Delete(id string) error {
	if _, err := c.lookup(id); err != nil {
		return err
	}
	delete(c.items, id)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == id })
	return nil
}

// Get returns a copy of the item with the given id.
func (c *Catalog) Get(id string) (types.Item, error) {
	item, err := c.lookup(id)
	if err != nil {
		return types.Item{}, err
	}
	return *item, nil
}

// All yields copies of every item in catalog order.
func (c *Catalog) All() iter.Seq[types.Item] {
	return func(yield func(types.Item) bool) {
		for _, id := range c.order {
			if !yield(*c.items[id]) {
				return
			}
		}
	}
}

// LowStock returns the items whose quantity is strictly below threshold,
// in catalog order.
func (c *Catalog) LowStock(threshold string) ([]types.Item, error) {
	limit, err := ParseThreshold(threshold)
	if err != nil {
		return nil, err
	}
	var low []types.Item
	for item := range c.All() {
		if item.Quantity < limit {
			low = append(low, item)
		}
	}
	return low, nil
}

// TotalValue returns the sum of price times quantity over all items.
func (c *Catalog) TotalValue() float64 {
	total := decimal.Zero
	for item := range c.All() {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.InexactFloat64()
}

// LoadFrom replaces the catalog contents with the document held by store.
// When the store has no document (ErrNotFound) or an unreadable one
// (ErrCorruptFormat) the catalog is left empty and the error is returned
// for the caller to report; neither is fatal. Hydration is all or nothing.
func (c *Catalog) LoadFrom(ctx context.Context, store types.Store) error {
	c.reset()

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", store.Location(), err)
	}

	next := New()
	for _, item := range doc.Items {
		if checkID(item.ID) != nil || item.Price < 0 || item.Quantity < 0 {
			return fmt.Errorf("load %s: %w: item %q", store.Location(), types.ErrCorruptFormat, item.ID)
		}
		if _, dup := next.items[item.ID]; dup {
			return fmt.Errorf("load %s: %w: duplicate item %q", store.Location(), types.ErrCorruptFormat, item.ID)
		}
		next.insert(item)
	}
	*c = *next
	return nil
}

// SaveTo writes every item, in catalog order, to store. Store errors are
// returned unchanged apart from wrapping.
func (c *Catalog) SaveTo(ctx context.Context, store types.Store) error {
	doc := types.Document{Items: slices.Collect(c.All())}
	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save %s: %w", store.Location(), err)
	}
	return nil
}

// IsInformational reports whether err is a load outcome that leaves the
// catalog usable (empty) rather than a failure.
func IsInformational(err error) bool {
	return errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrCorruptFormat)
}

func (c *Catalog) insert(item types.Item) {
	c.items[item.ID] = &item
	c.order = append(c.order, item.ID)
}

func (c *Catalog) reset() {
	c.items = make(map[string]*types.Item)
	c.order = nil
}

func (c *Catalog) lookup(id string) (*types.Item, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	item, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %q", types.ErrNotFound, id)
	}
	return item, nil
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: must be a non-empty string", types.ErrInvalidID)
	}
	return nil
}
