package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Document is the persisted form of a catalog: items in catalog order.
//
// Its JSON encoding is one object keyed by item ID whose values carry the
// full item, ID included:
//
//	{
//	    "a1": {"id": "a1", "name": "Widget", "price": 2.5, "quantity": 4}
//	}
//
// Decoding keeps the key order of the object. The object key is the item's
// ID; an inner "id" that disagrees with it is ignored.
type Document struct {
	Items []Item
}

// itemJSON is the decode-side record. Pointer fields detect missing keys.
type itemJSON struct {
	ID       *string  `json:"id"`
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

// MarshalJSON encodes the document as an ID-keyed object in item order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range d.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.ID)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", item.ID, err)
		}
		val, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("marshal item %q: %w", item.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an ID-keyed object. Any shape or value violation
// returns an error wrapping ErrCorruptFormat and leaves d unchanged. A
// repeated key keeps its first position and its last value.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptFormat, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: document is not an object", ErrCorruptFormat)
	}

	var items []Item
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptFormat, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v", ErrCorruptFormat, tok)
		}

		var rec itemJSON
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("%w: item %q: %v", ErrCorruptFormat, key, err)
		}
		item, err := rec.toItem(key)
		if err != nil {
			return err
		}

		if i, seen := index[key]; seen {
			items[i] = item
			continue
		}
		index[key] = len(items)
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptFormat, err)
	}

	d.Items = items
	return nil
}

func (r itemJSON) toItem(key string) (Item, error) {
	if key == "" {
		return Item{}, fmt.Errorf("%w: empty item ID", ErrCorruptFormat)
	}
	if r.Name == nil || r.Price == nil || r.Quantity == nil {
		return Item{}, fmt.Errorf("%w: item %q: missing name, price, or quantity", ErrCorruptFormat, key)
	}
	if *r.Price < 0 || math.IsNaN(*r.Price) || math.IsInf(*r.Price, 0) {
		return Item{}, fmt.Errorf("%w: item %q: price %v", ErrCorruptFormat, key, *r.Price)
	}
	if *r.Quantity < 0 {
		return Item{}, fmt.Errorf("%w: item %q: quantity %d", ErrCorruptFormat, key, *r.Quantity)
	}
	return Item{
		ID:       key,
		Name:     *r.Name,
		Price:    *r.Price,
		Quantity: *r.Quantity,
	}, nil
}
