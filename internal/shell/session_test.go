package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ledger/internal/catalog"
	"github.com/mesh-intelligence/ledger/internal/jsonfile"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// runSession feeds lines to a session over c and a JSON store in a temp dir.
func runSession(t *testing.T, c *catalog.Catalog, lines ...string) (string, *jsonfile.Store, error) {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "inventory.json"))
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	err := NewSession(c, store, in, &out, zerolog.Nop()).Run(context.Background())
	return out.String(), store, err
}

func TestSessionAddViewExit(t *testing.T) {
	c := catalog.New()
	out, store, err := runSession(t, c,
		"1", "a1", "Widget", "2.5", "4",
		"4", "a1",
		"8",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Item Widget added.")
	assert.Contains(t, out, "Item(id=a1, name=Widget, price=2.5, quantity=4)")
	assert.Contains(t, out, "Inventory saved to "+store.Location()+".")

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Item{{ID: "a1", Name: "Widget", Price: 2.5, Quantity: 4}}, doc.Items)
}

func TestSessionValidationErrorsDoNotStopTheLoop(t *testing.T) {
	c := catalog.New()
	out, _, err := runSession(t, c,
		"1", "", "Nameless", "1", "1",
		"1", "a1", "Widget", "-2", "1",
		"1", "a1", "Widget", "2", "1",
		"1", "a1", "Again", "3", "3",
		"3", "ghost",
		"6", "lots",
		"9",
		"8",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Invalid item ID. It must be a non-empty string.")
	assert.Contains(t, out, "Invalid input: invalid value: price must be non-negative")
	assert.Contains(t, out, "Item with ID a1 already exists.")
	assert.Contains(t, out, "Item with ID ghost not found.")
	assert.Contains(t, out, "Invalid input: invalid value: threshold")
	assert.Contains(t, out, "Invalid option. Please try again.")
	assert.Contains(t, out, "Exiting.")
	assert.Equal(t, 1, c.Len())
}

func TestSessionUpdateBlankKeepsField(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Add("a1", "Widget", "2.5", "4"))

	out, _, err := runSession(t, c,
		"2", "a1", "", "3", "",
		"8",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Item a1 updated.")

	got, err := c.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, types.Item{ID: "a1", Name: "Widget", Price: 3, Quantity: 4}, got)
}

func TestSessionUpdatePartialFailure(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Add("a1", "Widget", "2.5", "4"))

	out, _, err := runSession(t, c,
		"2", "a1", "Gadget", "5", "many",
		"8",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid input:")
	assert.NotContains(t, out, "Item a1 updated.")

	got, _ := c.Get("a1")
	assert.Equal(t, types.Item{ID: "a1", Name: "Gadget", Price: 5, Quantity: 4}, got)
}

func TestSessionListLowStockTotal(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		out, _, err := runSession(t, catalog.New(), "5", "6", "3", "7", "8")
		require.NoError(t, err)
		assert.Contains(t, out, "No items in inventory.")
		assert.Contains(t, out, "No items below the stock threshold.")
		assert.Contains(t, out, "Total inventory value: $0.00")
	})

	t.Run("populated catalog", func(t *testing.T) {
		c := catalog.New()
		require.NoError(t, c.Add("two", "Two", "2.5", "2"))
		require.NoError(t, c.Add("five", "Five", "1", "5"))
		require.NoError(t, c.Add("seven", "Seven", "0", "7"))

		out, _, err := runSession(t, c, "5", "6", "5", "7", "8")
		require.NoError(t, err)

		list := "Item(id=two, name=Two, price=2.5, quantity=2)\nItem(id=five, name=Five, price=1, quantity=5)\nItem(id=seven, name=Seven, price=0, quantity=7)\n"
		assert.Contains(t, out, list)
		assert.Equal(t, 2, strings.Count(out, "Item(id=two"), "listed once, low-stock once")
		assert.Equal(t, 1, strings.Count(out, "Item(id=five"))
		assert.Contains(t, out, "Total inventory value: $10.00")
	})
}

func TestSessionDelete(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Add("a1", "Widget", "2.5", "4"))

	out, _, err := runSession(t, c, "3", "a1", "4", "a1", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Item a1 deleted.")
	assert.Contains(t, out, "Item with ID a1 not found.")
}

func TestSessionEndOfInputDoesNotSave(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "at menu", lines: []string{"1", "a1", "Widget", "2.5", "4"}},
		{name: "mid prompt", lines: []string{"1", "a1", "Widget"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := catalog.New()
			store := jsonfile.New(filepath.Join(t.TempDir(), "inventory.json"))
			in := strings.NewReader(strings.Join(tt.lines, "\n") + "\n")

			err := NewSession(c, store, in, &bytes.Buffer{}, zerolog.Nop()).Run(context.Background())
			require.NoError(t, err)

			_, statErr := os.Stat(store.Location())
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing written without Exit")
		})
	}
}

type failingStore struct{ saves int }

func (f *failingStore) Load(context.Context) (types.Document, error) {
	return types.Document{}, types.ErrNotFound
}

func (f *failingStore) Save(context.Context, types.Document) error {
	f.saves++
	return errors.New("read-only file system")
}

func (f *failingStore) Location() string { return "/ro/inventory.json" }

func TestSessionExitSaveFailureIsReturned(t *testing.T) {
	store := &failingStore{}
	var out bytes.Buffer

	err := NewSession(catalog.New(), store, strings.NewReader("8\n8\n"), &out, zerolog.Nop()).Run(context.Background())
	assert.ErrorContains(t, err, "read-only file system")
	assert.Equal(t, 1, store.saves, "exit saves exactly once")
	assert.NotContains(t, out.String(), "Exiting.")
}

func TestSessionCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSession(catalog.New(), &failingStore{}, strings.NewReader("8\n"), &bytes.Buffer{}, zerolog.Nop()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionCancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	store := &failingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- NewSession(catalog.New(), store, pr, io.Discard, zerolog.Nop()).Run(ctx)
	}()

	// Start an add and leave it waiting for the item name.
	_, err := io.WriteString(pw, "1\na1\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, store.saves, "an interrupted session never saves")
}
