// Package shell runs the interactive, menu-driven front end over a Catalog.
// A session reads one choice at a time, prompts for the fields that choice
// needs, prints one outcome line, and saves the catalog exactly once when
// the user picks Exit.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/ledger/internal/catalog"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Menu is printed before every choice.
const Menu = `
    1. Add Item
    2. Update Item
    3. Delete Item
    4. View Item
    5. List All Items
    6. Low-Stock Alert
    7. Total Inventory Value
    8. Exit
`

// Session drives a Catalog from line-oriented input.
type Session struct {
	catalog *catalog.Catalog
	store   types.Store
	in      *bufio.Scanner
	lines   <-chan string
	out     io.Writer
	log     zerolog.Logger
}

// NewSession returns a Session over an already hydrated catalog. store
// receives the single save on Exit.
func NewSession(c *catalog.Catalog, store types.Store, in io.Reader, out io.Writer, log zerolog.Logger) *Session {
	return &Session{
		catalog: c,
		store:   store,
		in:      bufio.NewScanner(in),
		out:     out,
		log:     log,
	}
}

// Run processes choices until Exit, end of input, or ctx is done. Exit
// saves the catalog; a save failure is returned. End of input returns nil
// and a canceled ctx returns ctx.Err(), neither of them saving. A prompt
// waiting for input is abandoned as soon as ctx is done.
func (s *Session) Run(ctx context.Context) error {
	quit := make(chan struct{})
	defer close(quit)
	s.lines = s.readLines(quit)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, Menu)
		choice, ok := s.prompt(ctx, "Select an option: ")
		if !ok {
			return s.stop(ctx, "input closed without exit; inventory not saved")
		}

		var stopped bool
		switch strings.TrimSpace(choice) {
		case "1":
			stopped = s.add(ctx)
		case "2":
			stopped = s.update(ctx)
		case "3":
			stopped = s.delete(ctx)
		case "4":
			stopped = s.view(ctx)
		case "5":
			s.list()
		case "6":
			stopped = s.lowStock(ctx)
		case "7":
			s.println("Total inventory value: " + Money(s.catalog.TotalValue()))
		case "8":
			return s.exit(ctx)
		default:
			s.println("Invalid option. Please try again.")
		}
		if stopped {
			return s.stop(ctx, "input closed mid-prompt; inventory not saved")
		}
	}
}

// stop ends a session that is leaving without Exit. The scanner is only
// inspected once the reader has finished, which is not the case after a
// cancel.
func (s *Session) stop(ctx context.Context, reason string) error {
	if err := ctx.Err(); err != nil {
		s.log.Info().Msg("interrupted; inventory not saved")
		return err
	}
	s.log.Info().Msg(reason)
	return s.in.Err()
}

// readLines scans input on its own goroutine so prompts can give up on
// ctx. The channel is closed at end of input.
func (s *Session) readLines(quit <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for s.in.Scan() {
			select {
			case lines <- s.in.Text():
			case <-quit:
				return
			}
		}
	}()
	return lines
}

// Each handler returns true when input ran out during its prompts.

func (s *Session) add(ctx context.Context) bool {
	fields, ok := s.prompts(ctx,
		"Enter item ID: ",
		"Enter item name: ",
		"Enter item price: ",
		"Enter item quantity: ",
	)
	if !ok {
		return true
	}
	id, name := fields[0], fields[1]
	if err := s.catalog.Add(id, name, fields[2], fields[3]); err != nil {
		s.println(Outcome(id, err))
		return false
	}
	s.println(fmt.Sprintf("Item %s added.", name))
	return false
}

func (s *Session) update(ctx context.Context) bool {
	fields, ok := s.prompts(ctx,
		"Enter item ID to update: ",
		"Enter new item name (leave blank to keep current): ",
		"Enter new item price (leave blank to keep current): ",
		"Enter new item quantity (leave blank to keep current): ",
	)
	if !ok {
		return true
	}
	id := fields[0]
	patch := catalog.Patch{
		Name:     optional(fields[1]),
		Price:    optional(fields[2]),
		Quantity: optional(fields[3]),
	}
	if err := s.catalog.Update(id, patch); err != nil {
		s.println(Outcome(id, err))
		return false
	}
	s.println(fmt.Sprintf("Item %s updated.", id))
	return false
}

func (s *Session) delete(ctx context.Context) bool {
	id, ok := s.prompt(ctx, "Enter item ID to delete: ")
	if !ok {
		return true
	}
	if err := s.catalog.Delete(id); err != nil {
		s.println(Outcome(id, err))
		return false
	}
	s.println(fmt.Sprintf("Item %s deleted.", id))
	return false
}

func (s *Session) view(ctx context.Context) bool {
	id, ok := s.prompt(ctx, "Enter item ID to view: ")
	if !ok {
		return true
	}
	item, err := s.catalog.Get(id)
	if err != nil {
		s.println(Outcome(id, err))
		return false
	}
	s.println(item.String())
	return false
}

func (s *Session) list() {
	if s.catalog.Len() == 0 {
		s.println("No items in inventory.")
		return
	}
	for item := range s.catalog.All() {
		s.println(item.String())
	}
}

func (s *Session) lowStock(ctx context.Context) bool {
	threshold, ok := s.prompt(ctx, "Enter stock threshold: ")
	if !ok {
		return true
	}
	low, err := s.catalog.LowStock(threshold)
	if err != nil {
		s.println(Outcome("", err))
		return false
	}
	if len(low) == 0 {
		s.println("No items below the stock threshold.")
		return false
	}
	for _, item := range low {
		s.println(item.String())
	}
	return false
}

func (s *Session) exit(ctx context.Context) error {
	if err := s.catalog.SaveTo(ctx, s.store); err != nil {
		s.log.Error().Err(err).Str("path", s.store.Location()).Msg("save failed")
		return err
	}
	s.log.Info().Str("path", s.store.Location()).Int("items", s.catalog.Len()).Msg("inventory saved")
	s.println(fmt.Sprintf("Inventory saved to %s.", s.store.Location()))
	s.println("Exiting.")
	return nil
}

// prompt prints label and waits for the next line. It reports false at
// end of input or when ctx is done.
func (s *Session) prompt(ctx context.Context, label string) (string, bool) {
	fmt.Fprint(s.out, label)
	select {
	case line, ok := <-s.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (s *Session) prompts(ctx context.Context, labels ...string) ([]string, bool) {
	answers := make([]string, 0, len(labels))
	for _, label := range labels {
		v, ok := s.prompt(ctx, label)
		if !ok {
			return nil, false
		}
		answers = append(answers, v)
	}
	return answers, true
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

// optional treats a blank answer as "leave unchanged".
func optional(answer string) types.Optional[string] {
	if answer == "" {
		return types.None[string]()
	}
	return types.Some(answer)
}
