package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/catalog"
	"github.com/mesh-intelligence/ledger/internal/shell"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Mutating commands behave like a shell session that performs one
// operation and then exits: the catalog is saved exactly once afterwards,
// whether or not the operation was accepted.

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		id, name, price, quantity string
		autoID                    bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new item",
		Example: `  ledger add --id a1 --name Widget --price 2.50 --quantity 4
  ledger add --auto-id --name Bolt --price 0.10 --quantity 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if autoID && id == "" {
				id = catalog.NewID()
			}
			return mutate(cmd, opts, id, func(c *catalog.Catalog) (string, error) {
				if err := c.Add(id, name, price, quantity); err != nil {
					return "", err
				}
				if autoID {
					return fmt.Sprintf("Item %s added with ID %s.", name, id), nil
				}
				return fmt.Sprintf("Item %s added.", name), nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "item ID (must be unique and non-empty)")
	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&price, "price", "", "unit price (non-negative number)")
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity on hand (non-negative whole number)")
	cmd.Flags().BoolVar(&autoID, "auto-id", false, "generate a UUID v7 when --id is not given")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var name, price, quantity string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item's name, price, or quantity",
		Long: `Update sets only the fields whose flags are given. Fields are applied
in the order name, price, quantity; if one is invalid the update stops there
and the fields before it stay changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			patch := catalog.Patch{
				Name:     flagValue(cmd, "name", name),
				Price:    flagValue(cmd, "price", price),
				Quantity: flagValue(cmd, "quantity", quantity),
			}
			return mutate(cmd, opts, id, func(c *catalog.Catalog) (string, error) {
				if err := c.Update(id, patch); err != nil {
					return "", err
				}
				return fmt.Sprintf("Item %s updated.", id), nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new item name")
	cmd.Flags().StringVar(&price, "price", "", "new unit price")
	cmd.Flags().StringVar(&quantity, "quantity", "", "new quantity on hand")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return mutate(cmd, opts, id, func(c *catalog.Catalog) (string, error) {
				if err := c.Delete(id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Item %s deleted.", id), nil
			})
		},
	}
}

// mutate hydrates the catalog, applies op, saves once, and then reports
// op's outcome. A save failure outranks a rejected operation.
func mutate(cmd *cobra.Command, opts *rootOptions, id string, op func(*catalog.Catalog) (string, error)) error {
	a, err := opts.open(cmd)
	if err != nil {
		return err
	}

	msg, opErr := op(a.catalog)
	if err := a.save(cmd.Context()); err != nil {
		return err
	}
	if opErr != nil {
		return userError(shell.Outcome(id, opErr), opErr)
	}

	if opts.jsonMode {
		item, err := a.catalog.Get(id)
		if err != nil {
			// Deleted items have nothing left to show.
			return printJSON(cmd, map[string]string{"deleted": id})
		}
		return printJSON(cmd, item)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// flagValue maps "flag given" to a present Optional, even when the value is
// empty.
func flagValue(cmd *cobra.Command, flag, value string) types.Optional[string] {
	if cmd.Flags().Changed(flag) {
		return types.Some(value)
	}
	return types.None[string]()
}
