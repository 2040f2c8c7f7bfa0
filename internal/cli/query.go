package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/shell"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			id := args[0]
			item, err := a.catalog.Get(id)
			if err != nil {
				return userError(shell.Outcome(id, err), err)
			}
			if opts.jsonMode {
				return printJSON(cmd, item)
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.String())
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every item in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			items := slices.Collect(a.catalog.All())
			return printItems(cmd, opts, items, "No items in inventory.")
		},
	}
}

func newLowStockCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "low-stock <threshold>",
		Short: "List items whose quantity is below threshold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			low, err := a.catalog.LowStock(args[0])
			if err != nil {
				return userError(shell.Outcome("", err), err)
			}
			return printItems(cmd, opts, low, "No items below the stock threshold.")
		},
	}
}

func newTotalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print the total inventory value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			total := a.catalog.TotalValue()
			if opts.jsonMode {
				return printJSON(cmd, map[string]any{"items": a.catalog.Len(), "total_value": total})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Total inventory value: "+shell.Money(total))
			return nil
		},
	}
}

// printItems writes items one per line, or empty when there are none. JSON
// mode always prints an array.
func printItems(cmd *cobra.Command, opts *rootOptions, items []types.Item, empty string) error {
	if opts.jsonMode {
		if items == nil {
			items = []types.Item{}
		}
		return printJSON(cmd, items)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	for _, item := range items {
		fmt.Fprintln(out, item.String())
	}
	return nil
}
