package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
)

const chartWidth = 40

func (a *App) stockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "View stock levels",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "table",
			Short:   "Stock as a table",
			Args:    cobra.NoArgs,
			PreRunE: a.authRequired(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.printStockTable()
			},
		},
		&cobra.Command{
			Use:     "chart",
			Short:   "Stock distribution by quantity",
			Args:    cobra.NoArgs,
			PreRunE: a.authRequired(),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.printStockChart()
			},
		},
	)
	return cmd
}

func (a *App) printStockTable() error {
	rows, err := a.reports.StockTable()
	if err != nil {
		return err
	}

	rule := strings.Repeat("-", 82)
	fmt.Fprintln(a.out, "Stock Information (List):")
	fmt.Fprintln(a.out, rule)
	fmt.Fprintf(a.out, "%-8s %-20s %-20s %15s %15s\n", "ID", "Product Name", "Description", "Stock Quantity", "Unit Price")
	fmt.Fprintln(a.out, rule)
	for _, r := range rows {
		a.printer.Fprintf(a.out, "%-8d %-20s %-20s %15d %15s\n",
			r.ID, truncate(r.Name, 20), truncate(r.Description, 20), r.Quantity, r.UnitPrice.StringFixed(2))
	}
	fmt.Fprintln(a.out, rule)
	return nil
}

func (a *App) printStockChart() error {
	shares, err := a.reports.StockShares()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Stock Distribution:")
	if len(shares) == 0 {
		fmt.Fprintln(a.out, "(no products)")
		return nil
	}
	for _, s := range shares {
		bar := strings.Repeat("#", int(math.Round(s.Percent/100*chartWidth)))
		a.printer.Fprintf(a.out, "%-20s %10d %6.1f%% %s\n", truncate(s.Name, 20), s.Quantity, s.Percent, bar)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
