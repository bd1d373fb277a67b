package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stockcontrol/internal/middleware"
	"stockcontrol/internal/models"
	"stockcontrol/internal/services"

	"github.com/spf13/cobra"
)

type invoiceLineInput struct {
	ProductID uint `validate:"required"`
	Quantity  int  `validate:"gt=0"`
}

type invoiceInput struct {
	Items []invoiceLineInput `validate:"required,min=1,dive"`
}

// parseItem reads "<productID>:<quantity>".
func parseItem(s string) (invoiceLineInput, error) {
	idPart, qtyPart, ok := strings.Cut(s, ":")
	if !ok {
		return invoiceLineInput{}, fmt.Errorf("invalid item %q: want <productID>:<quantity>", s)
	}
	id, err := parseID(idPart)
	if err != nil {
		return invoiceLineInput{}, fmt.Errorf("invalid item %q: %w", s, err)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
	if err != nil {
		return invoiceLineInput{}, fmt.Errorf("invalid item %q: bad quantity", s)
	}
	return invoiceLineInput{ProductID: id, Quantity: qty}, nil
}

func (a *App) invoiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"invoices"},
		Short:   "Record and view invoices",
	}
	cmd.AddCommand(a.invoiceCreateCommand(), a.invoiceListCommand())
	return cmd
}

func (a *App) invoiceCreateCommand() *cobra.Command {
	var rawItems []string

	cmd := &cobra.Command{
		Use:     "create --item <productID>:<quantity> [--item ...]",
		Short:   "Record an invoice for the logged-in user",
		Args:    cobra.NoArgs,
		PreRunE: a.authRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _ := middleware.SessionFrom(cmd.Context())

			var input invoiceInput
			for _, raw := range rawItems {
				line, err := parseItem(raw)
				if err != nil {
					return err
				}
				input.Items = append(input.Items, line)
			}
			if err := a.check(input); err != nil {
				return err
			}

			items := make([]services.InvoiceItem, 0, len(input.Items))
			for _, line := range input.Items {
				product, err := a.products.GetProductByID(line.ProductID)
				if err != nil {
					return err
				}
				items = append(items, services.InvoiceItem{Product: *product, Quantity: line.Quantity})
			}

			invoice, err := a.invoices.CreateInvoice(session.UserID, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Invoice %d created with %d line item(s).\n", invoice.ID, len(invoice.LineItems))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rawItems, "item", "i", nil, "line item as <productID>:<quantity>, repeatable")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func (a *App) invoiceListCommand() *cobra.Command {
	var userID uint

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "Show invoices of the logged-in user, or of --user for admins",
		Args:    cobra.NoArgs,
		PreRunE: a.authRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _ := middleware.SessionFrom(cmd.Context())

			target := session.UserID
			if cmd.Flags().Changed("user") && userID != session.UserID {
				if !session.IsAdmin() {
					return middleware.ErrForbidden
				}
				target = userID
			}

			a.printInvoices(target, a.invoices.ListInvoicesForUser(target))
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user", 0, "user ID to list (admin only)")
	return cmd
}

func (a *App) printInvoices(userID uint, invoices []models.Invoice) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintf(a.out, "Invoices for User ID %d:\n", userID)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintf(a.out, "%-10s %-10s %-20s %s\n", "Invoice ID", "User ID", "Invoice Date", "Products")
	fmt.Fprintln(a.out, rule)
	for _, inv := range invoices {
		fmt.Fprintf(a.out, "%-10d %-10d %-20s %s\n",
			inv.ID, inv.UserID, inv.InvoiceDate.Local().Format(time.DateTime), describeLineItems(inv.LineItems))
	}
	fmt.Fprintln(a.out, rule)
}

func describeLineItems(items []models.InvoiceLineItem) string {
	parts := make([]string, 0, len(items))
	for _, li := range items {
		name := li.Product.Name
		if name == "" {
			// product deleted since the invoice was written
			name = fmt.Sprintf("#%d", li.ProductID)
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", name, li.Quantity))
	}
	return strings.Join(parts, ", ")
}
