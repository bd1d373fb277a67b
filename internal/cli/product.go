package cli

import (
	"fmt"

	"stockcontrol/internal/models"
	"stockcontrol/internal/services"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type productInput struct {
	Name          string `validate:"required,max=200"`
	Description   string `validate:"max=1000"`
	StockQuantity int    `validate:"gte=0"`
	UnitPrice     string `validate:"required,numeric"`
}

type productPatchInput struct {
	Name          *string `validate:"omitnil,min=1,max=200"`
	Description   *string `validate:"omitnil,max=1000"`
	StockQuantity *int    `validate:"omitnil,gte=0"`
	UnitPrice     *string `validate:"omitnil,numeric"`
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid unit price %q: %w", s, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid unit price %q: must not be negative", s)
	}
	return price, nil
}

func (a *App) productCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Manage the product catalog",
	}
	cmd.AddCommand(
		a.productAddCommand(),
		a.productGetCommand(),
		a.productEditCommand(),
		a.productDeleteCommand(),
		a.productListCommand(),
	)
	return cmd
}

func (a *App) productAddCommand() *cobra.Command {
	var input productInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a product",
		Args:    cobra.NoArgs,
		PreRunE: a.adminRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.check(input); err != nil {
				return err
			}
			price, err := parsePrice(input.UnitPrice)
			if err != nil {
				return err
			}

			product := models.Product{
				Name:          input.Name,
				Description:   input.Description,
				StockQuantity: input.StockQuantity,
				UnitPrice:     price,
			}
			if err := a.products.CreateProduct(&product); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Product added successfully (ID: %d).\n", product.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "product name")
	cmd.Flags().StringVar(&input.Description, "description", "", "product description")
	cmd.Flags().IntVar(&input.StockQuantity, "stock", 0, "stock quantity")
	cmd.Flags().StringVar(&input.UnitPrice, "price", "0.00", "unit price")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) productGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show one product",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.authRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := a.products.GetProductByID(id)
			if err != nil {
				return err
			}
			a.printProduct(product)
			return nil
		},
	}
}

func (a *App) printProduct(p *models.Product) {
	a.printer.Fprintf(a.out, "Product ID: %d\n", p.ID)
	a.printer.Fprintf(a.out, "Product Name: %s\n", p.Name)
	a.printer.Fprintf(a.out, "Description: %s\n", p.Description)
	a.printer.Fprintf(a.out, "Stock Quantity: %d\n", p.StockQuantity)
	a.printer.Fprintf(a.out, "Unit Price: %s\n", p.UnitPrice.StringFixed(2))
}

func (a *App) productEditCommand() *cobra.Command {
	var name, description, unitPrice string
	var stock int

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change the given fields of a product; others keep their value",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.adminRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var input productPatchInput
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = &name
			}
			if flags.Changed("description") {
				input.Description = &description
			}
			if flags.Changed("stock") {
				input.StockQuantity = &stock
			}
			if flags.Changed("price") {
				input.UnitPrice = &unitPrice
			}
			if err := a.check(input); err != nil {
				return err
			}

			patch := services.ProductPatch{
				Name:          input.Name,
				Description:   input.Description,
				StockQuantity: input.StockQuantity,
			}
			if input.UnitPrice != nil {
				price, err := parsePrice(*input.UnitPrice)
				if err != nil {
					return err
				}
				patch.UnitPrice = &price
			}

			product, err := a.products.ApplyProductPatch(id, patch)
			if err != nil {
				return err
			}
			if patch.Empty() {
				fmt.Fprintln(a.out, "Nothing to change. Current product information:")
			} else {
				fmt.Fprintln(a.out, "Product updated successfully.")
			}
			a.printProduct(product)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new product name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().IntVar(&stock, "stock", 0, "new stock quantity")
	cmd.Flags().StringVar(&unitPrice, "price", "", "new unit price")
	return cmd
}

func (a *App) productDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a product; invoices that reference it are kept",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.adminRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.products.GetProductByID(id); err != nil {
				return err
			}
			if err := a.products.DeleteProduct(id); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Product deleted successfully.")
			return nil
		},
	}
}

func (a *App) productListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List products",
		Args:    cobra.NoArgs,
		PreRunE: a.authRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.products.GetAllProducts()
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Fprintln(a.out, "No products.")
				return nil
			}
			for _, p := range products {
				a.printer.Fprintf(a.out, "%d\t%s\t%d\t%s\n", p.ID, p.Name, p.StockQuantity, p.UnitPrice.StringFixed(2))
			}
			return nil
		},
	}
}
