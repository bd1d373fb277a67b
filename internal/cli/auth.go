package cli

import (
	"errors"
	"fmt"
	"time"

	"stockcontrol/internal/middleware"
	"stockcontrol/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type loginInput struct {
	Username string `validate:"required,max=64"`
	Password string
}

type newUserInput struct {
	Username   string `validate:"required,max=64"`
	Password   string `validate:"required"`
	Role       string `validate:"oneof=admin staff"`
	ExternalID string `validate:"omitempty,max=128"`
}

func (a *App) initCommand() *cobra.Command {
	var adminUser, adminPassword string
	var sample bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the schema and optionally seed an admin and sample products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "Schema ready (%s).\n", a.cfg.DB.Driver)

			if adminUser != "" {
				input := newUserInput{Username: adminUser, Password: adminPassword, Role: string(models.RoleAdmin)}
				if err := a.check(input); err != nil {
					return err
				}
				_, err := a.auth.RegisterUser(input.Username, input.Password, models.RoleAdmin, nil)
				switch {
				case errors.Is(err, models.ErrDuplicateUsername):
					fmt.Fprintf(a.out, "User %q already exists, left unchanged.\n", adminUser)
				case err != nil:
					return err
				default:
					fmt.Fprintf(a.out, "Admin %q created.\n", adminUser)
				}
			}

			if sample {
				return a.seedProducts()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&adminUser, "admin-user", "", "username of an admin account to create")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for --admin-user")
	cmd.Flags().BoolVar(&sample, "sample-products", false, "add a few sample products")
	cmd.MarkFlagsRequiredTogether("admin-user", "admin-password")
	return cmd
}

func (a *App) seedProducts() error {
	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", StockQuantity: 10, UnitPrice: decimal.NewFromInt(1200)},
		{Name: "Keyboard", Description: "Mechanical keyboard", StockQuantity: 25, UnitPrice: decimal.NewFromInt(75)},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", StockQuantity: 50, UnitPrice: decimal.NewFromInt(25)},
	}
	for i := range products {
		if err := a.products.CreateProduct(&products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
		fmt.Fprintf(a.out, "Seeded product: %s (ID: %d)\n", products[i].Name, products[i].ID)
	}
	return nil
}

func (a *App) loginCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input loginInput
			var err error

			if len(args) == 1 {
				input.Username = args[0]
			} else if input.Username, err = a.prompt("Enter your username"); err != nil {
				return err
			}
			if cmd.Flags().Changed("password") {
				input.Password = password
			} else if input.Password, err = a.promptPassword("Enter your password"); err != nil {
				return err
			}
			if err := a.check(input); err != nil {
				return err
			}

			session, err := a.auth.Authenticate(input.Username, input.Password)
			if err != nil {
				return err
			}
			token, err := a.auth.IssueToken(*session)
			if err != nil {
				return err
			}
			if err := a.sessions.Save(token); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Login successful. Welcome, %s!\n", session.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the logged-in user",
		Args:    cobra.NoArgs,
		PreRunE: a.authRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _ := middleware.SessionFrom(cmd.Context())
			fmt.Fprintf(a.out, "%s (%s), user ID %d, session valid until %s\n",
				session.Username, session.Role, session.UserID, session.ExpiresAt.Format(time.DateTime))
			return nil
		},
	}
}

func (a *App) authCodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "authcode",
		Short: "Print an 8 character code; not a secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, a.auth.GenerateAuthCode())
			return nil
		},
	}
}

func (a *App) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(a.userAddCommand())
	return cmd
}

func (a *App) userAddCommand() *cobra.Command {
	var password, role, externalID string

	cmd := &cobra.Command{
		Use:     "add <username>",
		Short:   "Add a user (staff unless --role admin)",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.adminRequired(),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := newUserInput{Username: args[0], Password: password, Role: role, ExternalID: externalID}
			if !cmd.Flags().Changed("password") {
				pw, err := a.promptPassword("Enter the password for the new user")
				if err != nil {
					return err
				}
				input.Password = pw
			}
			if err := a.check(input); err != nil {
				return err
			}

			var ext *string
			if input.ExternalID != "" {
				ext = &input.ExternalID
			}
			user, err := a.auth.RegisterUser(input.Username, input.Password, models.Role(input.Role), ext)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "New %s user %q added (ID: %d).\n", user.Role, user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleStaff), "role: admin or staff")
	cmd.Flags().StringVar(&externalID, "external-id", "", "optional external identity")
	return cmd
}
