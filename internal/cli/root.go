// Package cli exposes the stock control core as stockctl subcommands.
package cli

import (
	"bufio"
	"context"
	"io"

	"stockcontrol/internal/database"
	"stockcontrol/internal/middleware"
	"stockcontrol/internal/models"
	"stockcontrol/internal/repositories"
	"stockcontrol/internal/services"
	"stockcontrol/pkg/config"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

// App holds everything a command needs. The store is opened lazily so that
// help output works without a database.
type App struct {
	cfg      *config.Config
	rawIn    io.Reader
	in       *bufio.Reader
	out      io.Writer
	sessions *middleware.SessionStore
	validate *validator.Validate
	printer  *message.Printer

	db       *gorm.DB
	products *services.ProductService
	invoices *services.InvoiceService
	auth     *services.AuthService
	reports  *services.ReportService
}

// NewApp creates an App reading from in and writing to out.
func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		cfg:      cfg,
		rawIn:    in,
		in:       bufio.NewReader(in),
		out:      out,
		sessions: middleware.NewSessionStore(cfg.Auth.SessionFile),
		validate: validator.New(),
		printer:  message.NewPrinter(language.English),
	}
}

// Execute runs one stockctl invocation with the given arguments.
func Execute(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	app := NewApp(cfg, in, out)
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	root := app.RootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

// RootCommand builds the stockctl command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Stock control and invoicing",
		Long:          "Manage a product catalog, record invoices against it and view stock levels.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	root.AddCommand(
		a.initCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.authCodeCommand(),
		a.userCommand(),
		a.productCommand(),
		a.invoiceCommand(),
		a.stockCommand(),
	)
	return root
}

// ValidateToken lets the session guards reach the auth service once the
// store has been opened.
func (a *App) ValidateToken(tokenString string) (*models.Session, error) {
	return a.auth.ValidateToken(tokenString)
}

func (a *App) authRequired() func(cmd *cobra.Command, args []string) error {
	return middleware.AuthRequired(a.sessions, a)
}

func (a *App) adminRequired() func(cmd *cobra.Command, args []string) error {
	return middleware.AdminRequired(a.sessions, a)
}

func (a *App) open(ctx context.Context) error {
	if a.db != nil {
		return nil
	}

	db, err := database.Open(database.Config{Driver: a.cfg.DB.Driver, DSN: a.cfg.DB.DSN})
	if err != nil {
		return err
	}
	a.db = db
	if err := database.EnsureSchema(ctx, db, a.cfg.DB.Driver); err != nil {
		return err
	}

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	invoiceRepo := repositories.NewGORMInvoiceRepository(db)

	authOpts := []services.AuthOption{services.WithSessionDuration(a.cfg.Auth.SessionTTL)}
	if a.cfg.Auth.HashPasswords {
		authOpts = append(authOpts, services.WithPasswordHashing())
	}

	a.products = services.NewProductService(productRepo)
	a.invoices = services.NewInvoiceService(repositories.NewGORMTxRunner(db), invoiceRepo)
	a.auth = services.NewAuthService(userRepo, a.cfg.Auth.JWTSecret, authOpts...)
	a.reports = services.NewReportService(productRepo)

	if a.cfg.Invoice.Hydrate {
		if err := a.invoices.Hydrate(); err != nil {
			return err
		}
	}
	log.Debug().Str("driver", a.cfg.DB.Driver).Msg("store ready")
	return nil
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	db := a.db
	a.db = nil
	return database.Close(db)
}
