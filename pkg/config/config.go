// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Fine for a local
// single-user install; set JWT_SECRET anywhere else.
const DefaultJWTSecret = "stockctl-local-secret"

// Config groups the application settings.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Auth    AuthConfig
	Invoice InvoiceConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, production
	LogLevel string
}

// DBConfig selects the store.
type DBConfig struct {
	Driver string // sqlite or postgres
	DSN    string
}

// AuthConfig holds session and credential settings.
type AuthConfig struct {
	JWTSecret     string
	SessionTTL    time.Duration
	SessionFile   string
	HashPasswords bool // opt-in bcrypt; off keeps plaintext compatibility
}

// InvoiceConfig controls the in-memory invoice index.
type InvoiceConfig struct {
	Hydrate bool // load persisted invoices into the index at startup
}

// Load reads configuration. Environment variables win over values from .env.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DB_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			SessionTTL:    v.GetDuration("SESSION_TTL"),
			SessionFile:   v.GetString("SESSION_FILE"),
			HashPasswords: v.GetBool("AUTH_HASH_PASSWORDS"),
		},
		Invoice: InvoiceConfig{
			Hydrate: v.GetBool("INVOICE_HYDRATE"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "stock_control_system.db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("SESSION_TTL", 8*time.Hour)
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("AUTH_HASH_PASSWORDS", false)
	v.SetDefault("INVOICE_HYDRATE", true)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stockctl-session"
	}
	return filepath.Join(home, ".stockctl", "session")
}
