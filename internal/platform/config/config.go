package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	// Empty JWTSecret disables bearer auth (local single-user mode).
	JWTSecret string
	JWTIssuer string

	// DomesticCurrency is the ISO code every line amount is denominated in.
	DomesticCurrency    string
	SeedDefaultAccounts bool
	ImportRateLimit     string
	CORSAllowedOrigins  []string
}

// AmountScale returns the number of minor-unit digits of the domestic currency.
func (c *Config) AmountScale() int32 {
	if cur := money.GetCurrency(c.DomesticCurrency); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "pocket-ledger")
	v.SetDefault("DOMESTIC_CURRENCY", "GBP")
	v.SetDefault("SEED_DEFAULT_ACCOUNTS", true)
	v.SetDefault("IMPORT_RATE_LIMIT", "30-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		DomesticCurrency:    strings.ToUpper(strings.TrimSpace(v.GetString("DOMESTIC_CURRENCY"))),
		SeedDefaultAccounts: v.GetBool("SEED_DEFAULT_ACCOUNTS"),
		ImportRateLimit:     v.GetString("IMPORT_RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. API authentication is disabled.")
	}
	if money.GetCurrency(cfg.DomesticCurrency) == nil {
		return nil, fmt.Errorf("DOMESTIC_CURRENCY %q is not a known ISO 4217 code", cfg.DomesticCurrency)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
