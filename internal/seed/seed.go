// Package seed creates the default chart of accounts in an empty ledger.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"gopkg.in/yaml.v3"
)

//go:embed chart_of_accounts.yaml
var defaultChart []byte

// AccountSeed is one account of the chart.
type AccountSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Chart lists seed accounts grouped by type.
type Chart struct {
	Assets      []AccountSeed `yaml:"assets"`
	Liabilities []AccountSeed `yaml:"liabilities"`
	Equity      []AccountSeed `yaml:"equity"`
	Income      []AccountSeed `yaml:"income"`
	Expenses    []AccountSeed `yaml:"expenses"`
}

// byType pairs each group with its account type in code order.
func (c Chart) byType() []struct {
	accountType domain.AccountType
	accounts    []AccountSeed
} {
	return []struct {
		accountType domain.AccountType
		accounts    []AccountSeed
	}{
		{domain.Asset, c.Assets},
		{domain.Liability, c.Liabilities},
		{domain.Equity, c.Equity},
		{domain.Income, c.Income},
		{domain.Expense, c.Expenses},
	}
}

// ParseChart decodes a YAML chart of accounts.
func ParseChart(data []byte) (*Chart, error) {
	var chart Chart
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart of accounts: %w", err)
	}
	return &chart, nil
}

// DefaultChart returns the embedded chart of accounts.
func DefaultChart() (*Chart, error) {
	return ParseChart(defaultChart)
}

// AccountStore is the part of the account service seeding needs.
type AccountStore interface {
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
}

// Seed creates every account of chart when the ledger has no accounts yet. It reports how many
// accounts were created; a ledger that already has accounts is left alone.
func Seed(ctx context.Context, store AccountStore, chart *Chart, logger *slog.Logger) (int, error) {
	existing, err := store.ListAccounts(ctx, dto.ListAccountsParams{})
	if err != nil {
		return 0, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("Ledger already has accounts, skipping seed", slog.Int("count", len(existing)))
		return 0, nil
	}

	created := 0
	for _, group := range chart.byType() {
		for _, s := range group.accounts {
			acc, err := store.CreateAccount(ctx, dto.CreateAccountRequest{
				Name:        s.Name,
				AccountType: group.accountType,
				Description: s.Description,
			})
			if err != nil {
				return created, fmt.Errorf("failed to seed account %s:%s: %w", group.accountType, s.Name, err)
			}
			logger.Info("Seeded account", slog.String("code", acc.Code), slog.String("name", acc.Label()))
			created++
		}
	}
	return created, nil
}
