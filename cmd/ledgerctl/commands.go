package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/platform/config"
	"github.com/SscSPs/pocket_ledger/internal/seed"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
	"github.com/SscSPs/pocket_ledger/pkg/database"
	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "applies pending database migrations" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate

  Applies every pending migration from MIGRATIONS_PATH to PGSQL_URL.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type seedCmd struct {
	chartFile string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "creates the default chart of accounts in an empty ledger" }
func (*seedCmd) Usage() string {
	return `ledgerctl seed [-chart <file.yaml>]

  Creates the chart of accounts when the ledger has no accounts. Without -chart the
  built-in chart is used.
`
}
func (p *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.chartFile, "chart", "", "YAML chart of accounts to seed instead of the built-in one")
}

func (p *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		chart, err := seed.DefaultChart()
		if p.chartFile != "" {
			var data []byte
			if data, err = os.ReadFile(p.chartFile); err != nil {
				return err
			}
			chart, err = seed.ParseChart(data)
		}
		if err != nil {
			return err
		}
		created, err := seed.Seed(ctx, a.services.Account, chart, slog.Default())
		if err != nil {
			return err
		}
		fmt.Printf("%d accounts created\n", created)
		return nil
	})
}

type accountsCmd struct {
	accountType string
	activeOnly  bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "lists the chart of accounts" }
func (*accountsCmd) Usage() string {
	return `ledgerctl accounts [-type ASSET|LIABILITY|EQUITY|INCOME|EXPENSE] [-active]

  Lists accounts ordered by code.
`
}
func (p *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.accountType, "type", "", "only accounts of this type")
	f.BoolVar(&p.activeOnly, "active", false, "only active accounts")
}

func (p *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		accounts, err := a.services.Account.ListAccounts(ctx, dto.ListAccountsParams{
			AccountType: p.accountType,
			ActiveOnly:  p.activeOnly,
		})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tTYPE\tNAME\tACTIVE")
		for _, acc := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", acc.Code, acc.AccountType, acc.Name, acc.IsActive)
		}
		return w.Flush()
	})
}

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "commits one import payload as a journal entry" }
func (*importCmd) Usage() string {
	return `ledgerctl import [-file <payload.json>]

  Reads an import payload (from -file, or stdin) and commits it as one expense entry.
  Nothing is written when any field is rejected.

Usage Examples:
$ ledgerctl import -file receipt.json
$ echo '{"payment_account":"Cash","lines":[{"category":"Food","amount_domestic":2.15}]}' | ledgerctl import
`
}
func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "file", "", "payload file; stdin when empty")
}

func (p *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		raw []byte
		err error
	)
	if p.file == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(p.file)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read payload: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(a *app) error {
		journal, err := a.services.Journal.ImportJournal(ctx, raw)
		if err != nil {
			return err
		}
		debits, _ := journal.Totals()
		fmt.Printf("imported %s on %s: %d lines, total %s\n",
			journal.JournalID, journal.JournalDate.Format(domain.DateLayout), len(journal.Lines), debits.StringFixed(a.cfg.AmountScale()))
		return nil
	})
}

type balanceSheetCmd struct {
	asOf string
}

func (*balanceSheetCmd) Name() string     { return "balance-sheet" }
func (*balanceSheetCmd) Synopsis() string { return "prints asset and liability balances" }
func (*balanceSheetCmd) Usage() string {
	return `ledgerctl balance-sheet [-as-of YYYY-MM-DD]
`
}
func (p *balanceSheetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.asOf, "as-of", "", "cutoff date, inclusive; all time when empty")
}

func (p *balanceSheetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := dates.ParseOptionalDate(p.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(a *app) error {
		sheet, err := a.services.Reporting.BalanceSheet(ctx, asOf)
		if err != nil {
			return err
		}
		scale := a.cfg.AmountScale()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		section := func(title string, rows []domain.AccountAmount) {
			fmt.Fprintf(w, "%s\t\t\n", title)
			for _, r := range rows {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", r.Code, r.Name, r.Balance.StringFixed(scale))
			}
		}
		section("ASSETS", sheet.Assets)
		section("LIABILITIES", sheet.Liabilities)
		fmt.Fprintf(w, "Total assets\t\t%s\n", sheet.TotalAssets.StringFixed(scale))
		fmt.Fprintf(w, "Total liabilities\t\t%s\n", sheet.TotalLiabilities.StringFixed(scale))
		fmt.Fprintf(w, "Net\t\t%s\n", sheet.Net.StringFixed(scale))
		return w.Flush()
	})
}
