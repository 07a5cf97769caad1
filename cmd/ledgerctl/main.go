// Command ledgerctl runs maintenance and bulk tasks against the ledger database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&migrateCmd{}, "database")
	subcommands.Register(&seedCmd{}, "database")
	subcommands.Register(&accountsCmd{}, "ledger")
	subcommands.Register(&importCmd{}, "ledger")
	subcommands.Register(&balanceSheetCmd{}, "reports")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
