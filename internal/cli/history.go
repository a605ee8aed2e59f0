package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/history"
)

// HistoryCommand prints or clears recent searches
type HistoryCommand struct {
	DatabasePath string
	Clear        bool
	Suggest      string

	Out io.Writer
}

func NewHistoryCommand() *HistoryCommand {
	return &HistoryCommand{}
}

func (cmd *HistoryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.NewConfig().Database.Path, "Path to the local database file")
	fs.BoolVar(&cmd.Clear, "clear", false, "Clear the search history")
	fs.StringVar(&cmd.Suggest, "suggest", "", "Only show entries containing this text")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the %d most recent searches, newest first.\n\n", history.MaxEntries)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *HistoryCommand) Run() error {
	out := output(cmd.Out)

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := history.NewStore(db)

	if cmd.Clear {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(out, "Search history cleared")
		return nil
	}

	entries := store.List()
	if cmd.Suggest != "" {
		entries = store.Suggestions(cmd.Suggest)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No recent searches")
		return nil
	}

	for i, q := range entries {
		fmt.Fprintf(out, "%d. %s\n", i+1, q)
	}
	return nil
}
