package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/history"
)

// SearchCommand queries the catalog and records the query in the local history
type SearchCommand struct {
	Query        string
	DatabasePath string
	CatalogURL   string
	APIKey       string
	MaxResults   int
	Timeout      time.Duration
	NoHistory    bool

	Out io.Writer
}

func NewSearchCommand() *SearchCommand {
	return &SearchCommand{}
}

func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	// Same environment as the server, so both talk to one catalog and database
	defaults := config.NewConfig()

	fs.StringVar(&cmd.Query, "q", "", "Search query (required)")
	fs.StringVar(&cmd.DatabasePath, "db", defaults.Database.Path, "Path to the local database file")
	fs.StringVar(&cmd.CatalogURL, "catalog", defaults.Catalog.BaseURL, "Catalog API base URL ($CATALOG_BASE_URL)")
	fs.StringVar(&cmd.APIKey, "key", defaults.Catalog.APIKey, "Catalog API key ($CATALOG_API_KEY)")
	fs.IntVar(&cmd.MaxResults, "limit", defaults.Catalog.MaxResults, "Maximum number of results (0 lets the catalog decide)")
	fs.DurationVar(&cmd.Timeout, "timeout", defaults.Catalog.Timeout, "Request timeout")
	fs.BoolVar(&cmd.NoHistory, "no-history", false, "Do not record the query in the search history")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search -q <query> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search the book catalog. Favorites are marked with '*'.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s search -q \"frank herbert\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s search -q dune -limit 5 -no-history\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Query = strings.TrimSpace(cmd.Query)
	if cmd.Query == "" {
		return fmt.Errorf("required flag -q not provided")
	}

	return nil
}

func (cmd *SearchCommand) Run() error {
	out := output(cmd.Out)

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	client := catalog.NewClient(catalog.Options{
		BaseURL:    cmd.CatalogURL,
		APIKey:     cmd.APIKey,
		Timeout:    cmd.Timeout,
		MaxResults: cmd.MaxResults,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	books, err := client.Search(ctx, cmd.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if !cmd.NoHistory {
		if _, err := history.NewStore(db).Record(cmd.Query); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record search history: %v\n", err)
		}
	}

	if len(books) == 0 {
		fmt.Fprintf(out, "No books found for %q\n", cmd.Query)
		return nil
	}

	saved := favorites.NewStore(db)
	fmt.Fprintf(out, "Found %d books for %q\n\n", len(books), cmd.Query)
	for i, book := range books {
		printBook(out, i+1, book, saved.Contains(book.ID))
	}

	return nil
}
