package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/favorites"
)

// FavoritesCommand lists, adds or removes saved books
type FavoritesCommand struct {
	DatabasePath string
	CatalogURL   string
	AddID        string
	RemoveID     string
	APIKey       string
	Timeout      time.Duration

	Out io.Writer
}

func NewFavoritesCommand() *FavoritesCommand {
	return &FavoritesCommand{}
}

func (cmd *FavoritesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)
	defaults := config.NewConfig()

	fs.StringVar(&cmd.DatabasePath, "db", defaults.Database.Path, "Path to the local database file")
	fs.StringVar(&cmd.CatalogURL, "catalog", defaults.Catalog.BaseURL, "Catalog API base URL (used by -add)")
	fs.StringVar(&cmd.APIKey, "key", defaults.Catalog.APIKey, "Catalog API key ($CATALOG_API_KEY)")
	fs.StringVar(&cmd.AddID, "add", "", "Look up a catalog id and save it as a favorite")
	fs.StringVar(&cmd.RemoveID, "remove", "", "Remove the favorite with this id")
	fs.DurationVar(&cmd.Timeout, "timeout", defaults.Catalog.Timeout, "Catalog request timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s favorites [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List saved books. With -add or -remove, change the list first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.AddID != "" && cmd.RemoveID != "" {
		return fmt.Errorf("-add and -remove cannot be used together")
	}

	return nil
}

func (cmd *FavoritesCommand) Run() error {
	out := output(cmd.Out)

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := favorites.NewStore(db)

	switch {
	case cmd.AddID != "":
		client := catalog.NewClient(catalog.Options{
			BaseURL: cmd.CatalogURL,
			APIKey:  cmd.APIKey,
			Timeout: cmd.Timeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
		defer cancel()

		book, err := client.GetByID(ctx, cmd.AddID)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", cmd.AddID, err)
		}
		if err := store.Add(*book); err != nil {
			return fmt.Errorf("failed to add favorite: %w", err)
		}
		fmt.Fprintf(out, "Saved %q\n\n", book.Title)

	case cmd.RemoveID != "":
		if !store.Contains(cmd.RemoveID) {
			fmt.Fprintf(out, "%s is not a favorite\n\n", cmd.RemoveID)
			break
		}
		if err := store.Remove(cmd.RemoveID); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		fmt.Fprintf(out, "Removed %s\n\n", cmd.RemoveID)
	}

	entries := store.List()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No favorites yet")
		return nil
	}

	fmt.Fprintf(out, "Favorites (%d)\n", len(entries))
	for i, entry := range entries {
		printBook(out, i+1, entry.Book, true)
	}
	return nil
}
