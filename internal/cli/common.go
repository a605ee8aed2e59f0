package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/rating"
)

// output returns w, or stdout when w is nil.
func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func openDatabase(path string) (*database.Database, error) {
	db, err := database.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// printBook writes one numbered line per book plus its rating, e.g.
//
//	1. Dune by Frank Herbert [dune-1] *
//	   ★★★★½ (4.5)
func printBook(w io.Writer, n int, book entities.Book, favorite bool) {
	marker := ""
	if favorite {
		marker = " *"
	}
	fmt.Fprintf(w, "%d. %s by %s [%s]%s\n", n, book.Title, book.AuthorLine(entities.UnknownAuthor), book.ID, marker)

	if stars := rating.Format(book.AverageRating); stars != nil {
		fmt.Fprintf(w, "   %s\n", stars)
	} else {
		fmt.Fprintf(w, "   No rating\n")
	}
}
