package http

import (
	"time"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/rating"
)

// BookView is a book as rendered by the API: the catalog record plus its
// star rating and whether this particular book is a favorite.
type BookView struct {
	entities.Book
	AuthorLine string             `json:"author_line"`
	Rating     *rating.StarRating `json:"rating"`
	Favorite   bool               `json:"favorite"`
}

// BookDetailView adds display fallbacks used on the detail page.
type BookDetailView struct {
	BookView
	DisplayDescription string `json:"display_description"`
}

// FavoriteView is a saved book with the time it was added.
type FavoriteView struct {
	BookView
	AddedAt time.Time `json:"added_at"`
}

// membership answers whether a book id is a favorite. A nil membership
// treats every book as not favorited.
type membership interface {
	Contains(id string) bool
}

func newBookView(book entities.Book, favorites membership) BookView {
	view := BookView{
		Book:       book,
		AuthorLine: book.AuthorLine(entities.UnknownAuthor),
		Rating:     rating.Format(book.AverageRating),
	}
	if view.Authors == nil {
		view.Authors = []string{}
	}
	if favorites != nil {
		view.Favorite = favorites.Contains(book.ID)
	}
	return view
}

func newBookViews(books []entities.Book, favorites membership) []BookView {
	views := make([]BookView, 0, len(books))
	for _, book := range books {
		views = append(views, newBookView(book, favorites))
	}
	return views
}

func newBookDetailView(book entities.Book, favorites membership) BookDetailView {
	description := book.Description
	if description == "" {
		description = entities.NoDescription
	}
	return BookDetailView{
		BookView:           newBookView(book, favorites),
		DisplayDescription: description,
	}
}

func newFavoriteViews(entries []entities.Favorite) []FavoriteView {
	views := make([]FavoriteView, 0, len(entries))
	for _, entry := range entries {
		view := newBookView(entry.Book, nil)
		view.Favorite = true
		views = append(views, FavoriteView{BookView: view, AddedAt: entry.AddedAt})
	}
	return views
}
