package entities

import "time"

// Book is a catalog record as returned by the remote catalog. ID is the only
// field the application interprets; everything else is displayed as-is.
type Book struct {
	ID            string   `json:"id" binding:"required"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
	Description   string   `json:"description,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	PreviewURL    string   `json:"preview_url,omitempty"`
	InfoURL       string   `json:"info_url,omitempty"`
}

// AuthorLine joins authors for display, or returns fallback when there are none.
func (b Book) AuthorLine(fallback string) string {
	if len(b.Authors) == 0 {
		return fallback
	}
	line := b.Authors[0]
	for _, a := range b.Authors[1:] {
		line += ", " + a
	}
	return line
}

// Favorite is a snapshot of a book taken when the user saved it.
type Favorite struct {
	Book
	AddedAt time.Time `json:"added_at"`
}

// Display fallbacks for records with missing fields.
const (
	UnknownAuthor = "Unknown Author"
	NoDescription = "No description available."
)
