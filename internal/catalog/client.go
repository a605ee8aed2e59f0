package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/bookfinder/internal/entities"
)

const userAgent = "BookFinder/1.0 (https://github.com/mrlokans/bookfinder)"

// errStatus is the cause recorded in a TransportError for non-2xx responses.
var errStatus = errors.New("unexpected status")

// Client issues read-only queries against the Google Books volumes API.
// It keeps no state between calls and never retries.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxResults  int
	rateLimiter *rate.Limiter
	observer    Observer
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxResults      int
	RequestInterval time.Duration
	Observer        Observer
}

// Observer receives one call per outgoing catalog request.
type Observer interface {
	ObserveCatalogRequest(op, outcome string, elapsed time.Duration)
}

// newRateLimiter allows one request per interval. A zero interval disables limiting.
func newRateLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NewClient creates a new catalog client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.googleapis.com/books/v1"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		maxResults:  opts.MaxResults,
		rateLimiter: newRateLimiter(opts.RequestInterval),
		observer:    opts.Observer,
	}
}

// Search returns volumes matching query in the order the catalog ranked them.
// A response without items is an empty result, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]entities.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	if c.maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(c.maxResults))
	}

	var result volumesResponse
	if err := c.get(ctx, opSearch, "/volumes", params, &result); err != nil {
		return nil, err
	}

	books := make([]entities.Book, 0, len(result.Items))
	for i := range result.Items {
		books = append(books, result.Items[i].toBook())
	}
	return books, nil
}

// GetByID fetches a single volume. Unknown ids fail with ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("volume id is required: %w", ErrNotFound)
	}

	var v volume
	if err := c.get(ctx, opGetVolume, "/volumes/"+url.PathEscape(id), url.Values{}, &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, &TransportError{Op: opGetVolume, Err: errors.New("response missing volume id")}
	}

	book := v.toBook()
	return &book, nil
}

// Operation names used in errors and metrics.
const (
	opSearch    = "search"
	opGetVolume = "get volume"
)

func (c *Client) get(ctx context.Context, op, path string, params url.Values, dst any) (err error) {
	if c.observer != nil {
		start := time.Now()
		defer func() {
			c.observer.ObserveCatalogRequest(op, outcome(err), time.Since(start))
		}()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	// A 404 only means "no such volume" on a volume lookup. On search it is
	// a broken endpoint, and the feed must treat it as a failed section.
	if resp.StatusCode == http.StatusNotFound && op == opGetVolume {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("catalog %s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errStatus}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Google Books API response types (internal)

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Description   string      `json:"description"`
	AverageRating *float64    `json:"averageRating"`
	ImageLinks    *imageLinks `json:"imageLinks"`
	PreviewLink   string      `json:"previewLink"`
	InfoLink      string      `json:"infoLink"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

func (v *volume) toBook() entities.Book {
	book := entities.Book{
		ID:            v.ID,
		Title:         v.VolumeInfo.Title,
		Authors:       v.VolumeInfo.Authors,
		Description:   v.VolumeInfo.Description,
		AverageRating: v.VolumeInfo.AverageRating,
		PreviewURL:    v.VolumeInfo.PreviewLink,
		InfoURL:       v.VolumeInfo.InfoLink,
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}

	if links := v.VolumeInfo.ImageLinks; links != nil {
		book.ThumbnailURL = links.Thumbnail
		if book.ThumbnailURL == "" {
			book.ThumbnailURL = links.SmallThumbnail
		}
	}

	return book
}
