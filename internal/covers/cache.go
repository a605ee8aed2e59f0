package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxThumbnailBytes caps a single download.
const maxThumbnailBytes = 5 << 20

// Cache keeps catalog thumbnails on disk, keyed by book id.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

// NewCache creates a new thumbnail cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetThumbnail returns the cached thumbnail for a book, downloading it on first use.
// Returns an empty path when the book has no thumbnail URL.
func (c *Cache) GetThumbnail(ctx context.Context, bookID, thumbnailURL string) (string, error) {
	if thumbnailURL == "" {
		return "", nil
	}

	cachePath := filepath.Join(c.cacheDir, c.thumbnailFilename(bookID, thumbnailURL))

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, thumbnailURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// Invalidate removes every cached thumbnail for a book.
func (c *Cache) Invalidate(bookID string) error {
	pattern := filepath.Join(c.cacheDir, fmt.Sprintf("thumb_%s_*", idKey(bookID)))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// thumbnailFilename combines a hash of the id with a hash of the URL so a
// changed URL misses the cache. Catalog ids may contain any character, so
// they never appear in the file name directly.
func (c *Cache) thumbnailFilename(bookID, thumbnailURL string) string {
	hash := sha256.Sum256([]byte(thumbnailURL))
	return fmt.Sprintf("thumb_%s_%x.img", idKey(bookID), hash[:8])
}

func idKey(bookID string) string {
	hash := sha256.Sum256([]byte(bookID))
	return fmt.Sprintf("%x", hash[:8])
}

func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "BookFinder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch thumbnail: status %d", resp.StatusCode)
	}

	// Temp file in the same directory for an atomic rename
	tmpFile, err := os.CreateTemp(c.cacheDir, "thumb_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := io.Copy(tmpFile, io.LimitReader(resp.Body, maxThumbnailBytes)); err != nil {
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, cachePath)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}
