package scraper

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"funda-scraper/utils"
)

// PageCache saves raw fetched HTML to disk. Writes are best-effort: a failed
// save is logged as a warning and never fails the scrape.
type PageCache struct {
	dir    string
	logger *utils.Logger
}

// NewPageCache creates a PageCache rooted at dir.
func NewPageCache(dir string, logger *utils.Logger) *PageCache {
	return &PageCache{dir: dir, logger: logger}
}

// Filename derives a filesystem-safe filename from the URL.
func (p *PageCache) Filename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "page.html"
	}
	path := strings.ReplaceAll(strings.Trim(u.Path, "/"), "/", "_")
	return fmt.Sprintf("%s_%s.html", u.Host, path)
}

// Save writes the HTML for the URL into the cache directory.
func (p *PageCache) Save(rawURL, html string) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		p.logger.Warn("[cache] Failed to create cache dir %s: %v", p.dir, err)
		return
	}

	path := filepath.Join(p.dir, p.Filename(rawURL))
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		p.logger.Warn("[cache] Failed to save HTML file: %v", err)
		return
	}
	p.logger.Debug("[cache] Saved HTML to %s", path)
}
