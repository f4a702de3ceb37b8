package funda

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// parseStructuredData parses every JSON-LD script block in the document,
// in document order. A block with malformed JSON fails the whole set with an
// error naming that block; zero blocks is not an error.
func parseStructuredData(doc *goquery.Document) ([]map[string]any, error) {
	var blocks []map[string]any
	var parseErr error

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		var block map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &block); err != nil {
			parseErr = fmt.Errorf("structured-data block %d: %w", i, err)
			return false
		}
		blocks = append(blocks, block)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return blocks, nil
}

// lookup walks nested JSON objects by key, returning nil when any hop is
// missing or not an object.
func lookup(data map[string]any, keys ...string) any {
	var cur any = data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[k]
		if !ok {
			return nil
		}
	}
	return cur
}

// provinceFromBlocks returns the last addressRegion found across the blocks.
// When multiple blocks define address fields, later blocks win; block order
// is taken as-is from the page and is not guaranteed stable upstream.
func provinceFromBlocks(blocks []map[string]any) string {
	var out string
	for _, b := range blocks {
		if v, ok := lookup(b, "address", "addressRegion").(string); ok && v != "" {
			out = v
		}
	}
	return out
}

// neighbourhoodFromBlocks picks the third breadcrumb entry
// (home > city > neighbourhood) from any block carrying an itemListElement
// list. The fixed index is a best-effort heuristic over the breadcrumb shape
// funda currently emits, not a guaranteed contract.
func neighbourhoodFromBlocks(blocks []map[string]any) string {
	var out string
	for _, b := range blocks {
		items, ok := b["itemListElement"].([]any)
		if !ok || len(items) < 3 {
			continue
		}
		item, ok := items[2].(map[string]any)
		if !ok {
			continue
		}
		if name, ok := lookup(item, "item", "name").(string); ok && name != "" {
			out = name
		}
	}
	return out
}

// askingPriceFromBlocks returns the last offers.price found across the
// blocks, or nil when absent or non-numeric.
func askingPriceFromBlocks(blocks []map[string]any) *float64 {
	var out *float64
	for _, b := range blocks {
		v := lookup(b, "offers", "price")
		if v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			price := f
			out = &price
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
