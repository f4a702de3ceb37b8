package funda

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"funda-scraper/models"
	"funda-scraper/scraper"
	"funda-scraper/utils"
)

const (
	// nuxtDataID is the id of the script block carrying the serialized
	// application state.
	nuxtDataID = "__NUXT_DATA__"
	// publishDateSentinel marks the token two positions before the listing
	// date inside the application-state token stream.
	publishDateSentinel = "publishDate"
)

// Feature-table labels as rendered on funda listing pages.
const (
	labelLivingArea    = "Wonen"
	labelNumRooms      = "Aantal kamers"
	labelBuildYear     = "Bouwjaar"
	labelEnergyLabel   = "Energielabel"
	labelStatus        = "Status"
	labelHouseType     = "Soort woonhuis"
	labelApartmentType = "Soort appartement"
)

var (
	firstIntPattern  = regexp.MustCompile(`\d+`)
	buildYearPattern = regexp.MustCompile(`^\d{4}$`)
	parenthetical    = regexp.MustCompile(`\s*\([^)]*\)`)
)

// Scraper extracts a Listing from one funda detail page. Every extractor
// degrades independently: a field that cannot be parsed yields its zero
// value and a recorded warning, never an aborted scrape.
type Scraper struct {
	url          string
	doc          *goquery.Document
	featureTable map[string]string
	blocks       []map[string]any
	logger       *utils.Logger
	warnings     []string
}

// New fetches the page at url and prepares a Scraper over it. The raw HTML
// is saved to the page cache (best-effort) when cache is non-nil.
func New(ctx context.Context, client *scraper.RequestHandler, cache *scraper.PageCache, url string, logger *utils.Logger) (*Scraper, error) {
	if !scraper.IsValidURL(url) {
		return nil, fmt.Errorf("%w: %q", scraper.ErrInvalidURL, url)
	}

	rawHTML, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Save(url, rawHTML)
	}

	return FromHTML(url, rawHTML, logger), nil
}

// FromHTML prepares a Scraper over already-fetched HTML. A document that
// fails to parse degrades to an empty feature table and empty title rather
// than an error.
func FromHTML(url, rawHTML string, logger *utils.Logger) *Scraper {
	s := &Scraper{
		url:          url,
		featureTable: make(map[string]string),
		logger:       logger,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		s.warn("Failed to parse document: %v", err)
		return s
	}
	s.doc = doc

	s.parseFeatureTable()

	s.blocks, err = parseStructuredData(doc)
	if err != nil {
		s.warn("Could not extract structured data: %v", err)
	}

	return s
}

// warn records a non-fatal extraction problem and logs it.
func (s *Scraper) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.warnings = append(s.warnings, msg)
	if s.logger != nil {
		s.logger.Warn("[funda] %s", msg)
	}
}

// Warnings returns everything that degraded during extraction, in order.
func (s *Scraper) Warnings() []string { return s.warnings }

// FeatureTable exposes the parsed label → value mapping.
func (s *Scraper) FeatureTable() map[string]string { return s.featureTable }

// Title returns the raw page title, or "" if absent.
func (s *Scraper) Title() string {
	if s.doc == nil {
		return ""
	}
	return strings.TrimSpace(s.doc.Find("title").First().Text())
}

// parseFeatureTable walks every h3 section heading, takes the next
// definition list in document order, and records term → definition pairs.
// A definition wrapping its value in a span contributes the span text only.
// Labels repeated across sections overwrite earlier entries.
func (s *Scraper) parseFeatureTable() {
	if s.doc == nil {
		return
	}

	s.doc.Find("h3").Each(func(_ int, h3 *goquery.Selection) {
		if len(h3.Nodes) == 0 {
			return
		}
		dl := findNext(h3.Nodes[0], "dl")
		if dl == nil {
			return
		}

		for _, dt := range findAllWithin(dl, "dt") {
			dd := findNext(dt, "dd")
			if dd == nil {
				continue
			}
			value := nodeText(dd)
			if span := findWithin(dd, "span"); span != nil {
				value = nodeText(span)
			}
			s.featureTable[nodeText(dt)] = value
		}
	})
}

// deepTokens parses the application-state script block into a flat stream of
// scalar tokens in document order. Returns nil when the block is absent.
func (s *Scraper) deepTokens() []string {
	if s.doc == nil {
		return nil
	}
	raw := s.doc.Find("script#" + nuxtDataID).First().Text()
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var tokens []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch v := tok.(type) {
		case json.Delim:
			// structural, skip
		case string:
			tokens = append(tokens, v)
		case json.Number:
			tokens = append(tokens, v.String())
		case bool:
			tokens = append(tokens, strconv.FormatBool(v))
		case nil:
			tokens = append(tokens, "")
		}
	}
	return tokens
}

// ParseListingDate returns the token two positions after the publish-date
// sentinel in the application-state token stream, or "" when either the
// block or the sentinel is absent.
func (s *Scraper) ParseListingDate() string {
	tokens := s.deepTokens()
	for i, t := range tokens {
		if t == publishDateSentinel && i+2 < len(tokens) {
			return tokens[i+2]
		}
	}
	return ""
}

// ParseAddress parses the street address from the page title and fills
// province and neighbourhood from the structured-data blocks.
func (s *Scraper) ParseAddress() (*models.Address, error) {
	addr, err := scraper.ParseAddressLine(s.Title())
	if err != nil {
		return nil, err
	}

	addr.Province = provinceFromBlocks(s.blocks)
	addr.Neighbourhood = neighbourhoodFromBlocks(s.blocks)
	return addr, nil
}

// ParsePrice reads the asking price from the structured-data blocks. Absent
// or non-numeric values leave the price nil.
func (s *Scraper) ParsePrice() *models.PriceInfo {
	return &models.PriceInfo{AskingPrice: askingPriceFromBlocks(s.blocks)}
}

// ParseProperty extracts the physical attributes from the feature table.
func (s *Scraper) ParseProperty() *models.PropertyInfo {
	info := &models.PropertyInfo{}

	info.LivingArea = firstInt(s.featureTable[labelLivingArea])
	info.NumRooms = firstInt(s.featureTable[labelNumRooms])

	if raw := strings.TrimSpace(s.featureTable[labelBuildYear]); buildYearPattern.MatchString(raw) {
		year, _ := strconv.Atoi(raw)
		info.BuildYear = &year
	}

	info.EnergyLabel = strings.TrimSpace(s.featureTable[labelEnergyLabel])

	raw := s.featureTable[labelHouseType]
	if raw == "" {
		raw = s.featureTable[labelApartmentType]
	}
	if raw != "" {
		raw = parenthetical.ReplaceAllString(raw, "")
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[:i]
		}
		info.PropertyType = strings.TrimSpace(raw)
	}

	return info
}

// ParseStatus resolves the feature-table status text against the known
// alias table.
func (s *Scraper) ParseStatus() (models.ListingStatus, error) {
	return models.StatusFromString(s.featureTable[labelStatus])
}

// Listing runs every extractor and assembles the result. Extractor failures
// are recorded as warnings and leave the corresponding field empty.
func (s *Scraper) Listing() *models.Listing {
	listing := &models.Listing{
		Source:    models.WebsiteFunda,
		URL:       s.url,
		ScrapedAt: time.Now(),
	}

	addr, err := s.ParseAddress()
	if err != nil {
		s.warn("Failed to parse address: %v", err)
	} else {
		listing.Address = addr
	}

	listing.Property = s.ParseProperty()
	listing.Price = s.ParsePrice()

	// Price per m² needs both the offer price and the living area.
	if listing.Price.AskingPrice != nil && listing.Property.LivingArea != nil && *listing.Property.LivingArea > 0 {
		per := *listing.Price.AskingPrice / float64(*listing.Property.LivingArea)
		listing.Price.AskingPricePerSquareMeter = &per
	}

	status, err := s.ParseStatus()
	if err != nil {
		s.warn("Failed to resolve listing status: %v", err)
	} else {
		listing.Status = status
	}

	listing.ListingDate = s.ParseListingDate()

	return listing
}

// firstInt returns the first integer run in text, or nil.
func firstInt(text string) *int {
	match := firstIntPattern.FindString(text)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}
