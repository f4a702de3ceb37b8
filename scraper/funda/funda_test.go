package funda

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"funda-scraper/models"
	"funda-scraper/utils"
)

const listingURL = "https://www.funda.nl/detail/koop/leiden/huis-vondellaan-26/43889182/"

const fixtureHTML = `<!DOCTYPE html>
<html>
<head>
<title>Huis te koop: Vondellaan 26 2332 AA Leiden [funda]</title>
<script type="application/ld+json">
{"@type":"Place","address":{"addressLocality":"Leiden","addressRegion":"Zuid-Holland"},"offers":{"price":450000}}
</script>
<script type="application/ld+json">
{"@type":"BreadcrumbList","itemListElement":[
  {"position":1,"item":{"name":"Koop"}},
  {"position":2,"item":{"name":"Leiden"}},
  {"position":3,"item":{"name":"Vogelwijk"}}
]}
</script>
<script id="__NUXT_DATA__" type="application/json">
["state",{"objectType":"koop"},"publishDate",17,"2024-05-17",["trailing",2]]
</script>
</head>
<body>
<h2>Kenmerken</h2>
<h3>Overdracht</h3>
<dl>
  <dt>Status</dt>
  <dd><span>Beschikbaar</span> <a href="#">Wat betekent dit?</a></dd>
  <dt>Aanvaarding</dt>
  <dd>In overleg</dd>
</dl>
<h3>Oppervlakten en inhoud</h3>
<dl>
  <dt>Wonen</dt>
  <dd>128 m²</dd>
</dl>
<h3>Indeling</h3>
<dl>
  <dt>Aantal kamers</dt>
  <dd>5 kamers (4 slaapkamers)</dd>
</dl>
<h3>Bouw</h3>
<dl>
  <dt>Soort woonhuis</dt>
  <dd>Eengezinswoning, tussenwoning (verspringend)</dd>
  <dt>Bouwjaar</dt>
  <dd>1998</dd>
</dl>
<h3>Energie</h3>
<dl>
  <dt>Energielabel</dt>
  <dd><span>A</span></dd>
</dl>
</body>
</html>`

func newFixtureScraper(t *testing.T) *Scraper {
	t.Helper()
	return FromHTML(listingURL, fixtureHTML, utils.NewLogger())
}

func TestFeatureTable(t *testing.T) {
	s := newFixtureScraper(t)

	tests := []struct {
		label string
		want  string
	}{
		{"Status", "Beschikbaar"}, // span text preferred over full dd text
		{"Aanvaarding", "In overleg"},
		{"Wonen", "128 m²"},
		{"Aantal kamers", "5 kamers (4 slaapkamers)"},
		{"Soort woonhuis", "Eengezinswoning, tussenwoning (verspringend)"},
		{"Bouwjaar", "1998"},
		{"Energielabel", "A"},
	}

	for _, tt := range tests {
		if got := s.FeatureTable()[tt.label]; got != tt.want {
			t.Errorf("FeatureTable()[%q] = %q; want %q", tt.label, got, tt.want)
		}
	}
}

func TestFeatureTableIsIdempotent(t *testing.T) {
	first := newFixtureScraper(t).FeatureTable()
	second := newFixtureScraper(t).FeatureTable()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("feature table differs between parses:\n%v\n%v", first, second)
	}
}

func TestFeatureTableDuplicateLabelOverwrites(t *testing.T) {
	html := `<html><body>
		<h3>First</h3><dl><dt>Status</dt><dd>Beschikbaar</dd></dl>
		<h3>Second</h3><dl><dt>Status</dt><dd>Verkocht</dd></dl>
	</body></html>`

	s := FromHTML(listingURL, html, utils.NewLogger())
	if got := s.FeatureTable()["Status"]; got != "Verkocht" {
		t.Errorf("FeatureTable()[\"Status\"] = %q; want later section to win", got)
	}
}

func TestParseAddress(t *testing.T) {
	s := newFixtureScraper(t)

	addr, err := s.ParseAddress()
	if err != nil {
		t.Fatalf("ParseAddress returned error: %v", err)
	}

	if addr.Street != "Vondellaan" || addr.Number != "26" || addr.ZipCode != "2332AA" || addr.City != "Leiden" {
		t.Errorf("ParseAddress = %+v; want Vondellaan 26 2332AA Leiden", addr)
	}
	if addr.Province != "Zuid-Holland" {
		t.Errorf("Province = %q; want from structured data", addr.Province)
	}
	if addr.Neighbourhood != "Vogelwijk" {
		t.Errorf("Neighbourhood = %q; want third breadcrumb entry", addr.Neighbourhood)
	}
}

func TestParsePrice(t *testing.T) {
	s := newFixtureScraper(t)

	price := s.ParsePrice()
	if price.AskingPrice == nil {
		t.Fatal("AskingPrice is nil; want 450000")
	}
	if *price.AskingPrice != 450000 {
		t.Errorf("AskingPrice = %v; want 450000", *price.AskingPrice)
	}
}

func TestParsePriceLastBlockWins(t *testing.T) {
	html := `<html><head><title>t</title>
		<script type="application/ld+json">{"offers":{"price":100}}</script>
		<script type="application/ld+json">{"offers":{"price":"250000"}}</script>
	</head><body></body></html>`

	s := FromHTML(listingURL, html, utils.NewLogger())
	price := s.ParsePrice()
	if price.AskingPrice == nil || *price.AskingPrice != 250000 {
		t.Errorf("AskingPrice = %v; want later block to win with 250000", price.AskingPrice)
	}
}

func TestParseProperty(t *testing.T) {
	s := newFixtureScraper(t)
	info := s.ParseProperty()

	if info.LivingArea == nil || *info.LivingArea != 128 {
		t.Errorf("LivingArea = %v; want 128", info.LivingArea)
	}
	if info.NumRooms == nil || *info.NumRooms != 5 {
		t.Errorf("NumRooms = %v; want 5", info.NumRooms)
	}
	if info.BuildYear == nil || *info.BuildYear != 1998 {
		t.Errorf("BuildYear = %v; want 1998", info.BuildYear)
	}
	if info.EnergyLabel != "A" {
		t.Errorf("EnergyLabel = %q; want A", info.EnergyLabel)
	}
	if info.PropertyType != "Eengezinswoning" {
		t.Errorf("PropertyType = %q; want first comma-segment without parentheticals", info.PropertyType)
	}
}

func TestParsePropertyBuildYearRejectsNonDigits(t *testing.T) {
	html := `<html><body><h3>Bouw</h3><dl>
		<dt>Bouwjaar</dt><dd>Na 1998</dd>
	</dl></body></html>`

	s := FromHTML(listingURL, html, utils.NewLogger())
	if got := s.ParseProperty().BuildYear; got != nil {
		t.Errorf("BuildYear = %d; want nil for non-digit value", *got)
	}
}

func TestParseStatus(t *testing.T) {
	s := newFixtureScraper(t)

	status, err := s.ParseStatus()
	if err != nil {
		t.Fatalf("ParseStatus returned error: %v", err)
	}
	if status != models.StatusAvailable {
		t.Errorf("ParseStatus = %q; want %q", status, models.StatusAvailable)
	}
}

func TestParseListingDate(t *testing.T) {
	s := newFixtureScraper(t)

	if got := s.ParseListingDate(); got != "2024-05-17" {
		t.Errorf("ParseListingDate = %q; want token two after sentinel", got)
	}
}

func TestParseListingDateMissingBlock(t *testing.T) {
	s := FromHTML(listingURL, "<html><head><title>t</title></head><body></body></html>", utils.NewLogger())
	if got := s.ParseListingDate(); got != "" {
		t.Errorf("ParseListingDate = %q; want empty when block absent", got)
	}
}

func TestListingAssembly(t *testing.T) {
	s := newFixtureScraper(t)
	listing := s.Listing()

	if listing.Source != models.WebsiteFunda {
		t.Errorf("Source = %q; want funda", listing.Source)
	}
	if listing.URL != listingURL {
		t.Errorf("URL = %q; want original URL", listing.URL)
	}
	if listing.Address == nil {
		t.Fatal("Address is nil")
	}
	if listing.Status != models.StatusAvailable {
		t.Errorf("Status = %q; want %q", listing.Status, models.StatusAvailable)
	}

	if listing.Price.AskingPricePerSquareMeter == nil {
		t.Fatal("AskingPricePerSquareMeter is nil; want asking price / living area")
	}
	want := 450000.0 / 128.0
	if math.Abs(*listing.Price.AskingPricePerSquareMeter-want) > 1e-9 {
		t.Errorf("AskingPricePerSquareMeter = %v; want %v", *listing.Price.AskingPricePerSquareMeter, want)
	}

	if len(s.Warnings()) != 0 {
		t.Errorf("Warnings = %v; want none for complete fixture", s.Warnings())
	}
}

func TestMissingStructuredDataDegrades(t *testing.T) {
	html := `<html><head><title>Koop: Dorpsstraat 1 1234AB Amsterdam</title></head>
	<body><h3>Overdracht</h3><dl><dt>Status</dt><dd>Verkocht</dd></dl></body></html>`

	s := FromHTML(listingURL, html, utils.NewLogger())

	price := s.ParsePrice()
	if price.AskingPrice != nil {
		t.Errorf("AskingPrice = %v; want nil without structured data", *price.AskingPrice)
	}

	addr, err := s.ParseAddress()
	if err != nil {
		t.Fatalf("ParseAddress returned error: %v", err)
	}
	if addr.Province != "" || addr.Neighbourhood != "" {
		t.Errorf("Province/Neighbourhood = %q/%q; want empty without structured data", addr.Province, addr.Neighbourhood)
	}

	listing := s.Listing()
	if listing.Price.AskingPricePerSquareMeter != nil {
		t.Error("AskingPricePerSquareMeter set; want nil when price is unknown")
	}
	if listing.Status != models.StatusSold {
		t.Errorf("Status = %q; want %q", listing.Status, models.StatusSold)
	}
}

func TestMalformedStructuredDataBlockIsWarned(t *testing.T) {
	html := `<html><head><title>Koop: Dorpsstraat 1 1234AB Amsterdam</title>
		<script type="application/ld+json">{not json</script>
	</head><body></body></html>`

	s := FromHTML(listingURL, html, utils.NewLogger())

	if price := s.ParsePrice(); price.AskingPrice != nil {
		t.Error("AskingPrice set; want nil for malformed structured data")
	}

	found := false
	for _, w := range s.Warnings() {
		if strings.Contains(w, "structured data") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v; want a structured-data warning", s.Warnings())
	}
}

func TestListingWithoutParsableTitle(t *testing.T) {
	s := FromHTML(listingURL, "<html><head><title>No address here</title></head><body></body></html>", utils.NewLogger())

	listing := s.Listing()
	if listing.Address != nil {
		t.Errorf("Address = %+v; want nil for unparsable title", listing.Address)
	}
	if len(s.Warnings()) == 0 {
		t.Error("Warnings empty; want address warning recorded")
	}
}
