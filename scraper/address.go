package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"funda-scraper/models"
)

// ErrInvalidURL is returned when a scrape target is not a well-formed
// absolute URL.
var ErrInvalidURL = errors.New("invalid url")

// ErrAddressParse is returned when a page title does not match the expected
// address pattern.
var ErrAddressParse = errors.New("could not parse address from title")

// titlePattern matches titles like
// "Koop: Dorpsstraat 1 1234AB Amsterdam [funda]": street, house number,
// zip code (internal space tolerated), city.
var titlePattern = regexp.MustCompile(`(?:.*?):\s*([\w\s]+?)\s+(\d+)\s*(\d{4}\s*[A-Z]{2})\s*([A-Za-z\s]+?)(?:\s*\[funda\])?\s*$`)

// ParseAddressLine parses a page title into structured address components.
// The zip code is normalized to contain no internal space.
func ParseAddressLine(title string) (*models.Address, error) {
	match := titlePattern.FindStringSubmatch(title)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrAddressParse, title)
	}

	return models.NewAddress(
		strings.TrimSpace(match[1]),
		match[2],
		strings.ReplaceAll(match[3], " ", ""),
		strings.TrimSpace(match[4]),
	), nil
}
