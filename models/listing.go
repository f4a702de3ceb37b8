package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Website identifies which property portal a listing came from.
type Website string

const (
	WebsiteFunda    Website = "funda"
	WebsiteHuislijn Website = "huislijn"
)

// ErrUnknownWebsite is returned when a URL does not belong to any supported portal.
var ErrUnknownWebsite = errors.New("unknown website")

// WebsiteFromURL resolves the portal from a hostname substring match.
func WebsiteFromURL(url string) (Website, error) {
	switch {
	case strings.Contains(url, "funda"):
		return WebsiteFunda, nil
	case strings.Contains(url, "huislijn"):
		return WebsiteHuislijn, nil
	}
	return "", fmt.Errorf("%w in url: %s", ErrUnknownWebsite, url)
}

// Address holds the components of a Dutch property address.
// ZipCode is always stored without the internal space ("1234AB").
type Address struct {
	Street        string
	Number        string
	ZipCode       string
	City          string
	Neighbourhood string
	Province      string
	Country       string
}

// NewAddress returns an Address with the country defaulted.
func NewAddress(street, number, zipCode, city string) *Address {
	return &Address{
		Street:  street,
		Number:  number,
		ZipCode: zipCode,
		City:    city,
		Country: "The Netherlands",
	}
}

func (a *Address) String() string {
	return fmt.Sprintf("%s %s, %s %s", a.Street, a.Number, a.ZipCode, a.City)
}

// PriceInfo holds price data for a listing. Nil fields are unknown.
type PriceInfo struct {
	AskingPrice               *float64
	AskingPricePerSquareMeter *float64
	SalePrice                 *float64
}

// PropertyInfo holds the physical attributes of a property.
// Nil / empty fields were not present on the page.
type PropertyInfo struct {
	EnergyLabel  string
	LivingArea   *int // m²
	NumRooms     *int
	BuildYear    *int
	PropertyType string
}

// Listing is the assembled record for one scraped page. It is immutable
// after assembly; nil sub-records mean that extractor degraded.
type Listing struct {
	Address     *Address
	Property    *PropertyInfo
	Price       *PriceInfo
	Status      ListingStatus
	ListingDate string
	Source      Website
	URL         string
	ScrapedAt   time.Time
}
