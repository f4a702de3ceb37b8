package models

import (
	"errors"
	"fmt"
	"strings"
)

// ListingStatus is the sale status of a listing.
type ListingStatus string

const (
	StatusAvailable  ListingStatus = "Beschikbaar"
	StatusUnderOffer ListingStatus = "Onder bod"
	StatusSold       ListingStatus = "Verkocht"
)

var (
	// ErrEmptyStatus is returned when the status text is empty.
	ErrEmptyStatus = errors.New("cannot determine listing status from empty string")
	// ErrUnknownStatus is returned when the status text matches no known alias.
	ErrUnknownStatus = errors.New("no matching listing status")
)

// statusAliases maps each status to the lowercase phrases portals use for it.
var statusAliases = map[ListingStatus][]string{
	StatusAvailable:  {"beschikbaar", "available"},
	StatusUnderOffer: {"onder bod", "under offer"},
	StatusSold:       {"verkocht", "sold", "verkocht onder voorbehoud"},
}

// StatusFromString resolves free-text status to a ListingStatus. Matching is
// case- and surrounding-whitespace-insensitive.
func StatusFromString(text string) (ListingStatus, error) {
	if text == "" {
		return "", ErrEmptyStatus
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", ErrEmptyStatus
	}

	for status, aliases := range statusAliases {
		if text == strings.ToLower(string(status)) {
			return status, nil
		}
		for _, alias := range aliases {
			if text == alias {
				return status, nil
			}
		}
	}

	return "", fmt.Errorf("%w found for: %q", ErrUnknownStatus, text)
}
