package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"funda-scraper/models"
)

// CSVWriter writes assembled listings to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"source", "url", "street", "number", "zip_code", "city", "neighbourhood", "province",
		"asking_price", "price_per_m2", "living_area", "num_rooms", "build_year",
		"energy_label", "property_type", "status", "listing_date", "scraped_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	for _, l := range listings {
		addr := l.Address
		if addr == nil {
			addr = &models.Address{}
		}
		price := l.Price
		if price == nil {
			price = &models.PriceInfo{}
		}
		prop := l.Property
		if prop == nil {
			prop = &models.PropertyInfo{}
		}

		row := []string{
			string(l.Source),
			l.URL,
			addr.Street,
			addr.Number,
			addr.ZipCode,
			addr.City,
			addr.Neighbourhood,
			addr.Province,
			floatField(price.AskingPrice),
			floatField(price.AskingPricePerSquareMeter),
			intField(prop.LivingArea),
			intField(prop.NumRooms),
			intField(prop.BuildYear),
			prop.EnergyLabel,
			prop.PropertyType,
			string(l.Status),
			l.ListingDate,
			l.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func floatField(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func intField(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
