package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"funda-scraper/config"
	"funda-scraper/models"
	"funda-scraper/scraper"
	"funda-scraper/scraper/funda"
	"funda-scraper/services"
	"funda-scraper/storage"
	"funda-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Property Scraping System starting ===")
	logger.Info("Config — requests: %s | retries: %d | timeout: %v | delay: %v–%v",
		cfg.RequestFile, cfg.MaxRetries, cfg.RequestTimeout, cfg.MinDelay, cfg.MaxDelay)

	queue, err := storage.NewRequestQueue(cfg.RequestFile)
	if err != nil {
		logger.Error("Failed to load request queue: %v", err)
		os.Exit(1)
	}
	urls := queue.URLs()
	if len(urls) == 0 {
		logger.Error("Request queue is empty. Nothing to scrape.")
		os.Exit(1)
	}
	logger.Info("Loaded %d listing URLs", len(urls))

	client := scraper.NewRequestHandler(cfg.RequestTimeout, cfg.MaxRetries, cfg.RetryBaseDelay, logger)

	var cache *scraper.PageCache
	if cfg.CacheHTML {
		cache = scraper.NewPageCache(cfg.CacheDir, logger)
	}

	ctx := context.Background()
	listings := make([]*models.Listing, 0, len(urls))

	for i, url := range urls {
		if i > 0 {
			utils.RandomDelay(cfg.MinDelay, cfg.MaxDelay)
		}

		listing, err := scrapeOne(ctx, client, cache, url, logger)
		if err != nil {
			logger.Error("Scrape failed for %s: %v", url, err)
			continue
		}

		printListing(listing)
		listings = append(listings, listing)
	}

	if len(listings) == 0 {
		logger.Error("No listings were scraped. Exiting.")
		os.Exit(1)
	}

	if err := writeCSV(cfg.CSVOutputPath, listings); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Listings saved to %s", cfg.CSVOutputPath)
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			defer pgWriter.Close()
			if err := pgWriter.Write(listings); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Listings stored in PostgreSQL (table: listings)")
			}
		}
	}

	reportSvc := services.NewReportService(logger)
	reportSvc.Print(reportSvc.Generate(listings))
}

// scrapeOne fetches and extracts a single listing. Failures here never stop
// the loop over the remaining URLs.
func scrapeOne(ctx context.Context, client *scraper.RequestHandler, cache *scraper.PageCache, url string, logger *utils.Logger) (*models.Listing, error) {
	if !scraper.IsValidURL(url) {
		return nil, fmt.Errorf("%w: %q", scraper.ErrInvalidURL, url)
	}

	site, err := models.WebsiteFromURL(url)
	if err != nil {
		return nil, err
	}
	if site != models.WebsiteFunda {
		return nil, errors.New("no scraper implemented for " + string(site))
	}

	s, err := funda.New(ctx, client, cache, url, logger)
	if err != nil {
		return nil, err
	}

	listing := s.Listing()
	if n := len(s.Warnings()); n > 0 {
		logger.Debug("%d field(s) degraded for %s", n, url)
	}
	return listing, nil
}

func writeCSV(path string, listings []*models.Listing) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Write(listings)
}

func printListing(l *models.Listing) {
	fmt.Println()
	fmt.Printf("Listing: %s\n", l.URL)
	if l.Address != nil {
		fmt.Printf("  Address:      %s\n", l.Address)
		if l.Address.Neighbourhood != "" {
			fmt.Printf("  Neighbourhood: %s\n", l.Address.Neighbourhood)
		}
		if l.Address.Province != "" {
			fmt.Printf("  Province:     %s\n", l.Address.Province)
		}
	}
	if l.Price != nil && l.Price.AskingPrice != nil {
		fmt.Printf("  Asking price: € %.2f\n", *l.Price.AskingPrice)
		if l.Price.AskingPricePerSquareMeter != nil {
			fmt.Printf("  Price per m²: € %.2f\n", *l.Price.AskingPricePerSquareMeter)
		}
	}
	if p := l.Property; p != nil {
		if p.LivingArea != nil {
			fmt.Printf("  Living area:  %d m²\n", *p.LivingArea)
		}
		if p.NumRooms != nil {
			fmt.Printf("  Rooms:        %d\n", *p.NumRooms)
		}
		if p.BuildYear != nil {
			fmt.Printf("  Build year:   %d\n", *p.BuildYear)
		}
		if p.EnergyLabel != "" {
			fmt.Printf("  Energy label: %s\n", p.EnergyLabel)
		}
		if p.PropertyType != "" {
			fmt.Printf("  Type:         %s\n", p.PropertyType)
		}
	}
	if l.Status != "" {
		fmt.Printf("  Status:       %s\n", l.Status)
	}
	if l.ListingDate != "" {
		fmt.Printf("  Listed since: %s\n", l.ListingDate)
	}
}
