package services

import (
	"fmt"

	"funda-scraper/models"
	"funda-scraper/utils"
)

// RunReport holds the aggregates computed over one scrape run.
type RunReport struct {
	TotalListings    int
	ListingsByStatus map[models.ListingStatus]int
	AverageAsking    float64
	AveragePerM2     float64
	MostExpensive    *models.Listing
}

// ReportService aggregates assembled listings into a run report.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate computes aggregates over the listings. Listings without a price
// are counted but excluded from the price averages.
func (s *ReportService) Generate(listings []*models.Listing) *RunReport {
	report := &RunReport{
		ListingsByStatus: make(map[models.ListingStatus]int),
	}

	var askingSum, perM2Sum float64
	var askingCount, perM2Count int

	for _, l := range listings {
		report.TotalListings++

		if l.Status != "" {
			report.ListingsByStatus[l.Status]++
		}

		if l.Price == nil || l.Price.AskingPrice == nil {
			continue
		}
		price := *l.Price.AskingPrice

		askingSum += price
		askingCount++

		if report.MostExpensive == nil || price > *report.MostExpensive.Price.AskingPrice {
			report.MostExpensive = l
		}

		if l.Price.AskingPricePerSquareMeter != nil {
			perM2Sum += *l.Price.AskingPricePerSquareMeter
			perM2Count++
		}
	}

	if askingCount > 0 {
		report.AverageAsking = askingSum / float64(askingCount)
	}
	if perM2Count > 0 {
		report.AveragePerM2 = perM2Sum / float64(perM2Count)
	}

	return report
}

// Print writes the report in human-readable form.
func (s *ReportService) Print(report *RunReport) {
	fmt.Println()
	fmt.Println("===== Scrape Report =====")
	fmt.Printf("Listings scraped:  %d\n", report.TotalListings)
	for status, count := range report.ListingsByStatus {
		fmt.Printf("  %-20s %d\n", status+":", count)
	}
	if report.AverageAsking > 0 {
		fmt.Printf("Average asking price:  € %.2f\n", report.AverageAsking)
	}
	if report.AveragePerM2 > 0 {
		fmt.Printf("Average price per m²:  € %.2f\n", report.AveragePerM2)
	}
	if report.MostExpensive != nil && report.MostExpensive.Address != nil {
		fmt.Printf("Most expensive:        %s (€ %.2f)\n",
			report.MostExpensive.Address, *report.MostExpensive.Price.AskingPrice)
	}
	fmt.Println("=========================")
}
