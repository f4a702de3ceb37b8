package services

import (
	"testing"

	"funda-scraper/models"
	"funda-scraper/utils"
)

func listingWithPrice(price float64, perM2 float64, status models.ListingStatus) *models.Listing {
	l := &models.Listing{
		Price:  &models.PriceInfo{AskingPrice: &price},
		Status: status,
	}
	if perM2 > 0 {
		l.Price.AskingPricePerSquareMeter = &perM2
	}
	return l
}

func TestReportGenerate(t *testing.T) {
	svc := NewReportService(utils.NewLogger())

	listings := []*models.Listing{
		listingWithPrice(400000, 4000, models.StatusAvailable),
		listingWithPrice(600000, 5000, models.StatusSold),
		{Status: models.StatusUnderOffer}, // no price
	}

	report := svc.Generate(listings)

	if report.TotalListings != 3 {
		t.Errorf("TotalListings = %d; want 3", report.TotalListings)
	}
	if report.AverageAsking != 500000 {
		t.Errorf("AverageAsking = %v; want 500000", report.AverageAsking)
	}
	if report.AveragePerM2 != 4500 {
		t.Errorf("AveragePerM2 = %v; want 4500", report.AveragePerM2)
	}
	if report.ListingsByStatus[models.StatusSold] != 1 {
		t.Errorf("sold count = %d; want 1", report.ListingsByStatus[models.StatusSold])
	}
	if report.MostExpensive == nil || *report.MostExpensive.Price.AskingPrice != 600000 {
		t.Error("MostExpensive should be the 600000 listing")
	}
}

func TestReportGenerateEmpty(t *testing.T) {
	svc := NewReportService(utils.NewLogger())
	report := svc.Generate(nil)

	if report.TotalListings != 0 || report.AverageAsking != 0 || report.MostExpensive != nil {
		t.Errorf("empty input produced non-empty report: %+v", report)
	}
}
