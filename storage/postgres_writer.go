package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"funda-scraper/models"
)

// PostgresWriter persists assembled listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id            SERIAL PRIMARY KEY,
			source        VARCHAR(50) NOT NULL,
			url           TEXT        UNIQUE NOT NULL,
			street        TEXT        NOT NULL DEFAULT '',
			number        TEXT        NOT NULL DEFAULT '',
			zip_code      VARCHAR(10) NOT NULL DEFAULT '',
			city          TEXT        NOT NULL DEFAULT '',
			neighbourhood TEXT        NOT NULL DEFAULT '',
			province      TEXT        NOT NULL DEFAULT '',
			asking_price  NUMERIC(12,2),
			price_per_m2  NUMERIC(10,2),
			living_area   INTEGER,
			num_rooms     INTEGER,
			build_year    INTEGER,
			energy_label  VARCHAR(10) NOT NULL DEFAULT '',
			property_type TEXT        NOT NULL DEFAULT '',
			status        VARCHAR(30) NOT NULL DEFAULT '',
			listing_date  TEXT        NOT NULL DEFAULT '',
			scraped_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_city   ON listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	`)
	return err
}

// Write upserts listings keyed by URL; a re-scrape refreshes the stored row.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	stmt := `
		INSERT INTO listings (
			source, url, street, number, zip_code, city, neighbourhood, province,
			asking_price, price_per_m2, living_area, num_rooms, build_year,
			energy_label, property_type, status, listing_date, scraped_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (url) DO UPDATE SET
			asking_price = EXCLUDED.asking_price,
			price_per_m2 = EXCLUDED.price_per_m2,
			status       = EXCLUDED.status,
			listing_date = EXCLUDED.listing_date,
			scraped_at   = EXCLUDED.scraped_at`

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

		_, err := pw.db.Exec(stmt,
			string(l.Source), l.URL,
			addr.Street, addr.Number, addr.ZipCode, addr.City, addr.Neighbourhood, addr.Province,
			nullFloat(price.AskingPrice), nullFloat(price.AskingPricePerSquareMeter),
			nullInt(prop.LivingArea), nullInt(prop.NumRooms), nullInt(prop.BuildYear),
			prop.EnergyLabel, prop.PropertyType, string(l.Status), l.ListingDate, l.ScrapedAt,
		)
		if err != nil {
			return fmt.Errorf("postgres: insert %s: %w", l.URL, err)
		}
	}

	return nil
}

// Close releases the database connection pool.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
