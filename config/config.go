package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RequestFile string
	CacheDir    string
	CacheHTML   bool

	RequestTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration

	MinDelay time.Duration
	MaxDelay time.Duration

	CSVOutputPath string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		RequestFile: getEnv("REQUEST_FILE", "requests.json"),
		CacheDir:    getEnv("CACHE_DIR", "cached_pages"),
		CacheHTML:   getEnvBool("CACHE_HTML", true),

		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelay: time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 2000)) * time.Millisecond,

		MinDelay: time.Duration(getEnvInt("MIN_DELAY_MS", 1000)) * time.Millisecond,
		MaxDelay: time.Duration(getEnvInt("MAX_DELAY_MS", 5000)) * time.Millisecond,

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "property_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
