package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPTimeout   time.Duration
	BrowserSettle time.Duration
	MaxRetries    int
	ChromeBin     string

	StockXQueries        []string
	StockXResultsPerPage int

	ExchangeRateURL      string
	ExchangeRateFallback float64

	PaymentProcessingRate float64
	TransactionFeeRate    float64
	ShippingUSD           float64

	MinProfitPLN  float64
	MaxVolatility float64

	MergedCSVPath        string
	OpportunitiesCSVPath string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		HTTPTimeout:   time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		BrowserSettle: time.Duration(getEnvInt("BROWSER_SETTLE_SECONDS", 2)) * time.Second,
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		StockXQueries:        getEnvList("STOCKX_QUERIES", "jordan"),
		StockXResultsPerPage: getEnvInt("STOCKX_RESULTS_PER_PAGE", 1000),

		ExchangeRateURL:      getEnv("EXCHANGE_RATE_URL", "http://api.nbp.pl/api/exchangerates/rates/A/USD/"),
		ExchangeRateFallback: getEnvFloat("EXCHANGE_RATE_FALLBACK", 4.0),

		PaymentProcessingRate: getEnvFloat("PAYMENT_PROCESSING_RATE", 0.03),
		TransactionFeeRate:    getEnvFloat("TRANSACTION_FEE_RATE", 0.09),
		ShippingUSD:           getEnvFloat("SHIPPING_USD", 5.45),

		MinProfitPLN:  getEnvFloat("MIN_PROFIT_PLN", 50),
		MaxVolatility: getEnvFloat("MAX_VOLATILITY", 1.0),

		MergedCSVPath:        getEnv("MERGED_CSV_PATH", "./output/merged.csv"),
		OpportunitiesCSVPath: getEnv("OPPORTUNITIES_CSV_PATH", "./output/opportunities.csv"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scanner"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scanner123"),
		PostgresDB:       getEnv("POSTGRES_DB", "arbitrage_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
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

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
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

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
