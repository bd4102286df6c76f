package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
// It is built once in main and passed by value to the components that need it.
type Config struct {
	Port string

	// Dataset source. DatabaseURL takes precedence over DataFile when set.
	DataFile    string
	DatabaseURL string
	SalesTable  string

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string

	// Forecasting
	FitTimeout              time.Duration
	MaxSteps                int
	LegacyFrequencyFallback bool

	CORSAllowOrigins string
}

// Load reads configuration from the environment, loading a .env file first if one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return Config{
		Port: getEnvOrDefault("PORT", "3000"),

		DataFile:    getEnvOrDefault("DATA_FILE", "data/superstore.csv"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SalesTable:  getEnvOrDefault("SALES_TABLE", "sales_records"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash-lite"),

		FitTimeout:              time.Duration(getEnvInt("FORECAST_FIT_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxSteps:                getEnvInt("FORECAST_MAX_STEPS", 60),
		LegacyFrequencyFallback: getEnvBool("FORECAST_LEGACY_FREQUENCY_FALLBACK", false),

		CORSAllowOrigins: getEnvOrDefault("CORS_ALLOW_ORIGINS", "*"),
	}
}

// DataSource names where the dataset is loaded from.
func (c Config) DataSource() string {
	if c.DatabaseURL != "" {
		return "postgres"
	}
	return "csv"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid integer for %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️  Invalid boolean for %s=%q, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}
