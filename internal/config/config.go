package config

import (
	"os"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// eBay application credentials for the sync client
	EbayAppID      string
	EbayCertID     string
	EbayOAuthToken string
}

func Load() *Config {
	// Default MySQL connection string for local development
	defaultDSN := "root:optlisting@tcp(127.0.0.1:3306)/optlisting?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		EbayAppID:      getEnv("EBAY_APP_ID", ""),
		EbayCertID:     getEnv("EBAY_CERT_ID", ""),
		EbayOAuthToken: getEnv("EBAY_OAUTH_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
