// Package finnhub provides a quote client for the Finnhub stock market API.
package finnhub

import (
	"os"
	"time"
)

// DefaultBaseURL is the public Finnhub REST endpoint.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey  string        // API token sent as the "token" query parameter
	BaseURL string        // Base URL for the API (e.g., "https://finnhub.io/api/v1")
	Timeout time.Duration // HTTP request timeout for a single quote
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("FINNHUB_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("FINNHUB_API_KEY"),
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}
