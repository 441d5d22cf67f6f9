// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"portfolio_backend/internal/app/config"
	"portfolio_backend/internal/feature/holdings/usecase"
	"portfolio_backend/internal/platform/externalapi/finnhub"
	"portfolio_backend/internal/platform/externalapi/twelvedata"
	infrahttp "portfolio_backend/internal/platform/http"
)

// NewQuoteClient creates the quote client for the configured provider with a tuned HTTP client.
func NewQuoteClient(provider string) (usecase.QuoteClient, error) {
	switch provider {
	case config.ProviderFinnhub:
		cfg := finnhub.LoadConfig()
		return finnhub.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout)), nil
	case config.ProviderTwelveData:
		cfg := twelvedata.LoadConfig()
		return twelvedata.NewTwelveDataQuotes(cfg, infrahttp.NewHTTPClient(cfg.Timeout)), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", provider)
	}
}
