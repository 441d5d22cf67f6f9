// Package config はサーバー全体の設定を環境変数から読み込みます。
// DB・Redis・外部APIの設定は各パッケージの LoadConfig が担当します。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Quote providers selectable with QUOTE_PROVIDER.
const (
	ProviderFinnhub    = "finnhub"
	ProviderTwelveData = "twelvedata"
)

// Config holds server-wide settings.
type Config struct {
	Port             string        // HTTP listen port (PORT, default 5000)
	LogLevel         string        // debug|info|warn|error (LOG_LEVEL, default info)
	AllowedOrigins   []string      // CORS allow-list (CORS_ALLOWED_ORIGINS, CSV); empty allows every origin
	QuoteProvider    string        // finnhub|twelvedata (QUOTE_PROVIDER, default finnhub)
	HoldingsCacheTTL time.Duration // Redis read cache TTL (HOLDINGS_CACHE_TTL, default 30s)
	RefreshLockKey   string        // Redis key of the refresh lock (REFRESH_LOCK_KEY)
}

// Load reads the server configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:             getenv("PORT", "5000"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		AllowedOrigins:   splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		QuoteProvider:    strings.ToLower(getenv("QUOTE_PROVIDER", ProviderFinnhub)),
		HoldingsCacheTTL: 30 * time.Second,
		RefreshLockKey:   getenv("REFRESH_LOCK_KEY", "portfolio:refresh:lock"),
	}

	switch cfg.QuoteProvider {
	case ProviderFinnhub, ProviderTwelveData:
	default:
		return Config{}, fmt.Errorf("unknown QUOTE_PROVIDER %q (want %s or %s)", cfg.QuoteProvider, ProviderFinnhub, ProviderTwelveData)
	}

	if v := os.Getenv("HOLDINGS_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid HOLDINGS_CACHE_TTL %q", v)
		}
		cfg.HoldingsCacheTTL = ttl
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		// 末尾スラッシュ付きのオリジンはブラウザが送るOriginヘッダーと一致しない
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
