package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/usecase"
	"portfolio_backend/internal/platform/externalapi/finnhub/dto"
)

// Client は Finnhub の quote エンドポイントから現在値を取得する QuoteClient 実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

var _ usecase.QuoteClient = (*Client)(nil)

// NewClient creates a Client with the given configuration and HTTP client.
// The HTTP client's timeout bounds every quote request.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// FetchPrice returns the current price of ticker.
//
// Network failures, timeouts and non-2xx statuses are wrapped in
// domain.ErrTransport. A 2xx response without a positive numeric "c" field is
// wrapped in domain.ErrProvider.
func (c *Client) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("token", c.cfg.APIKey)
	u := fmt.Sprintf("%s/quote?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: finnhub %s: build request: %w", domain.ErrTransport, ticker, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: finnhub %s: %w", domain.ErrTransport, ticker, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return 0, fmt.Errorf("%w: finnhub %s: http %d", domain.ErrTransport, ticker, res.StatusCode)
	}

	var body dto.QuoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: finnhub %s: decode: %w", domain.ErrProvider, ticker, err)
	}
	if body.Error != "" {
		return 0, fmt.Errorf("%w: finnhub %s: %s", domain.ErrProvider, ticker, body.Error)
	}
	if body.Current == nil {
		return 0, fmt.Errorf("%w: finnhub %s: missing current price", domain.ErrProvider, ticker)
	}
	if *body.Current <= 0 {
		return 0, fmt.Errorf("%w: finnhub %s: no quote (c=%v)", domain.ErrProvider, ticker, *body.Current)
	}
	return *body.Current, nil
}
