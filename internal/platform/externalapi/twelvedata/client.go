package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/usecase"
	"portfolio_backend/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataQuotes はTwelve Data外部APIから最新価格を取得するQuoteClient実装です。
type TwelveDataQuotes struct {
	cfg    Config
	client *http.Client
}

// TwelveDataQuotesがQuoteClientを実装していることをコンパイル時に検証します。
var _ usecase.QuoteClient = (*TwelveDataQuotes)(nil)

// NewTwelveDataQuotes は指定された設定とHTTPクライアントでTwelveDataQuotesの新しいインスタンスを生成します。
func NewTwelveDataQuotes(cfg Config, client *http.Client) *TwelveDataQuotes {
	return &TwelveDataQuotes{cfg: cfg, client: client}
}

// FetchPrice はTwelve Data APIの/priceエンドポイントから最新価格を取得します。
func (t *TwelveDataQuotes) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/price?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: twelvedata %s: build request: %w", domain.ErrTransport, ticker, err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: twelvedata %s: %w", domain.ErrTransport, ticker, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return 0, fmt.Errorf("%w: twelvedata %s: http %d", domain.ErrTransport, ticker, res.StatusCode)
	}

	var body dto.PriceResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: twelvedata %s: decode: %w", domain.ErrProvider, ticker, err)
	}
	// レート超過はHTTP 200 + code 429で返ってくる
	if body.Status == "error" {
		if body.Code == http.StatusTooManyRequests {
			return 0, fmt.Errorf("%w: twelvedata %s: %s", domain.ErrTransport, ticker, body.Message)
		}
		return 0, fmt.Errorf("%w: twelvedata %s: %s", domain.ErrProvider, ticker, body.Message)
	}

	p, err := strconv.ParseFloat(body.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: twelvedata %s: parse price %q: %w", domain.ErrProvider, ticker, body.Price, err)
	}
	if p <= 0 {
		return 0, fmt.Errorf("%w: twelvedata %s: non-positive price %v", domain.ErrProvider, ticker, p)
	}
	return p, nil
}
