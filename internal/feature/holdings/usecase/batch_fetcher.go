// Package usecase implements quote synchronization and portfolio valuation for holdings.
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
	"portfolio_backend/internal/shared/ratelimiter"
)

// QuoteClient fetches the current price of one ticker from the external provider.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type QuoteClient interface {
	FetchPrice(ctx context.Context, ticker string) (float64, error)
}

// BatchResult is the outcome of one pass over a batch of holdings.
// Holdings and Results are positional: index i of each refers to input index i.
type BatchResult struct {
	Holdings  []entity.Holding
	Results   []entity.QuoteResult
	Cooldowns int
}

// Resolved returns the number of holdings whose price was fetched in this pass.
func (r BatchResult) Resolved() int {
	n := 0
	for _, q := range r.Results {
		if q.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of holdings whose fetch failed in this pass.
func (r BatchResult) Failed() int {
	return len(r.Results) - r.Resolved()
}

// BatchFetcher drives the QuoteClient sequentially across a batch while the
// rate limiter paces requests to stay under the provider limit.
type BatchFetcher struct {
	quotes      QuoteClient
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewBatchFetcher creates a BatchFetcher.
func NewBatchFetcher(quotes QuoteClient, rateLimiter ratelimiter.RateLimiterInterface) *BatchFetcher {
	return &BatchFetcher{quotes: quotes, rateLimiter: rateLimiter}
}

// FetchBatch fetches a price for every holding in order. A holding whose fetch
// succeeds gets its CurrentPrice replaced; a failed fetch leaves the previous
// value untouched. Failures never abort the batch, and the input slice is not
// modified.
//
// The batch is detached from the caller's cancellation: only the per-request
// timeout of the QuoteClient bounds the work.
func (bf *BatchFetcher) FetchBatch(ctx context.Context, holdings []entity.Holding) BatchResult {
	ctx = context.WithoutCancel(ctx)

	res := BatchResult{
		Holdings: make([]entity.Holding, len(holdings)),
		Results:  make([]entity.QuoteResult, len(holdings)),
	}
	copy(res.Holdings, holdings)

	for i := range res.Holdings {
		h := &res.Holdings[i]
		q := bf.fetchOne(ctx, h.Ticker)
		res.Results[i] = q
		if q.OK() {
			price := *q.Price
			h.CurrentPrice = &price
		} else {
			// 1銘柄の失敗でバッチを止めず、ログに残して次へ進む
			slog.Warn("failed to fetch quote",
				"holding_id", h.ID, "ticker", h.Ticker, "outcome", q.Outcome.String(), "error", q.Err)
		}

		if bf.rateLimiter.WaitIfNeeded(i) {
			res.Cooldowns++
		}
	}

	if failed := res.Failed(); failed > 0 {
		slog.Info("quote batch finished with failures",
			"total", len(holdings), "failed", failed, "cooldowns", res.Cooldowns)
	}
	return res
}

func (bf *BatchFetcher) fetchOne(ctx context.Context, ticker string) entity.QuoteResult {
	price, err := bf.quotes.FetchPrice(ctx, ticker)
	if err != nil {
		return entity.QuoteResult{Ticker: ticker, Outcome: classify(err), Err: err}
	}
	if price <= 0 {
		return entity.QuoteResult{Ticker: ticker, Outcome: entity.OutcomeProviderError, Err: domain.ErrProvider}
	}
	return entity.QuoteResult{Ticker: ticker, Price: &price, Outcome: entity.OutcomeSuccess}
}

// classify maps a QuoteClient error to an outcome. Errors that are neither
// provider nor transport errors count as transport failures.
func classify(err error) entity.Outcome {
	if errors.Is(err, domain.ErrProvider) {
		return entity.OutcomeProviderError
	}
	return entity.OutcomeTransportError
}
