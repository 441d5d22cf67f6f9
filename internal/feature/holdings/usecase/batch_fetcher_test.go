package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
)

func TestBatchFetcher_FetchBatch_Cooldowns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n             int
		wantCooldowns int
	}{
		{n: 0, wantCooldowns: 0},
		{n: 1, wantCooldowns: 0},
		{n: 30, wantCooldowns: 0},
		{n: 31, wantCooldowns: 1},
		{n: 61, wantCooldowns: 2},
		{n: 100, wantCooldowns: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			t.Parallel()

			quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
				return 1, nil
			}}
			rl := &mockRateLimiter{every: 30}

			res := NewBatchFetcher(quotes, rl).FetchBatch(context.Background(), makeHoldings(tt.n))

			assert.Equal(t, tt.wantCooldowns, res.Cooldowns)
			assert.Equal(t, tt.wantCooldowns, rl.Waits)
			assert.Len(t, rl.Indexes, tt.n, "pacer must be consulted once per request")
		})
	}
}

func TestBatchFetcher_FetchBatch_CooldownsIgnoreOutcomes(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
		return 0, fmt.Errorf("%w: connection refused", domain.ErrTransport)
	}}
	rl := &mockRateLimiter{every: 30}

	res := NewBatchFetcher(quotes, rl).FetchBatch(context.Background(), makeHoldings(61))

	assert.Equal(t, 2, res.Cooldowns)
	assert.Equal(t, 61, res.Failed())
}

func TestBatchFetcher_FetchBatch_PreservesOrderAndLength(t *testing.T) {
	t.Parallel()

	hs := makeHoldings(5)
	hs[3].CurrentPrice = ptr(42)

	quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
		switch ticker {
		case "T1", "T3":
			return 0, fmt.Errorf("%w: timeout", domain.ErrTransport)
		case "T2":
			return 0, fmt.Errorf("%w: missing price", domain.ErrProvider)
		}
		return 100, nil
	}}

	res := NewBatchFetcher(quotes, &mockRateLimiter{}).FetchBatch(context.Background(), hs)

	require.Len(t, res.Holdings, 5)
	require.Len(t, res.Results, 5)
	for i := range hs {
		assert.Equal(t, hs[i].ID, res.Holdings[i].ID)
		assert.Equal(t, hs[i].Ticker, res.Results[i].Ticker)
	}
	assert.Equal(t, []string{"T0", "T1", "T2", "T3", "T4"}, quotes.Tickers)

	assert.Equal(t, 100.0, *res.Holdings[0].CurrentPrice)
	assert.Nil(t, res.Holdings[1].CurrentPrice, "unresolved holding stays absent")
	assert.Nil(t, res.Holdings[2].CurrentPrice)
	assert.Equal(t, 42.0, *res.Holdings[3].CurrentPrice, "stale price is retained on failure")
	assert.Equal(t, 100.0, *res.Holdings[4].CurrentPrice)

	assert.Equal(t, entity.OutcomeSuccess, res.Results[0].Outcome)
	assert.Equal(t, entity.OutcomeTransportError, res.Results[1].Outcome)
	assert.Equal(t, entity.OutcomeProviderError, res.Results[2].Outcome)
	assert.Equal(t, 2, res.Resolved())
	assert.Equal(t, 3, res.Failed())
}

func TestBatchFetcher_FetchBatch_OneProviderFailureOfThree(t *testing.T) {
	t.Parallel()

	hs := []entity.Holding{
		{ID: 1, Ticker: "AAPL", Quantity: 1, BuyPrice: 1},
		{ID: 2, Ticker: "BOGUS", Quantity: 1, BuyPrice: 1},
		{ID: 3, Ticker: "MSFT", Quantity: 1, BuyPrice: 1},
	}
	quotes := &mockQuoteClient{FetchPriceFunc: priceTable(map[string]float64{"AAPL": 190.5, "MSFT": 410.25})}

	res := NewBatchFetcher(quotes, &mockRateLimiter{}).FetchBatch(context.Background(), hs)

	require.NotNil(t, res.Holdings[0].CurrentPrice)
	require.NotNil(t, res.Holdings[2].CurrentPrice)
	assert.Equal(t, 190.5, *res.Holdings[0].CurrentPrice)
	assert.Nil(t, res.Holdings[1].CurrentPrice)
	assert.Equal(t, 410.25, *res.Holdings[2].CurrentPrice)
	assert.True(t, errors.Is(res.Results[1].Err, domain.ErrProvider))
}

func TestBatchFetcher_FetchBatch_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	hs := makeHoldings(2)
	quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
		return 7, nil
	}}

	res := NewBatchFetcher(quotes, &mockRateLimiter{}).FetchBatch(context.Background(), hs)

	assert.Nil(t, hs[0].CurrentPrice)
	assert.Nil(t, hs[1].CurrentPrice)
	assert.Equal(t, 7.0, *res.Holdings[0].CurrentPrice)
}

func TestBatchFetcher_FetchBatch_NonPositivePriceIsProviderError(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
		return 0, nil
	}}

	res := NewBatchFetcher(quotes, &mockRateLimiter{}).FetchBatch(context.Background(), makeHoldings(1))

	assert.Equal(t, entity.OutcomeProviderError, res.Results[0].Outcome)
	assert.Nil(t, res.Holdings[0].CurrentPrice)
}

func TestBatchFetcher_FetchBatch_UnclassifiedErrorIsTransport(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
		return 0, errors.New("boom")
	}}

	res := NewBatchFetcher(quotes, &mockRateLimiter{}).FetchBatch(context.Background(), makeHoldings(1))

	assert.Equal(t, entity.OutcomeTransportError, res.Results[0].Outcome)
}

func TestBatchFetcher_FetchBatch_IgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	quotes := &mockQuoteClient{FetchPriceFunc: func(ctx context.Context, ticker string) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 3, nil
	}}

	res := NewBatchFetcher(quotes, &mockRateLimiter{}).FetchBatch(ctx, makeHoldings(3))

	assert.Equal(t, 3, res.Resolved())
}
