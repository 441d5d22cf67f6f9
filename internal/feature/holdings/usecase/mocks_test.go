package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
)

var ErrDB = errors.New("database error")

func ptr(f float64) *float64 { return &f }

// mockQuoteClient is a mock implementation of the QuoteClient interface.
type mockQuoteClient struct {
	mu             sync.Mutex
	FetchPriceFunc func(ctx context.Context, ticker string) (float64, error)
	Tickers        []string
}

func (m *mockQuoteClient) FetchPrice(ctx context.Context, ticker string) (float64, error) {
	m.mu.Lock()
	m.Tickers = append(m.Tickers, ticker)
	m.mu.Unlock()
	if m.FetchPriceFunc != nil {
		return m.FetchPriceFunc(ctx, ticker)
	}
	return 0, errors.New("FetchPriceFunc is not implemented")
}

// priceTable answers from a fixed ticker→price map; unknown tickers are provider errors.
func priceTable(prices map[string]float64) func(ctx context.Context, ticker string) (float64, error) {
	return func(ctx context.Context, ticker string) (float64, error) {
		p, ok := prices[ticker]
		if !ok {
			return 0, fmt.Errorf("%w: no quote for %s", domain.ErrProvider, ticker)
		}
		return p, nil
	}
}

// mockRateLimiter records every pacing call without sleeping.
type mockRateLimiter struct {
	every   int
	Indexes []int
	Waits   int
}

func (m *mockRateLimiter) WaitIfNeeded(i int) bool {
	m.Indexes = append(m.Indexes, i)
	if m.every > 0 && i != 0 && i%m.every == 0 {
		m.Waits++
		return true
	}
	return false
}

// mockHoldingStore is a mock implementation of the HoldingStore interface.
type mockHoldingStore struct {
	ListFunc            func(ctx context.Context) ([]entity.Holding, error)
	SetCurrentPriceFunc func(ctx context.Context, id uint, price float64) error
	FindByIDFunc        func(ctx context.Context, id uint) (*entity.Holding, error)
	CreateFunc          func(ctx context.Context, h *entity.Holding) error
	UpdateFunc          func(ctx context.Context, h entity.Holding) (int64, error)
	DeleteFunc          func(ctx context.Context, id uint) (int64, error)

	ListCalls   int
	PriceWrites map[uint]float64
}

func (m *mockHoldingStore) List(ctx context.Context) ([]entity.Holding, error) {
	m.ListCalls++
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockHoldingStore) SetCurrentPrice(ctx context.Context, id uint, price float64) error {
	if m.SetCurrentPriceFunc != nil {
		if err := m.SetCurrentPriceFunc(ctx, id, price); err != nil {
			return err
		}
	}
	if m.PriceWrites == nil {
		m.PriceWrites = map[uint]float64{}
	}
	m.PriceWrites[id] = price
	return nil
}

func (m *mockHoldingStore) FindByID(ctx context.Context, id uint) (*entity.Holding, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrHoldingNotFound
}

func (m *mockHoldingStore) Create(ctx context.Context, h *entity.Holding) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, h)
	}
	return nil
}

func (m *mockHoldingStore) Update(ctx context.Context, h entity.Holding) (int64, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, h)
	}
	return 1, nil
}

func (m *mockHoldingStore) Delete(ctx context.Context, id uint) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

// makeHoldings builds n holdings with tickers T0..T(n-1).
func makeHoldings(n int) []entity.Holding {
	hs := make([]entity.Holding, n)
	for i := range hs {
		hs[i] = entity.Holding{
			ID:       uint(i + 1),
			Name:     fmt.Sprintf("Company %d", i),
			Ticker:   fmt.Sprintf("T%d", i),
			Quantity: 1,
			BuyPrice: 10,
		}
	}
	return hs
}
