package usecase

import (
	"context"
	"fmt"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
)

// HoldingRepository is the minimal storage surface the quote synchronization needs.
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type HoldingRepository interface {
	// List returns every stored holding in ID order.
	List(ctx context.Context) ([]entity.Holding, error)
	// SetCurrentPrice stores the latest price for one holding.
	SetCurrentPrice(ctx context.Context, id uint, price float64) error
}

// HoldingStore extends HoldingRepository with the CRUD operations behind the HTTP API.
type HoldingStore interface {
	HoldingRepository
	FindByID(ctx context.Context, id uint) (*entity.Holding, error)
	Create(ctx context.Context, h *entity.Holding) error
	// Update replaces every field of the holding with ID h.ID and returns the affected row count.
	Update(ctx context.Context, h entity.Holding) (int64, error)
	// Delete removes the holding and returns the affected row count.
	Delete(ctx context.Context, id uint) (int64, error)
}

// PortfolioUsecase serves the caller-facing portfolio operations.
type PortfolioUsecase struct {
	store   HoldingStore
	fetcher *BatchFetcher
}

// NewPortfolioUsecase creates a PortfolioUsecase.
func NewPortfolioUsecase(store HoldingStore, fetcher *BatchFetcher) *PortfolioUsecase {
	return &PortfolioUsecase{store: store, fetcher: fetcher}
}

// GetEnrichedHoldings loads every holding and runs one quote pass over them.
// Fetched prices are returned to the caller but not written back; that is the
// refresh cycle's job.
func (u *PortfolioUsecase) GetEnrichedHoldings(ctx context.Context) ([]entity.Holding, error) {
	hs, err := u.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list holdings: %w", domain.ErrStorage, err)
	}
	return u.fetcher.FetchBatch(ctx, hs).Holdings, nil
}

// GetPortfolioMetrics runs one quote pass and aggregates the result.
func (u *PortfolioUsecase) GetPortfolioMetrics(ctx context.Context) (entity.PortfolioSnapshot, error) {
	hs, err := u.GetEnrichedHoldings(ctx)
	if err != nil {
		return entity.PortfolioSnapshot{}, err
	}
	return Aggregate(hs), nil
}

// GetHolding returns one holding without fetching a quote.
func (u *PortfolioUsecase) GetHolding(ctx context.Context, id uint) (*entity.Holding, error) {
	return u.store.FindByID(ctx, id)
}

// CreateHolding validates and stores a new holding. The stored ID is set on h.
func (u *PortfolioUsecase) CreateHolding(ctx context.Context, h *entity.Holding) error {
	h.Normalize()
	if err := h.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidHolding, err)
	}
	return u.store.Create(ctx, h)
}

// UpdateHolding replaces every field of an existing holding, including the
// current price (nil clears it).
func (u *PortfolioUsecase) UpdateHolding(ctx context.Context, h entity.Holding) (int64, error) {
	h.Normalize()
	if err := h.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidHolding, err)
	}
	return u.store.Update(ctx, h)
}

// DeleteHolding removes a holding.
func (u *PortfolioUsecase) DeleteHolding(ctx context.Context, id uint) (int64, error) {
	return u.store.Delete(ctx, id)
}
