package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
)

func ptr(f float64) *float64 { return &f }

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// every pooled connection to :memory: would get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&HoldingModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedHolding creates a test holding in the database.
func seedHolding(t *testing.T, db *gorm.DB, ticker string, current *float64) *HoldingModel {
	t.Helper()

	m := &HoldingModel{
		Name:         ticker + " Inc.",
		Ticker:       ticker,
		Quantity:     10,
		BuyPrice:     100.0,
		CurrentPrice: current,
	}
	require.NoError(t, db.Create(m).Error, "failed to seed holding")
	return m
}

func TestNewHoldingRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewHoldingRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestHoldingGorm_List(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewHoldingRepository(db)

	hs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hs)

	seedHolding(t, db, "AAPL", nil)
	seedHolding(t, db, "MSFT", ptr(410.5))
	seedHolding(t, db, "NVDA", nil)

	hs, err = repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.Equal(t, "AAPL", hs[0].Ticker)
	assert.Equal(t, "MSFT", hs[1].Ticker)
	assert.Equal(t, "NVDA", hs[2].Ticker)
	assert.Nil(t, hs[0].CurrentPrice)
	require.NotNil(t, hs[1].CurrentPrice)
	assert.Equal(t, 410.5, *hs[1].CurrentPrice)
	assert.True(t, hs[0].ID < hs[1].ID && hs[1].ID < hs[2].ID, "ordered by id")
}

func TestHoldingGorm_FindByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewHoldingRepository(db)
	m := seedHolding(t, db, "AAPL", ptr(190))

	h, err := repo.FindByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", h.Ticker)
	assert.Equal(t, "AAPL Inc.", h.Name)
	assert.Equal(t, int64(10), h.Quantity)
	assert.Equal(t, 100.0, h.BuyPrice)
	assert.Equal(t, 190.0, *h.CurrentPrice)

	_, err = repo.FindByID(context.Background(), m.ID+100)
	assert.ErrorIs(t, err, domain.ErrHoldingNotFound)
}

func TestHoldingGorm_SetCurrentPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		price   float64
		missing bool
		wantErr error
	}{
		{name: "success: set first price", price: 123.45},
		{name: "error: unknown holding", price: 1, missing: true, wantErr: domain.ErrHoldingNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewHoldingRepository(db)
			m := seedHolding(t, db, "AAPL", nil)

			id := m.ID
			if tt.missing {
				id += 100
			}
			err := repo.SetCurrentPrice(context.Background(), id, tt.price)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var got HoldingModel
			require.NoError(t, db.First(&got, m.ID).Error)
			require.NotNil(t, got.CurrentPrice)
			assert.Equal(t, tt.price, *got.CurrentPrice)
			assert.Equal(t, 100.0, got.BuyPrice, "other columns untouched")
		})
	}
}

func TestHoldingGorm_SetCurrentPrice_Idempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewHoldingRepository(db)
	m := seedHolding(t, db, "AAPL", ptr(1))

	require.NoError(t, repo.SetCurrentPrice(context.Background(), m.ID, 200))
	once, err := repo.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.SetCurrentPrice(context.Background(), m.ID, 200))
	twice, err := repo.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestHoldingGorm_Create(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewHoldingRepository(db)

	h := &entity.Holding{ID: 999, Name: "Apple", Ticker: "AAPL", Quantity: 5, BuyPrice: 150}
	require.NoError(t, repo.Create(context.Background(), h))
	assert.NotZero(t, h.ID)
	assert.NotEqual(t, uint(999), h.ID, "id is assigned by storage")

	var count int64
	db.Model(&HoldingModel{}).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err := repo.FindByID(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentPrice)
}

func TestHoldingGorm_Update(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewHoldingRepository(db)
	m := seedHolding(t, db, "AAPL", ptr(190))

	n, err := repo.Update(context.Background(), entity.Holding{
		ID: m.ID, Name: "Apple", Ticker: "AAPL", Quantity: 20, BuyPrice: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple", got.Name)
	assert.Equal(t, int64(20), got.Quantity)
	assert.Equal(t, 120.0, got.BuyPrice)
	assert.Nil(t, got.CurrentPrice, "nil current price clears the column")

	n, err = repo.Update(context.Background(), entity.Holding{ID: m.ID + 100, Name: "X", Ticker: "X", Quantity: 1, BuyPrice: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestHoldingGorm_Delete(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewHoldingRepository(db)
	m := seedHolding(t, db, "AAPL", nil)

	n, err := repo.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
