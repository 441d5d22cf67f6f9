// Package adapters はholdingsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
	"portfolio_backend/internal/feature/holdings/usecase"

	"gorm.io/gorm"
)

type holdingGorm struct {
	db *gorm.DB
}

var _ usecase.HoldingStore = (*holdingGorm)(nil)

// NewHoldingRepository は指定されたDB接続でholdingGormリポジトリの新しいインスタンスを生成します。
func NewHoldingRepository(db *gorm.DB) *holdingGorm {
	return &holdingGorm{db: db}
}

// HoldingModel is the persisted row of a holding.
type HoldingModel struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:255;not null"`
	Ticker       string   `gorm:"size:32;not null;index"`
	Quantity     int64    `gorm:"not null"`
	BuyPrice     float64  `gorm:"not null"`
	CurrentPrice *float64 `gorm:"default:null"`
	CreatedAt    time.Time
}

func (HoldingModel) TableName() string {
	return "holdings"
}

func toModel(e entity.Holding) HoldingModel {
	return HoldingModel{
		ID:           e.ID,
		Name:         e.Name,
		Ticker:       e.Ticker,
		Quantity:     e.Quantity,
		BuyPrice:     e.BuyPrice,
		CurrentPrice: e.CurrentPrice,
	}
}

func toEntity(m HoldingModel) entity.Holding {
	return entity.Holding{
		ID:           m.ID,
		Name:         m.Name,
		Ticker:       m.Ticker,
		Quantity:     m.Quantity,
		BuyPrice:     m.BuyPrice,
		CurrentPrice: m.CurrentPrice,
	}
}

// List はID順にすべての保有銘柄を返します。
func (r *holdingGorm) List(ctx context.Context) ([]entity.Holding, error) {
	var rows []HoldingModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Holding, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// FindByID returns the holding with the given ID or domain.ErrHoldingNotFound.
func (r *holdingGorm) FindByID(ctx context.Context, id uint) (*entity.Holding, error) {
	var m HoldingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, err
	}
	h := toEntity(m)
	return &h, nil
}

// SetCurrentPrice overwrites the current price of one holding. Writing the same
// price twice leaves the row unchanged.
func (r *holdingGorm) SetCurrentPrice(ctx context.Context, id uint, price float64) error {
	res := r.db.WithContext(ctx).
		Model(&HoldingModel{}).
		Where("id = ?", id).
		Update("current_price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

// Create inserts h and sets its generated ID.
func (r *holdingGorm) Create(ctx context.Context, h *entity.Holding) error {
	m := toModel(*h)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	h.ID = m.ID
	return nil
}

// Update replaces every column of the holding, including a nil current price.
func (r *holdingGorm) Update(ctx context.Context, h entity.Holding) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&HoldingModel{}).
		Where("id = ?", h.ID).
		Select("name", "ticker", "quantity", "buy_price", "current_price").
		Updates(toModel(h))
	return res.RowsAffected, res.Error
}

// Delete removes the holding with the given ID.
func (r *holdingGorm) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&HoldingModel{}, id)
	return res.RowsAffected, res.Error
}
