// Package handler はholdingsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/feature/holdings/domain"
	"portfolio_backend/internal/feature/holdings/domain/entity"
	"portfolio_backend/internal/feature/holdings/transport/http/dto"
)

// WelcomeMessage is the plain-text body of GET /.
const WelcomeMessage = "Welcome to the Stock Portfolio Tracker"

// msgFieldsRequired はリクエストボディの必須項目が欠けている場合のエラーメッセージです。
const msgFieldsRequired = "All fields are required except current_price."

// PortfolioUsecase はポートフォリオ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PortfolioUsecase interface {
	GetEnrichedHoldings(ctx context.Context) ([]entity.Holding, error)
	GetPortfolioMetrics(ctx context.Context) (entity.PortfolioSnapshot, error)
	GetHolding(ctx context.Context, id uint) (*entity.Holding, error)
	CreateHolding(ctx context.Context, h *entity.Holding) error
	UpdateHolding(ctx context.Context, h entity.Holding) (int64, error)
	DeleteHolding(ctx context.Context, id uint) (int64, error)
}

// HoldingHandler は保有銘柄とポートフォリオ指標のHTTPリクエストを処理します。
type HoldingHandler struct {
	uc PortfolioUsecase
}

// NewHoldingHandler は指定されたusecaseでHoldingHandlerを生成します。
func NewHoldingHandler(uc PortfolioUsecase) *HoldingHandler {
	return &HoldingHandler{uc: uc}
}

// Welcome は GET / に固定のテキストを返します。
func (h *HoldingHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, WelcomeMessage)
}

// ListHoldings は最新の株価で補完した保有銘柄一覧を返します。
//
// GET /stocks
func (h *HoldingHandler) ListHoldings(c *gin.Context) {
	hs, err := h.uc.GetEnrichedHoldings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]dto.HoldingResponse, 0, len(hs))
	for _, x := range hs {
		out = append(out, toHoldingResponse(x))
	}
	c.JSON(http.StatusOK, out)
}

// GetHolding は保存済みの保有銘柄1件を返します（株価は取得しません）。
//
// GET /stocks/:id
func (h *HoldingHandler) GetHolding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	hd, err := h.uc.GetHolding(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHoldingResponse(*hd))
}

// CreateHolding は保有銘柄を登録します。
//
// POST /stocks
func (h *HoldingHandler) CreateHolding(c *gin.Context) {
	var req dto.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgFieldsRequired})
		return
	}

	// 登録時の current_price は無視し、次回の価格更新に任せる
	hd := entity.Holding{
		Name:     req.Name,
		Ticker:   req.Ticker,
		Quantity: req.Quantity,
		BuyPrice: req.BuyPrice,
	}
	if err := h.uc.CreateHolding(c.Request.Context(), &hd); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedHoldingResponse{
		ID:       hd.ID,
		Name:     hd.Name,
		Ticker:   hd.Ticker,
		Quantity: hd.Quantity,
		BuyPrice: hd.BuyPrice,
	})
}

// UpdateHolding は保有銘柄の全項目を置き換えます。
//
// PUT /stocks/:id
func (h *HoldingHandler) UpdateHolding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgFieldsRequired})
		return
	}

	n, err := h.uc.UpdateHolding(c.Request.Context(), entity.Holding{
		ID:           id,
		Name:         req.Name,
		Ticker:       req.Ticker,
		Quantity:     req.Quantity,
		BuyPrice:     req.BuyPrice,
		CurrentPrice: req.CurrentPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UpdatedRowsResponse{UpdatedRows: n})
}

// DeleteHolding は保有銘柄を削除します。
//
// DELETE /stocks/:id
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	n, err := h.uc.DeleteHolding(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeletedRowsResponse{DeletedRows: n})
}

// GetPortfolioMetrics は評価総額・最大含み益銘柄・構成比を返します。
//
// GET /portfolio-metrics
func (h *HoldingHandler) GetPortfolioMetrics(c *gin.Context) {
	snap, err := h.uc.GetPortfolioMetrics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := dto.MetricsResponse{
		TotalValue:            json.Number(snap.TotalValue.String()),
		PortfolioDistribution: make([]dto.DistributionResponse, 0, len(snap.Distribution)),
	}
	if snap.TopPerformer != nil {
		top := toHoldingResponse(*snap.TopPerformer)
		out.TopStock = &top
	}
	for _, d := range snap.Distribution {
		out.PortfolioDistribution = append(out.PortfolioDistribution, dto.DistributionResponse{
			Name:       d.Name,
			Ticker:     d.Ticker,
			Value:      json.Number(d.Value.String()),
			Percentage: d.Percentage.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, out)
}

func toHoldingResponse(x entity.Holding) dto.HoldingResponse {
	return dto.HoldingResponse{
		ID:           x.ID,
		Name:         x.Name,
		Ticker:       x.Ticker,
		Quantity:     x.Quantity,
		BuyPrice:     x.BuyPrice,
		CurrentPrice: x.CurrentPrice,
	}
}

// parseID reads the :id path parameter and writes a 400 when it is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidHolding):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrHoldingNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
