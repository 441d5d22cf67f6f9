// Package dto はholdingsフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

import "encoding/json"

// HoldingResponse は保有銘柄1件のレスポンスDTOです。
// フィールド名は既存フロントエンドとの互換のため buyPrice / current_price が混在しています。
type HoldingResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Ticker       string   `json:"ticker"`
	Quantity     int64    `json:"quantity"`
	BuyPrice     float64  `json:"buyPrice"`
	CurrentPrice *float64 `json:"current_price"` // 未取得の場合は null
}

// HoldingRequest は POST/PUT /stocks のリクエストボディです。
// current_price 以外はすべて必須です。
type HoldingRequest struct {
	Name         string   `json:"name" binding:"required"`
	Ticker       string   `json:"ticker" binding:"required"`
	Quantity     int64    `json:"quantity" binding:"required"`
	BuyPrice     float64  `json:"buyPrice" binding:"required"`
	CurrentPrice *float64 `json:"current_price"`
}

// CreatedHoldingResponse は POST /stocks の 201 レスポンスです。
type CreatedHoldingResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Ticker   string  `json:"ticker"`
	Quantity int64   `json:"quantity"`
	BuyPrice float64 `json:"buyPrice"`
}

// UpdatedRowsResponse は PUT /stocks/:id のレスポンスです。
type UpdatedRowsResponse struct {
	UpdatedRows int64 `json:"updatedRows"`
}

// DeletedRowsResponse は DELETE /stocks/:id のレスポンスです。
type DeletedRowsResponse struct {
	DeletedRows int64 `json:"deletedRows"`
}

// DistributionResponse はポートフォリオ構成比の1要素です。
type DistributionResponse struct {
	Name       string  `json:"name"`
	Ticker     string  `json:"ticker"`
	Value      json.Number `json:"value"` // 桁あふれしないよう decimal の文字列表現をそのまま数値として出力
	Percentage string  `json:"percentage"` // 小数点以下2桁の文字列（例: "30.77"）
}

// MetricsResponse は GET /portfolio-metrics のレスポンスです。
type MetricsResponse struct {
	TotalValue            json.Number            `json:"totalValue"`
	TopStock              *HoldingResponse       `json:"topStock"`
	PortfolioDistribution []DistributionResponse `json:"portfolioDistribution"`
}

// ErrorResponse はエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
