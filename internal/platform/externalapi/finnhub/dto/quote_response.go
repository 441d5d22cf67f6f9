// Package dto defines data transfer objects for the Finnhub API responses.
package dto

// QuoteResponse represents the JSON response from the Finnhub quote endpoint.
// Finnhub answers unknown symbols with 200 and all fields set to 0.
type QuoteResponse struct {
	Current       *float64 `json:"c"`
	Change        *float64 `json:"d"`
	PercentChange *float64 `json:"dp"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PreviousClose float64  `json:"pc"`
	Timestamp     int64    `json:"t"`
	Error         string   `json:"error,omitempty"`
}
