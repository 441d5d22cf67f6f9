// Package entity defines the domain models for the holdings feature.
package entity

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Holding represents one tracked equity position.
// CurrentPrice is nil until the first successful quote fetch and keeps its last
// value when later fetches fail.
type Holding struct {
	ID           uint     // Opaque identifier assigned by storage
	Name         string   // Display name (e.g., "Apple Inc.")
	Ticker       string   // Upper-case ticker symbol (e.g., "AAPL")
	Quantity     int64    // Number of shares, always positive
	BuyPrice     float64  // Acquisition price per share, always positive
	CurrentPrice *float64 // Last resolved market price, nil if never resolved
}

// Normalize trims the text fields and upper-cases the ticker.
func (h *Holding) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	h.Ticker = strings.ToUpper(strings.TrimSpace(h.Ticker))
}

// Validate reports why h cannot be stored, or nil.
func (h Holding) Validate() error {
	switch {
	case h.Name == "":
		return fmt.Errorf("name is required")
	case h.Ticker == "":
		return fmt.Errorf("ticker is required")
	case h.Quantity <= 0:
		return fmt.Errorf("quantity must be positive, got %d", h.Quantity)
	case h.BuyPrice <= 0 || !finite(h.BuyPrice):
		return fmt.Errorf("buy price must be a positive finite number, got %v", h.BuyPrice)
	case h.CurrentPrice != nil && !finite(*h.CurrentPrice):
		return fmt.Errorf("current price must be finite, got %v", *h.CurrentPrice)
	case h.CurrentPrice != nil && *h.CurrentPrice < 0:
		return fmt.Errorf("current price must not be negative, got %v", *h.CurrentPrice)
	}
	return nil
}

// Value returns quantity × current price and whether the price is resolved.
// It is computed in decimal so that no quantity/price pair can overflow.
// A non-finite stored price counts as unresolved.
func (h Holding) Value() (decimal.Decimal, bool) {
	if h.CurrentPrice == nil || !finite(*h.CurrentPrice) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*h.CurrentPrice).Mul(decimal.NewFromInt(h.Quantity)), true
}

// Gain returns quantity × (current − buy) and whether it can be computed.
func (h Holding) Gain() (decimal.Decimal, bool) {
	if h.CurrentPrice == nil || !finite(*h.CurrentPrice) || !finite(h.BuyPrice) {
		return decimal.Zero, false
	}
	diff := decimal.NewFromFloat(*h.CurrentPrice).Sub(decimal.NewFromFloat(h.BuyPrice))
	return diff.Mul(decimal.NewFromInt(h.Quantity)), true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Outcome classifies a single quote fetch.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeProviderError
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeProviderError:
		return "provider_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// QuoteResult is the ephemeral result of fetching one ticker.
type QuoteResult struct {
	Ticker  string
	Price   *float64 // nil unless Outcome is OutcomeSuccess
	Outcome Outcome
	Err     error
}

// OK reports whether the fetch resolved a price.
func (r QuoteResult) OK() bool {
	return r.Outcome == OutcomeSuccess && r.Price != nil
}

// DistributionEntry is one holding's share of the total portfolio value.
type DistributionEntry struct {
	Name       string
	Ticker     string
	Value      decimal.Decimal
	Percentage decimal.Decimal // rounded to two decimal places
}

// PortfolioSnapshot is a derived valuation of the current holdings. It is
// recomputed on every request and never stored.
type PortfolioSnapshot struct {
	TotalValue   decimal.Decimal
	TopPerformer *Holding // nil when no holding has a resolved price
	Distribution []DistributionEntry
}
