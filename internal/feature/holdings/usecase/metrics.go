package usecase

import (
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/holdings/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Aggregate computes the portfolio valuation of holdings.
//
// Holdings without a resolved price are skipped: they add nothing to the total
// and do not appear in the distribution. The top performer is the holding with
// the largest quantity × (current − buy); the first one wins a tie.
//
// All arithmetic is done in decimal, so no price/quantity combination can
// overflow. Percentages are rounded to two decimal places. When the total
// value is zero every percentage is 0.00 instead of the undefined value/0.
func Aggregate(holdings []entity.Holding) entity.PortfolioSnapshot {
	snap := entity.PortfolioSnapshot{
		TotalValue:   decimal.Zero,
		Distribution: []entity.DistributionEntry{},
	}

	var bestGain decimal.Decimal
	for i := range holdings {
		h := holdings[i]
		value, ok := h.Value()
		if !ok {
			continue
		}
		snap.TotalValue = snap.TotalValue.Add(value)

		if gain, ok := h.Gain(); ok && (snap.TopPerformer == nil || gain.GreaterThan(bestGain)) {
			top := h
			snap.TopPerformer = &top
			bestGain = gain
		}

		snap.Distribution = append(snap.Distribution, entity.DistributionEntry{
			Name:   h.Name,
			Ticker: h.Ticker,
			Value:  value,
		})
	}

	for i := range snap.Distribution {
		snap.Distribution[i].Percentage = percentage(snap.Distribution[i].Value, snap.TotalValue)
	}
	return snap
}

func percentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Mul(hundred).Div(total).Round(2)
}
