package services

import (
	"whop-automation/utils"
)

// PriceDecision is the outcome of the optimization rule set for one
// listing.
type PriceDecision int

const (
	KeepPrice PriceDecision = iota
	ReducePrice
	IncreasePrice
)

// Decide applies the two-rule pricing heuristic to one listing's
// analytics. The rules are mutually exclusive and evaluated in order;
// the first match wins. Prices are minor units; both adjustments floor.
func Decide(views, purchases, priceCents int) (int, PriceDecision) {
	// High traffic, poor conversion: cut 20%.
	if views > 100 && purchases < 5 {
		return priceCents * 4 / 5, ReducePrice
	}
	// Proven conversion above 10%: raise 20%.
	if views > 50 && purchases > 10 && float64(purchases)/float64(views) > 0.10 {
		return priceCents * 6 / 5, IncreasePrice
	}
	return priceCents, KeepPrice
}

// PriceOptimizer adjusts prices on the system's own listings, one
// listing at a time with a fixed delay, based on their analytics.
type PriceOptimizer struct {
	market Marketplace
	pacer  *utils.Pacer
	logger *utils.Logger
}

// NewPriceOptimizer wires the optimizer.
func NewPriceOptimizer(market Marketplace, pacer *utils.Pacer, logger *utils.Logger) *PriceOptimizer {
	return &PriceOptimizer{market: market, pacer: pacer, logger: logger}
}

// Run evaluates every auto-generated listing independently. A listing
// with no analytics available is skipped, not treated as an error.
// Returns the number of price changes applied.
func (o *PriceOptimizer) Run() int {
	o.logger.Info("[optimizer] Starting price optimization")

	changed := 0
	for _, listing := range o.market.ListListings() {
		if !listing.Metadata.AutoGenerated {
			continue
		}

		o.pacer.Wait()

		analytics, err := o.market.Analytics(listing.ID)
		if err != nil || analytics == nil {
			o.logger.Debug("[optimizer] No analytics for %s — skipping", listing.ID)
			continue
		}

		newPrice, decision := Decide(analytics.Views, analytics.Purchases, listing.Price)
		if decision == KeepPrice {
			continue
		}

		if err := o.market.UpdatePrice(listing.ID, newPrice); err != nil {
			continue
		}
		changed++

		switch decision {
		case ReducePrice:
			o.logger.Info("[optimizer] Reduced price for %q: %d → %d cents",
				listing.Title, listing.Price, newPrice)
		case IncreasePrice:
			o.logger.Info("[optimizer] Increased price for %q: %d → %d cents",
				listing.Title, listing.Price, newPrice)
		}
	}

	o.logger.Info("[optimizer] Price optimization done — %d listings adjusted", changed)
	return changed
}
