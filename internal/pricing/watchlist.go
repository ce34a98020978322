package pricing

import (
	"sort"

	"github.com/google/uuid"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// Qualifies reports whether a watchlist entry should surface a deal for the
// given best price. A nil best price never qualifies.
func Qualifies(entry models.WatchlistEntry, best *models.BestPrice) bool {
	if best == nil {
		return false
	}
	if entry.NotifyAnyOffer {
		return true
	}
	return entry.TargetPrice != nil && best.Price.LessThanOrEqual(*entry.TargetPrice)
}

// MatchDeals projects a user's watchlist onto the current best prices and
// returns the qualifying deals, highest discount first. Deals without a
// discount come last; ties sort by product name. Repeated entries for the
// same product are collapsed to the first one.
func MatchDeals(entries []models.WatchlistEntry, best map[uuid.UUID]*models.BestPrice) []models.Deal {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	deals := make([]models.Deal, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ProductID]; dup {
			continue
		}
		seen[e.ProductID] = struct{}{}

		bp := best[e.ProductID]
		if !Qualifies(e, bp) {
			continue
		}
		deals = append(deals, models.Deal{
			ProductID:     e.ProductID,
			ProductName:   e.ProductName,
			ProductBrand:  e.ProductBrand,
			ChainName:     bp.ChainName,
			OfferPrice:    bp.Price,
			OriginalPrice: bp.OriginalPrice,
			DiscountPct:   bp.DiscountPct,
			TargetPrice:   e.TargetPrice,
			ValidTo:       bp.ValidUntil,
			PricePerUnit:  bp.PricePerUnit,
			UnitReference: bp.UnitReference,
		})
	}

	sort.SliceStable(deals, func(i, j int) bool {
		a, b := deals[i].DiscountPct, deals[j].DiscountPct
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.GreaterThan(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return deals[i].ProductName < deals[j].ProductName
	})
	return deals
}
