package pricing

import (
	"time"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// better reports whether a ranks ahead of b when picking a best price.
//
// Order: lowest offer_price, then latest valid_to, then highest confidence
// (missing confidence ranks lowest). Equal offers keep their input order,
// which the callers guarantee by scanning left to right.
func better(a, b models.Offer) bool {
	if c := a.OfferPrice.Cmp(b.OfferPrice); c != 0 {
		return c < 0
	}
	if at, bt := models.Day(*a.ValidTo), models.Day(*b.ValidTo); !at.Equal(bt) {
		return at.After(bt)
	}
	switch {
	case a.Confidence == nil:
		return false
	case b.Confidence == nil:
		return true
	default:
		return a.Confidence.GreaterThan(*b.Confidence)
	}
}

// pickBest returns the index of the best offer active on asOf, or -1.
// Offers must already be validated.
func pickBest(offers []models.Offer, asOf time.Time) int {
	best := -1
	for i := range offers {
		if !offers[i].ActiveOn(asOf) {
			continue
		}
		if best < 0 || better(offers[i], offers[best]) {
			best = i
		}
	}
	return best
}

// ResolveBestPrice selects the cheapest offer valid on asOf. Invalid offers are
// ignored. The boolean is false when no offer is active, which is a normal
// outcome rather than an error.
func ResolveBestPrice(offers []models.Offer, asOf time.Time) (*models.BestPrice, bool) {
	valid, _ := Partition(offers)
	i := pickBest(valid, asOf)
	if i < 0 {
		return nil, false
	}
	return toBestPrice(valid[i]), true
}

// ResolveWithPrevious resolves the best price on asOf and, when one exists,
// also the best price of the day before the winner's validity window began,
// chosen among the remaining offers.
func ResolveWithPrevious(offers []models.Offer, asOf time.Time) (*models.BestPrice, bool) {
	valid, _ := Partition(offers)
	i := pickBest(valid, asOf)
	if i < 0 {
		return nil, false
	}
	current := toBestPrice(valid[i])

	rest := make([]models.Offer, 0, len(valid)-1)
	rest = append(rest, valid[:i]...)
	rest = append(rest, valid[i+1:]...)

	dayBefore := models.Day(valid[i].ValidFrom).AddDate(0, 0, -1)
	if j := pickBest(rest, dayBefore); j >= 0 {
		current.Previous = toBestPrice(rest[j])
	}
	return current, true
}

func toBestPrice(o models.Offer) *models.BestPrice {
	up := EffectiveUnitPrice(o)
	return &models.BestPrice{
		OfferID:       o.ID,
		ProductID:     o.ProductID,
		Price:         o.OfferPrice,
		ChainID:       o.ChainID,
		ChainName:     o.ChainName,
		ChainSlug:     o.ChainSlug,
		OriginalPrice: o.OriginalPrice,
		DiscountPct:   DiscountPct(o),
		ValidFrom:     models.Day(o.ValidFrom),
		ValidUntil:    models.Day(*o.ValidTo),
		PricePerUnit:  up.PricePerUnit,
		UnitReference: up.Unit,
	}
}
