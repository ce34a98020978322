package pricing

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// Listing limits of the catalog endpoints.
const (
	DefaultOfferLimit = 50
	MaxOfferLimit     = 200
	DefaultBestLimit  = 20
	MaxBestLimit      = 100
)

// ClampLimit returns def for non-positive limits and caps the rest at maxLimit.
func ClampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func categoryContains(category *string, needle string) bool {
	if needle == "" {
		return true
	}
	if category == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*category), strings.ToLower(needle))
}

// withDiscount fills DiscountPct with the stored or derived percentage so
// that filtering, sorting and the response agree on one value.
func withDiscount(o models.CatalogOffer) models.CatalogOffer {
	o.DiscountPct = DiscountPct(o.Offer)
	return o
}

// FilterOffers keeps the offers active on asOf that match every filter of q.
// Sorting and paging are left to the caller.
func FilterOffers(offers []models.CatalogOffer, q models.OfferQuery, asOf time.Time) []models.CatalogOffer {
	chains := make(map[string]struct{}, len(q.ChainSlugs))
	for _, s := range q.ChainSlugs {
		chains[strings.ToLower(s)] = struct{}{}
	}

	out := make([]models.CatalogOffer, 0, len(offers))
	for _, o := range offers {
		if !o.ActiveOn(asOf) {
			continue
		}
		if len(chains) > 0 {
			if _, ok := chains[strings.ToLower(o.ChainSlug)]; !ok {
				continue
			}
		}
		if !categoryContains(o.Category, q.Category) {
			continue
		}
		o = withDiscount(o)
		if q.MinDiscount != nil && (o.DiscountPct == nil || o.DiscountPct.LessThan(*q.MinDiscount)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// compareDiscount ranks the larger discount first and unknown discounts last.
func compareDiscount(a, b *decimal.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case b == nil:
		return -1
	case a == nil:
		return 1
	}
	return b.Cmp(*a)
}

// SortOffers orders offers in place. Every order falls back to the cheaper
// offer, then to product name, then to input order.
func SortOffers(offers []models.CatalogOffer, by models.OfferSort) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		an, bn := strings.ToLower(a.ProductName), strings.ToLower(b.ProductName)
		switch by {
		case models.SortByDiscount:
			if c := compareDiscount(a.DiscountPct, b.DiscountPct); c != 0 {
				return c < 0
			}
		case models.SortByName:
			if an != bn {
				return an < bn
			}
		}
		if c := a.OfferPrice.Cmp(b.OfferPrice); c != 0 {
			return c < 0
		}
		return an < bn
	})
}

// Page returns the window [offset, offset+limit) of offers.
func Page(offers []models.CatalogOffer, limit, offset int) []models.CatalogOffer {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(offers) {
		return []models.CatalogOffer{}
	}
	end := len(offers)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return offers[offset:end]
}

// ActiveOffers filters, orders and pages the active catalog.
func ActiveOffers(offers []models.CatalogOffer, q models.OfferQuery, asOf time.Time) []models.CatalogOffer {
	out := FilterOffers(offers, q, asOf)
	SortOffers(out, q.Sort)
	return Page(out, ClampLimit(q.Limit, DefaultOfferLimit, MaxOfferLimit), q.Offset)
}

// BestDiscounts returns the active offers with a known discount, largest
// discount first, optionally restricted to a category substring.
func BestDiscounts(offers []models.CatalogOffer, category string, limit int, asOf time.Time) []models.CatalogOffer {
	all := FilterOffers(offers, models.OfferQuery{Category: category}, asOf)
	out := all[:0]
	for _, o := range all {
		if o.DiscountPct != nil {
			out = append(out, o)
		}
	}
	SortOffers(out, models.SortByDiscount)
	return Page(out, ClampLimit(limit, DefaultBestLimit, MaxBestLimit), 0)
}

// CategoryOffers returns the active offers of products in exactly category
// (case-insensitive), cheapest first.
func CategoryOffers(offers []models.CatalogOffer, category string, limit int, asOf time.Time) []models.CatalogOffer {
	out := make([]models.CatalogOffer, 0, len(offers))
	for _, o := range FilterOffers(offers, models.OfferQuery{Category: category}, asOf) {
		if o.Category != nil && strings.EqualFold(*o.Category, category) {
			out = append(out, o)
		}
	}
	SortOffers(out, models.SortByPrice)
	return Page(out, ClampLimit(limit, DefaultOfferLimit, MaxOfferLimit), 0)
}

// ProductIDs lists the distinct products of offers in first-seen order.
func ProductIDs(offers []models.CatalogOffer) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(offers))
	ids := make([]uuid.UUID, 0, len(offers))
	for _, o := range offers {
		if _, ok := seen[o.ProductID]; ok {
			continue
		}
		seen[o.ProductID] = struct{}{}
		ids = append(ids, o.ProductID)
	}
	return ids
}

// AttachPrevious sets Previous on every offer whose product has an entry in
// expired, the latest expired offer per product. The first entry per
// product wins.
func AttachPrevious(offers []models.CatalogOffer, expired []models.Offer) {
	prev := make(map[uuid.UUID]*models.PreviousPrice, len(expired))
	for _, e := range expired {
		if _, ok := prev[e.ProductID]; ok {
			continue
		}
		prev[e.ProductID] = &models.PreviousPrice{Price: e.OfferPrice, ValidFrom: e.ValidFrom, ChainName: e.ChainName}
	}
	for i := range offers {
		if p, ok := prev[offers[i].ProductID]; ok {
			cp := *p
			offers[i].Previous = &cp
		}
	}
}
