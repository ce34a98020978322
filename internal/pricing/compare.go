package pricing

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// CompareChains returns the cheapest offer active on asOf for every chain
// that has one, cheapest first. Ties between chains sort by chain name.
func CompareChains(offers []models.Offer, asOf time.Time) []models.ChainPrice {
	valid, _ := Partition(offers)

	bestByChain := make(map[uuid.UUID]int)
	var order []uuid.UUID
	for i := range valid {
		o := valid[i]
		if !o.ActiveOn(asOf) {
			continue
		}
		cur, seen := bestByChain[o.ChainID]
		if !seen {
			order = append(order, o.ChainID)
			bestByChain[o.ChainID] = i
			continue
		}
		if better(o, valid[cur]) {
			bestByChain[o.ChainID] = i
		}
	}

	out := make([]models.ChainPrice, 0, len(order))
	for _, id := range order {
		bp := toBestPrice(valid[bestByChain[id]])
		out = append(out, models.ChainPrice{
			ChainID:       bp.ChainID,
			ChainName:     bp.ChainName,
			ChainSlug:     bp.ChainSlug,
			Price:         bp.Price,
			OriginalPrice: bp.OriginalPrice,
			DiscountPct:   bp.DiscountPct,
			ValidUntil:    bp.ValidUntil,
			PricePerUnit:  bp.PricePerUnit,
			UnitReference: bp.UnitReference,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Price.Cmp(out[j].Price); c != 0 {
			return c < 0
		}
		return out[i].ChainName < out[j].ChainName
	})
	return out
}
