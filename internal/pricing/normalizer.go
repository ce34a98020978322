package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// UnitPrice is the result of normalizing an offer price to a canonical unit.
// Both fields are nil when the quantity text could not be understood.
type UnitPrice struct {
	PricePerUnit *decimal.Decimal
	Unit         *models.UnitRef
}

// unitPriceScale is the number of decimals stored for per-unit prices
// (offers.price_per_unit is NUMERIC(8,2)).
const unitPriceScale = 2

// quantityPattern matches a magnitude and a unit token with an optional
// multipack count before or after it, e.g. "500g", "1,5 kg", "6x330ml",
// "2 x 4 pz", "330ml x6".
var quantityPattern = regexp.MustCompile(
	`(?i)(?:(\d+)\s*[x×*]\s*)?(\d+(?:[.,]\d+)?)\s*(kg|gr|g|mg|ml|cl|litri|litro|lt|l|pz|pezzi)\b(?:\s*[x×*]\s*(\d+)\b)?`,
)

type unitFactor struct {
	unit   models.UnitRef
	factor decimal.Decimal
}

var unitFactors = map[string]unitFactor{
	"kg":    {models.UnitKg, decimal.NewFromInt(1)},
	"g":     {models.UnitKg, decimal.New(1, -3)},
	"gr":    {models.UnitKg, decimal.New(1, -3)},
	"mg":    {models.UnitKg, decimal.New(1, -6)},
	"l":     {models.UnitLitre, decimal.NewFromInt(1)},
	"lt":    {models.UnitLitre, decimal.NewFromInt(1)},
	"litro": {models.UnitLitre, decimal.NewFromInt(1)},
	"litri": {models.UnitLitre, decimal.NewFromInt(1)},
	"cl":    {models.UnitLitre, decimal.New(1, -2)},
	"ml":    {models.UnitLitre, decimal.New(1, -3)},
	"pz":    {models.UnitPiece, decimal.NewFromInt(1)},
	"pezzi": {models.UnitPiece, decimal.NewFromInt(1)},
}

// ParseQuantity converts free-text pack size into a magnitude expressed in
// kg, l or pz. Multipacks, with the count written before or after the
// item size, multiply the per-item magnitude by the count.
func ParseQuantity(quantity string) (decimal.Decimal, models.UnitRef, bool) {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(quantity))
	if m == nil {
		return decimal.Zero, "", false
	}

	magnitude, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", "."))
	if err != nil {
		return decimal.Zero, "", false
	}
	for _, c := range []string{m[1], m[4]} {
		if c == "" {
			continue
		}
		count, err := decimal.NewFromString(c)
		if err != nil {
			return decimal.Zero, "", false
		}
		magnitude = magnitude.Mul(count)
	}

	uf, ok := unitFactors[strings.ToLower(m[3])]
	if !ok {
		return decimal.Zero, "", false
	}
	normalized := magnitude.Mul(uf.factor)
	if !normalized.IsPositive() {
		return decimal.Zero, "", false
	}
	return normalized, uf.unit, true
}

// Normalize computes the per-unit price of an offer from its price and
// quantity text. Unparseable quantities yield an empty UnitPrice, not an
// error.
func Normalize(offerPrice decimal.Decimal, quantity string) UnitPrice {
	qty, unit, ok := ParseQuantity(quantity)
	if !ok {
		return UnitPrice{}
	}
	ppu := offerPrice.Div(qty).Round(unitPriceScale)
	return UnitPrice{PricePerUnit: &ppu, Unit: &unit}
}

// EffectiveUnitPrice returns the unit price stored on the offer when both
// price_per_unit and unit_reference are present, and otherwise normalizes it
// from the quantity text.
func EffectiveUnitPrice(o models.Offer) UnitPrice {
	if o.PricePerUnit != nil && o.UnitReference != nil {
		ppu, unit := *o.PricePerUnit, *o.UnitReference
		return UnitPrice{PricePerUnit: &ppu, Unit: &unit}
	}
	if o.Quantity == nil {
		return UnitPrice{}
	}
	return Normalize(o.OfferPrice, *o.Quantity)
}

// DiscountPct returns the stored discount percentage, or derives it from the
// original price when only that is known. Nil means no discount information.
func DiscountPct(o models.Offer) *decimal.Decimal {
	if o.DiscountPct != nil {
		d := *o.DiscountPct
		return &d
	}
	if o.OriginalPrice == nil || !o.OriginalPrice.IsPositive() {
		return nil
	}
	d := o.OriginalPrice.Sub(o.OfferPrice).
		Div(*o.OriginalPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return &d
}
