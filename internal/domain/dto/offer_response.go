package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// OfferResponse is one row of the cross-product offer listings.
type OfferResponse struct {
	ID            uuid.UUID        `json:"id" swaggertype:"string"`
	ProductID     uuid.UUID        `json:"product_id" swaggertype:"string"`
	ProductName   string           `json:"product_name" example:"Latte intero"`
	Brand         *string          `json:"brand,omitempty" example:"Granarolo"`
	Category      *string          `json:"category,omitempty" example:"Latticini"`
	ChainID       uuid.UUID        `json:"chain_id" swaggertype:"string"`
	ChainName     string           `json:"chain_name" example:"Lidl"`
	ChainSlug     string           `json:"chain_slug" example:"lidl"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" swaggertype:"number" example:"1.79"`
	OfferPrice    decimal.Decimal  `json:"offer_price" swaggertype:"number" example:"1.39"`
	DiscountPct   *decimal.Decimal `json:"discount_pct,omitempty" swaggertype:"number" example:"22.35"`
	DiscountType  *string          `json:"discount_type,omitempty" example:"percentage"`
	Quantity      *string          `json:"quantity,omitempty" example:"1 l"`
	PricePerUnit  *decimal.Decimal `json:"price_per_unit,omitempty" swaggertype:"number" example:"1.39"`
	UnitReference *string          `json:"unit_reference,omitempty" example:"l"`
	ValidFrom     Date             `json:"valid_from" swaggertype:"string" example:"2025-01-03"`
	ValidTo       *Date            `json:"valid_to,omitempty" swaggertype:"string" example:"2025-01-09"`
	ImageURL      *string          `json:"image_url,omitempty"`

	PreviousPrice *decimal.Decimal `json:"previous_price,omitempty" swaggertype:"number" example:"1.59"`
	PreviousDate  *Date            `json:"previous_date,omitempty" swaggertype:"string" example:"2024-12-20"`
	PreviousChain *string          `json:"previous_chain,omitempty" example:"Coop"`
}

func NewOfferResponses(offers []models.CatalogOffer) []OfferResponse {
	out := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		r := OfferResponse{
			ID:            o.ID,
			ProductID:     o.ProductID,
			ProductName:   o.ProductName,
			Brand:         o.Brand,
			Category:      o.Category,
			ChainID:       o.ChainID,
			ChainName:     o.ChainName,
			ChainSlug:     o.ChainSlug,
			OriginalPrice: o.OriginalPrice,
			OfferPrice:    o.OfferPrice,
			DiscountPct:   o.DiscountPct,
			DiscountType:  o.DiscountType,
			Quantity:      o.Quantity,
			PricePerUnit:  o.PricePerUnit,
			UnitReference: unitString(o.UnitReference),
			ValidFrom:     NewDate(o.ValidFrom),
			ImageURL:      o.ImageURL,
		}
		if o.ValidTo != nil {
			to := NewDate(*o.ValidTo)
			r.ValidTo = &to
		}
		if p := o.Previous; p != nil {
			price, from, chain := p.Price, NewDate(p.ValidFrom), p.ChainName
			r.PreviousPrice, r.PreviousDate, r.PreviousChain = &price, &from, &chain
		}
		out = append(out, r)
	}
	return out
}
