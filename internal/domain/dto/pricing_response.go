package dto

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// BestPriceResponse is returned by GET /api/v1/products/{id}/best-price.
type BestPriceResponse struct {
	ProductID     uuid.UUID          `json:"product_id" swaggertype:"string" example:"9b2f7c3e-1c1a-4f7e-9d55-0d6c34a1f0aa"`
	OfferID       uuid.UUID          `json:"offer_id" swaggertype:"string"`
	OfferPrice    decimal.Decimal    `json:"offer_price" swaggertype:"number" example:"2.30"`
	OriginalPrice *decimal.Decimal   `json:"original_price,omitempty" swaggertype:"number" example:"2.89"`
	DiscountPct   *decimal.Decimal   `json:"discount_pct,omitempty" swaggertype:"number" example:"20.42"`
	ChainID       uuid.UUID          `json:"chain_id" swaggertype:"string"`
	ChainName     string             `json:"chain_name" example:"Lidl"`
	ChainSlug     string             `json:"chain_slug" example:"lidl"`
	ValidFrom     Date               `json:"valid_from" swaggertype:"string" example:"2025-01-03"`
	ValidUntil    Date               `json:"valid_until" swaggertype:"string" example:"2025-01-10"`
	PricePerUnit  *decimal.Decimal   `json:"price_per_unit,omitempty" swaggertype:"number" example:"4.60"`
	UnitReference *string            `json:"unit_reference,omitempty" example:"kg"`
	Previous      *BestPriceResponse `json:"previous,omitempty"`
}

// HistoryPointResponse is one entry of a product price history.
type HistoryPointResponse struct {
	Date          Date             `json:"date" swaggertype:"string" example:"2025-01-03"`
	Price         decimal.Decimal  `json:"price" swaggertype:"number" example:"2.30"`
	ChainName     string           `json:"chain_name" example:"Lidl"`
	PricePerUnit  *decimal.Decimal `json:"price_per_unit,omitempty" swaggertype:"number"`
	UnitReference *string          `json:"unit_reference,omitempty" example:"kg"`
	DiscountType  *string          `json:"discount_type,omitempty" example:"percentage"`
}

// HistoryResponse is returned by GET /api/v1/products/{id}/history.
type HistoryResponse struct {
	ProductID     uuid.UUID              `json:"product_id" swaggertype:"string"`
	History       []HistoryPointResponse `json:"history"`
	SkippedOffers int                    `json:"skipped_offers" example:"0"`
}

// TrendBucketResponse is one month of a price trend.
type TrendBucketResponse struct {
	Month           string           `json:"month" example:"2025-01"`
	AvgPrice        decimal.Decimal  `json:"avg_price" swaggertype:"number" example:"2.40"`
	MinPrice        decimal.Decimal  `json:"min_price" swaggertype:"number" example:"2.30"`
	MaxPrice        decimal.Decimal  `json:"max_price" swaggertype:"number" example:"2.50"`
	AvgPricePerUnit *decimal.Decimal `json:"avg_price_per_unit,omitempty" swaggertype:"number"`
	MinPricePerUnit *decimal.Decimal `json:"min_price_per_unit,omitempty" swaggertype:"number"`
	MaxPricePerUnit *decimal.Decimal `json:"max_price_per_unit,omitempty" swaggertype:"number"`
	DataPoints      int              `json:"data_points" example:"2"`
}

// TrendsResponse is returned by GET /api/v1/products/{id}/price-trends.
type TrendsResponse struct {
	ProductID     uuid.UUID             `json:"product_id" swaggertype:"string"`
	Months        int                   `json:"months" example:"12"`
	Insufficient  bool                  `json:"insufficient" example:"false"`
	Buckets       []TrendBucketResponse `json:"buckets"`
	SkippedOffers int                   `json:"skipped_offers" example:"0"`
}

// IndicatorResponse is returned by GET /api/v1/products/{id}/indicator.
type IndicatorResponse struct {
	ProductID    uuid.UUID        `json:"product_id" swaggertype:"string"`
	Indicator    string           `json:"indicator" enums:"ottimo,medio,alto" example:"ottimo"`
	CurrentPrice decimal.Decimal  `json:"current_price" swaggertype:"number" example:"1.89"`
	AveragePrice *decimal.Decimal `json:"average_price,omitempty" swaggertype:"number" example:"2.45"`
	DataPoints   int              `json:"data_points" example:"14"`
}

// ChainPriceResponse is one row of GET /api/v1/products/{id}/compare.
type ChainPriceResponse struct {
	ChainID       uuid.UUID        `json:"chain_id" swaggertype:"string"`
	ChainName     string           `json:"chain_name" example:"Esselunga"`
	ChainSlug     string           `json:"chain_slug" example:"esselunga"`
	OfferPrice    decimal.Decimal  `json:"offer_price" swaggertype:"number" example:"2.49"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" swaggertype:"number"`
	DiscountPct   *decimal.Decimal `json:"discount_pct,omitempty" swaggertype:"number"`
	ValidUntil    Date             `json:"valid_until" swaggertype:"string" example:"2025-01-07"`
	PricePerUnit  *decimal.Decimal `json:"price_per_unit,omitempty" swaggertype:"number"`
	UnitReference *string          `json:"unit_reference,omitempty" example:"l"`
}

// ChainResponse is one row of GET /api/v1/chains.
type ChainResponse struct {
	ID         uuid.UUID `json:"id" swaggertype:"string"`
	Name       string    `json:"name" example:"Coop"`
	Slug       string    `json:"slug" example:"coop"`
	LogoURL    *string   `json:"logo_url,omitempty"`
	WebsiteURL *string   `json:"website_url,omitempty"`
}

// DealResponse is one row of GET /api/v1/users/me/deals.
type DealResponse struct {
	ProductID     uuid.UUID        `json:"product_id" swaggertype:"string"`
	ProductName   string           `json:"product_name" example:"Caffè macinato"`
	ProductBrand  *string          `json:"product_brand,omitempty" example:"Lavazza"`
	ChainName     string           `json:"chain_name" example:"Esselunga"`
	OfferPrice    decimal.Decimal  `json:"offer_price" swaggertype:"number" example:"3.49"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" swaggertype:"number" example:"5.39"`
	DiscountPct   *decimal.Decimal `json:"discount_pct,omitempty" swaggertype:"number" example:"35"`
	TargetPrice   *decimal.Decimal `json:"target_price,omitempty" swaggertype:"number" example:"4.00"`
	ValidTo       Date             `json:"valid_to" swaggertype:"string" example:"2025-01-12"`
	PricePerUnit  *decimal.Decimal `json:"price_per_unit,omitempty" swaggertype:"number"`
	UnitReference *string          `json:"unit_reference,omitempty" example:"kg"`
}

func unitString(u *models.UnitRef) *string {
	if u == nil {
		return nil
	}
	s := string(*u)
	return &s
}

// NewBestPriceResponse maps a resolved best price, including its previous
// best when present.
func NewBestPriceResponse(bp *models.BestPrice) BestPriceResponse {
	resp := BestPriceResponse{
		ProductID:     bp.ProductID,
		OfferID:       bp.OfferID,
		OfferPrice:    bp.Price,
		OriginalPrice: bp.OriginalPrice,
		DiscountPct:   bp.DiscountPct,
		ChainID:       bp.ChainID,
		ChainName:     bp.ChainName,
		ChainSlug:     bp.ChainSlug,
		ValidFrom:     NewDate(bp.ValidFrom),
		ValidUntil:    NewDate(bp.ValidUntil),
		PricePerUnit:  bp.PricePerUnit,
		UnitReference: unitString(bp.UnitReference),
	}
	if bp.Previous != nil {
		prev := NewBestPriceResponse(bp.Previous)
		resp.Previous = &prev
	}
	return resp
}

func NewHistoryResponse(h *models.ProductHistory) HistoryResponse {
	resp := HistoryResponse{
		ProductID:     h.ProductID,
		History:       make([]HistoryPointResponse, 0, len(h.Points)),
		SkippedOffers: h.SkippedOffers,
	}
	for _, p := range h.Points {
		resp.History = append(resp.History, HistoryPointResponse{
			Date:          NewDate(p.Date),
			Price:         p.Price,
			ChainName:     p.ChainName,
			PricePerUnit:  p.PricePerUnit,
			UnitReference: unitString(p.UnitReference),
			DiscountType:  p.DiscountType,
		})
	}
	return resp
}

func NewTrendsResponse(tr *models.ProductTrends) TrendsResponse {
	resp := TrendsResponse{
		ProductID:     tr.ProductID,
		Months:        tr.Months,
		Insufficient:  tr.Series.Insufficient,
		Buckets:       make([]TrendBucketResponse, 0, len(tr.Series.Buckets)),
		SkippedOffers: tr.SkippedOffers,
	}
	for _, b := range tr.Series.Buckets {
		resp.Buckets = append(resp.Buckets, TrendBucketResponse{
			Month:           fmt.Sprintf("%04d-%02d", b.Year, int(b.Month)),
			AvgPrice:        b.AvgPrice,
			MinPrice:        b.MinPrice,
			MaxPrice:        b.MaxPrice,
			AvgPricePerUnit: b.AvgPricePerUnit,
			MinPricePerUnit: b.MinPricePerUnit,
			MaxPricePerUnit: b.MaxPricePerUnit,
			DataPoints:      b.DataPoints,
		})
	}
	return resp
}

func NewIndicatorResponse(pi *models.PriceIndicator) IndicatorResponse {
	return IndicatorResponse{
		ProductID:    pi.ProductID,
		Indicator:    string(pi.Indicator),
		CurrentPrice: pi.CurrentPrice,
		AveragePrice: pi.AveragePrice,
		DataPoints:   pi.DataPoints,
	}
}

func NewChainPriceResponses(rows []models.ChainPrice) []ChainPriceResponse {
	out := make([]ChainPriceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ChainPriceResponse{
			ChainID:       r.ChainID,
			ChainName:     r.ChainName,
			ChainSlug:     r.ChainSlug,
			OfferPrice:    r.Price,
			OriginalPrice: r.OriginalPrice,
			DiscountPct:   r.DiscountPct,
			ValidUntil:    NewDate(r.ValidUntil),
			PricePerUnit:  r.PricePerUnit,
			UnitReference: unitString(r.UnitReference),
		})
	}
	return out
}

func NewChainResponses(chains []models.Chain) []ChainResponse {
	out := make([]ChainResponse, 0, len(chains))
	for _, c := range chains {
		out = append(out, ChainResponse{
			ID:         c.ID,
			Name:       c.Name,
			Slug:       c.Slug,
			LogoURL:    c.LogoURL,
			WebsiteURL: c.WebsiteURL,
		})
	}
	return out
}

func NewDealResponses(deals []models.Deal) []DealResponse {
	out := make([]DealResponse, 0, len(deals))
	for _, d := range deals {
		out = append(out, DealResponse{
			ProductID:     d.ProductID,
			ProductName:   d.ProductName,
			ProductBrand:  d.ProductBrand,
			ChainName:     d.ChainName,
			OfferPrice:    d.OfferPrice,
			OriginalPrice: d.OriginalPrice,
			DiscountPct:   d.DiscountPct,
			TargetPrice:   d.TargetPrice,
			ValidTo:       NewDate(d.ValidTo),
			PricePerUnit:  d.PricePerUnit,
			UnitReference: unitString(d.UnitReference),
		})
	}
	return out
}
