package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BestPrice is the winning active offer for a product on a given day.
type BestPrice struct {
	OfferID       uuid.UUID
	ProductID     uuid.UUID
	Price         decimal.Decimal
	ChainID       uuid.UUID
	ChainName     string
	ChainSlug     string
	OriginalPrice *decimal.Decimal
	DiscountPct   *decimal.Decimal
	ValidFrom     time.Time
	ValidUntil    time.Time
	PricePerUnit  *decimal.Decimal
	UnitReference *UnitRef

	// Previous is the best price in effect the day before this offer started.
	// Populated only on request.
	Previous *BestPrice
}

// HistoryPoint is one observed offer in a product's price history.
type HistoryPoint struct {
	Date          time.Time
	Price         decimal.Decimal
	ChainName     string
	PricePerUnit  *decimal.Decimal
	UnitReference *UnitRef
	DiscountType  *string
}

// TrendBucket aggregates the offers of one calendar month.
// Per-unit statistics are nil when no offer in the bucket had a unit price.
type TrendBucket struct {
	Year            int
	Month           time.Month
	AvgPrice        decimal.Decimal
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	AvgPricePerUnit *decimal.Decimal
	MinPricePerUnit *decimal.Decimal
	MaxPricePerUnit *decimal.Decimal
	DataPoints      int
}

// TrendSeries is a sparse, oldest-first list of monthly buckets.
type TrendSeries struct {
	Buckets []TrendBucket
	// Insufficient is set when the series has fewer than two buckets and
	// should not be charted.
	Insufficient bool
}

// Indicator labels a current price against its history.
type Indicator string

const (
	IndicatorOttimo Indicator = "ottimo"
	IndicatorMedio  Indicator = "medio"
	IndicatorAlto   Indicator = "alto"
)

// PriceIndicator is the classified current best price of a product.
type PriceIndicator struct {
	ProductID    uuid.UUID
	Indicator    Indicator
	CurrentPrice decimal.Decimal
	AveragePrice *decimal.Decimal
	DataPoints   int
}

// ChainPrice is the cheapest active offer of one chain for a product.
type ChainPrice struct {
	ChainID       uuid.UUID
	ChainName     string
	ChainSlug     string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	DiscountPct   *decimal.Decimal
	ValidUntil    time.Time
	PricePerUnit  *decimal.Decimal
	UnitReference *UnitRef
}

// Deal is a watchlist entry that currently has a qualifying offer.
type Deal struct {
	ProductID     uuid.UUID
	ProductName   string
	ProductBrand  *string
	ChainName     string
	OfferPrice    decimal.Decimal
	OriginalPrice *decimal.Decimal
	DiscountPct   *decimal.Decimal
	TargetPrice   *decimal.Decimal
	ValidTo       time.Time
	PricePerUnit  *decimal.Decimal
	UnitReference *UnitRef
}

// ProductHistory is the history of a product plus the number of stored
// offers that were rejected as invalid.
type ProductHistory struct {
	ProductID     uuid.UUID
	Points        []HistoryPoint
	SkippedOffers int
}

// ProductTrends is the trend series of a product for a window of months.
type ProductTrends struct {
	ProductID     uuid.UUID
	Months        int
	Series        TrendSeries
	SkippedOffers int
}
