package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferSort orders a listing of catalog offers.
type OfferSort string

const (
	SortByPrice    OfferSort = "price"    // offer_price ascending
	SortByDiscount OfferSort = "discount" // discount_pct descending, unknown last
	SortByName     OfferSort = "name"     // product name ascending
)

// ParseOfferSort maps a query value to an OfferSort. Empty means price.
func ParseOfferSort(s string) (OfferSort, bool) {
	switch OfferSort(s) {
	case "":
		return SortByPrice, true
	case SortByPrice, SortByDiscount, SortByName:
		return OfferSort(s), true
	default:
		return "", false
	}
}

// CatalogOffer is an offer joined with the product it prices, as listed by
// the cross-product offer endpoints.
type CatalogOffer struct {
	Offer
	ProductName string
	Brand       *string
	Category    *string
	ImageURL    *string

	// Previous is the most recent expired offer of the same product.
	Previous *PreviousPrice
}

// PreviousPrice is what a product cost in its last expired offer.
type PreviousPrice struct {
	Price     decimal.Decimal
	ValidFrom time.Time
	ChainName string
}

// OfferQuery filters and pages the active offer catalog.
type OfferQuery struct {
	ChainSlugs  []string         // any of; empty means every chain
	Category    string           // case-insensitive substring of the product category
	MinDiscount *decimal.Decimal // inclusive; offers without a discount are excluded
	Sort        OfferSort
	Limit       int
	Offset      int
}
