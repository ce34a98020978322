package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WatchlistEntry is a product tracked by a user.
//
// ProductName and ProductBrand are denormalized by the repository join so that
// deals can be sorted and rendered without another lookup.
type WatchlistEntry struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	ProductBrand   *string
	TargetPrice    *decimal.Decimal
	NotifyAnyOffer bool
}
