package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitRef is the canonical unit a per-unit price refers to.
type UnitRef string

const (
	UnitKg    UnitRef = "kg"
	UnitLitre UnitRef = "l"
	UnitPiece UnitRef = "pz"
)

// ParseUnitRef maps a stored unit_reference value to a UnitRef.
// Unknown values return false.
func ParseUnitRef(s string) (UnitRef, bool) {
	switch UnitRef(s) {
	case UnitKg, UnitLitre, UnitPiece:
		return UnitRef(s), true
	default:
		return "", false
	}
}

// Offer is a priced instance of a product at a chain for a validity window.
//
// ValidFrom and ValidTo are calendar days (UTC midnight). ValidTo is nil only
// when the stored row has no end date; such rows fail validation.
type Offer struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	ChainID       uuid.UUID
	ChainName     string
	ChainSlug     string
	StoreID       *uuid.UUID
	OriginalPrice *decimal.Decimal
	OfferPrice    decimal.Decimal
	DiscountPct   *decimal.Decimal
	DiscountType  *string
	Quantity      *string
	PricePerUnit  *decimal.Decimal
	UnitReference *UnitRef
	ValidFrom     time.Time
	ValidTo       *time.Time
	Confidence    *decimal.Decimal
	SourceFile    *string
	CreatedAt     time.Time
}

// ActiveOn reports whether the offer's validity window contains day.
// Offers without an end date are never active.
func (o Offer) ActiveOn(day time.Time) bool {
	if o.ValidTo == nil {
		return false
	}
	d := Day(day)
	return !Day(o.ValidFrom).After(d) && !Day(*o.ValidTo).Before(d)
}

// Day truncates t to its calendar date in t's location and returns it as UTC
// midnight, so that dates coming from different sources compare equal.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
