// Package pricing holds the pure price computations of the service: unit
// price normalization, best-price resolution, history and monthly trends,
// the price indicator and watchlist matching.
//
// Nothing in this package performs I/O. Callers fetch offers from the
// repository and pass them in; functions never mutate their inputs.
package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// Offer invariant violations reported by Validate.
var (
	ErrNonPositivePrice   = errors.New("offer_price must be greater than zero")
	ErrPriceAboveOriginal = errors.New("offer_price exceeds original_price")
	ErrMissingValidTo     = errors.New("valid_to is missing")
	ErrInvertedWindow     = errors.New("valid_from is after valid_to")
	ErrConfidenceRange    = errors.New("confidence outside [0,1]")
)

// InvalidOfferError describes a stored offer that breaks an invariant.
type InvalidOfferError struct {
	OfferID uuid.UUID
	Reason  error
}

func (e *InvalidOfferError) Error() string {
	return fmt.Sprintf("offer %s rejected: %v", e.OfferID, e.Reason)
}

func (e *InvalidOfferError) Unwrap() error { return e.Reason }

var one = decimal.NewFromInt(1)

// Validate checks the invariants every offer must hold before it can take
// part in an aggregation.
func Validate(o models.Offer) error {
	reject := func(reason error) error {
		return &InvalidOfferError{OfferID: o.ID, Reason: reason}
	}

	if !o.OfferPrice.IsPositive() {
		return reject(ErrNonPositivePrice)
	}
	if o.OriginalPrice != nil && o.OfferPrice.GreaterThan(*o.OriginalPrice) {
		return reject(ErrPriceAboveOriginal)
	}
	if o.ValidTo == nil {
		return reject(ErrMissingValidTo)
	}
	if models.Day(o.ValidFrom).After(models.Day(*o.ValidTo)) {
		return reject(ErrInvertedWindow)
	}
	if c := o.Confidence; c != nil && (c.IsNegative() || c.GreaterThan(one)) {
		return reject(ErrConfidenceRange)
	}
	return nil
}

// Partition splits offers into those that pass Validate and the rejections
// for those that do not. Input order is preserved in both results.
func Partition(offers []models.Offer) ([]models.Offer, []*InvalidOfferError) {
	valid := make([]models.Offer, 0, len(offers))
	var rejected []*InvalidOfferError
	for _, o := range offers {
		if err := Validate(o); err != nil {
			var inv *InvalidOfferError
			if errors.As(err, &inv) {
				rejected = append(rejected, inv)
			}
			continue
		}
		valid = append(valid, o)
	}
	return valid, rejected
}
