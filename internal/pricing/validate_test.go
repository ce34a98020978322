package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/spesasmart/pricing/internal/domain/models"
)

func TestValidate(t *testing.T) {
	base := func() models.Offer {
		return offer(lidl, "Lidl", "2.00", day(2025, time.June, 1), day(2025, time.June, 7))
	}

	cases := []struct {
		name   string
		mutate func(*models.Offer)
		want   error
	}{
		{name: "valid", mutate: func(*models.Offer) {}, want: nil},
		{name: "zero price", mutate: func(o *models.Offer) { o.OfferPrice = dec("0") }, want: ErrNonPositivePrice},
		{name: "negative price", mutate: func(o *models.Offer) { o.OfferPrice = dec("-1.50") }, want: ErrNonPositivePrice},
		{name: "above original", mutate: func(o *models.Offer) { o.OriginalPrice = decp("1.99") }, want: ErrPriceAboveOriginal},
		{name: "equal to original", mutate: func(o *models.Offer) { o.OriginalPrice = decp("2.00") }, want: nil},
		{name: "missing end", mutate: func(o *models.Offer) { o.ValidTo = nil }, want: ErrMissingValidTo},
		{name: "inverted window", mutate: func(o *models.Offer) { o.ValidTo = dayp(2025, time.May, 31) }, want: ErrInvertedWindow},
		{name: "single day window", mutate: func(o *models.Offer) { o.ValidTo = dayp(2025, time.June, 1) }, want: nil},
		{name: "confidence above one", mutate: func(o *models.Offer) { o.Confidence = decp("1.01") }, want: ErrConfidenceRange},
		{name: "confidence negative", mutate: func(o *models.Offer) { o.Confidence = decp("-0.1") }, want: ErrConfidenceRange},
		{name: "confidence bounds", mutate: func(o *models.Offer) { o.Confidence = decp("1") }, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := base()
			tc.mutate(&o)
			err := Validate(o)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var inv *InvalidOfferError
			if !errors.As(err, &inv) || inv.OfferID != o.ID {
				t.Fatalf("expected InvalidOfferError for %s, got %v", o.ID, err)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	a := offer(lidl, "Lidl", "2.00", day(2025, time.June, 1), day(2025, time.June, 7))
	b := offer(coop, "Coop", "0", day(2025, time.June, 1), day(2025, time.June, 7))
	c := offer(esselunga, "Esselunga", "1.00", day(2025, time.June, 1), day(2025, time.June, 7))

	valid, rejected := Partition([]models.Offer{a, b, c})
	if len(valid) != 2 || valid[0].ID != a.ID || valid[1].ID != c.ID {
		t.Fatalf("unexpected valid set: %+v", valid)
	}
	if len(rejected) != 1 || rejected[0].OfferID != b.ID {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
}
