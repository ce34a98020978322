package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

var (
	esselunga = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
	lidl      = uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
	coop      = uuid.MustParse("00000000-0000-0000-0000-0000000000c3")
	product   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayp(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func strp(s string) *string { return &s }

// offer builds a valid offer at the given chain for [from, to].
func offer(chain uuid.UUID, name, price string, from, to time.Time) models.Offer {
	return models.Offer{
		ID:         uuid.New(),
		ProductID:  product,
		ChainID:    chain,
		ChainName:  name,
		OfferPrice: dec(price),
		ValidFrom:  from,
		ValidTo:    &to,
	}
}

func assertDecEqual(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: got %s, want %s", what, got, want)
	}
}
