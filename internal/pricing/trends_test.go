package pricing

import (
	"testing"
	"time"

	"github.com/spesasmart/pricing/internal/domain/models"
)

func TestTrends_MonthlyBuckets(t *testing.T) {
	offers := []models.Offer{
		offer(esselunga, "Esselunga", "2.50", day(2025, time.January, 2), day(2025, time.January, 8)),
		offer(lidl, "Lidl", "2.30", day(2025, time.January, 20), day(2025, time.January, 26)),
		offer(coop, "Coop", "2.20", day(2025, time.February, 5), day(2025, time.February, 11)),
	}

	series := Trends(offers, 12, day(2025, time.March, 1))
	if len(series.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(series.Buckets))
	}

	jan, feb := series.Buckets[0], series.Buckets[1]
	if jan.Year != 2025 || jan.Month != time.January {
		t.Fatalf("first bucket=%d-%d, want 2025-01", jan.Year, jan.Month)
	}
	assertDecEqual(t, "jan avg", jan.AvgPrice, "2.40")
	assertDecEqual(t, "jan min", jan.MinPrice, "2.30")
	assertDecEqual(t, "jan max", jan.MaxPrice, "2.50")
	if jan.DataPoints != 2 {
		t.Fatalf("jan data points=%d, want 2", jan.DataPoints)
	}

	if feb.Month != time.February || feb.DataPoints != 1 {
		t.Fatalf("unexpected feb bucket %+v", feb)
	}
	assertDecEqual(t, "feb avg", feb.AvgPrice, "2.20")
	assertDecEqual(t, "feb min", feb.MinPrice, "2.20")
	assertDecEqual(t, "feb max", feb.MaxPrice, "2.20")

	if series.Insufficient {
		t.Fatal("two buckets should be enough to chart")
	}
}

func TestTrends_BucketInvariants(t *testing.T) {
	offers := []models.Offer{
		offer(esselunga, "Esselunga", "1.10", day(2024, time.November, 3), day(2024, time.November, 9)),
		offer(lidl, "Lidl", "0.99", day(2024, time.November, 12), day(2024, time.November, 18)),
		offer(coop, "Coop", "1.35", day(2024, time.November, 25), day(2024, time.December, 1)),
		offer(lidl, "Lidl", "1.05", day(2025, time.January, 7), day(2025, time.January, 13)),
		offer(esselunga, "Esselunga", "1.29", day(2025, time.March, 1), day(2025, time.March, 7)),
	}

	series := Trends(offers, 12, day(2025, time.March, 15))
	for i, b := range series.Buckets {
		if b.DataPoints < 1 {
			t.Fatalf("bucket %d is empty", i)
		}
		if b.MinPrice.GreaterThan(b.AvgPrice) || b.AvgPrice.GreaterThan(b.MaxPrice) {
			t.Fatalf("bucket %d violates min<=avg<=max: %s %s %s", i, b.MinPrice, b.AvgPrice, b.MaxPrice)
		}
		if i > 0 {
			prev := series.Buckets[i-1]
			if !(prev.Year < b.Year || (prev.Year == b.Year && prev.Month < b.Month)) {
				t.Fatalf("buckets not ascending at %d", i)
			}
		}
	}
	// December and February have no offers and must not appear.
	if len(series.Buckets) != 3 {
		t.Fatalf("expected 3 non-empty buckets, got %d", len(series.Buckets))
	}
}

func TestTrends_Window(t *testing.T) {
	offers := []models.Offer{
		offer(esselunga, "Esselunga", "2.00", day(2024, time.March, 10), day(2024, time.March, 16)),
		offer(esselunga, "Esselunga", "2.10", day(2024, time.April, 10), day(2024, time.April, 16)),
		offer(esselunga, "Esselunga", "2.20", day(2025, time.March, 10), day(2025, time.March, 16)),
		offer(esselunga, "Esselunga", "2.30", day(2025, time.April, 10), day(2025, time.April, 16)), // after asOf month
	}

	cases := []struct {
		name   string
		months int
		want   int
	}{
		{name: "twelve months includes april of last year", months: 12, want: 2},
		{name: "thirteen months includes march of last year", months: 13, want: 3},
		{name: "one month is current month only", months: 1, want: 1},
		{name: "zero falls back to default", months: 0, want: 2},
		{name: "huge is capped", months: 1000, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series := Trends(offers, tc.months, day(2025, time.March, 20))
			if len(series.Buckets) != tc.want {
				t.Fatalf("got %d buckets, want %d", len(series.Buckets), tc.want)
			}
		})
	}
}

func TestTrends_Insufficient(t *testing.T) {
	single := []models.Offer{
		offer(lidl, "Lidl", "2.30", day(2025, time.January, 3), day(2025, time.January, 9)),
		offer(coop, "Coop", "2.40", day(2025, time.January, 15), day(2025, time.January, 21)),
	}
	if s := Trends(single, 12, day(2025, time.January, 31)); !s.Insufficient || len(s.Buckets) != 1 {
		t.Fatalf("one bucket should be flagged insufficient, got %+v", s)
	}
	if s := Trends(nil, 12, day(2025, time.January, 31)); !s.Insufficient || len(s.Buckets) != 0 {
		t.Fatalf("no offers should be flagged insufficient, got %+v", s)
	}
}

func TestTrends_UnitPriceStats(t *testing.T) {
	a := offer(esselunga, "Esselunga", "1.00", day(2025, time.January, 3), day(2025, time.January, 9))
	a.Quantity = strp("500g")
	b := offer(lidl, "Lidl", "3.00", day(2025, time.January, 10), day(2025, time.January, 16))
	b.Quantity = strp("1kg")
	c := offer(coop, "Coop", "9.99", day(2025, time.January, 17), day(2025, time.January, 23))

	series := Trends([]models.Offer{a, b, c}, 12, day(2025, time.January, 31))
	jan := series.Buckets[0]
	if jan.DataPoints != 3 {
		t.Fatalf("data points=%d, want 3", jan.DataPoints)
	}
	if jan.AvgPricePerUnit == nil {
		t.Fatal("expected unit price stats")
	}
	assertDecEqual(t, "avg ppu", *jan.AvgPricePerUnit, "2.50")
	assertDecEqual(t, "min ppu", *jan.MinPricePerUnit, "2.00")
	assertDecEqual(t, "max ppu", *jan.MaxPricePerUnit, "3.00")
}

func TestHistory_SortedAscending(t *testing.T) {
	late := offer(lidl, "Lidl", "2.30", day(2025, time.February, 3), day(2025, time.February, 9))
	late.DiscountType = strp("percentage")
	early := offer(esselunga, "Esselunga", "2.50", day(2025, time.January, 3), day(2025, time.January, 9))
	sameDay := offer(coop, "Coop", "2.45", day(2025, time.January, 3), day(2025, time.January, 9))
	invalid := offer(coop, "Coop", "-1", day(2025, time.January, 1), day(2025, time.January, 2))

	points := History([]models.Offer{late, early, sameDay, invalid})
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].ChainName != "Esselunga" || points[1].ChainName != "Coop" || points[2].ChainName != "Lidl" {
		t.Fatalf("unexpected order: %s, %s, %s", points[0].ChainName, points[1].ChainName, points[2].ChainName)
	}
	if points[2].DiscountType == nil || *points[2].DiscountType != "percentage" {
		t.Fatal("discount type not carried over")
	}
}
