package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

const (
	// DefaultTrendMonths is the trend window used when callers pass none.
	DefaultTrendMonths = 12
	// MaxTrendMonths bounds the trend window.
	MaxTrendMonths = 60

	// minChartBuckets is the smallest series worth charting.
	minChartBuckets = 2
)

// History lists every valid offer of a product as a price observation,
// oldest first. Offers sharing a date keep their input order.
func History(offers []models.Offer) []models.HistoryPoint {
	valid, _ := Partition(offers)

	points := make([]models.HistoryPoint, 0, len(valid))
	for _, o := range valid {
		up := EffectiveUnitPrice(o)
		points = append(points, models.HistoryPoint{
			Date:          models.Day(o.ValidFrom),
			Price:         o.OfferPrice,
			ChainName:     o.ChainName,
			PricePerUnit:  up.PricePerUnit,
			UnitReference: up.Unit,
			DiscountType:  o.DiscountType,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) before(o monthKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	return k.month < o.month
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

type bucketAcc struct {
	prices []decimal.Decimal
	units  []decimal.Decimal
}

// Trends buckets valid offers by the calendar month of valid_from over the
// window of the given number of months ending with asOf's month. Months
// without offers are left out. A non-positive months uses
// DefaultTrendMonths; larger windows are capped at MaxTrendMonths.
func Trends(offers []models.Offer, months int, asOf time.Time) models.TrendSeries {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	if months > MaxTrendMonths {
		months = MaxTrendMonths
	}

	last := keyOf(asOf)
	first := keyOf(time.Date(asOf.Year(), asOf.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC))

	valid, _ := Partition(offers)
	acc := make(map[monthKey]*bucketAcc)
	for _, o := range valid {
		k := keyOf(o.ValidFrom)
		if k.before(first) || last.before(k) {
			continue
		}
		b, ok := acc[k]
		if !ok {
			b = &bucketAcc{}
			acc[k] = b
		}
		b.prices = append(b.prices, o.OfferPrice)
		if up := EffectiveUnitPrice(o); up.PricePerUnit != nil {
			b.units = append(b.units, *up.PricePerUnit)
		}
	}

	keys := make([]monthKey, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	series := models.TrendSeries{Buckets: make([]models.TrendBucket, 0, len(keys))}
	for _, k := range keys {
		b := acc[k]
		avg, lo, hi := stats(b.prices)
		bucket := models.TrendBucket{
			Year:       k.year,
			Month:      k.month,
			AvgPrice:   avg,
			MinPrice:   lo,
			MaxPrice:   hi,
			DataPoints: len(b.prices),
		}
		if len(b.units) > 0 {
			uavg, ulo, uhi := stats(b.units)
			bucket.AvgPricePerUnit = &uavg
			bucket.MinPricePerUnit = &ulo
			bucket.MaxPricePerUnit = &uhi
		}
		series.Buckets = append(series.Buckets, bucket)
	}
	series.Insufficient = len(series.Buckets) < minChartBuckets
	return series
}

// stats returns the mean (rounded to cents), minimum and maximum of a
// non-empty slice.
func stats(values []decimal.Decimal) (avg, lo, hi decimal.Decimal) {
	lo, hi = values[0], values[0]
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
	}
	avg = sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2)
	return avg, lo, hi
}
