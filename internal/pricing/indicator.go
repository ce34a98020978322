package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// Default indicator ratios against the historical mean.
var (
	DefaultOttimoRatio = decimal.RequireFromString("0.8")
	DefaultAltoRatio   = decimal.RequireFromString("1.1")
)

// Thresholds holds the ratios used to label a price. A price strictly below
// mean*Ottimo is "ottimo", strictly above mean*Alto is "alto", anything in
// between is "medio".
type Thresholds struct {
	Ottimo decimal.Decimal
	Alto   decimal.Decimal
}

// DefaultThresholds returns the 0.8 / 1.1 ratios.
func DefaultThresholds() Thresholds {
	return Thresholds{Ottimo: DefaultOttimoRatio, Alto: DefaultAltoRatio}
}

// Classify labels current against the mean of historical. An empty history
// is "medio".
func (t Thresholds) Classify(current decimal.Decimal, historical []decimal.Decimal) models.Indicator {
	if len(historical) == 0 {
		return models.IndicatorMedio
	}
	avg := Mean(historical)
	switch {
	case current.LessThan(avg.Mul(t.Ottimo)):
		return models.IndicatorOttimo
	case current.GreaterThan(avg.Mul(t.Alto)):
		return models.IndicatorAlto
	default:
		return models.IndicatorMedio
	}
}

// Classify labels current using DefaultThresholds.
func Classify(current decimal.Decimal, historical []decimal.Decimal) models.Indicator {
	return DefaultThresholds().Classify(current, historical)
}

// Mean is the unrounded arithmetic mean of values; zero for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}
