package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not strings. The switch is
	// process-wide: anything marshalling decimals in a binary that links dto,
	// the Redis best-price cache included, writes numbers too.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date time.Time

// NewDate wraps t as a Date.
func NewDate(t time.Time) Date { return Date(t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a quoted %s string", DateLayout)
	}
	t, err := time.Parse(DateLayout, string(b[1:len(b)-1]))
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) String() string { return time.Time(d).Format(DateLayout) }
