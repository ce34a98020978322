package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
	"github.com/spesasmart/pricing/internal/logger"
	"github.com/spesasmart/pricing/internal/pricing"
)

// expectedHeaders enforces strict column ordering for offer export files.
// If the header doesn't match EXACTLY (order + count), ingestion must fail.
var expectedHeaders = []string{
	"product_id",
	"chain_slug",
	"store_id",
	"original_price",
	"offer_price",
	"discount_pct",
	"quantity",
	"valid_from",
	"valid_to",
	"confidence",
}

const dateLayout = "2006-01-02"

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

// fileResult summarizes one parsed and persisted file.
type fileResult struct {
	Rows     int
	Skipped  int
	Products map[uuid.UUID]struct{}
}

// parseAndPersistFile opens, validates, parses, and persists one file in batches.
// It fails on:
//   - header not matching expected order/length
//   - malformed cells (bad UUID, number, date) or unknown chain slugs
//   - unrecoverable I/O errors
//
// Rows that parse but break an offer invariant (offer above original price,
// inverted window, missing end date) are skipped and counted.
//
// Parameters:
//   - ctx:    context for cancellation/timeouts.
//   - path:   file path.
//   - repo:   repository for DB insertion.
//   - chains: chain lookup by slug.
//   - batch:  batch size for inserts (e.g., 5000).
func parseAndPersistFile(ctx context.Context, path string, repo Repository, chains map[string]models.Chain, batch int) (fileResult, error) {
	res := fileResult{Products: make(map[uuid.UUID]struct{})}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // allow variable but we’ll check explicitly

	// Validate headers strictly.
	header, err := r.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return res, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // spreadsheet exports prepend a BOM
		if strings.ToLower(strings.TrimSpace(h)) != expectedHeaders[i] {
			return res, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	source := filepath.Base(path)
	log := logger.Component("ingestion")

	buf := make([]models.Offer, 0, batch)
	lineNumber := 1 // header already read

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertOffersBatch(ctx, buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return res, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		o, err := recordToOffer(rec, chains, source)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if err := pricing.Validate(o); err != nil {
			log.Warn().Str("file", source).Int("line", lineNumber).Err(err).Msg("row skipped")
			res.Skipped++
			continue
		}

		buf = append(buf, o)
		res.Rows++
		res.Products[o.ProductID] = struct{}{}
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return res, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return res, fmt.Errorf("final flush: %w", err)
	}

	return res, nil
}

// recordToOffer converts a single CSV record (already validated length==10)
// into a models.Offer. Empty optional cells become nil. Per-unit price and
// discount are derived when the export does not carry them.
//
// Column order:
//
//	0 product_id      → ProductID (UUID, required)
//	1 chain_slug      → ChainID via lookup (required)
//	2 store_id        → StoreID (UUID, optional)
//	3 original_price  → OriginalPrice (decimal, optional)
//	4 offer_price     → OfferPrice (decimal, required)
//	5 discount_pct    → DiscountPct (decimal, optional; derived otherwise)
//	6 quantity        → Quantity (text, optional; drives price_per_unit)
//	7 valid_from      → ValidFrom (DATE, optional)
//	8 valid_to        → ValidTo (DATE, optional)
//	9 confidence      → Confidence (decimal, optional; clamped to [0,1])
func recordToOffer(rec []string, chains map[string]models.Chain, source string) (models.Offer, error) {
	o := models.Offer{ID: uuid.New(), SourceFile: &source}

	productID, err := uuid.Parse(strings.TrimSpace(rec[0]))
	if err != nil {
		return o, fmt.Errorf("invalid product_id: %v", err)
	}
	o.ProductID = productID

	slug := strings.ToLower(strings.TrimSpace(rec[1]))
	chain, ok := chains[slug]
	if !ok {
		return o, fmt.Errorf("unknown chain_slug %q", rec[1])
	}
	o.ChainID, o.ChainName, o.ChainSlug = chain.ID, chain.Name, chain.Slug

	if s := strings.TrimSpace(rec[2]); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return o, fmt.Errorf("invalid store_id: %v", err)
		}
		o.StoreID = &id
	}

	if o.OriginalPrice, err = optionalDecimal(rec[3]); err != nil {
		return o, fmt.Errorf("invalid original_price: %v", err)
	}

	price, err := optionalDecimal(rec[4])
	if err != nil {
		return o, fmt.Errorf("invalid offer_price: %v", err)
	}
	if price == nil {
		return o, fmt.Errorf("offer_price is required")
	}
	o.OfferPrice = *price

	if o.DiscountPct, err = optionalDecimal(rec[5]); err != nil {
		return o, fmt.Errorf("invalid discount_pct: %v", err)
	}
	o.DiscountPct = pricing.DiscountPct(o)

	if s := strings.TrimSpace(rec[6]); s != "" {
		o.Quantity = &s
		up := pricing.Normalize(o.OfferPrice, s)
		o.PricePerUnit, o.UnitReference = up.PricePerUnit, up.Unit
	}

	if s := strings.TrimSpace(rec[7]); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return o, fmt.Errorf("invalid valid_from: %v", err)
		}
		o.ValidFrom = d
	}
	if s := strings.TrimSpace(rec[8]); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return o, fmt.Errorf("invalid valid_to: %v", err)
		}
		o.ValidTo = &d
	}
	c, err := optionalDecimal(rec[9])
	if err != nil {
		return o, fmt.Errorf("invalid confidence: %v", err)
	}
	if c != nil {
		clamped := decimal.Min(decimal.Max(*c, zero), one)
		o.Confidence = &clamped
	}

	return o, nil
}

// optionalDecimal parses a price-like cell. It accepts Italian formatting
// ("1.234,56", "2,30"), a trailing or leading euro sign, and returns nil for an
// empty cell.
func optionalDecimal(cell string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSpace(strings.Trim(s, "€"))
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
