package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// OfferRepository defines contract for DB operations.
type OfferRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListActiveOffers(ctx context.Context, productID uuid.UUID, asOf time.Time) ([]models.Offer, error)
	ListAllOffers(ctx context.Context, productID uuid.UUID) ([]models.Offer, error)
	GetWatchlist(ctx context.Context, userID uuid.UUID) ([]models.WatchlistEntry, error)
	ListChains(ctx context.Context) ([]models.Chain, error)
	ListCatalogOffers(ctx context.Context, asOf time.Time, chainSlugs []string, category string) ([]models.CatalogOffer, error)
	LatestExpiredOffers(ctx context.Context, productIDs []uuid.UUID, asOf time.Time) ([]models.Offer, error)

	InsertOffersBatch(ctx context.Context, offers []models.Offer) error
	HasIngestionForFile(ctx context.Context, sourceFile string) (bool, error)
	UpsertIngestionLog(ctx context.Context, sourceFile string, rowCount int) error
	DeleteOffersBySource(ctx context.Context, sourceFile string) error
}

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) OfferRepository {
	return &offerRepository{db: db}
}

// offerColumns is shared by every offer read. Rows without valid_from fall
// back to the day they were stored.
const offerColumns = `
	o.id, o.product_id, o.chain_id, c.name, c.slug, o.store_id,
	o.original_price, o.offer_price, o.discount_pct, o.discount_type,
	o.quantity, o.price_per_unit, o.unit_reference,
	COALESCE(o.valid_from, o.created_at::date) AS valid_from, o.valid_to,
	o.confidence, o.source_file, o.created_at`

// GetProduct returns ErrNotFound when no product has the given id.
func (r *offerRepository) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var p models.Product
	var brand, category, subcategory, unit, image sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, brand, category, subcategory, unit, image_url
		FROM products
		WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &brand, &category, &subcategory, &unit, &image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	p.Brand = strPtr(brand)
	p.Category = strPtr(category)
	p.Subcategory = strPtr(subcategory)
	p.Unit = strPtr(unit)
	p.ImageURL = strPtr(image)
	return &p, nil
}

// ListActiveOffers returns the offers of a product whose window contains
// asOf. Rows without valid_to are included so that callers can flag them.
func (r *offerRepository) ListActiveOffers(ctx context.Context, productID uuid.UUID, asOf time.Time) ([]models.Offer, error) {
	day := models.Day(asOf)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+offerColumns+`
		FROM offers o
		JOIN chains c ON c.id = o.chain_id
		WHERE o.product_id = $1
		  AND COALESCE(o.valid_from, o.created_at::date) <= $2
		  AND (o.valid_to IS NULL OR o.valid_to >= $2)
		ORDER BY o.offer_price, o.seq
	`, productID, day)
	if err != nil {
		return nil, fmt.Errorf("list active offers %s: %w", productID, err)
	}
	return collectOffers(rows)
}

// ListAllOffers returns every stored offer of a product, oldest first.
func (r *offerRepository) ListAllOffers(ctx context.Context, productID uuid.UUID) ([]models.Offer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+offerColumns+`
		FROM offers o
		JOIN chains c ON c.id = o.chain_id
		WHERE o.product_id = $1
		ORDER BY COALESCE(o.valid_from, o.created_at::date), o.seq
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list offers %s: %w", productID, err)
	}
	return collectOffers(rows)
}

func collectOffers(rows *sql.Rows) ([]models.Offer, error) {
	defer rows.Close()

	var out []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanOffer reads offerColumns followed by any extra destinations.
func scanOffer(rows *sql.Rows, extra ...any) (models.Offer, error) {
	var (
		o                                   models.Offer
		storeID                             uuid.NullUUID
		original, discount, ppu, confidence decimal.NullDecimal
		discountType, quantity, unitRef     sql.NullString
		sourceFile                          sql.NullString
		validTo                             sql.NullTime
	)
	dest := []any{
		&o.ID, &o.ProductID, &o.ChainID, &o.ChainName, &o.ChainSlug, &storeID,
		&original, &o.OfferPrice, &discount, &discountType,
		&quantity, &ppu, &unitRef,
		&o.ValidFrom, &validTo,
		&confidence, &sourceFile, &o.CreatedAt,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return o, fmt.Errorf("scan offer: %w", err)
	}

	if storeID.Valid {
		id := storeID.UUID
		o.StoreID = &id
	}
	o.OriginalPrice = decPtr(original)
	o.DiscountPct = decPtr(discount)
	o.PricePerUnit = decPtr(ppu)
	o.Confidence = decPtr(confidence)
	o.DiscountType = strPtr(discountType)
	o.Quantity = strPtr(quantity)
	o.SourceFile = strPtr(sourceFile)
	if unitRef.Valid {
		if u, ok := models.ParseUnitRef(unitRef.String); ok {
			o.UnitReference = &u
		}
	}
	o.ValidFrom = models.Day(o.ValidFrom)
	if validTo.Valid {
		d := models.Day(validTo.Time)
		o.ValidTo = &d
	}
	return o, nil
}

// ListCatalogOffers returns every offer active on asOf joined with its
// product. chainSlugs (any of) and category (case-insensitive substring)
// narrow the scan when set. Rows without valid_to are left out.
func (r *offerRepository) ListCatalogOffers(ctx context.Context, asOf time.Time, chainSlugs []string, category string) ([]models.CatalogOffer, error) {
	var slugs interface{}
	if len(chainSlugs) > 0 {
		lower := make([]string, len(chainSlugs))
		for i, s := range chainSlugs {
			lower[i] = strings.ToLower(s)
		}
		slugs = pq.Array(lower)
	}
	var pattern interface{}
	if category != "" {
		pattern = "%" + likeEscaper.Replace(category) + "%"
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+offerColumns+`, p.name, p.brand, p.category, p.image_url
		FROM offers o
		JOIN chains c ON c.id = o.chain_id
		JOIN products p ON p.id = o.product_id
		WHERE COALESCE(o.valid_from, o.created_at::date) <= $1
		  AND o.valid_to >= $1
		  AND ($2::text[] IS NULL OR lower(c.slug) = ANY($2::text[]))
		  AND ($3::text IS NULL OR p.category ILIKE $3::text)
		ORDER BY o.offer_price, o.seq
	`, models.Day(asOf), slugs, pattern)
	if err != nil {
		return nil, fmt.Errorf("list catalog offers: %w", err)
	}
	defer rows.Close()

	var out []models.CatalogOffer
	for rows.Next() {
		var (
			co                models.CatalogOffer
			brand, cat, image sql.NullString
		)
		o, err := scanOffer(rows, &co.ProductName, &brand, &cat, &image)
		if err != nil {
			return nil, err
		}
		co.Offer = o
		co.Brand = strPtr(brand)
		co.Category = strPtr(cat)
		co.ImageURL = strPtr(image)
		out = append(out, co)
	}
	return out, rows.Err()
}

// LatestExpiredOffers returns, for each product, the offer that ended most
// recently before asOf. Products without an expired offer are absent.
func (r *offerRepository) LatestExpiredOffers(ctx context.Context, productIDs []uuid.UUID, asOf time.Time) ([]models.Offer, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (o.product_id) `+offerColumns+`
		FROM offers o
		JOIN chains c ON c.id = o.chain_id
		WHERE o.product_id = ANY($1::uuid[])
		  AND o.valid_to < $2
		ORDER BY o.product_id, o.valid_to DESC, o.offer_price, o.seq
	`, pq.Array(ids), models.Day(asOf))
	if err != nil {
		return nil, fmt.Errorf("list expired offers: %w", err)
	}
	return collectOffers(rows)
}

// likeEscaper neutralizes LIKE wildcards in user input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetWatchlist returns a user's tracked products joined with their names.
func (r *offerRepository) GetWatchlist(ctx context.Context, userID uuid.UUID) ([]models.WatchlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.user_id, w.product_id, p.name, p.brand, w.target_price, w.notify_any_offer
		FROM user_watchlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at, w.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get watchlist %s: %w", userID, err)
	}
	defer rows.Close()

	var out []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		var brand sql.NullString
		var target decimal.NullDecimal
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.ProductName, &brand, &target, &e.NotifyAnyOffer); err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		e.ProductBrand = strPtr(brand)
		e.TargetPrice = decPtr(target)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListChains returns all chains ordered by name.
func (r *offerRepository) ListChains(ctx context.Context) ([]models.Chain, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug, logo_url, website_url
		FROM chains
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	var out []models.Chain
	for rows.Next() {
		var c models.Chain
		var logo, site sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &logo, &site); err != nil {
			return nil, fmt.Errorf("scan chain: %w", err)
		}
		c.LogoURL = strPtr(logo)
		c.WebsiteURL = strPtr(site)
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertOffersBatch inserts multiple offers into DB in a single transaction.
func (r *offerRepository) InsertOffersBatch(ctx context.Context, offers []models.Offer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"offers",
		"id",
		"product_id",
		"chain_id",
		"store_id",
		"original_price",
		"offer_price",
		"discount_pct",
		"discount_type",
		"quantity",
		"price_per_unit",
		"unit_reference",
		"valid_from",
		"valid_to",
		"confidence",
		"source_file",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, o := range offers {
		id := o.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			o.ProductID,
			o.ChainID,
			nullUUID(o.StoreID),
			nullDec(o.OriginalPrice),
			o.OfferPrice,
			nullDec(o.DiscountPct),
			nullStr(o.DiscountType),
			nullStr(o.Quantity),
			nullDec(o.PricePerUnit),
			nullUnit(o.UnitReference),
			toNullDate(o.ValidFrom),
			nullTime(o.ValidTo),
			nullDec(o.Confidence),
			nullStr(o.SourceFile),
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// HasIngestionForFile checks if a source file was already ingested.
func (r *offerRepository) HasIngestionForFile(ctx context.Context, sourceFile string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE source_file = $1)`, sourceFile).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a file.
func (r *offerRepository) UpsertIngestionLog(ctx context.Context, sourceFile string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (source_file, row_count)
		VALUES ($1, $2)
		ON CONFLICT (source_file)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, sourceFile, rowCount)
	return err
}

// DeleteOffersBySource removes every offer loaded from a file.
func (r *offerRepository) DeleteOffersBySource(ctx context.Context, sourceFile string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE source_file = $1`, sourceFile)
	return err
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func decPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

// helpers to map absent values to NULL (nil)
func toNullDate(d time.Time) interface{} {
	if d.IsZero() {
		return nil
	}
	return d
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullDec(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullStr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullUnit(u *models.UnitRef) interface{} {
	if u == nil {
		return nil
	}
	return string(*u)
}
