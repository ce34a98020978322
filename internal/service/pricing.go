package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/spesasmart/pricing/internal/cache"
	"github.com/spesasmart/pricing/internal/domain/models"
	"github.com/spesasmart/pricing/internal/logger"
	"github.com/spesasmart/pricing/internal/pricing"
	"github.com/spesasmart/pricing/internal/storage"
)

// ErrProductNotFound is returned when the requested product does not exist.
var ErrProductNotFound = errors.New("product not found")

// DefaultDealWorkers bounds concurrent best-price lookups for a watchlist.
const DefaultDealWorkers = 8

// PricingService defines the read operations exposed over HTTP.
//
// Methods returning a pointer return (nil, nil) when the product exists but
// has no offer active today.
type PricingService interface {
	BestPrice(ctx context.Context, productID uuid.UUID, includePrevious bool) (*models.BestPrice, error)
	History(ctx context.Context, productID uuid.UUID) (*models.ProductHistory, error)
	Trends(ctx context.Context, productID uuid.UUID, months int) (*models.ProductTrends, error)
	Indicator(ctx context.Context, productID uuid.UUID) (*models.PriceIndicator, error)
	CompareChains(ctx context.Context, productID uuid.UUID) ([]models.ChainPrice, error)
	Deals(ctx context.Context, userID uuid.UUID) ([]models.Deal, error)
	Chains(ctx context.Context) ([]models.Chain, error)

	ActiveOffers(ctx context.Context, q models.OfferQuery) ([]models.CatalogOffer, error)
	BestOffers(ctx context.Context, category string, limit int) ([]models.CatalogOffer, error)
	CategoryOffers(ctx context.Context, category string, limit int) ([]models.CatalogOffer, error)
}

// Cache is the subset of the Redis cache used for best prices.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Options tunes a pricing service. Zero values fall back to defaults.
type Options struct {
	Cache       Cache
	Thresholds  pricing.Thresholds
	Location    *time.Location
	Now         func() time.Time
	DealWorkers int
	TrendMonths int // window used when a caller passes months <= 0
}

type pricingService struct {
	repo       storage.OfferRepository
	cache      Cache
	thresholds pricing.Thresholds
	loc        *time.Location
	now        func() time.Time
	workers    int
	months     int
	flight     singleflight.Group
}

func NewPricingService(repo storage.OfferRepository, opts Options) PricingService {
	s := &pricingService{
		repo:       repo,
		cache:      opts.Cache,
		thresholds: opts.Thresholds,
		loc:        opts.Location,
		now:        opts.Now,
		workers:    opts.DealWorkers,
		months:     opts.TrendMonths,
	}
	if s.thresholds.Ottimo.IsZero() || s.thresholds.Alto.IsZero() {
		s.thresholds = pricing.DefaultThresholds()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.workers <= 0 {
		s.workers = DefaultDealWorkers
	}
	if s.months <= 0 || s.months > pricing.MaxTrendMonths {
		s.months = pricing.DefaultTrendMonths
	}
	return s
}

// today is the current calendar day in the configured timezone.
func (s *pricingService) today() time.Time {
	return models.Day(s.now().In(s.loc))
}

func (s *pricingService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	_, err := s.repo.GetProduct(ctx, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

// validOffers drops offers that break an invariant and logs each rejection.
func (s *pricingService) validOffers(productID uuid.UUID, offers []models.Offer) ([]models.Offer, int) {
	valid, rejected := pricing.Partition(offers)
	for _, r := range rejected {
		logger.L().Warn().
			Str("product_id", productID.String()).
			Str("offer_id", r.OfferID.String()).
			Err(r.Reason).
			Msg("offer rejected")
	}
	return valid, len(rejected)
}

func (s *pricingService) BestPrice(ctx context.Context, productID uuid.UUID, includePrevious bool) (*models.BestPrice, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.resolveBest(ctx, productID, includePrevious)
}

// cachedBest is the cached form of a resolution; Best is nil when the
// product had no active offer.
type cachedBest struct {
	Best *models.BestPrice `json:"best"`
}

// bestLoadTimeout bounds a shared best-price load. The load is detached from
// the caller that started it, so it needs its own deadline.
const bestLoadTimeout = 10 * time.Second

// resolveBest is cache-aside over the best-price resolution of today.
// Concurrent misses for the same key share one repository round trip; each
// caller still waits on its own context only.
func (s *pricingService) resolveBest(ctx context.Context, productID uuid.UUID, includePrevious bool) (*models.BestPrice, error) {
	day := s.today()
	key := cache.BestPriceKey(productID, day, includePrevious)

	if s.cache != nil {
		var hit cachedBest
		found, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			logger.L().Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			return hit.Best, nil
		}
	}

	ch := s.flight.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bestLoadTimeout)
		defer cancel()
		return s.loadBest(lctx, key, productID, day, includePrevious)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("resolve best price %s: %w", productID, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("resolve best price %s: %w", productID, res.Err)
		}
		return res.Val.(*models.BestPrice), nil
	}
}

// loadBest resolves the best price from the repository and stores it.
func (s *pricingService) loadBest(ctx context.Context, key string, productID uuid.UUID, day time.Time, includePrevious bool) (*models.BestPrice, error) {
	var best *models.BestPrice
	if includePrevious {
		// The previous best can start before today, so the full history is needed.
		offers, err := s.repo.ListAllOffers(ctx, productID)
		if err != nil {
			return nil, err
		}
		valid, _ := s.validOffers(productID, offers)
		best, _ = pricing.ResolveWithPrevious(valid, day)
	} else {
		offers, err := s.repo.ListActiveOffers(ctx, productID, day)
		if err != nil {
			return nil, err
		}
		valid, _ := s.validOffers(productID, offers)
		best, _ = pricing.ResolveBestPrice(valid, day)
	}

	if s.cache != nil {
		// decimal.MarshalJSONWithoutQuotes is switched on process-wide by the dto
		// package, so cached prices are JSON numbers. Decoding accepts both forms.
		if err := s.cache.Set(ctx, key, cachedBest{Best: best}); err != nil {
			logger.L().Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return best, nil
}

func (s *pricingService) History(ctx context.Context, productID uuid.UUID) (*models.ProductHistory, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	offers, err := s.repo.ListAllOffers(ctx, productID)
	if err != nil {
		return nil, err
	}
	valid, skipped := s.validOffers(productID, offers)
	return &models.ProductHistory{
		ProductID:     productID,
		Points:        pricing.History(valid),
		SkippedOffers: skipped,
	}, nil
}

func (s *pricingService) Trends(ctx context.Context, productID uuid.UUID, months int) (*models.ProductTrends, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.months
	}
	if months > pricing.MaxTrendMonths {
		months = pricing.MaxTrendMonths
	}

	offers, err := s.repo.ListAllOffers(ctx, productID)
	if err != nil {
		return nil, err
	}
	valid, skipped := s.validOffers(productID, offers)
	return &models.ProductTrends{
		ProductID:     productID,
		Months:        months,
		Series:        pricing.Trends(valid, months, s.today()),
		SkippedOffers: skipped,
	}, nil
}

// Indicator classifies today's best price against the mean of every valid
// stored offer of the product.
func (s *pricingService) Indicator(ctx context.Context, productID uuid.UUID) (*models.PriceIndicator, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	best, err := s.resolveBest(ctx, productID, false)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, nil
	}

	offers, err := s.repo.ListAllOffers(ctx, productID)
	if err != nil {
		return nil, err
	}
	valid, _ := s.validOffers(productID, offers)
	hist := make([]decimal.Decimal, 0, len(valid))
	for _, o := range valid {
		hist = append(hist, o.OfferPrice)
	}

	out := &models.PriceIndicator{
		ProductID:    productID,
		Indicator:    s.thresholds.Classify(best.Price, hist),
		CurrentPrice: best.Price,
		DataPoints:   len(hist),
	}
	if len(hist) > 0 {
		avg := pricing.Mean(hist).Round(2)
		out.AveragePrice = &avg
	}
	return out, nil
}

func (s *pricingService) CompareChains(ctx context.Context, productID uuid.UUID) ([]models.ChainPrice, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	day := s.today()
	offers, err := s.repo.ListActiveOffers(ctx, productID, day)
	if err != nil {
		return nil, err
	}
	valid, _ := s.validOffers(productID, offers)
	return pricing.CompareChains(valid, day), nil
}

// Deals resolves the best price of every watched product concurrently and
// keeps those that satisfy the entry. The first failure cancels the rest.
func (s *pricingService) Deals(ctx context.Context, userID uuid.UUID) ([]models.Deal, error) {
	entries, err := s.repo.GetWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		best = make(map[uuid.UUID]*models.BestPrice, len(entries))
		seen = make(map[uuid.UUID]struct{}, len(entries))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, e := range entries {
		if _, dup := seen[e.ProductID]; dup {
			continue
		}
		seen[e.ProductID] = struct{}{}

		productID := e.ProductID
		g.Go(func() error {
			bp, err := s.resolveBest(gctx, productID, false)
			if err != nil {
				return err
			}
			mu.Lock()
			best[productID] = bp
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deals := pricing.MatchDeals(entries, best)
	logger.L().Debug().
		Str("user_id", userID.String()).
		Int("watched", len(entries)).
		Int("deals", len(deals)).
		Msg("deals matched")
	return deals, nil
}

func (s *pricingService) Chains(ctx context.Context) ([]models.Chain, error) {
	return s.repo.ListChains(ctx)
}

// catalog loads today's active catalog narrowed by chain and category and
// drops offers that fail validation.
func (s *pricingService) catalog(ctx context.Context, day time.Time, chainSlugs []string, category string) ([]models.CatalogOffer, error) {
	offers, err := s.repo.ListCatalogOffers(ctx, day, chainSlugs, category)
	if err != nil {
		return nil, err
	}
	valid := offers[:0]
	for _, co := range offers {
		if err := pricing.Validate(co.Offer); err != nil {
			logger.L().Warn().
				Str("product_id", co.ProductID.String()).
				Str("offer_id", co.ID.String()).
				Err(err).
				Msg("offer rejected")
			continue
		}
		valid = append(valid, co)
	}
	return valid, nil
}

// withPrevious attaches the last expired price of every listed product.
func (s *pricingService) withPrevious(ctx context.Context, day time.Time, page []models.CatalogOffer) ([]models.CatalogOffer, error) {
	if len(page) == 0 {
		return page, nil
	}
	expired, err := s.repo.LatestExpiredOffers(ctx, pricing.ProductIDs(page), day)
	if err != nil {
		return nil, err
	}
	pricing.AttachPrevious(page, expired)
	return page, nil
}

func (s *pricingService) ActiveOffers(ctx context.Context, q models.OfferQuery) ([]models.CatalogOffer, error) {
	day := s.today()
	offers, err := s.catalog(ctx, day, q.ChainSlugs, q.Category)
	if err != nil {
		return nil, err
	}
	return s.withPrevious(ctx, day, pricing.ActiveOffers(offers, q, day))
}

// BestOffers lists today's largest discounts, optionally within a category.
func (s *pricingService) BestOffers(ctx context.Context, category string, limit int) ([]models.CatalogOffer, error) {
	day := s.today()
	offers, err := s.catalog(ctx, day, nil, category)
	if err != nil {
		return nil, err
	}
	return s.withPrevious(ctx, day, pricing.BestDiscounts(offers, category, limit, day))
}

// CategoryOffers lists today's offers of one category, cheapest first.
func (s *pricingService) CategoryOffers(ctx context.Context, category string, limit int) ([]models.CatalogOffer, error) {
	day := s.today()
	offers, err := s.catalog(ctx, day, nil, category)
	if err != nil {
		return nil, err
	}
	return s.withPrevious(ctx, day, pricing.CategoryOffers(offers, category, limit, day))
}
