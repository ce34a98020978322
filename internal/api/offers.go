package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/spesasmart/pricing/internal/domain/dto"
	"github.com/spesasmart/pricing/internal/domain/models"
	"github.com/spesasmart/pricing/internal/pricing"
)

var hundred = decimal.NewFromInt(100)

// intQuery parses an optional integer query parameter within [lo, hi].
// A missing parameter yields def.
func intQuery(c *gin.Context, name string, def, lo, hi int) (int, error) {
	s := c.Query(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", name, lo, hi)
	}
	return n, nil
}

// chainSlugs splits a comma separated chain filter, dropping empty items.
func chainSlugs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseOfferQuery(c *gin.Context) (models.OfferQuery, error) {
	q := models.OfferQuery{
		ChainSlugs: chainSlugs(c.Query("chain")),
		Category:   strings.TrimSpace(c.Query("category")),
	}

	if s := c.Query("min_discount"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil || d.IsNegative() || d.GreaterThan(hundred) {
			return q, errors.New("min_discount must be a number between 0 and 100")
		}
		q.MinDiscount = &d
	}

	sortBy, ok := models.ParseOfferSort(c.Query("sort"))
	if !ok {
		return q, errors.New("sort must be one of price, discount, name")
	}
	q.Sort = sortBy

	var err error
	if q.Limit, err = intQuery(c, "limit", pricing.DefaultOfferLimit, 1, pricing.MaxOfferLimit); err != nil {
		return q, err
	}
	if q.Offset, err = intQuery(c, "offset", 0, 0, math.MaxInt32); err != nil {
		return q, err
	}
	return q, nil
}

// GetActiveOffers godoc
// @Summary      Active offers
// @Description  Offers active today across every product, filtered, sorted and paged
// @Tags         offers
// @Produce      json
// @Param        chain         query     string  false  "Comma separated chain slugs" example(lidl,coop)
// @Param        category      query     string  false  "Case-insensitive substring of the product category"
// @Param        min_discount  query     number  false  "Minimum discount percentage (0-100)"
// @Param        sort          query     string  false  "Sort order" Enums(price, discount, name)
// @Param        limit         query     int     false  "Page size (1-200)" example(50)
// @Param        offset        query     int     false  "Offset of the first row" example(0)
// @Success      200           {array}   dto.OfferResponse  "Success"
// @Failure      400           {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500           {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/offers/active [get]
func (h *Handler) GetActiveOffers(c *gin.Context) {
	q, err := parseOfferQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), nil))
		return
	}
	offers, err := h.svc.ActiveOffers(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list active offers", err))
		return
	}
	c.JSON(http.StatusOK, dto.NewOfferResponses(offers))
}

// GetBestOffers godoc
// @Summary      Best discounts
// @Description  Offers active today with the largest discount first
// @Tags         offers
// @Produce      json
// @Param        category  query     string  false  "Case-insensitive substring of the product category"
// @Param        limit     query     int     false  "Number of offers (1-100)" example(20)
// @Success      200       {array}   dto.OfferResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500       {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/offers/best [get]
func (h *Handler) GetBestOffers(c *gin.Context) {
	limit, err := intQuery(c, "limit", pricing.DefaultBestLimit, 1, pricing.MaxBestLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), nil))
		return
	}
	offers, err := h.svc.BestOffers(c.Request.Context(), strings.TrimSpace(c.Query("category")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list best offers", err))
		return
	}
	c.JSON(http.StatusOK, dto.NewOfferResponses(offers))
}

// GetCategoryOffers godoc
// @Summary      Offers of a category
// @Description  Offers active today for products of exactly this category, cheapest first
// @Tags         offers
// @Produce      json
// @Param        category  path      string  true   "Product category"
// @Param        limit     query     int     false  "Number of offers (1-200)" example(50)
// @Success      200       {array}   dto.OfferResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500       {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/categories/{category}/offers [get]
func (h *Handler) GetCategoryOffers(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("category is required", nil))
		return
	}
	limit, err := intQuery(c, "limit", pricing.DefaultOfferLimit, 1, pricing.MaxOfferLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), nil))
		return
	}
	offers, err := h.svc.CategoryOffers(c.Request.Context(), category, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list category offers", err))
		return
	}
	c.JSON(http.StatusOK, dto.NewOfferResponses(offers))
}
