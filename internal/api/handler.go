package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spesasmart/pricing/internal/auth"
	"github.com/spesasmart/pricing/internal/domain/dto"
	"github.com/spesasmart/pricing/internal/pricing"
	"github.com/spesasmart/pricing/internal/service"
)

const (
	msgInvalidProductID = "invalid product id, expected UUID"
	msgProductNotFound  = "product not found"
	msgNoActiveOffers   = "no active offers"
)

// Handler provides HTTP handlers for the pricing endpoints.
//
// Responsibilities:
//   - Validate path and query parameters
//   - Delegate to the pricing service with the request context
//   - Translate domain results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc service.PricingService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.PricingService): read operations over offers and watchlists.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.PricingService) *Handler {
	return &Handler{svc: svc}
}

// productID parses the :id path parameter, writing a 400 when malformed.
func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(msgInvalidProductID, err))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(msgProductNotFound, nil))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(msg, err))
}

// GetBestPrice godoc
// @Summary      Best price of a product
// @Description  Returns the cheapest offer active today across all chains
// @Tags         products
// @Produce      json
// @Param        id                path      string  true   "Product UUID"
// @Param        include_previous  query     bool    false  "Also resolve the best price before the current offer started"
// @Success      200               {object}  dto.BestPriceResponse  "Success"
// @Failure      400               {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404               {object}  dto.ErrorResponse      "Not Found"
// @Failure      500               {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/products/{id}/best-price [get]
func (h *Handler) GetBestPrice(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	includePrevious := false
	if s := c.Query("include_previous"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("include_previous must be a boolean", err))
			return
		}
		includePrevious = v
	}

	best, err := h.svc.BestPrice(c.Request.Context(), id, includePrevious)
	if err != nil {
		writeServiceError(c, "failed to resolve best price", err)
		return
	}
	if best == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(msgNoActiveOffers, nil))
		return
	}

	c.JSON(http.StatusOK, dto.NewBestPriceResponse(best))
}

// GetHistory godoc
// @Summary      Price history of a product
// @Description  Lists every stored valid offer of the product, oldest first
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product UUID"
// @Success      200  {object}  dto.HistoryResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse    "Not Found"
// @Failure      500  {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/products/{id}/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	hist, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, "failed to fetch price history", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoryResponse(hist))
}

// GetPriceTrends godoc
// @Summary      Monthly price trends of a product
// @Description  Average, minimum and maximum price per calendar month
// @Tags         products
// @Produce      json
// @Param        id      path      string  true   "Product UUID"
// @Param        months  query     int     false  "Window size in months (1-60)" example(12)
// @Success      200     {object}  dto.TrendsResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse   "Not Found"
// @Failure      500     {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/products/{id}/price-trends [get]
func (h *Handler) GetPriceTrends(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	months := 0
	if s := c.Query("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > pricing.MaxTrendMonths {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("months must be an integer between 1 and 60", err))
			return
		}
		months = n
	}

	tr, err := h.svc.Trends(c.Request.Context(), id, months)
	if err != nil {
		writeServiceError(c, "failed to compute price trends", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTrendsResponse(tr))
}

// GetIndicator godoc
// @Summary      Price indicator of a product
// @Description  Classifies the current best price as ottimo, medio or alto against its history
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product UUID"
// @Success      200  {object}  dto.IndicatorResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse      "Not Found"
// @Failure      500  {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/products/{id}/indicator [get]
func (h *Handler) GetIndicator(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	ind, err := h.svc.Indicator(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, "failed to classify price", err)
		return
	}
	if ind == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(msgNoActiveOffers, nil))
		return
	}
	c.JSON(http.StatusOK, dto.NewIndicatorResponse(ind))
}

// CompareChains godoc
// @Summary      Compare chains for a product
// @Description  Cheapest active offer per chain, cheapest first
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product UUID"
// @Success      200  {array}   dto.ChainPriceResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse       "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse       "Not Found"
// @Failure      500  {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/products/{id}/compare [get]
func (h *Handler) CompareChains(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	rows, err := h.svc.CompareChains(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, "failed to compare chains", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewChainPriceResponses(rows))
}

// ListChains godoc
// @Summary      List chains
// @Tags         chains
// @Produce      json
// @Success      200  {array}   dto.ChainResponse  "Success"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/chains [get]
func (h *Handler) ListChains(c *gin.Context) {
	chains, err := h.svc.Chains(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list chains", err))
		return
	}
	c.JSON(http.StatusOK, dto.NewChainResponses(chains))
}

// GetMyDeals godoc
// @Summary      Deals on the caller's watchlist
// @Description  Watched products whose best price currently satisfies the entry
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.DealResponse   "Success"
// @Failure      401  {object}  dto.ErrorResponse  "Unauthorized"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/users/me/deals [get]
func (h *Handler) GetMyDeals(c *gin.Context) {
	p, ok := auth.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("authentication required", nil))
		return
	}
	deals, err := h.svc.Deals(c.Request.Context(), p.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to match deals", err))
		return
	}
	c.JSON(http.StatusOK, dto.NewDealResponses(deals))
}
