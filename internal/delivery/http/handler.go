package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pawcompare/backend/internal/domain"
)

// ComparisonUsecase is the slice of the comparison service the handlers need.
type ComparisonUsecase interface {
	CompareByName(ctx context.Context, pattern string) ([]domain.ProductGroup, error)
	BestValueByBrand(ctx context.Context, brand string) ([]domain.PricedListing, error)
	SizeComparison(ctx context.Context, productID string) (*domain.ProductGroup, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons ComparisonUsecase
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	log         *logrus.Logger
}

// NewHandler creates a new HTTP handler. The cache may be nil to serve every
// request fresh.
func NewHandler(comparisons ComparisonUsecase, cache domain.CacheRepository, cacheTTL time.Duration, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{comparisons: comparisons, cache: cache, cacheTTL: cacheTTL, log: log}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pawcompare-backend",
		"version": "1.0.0",
	})
}

// CompareProducts handles GET /api/v1/compare?q=<pattern>
func (h *Handler) CompareProducts(c *gin.Context) {
	query := c.Query("q")
	cacheKey := "compare:" + strings.ToLower(strings.TrimSpace(query))

	if cached, ok := h.fromCache(c, cacheKey); ok {
		respondOK(c, cached)
		return
	}

	groups, err := h.comparisons.CompareByName(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	h.toCache(c, cacheKey, groups)
	respondOK(c, groups)
}

// BestValue handles GET /api/v1/best-value?brand=<brand>
func (h *Handler) BestValue(c *gin.Context) {
	brand := c.Query("brand")
	cacheKey := "best-value:" + strings.ToLower(strings.TrimSpace(brand))

	if cached, ok := h.fromCache(c, cacheKey); ok {
		respondOK(c, cached)
		return
	}

	picks, err := h.comparisons.BestValueByBrand(c.Request.Context(), brand)
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{"products": picks}
	h.toCache(c, cacheKey, data)
	respondOK(c, data)
}

// ProductSizes handles GET /api/v1/products/:id/sizes
func (h *Handler) ProductSizes(c *gin.Context) {
	id := c.Param("id")

	group, err := h.comparisons.SizeComparison(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, group)
}

func (h *Handler) fromCache(c *gin.Context, key string) (interface{}, bool) {
	if h.cache == nil {
		return nil, false
	}
	value, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (h *Handler) toCache(c *gin.Context, key string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(c.Request.Context(), key, value, h.cacheTTL); err != nil {
		h.log.WithError(err).WithField("key", key).Warn("response cache write failed")
	}
}
