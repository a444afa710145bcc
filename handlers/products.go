package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/services"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/gin-gonic/gin"
)

// maxCompare caps the side-by-side view.
const maxCompare = 6

// ProductSource is the part of the catalog service the handlers need.
type ProductSource interface {
	LoadProducts(ctx context.Context, category models.Category) ([]models.Product, error)
	Trending(ctx context.Context, perCategory int) ([]models.Product, []models.Category)
}

// BeaconTracker sends fire-and-forget analytics.
type BeaconTracker interface {
	TrackFeatureClick(category models.Category, deviceType, featureID, clientIP string)
	TrackProductView(deviceType, productID string)
}

type ProductHandler struct {
	Catalog       ProductSource
	Tracker       BeaconTracker
	Aliases       map[string]string
	TrendingLimit int
}

func NewProductHandler(catalog ProductSource, tracker BeaconTracker, aliases map[string]string, trendingLimit int) *ProductHandler {
	return &ProductHandler{
		Catalog:       catalog,
		Tracker:       tracker,
		Aliases:       aliases,
		TrendingLimit: trendingLimit,
	}
}

// category resolves the :category param; unknown aliases fall back to the
// default category.
func resolveCategory(c *gin.Context, aliases map[string]string) models.Category {
	category, ok := services.LookupCategory(c.Param("category"), aliases)
	if !ok {
		utils.SafeDebug("[API] unknown category %q, using %s", c.Param("category"), category)
	}
	return category
}

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// ListProducts returns the filtered, sorted listing of a category along with
// its popular features and facets.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	category := resolveCategory(c, h.Aliases)
	state := services.ParseFilterState(c.Request.URL.Query())
	featureLimit := queryInt(c, "feature_limit", 0)

	products, err := h.Catalog.LoadProducts(c.Request.Context(), category)
	if err != nil {
		utils.SafeError("[API] ❌ Failed to load %s: %v", category, err)
		c.JSON(http.StatusOK, models.ProductListResponse{
			Category:        category,
			Products:        []models.Product{},
			PopularFeatures: services.ComputePopularFeatures(category, nil, featureLimit),
			Facets:          services.BuildFacets(nil),
			Message:         services.LoadFailedMessage,
		})
		return
	}

	visible := services.ApplyFilters(category, products, state)
	c.JSON(http.StatusOK, models.ProductListResponse{
		Category:        category,
		Products:        visible,
		Total:           len(visible),
		Unfiltered:      len(products),
		PopularFeatures: services.ComputePopularFeatures(category, products, featureLimit),
		Facets:          services.BuildFacets(products),
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	category := resolveCategory(c, h.Aliases)
	id := c.Param("id")

	products, err := h.Catalog.LoadProducts(c.Request.Context(), category)
	if err != nil {
		utils.SafeError("[API] ❌ Failed to load %s: %v", category, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": services.LoadFailedMessage})
		return
	}

	for _, p := range products {
		if p.ID == id {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
}

// Compare returns the requested products in request order; unknown ids are
// listed under "missing".
func (h *ProductHandler) Compare(c *gin.Context) {
	category := resolveCategory(c, h.Aliases)

	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(req.IDs) == 0 || len(req.IDs) > maxCompare {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Select between 1 and " + strconv.Itoa(maxCompare) + " products"})
		return
	}

	products, err := h.Catalog.LoadProducts(c.Request.Context(), category)
	if err != nil {
		utils.SafeError("[API] ❌ Failed to load %s: %v", category, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": services.LoadFailedMessage})
		return
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	selected := make([]models.Product, 0, len(req.IDs))
	missing := []string{}
	for _, id := range req.IDs {
		if p, ok := byID[id]; ok {
			selected = append(selected, p)
		} else {
			missing = append(missing, id)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"products": services.MergeProducts(selected),
		"missing":  missing,
	})
}

func (h *ProductHandler) Trending(c *gin.Context) {
	limit := queryInt(c, "limit", h.TrendingLimit)
	products, failed := h.Catalog.Trending(c.Request.Context(), limit)

	resp := models.TrendingResponse{Products: products}
	for _, f := range failed {
		resp.Failed = append(resp.Failed, string(f))
	}
	if len(products) == 0 && len(failed) > 0 {
		resp.Message = services.LoadFailedMessage
	}
	c.JSON(http.StatusOK, resp)
}

// TrackView accepts a product view beacon.
func (h *ProductHandler) TrackView(c *gin.Context) {
	var req models.TrackViewRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if h.Tracker != nil {
		h.Tracker.TrackProductView(req.DeviceType, req.ProductID)
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
