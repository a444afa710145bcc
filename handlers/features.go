package handlers

import (
	"net/http"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/services"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/gin-gonic/gin"
)

type FeatureHandler struct {
	Catalog ProductSource
	Tracker BeaconTracker
	Aliases map[string]string
}

func NewFeatureHandler(catalog ProductSource, tracker BeaconTracker, aliases map[string]string) *FeatureHandler {
	return &FeatureHandler{Catalog: catalog, Tracker: tracker, Aliases: aliases}
}

// ListCategories describes every category with its full feature catalog.
func (h *FeatureHandler) ListCategories(c *gin.Context) {
	infos := make([]models.CategoryInfo, 0, len(models.AllCategories))
	for _, category := range models.AllCategories {
		infos = append(infos, models.CategoryInfo{
			ID:       category,
			Aliases:  services.CategoryAliases(category),
			Features: services.ComputePopularFeatures(category, nil, 0),
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": infos})
}

// PopularFeatures ranks features over the current product set of a category.
func (h *FeatureHandler) PopularFeatures(c *gin.Context) {
	category := resolveCategory(c, h.Aliases)
	limit := queryInt(c, "limit", 0)

	products, err := h.Catalog.LoadProducts(c.Request.Context(), category)
	if err != nil {
		utils.SafeError("[API] ❌ Failed to load %s: %v", category, err)
		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"features": services.ComputePopularFeatures(category, nil, limit),
			"message":  services.LoadFailedMessage,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"features": services.ComputePopularFeatures(category, products, limit),
	})
}

// TrackClick accepts a feature chip click, form-encoded or JSON.
func (h *FeatureHandler) TrackClick(c *gin.Context) {
	var req models.TrackFeatureRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if h.Tracker != nil {
		category, _ := services.LookupCategory(req.DeviceType, h.Aliases)
		h.Tracker.TrackFeatureClick(category, req.DeviceType, req.FeatureID, c.ClientIP())
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
