// handlers/admin.go
package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/LovationAdmin/device-compare-api/services"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/gin-gonic/gin"
)

// clickRetention bounds how long raw click rows are kept.
const clickRetention = 90 * 24 * time.Hour

// SnapshotCleaner removes expired catalog snapshots.
type SnapshotCleaner interface {
	CleanExpiredSnapshots(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	Clicks   services.ClickStore
	Snapshot SnapshotCleaner
	Aliases  map[string]string
}

type featureClickCount struct {
	FeatureID string `json:"feature_id"`
	Name      string `json:"name"`
	Clicks    int    `json:"clicks"`
}

// FeatureClicks reports click totals per feature of a category, most
// clicked first.
func (h *AdminHandler) FeatureClicks(c *gin.Context) {
	if h.Clicks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Click storage is not configured"})
		return
	}
	category := resolveCategory(c, h.Aliases)

	counts, err := h.Clicks.ClickCounts(c.Request.Context(), category)
	if err != nil {
		utils.SafeError("[Admin] ❌ click counts for %s: %v", category, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load click counts"})
		return
	}

	rows := make([]featureClickCount, 0, len(counts))
	for id, n := range counts {
		name := id
		if def, ok := services.FindFeature(category, id); ok {
			name = def.Name
		}
		rows = append(rows, featureClickCount{FeatureID: id, Name: name, Clicks: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Clicks != rows[j].Clicks {
			return rows[i].Clicks > rows[j].Clicks
		}
		return rows[i].FeatureID < rows[j].FeatureID
	})

	c.JSON(http.StatusOK, gin.H{"category": category, "features": rows})
}

// CleanCache removes expired snapshots and old click rows.
func (h *AdminHandler) CleanCache(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	var snapshots, clicks int64
	if h.Snapshot != nil {
		n, err := h.Snapshot.CleanExpiredSnapshots(ctx)
		if err != nil {
			utils.SafeError("[Admin] ❌ snapshot cleanup: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		snapshots = n
	}
	if h.Clicks != nil {
		n, err := h.Clicks.CleanOlderThan(ctx, clickRetention)
		if err != nil {
			utils.SafeError("[Admin] ❌ click cleanup: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		clicks = n
	}

	utils.SafeInfo("[Admin] 🧹 Cleaned %d snapshots and %d clicks", snapshots, clicks)
	c.JSON(http.StatusOK, gin.H{"snapshots_removed": snapshots, "clicks_removed": clicks})
}
