package handlers

import (
	"encoding/json"
	"time"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

const wsCategoryKey = "category"

// WSHandler streams feature clicks to storefront tabs watching a category.
type WSHandler struct {
	M       *melody.Melody
	Aliases map[string]string
}

type clickEvent struct {
	Type      string          `json:"type"`
	Category  models.Category `json:"category"`
	FeatureID string          `json:"feature_id"`
	At        time.Time       `json:"at"`
}

func NewWSHandler(aliases map[string]string) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024

	// Keep-alive for hosted proxies that drop idle sockets
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		category, _ := s.Get(wsCategoryKey)
		utils.LogWebSocket("connected", toString(category))
	})

	m.HandleDisconnect(func(s *melody.Session) {
		category, _ := s.Get(wsCategoryKey)
		utils.LogWebSocket("disconnected", toString(category))
	})

	m.HandleError(func(s *melody.Session, err error) {
		utils.SafeWarn("[WS] ❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m, Aliases: aliases}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// HandleWS upgrades the request and subscribes it to one category.
func (h *WSHandler) HandleWS(c *gin.Context) {
	category := resolveCategory(c, h.Aliases)

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		wsCategoryKey: string(category),
	})
	if err != nil {
		utils.SafeWarn("[WS] ❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastClick sends a click event to every session of the category.
func (h *WSHandler) BroadcastClick(category models.Category, featureID string) {
	msg, err := json.Marshal(clickEvent{
		Type:      "feature_click",
		Category:  category,
		FeatureID: featureID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		v, exists := q.Get(wsCategoryKey)
		return exists && toString(v) == string(category)
	})
	if err != nil {
		utils.SafeDebug("[WS] ⚠️ Error broadcasting to %s: %v", category, err)
	}
}

func (h *WSHandler) Close() error {
	return h.M.Close()
}
