package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LovationAdmin/device-compare-api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestWSBroadcastClickFiltersByCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ws := NewWSHandler(nil)
	defer ws.Close()

	r := gin.New()
	r.GET("/ws/features/:category", ws.HandleWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http")
	tvConn, _, err := websocket.DefaultDialer.Dial(base+"/ws/features/tvs", nil)
	if err != nil {
		t.Fatalf("dial tv: %v", err)
	}
	defer tvConn.Close()
	phoneConn, _, err := websocket.DefaultDialer.Dial(base+"/ws/features/smartphone", nil)
	if err != nil {
		t.Fatalf("dial phone: %v", err)
	}
	defer phoneConn.Close()

	// wait for both sessions to register
	deadline := time.Now().Add(2 * time.Second)
	for ws.M.Len() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	ws.BroadcastClick(models.CategoryTV, "4k")

	tvConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := tvConn.ReadMessage()
	if err != nil {
		t.Fatalf("tv read: %v", err)
	}
	var event clickEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatal(err)
	}
	if event.Type != "feature_click" || event.Category != models.CategoryTV || event.FeatureID != "4k" {
		t.Fatalf("event = %+v", event)
	}

	phoneConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := phoneConn.ReadMessage(); err == nil {
		t.Fatal("smartphone subscriber should not receive tv clicks")
	}
}
