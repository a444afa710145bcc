package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/google/uuid"
)

// ============================================================================
// TRACKER
// Best-effort analytics beacons. Every call returns immediately; failures
// are logged at debug level and dropped. Nothing is retried.
// ============================================================================

// ClickBroadcaster pushes live click events to subscribers.
type ClickBroadcaster interface {
	BroadcastClick(category models.Category, featureID string)
}

type Tracker struct {
	trackingURL string
	httpClient  *http.Client
	clicks      ClickStore
	broadcaster ClickBroadcaster
	timeout     time.Duration

	wg sync.WaitGroup
}

// NewTracker builds a tracker. An empty trackingURL disables the upstream
// beacon; clicks and broadcaster may be nil.
func NewTracker(trackingURL string, clicks ClickStore, broadcaster ClickBroadcaster) *Tracker {
	return &Tracker{
		trackingURL: trackingURL,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		clicks:      clicks,
		broadcaster: broadcaster,
		timeout:     5 * time.Second,
	}
}

// SetBroadcaster attaches the live feed after construction.
func (t *Tracker) SetBroadcaster(b ClickBroadcaster) {
	t.broadcaster = b
}

// TrackFeatureClick records a feature chip click. category is the resolved
// form of deviceType; the upstream beacon carries deviceType as sent.
func (t *Tracker) TrackFeatureClick(category models.Category, deviceType, featureID, clientIP string) {
	utils.LogFeatureClick(deviceType, featureID)

	t.detach(func(ctx context.Context) {
		t.post(ctx, url.Values{
			"device_type": {deviceType},
			"feature_id":  {featureID},
		})

		if t.clicks != nil {
			click := models.FeatureClick{
				ID:         uuid.New().String(),
				DeviceType: category,
				FeatureID:  featureID,
				ClientIP:   clientIP,
				CreatedAt:  time.Now(),
			}
			if err := t.clicks.RecordClick(ctx, click); err != nil {
				utils.SafeDebug("[Tracker] click not stored: %v", err)
			}
		}

		if t.broadcaster != nil {
			t.broadcaster.BroadcastClick(category, featureID)
		}
	})
}

// TrackProductView records a product detail view.
func (t *Tracker) TrackProductView(deviceType, productID string) {
	t.detach(func(ctx context.Context) {
		t.post(ctx, url.Values{
			"event":       {"product_view"},
			"device_type": {deviceType},
			"product_id":  {productID},
		})
	})
}

// Wait blocks until every in-flight beacon has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) detach(task func(ctx context.Context)) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				utils.SafeDebug("[Tracker] beacon panicked: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		task(ctx)
	}()
}

func (t *Tracker) post(ctx context.Context, form url.Values) {
	if t.trackingURL == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.trackingURL, strings.NewReader(form.Encode()))
	if err != nil {
		utils.SafeDebug("[Tracker] beacon request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		utils.SafeDebug("[Tracker] beacon failed: %v", err)
		return
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
