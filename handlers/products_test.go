package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/services"

	"github.com/gin-gonic/gin"
)

type fakeCatalog struct {
	products map[models.Category][]models.Product
	err      error
	failed   []models.Category
}

func (f *fakeCatalog) LoadProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products[category], nil
}

func (f *fakeCatalog) Trending(ctx context.Context, perCategory int) ([]models.Product, []models.Category) {
	var lists [][]models.Product
	for _, category := range models.AllCategories {
		list := f.products[category]
		if perCategory > 0 && len(list) > perCategory {
			list = list[:perCategory]
		}
		lists = append(lists, list)
	}
	return services.MergeProducts(lists...), f.failed
}

type fakeTracker struct {
	mu     sync.Mutex
	clicks []string
	views  []string
}

func (f *fakeTracker) TrackFeatureClick(category models.Category, deviceType, featureID, clientIP string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, string(category)+"/"+featureID)
}

func (f *fakeTracker) TrackProductView(deviceType, productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, deviceType+"/"+productID)
}

func float(f float64) *float64 { return &f }

func sampleCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[models.Category][]models.Product{
		models.CategorySmartphone: {
			{ID: "p1", Name: "Galaxy S24", Brand: "Samsung", NumericPrice: float(74999),
				Specs: map[string]string{services.SpecRefreshRate: "120Hz", services.SpecNetwork: "5G"}},
			{ID: "p2", Name: "Redmi 13C", Brand: "Xiaomi", NumericPrice: float(8999),
				Specs: map[string]string{services.SpecRefreshRate: "90Hz"}},
			{ID: "p3", Name: "Nord CE", Brand: "OnePlus"},
		},
		models.CategoryTV: {
			{ID: "t1", Name: "Bravia", Brand: "Sony", NumericPrice: float(45000)},
		},
	}}
}

func testRouter(catalog ProductSource, tracker BeaconTracker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	aliases := map[string]string{"mobiles-in": "smartphone", "telly": "tv"}
	products := NewProductHandler(catalog, tracker, aliases, 8)
	features := NewFeatureHandler(catalog, tracker, aliases)

	api := r.Group("/api/v1")
	api.GET("/categories", features.ListCategories)
	api.GET("/products/:category", products.ListProducts)
	api.GET("/products/:category/:id", products.GetProduct)
	api.POST("/products/:category/compare", products.Compare)
	api.POST("/products/track-view", products.TrackView)
	api.GET("/trending", products.Trending)
	api.GET("/features/:category", features.PopularFeatures)
	api.POST("/features/track", features.TrackClick)
	return r
}

func perform(r http.Handler, method, path string, body string, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("bad json %q: %v", w.Body.String(), err)
	}
}

func TestListProducts(t *testing.T) {
	r := testRouter(sampleCatalog(), nil)

	w := perform(r, http.MethodGet, "/api/v1/products/phones?sort=price-low&price_min=1000", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.ProductListResponse
	decode(t, w, &resp)

	if resp.Category != models.CategorySmartphone || resp.Unfiltered != 3 || resp.Total != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Products[0].ID != "p2" || resp.Products[1].ID != "p1" {
		t.Fatalf("order = %s, %s", resp.Products[0].ID, resp.Products[1].ID)
	}
	if len(resp.PopularFeatures) == 0 || resp.PopularFeatures[0].ID != "5g" {
		t.Fatalf("popular features = %+v", resp.PopularFeatures)
	}
	if len(resp.Facets.Brands) != 3 {
		t.Fatalf("facets should cover the unfiltered set: %+v", resp.Facets)
	}
}

func TestListProductsFeatureFilterAndAliases(t *testing.T) {
	r := testRouter(sampleCatalog(), nil)

	var resp models.ProductListResponse
	decode(t, perform(r, http.MethodGet, "/api/v1/products/mobiles-in?feature=120hz", "", ""), &resp)
	if resp.Total != 1 || resp.Products[0].ID != "p1" {
		t.Fatalf("feature filter: %+v", resp.Products)
	}

	// unknown feature ids leave the list untouched
	decode(t, perform(r, http.MethodGet, "/api/v1/products/smartphones?feature=jetpack", "", ""), &resp)
	if resp.Total != 3 {
		t.Fatalf("unknown feature: total %d", resp.Total)
	}
}

func TestListProductsLoadFailure(t *testing.T) {
	r := testRouter(&fakeCatalog{err: errors.New("upstream down")}, nil)

	w := perform(r, http.MethodGet, "/api/v1/products/tv", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.ProductListResponse
	decode(t, w, &resp)
	if resp.Message != services.LoadFailedMessage || resp.Products == nil || len(resp.Products) != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(resp.PopularFeatures) != len(services.Catalog(models.CategoryTV)) {
		t.Fatalf("expected the full feature catalog, got %d", len(resp.PopularFeatures))
	}
}

func TestGetProduct(t *testing.T) {
	r := testRouter(sampleCatalog(), nil)

	w := perform(r, http.MethodGet, "/api/v1/products/tvs/t1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p models.Product
	decode(t, w, &p)
	if p.Name != "Bravia" {
		t.Fatalf("product = %+v", p)
	}

	if w := perform(r, http.MethodGet, "/api/v1/products/tvs/nope", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing product status = %d", w.Code)
	}

	failing := testRouter(&fakeCatalog{err: errors.New("down")}, nil)
	if w := perform(failing, http.MethodGet, "/api/v1/products/tvs/t1", "", ""); w.Code != http.StatusBadGateway {
		t.Fatalf("load failure status = %d", w.Code)
	}
}

func TestCompare(t *testing.T) {
	r := testRouter(sampleCatalog(), nil)

	w := perform(r, http.MethodPost, "/api/v1/products/smartphone/compare", `{"ids":["p3","x","p1","p3"]}`, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Products []models.Product `json:"products"`
		Missing  []string         `json:"missing"`
	}
	decode(t, w, &resp)
	if len(resp.Products) != 2 || resp.Products[0].ID != "p3" || resp.Products[1].ID != "p1" {
		t.Fatalf("products = %+v", resp.Products)
	}
	if len(resp.Missing) != 1 || resp.Missing[0] != "x" {
		t.Fatalf("missing = %v", resp.Missing)
	}

	tooMany := `{"ids":["1","2","3","4","5","6","7"]}`
	if w := perform(r, http.MethodPost, "/api/v1/products/smartphone/compare", tooMany, "application/json"); w.Code != http.StatusBadRequest {
		t.Fatalf("too many ids status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/api/v1/products/smartphone/compare", `{`, "application/json"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", w.Code)
	}
}

func TestTrending(t *testing.T) {
	catalog := sampleCatalog()
	catalog.failed = []models.Category{models.CategoryLaptop}
	r := testRouter(catalog, nil)

	var resp models.TrendingResponse
	decode(t, perform(r, http.MethodGet, "/api/v1/trending?limit=1", "", ""), &resp)
	if len(resp.Products) != 2 || resp.Products[0].ID != "p1" || resp.Products[1].ID != "t1" {
		t.Fatalf("products = %+v", resp.Products)
	}
	if len(resp.Failed) != 1 || resp.Failed[0] != "laptop" || resp.Message != "" {
		t.Fatalf("failed = %v message = %q", resp.Failed, resp.Message)
	}
}

func TestTrackBeacons(t *testing.T) {
	tracker := &fakeTracker{}
	r := testRouter(sampleCatalog(), tracker)

	form := url.Values{"device_type": {"smartphone"}, "feature_id": {"5g"}}.Encode()
	if w := perform(r, http.MethodPost, "/api/v1/features/track", form, "application/x-www-form-urlencoded"); w.Code != http.StatusAccepted {
		t.Fatalf("form beacon status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/api/v1/features/track", `{"device_type":"tv","feature_id":"4k"}`, "application/json"); w.Code != http.StatusAccepted {
		t.Fatalf("json beacon status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/api/v1/features/track", `{"device_type":"telly","feature_id":"hdr"}`, "application/json"); w.Code != http.StatusAccepted {
		t.Fatalf("aliased beacon status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/api/v1/features/track", `{"device_type":"tv"}`, "application/json"); w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete beacon status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/api/v1/products/track-view", `{"device_type":"tv","product_id":"t1"}`, "application/json"); w.Code != http.StatusAccepted {
		t.Fatalf("view beacon status = %d", w.Code)
	}

	if len(tracker.clicks) != 3 || tracker.clicks[0] != "smartphone/5g" || tracker.clicks[1] != "tv/4k" || tracker.clicks[2] != "tv/hdr" {
		t.Fatalf("clicks = %v", tracker.clicks)
	}
	if len(tracker.views) != 1 || tracker.views[0] != "tv/t1" {
		t.Fatalf("views = %v", tracker.views)
	}
}

func TestCategoriesAndPopularFeatures(t *testing.T) {
	r := testRouter(sampleCatalog(), nil)

	var cats struct {
		Categories []models.CategoryInfo `json:"categories"`
	}
	decode(t, perform(r, http.MethodGet, "/api/v1/categories", "", ""), &cats)
	if len(cats.Categories) != len(models.AllCategories) {
		t.Fatalf("categories = %+v", cats.Categories)
	}

	var popular struct {
		Category models.Category         `json:"category"`
		Features []models.PopularFeature `json:"features"`
	}
	decode(t, perform(r, http.MethodGet, "/api/v1/features/smartphone?limit=1", "", ""), &popular)
	if len(popular.Features) != 1 || popular.Features[0].ID != "5g" || popular.Features[0].Count != 1 {
		t.Fatalf("features = %+v", popular.Features)
	}
}
