package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ============================================================================
// CATALOG SERVICE
// Loads raw catalog payloads from the upstream product API and serves them
// as canonical products. Concurrent loads of one category share a single
// upstream request.
// ============================================================================

// LoadFailedMessage is shown to users when a catalog cannot be loaded.
const LoadFailedMessage = "We couldn't load products right now. Please try again later."

var ErrUpstreamStatus = errors.New("upstream returned non-2xx status")

// CatalogFetcher returns the raw payload of one category.
type CatalogFetcher interface {
	FetchCategory(ctx context.Context, category models.Category) ([]byte, error)
}

// ============================================================================
// UPSTREAM CLIENT
// ============================================================================

type CatalogClient struct {
	baseURL    string
	endpoints  map[string]string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string, endpoints map[string]string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL:    baseURL,
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CatalogClient) endpoint(category models.Category) string {
	if ep, ok := c.endpoints[string(category)]; ok && ep != "" {
		return ep
	}
	return "/" + string(category)
}

// FetchCategory issues one GET; there is no retry.
func (c *CatalogClient) FetchCategory(ctx context.Context, category models.Category) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.endpoint(category), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %w", err)
	}
	return body, nil
}

// ============================================================================
// SERVICE
// ============================================================================

type cachedCatalog struct {
	products   []models.Product
	generation int64
	expiresAt  time.Time
}

type CatalogService struct {
	fetcher      CatalogFetcher
	store        SnapshotStore
	ttl          time.Duration
	fetchTimeout time.Duration

	group singleflight.Group

	mu     sync.Mutex
	cache  map[models.Category]cachedCatalog
	issued map[models.Category]int64
}

// NewCatalogService wires the upstream fetcher and an optional snapshot
// store (nil disables persistence).
func NewCatalogService(fetcher CatalogFetcher, store SnapshotStore, ttl, fetchTimeout time.Duration) *CatalogService {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &CatalogService{
		fetcher:      fetcher,
		store:        store,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		cache:        make(map[models.Category]cachedCatalog),
		issued:       make(map[models.Category]int64),
	}
}

// LoadProducts returns the canonical products of a category. The returned
// slice is shared and must not be modified.
func (s *CatalogService) LoadProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	if products, ok := s.cached(category); ok {
		return products, nil
	}

	if s.store != nil {
		snap, err := s.store.Get(ctx, category)
		if err != nil {
			utils.SafeWarn("[Catalog] snapshot lookup failed for %s: %v", category, err)
		} else if snap != nil {
			products := MapProducts(category, snap.Payload)
			s.install(category, products, snap.Generation, snap.ExpiresAt)
			utils.LogCatalogFetch(string(category), "snapshot", len(products), 0)
			return products, nil
		}
	}

	return s.fetchShared(ctx, category)
}

// Refresh drops the in-memory copy and fetches the category again.
func (s *CatalogService) Refresh(ctx context.Context, category models.Category) ([]models.Product, error) {
	s.mu.Lock()
	delete(s.cache, category)
	s.mu.Unlock()
	s.group.Forget(string(category))
	return s.fetchShared(ctx, category)
}

// fetchShared joins or starts the upstream fetch. The fetch itself is
// detached from ctx; ctx only bounds how long this caller waits.
func (s *CatalogService) fetchShared(ctx context.Context, category models.Category) ([]models.Product, error) {
	ch := s.group.DoChan(string(category), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx, category)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Product), nil
	}
}

func (s *CatalogService) fetch(ctx context.Context, category models.Category) ([]models.Product, error) {
	gen := s.nextGeneration(category)
	start := time.Now()

	payload, err := s.fetcher.FetchCategory(ctx, category)
	if err != nil {
		utils.SafeError("[Catalog] ❌ %s fetch failed: %v", category, err)
		return nil, fmt.Errorf("failed to fetch %s: %w", category, err)
	}

	products := MapProducts(category, payload)
	expiresAt := time.Now().Add(s.ttl)
	if !s.install(category, products, gen, expiresAt) {
		utils.SafeDebug("[Catalog] discarding stale %s response (generation %d)", category, gen)
		if current, ok := s.cached(category); ok {
			return current, nil
		}
	}
	utils.LogCatalogFetch(string(category), "upstream", len(products), time.Since(start))

	if s.store != nil {
		snap := Snapshot{
			Category:   category,
			Payload:    payload,
			Generation: gen,
			FetchedAt:  time.Now(),
			ExpiresAt:  expiresAt,
		}
		if err := s.store.Save(ctx, snap); err != nil {
			utils.SafeWarn("[Catalog] ⚠️  Failed to save snapshot: %v", err)
		}
	}
	return products, nil
}

func (s *CatalogService) nextGeneration(category models.Category) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := time.Now().UnixNano()
	if gen <= s.issued[category] {
		gen = s.issued[category] + 1
	}
	s.issued[category] = gen
	return gen
}

// install stores products unless a newer generation is already cached.
func (s *CatalogService) install(category models.Category, products []models.Product, gen int64, expiresAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.cache[category]; ok && cur.generation > gen {
		return false
	}
	s.cache[category] = cachedCatalog{products: products, generation: gen, expiresAt: expiresAt}
	return true
}

func (s *CatalogService) cached(category models.Category) ([]models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cache[category]
	if !ok || time.Now().After(cur.expiresAt) {
		return nil, false
	}
	return cur.products, true
}

// FindProduct looks a product up by id within a category.
func (s *CatalogService) FindProduct(ctx context.Context, category models.Category, id string) (models.Product, bool, error) {
	products, err := s.LoadProducts(ctx, category)
	if err != nil {
		return models.Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

// Trending loads every category concurrently and merges the first
// perCategory products of each. Categories that fail are reported and
// skipped.
func (s *CatalogService) Trending(ctx context.Context, perCategory int) ([]models.Product, []models.Category) {
	lists := make([][]models.Product, len(models.AllCategories))
	failed := make([]bool, len(models.AllCategories))

	var g errgroup.Group
	g.SetLimit(2)
	for i, category := range models.AllCategories {
		g.Go(func() error {
			products, err := s.LoadProducts(ctx, category)
			if err != nil {
				utils.SafeWarn("[Catalog] trending: skipping %s: %v", category, err)
				failed[i] = true
				return nil
			}
			if perCategory > 0 && len(products) > perCategory {
				products = products[:perCategory]
			}
			lists[i] = products
			return nil
		})
	}
	g.Wait()

	var failedCategories []models.Category
	for i, f := range failed {
		if f {
			failedCategories = append(failedCategories, models.AllCategories[i])
		}
	}
	return MergeProducts(lists...), failedCategories
}

// CleanExpiredSnapshots removes expired snapshots from the store.
func (s *CatalogService) CleanExpiredSnapshots(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.CleanExpired(ctx)
}
