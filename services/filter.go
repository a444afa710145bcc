package services

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"
)

// Sort keys accepted by ApplyFilters.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
	SortCapacity  = "capacity"
	SortEnergy    = "energy"
)

// FilterState is the sidebar and search state of a listing. Empty
// dimensions do not filter.
type FilterState struct {
	Brands        []string
	RAM           []string
	Storage       []string
	ScreenSizes   []string
	Resolutions   []string
	EnergyRatings []int
	PriceMin      *float64
	PriceMax      *float64
	FeatureID     string
	Query         string
	Sort          string
}

// ============================================================================
// QUERY PARSING
// ============================================================================

// ParseFilterState reads filter state from query parameters. Repeated keys
// and comma separated lists are both accepted.
func ParseFilterState(q url.Values) FilterState {
	state := FilterState{
		Brands:      queryList(q, "brand", "brands"),
		RAM:         queryList(q, "ram"),
		Storage:     queryList(q, "storage"),
		ScreenSizes: queryList(q, "screen_size", "screen"),
		Resolutions: queryList(q, "resolution"),
		PriceMin:    queryPrice(q, "price_min", "min_price"),
		PriceMax:    queryPrice(q, "price_max", "max_price"),
		FeatureID:   strings.TrimSpace(firstQuery(q, "feature", "feature_id")),
		Query:       strings.TrimSpace(firstQuery(q, "q", "query", "search")),
		Sort:        strings.ToLower(strings.TrimSpace(firstQuery(q, "sort"))),
	}
	for _, s := range queryList(q, "energy", "energy_rating") {
		if n := utils.ParseEnergyRating(s); n > 0 {
			state.EnergyRatings = append(state.EnergyRatings, n)
		}
	}
	return state
}

func queryList(q url.Values, keys ...string) []string {
	var out []string
	for _, key := range keys {
		for _, raw := range q[key] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func firstQuery(q url.Values, keys ...string) string {
	for _, key := range keys {
		if v := q.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// queryPrice treats 0 and garbage as "no bound".
func queryPrice(q url.Values, keys ...string) *float64 {
	return utils.ParsePrice(firstQuery(q, keys...))
}

// ============================================================================
// FILTERING
// ============================================================================

// ApplyFilters returns the products passing every active filter, ordered by
// state.Sort. The input slice is not modified.
func ApplyFilters(category models.Category, products []models.Product, state FilterState) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matchesState(category, p, state) {
			out = append(out, p)
		}
	}
	SortProducts(category, out, state.Sort, state.FeatureID)
	return out
}

func matchesState(category models.Category, p models.Product, state FilterState) bool {
	if len(state.Brands) > 0 && !containsFold(state.Brands, p.Brand) {
		return false
	}
	if len(state.RAM) > 0 && !capacityMatches(p, SpecRAM, state.RAM) {
		return false
	}
	if len(state.Storage) > 0 && !capacityMatches(p, SpecStorage, state.Storage) {
		return false
	}
	if len(state.ScreenSizes) > 0 && !screenMatches(p, state.ScreenSizes) {
		return false
	}
	if len(state.Resolutions) > 0 && !resolutionMatches(p, state.Resolutions) {
		return false
	}
	if len(state.EnergyRatings) > 0 && !containsInt(state.EnergyRatings, p.EnergyRating) {
		return false
	}
	if !priceInRange(p.NumericPrice, state.PriceMin, state.PriceMax) {
		return false
	}
	if state.FeatureID != "" && !MatchesFeature(category, p, state.FeatureID) {
		return false
	}
	if q := strings.ToLower(state.Query); q != "" && !strings.Contains(SearchText(p), q) {
		return false
	}
	return true
}

// priceInRange excludes products of unknown price once any bound is set.
func priceInRange(price, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if price == nil {
		return false
	}
	if min != nil && *price < *min {
		return false
	}
	if max != nil && *price > *max {
		return false
	}
	return true
}

// SearchText is the lowercase haystack free-text search runs against: name,
// brand and the spec line.
func SearchText(p models.Product) string {
	parts := make([]string, 0, len(p.Highlights)+2)
	parts = append(parts, p.Name, p.Brand)
	parts = append(parts, p.Highlights...)
	return strings.ToLower(strings.Join(parts, " "))
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// capacities lists every RAM or storage amount (GB) a product is sold with.
func capacities(p models.Product, key string) []float64 {
	var out []float64
	if gb := utils.ParseCapacityGB(p.Spec(key)); gb > 0 {
		out = append(out, gb)
	}
	for _, v := range p.Variants {
		label := v.Storage
		if key == SpecRAM {
			label = v.RAM
		}
		if gb := utils.ParseCapacityGB(label); gb > 0 {
			out = append(out, gb)
		}
	}
	return out
}

func capacityMatches(p models.Product, key string, selected []string) bool {
	have := capacities(p, key)
	for _, s := range selected {
		want := utils.ParseCapacityGB(s)
		for _, gb := range have {
			if want > 0 && sameNumber(gb, want) {
				return true
			}
		}
	}
	return false
}

func screenMatches(p models.Product, selected []string) bool {
	have := screenSizes(p)
	for _, s := range selected {
		want, ok := utils.FirstNumber(s)
		if !ok {
			continue
		}
		for _, size := range have {
			if sameNumber(size, want) {
				return true
			}
		}
	}
	return false
}

func resolutionMatches(p models.Product, selected []string) bool {
	have := ResolutionLabel(p.Spec(SpecResolution))
	if have == "" {
		return false
	}
	for _, s := range selected {
		if strings.EqualFold(ResolutionLabel(s), have) {
			return true
		}
	}
	return false
}

func sameNumber(a, b float64) bool {
	return math.Abs(a-b) < 0.05
}

// ResolutionLabel folds resolution spellings into 8K, 4K, QHD, Full HD or
// HD Ready. Unrecognized text is returned trimmed.
func ResolutionLabel(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "8k"), strings.Contains(t, "7680"), strings.Contains(t, "4320"):
		return "8K"
	case strings.Contains(t, "4k"), strings.Contains(t, "uhd"), strings.Contains(t, "2160"), strings.Contains(t, "3840"):
		return "4K"
	case strings.Contains(t, "qhd"), strings.Contains(t, "1440"), strings.Contains(t, "2k"), strings.Contains(t, "2560"):
		return "QHD"
	case strings.Contains(t, "full hd"), strings.Contains(t, "fhd"), strings.Contains(t, "1080"), strings.Contains(t, "1920"):
		return "Full HD"
	case strings.Contains(t, "hd ready"), strings.Contains(t, "720"), strings.Contains(t, "1366"), t == "hd":
		return "HD Ready"
	}
	return strings.TrimSpace(text)
}

var resolutionOrder = map[string]int{"8K": 0, "4K": 1, "QHD": 2, "Full HD": 3, "HD Ready": 4}

// ============================================================================
// SORTING
// ============================================================================

// SortProducts orders products in place. Every ordering is stable and
// products without a value for the key go last. Unknown keys leave the
// order untouched.
func SortProducts(category models.Category, products []models.Product, key string, featureID string) {
	switch key {
	case SortPriceLow:
		sortByValue(products, func(p models.Product) *float64 { return p.NumericPrice }, false)
	case SortPriceHigh:
		sortByValue(products, func(p models.Product) *float64 { return p.NumericPrice }, true)
	case SortNewest:
		sortByValue(products, releaseValue, true)
	case SortCapacity:
		sortByValue(products, func(p models.Product) *float64 { return capacitySortValue(category, p) }, true)
	case SortEnergy:
		sortByValue(products, func(p models.Product) *float64 {
			if p.EnergyRating <= 0 {
				return nil
			}
			return ptr(float64(p.EnergyRating))
		}, true)
	case SortFeatured:
		if featureID == "" {
			return
		}
		if def, ok := FindFeature(category, featureID); ok && def.SortValue != nil {
			sortByValue(products, func(p models.Product) *float64 { return safeSortValue(def, p) }, true)
		}
	}
}

func sortByValue(products []models.Product, value func(models.Product) *float64, desc bool) {
	keys := make([]*float64, len(products))
	for i, p := range products {
		keys[i] = value(p)
	}
	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		switch {
		case ka == nil:
			return false
		case kb == nil:
			return true
		case desc:
			return *ka > *kb
		default:
			return *ka < *kb
		}
	})
	sorted := make([]models.Product, len(products))
	for i, j := range idx {
		sorted[i] = products[j]
	}
	copy(products, sorted)
}

func releaseValue(p models.Product) *float64 {
	t, ok := utils.ParseReleaseDate(p.ReleaseDate)
	if !ok {
		return nil
	}
	return ptr(float64(t.Unix()))
}

// capacitySortValue is storage for phones and laptops, screen size for TVs
// and link speed for networking gear.
func capacitySortValue(category models.Category, p models.Product) *float64 {
	switch category {
	case models.CategoryTV:
		return maxScreenSize(p)
	case models.CategoryNetworking:
		if mbps, ok := speedMbps(p); ok {
			return ptr(mbps)
		}
		return nil
	}
	return capacityValue(p, SpecStorage)
}

// ============================================================================
// FACETS
// ============================================================================

// BuildFacets collects the filter options present in a product set.
func BuildFacets(products []models.Product) models.Facets {
	facets := models.Facets{
		Brands:        []string{},
		RAM:           []string{},
		Storage:       []string{},
		ScreenSizes:   []string{},
		Resolutions:   []string{},
		EnergyRatings: []int{},
	}

	brands := make(map[string]bool)
	ram := make(map[float64]bool)
	storage := make(map[float64]bool)
	screens := make(map[float64]bool)
	resolutions := make(map[string]bool)
	energy := make(map[int]bool)

	for _, p := range products {
		if b := strings.TrimSpace(p.Brand); b != "" && !brands[strings.ToLower(b)] {
			brands[strings.ToLower(b)] = true
			facets.Brands = append(facets.Brands, b)
		}
		for _, gb := range capacities(p, SpecRAM) {
			ram[gb] = true
		}
		for _, gb := range capacities(p, SpecStorage) {
			storage[gb] = true
		}
		for _, s := range screenSizes(p) {
			screens[s] = true
		}
		if r := ResolutionLabel(p.Spec(SpecResolution)); r != "" {
			resolutions[r] = true
		}
		if p.EnergyRating > 0 {
			energy[p.EnergyRating] = true
		}
		if p.NumericPrice != nil {
			if facets.Price.Min == nil || *p.NumericPrice < *facets.Price.Min {
				facets.Price.Min = ptr(*p.NumericPrice)
			}
			if facets.Price.Max == nil || *p.NumericPrice > *facets.Price.Max {
				facets.Price.Max = ptr(*p.NumericPrice)
			}
		}
	}

	sort.Slice(facets.Brands, func(i, j int) bool {
		return strings.ToLower(facets.Brands[i]) < strings.ToLower(facets.Brands[j])
	})
	for _, gb := range sortedKeys(ram) {
		facets.RAM = append(facets.RAM, utils.FormatCapacity(gb))
	}
	for _, gb := range sortedKeys(storage) {
		facets.Storage = append(facets.Storage, utils.FormatCapacity(gb))
	}
	for _, s := range sortedKeys(screens) {
		facets.ScreenSizes = append(facets.ScreenSizes, strconv.FormatFloat(s, 'f', -1, 64)+" inch")
	}
	for r := range resolutions {
		facets.Resolutions = append(facets.Resolutions, r)
	}
	sort.Slice(facets.Resolutions, func(i, j int) bool {
		a, b := facets.Resolutions[i], facets.Resolutions[j]
		ra, okA := resolutionOrder[a]
		rb, okB := resolutionOrder[b]
		switch {
		case okA && okB:
			return ra < rb
		case okA != okB:
			return okA
		}
		return a < b
	})
	for n := range energy {
		facets.EnergyRatings = append(facets.EnergyRatings, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(facets.EnergyRatings)))

	return facets
}

func sortedKeys(m map[float64]bool) []float64 {
	keys := make([]float64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}
