package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"
)

// ============================================================================
// FEATURE CATALOG
// ============================================================================

// FeatureDefinition is one static catalog entry. SortValue may be nil when
// the feature has no natural strength to rank by.
type FeatureDefinition struct {
	ID        string
	Name      string
	Icon      string
	Priority  int
	Match     func(models.Product) bool
	SortValue func(models.Product) *float64
}

// Catalog returns a copy of the feature catalog of a category.
func Catalog(category models.Category) []FeatureDefinition {
	defs := featureCatalogs[category]
	out := make([]FeatureDefinition, len(defs))
	copy(out, defs)
	return out
}

// FindFeature looks up a definition by id.
func FindFeature(category models.Category, featureID string) (FeatureDefinition, bool) {
	id := strings.ToLower(strings.TrimSpace(featureID))
	for _, def := range featureCatalogs[category] {
		if def.ID == id {
			return def, true
		}
	}
	return FeatureDefinition{}, false
}

// ============================================================================
// MATCHING
// ============================================================================

// safeMatch runs a predicate; a panic counts as a non-match.
func safeMatch(def FeatureDefinition, p models.Product) (matched bool) {
	if def.Match == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			utils.SafeDebug("[Features] predicate %s panicked on %s: %v", def.ID, p.ID, r)
			matched = false
		}
	}()
	return def.Match(p)
}

// safeSortValue runs a sort-value extractor; a panic yields nil.
func safeSortValue(def FeatureDefinition, p models.Product) (value *float64) {
	if def.SortValue == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			utils.SafeDebug("[Features] sort value %s panicked on %s: %v", def.ID, p.ID, r)
			value = nil
		}
	}()
	return def.SortValue(p)
}

// MatchesFeature reports whether a product has a feature. An unknown feature
// id matches every product, so a stale id in a URL leaves the list unfiltered.
func MatchesFeature(category models.Category, p models.Product, featureID string) bool {
	def, ok := FindFeature(category, featureID)
	if !ok {
		return true
	}
	return safeMatch(def, p)
}

// GetFeatureSortValue is the numeric strength of a feature on a product, or
// nil when the feature is unknown or has no value for it.
func GetFeatureSortValue(category models.Category, p models.Product, featureID string) *float64 {
	def, ok := FindFeature(category, featureID)
	if !ok {
		return nil
	}
	return safeSortValue(def, p)
}

// ComputePopularFeatures counts how many products match each feature.
// Features nobody matches are dropped unless the product set is empty, in
// which case the whole catalog is returned with zero counts. Results are
// ordered by priority, then count, then name; limit 0 means no limit.
func ComputePopularFeatures(category models.Category, products []models.Product, limit int) []models.PopularFeature {
	defs := featureCatalogs[category]
	out := make([]models.PopularFeature, 0, len(defs))

	for _, def := range defs {
		count := 0
		for _, p := range products {
			if safeMatch(def, p) {
				count++
			}
		}
		if len(products) > 0 && count == 0 {
			continue
		}
		out = append(out, models.PopularFeature{
			ID:       def.ID,
			Name:     def.Name,
			Icon:     def.Icon,
			Priority: def.Priority,
			Count:    count,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ============================================================================
// PRODUCT READERS
// Helpers shared by predicates, filters and facets.
// ============================================================================

func specNumber(p models.Product, key string) (float64, bool) {
	return utils.FirstNumber(p.Spec(key))
}

func specContains(p models.Product, key string, needles ...string) bool {
	text := strings.ToLower(p.Spec(key))
	if text == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func specYes(p models.Product, key string) bool {
	switch strings.ToLower(strings.TrimSpace(p.Spec(key))) {
	case "", "no", "none", "false", "not supported", "n/a", "0":
		return false
	}
	return true
}

func atLeast(p models.Product, key string, min float64) bool {
	n, ok := specNumber(p, key)
	return ok && n >= min
}

func numberValue(p models.Product, key string) *float64 {
	n, ok := specNumber(p, key)
	if !ok {
		return nil
	}
	return &n
}

func ptr(f float64) *float64 {
	return &f
}

// maxCapacity is the largest RAM or storage amount (GB) across the spec bag
// and all variants.
func maxCapacity(p models.Product, key string) float64 {
	best := utils.ParseCapacityGB(p.Spec(key))
	for _, v := range p.Variants {
		label := v.Storage
		if key == SpecRAM {
			label = v.RAM
		}
		if gb := utils.ParseCapacityGB(label); gb > best {
			best = gb
		}
	}
	return best
}

func capacityValue(p models.Product, key string) *float64 {
	if gb := maxCapacity(p, key); gb > 0 {
		return &gb
	}
	return nil
}

// screenSizes lists every known screen diagonal in inches.
func screenSizes(p models.Product) []float64 {
	var sizes []float64
	if n, ok := specNumber(p, SpecScreenSize); ok && n > 0 {
		sizes = append(sizes, n)
	}
	for _, v := range p.Variants {
		if n, ok := utils.FirstNumber(v.ScreenSize); ok && n > 0 {
			sizes = append(sizes, n)
		}
	}
	return sizes
}

func maxScreenSize(p models.Product) *float64 {
	var best *float64
	for _, s := range screenSizes(p) {
		if best == nil || s > *best {
			best = ptr(s)
		}
	}
	return best
}

var (
	fiveGRegex      = regexp.MustCompile(`(?i)\b5g\b`)
	wattsRegex      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*w\b`)
	megapixelRegex  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mp`)
	hoursRegex      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours|hrs|hr|h)\b`)
	gigabitRegex    = regexp.MustCompile(`(?i)gigabit|\bgbe\b|1000\s*mbps|\b(?:1|2\.5|5|10)\s*g(?:bps)?\b`)
	gamingGPURegex  = regexp.MustCompile(`(?i)\brtx\b|\bgtx\b|radeon\s+rx|\brx\s*\d{3,4}|\barc\s+a\d`)
	ipRatingRegex   = regexp.MustCompile(`(?i)\bip\s*[5-6][5-8]\b`)
	wifi7Regex      = regexp.MustCompile(`(?i)wi-?fi\s*7|802\.11\s*be|\bbe\d{4,5}\b`)
	wifi6ERegex     = regexp.MustCompile(`(?i)wi-?fi\s*6e|\baxe\d{4,5}\b`)
	wifi6Regex      = regexp.MustCompile(`(?i)wi-?fi\s*6|802\.11\s*ax|\bax\d{3,5}\b`)
	wifi5Regex      = regexp.MustCompile(`(?i)wi-?fi\s*5|802\.11\s*ac|\bac\d{3,5}\b`)
	speedUnitsRegex = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(gbps|mbps)`)
)

func firstMatchNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	return utils.FirstNumber(m[1])
}

// chargingWatts reads "67W SUPERVOOC" style labels.
func chargingWatts(p models.Product) (float64, bool) {
	return firstMatchNumber(wattsRegex, p.Spec(SpecCharging))
}

func cameraMegapixels(p models.Product) (float64, bool) {
	return firstMatchNumber(megapixelRegex, p.Spec(SpecCamera))
}

func batteryHours(p models.Product) (float64, bool) {
	if h, ok := firstMatchNumber(hoursRegex, p.Spec(SpecBatteryLife)); ok {
		return h, true
	}
	return specNumber(p, SpecBatteryLife)
}

// laptopWeightKg reads "1.24 kg" or "1240 g".
func laptopWeightKg(p models.Product) (float64, bool) {
	text := strings.ToLower(p.Spec(SpecWeight))
	n, ok := utils.FirstNumber(text)
	if !ok || n <= 0 {
		return 0, false
	}
	if !strings.Contains(text, "kg") && (strings.Contains(text, "g") || n > 100) {
		n /= 1000
	}
	return n, true
}

// wifiGeneration maps a Wi-Fi standard label to its generation number.
func wifiGeneration(p models.Product) int {
	text := p.Spec(SpecWifiStandard) + " " + p.Name
	switch {
	case wifi7Regex.MatchString(text):
		return 7
	case wifi6ERegex.MatchString(text), wifi6Regex.MatchString(text):
		return 6
	case wifi5Regex.MatchString(text):
		return 5
	}
	return 0
}

// speedMbps reads "AX3000", "3000 Mbps" or "2.4 Gbps".
func speedMbps(p models.Product) (float64, bool) {
	text := p.Spec(SpecSpeed)
	if m := speedUnitsRegex.FindStringSubmatch(text); len(m) == 3 {
		n, ok := utils.FirstNumber(m[1])
		if !ok {
			return 0, false
		}
		if strings.EqualFold(m[2], "gbps") {
			n *= 1000
		}
		return n, true
	}
	return utils.FirstNumber(text)
}

func bandCount(p models.Product) int {
	text := strings.ToLower(p.Spec(SpecBands))
	switch {
	case strings.Contains(text, "quad"):
		return 4
	case strings.Contains(text, "tri"):
		return 3
	case strings.Contains(text, "dual"):
		return 2
	}
	return strings.Count(text, "ghz")
}
