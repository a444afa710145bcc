package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/tidwall/gjson"
)

// ============================================================================
// CATEGORY ALIASES
// ============================================================================

var defaultCategoryAliases = map[string]models.Category{
	"smartphone":  models.CategorySmartphone,
	"smartphones": models.CategorySmartphone,
	"phone":       models.CategorySmartphone,
	"phones":      models.CategorySmartphone,
	"mobile":      models.CategorySmartphone,
	"mobiles":     models.CategorySmartphone,
	"laptop":      models.CategoryLaptop,
	"laptops":     models.CategoryLaptop,
	"notebook":    models.CategoryLaptop,
	"notebooks":   models.CategoryLaptop,
	"tv":          models.CategoryTV,
	"tvs":         models.CategoryTV,
	"television":  models.CategoryTV,
	"televisions": models.CategoryTV,
	"smart-tv":    models.CategoryTV,
	"networking":  models.CategoryNetworking,
	"network":     models.CategoryNetworking,
	"router":      models.CategoryNetworking,
	"routers":     models.CategoryNetworking,
	"wifi":        models.CategoryNetworking,
}

// CategoryAliases lists the built-in aliases of a category, sorted.
func CategoryAliases(category models.Category) []string {
	var aliases []string
	for alias, c := range defaultCategoryAliases {
		if c == category && alias != string(category) {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// ParseCategory resolves a category alias. Unknown aliases fall back to
// smartphone; use LookupCategory to tell the two apart.
func ParseCategory(alias string) models.Category {
	c, _ := LookupCategory(alias, nil)
	return c
}

// LookupCategory resolves alias against extra (configured) aliases first and
// the built-in table second. ok is false when the default was used.
func LookupCategory(alias string, extra map[string]string) (models.Category, bool) {
	key := strings.ToLower(strings.TrimSpace(alias))
	if target, found := extra[key]; found {
		if c, known := defaultCategoryAliases[strings.ToLower(target)]; known {
			return c, true
		}
	}
	if c, found := defaultCategoryAliases[key]; found {
		return c, true
	}
	return models.CategorySmartphone, false
}

// ============================================================================
// PRODUCT MAPPER
// ============================================================================

// MapProducts decodes a catalog payload and maps every record. The payload
// may be a bare array or an object wrapping one under data, products, items
// or results. Malformed payloads map to an empty list.
func MapProducts(category models.Category, payload []byte) []models.Product {
	if !gjson.ValidBytes(payload) {
		return []models.Product{}
	}
	records := payloadRecords(gjson.ParseBytes(payload))
	products := make([]models.Product, 0, len(records))
	for i, record := range records {
		products = append(products, MapProduct(category, record, i))
	}
	return products
}

var payloadWrapperKeys = []string{"data", "products", "items", "results"}

func payloadRecords(root gjson.Result) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	for _, key := range payloadWrapperKeys {
		v := root.Get(key)
		if v.IsArray() {
			return v.Array()
		}
		if v.IsObject() {
			for _, inner := range payloadWrapperKeys {
				if nested := v.Get(inner); nested.IsArray() {
					return nested.Array()
				}
			}
		}
	}
	return []gjson.Result{}
}

// MapProduct converts one raw record into a canonical product. It never
// fails: missing or malformed sections degrade to empty values.
func MapProduct(category models.Category, raw gjson.Result, index int) models.Product {
	record := utils.ToObjectIfNeeded(raw)

	id := FirstText(record, idFields)
	if id == "" {
		id = strconv.Itoa(index)
	}

	specs := make(map[string]string)
	for _, field := range categoryFields[category] {
		if v := FirstText(record, field.Sources); v != "" {
			specs[field.Key] = v
		}
	}

	rawVariants := parseVariants(category, id, record)
	variants := make([]models.Variant, len(rawVariants))
	priced := make([]PricedVariant, len(rawVariants))
	for i, rv := range rawVariants {
		variants[i] = rv.variant
		priced[i] = rv.pricing
	}

	topLevel := firstOffers(record, storePriceFields)
	offers := ResolveProductOffers(priced, topLevel)
	price := LowestPrice(offers, priced, firstPriceField(record, topLevelPriceFields))

	product := models.Product{
		ID:           id,
		ProductID:    id,
		Category:     category,
		Name:         FirstText(record, nameFields),
		Brand:        FirstText(record, brandFields),
		Specs:        specs,
		Images:       collectImages(record, imageFields, variants),
		Variants:     DedupeVariants(variants),
		StorePrices:  offers,
		NumericPrice: price,
		PriceLabel:   utils.PriceLabel(price),
		ReleaseDate:  FirstText(record, releaseDateFields),
	}

	product.EnergyRating = utils.ParseEnergyRating(specs[SpecEnergyRating])
	if product.EnergyRating == 0 {
		product.EnergyRating = utils.ParseEnergyRating(FirstText(record, energyFields))
	}
	product.Highlights = buildHighlights(category, specs)

	return product
}

func firstOffers(record gjson.Result, accessors []Accessor) []models.StoreOffer {
	for _, get := range accessors {
		if offers := ParseOffers(get(record)); len(offers) > 0 {
			return offers
		}
	}
	return nil
}

func firstPriceField(record gjson.Result, accessors []Accessor) *float64 {
	for _, get := range accessors {
		if p := utils.ParsePrice(get(record)); p != nil {
			return p
		}
	}
	return nil
}

// ============================================================================
// VARIANTS
// ============================================================================

type parsedVariant struct {
	variant models.Variant
	pricing PricedVariant
}

func parseVariants(category models.Category, productID string, record gjson.Result) []parsedVariant {
	var items []gjson.Result
	for _, get := range variantFields {
		if items = utils.ToArrayIfNeeded(get(record)); len(items) > 0 {
			break
		}
	}

	out := make([]parsedVariant, 0, len(items))
	for i, item := range items {
		out = append(out, parseVariant(category, productID, utils.ToObjectIfNeeded(item), i))
	}
	return out
}

func parseVariant(category models.Category, productID string, raw gjson.Result, i int) parsedVariant {
	id := FirstText(raw, variantIDFields)
	if id == "" {
		id = fmt.Sprintf("%s-v%d", productID, i+1)
	}

	ramText := FirstText(raw, variantRAMFields)
	storageText := FirstText(raw, variantStorageFields)
	screenText := FirstText(raw, variantScreenFields)

	v := models.Variant{
		ID:         id,
		RAM:        normalizeCapacity(ramText),
		Storage:    normalizeCapacity(storageText),
		ScreenSize: normalizeScreenSize(screenText),
		Images:     collectImages(raw, variantImageFields, nil),
	}
	v.Label = variantLabel(category, v, FirstText(raw, variantLabelFields))

	own := firstOffers(raw, variantOfferFields)
	v.BasePrice = firstPriceField(raw, variantPriceFields)
	v.StorePrices = ResolveVariantOffers(own, v.BasePrice)

	return parsedVariant{
		variant: v,
		pricing: PricedVariant{Offers: own, BasePrice: v.BasePrice},
	}
}

// variantLabel builds "8GB / 256GB" for phones and laptops and "55 inch" for
// TVs, falling back to the explicit label.
func variantLabel(category models.Category, v models.Variant, explicit string) string {
	switch category {
	case models.CategorySmartphone, models.CategoryLaptop:
		parts := make([]string, 0, 2)
		if v.RAM != "" {
			parts = append(parts, v.RAM)
		}
		if v.Storage != "" {
			parts = append(parts, v.Storage)
		}
		if len(parts) > 0 {
			return strings.Join(parts, " / ")
		}
	case models.CategoryTV:
		if v.ScreenSize != "" {
			return v.ScreenSize
		}
	}
	return explicit
}

func normalizeCapacity(text string) string {
	if gb := utils.ParseCapacityGB(text); gb > 0 {
		return utils.FormatCapacity(gb)
	}
	return text
}

func normalizeScreenSize(text string) string {
	if n, ok := utils.FirstNumber(text); ok && n > 0 {
		return strconv.FormatFloat(n, 'f', -1, 64) + " inch"
	}
	return text
}

// ============================================================================
// IMAGES & HIGHLIGHTS
// ============================================================================

// collectImages gathers image URLs from the first populated source, then
// the variants' overrides, deduplicated in order.
func collectImages(record gjson.Result, accessors []Accessor, variants []models.Variant) []string {
	images := make([]string, 0)
	seen := make(map[string]bool)
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		images = append(images, u)
	}

	for _, get := range accessors {
		urls := imageURLs(get(record))
		for _, u := range urls {
			add(u)
		}
		if len(urls) > 0 {
			break
		}
	}
	for _, v := range variants {
		for _, u := range v.Images {
			add(u)
		}
	}
	return images
}

// imageURLs reads a string, an array of strings, or an array of
// {url|src|image} objects.
func imageURLs(v gjson.Result) []string {
	items := utils.ToArrayIfNeeded(v)
	if len(items) == 0 {
		if s := utils.ToDisplayText(v); s != "" {
			return []string{s}
		}
		if v.IsObject() {
			items = []gjson.Result{v}
		}
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			if s := utils.FirstNonEmpty(item.Get("url"), item.Get("src"), item.Get("image")); s != "" {
				urls = append(urls, s)
			}
			continue
		}
		if s := utils.ToDisplayText(item); s != "" {
			urls = append(urls, s)
		}
	}
	return urls
}

func buildHighlights(category models.Category, specs map[string]string) []string {
	keys := highlightKeys[category]
	highlights := make([]string, 0, len(keys))
	for _, key := range keys {
		v := specs[key]
		if v == "" {
			continue
		}
		if key == SpecRAM && !strings.Contains(strings.ToUpper(v), "RAM") {
			v += " RAM"
		}
		highlights = append(highlights, v)
	}
	return highlights
}
