package services

import (
	"net/url"
	"sort"
	"strings"

	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/tidwall/gjson"
)

// ============================================================================
// PRICE RESOLUTION
// Store offers from every variant are merged into one list per product:
// one entry per store (cheapest wins), ascending by price, unknown last.
// ============================================================================

// BasePriceStore labels offers synthesized from a variant's base price.
const BasePriceStore = "Base Price"

// PricedVariant is the pricing input of one variant: its own store offers
// (without any synthesized base-price entry) and its base price.
type PricedVariant struct {
	Offers    []models.StoreOffer
	BasePrice *float64
}

// ParseOffer reads one raw store price entry. Entries without a store, a
// price and a URL are rejected.
func ParseOffer(raw gjson.Result) (models.StoreOffer, bool) {
	raw = utils.ToObjectIfNeeded(raw)

	store := utils.FirstNonEmpty(
		raw.Get("store_name"), raw.Get("store"), raw.Get("retailer"),
		raw.Get("seller"), raw.Get("platform"), raw.Get("name"),
	)
	price := firstPrice(
		raw.Get("price"), raw.Get("offer_price"), raw.Get("sale_price"), raw.Get("amount"),
	)
	link := utils.FirstNonEmpty(
		raw.Get("url"), raw.Get("link"), raw.Get("product_url"), raw.Get("affiliate_link"),
	)

	if store == "" && price == nil && link == "" {
		return models.StoreOffer{}, false
	}
	if store == "" {
		store = storeFromURL(link)
	}

	return models.StoreOffer{
		Store:        store,
		Price:        price,
		URL:          link,
		OfferText:    utils.FirstNonEmpty(raw.Get("offer_text"), raw.Get("offer"), raw.Get("offers")),
		DeliveryInfo: utils.FirstNonEmpty(raw.Get("delivery_info"), raw.Get("delivery")),
	}, true
}

// ParseOffers reads a raw store price list, which may be a JSON string.
func ParseOffers(raw gjson.Result) []models.StoreOffer {
	items := utils.ToArrayIfNeeded(raw)
	offers := make([]models.StoreOffer, 0, len(items))
	for _, item := range items {
		if offer, ok := ParseOffer(item); ok {
			offers = append(offers, offer)
		}
	}
	return offers
}

func firstPrice(values ...gjson.Result) *float64 {
	for _, v := range values {
		if p := utils.ParsePrice(v); p != nil {
			return p
		}
	}
	return nil
}

// storeFromURL turns "https://www.amazon.in/dp/x" into "Amazon".
func storeFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "Store"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	name := host
	if i := strings.Index(host, "."); i > 0 {
		name = host[:i]
	}
	if name == "" {
		return "Store"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// cheaper reports whether a is a valid price strictly below b. Any valid
// price beats an unknown one.
func cheaper(a, b *float64) bool {
	if a == nil {
		return false
	}
	return b == nil || *a < *b
}

// DedupeOffers keeps one offer per case-insensitive store name, preferring
// the lower valid price. Order of first appearance is kept.
func DedupeOffers(offers []models.StoreOffer) []models.StoreOffer {
	out := make([]models.StoreOffer, 0, len(offers))
	index := make(map[string]int, len(offers))
	for _, offer := range offers {
		key := strings.ToLower(strings.TrimSpace(offer.Store))
		if i, seen := index[key]; seen {
			if cheaper(offer.Price, out[i].Price) {
				out[i] = offer
			}
			continue
		}
		index[key] = len(out)
		out = append(out, offer)
	}
	return out
}

// SortOffers orders offers ascending by price; unknown prices go last and
// ties are broken by store name.
func SortOffers(offers []models.StoreOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		switch {
		case a.Price != nil && b.Price == nil:
			return true
		case a.Price == nil && b.Price != nil:
			return false
		case a.Price != nil && b.Price != nil && *a.Price != *b.Price:
			return *a.Price < *b.Price
		}
		return strings.ToLower(a.Store) < strings.ToLower(b.Store)
	})
}

// ResolveOffers dedupes and sorts an offer list. The result is never nil.
func ResolveOffers(offers []models.StoreOffer) []models.StoreOffer {
	resolved := DedupeOffers(offers)
	SortOffers(resolved)
	return resolved
}

func basePriceOffer(price *float64) models.StoreOffer {
	p := *price
	return models.StoreOffer{Store: BasePriceStore, Price: &p}
}

// ResolveVariantOffers is the offer list shown for a single variant: its own
// offers plus its base price whenever one is known.
func ResolveVariantOffers(own []models.StoreOffer, basePrice *float64) []models.StoreOffer {
	offers := make([]models.StoreOffer, 0, len(own)+1)
	offers = append(offers, own...)
	if basePrice != nil {
		offers = append(offers, basePriceOffer(basePrice))
	}
	return ResolveOffers(offers)
}

// ResolveProductOffers merges the offers of all variants and the top-level
// list. A variant without offers contributes its base price instead.
func ResolveProductOffers(variants []PricedVariant, topLevel []models.StoreOffer) []models.StoreOffer {
	var offers []models.StoreOffer
	for _, v := range variants {
		if len(v.Offers) == 0 {
			if v.BasePrice != nil {
				offers = append(offers, basePriceOffer(v.BasePrice))
			}
			continue
		}
		offers = append(offers, v.Offers...)
	}
	offers = append(offers, topLevel...)
	return ResolveOffers(offers)
}

// LowestPrice is the minimum valid offer price, else the cheapest variant
// base price, else fallback. nil means the price is unknown.
func LowestPrice(offers []models.StoreOffer, variants []PricedVariant, fallback *float64) *float64 {
	var best *float64
	for _, o := range offers {
		if cheaper(o.Price, best) {
			best = o.Price
		}
	}
	if best == nil {
		for _, v := range variants {
			if cheaper(v.BasePrice, best) {
				best = v.BasePrice
			}
		}
	}
	if best == nil {
		best = fallback
	}
	if best == nil {
		return nil
	}
	p := *best
	return &p
}

// variantLowest is the cheapest known price of a single variant.
func variantLowest(v models.Variant) *float64 {
	best := v.BasePrice
	for _, o := range v.StorePrices {
		if cheaper(o.Price, best) {
			best = o.Price
		}
	}
	return best
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// DedupeVariants keeps one variant per normalized label, the cheapest one,
// at the position where the label first appeared.
func DedupeVariants(variants []models.Variant) []models.Variant {
	out := make([]models.Variant, 0, len(variants))
	index := make(map[string]int, len(variants))
	for _, v := range variants {
		key := normalizeLabel(v.Label)
		if key == "" {
			key = "id:" + v.ID
		}
		if i, seen := index[key]; seen {
			if cheaper(variantLowest(v), variantLowest(out[i])) {
				out[i] = v
			}
			continue
		}
		index[key] = len(out)
		out = append(out, v)
	}
	return out
}

type productKey struct {
	category models.Category
	id       string
}

// MergeProducts concatenates product lists, dropping later entries whose
// category and id were already seen. Ids are only unique within a category.
func MergeProducts(lists ...[]models.Product) []models.Product {
	var out []models.Product
	seen := make(map[productKey]bool)
	for _, list := range lists {
		for _, p := range list {
			key := productKey{category: p.Category, id: p.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	if out == nil {
		out = []models.Product{}
	}
	return out
}
