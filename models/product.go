package models

// Category is one of the device families the storefront compares.
type Category string

const (
	CategorySmartphone Category = "smartphone"
	CategoryLaptop     Category = "laptop"
	CategoryTV         Category = "tv"
	CategoryNetworking Category = "networking"
)

// AllCategories lists categories in display order.
var AllCategories = []Category{
	CategorySmartphone,
	CategoryLaptop,
	CategoryTV,
	CategoryNetworking,
}

// StoreOffer is one place a product or variant can be bought. A nil Price
// means the store listed no usable price.
type StoreOffer struct {
	Store        string   `json:"store"`
	Price        *float64 `json:"price"`
	URL          string   `json:"url,omitempty"`
	OfferText    string   `json:"offer_text,omitempty"`
	DeliveryInfo string   `json:"delivery_info,omitempty"`
}

// Variant is one purchasable configuration of a product.
type Variant struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	RAM         string       `json:"ram,omitempty"`
	Storage     string       `json:"storage,omitempty"`
	ScreenSize  string       `json:"screen_size,omitempty"`
	BasePrice   *float64     `json:"base_price"`
	StorePrices []StoreOffer `json:"store_prices"`
	Images      []string     `json:"images"`
}

// Product is the canonical view-model built from one raw catalog record.
// Images, Variants and StorePrices are never nil.
type Product struct {
	ID           string            `json:"id"`
	ProductID    string            `json:"product_id"`
	Category     Category          `json:"category"`
	Name         string            `json:"name"`
	Brand        string            `json:"brand"`
	Specs        map[string]string `json:"specs"`
	Highlights   []string          `json:"highlights"`
	Images       []string          `json:"images"`
	Variants     []Variant         `json:"variants"`
	StorePrices  []StoreOffer      `json:"store_prices"`
	NumericPrice *float64          `json:"numeric_price"`
	PriceLabel   string            `json:"price_label"`
	ReleaseDate  string            `json:"release_date,omitempty"`
	EnergyRating int               `json:"energy_rating,omitempty"`
}

// Spec returns a spec bag value, or "".
func (p Product) Spec(key string) string {
	if p.Specs == nil {
		return ""
	}
	return p.Specs[key]
}

// PrimaryImage is the first image, or "".
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
