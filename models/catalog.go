package models

import "time"

// PopularFeature is a feature catalog entry annotated with the number of
// products in the current set that match it.
type PopularFeature struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Priority int    `json:"priority"`
	Count    int    `json:"count"`
}

// PriceRange is the min/max known price in a product set.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Facets are the filter options available for a product set.
type Facets struct {
	Brands        []string   `json:"brands"`
	RAM           []string   `json:"ram"`
	Storage       []string   `json:"storage"`
	ScreenSizes   []string   `json:"screen_sizes"`
	Resolutions   []string   `json:"resolutions"`
	EnergyRatings []int      `json:"energy_ratings"`
	Price         PriceRange `json:"price"`
}

// ProductListResponse is returned by the product listing endpoint.
type ProductListResponse struct {
	Category        Category         `json:"category"`
	Products        []Product        `json:"products"`
	Total           int              `json:"total"`
	Unfiltered      int              `json:"unfiltered"`
	PopularFeatures []PopularFeature `json:"popular_features"`
	Facets          Facets           `json:"facets"`
	Message         string           `json:"message,omitempty"`
}

// CategoryInfo describes a supported category.
type CategoryInfo struct {
	ID       Category         `json:"id"`
	Aliases  []string         `json:"aliases"`
	Features []PopularFeature `json:"features"`
}

// FeatureClick is one tracked feature chip click.
type FeatureClick struct {
	ID         string    `json:"id"`
	DeviceType Category  `json:"device_type"`
	FeatureID  string    `json:"feature_id"`
	ClientIP   string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrackFeatureRequest is the beacon body; it may arrive form-encoded or as JSON.
type TrackFeatureRequest struct {
	DeviceType string `json:"device_type" form:"device_type" binding:"required"`
	FeatureID  string `json:"feature_id" form:"feature_id" binding:"required"`
}

// TrackViewRequest is the product view beacon body.
type TrackViewRequest struct {
	DeviceType string `json:"device_type" form:"device_type" binding:"required"`
	ProductID  string `json:"product_id" form:"product_id" binding:"required"`
}

// CompareRequest selects products for the side-by-side view.
type CompareRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// TrendingResponse aggregates top products across categories.
type TrendingResponse struct {
	Products []Product `json:"products"`
	Failed   []string  `json:"failed,omitempty"`
	Message  string    `json:"message,omitempty"`
}
