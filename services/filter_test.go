package services

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/LovationAdmin/device-compare-api/models"
)

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func priced(id string, price *float64) models.Product {
	return models.Product{ID: id, Name: "Item " + id, NumericPrice: price}
}

func TestApplyFiltersPriceBoundExcludesUnknownPrice(t *testing.T) {
	products := []models.Product{
		priced("a", priceOf(10000)),
		priced("b", nil),
		priced("c", priceOf(30000)),
	}

	got := ApplyFilters(models.CategorySmartphone, products, FilterState{PriceMin: priceOf(5000)})
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}

	got = ApplyFilters(models.CategorySmartphone, products, FilterState{PriceMax: priceOf(20000)})
	if want := []string{"a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}

	got = ApplyFilters(models.CategorySmartphone, products, FilterState{})
	if len(got) != 3 {
		t.Fatalf("no bounds should keep unknown prices, got %v", ids(got))
	}
}

func TestApplyFiltersIsConjunctive(t *testing.T) {
	products := []models.Product{
		{ID: "1", Brand: "Samsung", Specs: map[string]string{SpecRefreshRate: "120Hz"}, NumericPrice: priceOf(20000)},
		{ID: "2", Brand: "samsung", Specs: map[string]string{SpecRefreshRate: "60Hz"}, NumericPrice: priceOf(15000)},
		{ID: "3", Brand: "Apple", Specs: map[string]string{SpecRefreshRate: "120Hz"}, NumericPrice: priceOf(70000)},
	}
	state := FilterState{Brands: []string{"SAMSUNG"}, FeatureID: "120hz"}
	got := ApplyFilters(models.CategorySmartphone, products, state)
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}

	// every result must pass each filter on its own
	for _, p := range got {
		for _, single := range []FilterState{{Brands: state.Brands}, {FeatureID: state.FeatureID}} {
			if len(ApplyFilters(models.CategorySmartphone, []models.Product{p}, single)) != 1 {
				t.Fatalf("%s fails a single filter %+v", p.ID, single)
			}
		}
	}
}

func TestApplyFiltersCapacityScreenAndQuery(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Galaxy S24", Variants: []models.Variant{{RAM: "8GB", Storage: "256GB"}}},
		{ID: "2", Name: "Pixel 8", Specs: map[string]string{SpecRAM: "12 GB", SpecStorage: "1 TB"}},
		{ID: "3", Name: "Bravia", Variants: []models.Variant{{ScreenSize: "55 inch"}, {ScreenSize: "65 inch"}}},
	}

	if got := ApplyFilters(models.CategorySmartphone, products, FilterState{RAM: []string{"8 GB"}}); !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("ram: %v", ids(got))
	}
	if got := ApplyFilters(models.CategorySmartphone, products, FilterState{Storage: []string{"1TB", "128GB"}}); !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("storage: %v", ids(got))
	}
	if got := ApplyFilters(models.CategoryTV, products, FilterState{ScreenSizes: []string{"65"}}); !reflect.DeepEqual(ids(got), []string{"3"}) {
		t.Fatalf("screen: %v", ids(got))
	}
	if got := ApplyFilters(models.CategorySmartphone, products, FilterState{Query: "PIXEL"}); !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("query: %v", ids(got))
	}
}

func TestApplyFiltersDoesNotModifyInput(t *testing.T) {
	products := []models.Product{priced("a", priceOf(300)), priced("b", priceOf(100))}
	ApplyFilters(models.CategorySmartphone, products, FilterState{Sort: SortPriceLow})
	if products[0].ID != "a" {
		t.Fatal("input slice was reordered")
	}
}

func TestSortProductsByPrice(t *testing.T) {
	products := []models.Product{
		priced("mid", priceOf(500)),
		priced("unknown", nil),
		priced("low", priceOf(100)),
		priced("high", priceOf(900)),
	}

	low := append([]models.Product{}, products...)
	SortProducts(models.CategorySmartphone, low, SortPriceLow, "")
	if want := []string{"low", "mid", "high", "unknown"}; !reflect.DeepEqual(ids(low), want) {
		t.Fatalf("price-low: %v", ids(low))
	}

	high := append([]models.Product{}, products...)
	SortProducts(models.CategorySmartphone, high, SortPriceHigh, "")
	if want := []string{"high", "mid", "low", "unknown"}; !reflect.DeepEqual(ids(high), want) {
		t.Fatalf("price-high: %v", ids(high))
	}
}

func TestSortProductsUnknownKeyKeepsOrder(t *testing.T) {
	products := []models.Product{priced("b", priceOf(2)), priced("a", priceOf(1))}
	SortProducts(models.CategorySmartphone, products, "popularity", "")
	if want := []string{"b", "a"}; !reflect.DeepEqual(ids(products), want) {
		t.Fatalf("got %v", ids(products))
	}
}

func TestSortProductsFeaturedByFeatureStrength(t *testing.T) {
	products := []models.Product{
		{ID: "60", Specs: map[string]string{SpecRefreshRate: "60Hz"}},
		{ID: "none"},
		{ID: "144", Specs: map[string]string{SpecRefreshRate: "144Hz"}},
		{ID: "120", Specs: map[string]string{SpecRefreshRate: "120Hz"}},
	}
	SortProducts(models.CategorySmartphone, products, SortFeatured, "120hz")
	if want := []string{"144", "120", "60", "none"}; !reflect.DeepEqual(ids(products), want) {
		t.Fatalf("got %v", ids(products))
	}
}

func TestSortProductsNewestAndCapacity(t *testing.T) {
	phones := []models.Product{
		{ID: "old", ReleaseDate: "2022-01-10", Specs: map[string]string{SpecStorage: "128GB"}},
		{ID: "undated", Specs: map[string]string{SpecStorage: "1TB"}},
		{ID: "new", ReleaseDate: "March 2024", Specs: map[string]string{SpecStorage: "256GB"}},
	}

	newest := append([]models.Product{}, phones...)
	SortProducts(models.CategorySmartphone, newest, SortNewest, "")
	if want := []string{"new", "old", "undated"}; !reflect.DeepEqual(ids(newest), want) {
		t.Fatalf("newest: %v", ids(newest))
	}

	capacity := append([]models.Product{}, phones...)
	SortProducts(models.CategorySmartphone, capacity, SortCapacity, "")
	if want := []string{"undated", "new", "old"}; !reflect.DeepEqual(ids(capacity), want) {
		t.Fatalf("capacity: %v", ids(capacity))
	}

	routers := []models.Product{
		{ID: "ax1800", Specs: map[string]string{SpecSpeed: "1800 Mbps"}},
		{ID: "be9300", Specs: map[string]string{SpecSpeed: "9.3 Gbps"}},
	}
	SortProducts(models.CategoryNetworking, routers, SortCapacity, "")
	if routers[0].ID != "be9300" {
		t.Fatalf("networking capacity: %v", ids(routers))
	}
}

func TestParseFilterState(t *testing.T) {
	q := url.Values{
		"brand":     {"Samsung,Apple", " OnePlus "},
		"ram":       {"8GB"},
		"screen":    {"55"},
		"price_min": {"10,000"},
		"max_price": {"abc"},
		"feature":   {"5g"},
		"q":         {"  galaxy "},
		"sort":      {"Price-Low"},
		"energy":    {"5 Star", "none"},
	}
	got := ParseFilterState(q)

	if want := []string{"Samsung", "Apple", "OnePlus"}; !reflect.DeepEqual(got.Brands, want) {
		t.Fatalf("brands = %v", got.Brands)
	}
	if got.PriceMin == nil || *got.PriceMin != 10000 {
		t.Fatalf("price min = %v", got.PriceMin)
	}
	if got.PriceMax != nil {
		t.Fatalf("garbage max should be ignored, got %v", *got.PriceMax)
	}
	if got.FeatureID != "5g" || got.Query != "galaxy" || got.Sort != SortPriceLow {
		t.Fatalf("unexpected state %+v", got)
	}
	if !reflect.DeepEqual(got.ScreenSizes, []string{"55"}) || !reflect.DeepEqual(got.EnergyRatings, []int{5}) {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestBuildFacets(t *testing.T) {
	products := []models.Product{
		{ID: "1", Brand: "Sony", NumericPrice: priceOf(45000), EnergyRating: 4,
			Specs:    map[string]string{SpecResolution: "1920 x 1080"},
			Variants: []models.Variant{{ScreenSize: "55 inch"}, {ScreenSize: "43 inch"}}},
		{ID: "2", Brand: "sony", NumericPrice: priceOf(99000), EnergyRating: 5,
			Specs: map[string]string{SpecResolution: "3840x2160", SpecScreenSize: "65"}},
		{ID: "3", Brand: "LG", Specs: map[string]string{SpecRAM: "8GB", SpecStorage: "1TB"}},
	}
	f := BuildFacets(products)

	if want := []string{"LG", "Sony"}; !reflect.DeepEqual(f.Brands, want) {
		t.Fatalf("brands = %v", f.Brands)
	}
	if want := []string{"43 inch", "55 inch", "65 inch"}; !reflect.DeepEqual(f.ScreenSizes, want) {
		t.Fatalf("screens = %v", f.ScreenSizes)
	}
	if want := []string{"4K", "Full HD"}; !reflect.DeepEqual(f.Resolutions, want) {
		t.Fatalf("resolutions = %v", f.Resolutions)
	}
	if want := []int{5, 4}; !reflect.DeepEqual(f.EnergyRatings, want) {
		t.Fatalf("energy = %v", f.EnergyRatings)
	}
	if !reflect.DeepEqual(f.RAM, []string{"8GB"}) || !reflect.DeepEqual(f.Storage, []string{"1TB"}) {
		t.Fatalf("capacities = %v %v", f.RAM, f.Storage)
	}
	if f.Price.Min == nil || *f.Price.Min != 45000 || f.Price.Max == nil || *f.Price.Max != 99000 {
		t.Fatalf("price = %+v", f.Price)
	}

	empty := BuildFacets(nil)
	if empty.Brands == nil || empty.Price.Min != nil {
		t.Fatalf("empty facets = %+v", empty)
	}
}

func TestResolutionLabel(t *testing.T) {
	tests := map[string]string{
		"7680 x 4320":   "8K",
		"4K UHD":        "4K",
		"3840x2160":     "4K",
		"2560 x 1440":   "QHD",
		"Full HD":       "Full HD",
		"1920 x 1080":   "Full HD",
		"HD Ready":      "HD Ready",
		"1366x768":      "HD Ready",
		"  Retina XDR ": "Retina XDR",
		"":              "",
	}
	for in, want := range tests {
		if got := ResolutionLabel(in); got != want {
			t.Errorf("ResolutionLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
