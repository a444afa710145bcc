package services

import (
	"github.com/LovationAdmin/device-compare-api/models"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/tidwall/gjson"
)

// Semantic spec keys shared by mapper, feature predicates and filters.
const (
	SpecScreenSize       = "screenSize"
	SpecResolution       = "resolution"
	SpecRefreshRate      = "refreshRate"
	SpecDisplayType      = "displayType"
	SpecProcessor        = "processor"
	SpecRAM              = "ram"
	SpecStorage          = "storage"
	SpecBattery          = "battery"
	SpecCharging         = "charging"
	SpecWirelessCharging = "wirelessCharging"
	SpecCamera           = "camera"
	SpecNetwork          = "network"
	SpecOS               = "os"
	SpecIPRating         = "ipRating"
	SpecGPU              = "gpu"
	SpecWeight           = "weight"
	SpecBatteryLife      = "batteryLife"
	SpecPorts            = "ports"
	SpecTouchscreen      = "touchscreen"
	SpecHDR              = "hdr"
	SpecAudioOutput      = "audioOutput"
	SpecAudioFeatures    = "audioFeatures"
	SpecSmartPlatform    = "smartPlatform"
	SpecEnergyRating     = "energyRating"
	SpecDeviceType       = "deviceType"
	SpecWifiStandard     = "wifiStandard"
	SpecSpeed            = "speed"
	SpecBands            = "bands"
	SpecCoverage         = "coverage"
	SpecMesh             = "mesh"
	SpecSecurity         = "security"
	SpecUSB              = "usb"
	SpecModel            = "model"
)

// Accessor pulls one candidate value out of a raw record.
type Accessor func(record gjson.Result) gjson.Result

// Field builds an accessor for a dotted path; JSON-encoded sections along
// the path are decoded.
func Field(path string) Accessor {
	return func(record gjson.Result) gjson.Result {
		return utils.Lookup(record, path)
	}
}

// Fields builds one accessor per path, in order.
func Fields(paths ...string) []Accessor {
	accessors := make([]Accessor, len(paths))
	for i, p := range paths {
		accessors[i] = Field(p)
	}
	return accessors
}

// FirstText evaluates accessors in order and returns the first non-empty
// display text.
func FirstText(record gjson.Result, accessors []Accessor) string {
	for _, get := range accessors {
		if s := utils.ToDisplayText(get(record)); s != "" {
			return s
		}
	}
	return ""
}

// FieldSpec binds a semantic key to its raw-field candidates.
type FieldSpec struct {
	Key     string
	Sources []Accessor
}

// ============================================================================
// COMMON FIELDS
// ============================================================================

var (
	idFields = Fields("product_id", "id", "_id", "model_id", "slug", "sku")

	nameFields = Fields("name", "product_name", "model_name", "title", "basic_info_json.name", "model")

	brandFields = Fields("brand", "brand_name", "manufacturer", "basic_info_json.brand", "brand_json.name")

	modelFields = Fields("model", "model_number", "basic_info_json.model")

	releaseDateFields = Fields("release_date", "launch_date", "launched_on", "basic_info_json.release_date", "launch_json.date")

	energyFields = Fields("energy_json.rating", "power_json.energy_rating", "energy_rating", "ratings", "star_rating")

	imageFields = Fields("images", "images_json", "image_urls", "gallery", "image", "image_url", "thumbnail", "basic_info_json.images")

	variantFields = Fields("variants", "variants_json")

	storePriceFields = Fields("store_prices", "store_prices_json", "prices", "offers")

	topLevelPriceFields = Fields("price", "base_price", "lowest_price", "starting_price", "min_price")
)

// variant-level candidates
var (
	variantIDFields      = Fields("variant_id", "id", "sku")
	variantLabelFields   = Fields("label", "variant_name", "name", "title", "color")
	variantRAMFields     = Fields("ram", "memory", "ram_gb")
	variantStorageFields = Fields("storage", "rom", "internal_storage", "storage_gb")
	variantScreenFields  = Fields("screen_size", "size", "display_size")
	variantPriceFields   = Fields("base_price", "price", "mrp", "starting_price")
	variantOfferFields   = Fields("store_prices", "store_prices_json", "prices", "offers")
	variantImageFields   = Fields("images", "image_urls", "images_json", "image")
)

// ============================================================================
// CATEGORY TABLES
// ============================================================================

var smartphoneFields = []FieldSpec{
	{SpecScreenSize, Fields("display_json.size", "display_json.screen_size", "display.size", "screen_size", "display_size", "key_specs_json.display")},
	{SpecResolution, Fields("display_json.resolution", "display.resolution", "resolution")},
	{SpecRefreshRate, Fields("display_json.refresh_rate", "display.refresh_rate", "refresh_rate", "key_specs_json.refresh_rate")},
	{SpecDisplayType, Fields("display_json.type", "display_json.panel", "display.type", "display_type")},
	{SpecProcessor, Fields("performance_json.processor", "performance_json.chipset", "performance.chipset", "processor", "chipset", "key_specs_json.processor")},
	{SpecRAM, Fields("performance_json.ram", "memory_json.ram", "ram", "key_specs_json.ram")},
	{SpecStorage, Fields("performance_json.storage", "memory_json.storage", "storage", "internal_storage", "key_specs_json.storage")},
	{SpecBattery, Fields("battery_json.capacity", "battery.capacity", "battery_capacity", "battery", "key_specs_json.battery")},
	{SpecCharging, Fields("battery_json.fast_charging", "battery_json.charging", "battery.charging", "fast_charging", "charging_speed")},
	{SpecWirelessCharging, Fields("battery_json.wireless_charging", "battery.wireless_charging", "wireless_charging")},
	{SpecCamera, Fields("camera_json.main_camera", "camera_json.rear_camera", "camera.main", "main_camera", "rear_camera", "key_specs_json.rear_camera")},
	{SpecNetwork, Fields("connectivity_json.network", "network_json.network_type", "network", "network_type", "connectivity")},
	{SpecOS, Fields("software_json.os", "os", "operating_system")},
	{SpecIPRating, Fields("build_design_json.ip_rating", "design_json.ip_rating", "ip_rating", "water_resistance")},
	{SpecModel, modelFields},
}

var laptopFields = []FieldSpec{
	{SpecProcessor, Fields("cpu_json.processor", "performance_json.processor", "processor", "cpu", "key_specs_json.processor")},
	{SpecRAM, Fields("memory_json.ram", "performance_json.ram", "ram", "memory", "key_specs_json.ram")},
	{SpecStorage, Fields("storage_json.capacity", "performance_json.storage", "storage", "ssd", "key_specs_json.storage")},
	{SpecGPU, Fields("graphics_json.gpu", "performance_json.gpu", "gpu", "graphics", "graphics_card")},
	{SpecScreenSize, Fields("display_json.size", "display_json.screen_size", "screen_size", "display_size")},
	{SpecResolution, Fields("display_json.resolution", "resolution")},
	{SpecDisplayType, Fields("display_json.type", "display_json.panel_type", "display_type", "panel_type")},
	{SpecRefreshRate, Fields("display_json.refresh_rate", "refresh_rate")},
	{SpecTouchscreen, Fields("display_json.touchscreen", "touchscreen", "touch_screen")},
	{SpecWeight, Fields("physical_json.weight", "design_json.weight", "weight")},
	{SpecBatteryLife, Fields("battery_json.life", "battery_json.battery_life", "battery_life")},
	{SpecOS, Fields("software_json.os", "os", "operating_system")},
	{SpecPorts, Fields("connectivity_json.ports", "ports")},
	{SpecModel, modelFields},
}

var tvFields = []FieldSpec{
	{SpecScreenSize, Fields("display_json.screen_size", "display_json.size", "screen_size", "size")},
	{SpecResolution, Fields("display_json.resolution", "resolution", "key_specs_json.resolution")},
	{SpecDisplayType, Fields("display_json.panel_type", "display_json.display_type", "display_json.type", "panel_type", "display_type", "display_technology")},
	{SpecRefreshRate, Fields("display_json.refresh_rate", "refresh_rate")},
	{SpecHDR, Fields("display_json.hdr", "display_json.hdr_formats", "hdr", "hdr_support")},
	{SpecAudioOutput, Fields("audio_json.output", "audio_json.output_power", "audio_json.sound_output", "audio_output", "sound_output")},
	{SpecAudioFeatures, Fields("audio_json.features", "audio_json.audio_formats", "audio_json.dolby", "audio_features")},
	{SpecSmartPlatform, Fields("smart_tv_json.os", "smart_tv_json.platform", "smart_tv_json.operating_system", "smart_os", "operating_system", "os")},
	{SpecEnergyRating, energyFields},
	{SpecPorts, Fields("connectivity_json.hdmi_ports", "connectivity_json.ports", "hdmi_ports", "ports")},
	{SpecModel, modelFields},
}

var networkingFields = []FieldSpec{
	{SpecDeviceType, Fields("basic_info_json.type", "device_type", "product_type", "type")},
	{SpecWifiStandard, Fields("wireless_json.standard", "wireless_json.wifi_standard", "wifi_standard", "wifi", "standard")},
	{SpecSpeed, Fields("wireless_json.speed", "wireless_json.max_speed", "speed", "max_speed", "data_rate")},
	{SpecBands, Fields("wireless_json.bands", "wireless_json.frequency_band", "bands", "frequency_band", "band")},
	{SpecPorts, Fields("connectivity_json.ports", "connectivity_json.lan_ports", "ports", "lan_ports", "ethernet_ports")},
	{SpecCoverage, Fields("wireless_json.coverage", "coverage", "range")},
	{SpecMesh, Fields("features_json.mesh", "mesh", "mesh_support")},
	{SpecSecurity, Fields("security_json.encryption", "security_json.protocol", "security", "encryption")},
	{SpecUSB, Fields("connectivity_json.usb", "usb", "usb_ports")},
	{SpecModel, modelFields},
}

var categoryFields = map[models.Category][]FieldSpec{
	models.CategorySmartphone: smartphoneFields,
	models.CategoryLaptop:     laptopFields,
	models.CategoryTV:         tvFields,
	models.CategoryNetworking: networkingFields,
}

// highlightKeys is the spec-line order per category.
var highlightKeys = map[models.Category][]string{
	models.CategorySmartphone: {SpecRAM, SpecStorage, SpecScreenSize, SpecBattery, SpecCamera, SpecProcessor},
	models.CategoryLaptop:     {SpecProcessor, SpecRAM, SpecStorage, SpecGPU, SpecScreenSize},
	models.CategoryTV:         {SpecScreenSize, SpecResolution, SpecDisplayType, SpecRefreshRate, SpecSmartPlatform},
	models.CategoryNetworking: {SpecWifiStandard, SpecSpeed, SpecBands, SpecCoverage},
}
