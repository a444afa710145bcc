package services

import (
	"strings"

	"github.com/LovationAdmin/device-compare-api/models"
)

var featureCatalogs = map[models.Category][]FeatureDefinition{
	models.CategorySmartphone: smartphoneFeatures,
	models.CategoryLaptop:     laptopFeatures,
	models.CategoryTV:         tvFeatures,
	models.CategoryNetworking: networkingFeatures,
}

// ============================================================================
// SMARTPHONES
// ============================================================================

var smartphoneFeatures = []FeatureDefinition{
	{
		ID: "5g", Name: "5G", Icon: "signal", Priority: 100,
		Match: func(p models.Product) bool {
			return fiveGRegex.MatchString(p.Spec(SpecNetwork)) || fiveGRegex.MatchString(p.Name)
		},
	},
	{
		ID: "120hz", Name: "120Hz+", Icon: "monitor", Priority: 95,
		Match:     func(p models.Product) bool { return atLeast(p, SpecRefreshRate, 120) },
		SortValue: func(p models.Product) *float64 { return numberValue(p, SpecRefreshRate) },
	},
	{
		ID: "fast-charge", Name: "Fast Charge", Icon: "zap", Priority: 90,
		Match: func(p models.Product) bool {
			if w, ok := chargingWatts(p); ok && w >= 30 {
				return true
			}
			return specContains(p, SpecCharging, "fast", "turbo", "warp", "dart", "vooc", "hypercharge")
		},
		SortValue: func(p models.Product) *float64 {
			if w, ok := chargingWatts(p); ok {
				return ptr(w)
			}
			return nil
		},
	},
	{
		ID: "large-battery", Name: "Large Battery", Icon: "battery", Priority: 85,
		Match:     func(p models.Product) bool { return atLeast(p, SpecBattery, 5000) },
		SortValue: func(p models.Product) *float64 { return numberValue(p, SpecBattery) },
	},
	{
		ID: "amoled", Name: "AMOLED Display", Icon: "sun", Priority: 80,
		Match: func(p models.Product) bool { return specContains(p, SpecDisplayType, "amoled", "oled") },
	},
	{
		ID: "high-res-camera", Name: "50MP+ Camera", Icon: "camera", Priority: 75,
		Match: func(p models.Product) bool {
			mp, ok := cameraMegapixels(p)
			return ok && mp >= 50
		},
		SortValue: func(p models.Product) *float64 {
			if mp, ok := cameraMegapixels(p); ok {
				return ptr(mp)
			}
			return nil
		},
	},
	{
		ID: "large-storage", Name: "256GB+ Storage", Icon: "hard-drive", Priority: 70,
		Match:     func(p models.Product) bool { return maxCapacity(p, SpecStorage) >= 256 },
		SortValue: func(p models.Product) *float64 { return capacityValue(p, SpecStorage) },
	},
	{
		ID: "8gb-ram", Name: "8GB+ RAM", Icon: "cpu", Priority: 65,
		Match:     func(p models.Product) bool { return maxCapacity(p, SpecRAM) >= 8 },
		SortValue: func(p models.Product) *float64 { return capacityValue(p, SpecRAM) },
	},
	{
		ID: "wireless-charging", Name: "Wireless Charging", Icon: "wifi", Priority: 60,
		Match: func(p models.Product) bool {
			return specYes(p, SpecWirelessCharging) || specContains(p, SpecCharging, "wireless")
		},
	},
	{
		ID: "water-resistant", Name: "Water Resistant", Icon: "droplet", Priority: 55,
		Match: func(p models.Product) bool { return ipRatingRegex.MatchString(p.Spec(SpecIPRating)) },
	},
}

// ============================================================================
// LAPTOPS
// ============================================================================

var laptopFeatures = []FeatureDefinition{
	{
		ID: "gaming-gpu", Name: "Gaming GPU", Icon: "gamepad", Priority: 100,
		Match: func(p models.Product) bool { return gamingGPURegex.MatchString(p.Spec(SpecGPU)) },
	},
	{
		ID: "16gb-ram", Name: "16GB+ RAM", Icon: "cpu", Priority: 95,
		Match:     func(p models.Product) bool { return maxCapacity(p, SpecRAM) >= 16 },
		SortValue: func(p models.Product) *float64 { return capacityValue(p, SpecRAM) },
	},
	{
		ID: "ssd-512", Name: "512GB+ SSD", Icon: "hard-drive", Priority: 90,
		Match: func(p models.Product) bool {
			return maxCapacity(p, SpecStorage) >= 512 && !specContains(p, SpecStorage, "hdd")
		},
		SortValue: func(p models.Product) *float64 { return capacityValue(p, SpecStorage) },
	},
	{
		ID: "oled", Name: "OLED Display", Icon: "sun", Priority: 85,
		Match: func(p models.Product) bool { return specContains(p, SpecDisplayType, "oled") },
	},
	{
		ID: "high-refresh", Name: "120Hz+ Display", Icon: "monitor", Priority: 80,
		Match:     func(p models.Product) bool { return atLeast(p, SpecRefreshRate, 120) },
		SortValue: func(p models.Product) *float64 { return numberValue(p, SpecRefreshRate) },
	},
	{
		// Sort value is negated so the lightest machine ranks first.
		ID: "lightweight", Name: "Lightweight", Icon: "feather", Priority: 75,
		Match: func(p models.Product) bool {
			kg, ok := laptopWeightKg(p)
			return ok && kg <= 1.5
		},
		SortValue: func(p models.Product) *float64 {
			if kg, ok := laptopWeightKg(p); ok {
				return ptr(-kg)
			}
			return nil
		},
	},
	{
		ID: "long-battery", Name: "10hr+ Battery", Icon: "battery", Priority: 70,
		Match: func(p models.Product) bool {
			h, ok := batteryHours(p)
			return ok && h >= 10
		},
		SortValue: func(p models.Product) *float64 {
			if h, ok := batteryHours(p); ok {
				return ptr(h)
			}
			return nil
		},
	},
	{
		ID: "touchscreen", Name: "Touchscreen", Icon: "hand", Priority: 65,
		Match: func(p models.Product) bool {
			return specYes(p, SpecTouchscreen) || specContains(p, SpecDisplayType, "touch")
		},
	},
}

// ============================================================================
// TVS
// ============================================================================

var tvFeatures = []FeatureDefinition{
	{
		ID: "4k", Name: "4K Ultra HD", Icon: "tv", Priority: 100,
		Match: func(p models.Product) bool { return ResolutionLabel(p.Spec(SpecResolution)) == "4K" },
	},
	{
		ID: "oled", Name: "OLED", Icon: "sun", Priority: 95,
		Match: func(p models.Product) bool { return specContains(p, SpecDisplayType, "oled") },
	},
	{
		ID: "qled", Name: "QLED", Icon: "sparkles", Priority: 90,
		Match: func(p models.Product) bool { return specContains(p, SpecDisplayType, "qled", "quantum", "mini led") },
	},
	{
		ID: "120hz", Name: "120Hz+", Icon: "monitor", Priority: 85,
		Match:     func(p models.Product) bool { return atLeast(p, SpecRefreshRate, 120) },
		SortValue: func(p models.Product) *float64 { return numberValue(p, SpecRefreshRate) },
	},
	{
		ID: "large-screen", Name: "55\"+ Screen", Icon: "maximize", Priority: 80,
		Match: func(p models.Product) bool {
			size := maxScreenSize(p)
			return size != nil && *size >= 55
		},
		SortValue: maxScreenSize,
	},
	{
		ID: "dolby-vision", Name: "Dolby Vision", Icon: "eye", Priority: 75,
		Match: func(p models.Product) bool { return specContains(p, SpecHDR, "dolby vision") },
	},
	{
		ID: "dolby-atmos", Name: "Dolby Atmos", Icon: "volume-2", Priority: 70,
		Match: func(p models.Product) bool {
			return specContains(p, SpecAudioFeatures, "atmos") || specContains(p, SpecAudioOutput, "atmos")
		},
	},
	{
		ID: "smart-tv", Name: "Smart TV", Icon: "wifi", Priority: 65,
		Match: func(p models.Product) bool {
			return specYes(p, SpecSmartPlatform) || strings.Contains(strings.ToLower(p.Name), "smart")
		},
	},
	{
		ID: "5-star-energy", Name: "5 Star Energy", Icon: "leaf", Priority: 60,
		Match: func(p models.Product) bool { return p.EnergyRating >= 5 },
		SortValue: func(p models.Product) *float64 {
			if p.EnergyRating <= 0 {
				return nil
			}
			return ptr(float64(p.EnergyRating))
		},
	},
}

// ============================================================================
// NETWORKING
// ============================================================================

var networkingFeatures = []FeatureDefinition{
	{
		ID: "wifi-6", Name: "Wi-Fi 6", Icon: "wifi", Priority: 100,
		Match: func(p models.Product) bool { return wifiGeneration(p) >= 6 },
		SortValue: func(p models.Product) *float64 {
			if g := wifiGeneration(p); g > 0 {
				return ptr(float64(g))
			}
			return nil
		},
	},
	{
		ID: "wifi-6e-7", Name: "Wi-Fi 6E / 7", Icon: "zap", Priority: 95,
		Match: func(p models.Product) bool {
			text := p.Spec(SpecWifiStandard) + " " + p.Name
			return wifi6ERegex.MatchString(text) || wifi7Regex.MatchString(text)
		},
	},
	{
		ID: "mesh", Name: "Mesh", Icon: "share-2", Priority: 90,
		Match: func(p models.Product) bool {
			return specYes(p, SpecMesh) || specContains(p, SpecDeviceType, "mesh") ||
				strings.Contains(strings.ToLower(p.Name), "mesh")
		},
	},
	{
		ID: "tri-band", Name: "Tri-Band", Icon: "radio", Priority: 85,
		Match: func(p models.Product) bool { return bandCount(p) >= 3 },
		SortValue: func(p models.Product) *float64 {
			if n := bandCount(p); n > 0 {
				return ptr(float64(n))
			}
			return nil
		},
	},
	{
		ID: "gigabit", Name: "Gigabit Ports", Icon: "server", Priority: 80,
		Match: func(p models.Product) bool { return gigabitRegex.MatchString(p.Spec(SpecPorts)) },
	},
	{
		ID: "wpa3", Name: "WPA3", Icon: "shield", Priority: 75,
		Match: func(p models.Product) bool { return specContains(p, SpecSecurity, "wpa3") },
	},
	{
		ID: "usb", Name: "USB Port", Icon: "usb", Priority: 70,
		Match: func(p models.Product) bool { return specYes(p, SpecUSB) },
	},
	{
		ID: "high-speed", Name: "3000Mbps+", Icon: "gauge", Priority: 65,
		Match: func(p models.Product) bool {
			mbps, ok := speedMbps(p)
			return ok && mbps >= 3000
		},
		SortValue: func(p models.Product) *float64 {
			if mbps, ok := speedMbps(p); ok {
				return ptr(mbps)
			}
			return nil
		},
	},
}
