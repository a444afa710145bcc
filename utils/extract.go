package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ============================================================================
// RAW JSON COERCION
// Upstream payloads mix native objects with JSON-encoded strings. Every
// helper here is total: bad input yields an empty value, never a panic.
// ============================================================================

var (
	emptyObject = gjson.Parse("{}")

	numberTokenRegex    = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)
	integerTokenRegex   = regexp.MustCompile(`\d+`)
	capacityUnitRegex   = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(TB|GB|MB)`)
	capacityBareRegex   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	priceCleanupRegex   = regexp.MustCompile(`[^-0-9.]`)
	leadingNumberRegex  = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)
	nullLikeDisplayText = map[string]bool{"null": true, "undefined": true, "nan": true}
)

// decodeIfEncoded parses a string value holding a JSON object or array.
func decodeIfEncoded(v gjson.Result) gjson.Result {
	if v.Type != gjson.String {
		return v
	}
	s := strings.TrimSpace(v.Str)
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return v
	}
	if !gjson.Valid(s) {
		return v
	}
	return gjson.Parse(s)
}

// ToObjectIfNeeded returns v when it is an object, the decoded object when v
// is a JSON-encoded object string, and an empty object otherwise.
func ToObjectIfNeeded(v gjson.Result) gjson.Result {
	if v.IsObject() {
		return v
	}
	if decoded := decodeIfEncoded(v); decoded.IsObject() {
		return decoded
	}
	return emptyObject
}

// ToArrayIfNeeded is the array counterpart of ToObjectIfNeeded. The result
// is never nil.
func ToArrayIfNeeded(v gjson.Result) []gjson.Result {
	if !v.IsArray() {
		v = decodeIfEncoded(v)
	}
	if !v.IsArray() {
		return []gjson.Result{}
	}
	items := v.Array()
	if items == nil {
		return []gjson.Result{}
	}
	return items
}

// Lookup resolves a dotted path against a raw record, decoding any
// JSON-encoded string section met along the way.
func Lookup(record gjson.Result, path string) gjson.Result {
	cur := record
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		cur = decodeIfEncoded(cur)
		if !cur.IsObject() && !cur.IsArray() {
			return gjson.Result{}
		}
		cur = cur.Get(seg)
		if !cur.Exists() {
			return gjson.Result{}
		}
	}
	return cur
}

// ============================================================================
// DISPLAY TEXT
// ============================================================================

// ToDisplayText canonicalizes a raw value into a trimmed display string.
func ToDisplayText(value interface{}) string {
	var out string
	switch v := value.(type) {
	case nil:
		return ""
	case gjson.Result:
		out = resultDisplayText(v)
	case string:
		out = v
	case float64:
		out = floatText(v)
	case float32:
		out = floatText(float64(v))
	case int:
		out = strconv.Itoa(v)
	case int64:
		out = strconv.FormatInt(v, 10)
	case bool:
		out = boolText(v)
	case []string:
		parts := make([]interface{}, len(v))
		for i := range v {
			parts[i] = v[i]
		}
		out = joinDisplay(parts)
	case []interface{}:
		out = joinDisplay(v)
	case []gjson.Result:
		parts := make([]interface{}, len(v))
		for i := range v {
			parts[i] = v[i]
		}
		out = joinDisplay(parts)
	case fmt.Stringer:
		out = v.String()
	default:
		out = fmt.Sprint(v)
	}

	out = strings.TrimSpace(out)
	if nullLikeDisplayText[strings.ToLower(out)] {
		return ""
	}
	return out
}

func resultDisplayText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return floatText(v.Num)
	case gjson.True:
		return "Yes"
	case gjson.False:
		return "No"
	case gjson.JSON:
		if v.IsArray() {
			return ToDisplayText(v.Array())
		}
	}
	return ""
}

func floatText(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func boolText(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func joinDisplay(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := ToDisplayText(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// FirstNonEmpty returns the display text of the first value that has one.
func FirstNonEmpty(values ...interface{}) string {
	for _, v := range values {
		if s := ToDisplayText(v); s != "" {
			return s
		}
	}
	return ""
}

// ============================================================================
// NUMERIC COERCION
// Prices use nil for "unknown"; quantities use 0.
// ============================================================================

// ParsePrice strips everything but digits, dots and minus signs and parses
// the leading number of what is left, so "45,000/-" and "₹45,000 - ₹50,000"
// both read as 45000. Invalid, non-finite or non-positive prices are nil.
func ParsePrice(value interface{}) *float64 {
	if r, ok := value.(gjson.Result); ok && r.Type == gjson.Number {
		return validPrice(r.Num)
	}
	if f, ok := value.(float64); ok {
		return validPrice(f)
	}

	text := ToDisplayText(value)
	if text == "" {
		return nil
	}
	cleaned := strings.Trim(priceCleanupRegex.ReplaceAllString(text, ""), ".")
	token := leadingNumberRegex.FindString(cleaned)
	if token == "" {
		return nil
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return validPrice(f)
}

func validPrice(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return nil
	}
	return &f
}

// FirstNumber extracts the first numeric token of a label ("6.7 inch" -> 6.7,
// "5,000 mAh" -> 5000).
func FirstNumber(s string) (float64, bool) {
	token := numberTokenRegex.FindString(s)
	if token == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseQuantity returns the first number found in the value, or 0.
func ParseQuantity(value interface{}) float64 {
	if r, ok := value.(gjson.Result); ok && r.Type == gjson.Number {
		if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
			return 0
		}
		return r.Num
	}
	f, ok := FirstNumber(ToDisplayText(value))
	if !ok {
		return 0
	}
	return f
}

// ParseCapacityGB reads a memory or storage label in gigabytes. The first
// number carrying a unit wins ("DDR5 16GB" is 16); a label with no unit at
// all is taken as GB.
func ParseCapacityGB(s string) float64 {
	var number, unit string
	if m := capacityUnitRegex.FindStringSubmatch(s); m != nil {
		number, unit = m[1], m[2]
	} else {
		number = capacityBareRegex.FindString(s)
	}
	if number == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	switch strings.ToUpper(unit) {
	case "TB":
		return f * 1024
	case "MB":
		return f / 1024
	}
	return f
}

// FormatCapacity renders a GB amount back to a compact label ("1TB", "256GB").
func FormatCapacity(gb float64) string {
	if gb <= 0 {
		return ""
	}
	if gb >= 1024 && math.Mod(gb, 1024) == 0 {
		return strconv.FormatFloat(gb/1024, 'f', -1, 64) + "TB"
	}
	return strconv.FormatFloat(gb, 'f', -1, 64) + "GB"
}

// ParseEnergyRating returns the first integer of a ratings string
// ("5 Star" -> 5), or 0.
func ParseEnergyRating(s string) int {
	token := integerTokenRegex.FindString(s)
	if token == "" {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return n
}

var releaseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"2006-01",
	"January 2006",
	"Jan 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006",
}

// ParseReleaseDate accepts the date spellings seen in catalog payloads.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
