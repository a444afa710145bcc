package utils

import (
	"math"
	"strconv"
	"strings"
)

// PriceNotAvailable is the display label for products without any
// resolvable price.
const PriceNotAvailable = "Price not available"

// FormatINR formats a rupee amount like "₹1,20,000": the last three digits
// form one group, every group before that has two digits.
func FormatINR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	rounded := int64(math.Round(amount))
	neg := rounded < 0
	if neg {
		rounded = -rounded
	}

	s := strconv.FormatInt(rounded, 10)
	var b strings.Builder
	b.Grow(len(s) + len(s)/2 + 4)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")

	if len(s) <= 3 {
		b.WriteString(s)
		return b.String()
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	rem := len(head) % 2
	if rem == 0 {
		rem = 2
	}
	b.WriteString(head[:rem])
	for i := rem; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)

	return b.String()
}

// PriceLabel renders an optional price for display.
func PriceLabel(price *float64) string {
	if price == nil {
		return PriceNotAvailable
	}
	return FormatINR(*price)
}
