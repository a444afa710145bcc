package utils

import "testing"

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{45000, "₹45,000"},
		{120000, "₹1,20,000"},
		{12345678, "₹1,23,45,678"},
		{58999.4, "₹58,999"},
		{-1500, "-₹1,500"},
	}
	for _, tt := range tests {
		if got := FormatINR(tt.in); got != tt.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriceLabel(t *testing.T) {
	if got := PriceLabel(nil); got != PriceNotAvailable {
		t.Fatalf("got %q", got)
	}
	p := 45000.0
	if got := PriceLabel(&p); got != "₹45,000" {
		t.Fatalf("got %q", got)
	}
}
