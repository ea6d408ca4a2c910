package pricing_test

import (
	"reflect"
	"testing"

	"partprice/internal/domain"
	"partprice/internal/pricing"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"19,99€", 19.99, true},
		{"19.99$", 19.99, true},
		{"abc", 0, false},
		{"only 12,50 €", 12.50, true},
		{"nbsp 12,50\u00a0€", 12.50, true},
		{"narrow nbsp 7.25\u202f$", 7.25, true},
		{"two spaces 12,50  €", 0, false},
		{"no glyph 12,50", 0, false},
		{"integer 12€", 0, false},
		{"first 3,00€ then 1,00€", 3.00, true},
	}
	for _, c := range cases {
		got, ok := pricing.ParsePrice(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParsePrice(%q) = %v,%v; want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

// 1,234.56 parses as "234.56": the known thousands-separator limitation.
func TestParsePrice_ThousandsSeparatorLimitation(t *testing.T) {
	got, ok := pricing.ParsePrice("1,234.56€")
	if !ok || got != 234.56 {
		t.Fatalf("got %v,%v", got, ok)
	}
}

func TestExtractPrices_FragmentOrder(t *testing.T) {
	got := pricing.ExtractPrices([]string{"Price: 10,50€ today", "no price here", "Cost 5.00$"})
	want := []domain.PriceObservation{
		{Source: "unknown", Price: 10.50},
		{Source: "unknown", Price: 5.00},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestExtractPrices_Empty(t *testing.T) {
	got := pricing.ExtractPrices(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
