package parse

import "testing"

func TestExtractDeepLink(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // "" means nil expected
	}{
		{
			"flipkart listing",
			"Buy it here: https://www.flipkart.com/samsung-galaxy-m34/p/itm6b8e3f4a2c9d1",
			"https://www.flipkart.com/samsung-galaxy-m34/p/itm6b8e3f4a2c9d1",
		},
		{
			"amazon india listing",
			"See https://www.amazon.in/dp/B0C7QK4GFZ for details",
			"https://www.amazon.in/dp/B0C7QK4GFZ",
		},
		{
			"amazon short link",
			"deal at https://amzn.to/3xYzAbCd1",
			"https://amzn.to/3xYzAbCd1",
		},
		{
			"trailing period trimmed",
			"Order from https://www.myntra.com/tshirts/roadster/buy-now-casual.",
			"https://www.myntra.com/tshirts/roadster/buy-now-casual",
		},
		{
			"trailing bracket trimmed",
			"(see https://www.nykaa.com/lakme-lipstick/p/12345)",
			"https://www.nykaa.com/lakme-lipstick/p/12345",
		},
		{
			"generic domain with product path",
			"listed on https://shop.example.com/product/widget-2000",
			"https://shop.example.com/product/widget-2000",
		},
		{
			"generic domain without product path",
			"read more at https://blog.example.com/articles/price-trends",
			"",
		},
		{
			"no url at all",
			"The lowest price is ₹999 on Flipkart",
			"",
		},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDeepLink(tt.text)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ExtractDeepLink(%q) = %q, want nil", tt.text, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ExtractDeepLink(%q) = nil, want %q", tt.text, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ExtractDeepLink(%q) = %q, want %q", tt.text, *got, tt.want)
			}
		})
	}
}

func TestExtractDeepLinkStripsTrackingParams(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"utm params removed",
			"https://www.flipkart.com/phone/p/itm123?utm_source=gemini&utm_medium=search",
			"https://www.flipkart.com/phone/p/itm123",
		},
		{
			"affiliate tag removed",
			"https://www.amazon.in/dp/B0C7QK4GFZ?tag=deals-21&th=1",
			"https://www.amazon.in/dp/B0C7QK4GFZ?th=1",
		},
		{
			"gclid and fbclid removed",
			"https://www.ajio.com/p/4930112?gclid=abc123&fbclid=def456&size=L",
			"https://www.ajio.com/p/4930112?size=L",
		},
		{
			"pf_rd params removed",
			"https://www.amazon.in/dp/B0ABC?pf_rd_r=XYZ&pf_rd_p=123",
			"https://www.amazon.in/dp/B0ABC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDeepLink(tt.text)
			if got == nil {
				t.Fatalf("ExtractDeepLink(%q) = nil, want %q", tt.text, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ExtractDeepLink(%q) = %q, want %q", tt.text, *got, tt.want)
			}
		})
	}
}

func TestIsValidEcommerceURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"allow-listed domain", "https://www.flipkart.com/x/p/1", true},
		{"allow-listed subdomain", "https://dl.flipkart.com/dl/x/p/1", true},
		{"lookalike domain rejected", "https://www.flipkart.com.evil.example/x", false},
		{"generic with product path", "https://store.example.com/product/123", true},
		{"generic with dp path", "https://store.example.com/dp/B01", true},
		{"generic without heuristic", "https://example.com/about-our-company", false},
		{"too short", "https://a.in/p", false},
		{"not http", "ftp://www.flipkart.com/x/p/129581", false},
		{"garbage", "not a url at all honestly", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidEcommerceURL(tt.url); got != tt.want {
				t.Errorf("isValidEcommerceURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
