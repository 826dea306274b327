package parse

import "testing"

func TestExtractPlatform(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // "" means nil expected
	}{
		{"exact name", "Available on Flipkart for ₹999", "Flipkart"},
		{"lowercase mention", "cheapest on amazon today", "Amazon"},
		{"mixed case", "check MYNTRA for this", "Myntra"},
		{"priority order wins", "Amazon has it but Flipkart is cheaper", "Flipkart"},
		{"multi word platform", "best deal at Tata CLiQ", "Tata CLiQ"},
		{"reliance digital", "in stock at reliance digital stores", "Reliance Digital"},
		{"no platform", "available at your local store", ""},
		{"empty input", "", ""},
		{"whitespace input", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPlatform(tt.text)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ExtractPlatform(%q) = %q, want nil", tt.text, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ExtractPlatform(%q) = nil, want %q", tt.text, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ExtractPlatform(%q) = %q, want %q", tt.text, *got, tt.want)
			}
		})
	}
}
