package parse

import "strings"

// knownPlatforms is the retailer set in priority order; the first one
// mentioned in the text wins.
var knownPlatforms = []string{
	"Flipkart", "Amazon", "Myntra", "Nykaa", "Ajio", "Blinkit",
	"Mamaearth", "Shopsy", "Snapdeal", "Paytm", "Meesho",
	"BigBasket", "Tata CLiQ", "Reliance Digital",
}

// ExtractPlatform returns the first known retailer named in the text, or nil
// when none is mentioned. Absence stays absence: callers must not substitute
// a placeholder such as "Unknown", since downstream equality checks depend
// on it.
func ExtractPlatform(text string) *string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	for _, platform := range knownPlatforms {
		if strings.Contains(lower, strings.ToLower(platform)) {
			p := platform
			return &p
		}
	}
	return nil
}
