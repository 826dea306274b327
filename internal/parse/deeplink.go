package parse

import (
	"net/url"
	"regexp"
	"strings"
)

// Retailer domains that are trusted to host product listings.
var allowedDomains = []string{
	"flipkart.com", "dl.flipkart.com",
	"amazon.in", "amzn.to",
	"myntra.com", "ajio.com",
	"nykaa.com", "mamaearth.in",
	"blinkit.com", "bigbasket.com", "grofers.com", "jiomart.com",
	"shopsy.in", "snapdeal.com", "paytmmall.com",
	"meesho.com", "tatacliq.com", "reliancedigital.in", "croma.com",
}

// URL patterns scoped to known retailers, most specific first, with a
// generic product-path pattern as last resort.
var deepLinkRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://(?:www\.)?flipkart\.com\S*`),
	regexp.MustCompile(`(?i)https?://dl\.flipkart\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?amazon\.in\S*`),
	regexp.MustCompile(`(?i)https?://amzn\.to\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?myntra\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?ajio\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?nykaa\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?mamaearth\.in\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?blinkit\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?bigbasket\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?grofers\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?jiomart\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?shopsy\.in\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?snapdeal\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?paytmmall\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?meesho\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?tatacliq\.com\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?reliancedigital\.in\S*`),
	regexp.MustCompile(`(?i)https?://(?:www\.)?croma\.com\S*`),
	regexp.MustCompile(`(?i)https?://[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}/\S*(?:product|item|buy|shop|deal)\S*`),
}

// Query parameter key prefixes that carry tracking or affiliate state.
var trackingParamPrefixes = []string{
	"utm_", "ref", "tag", "campaign", "source", "medium",
	"gclid", "fbclid", "msclkid", "pid", "affid", "pf_rd_",
}

// Punctuation the URL regexes tend to capture from surrounding prose.
const trailingPunctuation = ".,!?;:)]}'\""

// ExtractDeepLink returns the first valid product listing URL in the text,
// with tracking parameters stripped, or nil when no candidate passes
// validation.
func ExtractDeepLink(text string) *string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	for _, rule := range deepLinkRules {
		for _, candidate := range rule.FindAllString(text, -1) {
			candidate = strings.TrimRight(strings.TrimSpace(candidate), trailingPunctuation)
			if !isValidEcommerceURL(candidate) {
				continue
			}
			cleaned := stripTrackingParams(candidate)
			return &cleaned
		}
	}
	return nil
}

// isValidEcommerceURL accepts a URL when it is long enough to be a real
// listing and either sits on an allow-listed retailer domain or has a
// product-like path on a generic domain.
func isValidEcommerceURL(raw string) bool {
	if len(raw) < 15 {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, ".") {
		return false
	}

	for _, domain := range allowedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	path := strings.ToLower(u.Path)
	for _, segment := range []string{"/product", "/item", "/buy", "/shop", "/deal", "/p-", "/dp/"} {
		if strings.Contains(path, segment) {
			return true
		}
	}
	return false
}

// stripTrackingParams removes tracking and affiliate query parameters. A URL
// that fails to parse is returned untouched.
func stripTrackingParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	query := u.Query()
	for key := range query {
		if isTrackingParam(key) {
			query.Del(key)
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	for _, prefix := range trackingParamPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
