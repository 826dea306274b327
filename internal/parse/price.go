// Package parse turns free-form text returned by the generative-text service
// into structured price, platform and deep-link values. All extractors are
// pure functions: malformed input yields nil, never a panic.
package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Plausibility band for an extracted price. Numbers outside the band (years,
// percentages, phone number fragments) are discarded.
var (
	minPlausiblePrice = decimal.NewFromInt(10)
	maxPlausiblePrice = decimal.NewFromInt(1_000_000)
)

const platformAlt = `Flipkart|Amazon|Myntra|Nykaa|Ajio|Blinkit|Mamaearth|Shopsy`

// Ordered most-specific-first. Every rule captures the amount in group 1.
var priceRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)₹\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)(?:` + platformAlt + `)\s*:?\s*₹\s*(\d+(?:,\d{3})*)`),
	regexp.MustCompile(`(?i)₹\s*(\d+(?:,\d{3})*)\s*(?:on|at)\s+(?:` + platformAlt + `)`),
	regexp.MustCompile(`(?i)lowest\s*price\s*:?\s*₹?\s*(\d+(?:,\d{3})*)`),
	regexp.MustCompile(`(?i)best\s*price\s*:?\s*₹?\s*(\d+(?:,\d{3})*)`),
	regexp.MustCompile(`(?i)Rs\.?\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)INR\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`),
}

// Bare 3-6 digit numbers are only considered when the text goes on to talk
// about money ("1500 rupees", "1500 is the price").
var (
	bareNumberRule = regexp.MustCompile(`\b(\d{3,6})\b`)
	currencyHint   = regexp.MustCompile(`(?i)rupees?|₹|\bprice\b`)
)

// ExtractPrice returns the lowest plausible price mentioned in the text, or
// nil when no candidate survives validation. Returning the minimum across
// all matches encodes the product goal: find the lowest price, not the first
// number seen.
func ExtractPrice(text string) *decimal.Decimal {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lowest *decimal.Decimal
	consider := func(raw string) {
		price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return
		}
		if price.LessThan(minPlausiblePrice) || price.GreaterThan(maxPlausiblePrice) {
			return
		}
		if lowest == nil || price.LessThan(*lowest) {
			lowest = &price
		}
	}

	for _, rule := range priceRules {
		for _, match := range rule.FindAllStringSubmatch(text, -1) {
			consider(match[1])
		}
	}

	for _, idx := range bareNumberRule.FindAllStringSubmatchIndex(text, -1) {
		if currencyHint.MatchString(text[idx[1]:]) {
			consider(text[idx[2]:idx[3]])
		}
	}

	return lowest
}
