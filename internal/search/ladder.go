// Package search owns the prompt strategy ladder: the ordered fallback
// sequence of increasingly terse prompts sent to the text-generation
// service until one produces a parseable price.
package search

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"dealspy/internal/gemini"
	"dealspy/internal/metrics"
	"dealspy/internal/parse"
)

// Generator produces text for a prompt under an output-token budget.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int) (*gemini.GenerateResult, error)
}

// Result is the outcome of one ladder run. Success is true iff a plausible
// price was extracted; the other fields are best-effort and may be nil even
// on success.
type Result struct {
	LowestPrice *decimal.Decimal
	Platform    *string
	DeepLink    *string
	Success     bool
}

// Strategy is one rung of the ladder: a prompt builder with a token budget
// and a label used for logging and metrics.
type Strategy struct {
	Name      string
	MaxTokens int
	Build     func(productName string) string
}

const retailerList = "Flipkart Amazon Myntra Nykaa Ajio Blinkit Mamaearth Shopsy"

// defaultStrategies runs most-informative first, terse fallbacks after.
// Richer prompts are likelier to produce a parseable answer; terser ones are
// cheaper and less likely to be refused. Budgets never increase down the
// ladder, so a failed step is never followed by a more expensive one.
func defaultStrategies() []Strategy {
	return []Strategy{
		{
			Name:      "standard",
			MaxTokens: 400,
			Build: func(name string) string {
				return "find lowest current price " + CleanProductName(name) +
					" online shopping " + retailerList + " with buy link"
			},
		},
		{
			Name:      "minimal",
			MaxTokens: 250,
			Build: func(name string) string {
				return name + " price ₹"
			},
		},
		{
			Name:      "truncated",
			MaxTokens: 180,
			Build: func(name string) string {
				return truncate(CleanProductName(name), 40) + " ₹"
			},
		},
		{
			Name:      "first-words",
			MaxTokens: 120,
			Build: func(name string) string {
				return firstWords(CleanProductName(name), 3) + " ₹"
			},
		},
		{
			Name:      "distinctive-word",
			MaxTokens: 100,
			Build: func(name string) string {
				return distinctiveWord(CleanProductName(name)) + " price ₹"
			},
		},
	}
}

// Ladder tries each strategy in order and stops at the first one that yields
// a parseable price.
type Ladder struct {
	gen        Generator
	strategies []Strategy
}

// NewLadder creates a ladder with the default strategy sequence.
func NewLadder(gen Generator) *Ladder {
	return &Ladder{gen: gen, strategies: defaultStrategies()}
}

// NewLadderWithStrategies creates a ladder with a custom strategy sequence.
func NewLadderWithStrategies(gen Generator, strategies []Strategy) *Ladder {
	return &Ladder{gen: gen, strategies: strategies}
}

// Search runs the ladder for a product name. It returns an unsuccessful
// Result when every strategy fails; it never returns an error, since a
// failed search is an expected outcome the caller must tolerate.
func (l *Ladder) Search(ctx context.Context, productName string) Result {
	for _, strategy := range l.strategies {
		select {
		case <-ctx.Done():
			return Result{}
		default:
		}

		res, err := l.gen.Generate(ctx, strategy.Build(productName), strategy.MaxTokens)
		if err != nil {
			// Network failure or non-2xx: this step failed, the next may
			// still succeed.
			log.Printf("search: strategy %s failed for %q: %v", strategy.Name, productName, err)
			metrics.LadderAttempts.WithLabelValues(strategy.Name, "transport_error").Inc()
			continue
		}

		if res.FinishReason == gemini.FinishSafety && res.Text == "" {
			// Blocked prompts are never retried verbatim; different wording
			// on the next rung may pass.
			log.Printf("search: strategy %s blocked for %q", strategy.Name, productName)
			metrics.LadderAttempts.WithLabelValues(strategy.Name, "safety_block").Inc()
			continue
		}

		if res.Text == "" {
			metrics.LadderAttempts.WithLabelValues(strategy.Name, "empty").Inc()
			continue
		}

		// A truncated response is still parsed: the price usually appears
		// before the cut-off point.
		price := parse.ExtractPrice(res.Text)
		if price == nil {
			metrics.LadderAttempts.WithLabelValues(strategy.Name, "no_price").Inc()
			continue
		}

		metrics.LadderAttempts.WithLabelValues(strategy.Name, "success").Inc()
		return Result{
			LowestPrice: price,
			Platform:    parse.ExtractPlatform(res.Text),
			DeepLink:    parse.ExtractDeepLink(res.Text),
			Success:     true,
		}
	}

	return Result{}
}

var stopWords = map[string]struct{}{
	"with": {}, "and": {}, "for": {}, "the": {}, "in": {},
	"on": {}, "at": {}, "of": {}, "by": {}, "from": {},
}

var nonAlnum = strings.NewReplacer(
	"(", " ", ")", " ", "[", " ", "]", " ", ",", " ",
	"-", " ", "_", " ", "/", " ", "|", " ", "+", " ",
)

// CleanProductName strips stop-words and listing punctuation from a product
// name so prompts carry only the distinguishing terms.
func CleanProductName(name string) string {
	var kept []string
	for _, word := range strings.Fields(nonAlnum.Replace(name)) {
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// truncate cuts the string to at most max bytes on a word boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// distinctiveWord picks the longest word as the most specific search term,
// which for product names tends to be the model identifier.
func distinctiveWord(s string) string {
	best := ""
	for _, word := range strings.Fields(s) {
		if len(word) > len(best) {
			best = word
		}
	}
	return best
}
