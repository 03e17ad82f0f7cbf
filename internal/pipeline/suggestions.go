package pipeline

import "strings"

const maxSuggestions = 3

// suggestionRule matches substrings of a failure message and contributes
// suggestions. Rules are evaluated in declaration order; collected
// suggestions are capped at maxSuggestions.
type suggestionRule struct {
	matches     func(errMsg string) bool
	suggestions []string
}

var suggestionRules = []suggestionRule{
	{
		matches: func(e string) bool {
			return strings.Contains(e, "column") &&
				(strings.Contains(e, "not found") || strings.Contains(e, "invalid") ||
					strings.Contains(e, "does not exist"))
		},
		suggestions: []string{
			"Try rephrasing your question using different terms",
			"Common columns: total_amount, quantity, store_region, product_category",
			"Ask 'What columns are available?' to see all options",
		},
	},
	{
		matches: func(e string) bool {
			return strings.Contains(e, "table") &&
				(strings.Contains(e, "not found") || strings.Contains(e, "does not exist"))
		},
		suggestions: []string{
			"The query might reference unavailable tables",
			"Available data: sales, stores, products, dates",
		},
	},
	{
		matches: func(e string) bool {
			return strings.Contains(e, "timeout") || strings.Contains(e, "time")
		},
		suggestions: []string{
			"Try asking for a smaller date range",
			"Consider asking for fewer results (top 10 instead of all)",
			"Make your question more specific",
		},
	},
	{
		matches: func(e string) bool {
			return strings.Contains(e, "syntax") || strings.Contains(e, "parse")
		},
		suggestions: []string{
			"Try rephrasing your question more clearly",
			"Use simpler language",
			"Example: 'What was the total revenue last month?'",
		},
	},
}

var fallbackSuggestions = []string{
	"Try rephrasing your question more specifically",
	"Use terms like: revenue, sales, stores, products, categories",
	"Example: 'Show me the top 5 stores by revenue'",
}

// SuggestFixes picks up to three short suggestions for a failure message.
func SuggestFixes(errMsg string) []string {
	lower := strings.ToLower(errMsg)

	var out []string
	for _, rule := range suggestionRules {
		if rule.matches(lower) {
			out = append(out, rule.suggestions...)
		}
	}
	if len(out) == 0 {
		out = append(out, fallbackSuggestions...)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
