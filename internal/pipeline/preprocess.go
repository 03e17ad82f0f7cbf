package pipeline

import "strings"

// replacement is one literal, case-insensitive phrase rewrite. The list
// order is the conflict-resolution order.
type replacement struct {
	old string
	new string
}

var phraseReplacements = []replacement{
	{"last month", "previous month"},
	{"this month", "current month"},
	{"last year", "previous year"},
	{"this year", "current year"},
	{"best selling", "highest sales"},
	{"worst performing", "lowest sales"},
	{"top performing", "highest revenue"},
}

const (
	comparisonMarker = "Show comparison data: "
	timeSeriesMarker = "Show time series data: "
)

// Preprocessor normalizes question phrasing before any matching stage.
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Process lowercases the question, applies the phrase replacements in order
// and tags comparison/trend intents with a marker prefix. The returned trace
// lists applied transforms for response metadata. Never fails.
func (p *Preprocessor) Process(question string) (string, []string) {
	processed := strings.ToLower(question)
	var trace []string

	for _, r := range phraseReplacements {
		if strings.Contains(processed, r.old) {
			processed = strings.ReplaceAll(processed, r.old, r.new)
			trace = append(trace, r.old+" -> "+r.new)
		}
	}

	switch {
	case strings.Contains(processed, "compare") || strings.Contains(processed, " vs "):
		processed = comparisonMarker + processed
		trace = append(trace, "comparison_marker")
	case strings.Contains(processed, "trend") || strings.Contains(processed, "over time"):
		processed = timeSeriesMarker + processed
		trace = append(trace, "time_series_marker")
	}

	return processed, trace
}
