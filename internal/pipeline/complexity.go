package pipeline

import (
	"strings"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

// Keyword lists for complexity classification. The complex list is always
// checked first: a question matching both sets is COMPLEX.
var complexIndicators = []string{
	"trend", "growth", "change over time", "compare", "vs", "versus",
	"correlation", "analysis", "breakdown by", "segment by",
	"month over month", "year over year", "moving average", "forecast",
}

var moderateIndicators = []string{
	"top", "bottom", "best", "worst", "highest", "lowest",
	"by category", "by region", "by store", "group by",
	"average", "join",
}

// EstimateComplexity classifies a question from keyword membership.
func EstimateComplexity(question string) models.Complexity {
	lower := strings.ToLower(question)

	for _, kw := range complexIndicators {
		if strings.Contains(lower, kw) {
			return models.ComplexityComplex
		}
	}
	for _, kw := range moderateIndicators {
		if strings.Contains(lower, kw) {
			return models.ComplexityModerate
		}
	}
	return models.ComplexitySimple
}
