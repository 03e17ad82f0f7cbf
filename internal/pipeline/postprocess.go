package pipeline

import (
	"math"
	"strings"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

const nullSentinel = "N/A"

// PostprocessRows shapes raw warehouse rows for presentation: truncates to
// maxRows, rewrites keys to display form, rounds floats to two decimals,
// stringifies timestamps and substitutes a sentinel for null. The rewrite is
// idempotent per row.
func PostprocessRows(rows []models.Row, maxRows int) []models.Row {
	if len(rows) == 0 {
		return []models.Row{}
	}
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		clean := make(models.Row, len(row))
		for key, val := range row {
			clean[DisplayKey(key)] = displayValue(val)
		}
		out = append(out, clean)
	}
	return out
}

// DisplayKey rewrites a snake_case column name to title-spaced form,
// e.g. "total_amount" -> "Total Amount".
func DisplayKey(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}

func displayValue(v models.Value) models.Value {
	switch v.Kind() {
	case models.KindNull:
		return models.String(nullSentinel)
	case models.KindNumber:
		return models.Number(roundTo2(v.Num()))
	case models.KindTime:
		return models.String(v.TimeVal().Format("2006-01-02T15:04:05"))
	default:
		return v
	}
}

func roundTo2(f float64) float64 {
	return math.Round(f*100) / 100
}
