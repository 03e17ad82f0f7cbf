package models

import (
	"fmt"
	"strings"
)

const (
	MinQuestionLength = 3
	MaxQuestionLength = 500
)

// forbiddenQuestionKeywords mirrors the SQL denylist. A question carrying any
// of these is rejected at the boundary, before any SQL is generated. The
// filter is intentionally aggressive: "give me an update on sales" is
// rejected as well.
var forbiddenQuestionKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "ALTER", "CREATE TABLE", "INSERT", "UPDATE",
}

// QueryRequest for POST /api/v1/query (natural language question)
type QueryRequest struct {
	Question       string `json:"question"`
	MaxRows        int    `json:"max_rows"`
	IncludeSQL     bool   `json:"include_sql"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults fills unset numeric fields. Out-of-range values are rejected by
// Validate, not clamped, so this only touches zeros.
func (r *QueryRequest) SetDefaults() {
	if r.MaxRows == 0 {
		r.MaxRows = 100
	}
	if r.TimeoutSeconds == 0 {
		r.TimeoutSeconds = 90
	}
}

// Validate checks question shape, numeric ranges and the keyword denylist.
// Returns a human-readable reason on rejection. Call before SetDefaults.
func (r *QueryRequest) Validate() error {
	if r.MaxRows != 0 && (r.MaxRows < 1 || r.MaxRows > 1000) {
		return fmt.Errorf("max_rows must be between 1 and 1000")
	}
	if r.TimeoutSeconds != 0 && (r.TimeoutSeconds < 5 || r.TimeoutSeconds > 120) {
		return fmt.Errorf("timeout_seconds must be between 5 and 120")
	}
	q := strings.TrimSpace(r.Question)
	if q == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if len(q) < MinQuestionLength {
		return fmt.Errorf("question too short: minimum %d characters", MinQuestionLength)
	}
	if len(q) > MaxQuestionLength {
		return fmt.Errorf("question too long: %d chars (max %d)", len(q), MaxQuestionLength)
	}
	upper := strings.ToUpper(q)
	for _, kw := range forbiddenQuestionKeywords {
		if strings.Contains(upper, kw) {
			return fmt.Errorf("question contains potentially dangerous keyword: %s", kw)
		}
	}
	r.Question = q
	return nil
}
