package security

import (
	"fmt"
	"regexp"
	"strings"
)

// forbiddenKeywords are rejected anywhere in a statement, case-insensitive.
// This is a safety net independent of the extraction stage: the validator
// runs on every generated statement even though templates are trusted.
var forbiddenKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "ALTER", "CREATE TABLE", "INSERT", "UPDATE",
}

var (
	reLineComment  = regexp.MustCompile(`--[^\n]*`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// SQLValidator cleans a candidate statement and enforces that it is a single
// read-only SELECT.
type SQLValidator struct{}

func NewSQLValidator() *SQLValidator {
	return &SQLValidator{}
}

// Clean strips comments, collapses whitespace, appends a trailing semicolon
// and validates the result. Cleaning is idempotent: Clean(Clean(x)) ==
// Clean(x) for every accepted x.
func (v *SQLValidator) Clean(sql string) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return "", fmt.Errorf("SQL cannot be empty")
	}

	cleaned := reLineComment.ReplaceAllString(sql, "")
	cleaned = reBlockComment.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if !strings.HasSuffix(cleaned, ";") {
		cleaned += ";"
	}

	upper := strings.ToUpper(cleaned)
	if !strings.HasPrefix(upper, "SELECT") {
		return "", fmt.Errorf("generated query is not a SELECT statement")
	}
	for _, kw := range forbiddenKeywords {
		if strings.Contains(upper, kw) {
			return "", fmt.Errorf("dangerous SQL keyword detected: %s", kw)
		}
	}

	return cleaned, nil
}

// Validate reports whether the statement passes Clean without returning the
// cleaned text.
func (v *SQLValidator) Validate(sql string) error {
	_, err := v.Clean(sql)
	return err
}
