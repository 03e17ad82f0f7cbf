package pipeline

import (
	"regexp"
	"strings"
)

// Extraction strategies tried in order against raw model output. Each
// captures a candidate statement; the first non-empty capture containing
// SELECT wins.
var extractPatterns = []*regexp.Regexp{
	// fenced ```sql block
	regexp.MustCompile("(?is)```sql\\s*(.*?)\\s*```"),
	// generic fenced block containing a SELECT
	regexp.MustCompile("(?is)```\\s*(SELECT.*?);?\\s*```"),
	// bare SELECT statement up to semicolon, blank line or end of text
	regexp.MustCompile(`(?is)(SELECT\s+.*?(?:;|\n\n|\z))`),
	// labelled statements
	regexp.MustCompile(`(?is)SQL Query:\s*(SELECT.*?)(?:\n|\z)`),
	regexp.MustCompile(`(?is)Query:\s*(SELECT.*?)(?:\n|\z)`),
}

// ExtractSQL pulls a candidate SQL statement out of free-form model output.
// If no structured extraction succeeds but the full text itself contains
// SELECT, the trimmed text is returned as a last resort. Returns ("", false)
// when nothing usable is found.
func ExtractSQL(text string) (string, bool) {
	for _, re := range extractPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		sql := strings.TrimSpace(m[1])
		if sql != "" && strings.Contains(strings.ToUpper(sql), "SELECT") {
			return sql, true
		}
	}

	if strings.Contains(strings.ToUpper(text), "SELECT") {
		return strings.TrimSpace(text), true
	}
	return "", false
}
