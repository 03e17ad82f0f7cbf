package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs query pipeline events with hashed identifiers so raw
// questions and generated SQL never land in the log stream.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogQuery records one pipeline run.
func (a *AuditLogger) LogQuery(
	question, generatedSQL, source string,
	executionTimeMs float64,
	rowCount int,
	success bool,
	errType string,
) {
	if !a.enabled {
		return
	}
	sqlHash := ""
	if generatedSQL != "" {
		sqlHash = hashStr(generatedSQL)[:16]
	}

	evt := log.Info().
		Str("event", "query_audit").
		Str("question_hash", hashStr(question)[:16]).
		Str("sql_hash", sqlHash).
		Str("source", source).
		Float64("execution_time_ms", executionTimeMs).
		Int("row_count", rowCount).
		Bool("success", success)

	if errType != "" {
		evt = evt.Str("error_type", errType)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
