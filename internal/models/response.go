package models

import "time"

// Complexity is a coarse classification of a question, reported to the
// caller but not used to alter pipeline behavior.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// QueryResult is returned by POST /api/v1/query. On failure Error, ErrorType
// and Suggestions are populated and Results is empty.
type QueryResult struct {
	Question        string         `json:"question"`
	SQLQuery        *string        `json:"sql_query,omitempty"`
	Results         []Row          `json:"results"`
	RowCount        int            `json:"row_count"`
	ExecutionTimeMs float64        `json:"execution_time_ms"`
	Complexity      Complexity     `json:"complexity"`
	Timestamp       time.Time      `json:"timestamp"`
	Metadata        map[string]any `json:"metadata,omitempty"`

	Error       string   `json:"error,omitempty"`
	ErrorType   string   `json:"error_type,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// StatsResponse is returned by GET /api/v1/query/stats
type StatsResponse struct {
	TotalQueries      int64   `json:"total_queries"`
	SuccessfulQueries int64   `json:"successful_queries"`
	FailedQueries     int64   `json:"failed_queries"`
	AvgResponseTimeMs float64 `json:"avg_response_time"`
	ModelUsed         string  `json:"model_used"`
	SuccessRate       float64 `json:"success_rate"`
	ErrorRate         float64 `json:"error_rate"`
}

// ExampleQueriesResponse is returned by GET /api/v1/query/examples
type ExampleQueriesResponse struct {
	Categories map[string][]string `json:"categories"`
	Tips       []string            `json:"tips"`
	Timestamp  time.Time           `json:"timestamp"`
}

// HealthResponse is returned by GET /health. The detailed variant also
// carries dependency checks and a statistics snapshot.
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks,omitempty"`
	Statistics    *StatsResponse    `json:"statistics,omitempty"`
}

// TestCheck is one entry in the POST /api/v1/query/test report
type TestCheck struct {
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// TestReport is returned by POST /api/v1/query/test
type TestReport struct {
	Timestamp       time.Time            `json:"timestamp"`
	Checks          map[string]TestCheck `json:"checks"`
	ReadyForQueries bool                 `json:"ready_for_queries"`
}
