package pipeline

import (
	"sync"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

// Tracker holds process-lifetime query counters and a running mean latency.
// All mutation goes through the single mutex so concurrent requests cannot
// lose updates. The running mean covers successful queries only.
type Tracker struct {
	mu            sync.Mutex
	totalQueries  int64
	successful    int64
	failed        int64
	avgResponseMs float64
	modelUsed     string
}

func NewTracker(modelUsed string) *Tracker {
	return &Tracker{modelUsed: modelUsed}
}

// RecordStart increments total_queries when a request enters the pipeline.
func (t *Tracker) RecordStart() {
	t.mu.Lock()
	t.totalQueries++
	t.mu.Unlock()
}

// RecordSuccess folds one successful request's wall-clock time into the
// running mean: new = (old*(n-1) + ms) / n.
func (t *Tracker) RecordSuccess(elapsedMs float64) {
	t.mu.Lock()
	t.successful++
	n := float64(t.successful)
	t.avgResponseMs = (t.avgResponseMs*(n-1) + elapsedMs) / n
	t.mu.Unlock()
}

// RecordFailure increments failed_queries; the running mean is untouched.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	t.failed++
	t.mu.Unlock()
}

// Snapshot returns current statistics plus derived success/error rates.
func (t *Tracker) Snapshot() models.StatsResponse {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := models.StatsResponse{
		TotalQueries:      t.totalQueries,
		SuccessfulQueries: t.successful,
		FailedQueries:     t.failed,
		AvgResponseTimeMs: t.avgResponseMs,
		ModelUsed:         t.modelUsed,
	}
	if t.totalQueries > 0 {
		s.SuccessRate = float64(t.successful) / float64(t.totalQueries) * 100
		s.ErrorRate = float64(t.failed) / float64(t.totalQueries) * 100
	}
	return s
}
