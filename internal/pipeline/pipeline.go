package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/awesomegusS/agentic-data-explorer/internal/llm"
	"github.com/awesomegusS/agentic-data-explorer/internal/models"
	"github.com/awesomegusS/agentic-data-explorer/internal/observability"
	"github.com/awesomegusS/agentic-data-explorer/internal/security"
)

// maxGenerationTimeout caps the model call regardless of the requested
// per-query timeout.
const maxGenerationTimeout = 60 * time.Second

// SQL source labels carried in response metadata and metrics.
const (
	sourceQuickAnswer = "quick_answer"
	sourceTemplate    = "template"
	sourceAI          = "ai"
)

// Warehouse is the execution backend the pipeline depends on. Execute returns
// rows plus the warehouse-side elapsed time in milliseconds.
type Warehouse interface {
	Execute(ctx context.Context, sql string, maxRows int) ([]models.Row, float64, error)
	SchemaInfo(ctx context.Context) (*models.SchemaSnapshot, error)
	TestConnection(ctx context.Context) error
}

// Agent orchestrates the staged query pipeline: preprocess, quick-answer
// short-circuit, complexity annotation, template match, AI generation,
// extraction, validation, execution and postprocessing. All per-request
// state is local; shared state is limited to the Tracker and the read-only
// schema snapshot.
type Agent struct {
	warehouse Warehouse
	completer llm.Completer
	validator *security.SQLValidator
	audit     *security.AuditLogger
	tracker   *Tracker
	pre       *Preprocessor

	// bounds concurrent model/warehouse calls so slow backends cannot
	// exhaust the process
	sem *semaphore.Weighted

	// read-only after Initialize
	schema *models.SchemaSnapshot
}

func NewAgent(w Warehouse, c llm.Completer, audit *security.AuditLogger, maxConcurrentCalls int64) *Agent {
	if maxConcurrentCalls < 1 {
		maxConcurrentCalls = 8
	}
	return &Agent{
		warehouse: w,
		completer: c,
		validator: security.NewSQLValidator(),
		audit:     audit,
		tracker:   NewTracker(c.Model()),
		pre:       NewPreprocessor(),
		sem:       semaphore.NewWeighted(maxConcurrentCalls),
	}
}

// Initialize fetches the schema snapshot once. The snapshot is read-only for
// the lifetime of the agent.
func (a *Agent) Initialize(ctx context.Context) error {
	snapshot, err := a.warehouse.SchemaInfo(ctx)
	if err != nil {
		return fmt.Errorf("fetch schema snapshot: %w", err)
	}
	a.schema = snapshot
	log.Info().Int("tables", len(snapshot.Tables)).Msg("schema snapshot loaded")
	return nil
}

func (a *Agent) Schema() *models.SchemaSnapshot { return a.schema }

// TestConnection reports warehouse connectivity.
func (a *Agent) TestConnection(ctx context.Context) error {
	return a.warehouse.TestConnection(ctx)
}

func (a *Agent) Stats() models.StatsResponse { return a.tracker.Snapshot() }

// Process runs one question through the pipeline. It never returns an error:
// failures are folded into the result's error payload so the HTTP layer can
// shape the status code from ErrorType.
func (a *Agent) Process(ctx context.Context, req *models.QueryRequest) *models.QueryResult {
	start := time.Now()
	a.tracker.RecordStart()

	processed, trace := a.pre.Process(req.Question)
	metadata := map[string]any{
		"ai_model":           a.completer.Model(),
		"processed_question": processed,
	}
	if len(trace) > 0 {
		metadata["preprocessing"] = trace
	}

	if answer, ok := QuickAnswer(processed); ok {
		metadata["response_type"] = sourceQuickAnswer
		elapsed := msSince(start)
		a.tracker.RecordSuccess(elapsed)
		observability.ObserveQuery(sourceQuickAnswer, "success", time.Since(start))
		return &models.QueryResult{
			Question:        req.Question,
			Results:         []models.Row{{"answer": models.String(answer)}},
			RowCount:        1,
			ExecutionTimeMs: elapsed,
			Complexity:      models.ComplexitySimple,
			Timestamp:       time.Now(),
			Metadata:        metadata,
		}
	}

	complexity := EstimateComplexity(processed)

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
	defer cancel()

	var (
		rawSQL string
		source string
	)
	if sql, rule, ok := MatchTemplate(processed); ok {
		log.Debug().Str("rule", rule).Msg("template-based SQL generation")
		rawSQL = sql
		source = sourceTemplate
		metadata["sql_source"] = source
		metadata["template_rule"] = rule
	} else {
		log.Debug().Msg("AI-based SQL generation")
		source = sourceAI
		metadata["sql_source"] = source
		text, err := a.generate(reqCtx, processed)
		if err != nil {
			if isTimeout(err) {
				return a.failure(req, complexity, metadata, start, source,
					models.ErrTypeTimeout, "query timed out during SQL generation")
			}
			return a.failure(req, complexity, metadata, start, source,
				models.ErrTypeGeneration, err.Error())
		}
		extracted, ok := ExtractSQL(text)
		if !ok {
			return a.failure(req, complexity, metadata, start, source,
				models.ErrTypeGeneration, "AI failed to generate valid SQL")
		}
		rawSQL = extracted
	}

	cleanedSQL, err := a.validator.Clean(rawSQL)
	if err != nil {
		return a.failure(req, complexity, metadata, start, source,
			models.ErrTypeValidation, err.Error())
	}

	rows, queryMs, err := a.execute(reqCtx, cleanedSQL, req.MaxRows)
	if err != nil {
		if isTimeout(err) {
			return a.failure(req, complexity, metadata, start, source,
				models.ErrTypeTimeout, "query timed out during execution")
		}
		return a.failure(req, complexity, metadata, start, source,
			models.ErrTypeExecution, err.Error())
	}

	results := PostprocessRows(rows, req.MaxRows)
	elapsed := msSince(start)

	a.tracker.RecordSuccess(elapsed)
	a.audit.LogQuery(req.Question, cleanedSQL, source, elapsed, len(results), true, "")
	observability.ObserveQuery(source, "success", time.Since(start))

	metadata["database_query_time_ms"] = queryMs
	metadata["sql_generation_time_ms"] = elapsed - queryMs

	result := &models.QueryResult{
		Question:        req.Question,
		Results:         results,
		RowCount:        len(results),
		ExecutionTimeMs: elapsed,
		Complexity:      complexity,
		Timestamp:       time.Now(),
		Metadata:        metadata,
	}
	if req.IncludeSQL {
		result.SQLQuery = &cleanedSQL
	}

	log.Info().
		Int("rows", result.RowCount).
		Float64("elapsed_ms", elapsed).
		Str("source", source).
		Str("complexity", string(complexity)).
		Msg("query processed")
	return result
}

// generate invokes the model once under the generation bound and the shared
// concurrency semaphore. No retry.
func (a *Agent) generate(ctx context.Context, question string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, maxGenerationTimeout)
	defer cancel()

	if err := a.sem.Acquire(genCtx, 1); err != nil {
		return "", err
	}
	defer a.sem.Release(1)

	prompt := llm.BuildPrompt(a.schema, question)
	return a.completer.Complete(genCtx, prompt)
}

func (a *Agent) execute(ctx context.Context, sql string, maxRows int) ([]models.Row, float64, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, 0, err
	}
	defer a.sem.Release(1)

	return a.warehouse.Execute(ctx, sql, maxRows)
}

// failure is the single path that records a failed request, so the failed
// counter moves exactly once no matter which stage gave up.
func (a *Agent) failure(
	req *models.QueryRequest,
	complexity models.Complexity,
	metadata map[string]any,
	start time.Time,
	source, errType, errMsg string,
) *models.QueryResult {
	elapsed := msSince(start)
	a.tracker.RecordFailure()
	a.audit.LogQuery(req.Question, "", source, elapsed, 0, false, errType)
	observability.ObserveQuery(source, errType, time.Since(start))

	log.Warn().
		Str("error_type", errType).
		Str("error", errMsg).
		Float64("elapsed_ms", elapsed).
		Msg("query processing failed")

	return &models.QueryResult{
		Question:        req.Question,
		Results:         []models.Row{},
		RowCount:        0,
		ExecutionTimeMs: elapsed,
		Complexity:      complexity,
		Timestamp:       time.Now(),
		Metadata:        metadata,
		Error:           errMsg,
		ErrorType:       errType,
		Suggestions:     SuggestFixes(errMsg),
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
