package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/awesomegusS/agentic-data-explorer/internal/handler"
	"github.com/awesomegusS/agentic-data-explorer/internal/models"
	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
	"github.com/awesomegusS/agentic-data-explorer/internal/security"
)

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

type fakeWarehouse struct {
	rows    []models.Row
	connErr error
}

func (f *fakeWarehouse) Execute(ctx context.Context, sql string, maxRows int) ([]models.Row, float64, error) {
	rows := f.rows
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	return rows, 1, nil
}

func (f *fakeWarehouse) SchemaInfo(ctx context.Context) (*models.SchemaSnapshot, error) {
	return &models.SchemaSnapshot{
		Schema: "public",
		Tables: map[string]models.TableSchema{
			"sales": {Type: "BASE TABLE", Columns: []models.Column{
				{Name: "total_amount", Type: "numeric"},
			}},
		},
	}, nil
}

func (f *fakeWarehouse) TestConnection(ctx context.Context) error { return f.connErr }

func newAgent(t *testing.T, wh pipeline.Warehouse, c *fakeCompleter) *pipeline.Agent {
	t.Helper()
	agent := pipeline.NewAgent(wh, c, security.NewAuditLogger(false), 4)
	if err := agent.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return agent
}

// ─── Query ────────────────────────────────────────────────────────────────────

func TestQueryProcessSuccess(t *testing.T) {
	wh := &fakeWarehouse{rows: []models.Row{{"total_count": models.Number(7)}}}
	h := handler.NewQueryHandler(newAgent(t, wh, &fakeCompleter{}), 90)

	body := strings.NewReader(`{"question": "How many sales are there?", "include_sql": true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	rr := httptest.NewRecorder()
	h.Process(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result models.QueryResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RowCount != 1 {
		t.Errorf("row_count = %d, want 1", result.RowCount)
	}
	if result.SQLQuery == nil {
		t.Error("sql_query missing despite include_sql")
	}
}

func TestQueryProcessRejectsDangerousQuestion(t *testing.T) {
	h := handler.NewQueryHandler(newAgent(t, &fakeWarehouse{}, &fakeCompleter{}), 90)

	body := strings.NewReader(`{"question": "drop the sales table"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	rr := httptest.NewRecorder()
	h.Process(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ErrorType != models.ErrTypeValidation {
		t.Errorf("error_type = %q", resp.ErrorType)
	}
}

func TestQueryProcessInvalidBody(t *testing.T) {
	h := handler.NewQueryHandler(newAgent(t, &fakeWarehouse{}, &fakeCompleter{}), 90)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.Process(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestQueryProcessTimeoutStatus(t *testing.T) {
	h := handler.NewQueryHandler(newAgent(t, &fakeWarehouse{},
		&fakeCompleter{err: context.DeadlineExceeded}), 90)

	body := strings.NewReader(`{"question": "Which payment method is most popular?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	rr := httptest.NewRecorder()
	h.Process(rr, req)

	if rr.Code != http.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", rr.Code)
	}
	var result models.QueryResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ErrorType != models.ErrTypeTimeout {
		t.Errorf("error_type = %q", result.ErrorType)
	}
}

func TestQueryProcessAppliesConfiguredTimeout(t *testing.T) {
	// completer records the deadline it was handed
	completer := &deadlineCapturingCompleter{}
	agent := pipeline.NewAgent(&fakeWarehouse{}, completer, security.NewAuditLogger(false), 4)
	if err := agent.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h := handler.NewQueryHandler(agent, 10)

	body := strings.NewReader(`{"question": "Which payment method is most popular?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", body)
	h.Process(httptest.NewRecorder(), req)

	if completer.remaining <= 0 {
		t.Fatal("completer never saw a deadline")
	}
	// The request left timeout_seconds unset, so the handler's configured
	// 10s default bounds the model call, not the 90s model default.
	if completer.remaining > 11*time.Second {
		t.Errorf("model call deadline %v exceeds the configured 10s default", completer.remaining)
	}
	if completer.remaining < 5*time.Second {
		t.Errorf("model call deadline %v suspiciously short", completer.remaining)
	}
}

type deadlineCapturingCompleter struct {
	remaining time.Duration
}

func (c *deadlineCapturingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.remaining = time.Until(deadline)
	}
	return "SELECT 1", nil
}

func (c *deadlineCapturingCompleter) Model() string { return "fake-model" }

func TestQueryExamples(t *testing.T) {
	h := handler.NewQueryHandler(newAgent(t, &fakeWarehouse{}, &fakeCompleter{}), 90)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/query/examples", nil)
	rr := httptest.NewRecorder()
	h.Examples(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp models.ExampleQueriesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Categories) != 5 {
		t.Errorf("categories = %d, want 5", len(resp.Categories))
	}
	if len(resp.Tips) == 0 {
		t.Error("tips missing")
	}
}

func TestQueryStats(t *testing.T) {
	wh := &fakeWarehouse{rows: []models.Row{{"total_count": models.Number(7)}}}
	agent := newAgent(t, wh, &fakeCompleter{})
	h := handler.NewQueryHandler(agent, 90)

	reqBody := &models.QueryRequest{Question: "How many sales are there?"}
	reqBody.SetDefaults()
	agent.Process(context.Background(), reqBody)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/query/stats", nil)
	rr := httptest.NewRecorder()
	h.Stats(rr, req)

	var stats models.StatsResponse
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalQueries != 1 || stats.SuccessfulQueries != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ModelUsed != "fake-model" {
		t.Errorf("model = %q", stats.ModelUsed)
	}
}

func TestQuerySelfTest(t *testing.T) {
	wh := &fakeWarehouse{rows: []models.Row{{"total_count": models.Number(7)}}}
	h := handler.NewQueryHandler(newAgent(t, wh, &fakeCompleter{}), 90)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query/test", nil)
	rr := httptest.NewRecorder()
	h.Test(rr, req)

	var report models.TestReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.ReadyForQueries {
		t.Errorf("expected ready_for_queries, checks: %+v", report.Checks)
	}
	for _, name := range []string{"database_connection", "query_pipeline", "schema_access"} {
		if !report.Checks[name].Passed {
			t.Errorf("check %s failed: %s", name, report.Checks[name].Detail)
		}
	}
}

func TestQuerySelfTestReportsFailure(t *testing.T) {
	wh := &fakeWarehouse{connErr: context.DeadlineExceeded}
	h := handler.NewQueryHandler(newAgent(t, wh, &fakeCompleter{}), 90)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query/test", nil)
	rr := httptest.NewRecorder()
	h.Test(rr, req)

	var report models.TestReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.ReadyForQueries {
		t.Error("expected not ready when connection check fails")
	}
	if report.Checks["database_connection"].Passed {
		t.Error("database_connection should fail")
	}
}

// ─── Schema ───────────────────────────────────────────────────────────────────

func TestSchemaGet(t *testing.T) {
	h := handler.NewSchemaHandler(newAgent(t, &fakeWarehouse{}, &fakeCompleter{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Database string `json:"database"`
		Summary  struct {
			TotalTables int      `json:"total_tables"`
			TableNames  []string `json:"table_names"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Database != "public" || resp.Summary.TotalTables != 1 {
		t.Errorf("schema response = %+v", resp)
	}
}

// ─── Health ───────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	h := handler.NewHealthHandler(newAgent(t, &fakeWarehouse{}, &fakeCompleter{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestHealthDetailedDegraded(t *testing.T) {
	wh := &fakeWarehouse{connErr: context.DeadlineExceeded}
	h := handler.NewHealthHandler(newAgent(t, wh, &fakeCompleter{}))

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	rr := httptest.NewRecorder()
	h.Detailed(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q", resp.Status)
	}
	if !strings.HasPrefix(resp.Checks["warehouse"], "unavailable") {
		t.Errorf("warehouse check = %q", resp.Checks["warehouse"])
	}
}

func TestReadyAndLive(t *testing.T) {
	h := handler.NewHealthHandler(newAgent(t, &fakeWarehouse{}, &fakeCompleter{}))

	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("ready: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Live(rr, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("live: expected 200, got %d", rr.Code)
	}
}
