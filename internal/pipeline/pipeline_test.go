package pipeline_test

import (
	"context"
	"testing"

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
	execErr error
	lastSQL string
}

func (f *fakeWarehouse) Execute(ctx context.Context, sql string, maxRows int) ([]models.Row, float64, error) {
	f.lastSQL = sql
	if f.execErr != nil {
		return nil, 1, f.execErr
	}
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
				{Name: "sale_date", Type: "date"},
			}},
		},
	}, nil
}

func (f *fakeWarehouse) TestConnection(ctx context.Context) error { return nil }

func newTestAgent(t *testing.T, wh pipeline.Warehouse, c *fakeCompleter) *pipeline.Agent {
	t.Helper()
	agent := pipeline.NewAgent(wh, c, security.NewAuditLogger(false), 4)
	if err := agent.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return agent
}

func newRequest(question string) *models.QueryRequest {
	req := &models.QueryRequest{Question: question}
	req.SetDefaults()
	return req
}

func TestProcessQuickAnswer(t *testing.T) {
	wh := &fakeWarehouse{}
	agent := newTestAgent(t, wh, &fakeCompleter{})

	result := agent.Process(context.Background(), newRequest("What is SQL?"))
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.RowCount != 1 || len(result.Results) != 1 {
		t.Fatalf("expected a single answer row, got %d", result.RowCount)
	}
	if result.Complexity != models.ComplexitySimple {
		t.Errorf("complexity = %q, want simple", result.Complexity)
	}
	if wh.lastSQL != "" {
		t.Error("quick answer must not touch the warehouse")
	}
	if result.Metadata["response_type"] != "quick_answer" {
		t.Errorf("metadata response_type = %v", result.Metadata["response_type"])
	}
}

func TestProcessTemplatePath(t *testing.T) {
	wh := &fakeWarehouse{rows: []models.Row{{"total_count": models.Number(42)}}}
	agent := newTestAgent(t, wh, &fakeCompleter{err: context.Canceled}) // model must not be called

	req := newRequest("How many sales transactions are there?")
	req.IncludeSQL = true
	result := agent.Process(context.Background(), req)

	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.Metadata["sql_source"] != "template" {
		t.Errorf("sql_source = %v, want template", result.Metadata["sql_source"])
	}
	if result.Metadata["template_rule"] != "count_sales" {
		t.Errorf("template_rule = %v", result.Metadata["template_rule"])
	}
	if result.SQLQuery == nil || *result.SQLQuery != "SELECT COUNT(*) AS total_count FROM sales;" {
		t.Errorf("sql_query = %v", result.SQLQuery)
	}
	if result.RowCount != len(result.Results) || result.RowCount != 1 {
		t.Fatalf("row_count = %d, results = %d", result.RowCount, len(result.Results))
	}
	if v := result.Results[0]["Total Count"]; v.Num() != 42 {
		t.Errorf("Total Count = %v, want 42", v.Num())
	}
}

func TestProcessAIPath(t *testing.T) {
	wh := &fakeWarehouse{rows: []models.Row{{"payment_method": models.String("card")}}}
	completer := &fakeCompleter{text: "```sql\nSELECT payment_method FROM sales LIMIT 10\n```"}
	agent := newTestAgent(t, wh, completer)

	result := agent.Process(context.Background(), newRequest("Which payment method is most popular?"))
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.Metadata["sql_source"] != "ai" {
		t.Errorf("sql_source = %v, want ai", result.Metadata["sql_source"])
	}
	if wh.lastSQL != "SELECT payment_method FROM sales LIMIT 10;" {
		t.Errorf("executed SQL = %q", wh.lastSQL)
	}
	// include_sql defaults to false, so the SQL stays out of the response
	if result.SQLQuery != nil {
		t.Error("sql_query should be omitted when include_sql is false")
	}
}

func TestProcessGenerationTimeout(t *testing.T) {
	wh := &fakeWarehouse{}
	agent := newTestAgent(t, wh, &fakeCompleter{err: context.DeadlineExceeded})

	result := agent.Process(context.Background(), newRequest("Which payment method is most popular?"))
	if result.ErrorType != models.ErrTypeTimeout {
		t.Fatalf("error_type = %q, want %q", result.ErrorType, models.ErrTypeTimeout)
	}
	if result.RowCount != 0 || len(result.Results) != 0 {
		t.Errorf("failed result should carry no rows")
	}
	if n := len(result.Suggestions); n == 0 || n > 3 {
		t.Errorf("suggestions = %d, want 1..3", n)
	}

	stats := agent.Stats()
	if stats.FailedQueries != 1 {
		t.Errorf("failed_queries = %d, want 1", stats.FailedQueries)
	}
	if stats.TotalQueries != 1 {
		t.Errorf("total_queries = %d, want 1", stats.TotalQueries)
	}
}

func TestProcessRejectsUnsafeGeneratedSQL(t *testing.T) {
	wh := &fakeWarehouse{}
	completer := &fakeCompleter{text: "```sql\nSELECT 1; DELETE FROM sales\n```"}
	agent := newTestAgent(t, wh, completer)

	result := agent.Process(context.Background(), newRequest("Which payment method is most popular?"))
	if result.ErrorType != models.ErrTypeValidation {
		t.Fatalf("error_type = %q, want %q", result.ErrorType, models.ErrTypeValidation)
	}
	if wh.lastSQL != "" {
		t.Error("rejected SQL must never reach the warehouse")
	}
}

func TestProcessGenerationFailure(t *testing.T) {
	agent := newTestAgent(t, &fakeWarehouse{}, &fakeCompleter{text: "I don't know how to answer that."})

	result := agent.Process(context.Background(), newRequest("Which payment method is most popular?"))
	if result.ErrorType != models.ErrTypeGeneration {
		t.Fatalf("error_type = %q, want %q", result.ErrorType, models.ErrTypeGeneration)
	}
}

func TestProcessExecutionError(t *testing.T) {
	wh := &fakeWarehouse{execErr: context.Canceled}
	agent := newTestAgent(t, wh, &fakeCompleter{err: context.Canceled})

	// Template path so the completer is never consulted
	result := agent.Process(context.Background(), newRequest("How many sales are there?"))
	if result.ErrorType != models.ErrTypeExecution {
		t.Fatalf("error_type = %q, want %q", result.ErrorType, models.ErrTypeExecution)
	}
}

func TestProcessStatsAccumulate(t *testing.T) {
	wh := &fakeWarehouse{rows: []models.Row{{"total_count": models.Number(1)}}}
	agent := newTestAgent(t, wh, &fakeCompleter{text: "no sql here"})

	// one success through the template path, one generation failure
	agent.Process(context.Background(), newRequest("How many sales are there?"))
	agent.Process(context.Background(), newRequest("Which payment method is most popular?"))

	stats := agent.Stats()
	if stats.TotalQueries != 2 || stats.SuccessfulQueries != 1 || stats.FailedQueries != 1 {
		t.Errorf("stats = %d/%d/%d, want 2/1/1",
			stats.TotalQueries, stats.SuccessfulQueries, stats.FailedQueries)
	}
	if stats.SuccessRate != 50 {
		t.Errorf("success_rate = %v, want 50", stats.SuccessRate)
	}
}

func TestProcessMaxRowsRespected(t *testing.T) {
	rows := make([]models.Row, 8)
	for i := range rows {
		rows[i] = models.Row{"n": models.Number(float64(i))}
	}
	wh := &fakeWarehouse{rows: rows}
	agent := newTestAgent(t, wh, &fakeCompleter{err: context.Canceled})

	req := newRequest("show sales")
	req.MaxRows = 3
	result := agent.Process(context.Background(), req)
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", result.RowCount)
	}
}
