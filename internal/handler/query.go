package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
)

// QueryHandler serves the natural-language query surface: processing,
// curated examples, statistics and the self-test endpoint.
type QueryHandler struct {
	agent *pipeline.Agent

	// applied to requests that leave timeout_seconds unset
	defaultTimeout int
}

func NewQueryHandler(agent *pipeline.Agent, defaultTimeoutSeconds int) *QueryHandler {
	return &QueryHandler{agent: agent, defaultTimeout: defaultTimeoutSeconds}
}

// Process handles POST /api/v1/query
func (h *QueryHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		models.WriteErrorDetail(w, http.StatusUnprocessableEntity, err.Error(),
			models.ErrTypeValidation, nil)
		return
	}
	if req.TimeoutSeconds == 0 && h.defaultTimeout > 0 {
		req.TimeoutSeconds = h.defaultTimeout
	}
	req.SetDefaults()

	log.Info().Str("question", req.Question).Msg("processing query")
	result := h.agent.Process(r.Context(), &req)

	status := http.StatusOK
	if result.ErrorType == models.ErrTypeTimeout {
		status = http.StatusRequestTimeout
	}
	models.WriteJSON(w, status, result)
}

// Examples handles GET /api/v1/query/examples
func (h *QueryHandler) Examples(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.ExampleQueriesResponse{
		Categories: exampleCategories,
		Tips:       exampleTips,
		Timestamp:  time.Now(),
	})
}

// Stats handles GET /api/v1/query/stats
func (h *QueryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, h.agent.Stats())
}

// Test handles POST /api/v1/query/test. It runs connectivity and
// functionality checks end to end and reports per-check results.
func (h *QueryHandler) Test(w http.ResponseWriter, r *http.Request) {
	report := models.TestReport{
		Timestamp: time.Now(),
		Checks:    make(map[string]models.TestCheck),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.agent.TestConnection(ctx); err != nil {
		report.Checks["database_connection"] = models.TestCheck{Passed: false, Detail: err.Error()}
	} else {
		report.Checks["database_connection"] = models.TestCheck{Passed: true}
	}

	testReq := &models.QueryRequest{
		Question:       "How many total transactions are in the database?",
		MaxRows:        1,
		TimeoutSeconds: 10,
	}
	testReq.SetDefaults()
	result := h.agent.Process(ctx, testReq)
	if result.Error == "" && result.RowCount > 0 {
		report.Checks["query_pipeline"] = models.TestCheck{Passed: true}
	} else {
		detail := result.Error
		if detail == "" {
			detail = "pipeline returned no rows"
		}
		report.Checks["query_pipeline"] = models.TestCheck{Passed: false, Detail: detail}
	}

	if schema := h.agent.Schema(); schema != nil && len(schema.Tables) > 0 {
		report.Checks["schema_access"] = models.TestCheck{Passed: true}
	} else {
		report.Checks["schema_access"] = models.TestCheck{Passed: false, Detail: "no tables in schema snapshot"}
	}

	report.ReadyForQueries = true
	for _, c := range report.Checks {
		if !c.Passed {
			report.ReadyForQueries = false
			break
		}
	}
	models.WriteJSON(w, http.StatusOK, report)
}

var exampleCategories = map[string][]string{
	"Revenue & Sales": {
		"What was the total revenue last month?",
		"Show me monthly revenue for the past 6 months",
		"Which store has the highest total sales?",
		"What's the average order value across all stores?",
		"How much revenue did we generate from electronics category?",
	},
	"Product Analysis": {
		"Which product category has the highest sales?",
		"Show me the top 10 best-selling products",
		"What's the average price by product category?",
		"Which products have the lowest sales volume?",
		"Compare sales between clothing and electronics categories",
	},
	"Store Performance": {
		"Show me the top 5 stores by revenue",
		"Which region has the highest sales?",
		"Compare store performance between large and small stores",
		"What's the average transaction value per store?",
		"Which stores are underperforming?",
	},
	"Time Analysis": {
		"How do weekend sales compare to weekday sales?",
		"Show me sales trends by month",
		"What day of the week has the highest sales?",
		"Compare this year's sales to last year",
		"What was our best sales day?",
	},
	"Customer Insights": {
		"What's the average quantity per transaction?",
		"How many transactions did we process last month?",
		"What's the most popular payment method?",
		"Show me customer segment distribution",
		"What's the average discount rate applied?",
	},
}

var exampleTips = []string{
	"Use specific time periods like 'last month' or 'this year'",
	"Ask for 'top N' results to get manageable data sets",
	"Use comparison words like 'compare', 'versus', 'highest', 'lowest'",
	"Be specific about metrics: 'revenue', 'sales volume', 'average order value'",
	"You can ask for data 'by category', 'by store', 'by region', etc.",
	"Include SQL in response by setting include_sql=true for learning",
}
