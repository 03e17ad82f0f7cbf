package handler

import (
	"net/http"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
)

// SchemaHandler serves the read-only schema snapshot.
type SchemaHandler struct {
	agent *pipeline.Agent
}

func NewSchemaHandler(agent *pipeline.Agent) *SchemaHandler {
	return &SchemaHandler{agent: agent}
}

type schemaTable struct {
	Type        string          `json:"type"`
	ColumnCount int             `json:"column_count"`
	Columns     []models.Column `json:"columns"`
}

type schemaResponse struct {
	Database string                 `json:"database"`
	Tables   map[string]schemaTable `json:"tables"`
	Summary  schemaSummary          `json:"summary"`
}

type schemaSummary struct {
	TotalTables int      `json:"total_tables"`
	TableNames  []string `json:"table_names"`
}

// Get handles GET /api/v1/schema
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot := h.agent.Schema()
	if snapshot == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "schema snapshot not loaded")
		return
	}

	resp := schemaResponse{
		Database: snapshot.Schema,
		Tables:   make(map[string]schemaTable, len(snapshot.Tables)),
		Summary: schemaSummary{
			TotalTables: len(snapshot.Tables),
			TableNames:  snapshot.TableNames(),
		},
	}
	for name, tbl := range snapshot.Tables {
		resp.Tables[name] = schemaTable{
			Type:        tbl.Type,
			ColumnCount: len(tbl.Columns),
			Columns:     tbl.Columns,
		}
	}
	models.WriteJSON(w, http.StatusOK, resp)
}
