package models

// Column describes one warehouse column.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema describes one warehouse table.
type TableSchema struct {
	Type    string   `json:"type"`
	Columns []Column `json:"columns"`
}

// SchemaSnapshot is the table/column metadata fetched once from the warehouse
// at startup and held read-only for the lifetime of the service.
type SchemaSnapshot struct {
	Schema string                 `json:"schema"`
	Tables map[string]TableSchema `json:"tables"`
}

// TableNames returns the snapshot's table names in unspecified order.
func (s *SchemaSnapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	return names
}
