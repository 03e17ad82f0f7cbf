package pipeline_test

import (
	"testing"

	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantHit bool
	}{
		{
			name:    "fenced sql block",
			text:    "Here is the query:\n```sql\nSELECT * FROM sales\n```\nDone.",
			want:    "SELECT * FROM sales",
			wantHit: true,
		},
		{
			name:    "generic fenced block",
			text:    "```\nSELECT COUNT(*) FROM stores;\n```",
			want:    "SELECT COUNT(*) FROM stores",
			wantHit: true,
		},
		{
			name:    "bare statement up to semicolon",
			text:    "SELECT store_name FROM stores; hope that helps",
			want:    "SELECT store_name FROM stores;",
			wantHit: true,
		},
		{
			name:    "labelled statement",
			text:    "SQL Query: SELECT 1",
			want:    "SELECT 1",
			wantHit: true,
		},
		{
			name:    "no sql at all",
			text:    "I cannot answer that question.",
			wantHit: false,
		},
		{
			name:    "empty",
			text:    "",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pipeline.ExtractSQL(tt.text)
			if ok != tt.wantHit {
				t.Fatalf("ExtractSQL hit = %v, want %v (got %q)", ok, tt.wantHit, got)
			}
			if tt.wantHit && got != tt.want {
				t.Errorf("ExtractSQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSQLWholeTextFallback(t *testing.T) {
	// Preamble chatter before a statement still yields the statement through
	// the bare-SELECT pattern.
	text := "Sure! Based on the schema, SELECT product_name FROM products"
	got, ok := pipeline.ExtractSQL(text)
	if !ok {
		t.Fatal("expected a hit")
	}
	if got != "SELECT product_name FROM products" {
		t.Errorf("got %q", got)
	}
}
