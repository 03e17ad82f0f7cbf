package pipeline_test

import (
	"strings"
	"testing"

	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
)

func TestQuickAnswerMatches(t *testing.T) {
	tests := []struct {
		question string
		wantHit  bool
		contains string
	}{
		{"What is SQL?", true, "Structured Query Language"},
		{"what's sql", true, "Structured Query Language"},
		{"How does SQL work?", true, "declarative"},
		{"What is database?", true, "organized collection"},
		{"What can I ask?", true, "retail data"},
		{"What was total revenue last month?", false, ""},
		{"Show me top stores", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			answer, ok := pipeline.QuickAnswer(tt.question)
			if ok != tt.wantHit {
				t.Fatalf("QuickAnswer(%q) hit = %v, want %v", tt.question, ok, tt.wantHit)
			}
			if tt.wantHit && !strings.Contains(answer, tt.contains) {
				t.Errorf("answer %q should contain %q", answer, tt.contains)
			}
		})
	}
}
