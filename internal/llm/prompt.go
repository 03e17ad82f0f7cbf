package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

const maxColumnsPerTable = 10

const promptPreamble = `You are an expert SQL analyst for a retail analytics platform. Generate precise SQL queries for the given questions.

QUERY RULES:
1. Always use proper JOINs between fact and dimension tables
2. Use meaningful column aliases for readability
3. Include proper WHERE clauses for date filtering
4. Use appropriate aggregation functions (SUM, COUNT, AVG)
5. Limit results to 10-20 rows unless specifically asked for more
6. For time periods like "previous month", use relative date functions
7. Always include GROUP BY for aggregated columns`

const workedExamples = `EXAMPLE QUERIES:

Q: "What was total revenue last month?"
A: SELECT SUM(total_amount) AS total_revenue
   FROM sales
   WHERE sale_date >= DATE_TRUNC('month', CURRENT_DATE - INTERVAL '1 month')
     AND sale_date < DATE_TRUNC('month', CURRENT_DATE);

Q: "Top 5 stores by revenue"
A: SELECT s.store_name, s.store_region, SUM(f.total_amount) AS total_revenue
   FROM sales f
   JOIN stores s ON f.store_id = s.store_id
   GROUP BY s.store_name, s.store_region
   ORDER BY total_revenue DESC
   LIMIT 5;

Q: "Sales by product category"
A: SELECT p.product_category,
          COUNT(*) AS transaction_count,
          SUM(f.total_amount) AS total_revenue,
          AVG(f.total_amount) AS avg_order_value
   FROM sales f
   JOIN products p ON f.product_id = p.product_id
   GROUP BY p.product_category
   ORDER BY total_revenue DESC;

Q: "How do weekend sales compare to weekday sales?"
A: SELECT CASE WHEN d.day_type = 'Weekend' THEN 'Weekend' ELSE 'Weekday' END AS period_type,
          COUNT(*) AS transaction_count,
          SUM(f.total_amount) AS total_revenue,
          AVG(f.total_amount) AS avg_transaction_value
   FROM sales f
   JOIN dates d ON f.sale_date = d.date_day
   GROUP BY CASE WHEN d.day_type = 'Weekend' THEN 'Weekend' ELSE 'Weekday' END
   ORDER BY total_revenue DESC;`

// BuildPrompt assembles the generation prompt: fixed preamble, serialized
// schema snapshot, worked examples and the user question last.
func BuildPrompt(schema *models.SchemaSnapshot, question string) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(describeSchema(schema))
	sb.WriteString("\n")
	sb.WriteString(workedExamples)
	sb.WriteString("\n\nGenerate a single, clean SQL query for this question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nSQL Query:")
	return sb.String()
}

func describeSchema(schema *models.SchemaSnapshot) string {
	if schema == nil || len(schema.Tables) == 0 {
		return "DATABASE SCHEMA: information not available\n"
	}

	names := schema.TableNames()
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("DATABASE SCHEMA:\n")
	for _, name := range names {
		tbl := schema.Tables[name]
		sb.WriteString(fmt.Sprintf("\n%s (%s):\n", strings.ToUpper(name), tbl.Type))

		cols := tbl.Columns
		truncated := 0
		if len(cols) > maxColumnsPerTable {
			truncated = len(cols) - maxColumnsPerTable
			cols = cols[:maxColumnsPerTable]
		}
		for _, col := range cols {
			sb.WriteString(fmt.Sprintf("  - %s (%s)\n", col.Name, col.Type))
		}
		if truncated > 0 {
			sb.WriteString(fmt.Sprintf("  - ... and %d more columns\n", truncated))
		}
	}
	return sb.String()
}
