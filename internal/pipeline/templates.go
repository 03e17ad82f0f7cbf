package pipeline

import "strings"

// templateRule pairs a question predicate with a canned SQL statement. Rules
// are evaluated in declaration order; the first hit wins, so more specific
// shapes must precede general ones. Every SQL string here must pass the SQL
// validator unmodified.
type templateRule struct {
	name    string
	matches func(q string) bool
	sql     string
}

func containsAny(q string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

var templateRules = []templateRule{
	{
		name: "count_sales",
		matches: func(q string) bool {
			return containsAny(q, "how many", "count", "total number", "number of") &&
				containsAny(q, "sales", "transaction", "record")
		},
		sql: "SELECT COUNT(*) AS total_count FROM sales;",
	},
	{
		name: "count_products",
		matches: func(q string) bool {
			return containsAny(q, "how many", "count", "total number", "number of") &&
				strings.Contains(q, "product")
		},
		sql: "SELECT COUNT(*) AS product_count FROM products;",
	},
	{
		name: "count_stores",
		matches: func(q string) bool {
			return containsAny(q, "how many", "count", "total number", "number of") &&
				strings.Contains(q, "store")
		},
		sql: "SELECT COUNT(*) AS store_count FROM stores;",
	},
	{
		name: "monthly_revenue",
		matches: func(q string) bool {
			return containsAny(q, "total revenue", "total sales", "sum of sales") &&
				strings.Contains(q, "month")
		},
		sql: "SELECT SUM(total_amount) AS total_revenue FROM sales " +
			"WHERE sale_date >= DATE_TRUNC('month', CURRENT_DATE - INTERVAL '1 month') " +
			"AND sale_date < DATE_TRUNC('month', CURRENT_DATE);",
	},
	{
		name: "total_revenue",
		matches: func(q string) bool {
			return containsAny(q, "total revenue", "total sales", "sum of sales")
		},
		sql: "SELECT SUM(total_amount) AS total_revenue FROM sales;",
	},
	{
		name: "top_stores",
		matches: func(q string) bool {
			return containsAny(q, "top", "best", "highest") && strings.Contains(q, "store")
		},
		sql: "SELECT s.store_name, s.store_region, SUM(sa.total_amount) AS total_revenue " +
			"FROM sales sa JOIN stores s ON sa.store_id = s.store_id " +
			"GROUP BY s.store_name, s.store_region ORDER BY total_revenue DESC LIMIT 5;",
	},
	{
		name: "top_products",
		matches: func(q string) bool {
			return containsAny(q, "top", "best", "highest") && strings.Contains(q, "product")
		},
		sql: "SELECT p.product_name, p.product_category, SUM(s.total_amount) AS total_sales " +
			"FROM sales s JOIN products p ON s.product_id = p.product_id " +
			"GROUP BY p.product_name, p.product_category ORDER BY total_sales DESC LIMIT 10;",
	},
	{
		name: "show_sales",
		matches: func(q string) bool {
			return q == "show sales" || q == "show all sales" || q == "list sales"
		},
		sql: "SELECT * FROM sales LIMIT 20;",
	},
	{
		name: "show_products",
		matches: func(q string) bool {
			return q == "show products" || q == "show all products" || q == "list products"
		},
		sql: "SELECT * FROM products LIMIT 20;",
	},
	{
		name: "show_stores",
		matches: func(q string) bool {
			return q == "show stores" || q == "show all stores" || q == "list stores"
		},
		sql: "SELECT * FROM stores LIMIT 20;",
	},
	{
		name: "average_sale",
		matches: func(q string) bool {
			return strings.Contains(q, "average") &&
				containsAny(q, "sales", "revenue", "amount", "order value")
		},
		sql: "SELECT AVG(total_amount) AS average_sale FROM sales;",
	},
}

// MatchTemplate maps known question shapes directly to parameterized SQL,
// bypassing the model. Returns the SQL, the rule name for metadata, and
// whether anything matched.
func MatchTemplate(question string) (string, string, bool) {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, rule := range templateRules {
		if rule.matches(q) {
			return rule.sql, rule.name, true
		}
	}
	return "", "", false
}
