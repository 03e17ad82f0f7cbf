package pipeline

import "strings"

// quickAnswerRule maps a set of trigger phrases to a canned answer. Rules are
// evaluated in declaration order; the first phrase hit wins.
type quickAnswerRule struct {
	phrases []string
	answer  string
}

var quickAnswerRules = []quickAnswerRule{
	{
		phrases: []string{"what is sql", "what's sql", "define sql"},
		answer: "SQL (Structured Query Language) is a programming language designed for " +
			"managing and querying relational databases. It allows you to retrieve, insert, " +
			"update, and delete data from database tables.",
	},
	{
		phrases: []string{"how does sql work", "how sql works"},
		answer: "SQL works by letting you write declarative statements that describe what " +
			"data you want, rather than how to get it. The database engine interprets these " +
			"statements and executes them against the database tables.",
	},
	{
		phrases: []string{"what is database", "what's database", "define database"},
		answer: "A database is an organized collection of structured information stored " +
			"electronically. It is managed by a Database Management System (DBMS) that lets " +
			"you store, retrieve, and manipulate data efficiently.",
	},
	{
		phrases: []string{"what can i ask", "what questions", "what can you do", "help me"},
		answer: "You can ask questions about your retail data, such as:\n" +
			"- Sales analysis: \"What was the total revenue last month?\"\n" +
			"- Product insights: \"Which product category has the highest sales?\"\n" +
			"- Store performance: \"Show me the top 5 stores by revenue\"\n" +
			"- Time-based queries: \"How do weekend sales compare to weekday sales?\"\n" +
			"Questions are converted into SQL queries and executed against the warehouse.",
	},
}

// QuickAnswer returns a canned answer for meta-questions about SQL or the
// system itself, bypassing generation and execution entirely. Returns
// ("", false) when no rule matches.
func QuickAnswer(question string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(question))
	for _, rule := range quickAnswerRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.answer, true
			}
		}
	}
	return "", false
}
