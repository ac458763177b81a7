package perf

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/schemalens/schemalens/internal/validate"
)

// QueryMetrics is the derived per-query record used for ranking.
type QueryMetrics struct {
	QueryID       string
	Query         string
	ExecutionTime int
	RunQuantity   int
	TotalTime     int64
	PriorityScore float64
}

// Recommendation is one schema-level optimization suggestion for a query.
type Recommendation struct {
	QueryID        string
	IssueType      string
	Description    string
	Recommendation string
	Impact         string // "high" or "medium"
}

var (
	joinRe      = regexp.MustCompile(`\b(?:INNER|LEFT|RIGHT|OUTER)?\s*JOIN\b`)
	whereFuncRe = regexp.MustCompile(`WHERE.*\b(?:UPPER|LOWER|SUBSTRING|CONCAT)\s*\(`)
	subSelectRe = regexp.MustCompile(`SELECT.*\(\s*SELECT`)
	aggregateRe = regexp.MustCompile(`\b(?:COUNT|SUM|AVG|MAX|MIN)\s*\(.*\)`)
)

// PriorityScore ranks a query for optimization attention.
// The sub-linear exponent on run_quantity keeps extremely frequent queries
// from drowning out genuinely slow ones; values at or below zero score zero.
func PriorityScore(executionTime, runQuantity int) float64 {
	if executionTime <= 0 || runQuantity <= 0 {
		return 0
	}
	return float64(executionTime) * math.Pow(float64(runQuantity), 0.7) / 1000
}

// DetectIssues scans query text for known performance anti-patterns.
func DetectIssues(query string) []string {
	var issues []string
	upper := strings.ToUpper(query)

	if strings.Contains(upper, "SELECT") && !strings.Contains(upper, "WHERE") && !strings.Contains(upper, "LIMIT") {
		issues = append(issues, "full_table_scan")
	}
	if len(joinRe.FindAllString(upper, -1)) >= 3 {
		issues = append(issues, "complex_joins")
	}
	if whereFuncRe.MatchString(upper) {
		issues = append(issues, "functions_in_where")
	}
	if subSelectRe.MatchString(upper) {
		issues = append(issues, "subquery_in_select")
	}
	if strings.Contains(upper, "DISTINCT") && !strings.Contains(upper, "ORDER BY") {
		issues = append(issues, "unordered_distinct")
	}
	if aggregateRe.MatchString(upper) && !strings.Contains(upper, "GROUP BY") {
		issues = append(issues, "aggregation_without_grouping")
	}
	return issues
}

// Metrics computes derived metrics for each query and returns them sorted by
// priority score, highest first. Sorting is stable so input order breaks ties.
func Metrics(queries []validate.Query) []QueryMetrics {
	out := make([]QueryMetrics, 0, len(queries))
	for _, q := range queries {
		out = append(out, QueryMetrics{
			QueryID:       q.QueryID,
			Query:         q.Query,
			ExecutionTime: q.ExecutionTime,
			RunQuantity:   q.RunQuantity,
			TotalTime:     int64(q.ExecutionTime) * int64(q.RunQuantity),
			PriorityScore: PriorityScore(q.ExecutionTime, q.RunQuantity),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out
}

// Recommend produces every recommendation that applies to a query: the metric
// thresholds fire independently of each other and of the detected issues.
// unordered_distinct and aggregation_without_grouping are detected but carry
// no recommendation.
func Recommend(m QueryMetrics, issues []string) []Recommendation {
	var recs []Recommendation

	if m.ExecutionTime > 5000 {
		recs = append(recs, Recommendation{
			QueryID:        m.QueryID,
			IssueType:      "slow_execution",
			Description:    fmt.Sprintf("query takes %dms, which is very slow", m.ExecutionTime),
			Recommendation: "create indexes on the columns used in WHERE and JOIN clauses without changing the query result",
			Impact:         "high",
		})
	} else if m.ExecutionTime > 1000 {
		recs = append(recs, Recommendation{
			QueryID:        m.QueryID,
			IssueType:      "moderate_execution",
			Description:    fmt.Sprintf("query takes %dms", m.ExecutionTime),
			Recommendation: "add indexes on filter and join columns to speed it up without changing the result",
			Impact:         "medium",
		})
	}

	if m.RunQuantity > 10000 {
		recs = append(recs, Recommendation{
			QueryID:        m.QueryID,
			IssueType:      "high_frequency",
			Description:    fmt.Sprintf("query runs %d times", m.RunQuantity),
			Recommendation: "create a materialized view with an identical result structure",
			Impact:         "high",
		})
	}

	for _, issue := range issues {
		switch issue {
		case "full_table_scan":
			recs = append(recs, Recommendation{
				QueryID:        m.QueryID,
				IssueType:      issue,
				Description:    "query performs a full table scan",
				Recommendation: "create indexes on the filtered columns without changing query logic",
				Impact:         "high",
			})
		case "complex_joins":
			recs = append(recs, Recommendation{
				QueryID:        m.QueryID,
				IssueType:      issue,
				Description:    "query contains multiple JOIN operations",
				Recommendation: "create composite indexes on the JOIN columns or partition the tables",
				Impact:         "high",
			})
		case "functions_in_where":
			recs = append(recs, Recommendation{
				QueryID:        m.QueryID,
				IssueType:      issue,
				Description:    "functions in WHERE prevent index usage",
				Recommendation: "create functional indexes for the expressions used in WHERE",
				Impact:         "medium",
			})
		case "subquery_in_select":
			recs = append(recs, Recommendation{
				QueryID:        m.QueryID,
				IssueType:      issue,
				Description:    "subqueries in SELECT may execute per row",
				Recommendation: "create a materialized view or indexes covering the subqueries",
				Impact:         "medium",
			})
		}
	}
	return recs
}

// Report runs the full performance analysis and renders the textual summary
// that is embedded into the reasoning prompt: the top five queries by
// priority, aggregate workload statistics, and recommendations grouped by
// impact. All recommendations target the schema only; query text and results
// must remain identical.
func Report(queries []validate.Query) string {
	metrics := Metrics(queries)

	var all []Recommendation
	for _, m := range metrics {
		all = append(all, Recommend(m, DetectIssues(m.Query))...)
	}

	var b strings.Builder
	b.WriteString("=== SQL QUERY PERFORMANCE ANALYSIS ===\n\n")
	b.WriteString("IMPORTANT: only the database schema may change, never the SQL queries.\n")
	b.WriteString("Query results (columns, rows) must stay identical.\n\n")

	b.WriteString("TOP 5 QUERIES BY OPTIMIZATION PRIORITY:\n")
	top := metrics
	if len(top) > 5 {
		top = top[:5]
	}
	for i, m := range top {
		fmt.Fprintf(&b, "%d. Query ID: %s\n", i+1, m.QueryID)
		fmt.Fprintf(&b, "   Execution time: %dms\n", m.ExecutionTime)
		fmt.Fprintf(&b, "   Run quantity: %d\n", m.RunQuantity)
		fmt.Fprintf(&b, "   Total time: %dms\n", m.TotalTime)
		fmt.Fprintf(&b, "   Priority score: %.2f\n", m.PriorityScore)
	}

	slow := 0
	frequent := 0
	for _, m := range metrics {
		if m.ExecutionTime > 1000 {
			slow++
		}
		if m.RunQuantity > 1000 {
			frequent++
		}
	}
	b.WriteString("\nOVERALL STATISTICS:\n")
	fmt.Fprintf(&b, "- Total queries: %d\n", len(metrics))
	fmt.Fprintf(&b, "- Slow queries (>1000ms): %d\n", slow)
	fmt.Fprintf(&b, "- Frequent queries (>1000 runs): %d\n", frequent)

	if len(all) == 0 {
		b.WriteString("\nAll queries look healthy.\n")
	} else {
		b.WriteString("\nSCHEMA OPTIMIZATION RECOMMENDATIONS (NO QUERY CHANGES):\n")
		var high, medium []Recommendation
		for _, r := range all {
			if r.Impact == "high" {
				high = append(high, r)
			} else {
				medium = append(medium, r)
			}
		}
		if len(high) > 0 {
			fmt.Fprintf(&b, "\nHIGH IMPACT (%d):\n", len(high))
			for _, r := range capRecs(high, 10) {
				fmt.Fprintf(&b, "- %s: %s\n", r.QueryID, r.Description)
				fmt.Fprintf(&b, "  Schema change: %s\n", r.Recommendation)
			}
		}
		if len(medium) > 0 {
			fmt.Fprintf(&b, "\nMEDIUM IMPACT (%d):\n", len(medium))
			for _, r := range capRecs(medium, 5) {
				fmt.Fprintf(&b, "- %s: %s\n", r.QueryID, r.Description)
				fmt.Fprintf(&b, "  Schema change: %s\n", r.Recommendation)
			}
		}
	}

	b.WriteString("\nPRINCIPLE: every recommendation changes the schema only\n")
	b.WriteString("(indexes, partitions, materialized views), never the SQL queries.\n")
	return b.String()
}

func capRecs(recs []Recommendation, n int) []Recommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
