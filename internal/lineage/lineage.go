package lineage

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	fromRe = regexp.MustCompile(`(?i)FROM\s+([\w.]+)`)
	joinRe = regexp.MustCompile(`(?i)JOIN\s+([\w.]+)`)
)

// Graph maps a table to the set of tables it is observed joining against.
type Graph map[string]map[string]struct{}

// Critical is one entry in the ranked critical-table listing.
type Critical struct {
	Table  string
	Degree int
}

// Build scans query texts with a keyword heuristic, not a SQL parser.
// Every table named after FROM in a query becomes a node whose dependency set
// is all tables named after JOIN in that same query. Two unrelated JOINs in
// one query therefore both attach to the FROM table even when they actually
// chain to each other; that approximation is intentional and load-bearing for
// callers that expect it.
func Build(queries []string) Graph {
	graph := make(Graph)
	for _, q := range queries {
		joins := captures(joinRe, q)
		for _, table := range tables(q) {
			if _, ok := graph[table]; !ok {
				graph[table] = make(map[string]struct{})
			}
			for _, jt := range joins {
				graph[table][jt] = struct{}{}
			}
		}
	}
	return graph
}

// CriticalTables ranks tables by out-degree, highest first, returning at most
// top entries. Ties break alphabetically so the ranking is deterministic.
func (g Graph) CriticalTables(top int) []Critical {
	ranked := make([]Critical, 0, len(g))
	for table, deps := range g {
		ranked = append(ranked, Critical{Table: table, Degree: len(deps)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Degree != ranked[j].Degree {
			return ranked[i].Degree > ranked[j].Degree
		}
		return ranked[i].Table < ranked[j].Table
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

// Report builds the dependency graph for the queries and renders the textual
// summary embedded into the reasoning prompt.
func Report(queries []string) string {
	graph := Build(queries)

	names := make([]string, 0, len(graph))
	for t := range graph {
		names = append(names, t)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("=== TABLE DEPENDENCY GRAPH ===\n")
	for _, t := range names {
		deps := make([]string, 0, len(graph[t]))
		for d := range graph[t] {
			deps = append(deps, d)
		}
		sort.Strings(deps)
		if len(deps) == 0 {
			fmt.Fprintf(&b, "%s -> no dependencies\n", t)
		} else {
			fmt.Fprintf(&b, "%s -> %s\n", t, strings.Join(deps, ", "))
		}
	}

	critical := graph.CriticalTables(3)
	if len(critical) > 0 {
		b.WriteString("\n-- Critical tables:\n")
		for _, c := range critical {
			fmt.Fprintf(&b, "%s: %d dependencies\n", c.Table, c.Degree)
		}
	}
	return b.String()
}

// tables returns the distinct table identifiers referenced after FROM or JOIN.
func tables(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range append(captures(fromRe, query), captures(joinRe, query)...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func captures(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
