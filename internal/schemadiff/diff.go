package schemadiff

import (
	"fmt"
	"sort"
	"strings"
)

// Diff is the result of comparing two DDL sets. Statements are compared as
// exact strings; no whitespace or case normalization is applied.
type Diff struct {
	Added     []string
	Removed   []string
	Unchanged []string
	Breaking  []string
}

// Compare computes the set difference between the current and proposed DDL.
// A removed statement whose text contains DROP or ALTER is flagged as a
// breaking change.
func Compare(current, proposed []string) Diff {
	currentSet := toSet(current)
	proposedSet := toSet(proposed)

	var d Diff
	for stmt := range proposedSet {
		if _, ok := currentSet[stmt]; !ok {
			d.Added = append(d.Added, stmt)
		}
	}
	for stmt := range currentSet {
		if _, ok := proposedSet[stmt]; ok {
			d.Unchanged = append(d.Unchanged, stmt)
		} else {
			d.Removed = append(d.Removed, stmt)
			if strings.Contains(stmt, "DROP") || strings.Contains(stmt, "ALTER") {
				d.Breaking = append(d.Breaking, stmt)
			}
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Unchanged)
	sort.Strings(d.Breaking)
	return d
}

// Report renders the diff as the textual summary used both by the ad hoc
// comparison endpoints and by the pipeline's final validation stage.
func (d Diff) Report() string {
	var b strings.Builder
	b.WriteString("=== SCHEMA COMPARISON ===\n")
	fmt.Fprintf(&b, "Added: %d\n", len(d.Added))
	fmt.Fprintf(&b, "Removed: %d\n", len(d.Removed))
	fmt.Fprintf(&b, "Unchanged: %d\n", len(d.Unchanged))

	if len(d.Added)+len(d.Removed) > 0 {
		b.WriteString("\n-- Migrations:\n")
		for _, stmt := range d.Added {
			fmt.Fprintf(&b, "-- add\n%s\n", stmt)
		}
		for _, stmt := range d.Removed {
			fmt.Fprintf(&b, "-- remove\n%s\n", stmt)
		}
	}
	if len(d.Breaking) > 0 {
		b.WriteString("\n-- Breaking changes:\n")
		for _, stmt := range d.Breaking {
			b.WriteString(stmt + "\n")
		}
	}
	return b.String()
}

func toSet(stmts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(stmts))
	for _, s := range stmts {
		set[s] = struct{}{}
	}
	return set
}
