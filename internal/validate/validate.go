package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DDLStatement is a single schema definition statement from the request.
type DDLStatement struct {
	Statement string `json:"statement"`
}

// Query is one workload query with its observed runtime metrics.
type Query struct {
	QueryID       string `json:"query_id"`
	Query         string `json:"query"`
	RunQuantity   int    `json:"run_quantity"`
	ExecutionTime int    `json:"execution_time"`
}

// Input is a fully parsed and validated review request.
type Input struct {
	URL      string
	ThreadID string
	DDL      []DDLStatement
	Queries  []Query
	Warnings []string
}

// Error carries every problem discovered in a request, plus any non-fatal
// warnings accumulated before validation failed.
type Error struct {
	Problems []string
	Warnings []string
}

func (e *Error) Error() string {
	return "invalid review request: " + strings.Join(e.Problems, "; ")
}

// Parse validates a raw request payload and returns typed input.
// It collects all structural problems (missing keys, wrong types, malformed
// elements) before reporting, rather than stopping at the first. Once the
// shape is sound it applies semantic rules: non-empty DDL with non-blank
// statements, non-empty queries with unique non-blank query_ids. Negative
// run_quantity or execution_time values produce warnings, never errors.
func Parse(payload map[string]any) (*Input, error) {
	in := &Input{}
	var problems []string

	rawURL, ok := payload["url"]
	if !ok {
		problems = append(problems, "missing required key: url")
	} else if s, ok := rawURL.(string); !ok {
		problems = append(problems, fmt.Sprintf("url must be a string, got %T", rawURL))
	} else {
		in.URL = s
	}

	if raw, ok := payload["thread_id"]; ok {
		if s, ok := raw.(string); ok {
			in.ThreadID = s
		} else {
			problems = append(problems, fmt.Sprintf("thread_id must be a string, got %T", raw))
		}
	}

	problems = append(problems, parseDDL(payload, in)...)
	problems = append(problems, parseQueries(payload, in)...)

	if len(problems) > 0 {
		return nil, &Error{Problems: problems, Warnings: in.Warnings}
	}

	if problems := semantic(in); len(problems) > 0 {
		return nil, &Error{Problems: problems, Warnings: in.Warnings}
	}
	return in, nil
}

// ParseJSON decodes a JSON request body and validates it with Parse.
func ParseJSON(data []byte) (*Input, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &Error{Problems: []string{fmt.Sprintf("request body is not a JSON object: %v", err)}}
	}
	return Parse(payload)
}

// parseDDL extracts ddl entries, which may be plain strings or
// {statement: "..."} objects.
func parseDDL(payload map[string]any, in *Input) []string {
	var problems []string

	raw, ok := payload["ddl"]
	if !ok {
		return []string{"missing required key: ddl"}
	}
	list, ok := raw.([]any)
	if !ok {
		return []string{fmt.Sprintf("ddl must be a list, got %T", raw)}
	}

	for i, item := range list {
		switch v := item.(type) {
		case string:
			in.DDL = append(in.DDL, DDLStatement{Statement: v})
		case map[string]any:
			stmt, ok := v["statement"].(string)
			if !ok {
				problems = append(problems, fmt.Sprintf("ddl[%d] object must have a string 'statement' field", i))
				continue
			}
			in.DDL = append(in.DDL, DDLStatement{Statement: stmt})
		default:
			problems = append(problems, fmt.Sprintf("ddl[%d] must be a string or an object with 'statement', got %T", i, item))
		}
	}
	return problems
}

// parseQueries extracts query entries with their metrics, coercing numeric
// fields from whatever representation JSON decoding produced.
func parseQueries(payload map[string]any, in *Input) []string {
	var problems []string

	raw, ok := payload["queries"]
	if !ok {
		return []string{"missing required key: queries"}
	}
	list, ok := raw.([]any)
	if !ok {
		return []string{fmt.Sprintf("queries must be a list, got %T", raw)}
	}

	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("queries[%d] must be an object, got %T", i, item))
			continue
		}

		var q Query
		bad := false
		if s, ok := obj["query_id"].(string); ok {
			q.QueryID = s
		} else {
			problems = append(problems, fmt.Sprintf("queries[%d] must have a string 'query_id' field", i))
			bad = true
		}
		if s, ok := obj["query"].(string); ok {
			q.Query = s
		} else {
			problems = append(problems, fmt.Sprintf("queries[%d] must have a string 'query' field", i))
			bad = true
		}

		for _, field := range []struct {
			key string
			dst *int
		}{
			{"run_quantity", &q.RunQuantity},
			{"execution_time", &q.ExecutionTime},
		} {
			val, ok := obj[field.key]
			if !ok {
				problems = append(problems, fmt.Sprintf("queries[%d] missing required field %q", i, field.key))
				bad = true
				continue
			}
			n, err := coerceInt(val)
			if err != nil {
				problems = append(problems, fmt.Sprintf("queries[%d].%s: %v", i, field.key, err))
				bad = true
				continue
			}
			*field.dst = n
		}

		if !bad {
			in.Queries = append(in.Queries, q)
		}
	}
	return problems
}

// semantic applies content rules after structural parsing has succeeded.
func semantic(in *Input) []string {
	var problems []string

	if in.URL == "" {
		problems = append(problems, "url must not be empty")
	}
	if len(in.DDL) == 0 {
		problems = append(problems, "ddl statements list cannot be empty")
	}
	for i, stmt := range in.DDL {
		if strings.TrimSpace(stmt.Statement) == "" {
			problems = append(problems, fmt.Sprintf("ddl statement %d cannot be blank", i))
		}
	}

	if len(in.Queries) == 0 {
		problems = append(problems, "queries list cannot be empty")
	}
	seen := make(map[string]bool)
	for i, q := range in.Queries {
		if strings.TrimSpace(q.QueryID) == "" {
			problems = append(problems, fmt.Sprintf("query %d must have a non-blank query_id", i))
		} else if seen[q.QueryID] {
			problems = append(problems, fmt.Sprintf("duplicate query_id: %s", q.QueryID))
		}
		seen[q.QueryID] = true

		if strings.TrimSpace(q.Query) == "" {
			problems = append(problems, fmt.Sprintf("query %d must have a non-blank query text", i))
		}
		if q.RunQuantity < 0 {
			in.Warnings = append(in.Warnings, fmt.Sprintf("query %s has negative run_quantity", q.QueryID))
		}
		if q.ExecutionTime < 0 {
			in.Warnings = append(in.Warnings, fmt.Sprintf("query %s has negative execution_time", q.QueryID))
		}
	}
	return problems
}

// coerceInt converts the decoded JSON value to an int. Numeric strings are
// accepted because some callers serialize metrics as text.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n.String())
		}
		return int(f), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}
