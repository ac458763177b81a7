package prompt

import (
	"strings"
	"testing"
)

func TestRender_SimpleVars(t *testing.T) {
	tmpl := "Connection: {{url}}, queries: {{queries}}."
	result, err := Render(tmpl, Vars{"url": "postgres://db", "queries": "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Connection: postgres://db, queries: 2." {
		t.Errorf("got %q", result)
	}
}

func TestRender_MissingVars(t *testing.T) {
	_, err := Render("{{a}} then {{b}}", Vars{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "b") {
		t.Errorf("error should name all missing vars: %v", err)
	}
}

func TestRender_ConditionalPresent(t *testing.T) {
	tmpl := "base{{#if schema_info}}\nSCHEMA: {{schema_info}}{{/if}}"
	result, err := Render(tmpl, Vars{"schema_info": "3 tables"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "SCHEMA: 3 tables") {
		t.Errorf("conditional body should render: %q", result)
	}
}

func TestRender_ConditionalAbsentOrEmpty(t *testing.T) {
	tmpl := "base{{#if schema_info}} SCHEMA {{/if}}end"
	for _, vars := range []Vars{{}, {"schema_info": ""}} {
		result, err := Render(tmpl, vars)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "baseend" {
			t.Errorf("got %q, want conditional dropped", result)
		}
	}
}

func TestRender_NestedConditionals(t *testing.T) {
	tmpl := "{{#if outer}}O{{#if inner}}I{{/if}}{{/if}}"
	result, err := Render(tmpl, Vars{"outer": "x", "inner": "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "OI" {
		t.Errorf("got %q", result)
	}

	result, err = Render(tmpl, Vars{"outer": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "O" {
		t.Errorf("got %q", result)
	}
}

func TestRender_DanglingClose(t *testing.T) {
	if _, err := Render("text {{/if}}", Vars{}); err == nil {
		t.Error("expected error for dangling close tag")
	}
}

func TestRender_UnclosedOpen(t *testing.T) {
	if _, err := Render("{{#if a}} never closed", Vars{"a": "x"}); err == nil {
		t.Error("expected error for unclosed conditional")
	}
}

func TestRender_LiteralBracesSurvive(t *testing.T) {
	tmpl := `format: {"statement": "DDL"} for {{url}}`
	result, err := Render(tmpl, Vars{"url": "db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, `{"statement": "DDL"}`) {
		t.Errorf("single braces must pass through: %q", result)
	}
}

func TestBuiltins_Render(t *testing.T) {
	rendered, err := Render(builtins[KeySchemaAnalysis], Vars{
		"url":                  "postgres://db",
		"ddl_statements":       "CREATE TABLE t (id INT)",
		"queries":              "Query ID: q1",
		"schema_info":          "",
		"performance_analysis": "perf report",
		"data_lineage":         "",
		"extra_context":        "yes",
	})
	if err != nil {
		t.Fatalf("builtin template must render: %v", err)
	}
	if !strings.Contains(rendered, "PERFORMANCE ANALYSIS:\nperf report") {
		t.Errorf("present section missing:\n%s", rendered)
	}
	if strings.Contains(rendered, "LIVE SCHEMA INFORMATION") {
		t.Errorf("absent section should be dropped:\n%s", rendered)
	}
}
