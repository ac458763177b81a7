package extract

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtract_PlainObject(t *testing.T) {
	got, err := Extract(`{"a": 1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("got %q", got)
	}
}

func TestExtract_ObjectInsideProse(t *testing.T) {
	text := "Sure! Here is the result you asked for:\n\n" +
		`{"ddl": [{"statement": "CREATE INDEX idx ON t(a)"}]}` +
		"\n\nLet me know if you need anything else."
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("extracted text does not reparse: %v", err)
	}
	if _, ok := v["ddl"]; !ok {
		t.Errorf("wrong fragment extracted: %q", got)
	}
}

func TestExtract_FencedBlock(t *testing.T) {
	text := "```json\n{\"queries\": []}\n```"
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"queries": []any{}}
	var v map[string]any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("got %v, want %v", v, want)
	}
}

func TestExtract_SecondFragmentValid(t *testing.T) {
	// First fragment is malformed JSON; the valid second one wins silently.
	text := `see {this is not json} but {"ok": true} works`
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"ok": true}` {
		t.Errorf("got %q, want the second fragment", got)
	}
}

func TestExtract_Array(t *testing.T) {
	got, err := Extract(`the list: [1, 2, 3] end`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[1, 2, 3]` {
		t.Errorf("got %q", got)
	}
}

func TestExtract_ObjectPreferredOverArray(t *testing.T) {
	// Object candidates are tried before array candidates even when the
	// array closes earlier in the text.
	got, err := Extract(`[1, 2] and {"a": 1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("got %q, want object candidate first", got)
	}
}

func TestExtract_NestedBraces(t *testing.T) {
	text := `{"outer": {"inner": [1, {"deep": true}]}}`
	got, err := Extract("prefix " + text + " suffix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("got %q, want the full nested object", got)
	}
}

func TestExtract_NothingParseable(t *testing.T) {
	_, err := Extract("no structured data here at all { unbalanced")
	extErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if extErr.Raw == "" {
		t.Error("error should carry the raw text")
	}
}

func TestExtract_WholeTextLastResort(t *testing.T) {
	// No brace or bracket candidates, but the stripped text itself is JSON.
	got, err := Extract("```json\n42\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var v any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if v != float64(42) {
		t.Errorf("got %v", v)
	}
}

func TestParse_DefaultsMissingFields(t *testing.T) {
	v, err := Parse(`{"ddl": [{"statement": "CREATE TABLE t (id INT)"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	for _, key := range []string{"migrations", "queries"} {
		list, ok := obj[key].([]any)
		if !ok || len(list) != 0 {
			t.Errorf("%s should default to empty list, got %v", key, obj[key])
		}
	}
	if len(obj["ddl"].([]any)) != 1 {
		t.Errorf("existing ddl must be preserved: %v", obj["ddl"])
	}
}

func TestParse_ArrayNotNormalized(t *testing.T) {
	v, err := Parse(`[{"statement": "x"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.([]any); !ok {
		t.Errorf("array results pass through untouched, got %T", v)
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	want := map[string]any{
		"ddl":        []any{map[string]any{"statement": "CREATE TABLE t (id INT)"}},
		"migrations": []any{},
		"queries":    []any{map[string]any{"query_id": "q1", "query": "SELECT 1"}},
	}
	data, _ := json.Marshal(want)

	wrapped := "Preamble text.\n```json\n" + string(data) + "\n```\nTrailing notes."
	got, err := Extract(wrapped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(got), &v); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", v, want)
	}
}
