package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "schemalens version 1.2.3") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"two statements", "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);", []string{
			"CREATE TABLE a (id INT)",
			"CREATE TABLE b (id INT)",
		}},
		{"no trailing semicolon", "CREATE TABLE a (id INT)", []string{"CREATE TABLE a (id INT)"}},
		{"blank fragments dropped", ";;\n ;CREATE TABLE a (id INT);", []string{"CREATE TABLE a (id INT)"}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitStatements(tt.sql)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("stmt %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
