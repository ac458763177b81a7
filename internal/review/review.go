// Package review runs a schema review end to end: validate the request,
// gather heuristic analyses, compose a prompt, call the reasoning provider
// once, and turn its reply into a structured result.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schemalens/schemalens/internal/extract"
	"github.com/schemalens/schemalens/internal/lineage"
	"github.com/schemalens/schemalens/internal/perf"
	"github.com/schemalens/schemalens/internal/probe"
	"github.com/schemalens/schemalens/internal/prompt"
	"github.com/schemalens/schemalens/internal/provider"
	"github.com/schemalens/schemalens/internal/schemadiff"
	"github.com/schemalens/schemalens/internal/session"
	"github.com/schemalens/schemalens/internal/validate"
)

// Pipeline stage names, as recorded in the review event log.
const (
	StageValidate    = "validate"
	StageProbeSchema = "probe_schema"
	StagePerformance = "analyze_performance"
	StageLineage     = "analyze_lineage"
	StageCompose     = "compose_prompt"
	StageInvoke      = "call_llm"
	StageParse       = "parse_response"
	StageFinalize    = "validate_changes"
)

// EventLog records stage transitions for later inspection. Logging is best
// effort; a failed write never affects the review.
type EventLog interface {
	LogReviewEvent(threadID, stage, outcome, detail string) error
}

// Statement is one DDL or migration command in a result.
type Statement struct {
	Statement string `json:"statement"`
}

// QueryRewrite is an optimized replacement for one input query.
type QueryRewrite struct {
	QueryID string `json:"query_id"`
	Query   string `json:"query"`
}

// Result is the structured outcome of a review.
type Result struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Error      string         `json:"error,omitempty"`
	DDL        []Statement    `json:"ddl"`
	Migrations []Statement    `json:"migrations"`
	Queries    []QueryRewrite `json:"queries"`
	Warnings   []string       `json:"warnings"`
}

// State is the mutable record threaded through the pipeline stages.
type State struct {
	URL      string
	ThreadID string
	DDL      []validate.DDLStatement
	Queries  []validate.Query

	SchemaInfo          string
	PerformanceAnalysis string
	DataLineage         string

	Prompt       string
	History      []session.Turn
	ResponseText string

	Result     *Result
	SchemaDiff string
	Warnings   []string
}

// Pipeline wires the review collaborators together. Construct once, reuse
// across requests.
type Pipeline struct {
	provider provider.Provider
	prompts  *prompt.Store
	sessions *session.Manager
	prober   probe.Prober
	events   EventLog
}

// NewPipeline creates a Pipeline. prober and events may be nil; the schema
// probe is then skipped and events are not recorded.
func NewPipeline(
	p provider.Provider,
	prompts *prompt.Store,
	sessions *session.Manager,
	prober probe.Prober,
	events EventLog,
) *Pipeline {
	return &Pipeline{
		provider: p,
		prompts:  prompts,
		sessions: sessions,
		prober:   prober,
		events:   events,
	}
}

// Review runs the full pipeline for one raw request payload. Validation,
// provider, and extraction failures are returned as their typed errors;
// analyzer and probe failures degrade to diagnostics inside the result.
func (p *Pipeline) Review(ctx context.Context, payload map[string]any) (*Result, error) {
	state := &State{}

	if err := p.validateInput(state, payload); err != nil {
		return nil, err
	}
	p.probeSchema(ctx, state)
	p.analyzePerformance(state)
	p.analyzeLineage(state)
	if err := p.composePrompt(state); err != nil {
		return nil, err
	}
	if err := p.invokeProvider(ctx, state); err != nil {
		return nil, err
	}
	if err := p.parseResponse(state); err != nil {
		return nil, err
	}
	p.validateChanges(state)

	return state.Result, nil
}

func (p *Pipeline) validateInput(state *State, payload map[string]any) error {
	in, err := validate.Parse(payload)
	if err != nil {
		p.log("", StageValidate, "error", err.Error())
		return err
	}
	state.URL = in.URL
	state.ThreadID = in.ThreadID
	state.DDL = in.DDL
	state.Queries = in.Queries
	state.Warnings = append(state.Warnings, in.Warnings...)
	p.log(state.ThreadID, StageValidate, "ok", "")
	return nil
}

// probeSchema inspects the target database. A failure leaves a diagnostic in
// the state and the review continues without live schema information.
func (p *Pipeline) probeSchema(ctx context.Context, state *State) {
	if p.prober == nil {
		return
	}
	info, err := p.prober.Describe(ctx, state.URL)
	if err != nil {
		state.SchemaInfo = fmt.Sprintf("schema probe unavailable: %v", err)
		p.log(state.ThreadID, StageProbeSchema, "degraded", err.Error())
		return
	}
	state.SchemaInfo = info
	p.log(state.ThreadID, StageProbeSchema, "ok", "")
}

func (p *Pipeline) analyzePerformance(state *State) {
	state.PerformanceAnalysis = perf.Report(state.Queries)
	p.log(state.ThreadID, StagePerformance, "ok", "")
}

func (p *Pipeline) analyzeLineage(state *State) {
	texts := make([]string, 0, len(state.Queries))
	for _, q := range state.Queries {
		texts = append(texts, q.Query)
	}
	state.DataLineage = lineage.Report(texts)
	p.log(state.ThreadID, StageLineage, "ok", "")
}

func (p *Pipeline) composePrompt(state *State) error {
	rendered, err := p.prompts.Format(prompt.KeySchemaAnalysis, prompt.Vars{
		"url":                  state.URL,
		"ddl_statements":       formatDDL(state.DDL),
		"queries":              formatQueries(state.Queries),
		"schema_info":          state.SchemaInfo,
		"performance_analysis": state.PerformanceAnalysis,
		"data_lineage":         state.DataLineage,
		"extra_context":        "",
	})
	if err != nil {
		p.log(state.ThreadID, StageCompose, "error", err.Error())
		return fmt.Errorf("compose prompt: %w", err)
	}
	state.Prompt = rendered
	p.log(state.ThreadID, StageCompose, "ok", "")
	return nil
}

// invokeProvider makes the single reasoning call: system prompt, prior turns
// of the thread, then the composed prompt. On success the exchange is
// appended to the thread history and checkpointed.
func (p *Pipeline) invokeProvider(ctx context.Context, state *State) error {
	system, err := p.prompts.Get(prompt.KeySystemReviewer)
	if err != nil {
		p.log(state.ThreadID, StageInvoke, "error", err.Error())
		return fmt.Errorf("load system prompt: %w", err)
	}

	state.History = p.sessions.Load(state.ThreadID)

	messages := make([]provider.Message, 0, len(state.History)+2)
	messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: system})
	for _, turn := range state.History {
		messages = append(messages, provider.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: state.Prompt})

	response, err := p.provider.Invoke(ctx, messages)
	if err != nil {
		p.log(state.ThreadID, StageInvoke, "error", err.Error())
		var pErr *provider.Error
		if errors.As(err, &pErr) {
			return err
		}
		return &provider.Error{Err: err}
	}
	state.ResponseText = response
	state.History = p.sessions.Record(state.ThreadID, state.History, state.Prompt, response)
	p.log(state.ThreadID, StageInvoke, "ok", "")
	return nil
}

func (p *Pipeline) parseResponse(state *State) error {
	parsed, err := extract.Parse(state.ResponseText)
	if err != nil {
		p.log(state.ThreadID, StageParse, "error", err.Error())
		return err
	}

	result := &Result{
		Success:    true,
		Message:    "schema review completed",
		DDL:        []Statement{},
		Migrations: []Statement{},
		Queries:    []QueryRewrite{},
		Warnings:   state.Warnings,
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		// Arrays and scalars carry no recommendations; the raw reply is
		// preserved as a warning.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("response was not a JSON object: %s", state.ResponseText))
		state.Result = result
		p.log(state.ThreadID, StageParse, "degraded", "non-object response")
		return nil
	}

	result.DDL = toStatements(obj["ddl"])
	result.Migrations = toStatements(obj["migrations"])

	known := make(map[string]bool, len(state.Queries))
	for _, q := range state.Queries {
		known[q.QueryID] = true
	}
	rewrites, dropped := toRewrites(obj["queries"], known)
	result.Queries = rewrites
	result.Warnings = append(result.Warnings, dropped...)

	state.Result = result
	p.log(state.ThreadID, StageParse, "ok", "")
	return nil
}

// validateChanges diffs the proposed DDL against the input schema. Breaking
// removals become warnings; this stage never fails the review.
func (p *Pipeline) validateChanges(state *State) {
	current := make([]string, 0, len(state.DDL))
	for _, d := range state.DDL {
		current = append(current, d.Statement)
	}
	proposed := make([]string, 0, len(state.Result.DDL))
	for _, d := range state.Result.DDL {
		proposed = append(proposed, d.Statement)
	}

	diff := schemadiff.Compare(current, proposed)
	state.SchemaDiff = diff.Report()
	for _, stmt := range diff.Breaking {
		state.Result.Warnings = append(state.Result.Warnings,
			fmt.Sprintf("breaking change in proposed schema: %s", stmt))
	}
	p.log(state.ThreadID, StageFinalize, "ok", "")
}

func (p *Pipeline) log(threadID, stage, outcome, detail string) {
	if p.events == nil {
		return
	}
	_ = p.events.LogReviewEvent(threadID, stage, outcome, detail)
}

func formatDDL(ddl []validate.DDLStatement) string {
	var b strings.Builder
	for _, d := range ddl {
		b.WriteString(d.Statement)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatQueries(queries []validate.Query) string {
	var b strings.Builder
	for i, q := range queries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Query ID: %s\nRuns: %d, average execution time: %d ms\n%s\n",
			q.QueryID, q.RunQuantity, q.ExecutionTime, q.Query)
	}
	return strings.TrimRight(b.String(), "\n")
}

// toStatements accepts both bare strings and {statement} objects, matching
// the leniency of request parsing.
func toStatements(v any) []Statement {
	items, ok := v.([]any)
	if !ok {
		return []Statement{}
	}
	stmts := make([]Statement, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				stmts = append(stmts, Statement{Statement: s})
			}
		case map[string]any:
			if text, ok := s["statement"].(string); ok && strings.TrimSpace(text) != "" {
				stmts = append(stmts, Statement{Statement: text})
			}
		}
	}
	return stmts
}

// toRewrites keeps only rewrites whose query_id was present in the request;
// anything else becomes a warning.
func toRewrites(v any, known map[string]bool) ([]QueryRewrite, []string) {
	items, ok := v.([]any)
	if !ok {
		return []QueryRewrite{}, nil
	}
	rewrites := make([]QueryRewrite, 0, len(items))
	var warnings []string
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := obj["query_id"].(string)
		text, _ := obj["query"].(string)
		if id == "" || strings.TrimSpace(text) == "" {
			continue
		}
		if !known[id] {
			warnings = append(warnings, fmt.Sprintf("discarded rewrite for unknown query_id: %s", id))
			continue
		}
		rewrites = append(rewrites, QueryRewrite{QueryID: id, Query: text})
	}
	return rewrites, warnings
}
