package prompt

// Builtin template keys.
const (
	KeySystemReviewer = "system_reviewer"
	KeySchemaAnalysis = "schema_analysis"
)

// builtins maps prompt keys to their compiled-in templates. The store falls
// back to these whenever the cache has no override.
var builtins = map[string]string{
	KeySystemReviewer: systemReviewerTemplate,
	KeySchemaAnalysis: schemaAnalysisTemplate,
}

const systemReviewerTemplate = `You are an expert reviewer of database schemas and SQL queries.
Your answer must be strictly JSON — NOTHING besides valid JSON.`

const schemaAnalysisTemplate = `Task: analyze and optimize a database schema.

Input:
- Connection string: {{url}}
- Schema DDL:
{{ddl_statements}}
- SQL queries with metrics:
{{queries}}

Context:
You are an expert in data schema optimization for distributed SQL engines.
You are given the current schema and the SQL workload with performance metrics.

Query metrics:
- run_quantity: how many times the query executes
- execution_time: average execution time in milliseconds

Analysis steps:
1) Study the DDL and understand the data structures
2) Examine the SQL queries and how often they run
3) Identify performance bottlenecks from the metrics
4) Decide where indexes, partitioning, or denormalization would help
5) Account for columnar storage, distributed execution, and predicate pushdown

Optimization options:
- Materialized views for frequent queries
- Partitioning tables on columns commonly used in WHERE
- Denormalization for queries with high execution time
- Composite indexes for JOIN columns
- Indexes for filter columns

Response format (strict JSON):
{
  "ddl": [{"statement": "DDL command"}],
  "migrations": [{"statement": "data migration"}],
  "queries": [{"query_id": "ID", "query": "optimized query"}]
}

Requirements:
- Return empty arrays when no optimization is needed
- Keep the query_id values from the input
- Use fully qualified names: catalog.schema.table
- If a schema must be created, make it the first DDL command
- Only valid JSON, no comments
{{#if schema_info}}

LIVE SCHEMA INFORMATION FROM THE DATABASE:
{{schema_info}}
{{/if}}
{{#if performance_analysis}}

PERFORMANCE ANALYSIS:
{{performance_analysis}}
{{/if}}
{{#if data_lineage}}

DATA LINEAGE ANALYSIS:
{{data_lineage}}
{{/if}}
{{#if extra_context}}

ADDITIONAL CONTEXT:
{{extra_context}}
Use this additional information to sharpen the recommendations.
{{/if}}`
