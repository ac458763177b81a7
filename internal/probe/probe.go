// Package probe inspects the database named in a review request. The result
// is free text destined for the reasoning prompt; a probe failure is a
// diagnostic, never a pipeline error.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultTimeout bounds one probe end to end.
const DefaultTimeout = 30 * time.Second

// Prober describes the live schema behind a connection URL.
type Prober interface {
	Describe(ctx context.Context, url string) (string, error)
}

// Postgres probes a PostgreSQL-compatible database over pgx.
type Postgres struct {
	timeout time.Duration
}

// NewPostgres creates a prober. A non-positive timeout uses DefaultTimeout.
func NewPostgres(timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Postgres{timeout: timeout}
}

// Describe connects to url and reports the server version, available
// schemas, and the tables in each user schema with their column counts.
func (p *Postgres) Describe(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	var b strings.Builder
	b.WriteString("=== CONNECTION STATUS ===\n")

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("query server version: %w", err)
	}
	fmt.Fprintf(&b, "connected: %s\n", version)

	schemas, err := p.userSchemas(ctx, conn)
	if err != nil {
		return "", err
	}
	b.WriteString("\n=== SCHEMAS ===\n")
	if len(schemas) == 0 {
		b.WriteString("no user schemas\n")
	}
	for _, s := range schemas {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString("\n=== TABLES ===\n")
	tables, err := p.tables(ctx, conn)
	if err != nil {
		return "", err
	}
	if len(tables) == 0 {
		b.WriteString("no tables\n")
	}
	for _, t := range tables {
		fmt.Fprintf(&b, "- %s.%s (%d columns)\n", t.schema, t.name, t.columns)
	}

	return b.String(), nil
}

func (p *Postgres) userSchemas(ctx context.Context, conn *pgx.Conn) ([]string, error) {
	rows, err := conn.Query(ctx,
		`SELECT schema_name FROM information_schema.schemata
		 WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		 ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		schemas = append(schemas, s)
	}
	return schemas, rows.Err()
}

type tableInfo struct {
	schema  string
	name    string
	columns int
}

func (p *Postgres) tables(ctx context.Context, conn *pgx.Conn) ([]tableInfo, error) {
	rows, err := conn.Query(ctx,
		`SELECT t.table_schema, t.table_name,
		        (SELECT COUNT(*) FROM information_schema.columns c
		         WHERE c.table_schema = t.table_schema AND c.table_name = t.table_name)
		 FROM information_schema.tables t
		 WHERE t.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		   AND t.table_type = 'BASE TABLE'
		 ORDER BY t.table_schema, t.table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []tableInfo
	for rows.Next() {
		var t tableInfo
		if err := rows.Scan(&t.schema, &t.name, &t.columns); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
