// Package store is the query gateway to the company database. Every
// statement is parameterized; arguments never become part of the SQL text.
package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/soypete/employee-tracker/pkg/apperror"
)

// Statement is a named SQL template with $n placeholders.
type Statement struct {
	Name string
	SQL  string
}

// Row maps column name to value. NULL is nil.
type Row map[string]any

// ResultSet holds the rows of a read statement in result order.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (rs ResultSet) Len() int {
	return len(rs.Rows)
}

// Gateway executes statements against the single store connection.
type Gateway struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// NewGateway creates a gateway over db.
func NewGateway(db *sqlx.DB, log zerolog.Logger) *Gateway {
	return &Gateway{db: db, log: log}
}

// Query runs a read statement and returns every row.
func (g *Gateway) Query(ctx context.Context, st Statement, args ...any) (ResultSet, error) {
	start := time.Now()
	defer g.trace(st, len(args), start)

	rows, err := g.db.QueryxContext(ctx, st.SQL, args...)
	if err != nil {
		return ResultSet{}, apperror.FromPostgres(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return ResultSet{}, apperror.FromPostgres(err)
	}

	rs := ResultSet{Columns: columns, Rows: []Row{}}
	for rows.Next() {
		m := make(map[string]any, len(columns))
		if err := rows.MapScan(m); err != nil {
			return ResultSet{}, apperror.FromPostgres(err)
		}
		for k, v := range m {
			// lib/pq hands NUMERIC and text back as bytes.
			if b, ok := v.([]byte); ok {
				m[k] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, Row(m))
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, apperror.FromPostgres(err)
	}

	return rs, nil
}

// Exec runs a write statement and returns the number of affected rows.
func (g *Gateway) Exec(ctx context.Context, st Statement, args ...any) (int64, error) {
	start := time.Now()
	defer g.trace(st, len(args), start)

	res, err := g.db.ExecContext(ctx, st.SQL, args...)
	if err != nil {
		return 0, apperror.FromPostgres(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperror.FromPostgres(err)
	}
	return n, nil
}

// Exists runs a statement selecting a single boolean.
func (g *Gateway) Exists(ctx context.Context, st Statement, args ...any) (bool, error) {
	start := time.Now()
	defer g.trace(st, len(args), start)

	var exists bool
	if err := g.db.GetContext(ctx, &exists, st.SQL, args...); err != nil {
		return false, apperror.FromPostgres(err)
	}
	return exists, nil
}

func (g *Gateway) trace(st Statement, nargs int, start time.Time) {
	g.log.Debug().
		Str("statement", st.Name).
		Int("args", nargs).
		Dur("took", time.Since(start)).
		Msg("query")
}
