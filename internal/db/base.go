// internal/db/base.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nhath/sqlstudio/internal/log"
)

// readVerbs start statements that return a result grid
var readVerbs = []string{"SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH", "PRAGMA", "VALUES"}

// conn holds the state every database/sql backed driver shares
type conn struct {
	db       *sql.DB
	tunnel   *SSHTunnel
	database string
}

// Close closes the database connection and SSH tunnel
func (c *conn) Close() error {
	var dbErr error
	if c.db != nil {
		dbErr = c.db.Close()
		c.db = nil
	}

	if c.tunnel != nil {
		err := c.tunnel.Close()
		c.tunnel = nil
		if err != nil {
			if dbErr != nil {
				return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
			}
			return err
		}
	}
	return dbErr
}

// Ping checks if database is reachable
func (c *conn) Ping(ctx context.Context) error {
	if c.db == nil {
		return WrapConnectionError(ErrNotConnected)
	}
	return c.db.PingContext(ctx)
}

// Database returns the database the driver is connected to
func (c *conn) Database() string {
	return c.database
}

// Execute runs a query and returns results
func (c *conn) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, c.db, query)
}

// countRows runs COUNT(*) against an already quoted table name
func (c *conn) countRows(ctx context.Context, quoted string) (int64, error) {
	if c.db == nil {
		return 0, ErrNotConnected
	}
	var n int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoted).Scan(&n); err != nil {
		return 0, WrapQueryError(err)
	}
	return n, nil
}

// queryStrings collects the first column of every row
func (c *conn) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, WrapQueryError(err)
		}
		out = append(out, s)
	}
	return out, WrapQueryError(rows.Err())
}

// queryTables collects (schema, name) rows
func (c *conn) queryTables(ctx context.Context, query string, args ...any) ([]TableRef, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var tables []TableRef
	for rows.Next() {
		var t TableRef
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, WrapQueryError(err)
		}
		tables = append(tables, t)
	}
	return tables, WrapQueryError(rows.Err())
}

// queryColumns scans (name, type, max length, is_nullable) rows
func (c *conn) queryColumns(ctx context.Context, query string, args ...any) ([]Column, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			col      Column
			maxLen   sql.NullInt64
			nullable string
		)
		if err := rows.Scan(&col.Name, &col.Type, &maxLen, &nullable); err != nil {
			return nil, WrapQueryError(err)
		}
		if maxLen.Valid {
			n := maxLen.Int64
			col.MaxLength = &n
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		columns = append(columns, col)
	}
	return columns, WrapQueryError(rows.Err())
}

// configurePool applies the pool limits used by every network driver
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// IsReadQuery reports whether query returns rows rather than modifying data.
// Leading comments and parentheses are skipped.
func IsReadQuery(query string) bool {
	verb := strings.ToUpper(firstWord(query))
	for _, v := range readVerbs {
		if verb == v {
			return true
		}
	}
	return false
}

func firstWord(query string) string {
	s := query
	for {
		s = strings.TrimLeft(s, " \t\r\n(")
		switch {
		case strings.HasPrefix(s, "--"):
			nl := strings.IndexByte(s, '\n')
			if nl < 0 {
				return ""
			}
			s = s[nl+1:]
		case strings.HasPrefix(s, "/*"):
			end := strings.Index(s, "*/")
			if end < 0 {
				return ""
			}
			s = s[end+2:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
			})
			if end < 0 {
				return s
			}
			return s[:end]
		}
	}
}

// executeQuery executes a query and returns results
func executeQuery(ctx context.Context, db *sql.DB, query string) (*QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if db == nil {
		return nil, ErrNotConnected
	}

	start := time.Now()
	if IsReadQuery(query) {
		return executeSelect(ctx, db, query, start)
	}
	return executeInTx(ctx, db, query, start)
}

// executeSelect executes a SELECT query
func executeSelect(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapQueryError(err)
	}
	results := [][]string{}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, WrapQueryError(err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     results,
		ExecTime: time.Since(start),
		RowCount: len(results),
		IsSelect: true,
	}, nil
}

// executeInTx runs a modifying statement in its own transaction,
// committing on success and rolling back on any failure
func executeInTx(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, WrapQueryError(err)
	}

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.ErrorErr(log.CatDB, "rollback failed", rbErr)
		}
		return nil, WrapQueryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, WrapQueryError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		affected = -1
	}
	return &QueryResult{
		ExecTime:     time.Since(start),
		IsSelect:     false,
		AffectedRows: affected,
	}, nil
}

// formatValue converts a scanned value to string for display
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quoteIdent doubles the closing quote character inside an identifier
func quoteIdent(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}
