// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nhath/sqlstudio/internal/log"
)

// SQLiteDriver implements Driver for SQLite
type SQLiteDriver struct {
	conn
}

// Connect opens the SQLite file in params.Path
func (d *SQLiteDriver) Connect(ctx context.Context, params ConnectParams) error {
	path := params.Path
	if path == "" {
		path = params.Database
	}
	path = strings.TrimPrefix(path, "sqlite://")
	if path == "" {
		return WrapConnectionError(fmt.Errorf("sqlite needs a file path"))
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return WrapConnectionError(err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	// Apply SQLite pragmas for better performance and safety
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma foreign_keys: %w", err))
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma busy_timeout: %w", err))
	}

	d.db = db
	d.database = "main"
	log.Info(log.CatDB, "connected", "driver", SQLite, "path", filepath.Clean(path))
	return nil
}

// Type returns the driver type
func (d *SQLiteDriver) Type() DriverType {
	return SQLite
}

// ListDatabases returns the attached database names
func (d *SQLiteDriver) ListDatabases(ctx context.Context) ([]string, error) {
	return d.queryStrings(ctx, "SELECT name FROM pragma_database_list ORDER BY seq")
}

// ListTables returns user tables
func (d *SQLiteDriver) ListTables(ctx context.Context) ([]TableRef, error) {
	return d.queryTables(ctx, `
		SELECT '', name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
}

// CountRows returns the number of rows in table
func (d *SQLiteDriver) CountRows(ctx context.Context, table TableRef) (int64, error) {
	return d.countRows(ctx, d.QuoteTable(table))
}

// Columns returns column metadata for a table
func (d *SQLiteDriver) Columns(ctx context.Context, table TableRef) ([]Column, error) {
	// SQLite has no character length limits
	return d.queryColumns(ctx, `
		SELECT name, type, NULL, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END
		FROM pragma_table_info(?)
		ORDER BY cid`, table.Name)
}

// QuoteTable renders "name"
func (d *SQLiteDriver) QuoteTable(table TableRef) string {
	if table.Schema == "" {
		return quoteIdent(table.Name, `"`, `"`)
	}
	return quoteIdent(table.Schema, `"`, `"`) + "." + quoteIdent(table.Name, `"`, `"`)
}
