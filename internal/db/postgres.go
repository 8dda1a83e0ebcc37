// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/nhath/sqlstudio/internal/log"
)

// PostgresDriver implements Driver for PostgreSQL
type PostgresDriver struct {
	conn
}

// Connect establishes connection to PostgreSQL
func (d *PostgresDriver) Connect(ctx context.Context, params ConnectParams) error {
	// Build connection string safely with url.URL
	query := url.Values{}
	query.Set("sslmode", "disable")
	for k, v := range params.Params {
		query.Set(k, v)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(params.User, params.Password),
		Host:     fmt.Sprintf("%s:%d", params.Host, params.Port),
		Path:     "/" + params.Database,
		RawQuery: query.Encode(),
	}

	connConfig, err := pgx.ParseConfig(u.String())
	if err != nil {
		return WrapConnectionError(err)
	}

	// Setup SSH tunnel if configured
	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel

		// The SSH server resolves the hostname, not the local machine
		connConfig.LookupFunc = func(ctx context.Context, host string) ([]string, error) {
			return []string{host}, nil
		}
		connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			remoteAddr := fmt.Sprintf("%s:%d", params.Host, params.Port)
			return tunnel.DialContext(ctx, network, remoteAddr)
		}
	}

	db := sql.OpenDB(stdlib.GetConnector(*connConfig))
	configurePool(db)

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		d.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	d.database = connConfig.Database
	log.Info(log.CatDB, "connected", "driver", Postgres, "host", params.Host, "database", d.database)
	return nil
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}

// ListDatabases returns databases that accept connections
func (d *PostgresDriver) ListDatabases(ctx context.Context) ([]string, error) {
	return d.queryStrings(ctx, `
		SELECT datname FROM pg_database
		WHERE NOT datistemplate AND datallowconn
		ORDER BY datname`)
}

// ListTables returns tables in all non-system schemas
func (d *PostgresDriver) ListTables(ctx context.Context) ([]TableRef, error) {
	return d.queryTables(ctx, `
		SELECT n.nspname, c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		AND c.relkind IN ('r', 'p')
		ORDER BY 1, 2`)
}

// CountRows returns the number of rows in table
func (d *PostgresDriver) CountRows(ctx context.Context, table TableRef) (int64, error) {
	return d.countRows(ctx, d.QuoteTable(table))
}

// Columns returns column metadata for a table
func (d *PostgresDriver) Columns(ctx context.Context, table TableRef) ([]Column, error) {
	schema := table.Schema
	if schema == "" {
		schema = "public"
	}
	return d.queryColumns(ctx, `
		SELECT column_name, data_type, character_maximum_length, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table.Name)
}

// QuoteTable renders "schema"."name"
func (d *PostgresDriver) QuoteTable(table TableRef) string {
	if table.Schema == "" {
		return quoteIdent(table.Name, `"`, `"`)
	}
	return quoteIdent(table.Schema, `"`, `"`) + "." + quoteIdent(table.Name, `"`, `"`)
}
