// internal/db/mssql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/nhath/sqlstudio/internal/log"
)

// SQLServerDriver implements Driver for Microsoft SQL Server
type SQLServerDriver struct {
	conn
}

// buildSQLServerDSN renders params as a sqlserver:// URL
func buildSQLServerDSN(params ConnectParams) string {
	query := url.Values{}
	for k, v := range params.Params {
		query.Set(k, v)
	}
	if params.Database != "" {
		query.Set("database", params.Database)
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     fmt.Sprintf("%s:%d", params.Host, params.Port),
		RawQuery: query.Encode(),
	}
	if params.User != "" {
		u.User = url.UserPassword(params.User, params.Password)
	}
	return u.String()
}

// Connect establishes connection to SQL Server
func (d *SQLServerDriver) Connect(ctx context.Context, params ConnectParams) error {
	connector, err := mssql.NewConnector(buildSQLServerDSN(params))
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
		connector.Dialer = tunnel
	}

	db := sql.OpenDB(connector)
	configurePool(db)

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		d.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	d.database = params.Database
	if d.database == "" {
		// Login default database
		if err := db.QueryRowContext(ctx, "SELECT DB_NAME()").Scan(&d.database); err != nil {
			log.Warn(log.CatDB, "could not read current database", "error", err)
		}
	}
	log.Info(log.CatDB, "connected", "driver", SQLServer, "host", params.Host, "database", d.database)
	return nil
}

// Type returns the driver type
func (d *SQLServerDriver) Type() DriverType {
	return SQLServer
}

// ListDatabases returns every database on the server
func (d *SQLServerDriver) ListDatabases(ctx context.Context) ([]string, error) {
	return d.queryStrings(ctx, "SELECT name FROM sys.databases ORDER BY name")
}

// ListTables returns the non-external user tables of the current database
func (d *SQLServerDriver) ListTables(ctx context.Context) ([]TableRef, error) {
	return d.queryTables(ctx, `
		SELECT s.name, t.name
		FROM sys.tables t
		INNER JOIN sys.schemas s ON t.schema_id = s.schema_id
		WHERE t.is_external = 0
		ORDER BY s.name, t.name`)
}

// CountRows returns the number of rows in table
func (d *SQLServerDriver) CountRows(ctx context.Context, table TableRef) (int64, error) {
	return d.countRows(ctx, d.QuoteTable(table))
}

// Columns returns column metadata for a table
func (d *SQLServerDriver) Columns(ctx context.Context, table TableRef) ([]Column, error) {
	return d.queryColumns(ctx, `
		SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2
		ORDER BY ORDINAL_POSITION`, table.Schema, table.Name)
}

// QuoteTable renders [schema].[name]
func (d *SQLServerDriver) QuoteTable(table TableRef) string {
	if table.Schema == "" {
		return quoteIdent(table.Name, "[", "]")
	}
	return quoteIdent(table.Schema, "[", "]") + "." + quoteIdent(table.Name, "[", "]")
}
