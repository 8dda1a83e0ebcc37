// internal/db/mysql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/nhath/sqlstudio/internal/log"
)

// MySQLDriver implements Driver for MySQL
type MySQLDriver struct {
	conn
	netName string // Registered network name for SSH
}

// mysqlConfig maps params onto the driver's config
func mysqlConfig(params ConnectParams) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", params.Host, params.Port)
	cfg.DBName = params.Database
	cfg.ParseTime = true
	if len(params.Params) > 0 {
		cfg.Params = make(map[string]string, len(params.Params))
		for k, v := range params.Params {
			cfg.Params[k] = v
		}
	}
	return cfg
}

// Connect establishes connection to MySQL
func (d *MySQLDriver) Connect(ctx context.Context, params ConnectParams) error {
	cfg := mysqlConfig(params)

	// Setup SSH tunnel if configured
	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel

		// Register a unique network for this connection
		d.netName = fmt.Sprintf("mysql+ssh+%d", time.Now().UnixNano())
		mysql.RegisterDialContext(d.netName, func(ctx context.Context, addr string) (net.Conn, error) {
			return tunnel.DialContext(ctx, "tcp", addr)
		})
		cfg.Net = d.netName
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		d.Close()
		return WrapConnectionError(err)
	}
	db := sql.OpenDB(connector)
	configurePool(db)

	// Verify connection immediately (sql.OpenDB is lazy)
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		d.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	d.database = params.Database
	log.Info(log.CatDB, "connected", "driver", MySQL, "host", params.Host, "database", d.database)
	return nil
}

// Type returns the driver type
func (d *MySQLDriver) Type() DriverType {
	return MySQL
}

// ListDatabases returns the schemas visible to the user
func (d *MySQLDriver) ListDatabases(ctx context.Context) ([]string, error) {
	return d.queryStrings(ctx, "SELECT schema_name FROM information_schema.schemata ORDER BY schema_name")
}

// ListTables returns base tables in the current database
func (d *MySQLDriver) ListTables(ctx context.Context) ([]TableRef, error) {
	return d.queryTables(ctx, `
		SELECT '', table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
}

// CountRows returns the number of rows in table
func (d *MySQLDriver) CountRows(ctx context.Context, table TableRef) (int64, error) {
	return d.countRows(ctx, d.QuoteTable(table))
}

// Columns returns column metadata for a table
func (d *MySQLDriver) Columns(ctx context.Context, table TableRef) ([]Column, error) {
	return d.queryColumns(ctx, `
		SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE())
		ORDER BY ORDINAL_POSITION`, table.Name, table.Schema)
}

// QuoteTable renders `schema`.`name`
func (d *MySQLDriver) QuoteTable(table TableRef) string {
	if table.Schema == "" {
		return quoteIdent(table.Name, "`", "`")
	}
	return quoteIdent(table.Schema, "`", "`") + "." + quoteIdent(table.Name, "`", "`")
}
