// internal/db/driver.go
package db

import (
	"context"
	"fmt"
	"time"
)

// DriverType represents supported database types
type DriverType string

const (
	SQLServer DriverType = "sqlserver"
	Postgres  DriverType = "postgres"
	MySQL     DriverType = "mysql"
	SQLite    DriverType = "sqlite"
)

// TableRef identifies a table by schema and name. Schema is empty for
// engines without schemas (SQLite, MySQL where the database is the schema).
type TableRef struct {
	Schema string
	Name   string
}

// String returns schema.name, or name when there is no schema
func (t TableRef) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column represents table column metadata
type Column struct {
	Name      string
	Type      string
	MaxLength *int64 // nil when the type has no character length
	Nullable  bool
}

// ConnectParams holds database connection details
type ConnectParams struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	Path      string            // SQLite file
	Params    map[string]string // extra driver options from the server string
	SSHConfig *SSHConfig        // Optional SSH tunnel config
}

// Driver defines the interface for database operations
type Driver interface {
	Connect(ctx context.Context, params ConnectParams) error
	Close() error
	Ping(ctx context.Context) error
	Type() DriverType
	Database() string
	ListDatabases(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context) ([]TableRef, error)
	CountRows(ctx context.Context, table TableRef) (int64, error)
	Columns(ctx context.Context, table TableRef) ([]Column, error)
	Execute(ctx context.Context, query string) (*QueryResult, error)
	QuoteTable(table TableRef) string
}

// QueryResult contains query execution results
type QueryResult struct {
	Columns      []string
	Rows         [][]string
	ExecTime     time.Duration
	RowCount     int
	IsSelect     bool
	AffectedRows int64
}

// NewDriver creates a new driver instance by type
func NewDriver(driverType DriverType) (Driver, error) {
	switch driverType {
	case SQLServer:
		return &SQLServerDriver{}, nil
	case Postgres:
		return &PostgresDriver{}, nil
	case MySQL:
		return &MySQLDriver{}, nil
	case SQLite:
		return &SQLiteDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driverType)
	}
}

// Open creates and connects a driver in one step
func Open(ctx context.Context, driverType DriverType, params ConnectParams) (Driver, error) {
	d, err := NewDriver(driverType)
	if err != nil {
		return nil, err
	}
	if err := d.Connect(ctx, params); err != nil {
		return nil, err
	}
	return d, nil
}
