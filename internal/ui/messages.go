// internal/ui/messages.go
package ui

import (
	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/store"
)

// ServersLoadedMsg carries the saved servers read at startup
type ServersLoadedMsg struct {
	Servers []string
	Err     error
}

// ConnectedMsg is sent when a server connection attempt completes
type ConnectedMsg struct {
	Server    string
	Info      config.Server
	Driver    db.Driver
	Databases []string
	Tables    []db.TableRef
	Err       error
}

// DatabaseSwitchedMsg is sent when a connection to another database completes
type DatabaseSwitchedMsg struct {
	Server   string
	Database string
	Driver   db.Driver
	Tables   []db.TableRef
	Err      error
}

// TablesLoadedMsg is sent when the table list is refreshed
type TablesLoadedMsg struct {
	Database string
	Tables   []db.TableRef
	Err      error
}

// TableLoadedMsg is sent when a table's query and row count are ready
type TableLoadedMsg struct {
	Table    db.TableRef
	Quoted   string
	Query    string
	Saved    bool
	Count    int64
	CountErr error
	Err      error
}

// QuerySavedMsg is sent when the editor text was stored for a table
type QuerySavedMsg struct {
	Table db.TableRef
	Err   error
}

// QueryResultMsg sent when query execution completes
type QueryResultMsg struct {
	Query  string
	Result *db.QueryResult
	Run    *store.Run
	Err    error
}

// SchemaLoadedMsg is sent when a table's columns are fetched
type SchemaLoadedMsg struct {
	Table   db.TableRef
	Columns []db.Column
	Err     error
}
