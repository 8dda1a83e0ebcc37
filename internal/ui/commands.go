// internal/ui/commands.go
package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/store"
)

// loadServersCmd reads saved servers for the suggestions list
func (m Model) loadServersCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		if st == nil {
			return ServersLoadedMsg{}
		}
		servers, err := st.Servers()
		return ServersLoadedMsg{Servers: servers, Err: err}
	}
}

// connectCmd connects to the server's initial database and lists its catalog
func (m Model) connectCmd(srv config.Server) tea.Cmd {
	params := m.config.Resolve(srv, "", m.passwords)
	open, catalog, st := m.open, m.catalog, m.store
	name := srv.Name()

	return func() tea.Msg {
		ctx, cancel := m.timeout()
		defer cancel()

		log.Info(log.CatDB, "connecting", "server", name, "type", srv.Type, "database", params.Database)
		d, err := open(ctx, srv.Type, params)
		if err != nil {
			return ConnectedMsg{Server: name, Info: srv, Err: err}
		}

		catalog.Invalidate(name)
		databases, err := catalog.Databases(ctx, name, d)
		if err != nil {
			_ = d.Close()
			return ConnectedMsg{Server: name, Info: srv, Err: err}
		}
		tables, err := catalog.Tables(ctx, name, d)
		if err != nil {
			_ = d.Close()
			return ConnectedMsg{Server: name, Info: srv, Err: err}
		}

		if st != nil {
			if err := st.AddServer(name); err != nil {
				log.ErrorErr(log.CatStore, "could not save server", err, "server", name)
			}
		}
		return ConnectedMsg{Server: name, Info: srv, Driver: d, Databases: databases, Tables: tables}
	}
}

// switchDatabaseCmd opens a new connection to database on the current server
func (m Model) switchDatabaseCmd(database string) tea.Cmd {
	srv := m.serverInfo
	params := m.config.Resolve(srv, database, m.passwords)
	open, catalog := m.open, m.catalog

	return func() tea.Msg {
		ctx, cancel := m.timeout()
		defer cancel()

		d, err := open(ctx, srv.Type, params)
		if err != nil {
			return DatabaseSwitchedMsg{Server: srv.Name(), Database: database, Err: err}
		}
		tables, err := catalog.Tables(ctx, srv.Name(), d)
		if err != nil {
			_ = d.Close()
			return DatabaseSwitchedMsg{Server: srv.Name(), Database: database, Err: err}
		}
		return DatabaseSwitchedMsg{Server: srv.Name(), Database: d.Database(), Driver: d, Tables: tables}
	}
}

// reloadTablesCmd refreshes the table list after a schema change
func (m Model) reloadTablesCmd() tea.Cmd {
	d, server, catalog := m.driver, m.serverInfo.Name(), m.catalog
	database := m.database

	return func() tea.Msg {
		ctx, cancel := m.timeout()
		defer cancel()

		catalog.InvalidateTables(server, database)
		tables, err := catalog.Tables(ctx, server, d)
		return TablesLoadedMsg{Database: database, Tables: tables, Err: err}
	}
}

// loadTableCmd fetches the saved query (or a default SELECT) and row count
func (m Model) loadTableCmd(ref db.TableRef) tea.Cmd {
	d, st := m.driver, m.store
	server, database := m.serverInfo.Name(), m.database

	return func() tea.Msg {
		ctx, cancel := m.timeout()
		defer cancel()

		quoted := d.QuoteTable(ref)
		msg := TableLoadedMsg{Table: ref, Quoted: quoted, Query: "SELECT * FROM " + quoted}
		if st != nil {
			query, ok, err := st.LoadQuery(server, database, ref.String())
			if err != nil {
				msg.Err = err
				return msg
			}
			if ok {
				msg.Query, msg.Saved = query, true
			}
		}

		msg.Count, msg.CountErr = d.CountRows(ctx, ref)
		return msg
	}
}

// saveQueryCmd stores the editor text for the selected table
func (m Model) saveQueryCmd(ref db.TableRef, query string) tea.Cmd {
	st := m.store
	server, database := m.serverInfo.Name(), m.database

	return func() tea.Msg {
		if st == nil {
			return QuerySavedMsg{Table: ref, Err: errors.New("settings store is not open")}
		}
		return QuerySavedMsg{Table: ref, Err: st.SaveQuery(server, database, ref.String(), query)}
	}
}

// executeQueryCmd runs the editor text and records the run
func (m Model) executeQueryCmd(query string) tea.Cmd {
	d, st := m.driver, m.store
	server, database := m.serverInfo.Name(), m.database

	return func() tea.Msg {
		ctx, cancel := m.timeout()
		defer cancel()

		start := time.Now()
		result, err := d.Execute(ctx, query)
		run := &store.Run{
			ServerName: server,
			DBName:     database,
			Query:      query,
			ExecutedAt: start,
			DurationMs: time.Since(start).Milliseconds(),
			Status:     store.StatusSuccess,
		}
		if err != nil {
			run.Status = store.StatusError
			run.ErrorMessage = err.Error()
		} else if result.IsSelect {
			run.RowCount = result.RowCount
		} else {
			run.RowCount = int(result.AffectedRows)
		}

		if st != nil {
			if rerr := st.RecordRun(run); rerr != nil {
				log.ErrorErr(log.CatStore, "could not record run", rerr, "server", server)
			}
		}
		return QueryResultMsg{Query: query, Result: result, Run: run, Err: err}
	}
}

// schemaCmd fetches column metadata for a table
func (m Model) schemaCmd(ref db.TableRef) tea.Cmd {
	d := m.driver
	return func() tea.Msg {
		ctx, cancel := m.timeout()
		defer cancel()

		cols, err := d.Columns(ctx, ref)
		return SchemaLoadedMsg{Table: ref, Columns: cols, Err: err}
	}
}
