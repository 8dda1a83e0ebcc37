// internal/ui/update.go
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/ui/components/popup"
	"github.com/nhath/sqlstudio/internal/ui/components/table"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.resize(), nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ServersLoadedMsg:
		if msg.Err != nil {
			log.ErrorErr(log.CatStore, "could not load servers", msg.Err)
			m.errorMsg = "Could not load saved servers"
			return m, nil
		}
		m.servers = m.servers.SetItems(msg.Servers)
		return m, nil

	case ConnectedMsg:
		return m.handleConnected(msg), nil

	case DatabaseSwitchedMsg:
		return m.handleDatabaseSwitched(msg), nil

	case TablesLoadedMsg:
		if msg.Database != m.database {
			return m, nil
		}
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m = m.setTables(msg.Tables)
		return m, nil

	case TableLoadedMsg:
		return m.handleTableLoaded(msg), nil

	case QuerySavedMsg:
		if msg.Err != nil {
			log.ErrorErr(log.CatStore, "could not save query", msg.Err, "table", msg.Table.String())
			m.popup = m.popup.Show(popup.Error, "Save failed", msg.Err.Error())
			return m, nil
		}
		m.errorMsg = ""
		m.statusMsg = "Query saved for " + msg.Table.String()
		return m, nil

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case SchemaLoadedMsg:
		m.busy = ""
		if msg.Err != nil {
			m.popup = m.popup.Show(popup.Error, "Could not load schema", msg.Err.Error())
			return m, nil
		}
		m.grid = table.FromColumns(msg.Columns)
		m.gridMode = GridSchema
		m.statusMsg = "Schema for " + msg.Table.String()
		m.errorMsg = ""
		return m.resize(), nil
	}

	// Cursor blinks and other component messages go to the focused input
	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys

	if matchKey(msg, keys.Quit) {
		return m, tea.Quit
	}

	if m.popup.Visible() {
		m.popup, _ = m.popup.Update(msg)
		return m, nil
	}

	switch {
	case matchKey(msg, keys.Connect):
		return m.connect()
	case matchKey(msg, keys.Execute):
		return m.run()
	case matchKey(msg, keys.Save):
		return m.saveQuery()
	case matchKey(msg, keys.Schema):
		return m.showSchema()
	case matchKey(msg, keys.Capitalize):
		if m.reformatter.OnTextChanged(editorBuffer{ta: &m.editor}) {
			m.statusMsg = "Keywords capitalized"
		}
		return m, nil
	case matchKey(msg, keys.NextFocus):
		return m.cycleFocus(1)
	case matchKey(msg, keys.PrevFocus):
		return m.cycleFocus(-1)
	}

	switch m.focus {
	case FocusServer:
		switch msg.String() {
		case "enter":
			return m.connect()
		case "up":
			m.servers = m.servers.MoveUp()
			return m.pickServer(), nil
		case "down":
			m.servers = m.servers.MoveDown()
			return m.pickServer(), nil
		}
		var cmd tea.Cmd
		before := m.serverInput.Value()
		m.serverInput, cmd = m.serverInput.Update(msg)
		if v := m.serverInput.Value(); v != before {
			m.servers = m.servers.SetFilter(strings.TrimSpace(v))
		}
		return m, cmd

	case FocusDatabases:
		switch msg.String() {
		case "up", "k":
			m.databases = m.databases.MoveUp()
		case "down", "j":
			m.databases = m.databases.MoveDown()
		case "enter":
			return m.switchDatabase()
		}
		return m, nil

	case FocusTables:
		switch {
		case msg.String() == "up" || msg.String() == "k":
			m.tables = m.tables.MoveUp()
		case msg.String() == "down" || msg.String() == "j":
			m.tables = m.tables.MoveDown()
		case msg.String() == "enter":
			return m.loadTable()
		case matchKey(msg, keys.Filter):
			return m.setFocus(FocusFilter)
		}
		return m, nil

	case FocusFilter:
		switch msg.String() {
		case "esc":
			m.filterInput.SetValue("")
			m.tables = m.tables.SetFilter("")
			return m.setFocus(FocusTables)
		case "enter", "down":
			return m.setFocus(FocusTables)
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.tables = m.tables.SetFilter(m.filterInput.Value())
		return m, cmd

	case FocusEditor:
		var cmd tea.Cmd
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() != before {
			m.reformatter.OnTextChanged(editorBuffer{ta: &m.editor})
		}
		return m, cmd

	case FocusResults:
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusServer:
		m.serverInput, cmd = m.serverInput.Update(msg)
	case FocusFilter:
		m.filterInput, cmd = m.filterInput.Update(msg)
	case FocusEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// pickServer copies the highlighted saved server into the input
func (m Model) pickServer() Model {
	if s, ok := m.servers.SelectedItem(); ok {
		m.serverInput.SetValue(s)
		m.serverInput.CursorEnd()
	}
	return m
}

func (m Model) cycleFocus(step int) (tea.Model, tea.Cmd) {
	current := m.focus
	if current == FocusFilter {
		current = FocusTables
	}
	idx := 0
	for i, f := range focusOrder {
		if f == current {
			idx = i
		}
	}
	n := len(focusOrder)
	return m.setFocus(focusOrder[((idx+step)%n+n)%n])
}

func (m Model) setFocus(f Focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.serverInput.Blur()
	m.filterInput.Blur()
	m.editor.Blur()
	m.databases = m.databases.Blur()
	m.tables = m.tables.Blur()
	m.grid = m.grid.Focused(false)

	var cmd tea.Cmd
	switch f {
	case FocusServer:
		cmd = m.serverInput.Focus()
	case FocusDatabases:
		m.databases = m.databases.Focus()
	case FocusTables:
		m.tables = m.tables.Focus()
	case FocusFilter:
		m.tables = m.tables.Focus()
		cmd = m.filterInput.Focus()
	case FocusEditor:
		cmd = m.editor.Focus()
	case FocusResults:
		m.grid = m.grid.Focused(true)
	}
	return m, cmd
}

func (m Model) warn(text string) Model {
	m.popup = m.popup.Show(popup.Warning, "", text)
	return m
}

func (m Model) startBusy(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	wasIdle := m.busy == ""
	m.busy = label
	m.errorMsg = ""
	if wasIdle {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) connect() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.serverInput.Value())
	if name == "" {
		return m.warn("Please enter a server name."), nil
	}
	srv, err := config.ParseServer(name)
	if err != nil {
		m.popup = m.popup.Show(popup.Error, "Invalid server", err.Error())
		return m, nil
	}
	return m.startBusy("Connecting to "+name, m.connectCmd(srv))
}

func (m Model) handleConnected(msg ConnectedMsg) Model {
	m.busy = ""
	if msg.Err != nil {
		log.ErrorErr(log.CatDB, "connection failed", msg.Err, "server", msg.Server)
		m.errorMsg = "Connection failed"
		m.statusMsg = ""
		m.popup = m.popup.Show(popup.Error, "Connection failed", msg.Err.Error())
		return m
	}

	if m.driver != nil {
		if err := m.driver.Close(); err != nil {
			log.ErrorErr(log.CatDB, "closing previous connection", err)
		}
	}
	m.driver = msg.Driver
	m.serverInfo = msg.Info
	m.database = msg.Driver.Database()
	m.table = nil
	m.info = ""
	m.grid = table.Empty()
	m.gridMode = GridEmpty

	m.databases = m.databases.SetItems(msg.Databases).Select(m.database)
	m = m.setTables(msg.Tables)
	m.servers = m.servers.Append(msg.Server)
	m.errorMsg = ""
	m.statusMsg = "Connected to " + msg.Server
	log.Info(log.CatDB, "connected", "server", msg.Server, "database", m.database)
	return m.resize()
}

func (m Model) switchDatabase() (tea.Model, tea.Cmd) {
	if m.driver == nil {
		return m.warn("Please connect to the database first."), nil
	}
	name, ok := m.databases.SelectedItem()
	if !ok {
		return m, nil
	}
	return m.startBusy("Opening "+name, m.switchDatabaseCmd(name))
}

func (m Model) handleDatabaseSwitched(msg DatabaseSwitchedMsg) Model {
	m.busy = ""
	if msg.Err != nil {
		log.ErrorErr(log.CatDB, "switch database failed", msg.Err, "database", msg.Database)
		m.popup = m.popup.Show(popup.Error, "Could not open "+msg.Database, msg.Err.Error())
		return m
	}
	if msg.Server != m.serverInfo.Name() {
		_ = msg.Driver.Close()
		return m
	}

	if m.driver != nil {
		if err := m.driver.Close(); err != nil {
			log.ErrorErr(log.CatDB, "closing previous connection", err)
		}
	}
	m.driver = msg.Driver
	m.database = msg.Database
	m.table = nil
	m.info = ""
	m.databases = m.databases.Select(msg.Database)
	m = m.setTables(msg.Tables)
	m.errorMsg = ""
	m.statusMsg = "Using " + msg.Database
	return m
}

// setTables fills the table list, keeping the current filter
func (m Model) setTables(refs []db.TableRef) Model {
	names := make([]string, len(refs))
	m.tableRefs = make(map[string]db.TableRef, len(refs))
	for i, ref := range refs {
		names[i] = ref.String()
		m.tableRefs[names[i]] = ref
	}
	m.tables = m.tables.SetItems(names)
	return m
}

func (m Model) loadTable() (tea.Model, tea.Cmd) {
	if m.driver == nil {
		return m.warn("Please connect to the database first."), nil
	}
	name, ok := m.tables.SelectedItem()
	if !ok {
		return m, nil
	}
	return m.startBusy("Loading "+name, m.loadTableCmd(m.tableRefs[name]))
}

func (m Model) handleTableLoaded(msg TableLoadedMsg) Model {
	m.busy = ""
	if msg.Err != nil {
		m.popup = m.popup.Show(popup.Error, "Could not load table", msg.Err.Error())
		return m
	}

	ref := msg.Table
	m.table = &ref
	m.editor.SetValue(msg.Query)
	m.reformatter.OnTextChanged(editorBuffer{ta: &m.editor})

	if msg.CountErr != nil {
		log.ErrorErr(log.CatDB, "count rows failed", msg.CountErr, "table", msg.Quoted)
		m.info = "Table: " + msg.Quoted + " | Total records: unknown"
		m.errorMsg = msg.CountErr.Error()
	} else {
		m.info = "Table: " + msg.Quoted + " | Total records: " + humanize.Comma(msg.Count)
		m.errorMsg = ""
	}
	m.statusMsg = ""
	if msg.Saved {
		m.statusMsg = "Loaded saved query"
	}
	return m
}

func (m Model) saveQuery() (tea.Model, tea.Cmd) {
	if m.table == nil {
		return m.warn("Please select a table first."), nil
	}
	return m, m.saveQueryCmd(*m.table, m.editor.Value())
}

func (m Model) run() (tea.Model, tea.Cmd) {
	if m.driver == nil {
		return m.warn("Please connect to the database first."), nil
	}
	query := strings.TrimSpace(m.editor.Value())
	if query == "" {
		return m.warn("The query is empty."), nil
	}
	return m.startBusy("Running query", m.executeQueryCmd(query))
}

func (m Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	m.busy = ""
	if msg.Err != nil {
		log.ErrorErr(log.CatDB, "query failed", msg.Err)
		m.statusMsg = ""
		m.errorMsg = "Query failed"
		m.popup = m.popup.Show(popup.Error, "Query failed", msg.Err.Error())
		return m, nil
	}

	res := msg.Result
	m.errorMsg = ""
	if res.IsSelect {
		m.grid = table.FromQueryResult(res, m.config.PageSize)
		m.gridMode = GridResults
		m.statusMsg = table.Footer(res)
		return m.resize(), nil
	}

	m.statusMsg = "Query executed successfully. " + humanize.Comma(res.AffectedRows) + " rows affected."
	if isSchemaChange(msg.Query) {
		return m, m.reloadTablesCmd()
	}
	return m, nil
}

func (m Model) showSchema() (tea.Model, tea.Cmd) {
	if m.table == nil {
		return m.warn("Please select a table first."), nil
	}
	if m.driver == nil {
		return m.warn("Please connect to the database first."), nil
	}
	return m.startBusy("Loading schema", m.schemaCmd(*m.table))
}
