// internal/ui/model.go
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/muesli/termenv"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/sqlfmt"
	"github.com/nhath/sqlstudio/internal/store"
	"github.com/nhath/sqlstudio/internal/ui/components/picklist"
	"github.com/nhath/sqlstudio/internal/ui/components/popup"
	"github.com/nhath/sqlstudio/internal/ui/components/table"
	"github.com/nhath/sqlstudio/internal/ui/highlight"
)

// OpenFunc connects a driver; db.Open in production
type OpenFunc func(ctx context.Context, driverType db.DriverType, params db.ConnectParams) (db.Driver, error)

// Options configures a new Model
type Options struct {
	Config    *config.Config
	Store     *store.Store
	Passwords config.PasswordStore // may be nil
	Server    string               // pre-filled server, connected on start
	Open      OpenFunc             // defaults to db.Open
	Profile   *termenv.Profile     // color profile for highlighting, detected when nil
}

// Model is the root Bubble Tea model
type Model struct {
	// Dependencies
	config      *config.Config
	store       *store.Store
	passwords   config.PasswordStore
	open        OpenFunc
	catalog     *db.Catalog
	reformatter *sqlfmt.Reformatter
	highlighter *highlight.Highlighter

	// Layout
	width, height int
	focus         Focus

	// Sidebar
	serverInput textinput.Model
	servers     picklist.Model
	databases   picklist.Model
	tables      picklist.Model
	filterInput textinput.Model
	tableRefs   map[string]db.TableRef

	// Main pane
	editor   textarea.Model
	grid     bbtable.Model
	gridMode GridMode

	// Connection
	serverInfo config.Server
	driver     db.Driver
	database   string
	table      *db.TableRef

	// Status
	popup     popup.Model
	spinner   spinner.Model
	busy      string
	info      string
	statusMsg string
	errorMsg  string

	autoConnect string
}

// NewModel creates the workbench
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	open := opts.Open
	if open == nil {
		open = db.Open
	}
	profile := lipgloss.ColorProfile()
	if opts.Profile != nil {
		profile = *opts.Profile
	}

	InitStyles(cfg.Theme)

	keywords := sqlfmt.Default(cfg.ExtraKeywords...)

	serverInput := textinput.New()
	serverInput.Placeholder = "host, host,port or sqlite file"
	serverInput.Prompt = "› "
	serverInput.PromptStyle = PromptStyle
	serverInput.CharLimit = 512
	serverInput.SetValue(opts.Server)
	serverInput.Focus()

	filterInput := textinput.New()
	filterInput.Placeholder = "filter tables"
	filterInput.Prompt = "/ "
	filterInput.PromptStyle = PromptStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	m := Model{
		config:      cfg,
		store:       opts.Store,
		passwords:   opts.Passwords,
		open:        open,
		catalog:     db.NewCatalog(time.Duration(cfg.CatalogTTL) * time.Second),
		reformatter: sqlfmt.NewReformatter(keywords),
		highlighter: highlight.New(keywords, highlight.PaletteFromStyle(cfg.HighlightStyle, profile)),
		focus:       FocusServer,
		serverInput: serverInput,
		servers:     picklist.New("").SetStyles(listStyles()).SetEmptyText("no saved servers"),
		databases:   picklist.New("Databases").SetStyles(listStyles()).SetEmptyText("not connected"),
		tables:      picklist.New("Tables").SetStyles(listStyles()).SetEmptyText("no tables"),
		filterInput: filterInput,
		tableRefs:   map[string]db.TableRef{},
		editor:      newEditor(),
		grid:        table.Empty(),
		popup:       popup.New().SetStyles(popupStyles()),
		spinner:     sp,
	}

	if opts.Server != "" {
		if _, err := config.ParseServer(opts.Server); err != nil {
			m.popup = m.popup.Show(popup.Error, "Invalid server", err.Error())
		} else {
			m.autoConnect = opts.Server
			m.busy = "Connecting to " + opts.Server
		}
	}
	return m
}

// Init starts loading saved servers and connects to a pre-filled server
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadServersCmd()}
	if m.autoConnect != "" {
		if srv, err := config.ParseServer(m.autoConnect); err == nil {
			cmds = append(cmds, m.connectCmd(srv), m.spinner.Tick)
		}
	}
	return tea.Batch(cmds...)
}

// Close releases the active connection; call it after the program exits
func (m Model) Close() error {
	if m.driver == nil {
		return nil
	}
	log.Info(log.CatUI, "closing connection", "server", m.serverInfo.Name())
	return m.driver.Close()
}

// Driver returns the active connection, nil when disconnected
func (m Model) Driver() db.Driver {
	return m.driver
}

func (m Model) timeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(m.config.QueryTimeout)*time.Second)
}
