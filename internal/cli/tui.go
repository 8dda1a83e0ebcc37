package cli

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/ui"
)

// runTUI launches the workbench
func runTUI(o *options, server string) error {
	if o.debug {
		cleanup, err := log.Init("debug.log", slog.LevelDebug)
		if err != nil {
			return fmt.Errorf("could not open debug log: %w", err)
		}
		defer cleanup()
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := o.openStore()
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	defer st.Close()

	if server == "" {
		server = cfg.DefaultServer
	}

	model := ui.NewModel(ui.Options{
		Config:    cfg,
		Store:     st,
		Passwords: o.passwords(),
		Server:    server,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if m, ok := final.(ui.Model); ok {
		if cerr := m.Close(); cerr != nil {
			log.ErrorErr(log.CatDB, "close connection", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
