// Package cli provides the command-line interface for sqlstudio.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/store"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// options holds the persistent flags and the dependencies commands open
type options struct {
	configPath   string
	settingsPath string
	debug        bool

	// openKeyring is replaced in tests
	openKeyring func() (config.PasswordStore, error)
}

func defaultOptions() *options {
	return &options{
		openKeyring: func() (config.PasswordStore, error) {
			return config.NewKeyringStore()
		},
	}
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}

func (o *options) openStore() (*store.Store, error) {
	if o.settingsPath != "" {
		return store.Open(o.settingsPath)
	}
	return store.OpenDefault()
}

// passwords opens the system keyring; a failure is logged and leaves
// password lookup disabled
func (o *options) passwords() config.PasswordStore {
	ks, err := o.openKeyring()
	if err != nil {
		log.ErrorErr(log.CatConfig, "keyring unavailable", err)
		return nil
	}
	return ks
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultOptions())
}

func newRootCmd(o *options) *cobra.Command {
	var server string

	rootCmd := &cobra.Command{
		Use:   "sqlstudio",
		Short: "sqlstudio - terminal SQL workbench",
		Long: `sqlstudio is a terminal workbench for SQL Server, PostgreSQL, MySQL and SQLite.

Pick a server, browse databases and tables, and edit queries in an editor that
highlights and capitalizes SQL keywords as you type. Queries saved per table
and every run are kept in a local settings database.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// The TUI owns the terminal and logs to a file instead
			if o.debug && cmd != cmd.Root() {
				log.Stderr(slog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(o, server)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}} (" + GitCommit + ")\n")

	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", o.configPath, "config file (default: $XDG_CONFIG_HOME/sqlstudio/config.toml)")
	rootCmd.PersistentFlags().StringVar(&o.settingsPath, "settings", o.settingsPath, "settings database (default: $XDG_DATA_HOME/sqlstudio/settings.db)")
	rootCmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "write debug logs (debug.log for the TUI, stderr otherwise)")
	rootCmd.Flags().StringVarP(&server, "server", "s", "", "server to connect to on start")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newFormatCommand(o))
	rootCmd.AddCommand(newHighlightCommand(o))
	rootCmd.AddCommand(newExecCommand(o))
	rootCmd.AddCommand(newServersCommand(o))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
