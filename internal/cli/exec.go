package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/store"
)

func newExecCommand(o *options) *cobra.Command {
	var (
		server   string
		database string
		format   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "exec [query...]",
		Short: "Run a query without the TUI",
		Long: `Run one query against a server and print the result.

The query is taken from the arguments, or from standard input when none are
given. The run is recorded in the settings database like runs from the TUI.`,
		Example: `  # Query a SQL Server instance
  sqlstudio exec -s db01 -d sales "select top 10 * from dbo.orders"

  # Export as CSV
  sqlstudio exec -s local.db -o csv "select * from users" > users.csv

  # Read the query from a file
  sqlstudio exec -s postgres://app@pg/app -o json < report.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(format) {
				return fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(outputFormats, ", "))
			}

			query := strings.Join(args, " ")
			if len(args) == 0 {
				text, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				query = text
			}
			query = strings.TrimSpace(query)
			if query == "" {
				return db.ErrEmptyQuery
			}

			return runExec(cmd, o, execRequest{
				server:   server,
				database: database,
				query:    query,
				format:   format,
				timeout:  timeout,
			})
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server to run against (required)")
	cmd.Flags().StringVarP(&database, "database", "d", "", "database (default from the server string or config)")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: "+strings.Join(outputFormats, ", "))
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "query timeout (default from config)")
	_ = cmd.MarkFlagRequired("server")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

type execRequest struct {
	server   string
	database string
	query    string
	format   string
	timeout  time.Duration
}

func runExec(cmd *cobra.Command, o *options, req execRequest) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	srv, err := config.ParseServer(req.server)
	if err != nil {
		return err
	}

	timeout := req.timeout
	if timeout <= 0 {
		timeout = time.Duration(cfg.QueryTimeout) * time.Second
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var passwords config.PasswordStore
	if srv.User != "" && srv.Password == "" {
		passwords = o.passwords()
	}
	d, err := db.Open(ctx, srv.Type, cfg.Resolve(srv, req.database, passwords))
	if err != nil {
		return err
	}
	defer d.Close()

	start := time.Now()
	res, execErr := d.Execute(ctx, req.query)
	recordRun(o, srv.Name(), d.Database(), req.query, start, res, execErr)
	if execErr != nil {
		return execErr
	}
	return renderResult(cmd.OutOrStdout(), res, req.format)
}

// recordRun logs the run in the settings database; failures only warn
func recordRun(o *options, server, database, query string, start time.Time, res *db.QueryResult, execErr error) {
	st, err := o.openStore()
	if err != nil {
		log.ErrorErr(log.CatStore, "could not open settings", err)
		return
	}
	defer st.Close()

	run := &store.Run{
		ServerName: server,
		DBName:     database,
		Query:      query,
		ExecutedAt: start,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     store.StatusSuccess,
	}
	switch {
	case execErr != nil:
		run.Status = store.StatusError
		run.ErrorMessage = execErr.Error()
	case res.IsSelect:
		run.RowCount = res.RowCount
	default:
		run.RowCount = int(res.AffectedRows)
	}
	if err := st.RecordRun(run); err != nil {
		log.ErrorErr(log.CatStore, "could not record run", err)
	}
}

