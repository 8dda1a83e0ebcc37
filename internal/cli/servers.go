package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nhath/sqlstudio/internal/log"
)

func newServersCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "List saved servers",
		Long:  `List the servers saved after a successful connection, oldest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			servers, err := st.Servers()
			if err != nil {
				return err
			}
			if len(servers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no saved servers)")
				return nil
			}
			for _, s := range servers {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.AddCommand(newServersRemoveCommand(o))
	cmd.AddCommand(newServersRunsCommand(o))
	cmd.AddCommand(newServersPasswordCommand(o))
	return cmd
}

func newServersRemoveCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Forget a saved server",
		Long:    `Remove a saved server with its saved queries, run log and stored password.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			name := args[0]
			removed, err := st.RemoveServer(name)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("server %q is not saved", name)
			}

			if ks := o.passwords(); ks != nil {
				if err := ks.DeletePassword(name); err != nil {
					log.ErrorErr(log.CatConfig, "could not delete password", err, "server", name)
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
			return nil
		},
	}
}

func newServersRunsCommand(o *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs NAME",
		Short: "Show recent query runs for a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := o.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.RecentRuns(args[0], limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no runs)")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"When", "Database", "Status", "Rows", "Duration", "Query"})
			for _, r := range runs {
				status := r.Status
				if r.ErrorMessage != "" {
					status += ": " + r.ErrorMessage
				}
				t.AppendRow(table.Row{
					humanize.Time(r.ExecutedAt),
					r.DBName,
					status,
					humanize.Comma(int64(r.RowCount)),
					fmt.Sprintf("%dms", r.DurationMs),
					r.QueryPreview(60),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func newServersPasswordCommand(o *options) *cobra.Command {
	var ssh bool

	cmd := &cobra.Command{
		Use:   "password NAME",
		Short: "Store a server password in the system keyring",
		Long: `Read a password from the first line of standard input and store it in the
system keyring under the server name. With --ssh the password is used for the
server's SSH tunnel instead.`,
		Example: `  pass show work/db01 | sqlstudio servers password sqlserver://sa@db01`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := o.openKeyring()
			if err != nil {
				return err
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return fmt.Errorf("password is empty")
			}

			key := args[0]
			if ssh {
				key = "ssh:" + key
			}
			if err := ks.SetPassword(key, password); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored password for %s\n", key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ssh, "ssh", false, "store the SSH tunnel password")
	return cmd
}
