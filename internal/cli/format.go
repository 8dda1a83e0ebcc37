package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/nhath/sqlstudio/internal/log"
	"github.com/nhath/sqlstudio/internal/sqlfmt"
	"github.com/nhath/sqlstudio/internal/ui/highlight"
)

func newFormatCommand(o *options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Capitalize SQL keywords",
		Long: `Upper-case every SQL keyword in a file or standard input.

Only keyword case changes; spacing, identifiers and literals are kept
byte for byte.`,
		Example: `  # Format a file to stdout
  sqlstudio format query.sql

  # Rewrite the file in place
  sqlstudio format -w query.sql

  # Format from a pipe
  echo "select 1" | sqlstudio format`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && len(args) == 0 {
				return fmt.Errorf("--write needs a file")
			}
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := sqlfmt.Default(cfg.ExtraKeywords...).Capitalize(text)

			if write {
				if out == text {
					return nil
				}
				log.Debug(log.CatFmt, "rewriting file", "path", args[0])
				return os.WriteFile(args[0], []byte(out), 0644)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}

func newHighlightCommand(o *options) *cobra.Command {
	var (
		style string
		color string
	)

	cmd := &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print SQL with ANSI syntax highlighting",
		Long: `Color keywords, string literals and comments in a file or standard input.

Colors come from a chroma style; --color auto only colors terminals.`,
		Example: `  sqlstudio highlight query.sql
  sqlstudio highlight --style monokai --color always query.sql | less -R`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			if style == "" {
				style = cfg.HighlightStyle
			}

			var profile termenv.Profile
			switch color {
			case "always":
				profile = termenv.TrueColor
			case "never":
				profile = termenv.Ascii
			case "auto":
				profile = termenv.NewOutput(cmd.OutOrStdout()).Profile
			default:
				return fmt.Errorf("unknown --color %q (want auto, always or never)", color)
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			h := highlight.New(sqlfmt.Default(cfg.ExtraKeywords...), highlight.PaletteFromStyle(style, profile))
			_, err = io.WriteString(cmd.OutOrStdout(), h.Render(text))
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "chroma style name (default from config)")
	cmd.Flags().StringVar(&color, "color", "auto", "when to color output: auto, always or never")
	_ = cmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// readInput returns the named file's content, or stdin when no file is given
// or the file is "-"
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
