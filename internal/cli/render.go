package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nhath/sqlstudio/internal/db"
)

var outputFormats = []string{"table", "csv", "markdown", "json"}

func validFormat(f string) bool {
	return slices.Contains(outputFormats, f)
}

// renderResult writes a query result in the requested format
func renderResult(w io.Writer, res *db.QueryResult, format string) error {
	if !res.IsSelect {
		_, err := fmt.Fprintf(w, "%s rows affected (%s)\n", humanize.Comma(res.AffectedRows), res.ExecTime.Round(1e6))
		return err
	}

	if format == "json" {
		return renderJSON(w, res)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, r := range res.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
		_, _ = fmt.Fprintf(w, "(%s rows in %s)\n", humanize.Comma(int64(res.RowCount)), res.ExecTime.Round(1e6))
	}
	return nil
}

type jsonResult struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func renderJSON(w io.Writer, res *db.QueryResult) error {
	rows := res.Rows
	if rows == nil {
		rows = [][]string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{Columns: res.Columns, Rows: rows})
}
