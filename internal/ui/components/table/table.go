// Package table builds the results grid from query results and column
// metadata.
package table

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/dustin/go-humanize"

	"github.com/nhath/sqlstudio/internal/db"
)

// Nord colors, overridden by SetColors when a theme is loaded
var (
	ColorForeground = "#D8DEE9"
	ColorComment    = "#4C566A"
	ColorHeader     = "#8FBCBB"
	ColorHighlight  = "#A3BE8C"
	ColorNull       = "#B48EAD"
	ColorNumber     = "#B48EAD"
	ColorBool       = "#D08770"
	ColorText       = "#EBCB8B"
)

// MaxColumnWidth caps a single column so wide values do not push the rest
// of the grid off screen
const MaxColumnWidth = 40

// Schema grid headers
const (
	ColName      = "Column Name"
	ColType      = "Data Type"
	ColMaxLength = "Max Length"
	ColNullable  = "Is Nullable"
)

// SetColors overrides the palette used by New and ValueStyle
func SetColors(fg, faint, header, highlight string) {
	ColorForeground = fg
	ColorComment = faint
	ColorHeader = header
	ColorHighlight = highlight
}

// New creates a bubble-table with the current palette
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHeader)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHighlight)).
			Bold(true)).
		BorderRounded()
}

// Empty returns a grid with no columns, shown before anything has run
func Empty() bbtable.Model {
	return New(nil)
}

// FromQueryResult builds a grid from a read query's result
func FromQueryResult(res *db.QueryResult, pageSize int) bbtable.Model {
	if res == nil || len(res.Columns) == 0 {
		return Empty()
	}

	// Column keys must be unique even when the query repeats a name
	keys := columnKeys(res.Columns)
	widths := columnWidths(res.Columns, res.Rows)
	cols := make([]bbtable.Column, len(res.Columns))
	for i, c := range res.Columns {
		cols[i] = bbtable.NewColumn(keys[i], c, min(widths[i], MaxColumnWidth))
	}

	rows := make([]bbtable.Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		rowData := bbtable.RowData{}
		for i, val := range r {
			if i < len(keys) {
				rowData[keys[i]] = bbtable.NewStyledCell(val, ValueStyle(val))
			}
		}
		rows = append(rows, bbtable.NewRow(rowData))
	}

	return New(cols).
		WithRows(rows).
		WithPageSize(max(1, pageSize)).
		WithStaticFooter(Footer(res))
}

// FromColumns builds the schema grid for a table
func FromColumns(columns []db.Column) bbtable.Model {
	headers := []string{ColName, ColType, ColMaxLength, ColNullable}
	data := make([][]string, 0, len(columns))
	for _, c := range columns {
		length := ""
		if c.MaxLength != nil {
			length = strconv.FormatInt(*c.MaxLength, 10)
		}
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		data = append(data, []string{c.Name, c.Type, length, nullable})
	}

	widths := columnWidths(headers, data)
	cols := make([]bbtable.Column, len(headers))
	for i, h := range headers {
		cols[i] = bbtable.NewColumn(h, h, widths[i])
	}

	faint := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))
	rows := make([]bbtable.Row, 0, len(data))
	for _, d := range data {
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			ColName:      d[0],
			ColType:      bbtable.NewStyledCell(d[1], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText))),
			ColMaxLength: d[2],
			ColNullable:  bbtable.NewStyledCell(d[3], faint),
		}))
	}

	return New(cols).WithRows(rows).WithNoPagination()
}

// Footer summarises a result for the grid footer
func Footer(res *db.QueryResult) string {
	return humanize.Comma(int64(res.RowCount)) + " rows in " + res.ExecTime.Round(1e6).String()
}

func columnKeys(names []string) []string {
	seen := make(map[string]int, len(names))
	keys := make([]string, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] > 1 {
			keys[i] = n + "#" + strconv.Itoa(seen[n])
			continue
		}
		keys[i] = n
	}
	return keys
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(val))
			}
		}
	}

	// Add padding
	for i := range widths {
		widths[i] += 2
	}
	return widths
}

// ValueStyle returns a lipgloss style based on value content
func ValueStyle(val string) lipgloss.Style {
	if val == "NULL" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorNull)).Italic(true)
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorNumber))
	}
	lower := strings.ToLower(val)
	if lower == "true" || lower == "false" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBool))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForeground))
}
