// internal/ui/model_types.go
// Type definitions for the UI layer
package ui

// Focus identifies the pane receiving keys
type Focus int

const (
	FocusServer Focus = iota
	FocusDatabases
	FocusTables
	FocusFilter
	FocusEditor
	FocusResults
)

// focusOrder is the tab cycle. The filter is reached with the filter key.
var focusOrder = []Focus{FocusServer, FocusDatabases, FocusTables, FocusEditor, FocusResults}

func (f Focus) String() string {
	switch f {
	case FocusServer:
		return "SERVER"
	case FocusDatabases:
		return "DATABASES"
	case FocusTables:
		return "TABLES"
	case FocusFilter:
		return "FILTER"
	case FocusEditor:
		return "EDITOR"
	case FocusResults:
		return "RESULTS"
	default:
		return "?"
	}
}

// GridMode says what the results grid is showing
type GridMode int

const (
	GridEmpty GridMode = iota
	GridResults
	GridSchema
)
