// internal/ui/model_helpers.go
// Small helper functions used across the UI layer
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// isSchemaChange returns true if the statement may add or drop tables
func isSchemaChange(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "CREATE", "DROP", "ALTER":
		return true
	}
	return false
}

// matchKey returns true if the key message matches any of the provided key strings
func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen || maxLen < 5 {
		return s
	}
	half := (maxLen - 3) / 2
	return string(r[:half]) + "..." + string(r[len(r)-half:])
}
