package store

import (
	"strings"
	"time"
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Run represents a single query execution
type Run struct {
	ID           int64
	ServerName   string
	DBName       string
	Query        string
	ExecutedAt   time.Time
	DurationMs   int64
	RowCount     int
	Status       string
	ErrorMessage string
}

// QueryPreview returns the query on one line, truncated to maxLen runes
func (r *Run) QueryPreview(maxLen int) string {
	q := []rune(strings.Join(strings.Fields(r.Query), " "))
	if len(q) > maxLen && maxLen > 3 {
		return string(q[:maxLen-3]) + "..."
	}
	return string(q)
}
