// Package icons holds the Nerd Font glyphs used in the status bar.
package icons

import "github.com/nhath/sqlstudio/internal/db"

const (
	// Database icons
	IconSQLServer = ""
	IconPostgres  = ""
	IconMySQL     = ""
	IconSQLite    = ""
	IconGeneric   = ""

	// Utility icons
	IconTable     = ""
	IconSuccess   = "✓"
	IconError     = "✗"
	IconWarning   = "⚠"
	IconSeparator = "  •  "
)

// ForDriver returns the icon for a database engine
func ForDriver(t db.DriverType) string {
	switch t {
	case db.SQLServer:
		return IconSQLServer
	case db.Postgres:
		return IconPostgres
	case db.MySQL:
		return IconMySQL
	case db.SQLite:
		return IconSQLite
	default:
		return IconGeneric
	}
}
