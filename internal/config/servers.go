// internal/config/servers.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/log"
)

// Server is a parsed server string as typed in the sidebar or passed with --server
type Server struct {
	Raw      string
	Type     db.DriverType
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Path     string // SQLite file
	Params   map[string]string
}

var defaultPorts = map[db.DriverType]int{
	db.SQLServer: 1433,
	db.Postgres:  5432,
	db.MySQL:     3306,
}

// ParseServer parses a server string into a Server.
// A bare word is treated as a SQL Server host, a path ending in .db or
// .sqlite as a SQLite file.
func ParseServer(s string) (Server, error) {
	raw := strings.TrimSpace(s)
	srv := Server{Raw: raw, Params: map[string]string{}}
	if raw == "" {
		return srv, fmt.Errorf("server is empty")
	}

	scheme, _, hasScheme := strings.Cut(raw, "://")
	switch {
	case hasScheme && (scheme == "sqlserver" || scheme == "mssql"):
		return parseURL(srv, db.SQLServer)
	case hasScheme && (scheme == "postgres" || scheme == "postgresql"):
		return parseURL(srv, db.Postgres)
	case hasScheme && scheme == "mysql":
		return parseURL(srv, db.MySQL)
	case hasScheme && scheme == "sqlite":
		srv.Type = db.SQLite
		srv.Path = strings.TrimPrefix(raw, "sqlite://")
	case strings.HasPrefix(raw, "file:"):
		srv.Type = db.SQLite
		srv.Path = strings.TrimPrefix(raw, "file:")
	case hasScheme:
		return srv, fmt.Errorf("unsupported scheme %q", scheme)
	case isSQLitePath(raw):
		srv.Type = db.SQLite
		srv.Path = raw
	default:
		// host, host:port or host\instance
		srv.Type = db.SQLServer
		host, port, err := splitHostPort(raw, defaultPorts[db.SQLServer])
		if err != nil {
			return srv, err
		}
		srv.Host, srv.Port = host, port
	}

	if srv.Type == db.SQLite && srv.Path == "" {
		return srv, fmt.Errorf("sqlite server needs a file path")
	}
	return srv, nil
}

func parseURL(srv Server, t db.DriverType) (Server, error) {
	u, err := url.Parse(srv.Raw)
	if err != nil {
		return srv, err
	}
	srv.Type = t
	srv.Host = u.Hostname()
	if srv.Host == "" {
		return srv, fmt.Errorf("server %q has no host", srv.Raw)
	}
	if port := u.Port(); port == "" {
		srv.Port = defaultPorts[t]
	} else if srv.Port, err = strconv.Atoi(port); err != nil {
		return srv, fmt.Errorf("invalid port %q", port)
	}
	srv.User = u.User.Username()
	srv.Password, _ = u.User.Password()
	srv.Database = strings.TrimPrefix(u.Path, "/")
	for k, v := range u.Query() {
		if len(v) > 0 {
			srv.Params[k] = v[0]
		}
	}
	// sqlserver://host?database=x
	if srv.Database == "" {
		if d, ok := srv.Params["database"]; ok {
			srv.Database = d
			delete(srv.Params, "database")
		}
	}
	return srv, nil
}

func splitHostPort(s string, fallback int) (string, int, error) {
	host, port, ok := strings.Cut(s, ":")
	if !ok {
		host, port, ok = strings.Cut(s, ",") // SQL Server "host,port"
	}
	if !ok {
		return s, fallback, nil
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", port)
	}
	return host, p, nil
}

func isSQLitePath(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") ||
		strings.HasSuffix(lower, ".sqlite3") || s == ":memory:"
}

// Name is the key used for the store, the keyring and tunnels
func (s Server) Name() string {
	return s.Raw
}

// ConnectParams builds driver connection parameters for database.
// An empty database falls back to the one in the server string.
// A password embedded in the server string wins over password.
func (s Server) ConnectParams(database, password string) db.ConnectParams {
	if database == "" {
		database = s.Database
	}
	if s.Password != "" {
		password = s.Password
	}
	params := make(map[string]string, len(s.Params))
	for k, v := range s.Params {
		params[k] = v
	}
	return db.ConnectParams{
		Host:     s.Host,
		Port:     s.Port,
		User:     s.User,
		Password: password,
		Database: database,
		Path:     s.Path,
		Params:   params,
	}
}

// SSHConfig converts a configured tunnel into driver settings
func (t Tunnel) SSHConfig(password string) *db.SSHConfig {
	port := t.Port
	if port == 0 {
		port = 22
	}
	return &db.SSHConfig{
		Host:     t.Host,
		Port:     port,
		User:     t.User,
		Password: password,
		KeyPath:  t.KeyPath,

		KnownHosts:      t.KnownHosts,
		InsecureHostKey: t.InsecureHostKey,
	}
}

// Resolve builds connection parameters for srv, filling the password from
// passwords and attaching the server's SSH tunnel. An empty database means
// the one in the server string, then the configured initial database for
// the engine. passwords may be nil.
func (c *Config) Resolve(srv Server, database string, passwords PasswordStore) db.ConnectParams {
	if database == "" {
		database = srv.Database
	}
	if database == "" {
		database = c.InitialDatabaseFor(string(srv.Type))
	}

	password := ""
	if srv.User != "" && srv.Password == "" {
		password = lookupPassword(passwords, srv.Name())
	}
	params := srv.ConnectParams(database, password)

	if t, ok := c.TunnelFor(srv.Name()); ok {
		sshPassword := ""
		if t.KeyPath == "" {
			sshPassword = lookupPassword(passwords, "ssh:"+srv.Name())
		}
		params.SSHConfig = t.SSHConfig(sshPassword)
	}
	return params
}

func lookupPassword(passwords PasswordStore, key string) string {
	if passwords == nil {
		return ""
	}
	pw, err := passwords.GetPassword(key)
	if err != nil {
		if !errors.Is(err, ErrNoPassword) {
			log.ErrorErr(log.CatConfig, "keyring lookup failed", err, "key", key)
		}
		return ""
	}
	return pw
}
