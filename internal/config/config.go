// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/nhath/sqlstudio/internal/log"
)

// Config represents the application configuration
type Config struct {
	DefaultServer   string            `toml:"default_server"`
	InitialDatabase map[string]string `toml:"initial_database"` // driver type -> database
	QueryTimeout    int               `toml:"query_timeout"`    // seconds
	PageSize        int               `toml:"page_size"`
	CatalogTTL      int               `toml:"catalog_ttl"` // seconds
	HighlightStyle  string            `toml:"highlight_style"`
	ExtraKeywords   []string          `toml:"extra_keywords"`
	Theme           Theme             `toml:"theme_colors"`
	Keys            KeyMap            `toml:"keys"`
	Tunnels         map[string]Tunnel `toml:"tunnels"` // server -> SSH tunnel

	path string
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	BorderColor   string `toml:"border"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Connect    []string `toml:"connect"`
	Execute    []string `toml:"execute"`
	Save       []string `toml:"save"`
	Schema     []string `toml:"schema"`
	Capitalize []string `toml:"capitalize"`
	Filter     []string `toml:"filter"`
	NextFocus  []string `toml:"next_focus"`
	PrevFocus  []string `toml:"prev_focus"`
	Quit       []string `toml:"quit"`
}

// Tunnel holds SSH settings used to reach a server
type Tunnel struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	KeyPath         string `toml:"key_path"`
	KnownHosts      string `toml:"known_hosts"`       // default ~/.ssh/known_hosts
	InsecureHostKey bool   `toml:"insecure_host_key"` // skip host key verification
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		InitialDatabase: map[string]string{
			"sqlserver": "master",
			"postgres":  "postgres",
			"mysql":     "",
		},
		QueryTimeout:   30,
		PageSize:       50,
		CatalogTTL:     300,
		HighlightStyle: "nord",
		ExtraKeywords:  []string{},
		Theme: Theme{
			// Nord
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			BorderColor:   "#4C566A",
		},
		Keys: KeyMap{
			Connect:    []string{"ctrl+o"},
			Execute:    []string{"ctrl+r", "f5"},
			Save:       []string{"ctrl+s"},
			Schema:     []string{"ctrl+t"},
			Capitalize: []string{"ctrl+k"},
			Filter:     []string{"/"},
			NextFocus:  []string{"tab"},
			PrevFocus:  []string{"shift+tab"},
			Quit:       []string{"ctrl+c"},
		},
		Tunnels: map[string]Tunnel{},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("sqlstudio/config.toml")
}

// Load loads the config from the XDG location, creating it on first run
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the config from path, creating it with defaults if missing
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		log.Info(log.CatConfig, "created default config", "path", path)
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.path = path

	if cfg.fillDefaults() {
		// Persist back-filled sections so they are visible to the user
		if err := cfg.Save(); err != nil {
			log.ErrorErr(log.CatConfig, "could not persist migrated config", err, "path", path)
		}
	}
	return &cfg, nil
}

// fillDefaults populates missing sections and reports whether anything changed
func (c *Config) fillDefaults() bool {
	defaults := DefaultConfig()
	updated := false

	if c.InitialDatabase == nil {
		c.InitialDatabase = defaults.InitialDatabase
		updated = true
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = defaults.QueryTimeout
		updated = true
	}
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
		updated = true
	}
	if c.CatalogTTL <= 0 {
		c.CatalogTTL = defaults.CatalogTTL
		updated = true
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = defaults.HighlightStyle
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	if len(c.Keys.Execute) == 0 {
		c.Keys = defaults.Keys
		updated = true
	}
	if c.Tunnels == nil {
		c.Tunnels = map[string]Tunnel{}
	}
	return updated
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
		c.path = path
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// InitialDatabaseFor returns the database to open right after connecting
func (c *Config) InitialDatabaseFor(driverType string) string {
	return c.InitialDatabase[driverType]
}

// TunnelFor returns the SSH tunnel configured for server, if any
func (c *Config) TunnelFor(server string) (Tunnel, bool) {
	t, ok := c.Tunnels[server]
	return t, ok && t.Host != ""
}
