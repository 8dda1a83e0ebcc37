package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/db"
	"github.com/nhath/sqlstudio/internal/store"
)

type env struct {
	opts     *options
	keyring  *config.KeyringStore
	settings string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	ks := config.NewKeyringStoreWith(keyring.NewArrayKeyring(nil))
	o := &options{
		configPath:   filepath.Join(dir, "config.toml"),
		settingsPath: filepath.Join(dir, "settings.db"),
		openKeyring: func() (config.PasswordStore, error) {
			return ks, nil
		},
	}
	return &env{opts: o, keyring: ks, settings: o.settingsPath}
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(e.opts)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (e *env) store(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(e.settings)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.db")
	d, err := db.Open(context.Background(), db.SQLite, db.ConnectParams{Path: path})
	require.NoError(t, err)
	defer d.Close()

	for _, q := range []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"INSERT INTO users (name) VALUES ('ada'), ('grace, hopper'), (NULL)",
	} {
		_, err := d.Execute(context.Background(), q)
		require.NoError(t, err)
	}
	return path
}

func TestFormat_Stdin(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "select a from t -- where\n", "format")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t -- WHERE\n", out)
}

func TestFormat_FileAndWrite(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("insert into t values (1)"), 0644))

	out, err := e.run(t, "", "format", path)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t values (1)", out)

	_, err = e.run(t, "", "format", "-w", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t values (1)", string(b))

	_, err = e.run(t, "select 1", "format", "-w")
	assert.Error(t, err)
}

func TestFormat_ExtraKeywords(t *testing.T) {
	e := newEnv(t)
	cfg, err := config.LoadFile(e.opts.configPath)
	require.NoError(t, err)
	cfg.ExtraKeywords = []string{"merge", "using"}
	require.NoError(t, cfg.Save())

	out, err := e.run(t, "merge into t using s", "format")
	require.NoError(t, err)
	assert.Equal(t, "MERGE INTO t USING s", out)
}

func TestHighlight(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "select 'x'", "highlight", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "select 'x'", out)

	out, err = e.run(t, "select 'x'", "highlight", "--color", "always", "--style", "monokai")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "select")

	_, err = e.run(t, "select 1", "highlight", "--color", "sometimes")
	assert.Error(t, err)
}

func TestExec_Formats(t *testing.T) {
	path := sampleDB(t)
	query := "SELECT id, name FROM users ORDER BY id"

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"│ id │", "ada", "null", "(3 rows in"}},
		{"csv", []string{"id,name", "1,ada", `2,"grace, hopper"`, "3,null"}},
		{"markdown", []string{"| 1 | ada |", "| --- |"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e := newEnv(t)
			out, err := e.run(t, "", "exec", "-s", path, "-o", tt.format, query)
			require.NoError(t, err)
			// header case depends on the style, compare case-insensitively
			lower := strings.ToLower(out)
			for _, w := range tt.want {
				assert.Contains(t, lower, w)
			}
		})
	}
}

func TestExec_JSON(t *testing.T) {
	path := sampleDB(t)
	e := newEnv(t)

	out, err := e.run(t, "SELECT name FROM users WHERE id = 1", "exec", "-s", path, "-o", "json")
	require.NoError(t, err)

	var got jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"name"}, got.Columns)
	assert.Equal(t, [][]string{{"ada"}}, got.Rows)
}

func TestExec_WriteRecordsRun(t *testing.T) {
	path := sampleDB(t)
	e := newEnv(t)

	out, err := e.run(t, "", "exec", "--server", path, "UPDATE users SET name = 'x'")
	require.NoError(t, err)
	assert.Contains(t, out, "3 rows affected")

	runs, err := e.store(t).RecentRuns(path, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusSuccess, runs[0].Status)
	assert.Equal(t, 3, runs[0].RowCount)
	assert.Equal(t, "main", runs[0].DBName)
}

func TestExec_ErrorRecordsRun(t *testing.T) {
	path := sampleDB(t)
	e := newEnv(t)

	_, err := e.run(t, "", "exec", "-s", path, "SELECT * FROM nope")
	require.Error(t, err)

	runs, err := e.store(t).RecentRuns(path, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusError, runs[0].Status)
}

func TestExec_Validation(t *testing.T) {
	path := sampleDB(t)
	e := newEnv(t)

	_, err := e.run(t, "", "exec", "SELECT 1")
	assert.Error(t, err, "server is required")

	_, err = e.run(t, "", "exec", "-s", path, "-o", "xml", "SELECT 1")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = e.run(t, "   ", "exec", "-s", path)
	assert.ErrorIs(t, err, db.ErrEmptyQuery)

	_, err = e.run(t, "", "exec", "-s", "oracle://x", "SELECT 1")
	assert.Error(t, err)
}

func TestServers(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "servers")
	require.NoError(t, err)
	assert.Equal(t, "(no saved servers)\n", out)

	st := e.store(t)
	require.NoError(t, st.AddServer("db01"))
	require.NoError(t, st.AddServer("db02"))
	require.NoError(t, e.keyring.SetPassword("db01", "pw"))

	out, err = e.run(t, "", "servers")
	require.NoError(t, err)
	assert.Equal(t, "db01\ndb02\n", out)

	out, err = e.run(t, "", "servers", "rm", "db01")
	require.NoError(t, err)
	assert.Equal(t, "Removed db01\n", out)
	_, err = e.keyring.GetPassword("db01")
	assert.ErrorIs(t, err, config.ErrNoPassword)

	_, err = e.run(t, "", "servers", "rm", "db01")
	assert.ErrorContains(t, err, "not saved")
}

func TestServers_Runs(t *testing.T) {
	path := sampleDB(t)
	e := newEnv(t)

	out, err := e.run(t, "", "servers", "runs", path)
	require.NoError(t, err)
	assert.Equal(t, "(no runs)\n", out)

	_, err = e.run(t, "", "exec", "-s", path, "SELECT   *\nFROM users")
	require.NoError(t, err)

	out, err = e.run(t, "", "servers", "runs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT * FROM users")
	assert.Contains(t, out, "success")
}

func TestServers_Password(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "s3cret\n", "servers", "password", "sqlserver://sa@db01")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored password")
	pw, err := e.keyring.GetPassword("sqlserver://sa@db01")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	_, err = e.run(t, "tunnelpw", "servers", "password", "--ssh", "db01")
	require.NoError(t, err)
	pw, err = e.keyring.GetPassword("ssh:db01")
	require.NoError(t, err)
	assert.Equal(t, "tunnelpw", pw)

	_, err = e.run(t, "", "servers", "password", "db01")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "sqlstudio v"+Version+" ("+GitCommit+")\n", out)
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()
	for _, f := range []string{"config", "settings", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(f), f)
	}
	assert.NotNil(t, cmd.Flags().Lookup("server"))

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"version", "format", "highlight", "exec", "servers"} {
		assert.True(t, names[n], n)
	}
}

func TestRootCmd_KeepsPresetPaths(t *testing.T) {
	e := newEnv(t)
	configPath := e.opts.configPath

	_, err := e.run(t, "select 1", "format")
	require.NoError(t, err)
	_, err = e.run(t, "", "servers")
	require.NoError(t, err)

	assert.Equal(t, configPath, e.opts.configPath)
	assert.Equal(t, e.settings, e.opts.settingsPath)
	assert.FileExists(t, configPath)
	assert.FileExists(t, e.settings)

	// explicit flags still override
	other := filepath.Join(t.TempDir(), "other.toml")
	_, err = e.run(t, "select 1", "--config", other, "format")
	require.NoError(t, err)
	assert.FileExists(t, other)
}
