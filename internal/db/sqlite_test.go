package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLiteDriver {
	t.Helper()
	d := &SQLiteDriver{}
	err := d.Connect(context.Background(), ConnectParams{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestSQLiteDriver_Roundtrip(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)
	require.NoError(t, d.Ping(ctx))
	assert.Equal(t, "main", d.Database())

	_, err := d.Execute(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(40) NOT NULL, email TEXT)`)
	require.NoError(t, err)

	res, err := d.Execute(ctx, `INSERT INTO users (name, email) VALUES ('ada', NULL), ('bob', 'b@x')`)
	require.NoError(t, err)
	assert.False(t, res.IsSelect)
	assert.Equal(t, int64(2), res.AffectedRows)

	res, err = d.Execute(ctx, "select id, name, email from users order by id")
	require.NoError(t, err)
	assert.True(t, res.IsSelect)
	assert.Equal(t, [][]string{{"1", "ada", "NULL"}, {"2", "bob", "b@x"}}, res.Rows)

	tables, err := d.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TableRef{{Name: "users"}}, tables)

	n, err := d.CountRows(ctx, TableRef{Name: "users"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	cols, err := d.Columns(ctx, TableRef{Name: "users"})
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "name", cols[1].Name)
	assert.Equal(t, "VARCHAR(40)", cols[1].Type)
	assert.False(t, cols[1].Nullable)
	assert.True(t, cols[2].Nullable)
	assert.Nil(t, cols[2].MaxLength)

	dbs, err := d.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Contains(t, dbs, "main")
}

func TestSQLiteDriver_FailedWriteRollsBack(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	_, err := d.Execute(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = d.Execute(ctx, "INSERT INTO t VALUES (1)")
	require.NoError(t, err)

	_, err = d.Execute(ctx, "INSERT INTO t VALUES (2), (1)")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)

	n, err := d.CountRows(ctx, TableRef{Name: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteDriver_QuotedNames(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	_, err := d.Execute(ctx, `CREATE TABLE "odd ""name""" (x INT)`)
	require.NoError(t, err)

	tables, err := d.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, `odd "name"`, tables[0].Name)
	assert.Equal(t, `"odd ""name"""`, d.QuoteTable(tables[0]))

	n, err := d.CountRows(ctx, tables[0])
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteDriver_NeedsPath(t *testing.T) {
	d := &SQLiteDriver{}
	err := d.Connect(context.Background(), ConnectParams{})
	var ce *ConnectionError
	assert.ErrorAs(t, err, &ce)
}

func TestSQLiteDriver_InMemory(t *testing.T) {
	ctx := context.Background()
	d, err := Open(ctx, SQLite, ConnectParams{Path: ":memory:"})
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Execute(ctx, "CREATE TABLE a (x INT)")
	require.NoError(t, err)
	// single connection keeps the table visible
	res, err := d.Execute(ctx, "SELECT COUNT(*) FROM a")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"0"}}, res.Rows)
}
