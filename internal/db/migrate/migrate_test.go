package migrate

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestRun_embedded(t *testing.T) {
	db := memDB(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, discard()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&n))
	assert.Equal(t, 5, n, "default settings are seeded")

	var width string
	require.NoError(t, db.QueryRow(`SELECT value FROM settings WHERE key = 'chart.width'`).Scan(&width))
	assert.Equal(t, "600", width)

	// Second run is a no-op and keeps edited values.
	_, err := db.Exec(`UPDATE settings SET value = '800' WHERE key = 'chart.width'`)
	require.NoError(t, err)
	require.NoError(t, Run(ctx, db, discard()))
	require.NoError(t, db.QueryRow(`SELECT value FROM settings WHERE key = 'chart.width'`).Scan(&width))
	assert.Equal(t, "800", width)
}

func TestRun_order(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_add.sql":    {Data: []byte(`INSERT INTO t (v) VALUES ('second');`)},
		"sql/0001_create.sql": {Data: []byte(`CREATE TABLE t (v TEXT);`)},
		"sql/README.md":       {Data: []byte(`not a migration`)},
	}
	db := memDB(t)

	require.NoError(t, run(context.Background(), db, fsys, discard()))

	var versions []string
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var v string
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	assert.Equal(t, []string{"0001", "0002"}, versions)
}

func TestRun_failedMigrationRollsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_create.sql": {Data: []byte(`CREATE TABLE t (v TEXT);`)},
		"sql/0002_broken.sql": {Data: []byte(`INSERT INTO missing VALUES (1);`)},
	}
	db := memDB(t)

	err := run(context.Background(), db, fsys, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_broken.sql")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = '0002'`).Scan(&n))
	assert.Zero(t, n)
}

func TestRun_duplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_a.sql": {Data: []byte(`SELECT 1;`)},
		"sql/0001_b.sql": {Data: []byte(`SELECT 1;`)},
	}
	err := run(context.Background(), memDB(t), fsys, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		in      string
		version string
		name    string
		ok      bool
	}{
		{in: "0001_settings.sql", version: "0001", name: "settings", ok: true},
		{in: "0010_add_index.sql", version: "0010", name: "add_index", ok: true},
		{in: "1_short.sql", ok: false},
		{in: "0001_settings.txt", ok: false},
	}
	for _, tt := range tests {
		v, n, ok := parseMigrationFilename(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.version, v, tt.in)
		assert.Equal(t, tt.name, n, tt.in)
	}
}
