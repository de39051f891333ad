package database

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassiony1/public-ANEES/core"
)

func TestMigrations(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "anees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))

	var tables []string
	require.NoError(t, db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'goose%' AND name NOT LIKE 'sqlite%' ORDER BY name"))
	assert.Equal(t, []string{
		"child_levels", "children", "expressive_games", "levels",
		"receptive_games", "receptive_images", "social_games", "social_messages",
	}, tables)

	require.NoError(t, RunMigrations(db, "down"))
	tables = nil
	require.NoError(t, db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'levels'"))
	assert.Empty(t, tables)

	// migrating twice is harmless
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestGooseDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", gooseDialect(SQLite))
	assert.Equal(t, "postgres", gooseDialect(Postgres))
}

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{Engine: "oracle"}}
	_, err := Open(conf)
	assert.Error(t, err)
	assert.NoError(t, CreateIfNotExist(conf))
}

func TestSQLiteDSN(t *testing.T) {
	dsn := sqliteDSN("anees.db")
	assert.True(t, strings.HasPrefix(dsn, "anees.db?"))
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Contains(t, dsn, "_pragma=busy_timeout%285000%29")
}

func TestOpenSQLite_concurrentReadThenWrite(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "anees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("CREATE TABLE counter (n INTEGER NOT NULL)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO counter (n) VALUES (0)")
	require.NoError(t, err)

	const writers = 8
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- core.RunInTx(context.Background(), db, func(exec core.DBExecutor) error {
				var n int
				if err := exec.QueryRowContext(context.Background(), "SELECT n FROM counter").Scan(&n); err != nil {
					return err
				}
				_, err := exec.ExecContext(context.Background(), "UPDATE counter SET n = ?", n+1)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var n int
	require.NoError(t, db.Get(&n, "SELECT n FROM counter"))
	assert.Equal(t, writers, n)
}
