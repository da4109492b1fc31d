package database

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypete/employee-tracker/pkg/config"
)

// setupTestDB provisions the database named by DATABASE_URL.
// Skips when DATABASE_URL is not set.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv())

	ctx := context.Background()
	_, err := EnsureDatabase(ctx, cfg.Database, zerolog.Nop())
	require.NoError(t, err)

	db, err := Open(ctx, cfg.Database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestSetup_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Seed(ctx))

	first := map[string]int{}
	for _, table := range []string{"department", "role", "employee"} {
		first[table] = countRows(t, db, table)
	}

	// A fresh handle runs goose again instead of hitting the migrated flag.
	again := New(db.DB.DB, db.Name(), zerolog.Nop())
	require.NoError(t, again.Migrate(ctx))
	require.NoError(t, again.Seed(ctx))

	for table, n := range first {
		assert.Equal(t, n, countRows(t, db, table), "row count changed for %s", table)
	}
}

func TestSeed_ReferentialIntegrity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Seed(ctx))

	var dangling int
	require.NoError(t, db.Get(&dangling, `
		SELECT COUNT(*) FROM role r
		LEFT JOIN department d ON r.department_id = d.id
		WHERE d.id IS NULL`))
	assert.Zero(t, dangling)

	require.NoError(t, db.Get(&dangling, `
		SELECT COUNT(*) FROM employee e
		LEFT JOIN role r ON e.role_id = r.id
		LEFT JOIN employee m ON e.manager_id = m.id
		WHERE r.id IS NULL OR (e.manager_id IS NOT NULL AND m.id IS NULL)`))
	assert.Zero(t, dangling)

	var duplicates int
	require.NoError(t, db.Get(&duplicates, `
		SELECT COUNT(*) FROM (SELECT name FROM department GROUP BY name HAVING COUNT(*) > 1) d`))
	assert.Zero(t, duplicates)

	// Each sample role sits in the department at the same seed position.
	data := DefaultSeed()
	for _, role := range data.Roles {
		var dept string
		require.NoError(t, db.Get(&dept, `
			SELECT d.name FROM role r JOIN department d ON r.department_id = d.id
			WHERE r.title = $1`, role.Title))
		assert.Equal(t, data.Departments[role.Department-1], dept)
	}
}
