package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestMigrationsApplyOnSQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Run(context.Background(), sqlDB, Dialect("sqlite"), "migrations", "up"))

	for _, table := range []string{"products", "carts", "cart_lines", "users", "tickets"} {
		assert.True(t, conn.Migrator().HasTable(table), "expected table %s", table)
	}
	assert.True(t, conn.Migrator().HasColumn("carts", "expires_at"))
	assert.True(t, conn.Migrator().HasColumn("cart_lines", "debited_qty"))

	require.NoError(t, Run(context.Background(), sqlDB, Dialect("sqlite"), "migrations", "down-to", "0"))
	assert.False(t, conn.Migrator().HasTable("products"))
}

func TestCartMigrationGuardsQuantities(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_carts.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE",
		"CHECK (quantity >= 1)",
		"CHECK (debited_qty >= 0 AND debited_qty <= quantity)",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_lines_cart_product",
	} {
		assert.True(t, strings.Contains(content, sub), "missing %q", sub)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Cart Notes!", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260304050607_add_cart_notes.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "Add Cart Notes!", now)
	assert.Error(t, err, "duplicate file must be rejected")

	_, err = CreateSQLMigration(dir, "!!!", now)
	assert.Error(t, err)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(dir))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", Dialect("sqlite"))
	assert.Equal(t, "postgres", Dialect("postgres"))
	assert.Equal(t, "postgres", Dialect(""))
}
