package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/config"
	"github.com/angelmondragon/discswap-backend/pkg/db"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn, sqlDB
}

func tableExists(t *testing.T, conn *gorm.DB, table string) bool {
	t.Helper()
	var count int64
	require.NoError(t, conn.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count).Error)
	return count == 1
}

func TestDialect(t *testing.T) {
	cases := map[string]string{
		config.DriverPostgres: "postgres",
		config.DriverMySQL:    "mysql",
		config.DriverSQLite:   "sqlite3",
	}
	for driver, want := range cases {
		got, err := Dialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Dialect("oracle")
	assert.Error(t, err)
}

func TestDirFor(t *testing.T) {
	assert.Equal(t, "pkg/migrate/migrations/mysql", DirFor("", config.DriverMySQL))
	assert.Equal(t, "db/sqlite", DirFor("db", config.DriverSQLite))
}

func TestEmbeddedMigrationsUpAndDown(t *testing.T) {
	ctx := context.Background()
	conn, sqlDB := openSQLite(t)

	require.NoError(t, Run(ctx, sqlDB, config.DriverSQLite, "", "up"))
	assert.True(t, tableExists(t, conn, "disc_listings"))

	version, err := Version(ctx, sqlDB, config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20240501120000), version)

	require.NoError(t, conn.Exec(`INSERT INTO disc_listings (brand, name, weight, color, plastic, owner, terms, date_listed)
VALUES ('Innova', 'Destroyer', 172, 'orange', 'Star', 'user-1', 'anything', CURRENT_TIMESTAMP)`).Error)

	var row struct {
		TermsKind string
		Status    string
	}
	require.NoError(t, conn.Raw("SELECT terms_kind, status FROM disc_listings").Scan(&row).Error)
	assert.Equal(t, "looking_for", row.TermsKind)
	assert.Equal(t, "listed", row.Status)

	err = conn.Exec(`INSERT INTO disc_listings (brand, name, weight, color, plastic, owner, terms, date_listed)
VALUES ('Innova', 'Destroyer', 0, 'orange', 'Star', 'user-1', 'anything', CURRENT_TIMESTAMP)`).Error
	assert.Error(t, err, "weight must be positive")

	require.NoError(t, Run(ctx, sqlDB, config.DriverSQLite, "", "down"))
	assert.False(t, tableExists(t, conn, "disc_listings"))
}

func TestMigrateToVersion(t *testing.T) {
	ctx := context.Background()
	conn, sqlDB := openSQLite(t)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "", "20240501120000"))
	assert.True(t, tableExists(t, conn, "disc_listings"))

	// already there
	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "", "20240501120000"))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "", "0"))
	assert.False(t, tableExists(t, conn, "disc_listings"))

	assert.Error(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "", "latest"))
	assert.Error(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "", ""))
}

func TestRunRejectsBadInput(t *testing.T) {
	_, sqlDB := openSQLite(t)
	assert.Error(t, Run(context.Background(), nil, config.DriverSQLite, "", "up"))
	assert.Error(t, Run(context.Background(), sqlDB, "oracle", "", "up"))
}

func TestMaybeRunDev(t *testing.T) {
	ctx := context.Background()

	conn, _ := openSQLite(t)
	client := db.NewFromGorm(conn, config.DriverSQLite)
	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvProd}}

	require.NoError(t, MaybeRunDev(ctx, cfg, logger.Nop(), client))
	assert.True(t, tableExists(t, conn, "disc_listings"), "sqlite is always migrated")
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	conn, _ := openSQLite(t)
	client := db.NewFromGorm(conn, config.DriverPostgres)
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}

	require.NoError(t, MaybeRunDev(context.Background(), cfg, logger.Nop(), client))
	assert.False(t, tableExists(t, conn, "disc_listings"))
}

func TestCheckedInMigrationsAreConsistent(t *testing.T) {
	require.NoError(t, ValidateTree("migrations"))

	for _, driver := range Drivers {
		data, err := os.ReadFile(filepath.Join("migrations", driver, "20240501120000_create_disc_listings.sql"))
		require.NoError(t, err)
		content := string(data)
		for _, sub := range []string{
			"CREATE TABLE IF NOT EXISTS disc_listings",
			"disc_listings_brand_idx",
			"disc_listings_name_idx",
			"disc_listings_owner_idx",
			"DROP TABLE IF EXISTS disc_listings",
		} {
			assert.Contains(t, content, sub, driver)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	paths, err := CreateSQLMigration(root, "Add Listing Notes!", now)
	require.NoError(t, err)
	require.Len(t, paths, len(Drivers))
	for _, p := range paths {
		assert.Equal(t, "20240601093000_add_listing_notes.sql", filepath.Base(p))
	}
	require.NoError(t, ValidateTree(root))

	_, err = CreateSQLMigration(root, "add listing notes", now)
	assert.ErrorContains(t, err, "already exists")

	_, err = CreateSQLMigration(root, "!!!", now)
	assert.Error(t, err)
}

func TestValidateTreeDetectsDrift(t *testing.T) {
	root := t.TempDir()
	_, err := CreateSQLMigration(root, "first", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(root, config.DriverMySQL, "20240601000000_first.sql")))

	assert.ErrorContains(t, ValidateTree(root), "differ")
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	_, err := ValidateDir(dir)
	assert.ErrorContains(t, err, "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_x.sql"), []byte("-- +goose Up\n"), 0o644))
	_, err = ValidateDir(dir)
	assert.ErrorContains(t, err, "missing")
}
