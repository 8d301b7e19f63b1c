package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"strconv"
	"sync"

	"github.com/angelmondragon/discswap-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

// DefaultDir holds one migrations subdirectory per database driver.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations
var embedded embed.FS

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

// Dialect maps a configured driver to its goose dialect.
func Dialect(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported migration driver %q", driver)
	}
}

// DirFor returns the migrations directory for driver under root.
func DirFor(root, driver string) string {
	if root == "" {
		root = DefaultDir
	}
	return path.Join(root, driver)
}

// Run executes a standard goose command that requires a DB connection. An
// empty dir runs the migrations compiled into the binary.
func Run(ctx context.Context, db *sql.DB, driver, dir, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	return withGoose(driver, dir, func(dir string) error {
		if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver, dir, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	return withGoose(driver, dir, func(dir string) error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}

		switch {
		case current == target:
			return nil
		case current < target:
			if err := goose.UpToContext(ctx, db, dir, target); err != nil {
				return fmt.Errorf("goose up-to %d: %w", target, err)
			}
			return nil
		default:
			if err := goose.DownToContext(ctx, db, dir, target); err != nil {
				return fmt.Errorf("goose down-to %d: %w", target, err)
			}
			return nil
		}
	})
}

// Version reports the current schema version.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	var version int64
	err := withGoose(driver, "", func(string) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		version = v
		return err
	})
	return version, err
}

func withGoose(driver, dir string, fn func(dir string) error) error {
	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(embedded)
		defer goose.SetBaseFS(nil)
		dir = path.Join("migrations", driver)
	}
	return fn(dir)
}
