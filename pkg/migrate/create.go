package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/config"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Drivers lists the databases every migration must be written for.
var Drivers = []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite}

// CreateSQLMigration creates the same goose SQL migration for each driver:
//
//	<root>/<driver>/<YYYYMMDDHHMMSS>_<name>.sql
func CreateSQLMigration(root string, name string, now time.Time) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("dir is required")
	}
	safe := sanitizeName(name)
	if safe == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	version := now.UTC().Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.sql", version, safe)

	created := make([]string, 0, len(Drivers))
	for _, driver := range Drivers {
		dir := filepath.Join(root, driver)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, fmt.Errorf("mkdir %q: %w", dir, err)
		}
		fullpath := filepath.Join(dir, filename)
		if _, err := os.Stat(fullpath); err == nil {
			return created, fmt.Errorf("migration already exists: %s", fullpath)
		}
		if err := os.WriteFile(fullpath, []byte(migrationTemplate(driver, safe)), 0o644); err != nil {
			return created, fmt.Errorf("write migration %q: %w", fullpath, err)
		}
		created = append(created, fullpath)
	}
	return created, nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

func migrationTemplate(driver, name string) string {
	// postgres functions need StatementBegin/End; the others split on semicolons.
	if driver == config.DriverPostgres {
		return fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, name, name)
	}
	return fmt.Sprintf(`-- +goose Up
-- %s

-- +goose Down
-- rollback %s
`, name, name)
}
