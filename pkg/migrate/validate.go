package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir validates migration filenames + basic SQL headers and returns
// the migration file names in order.
func ValidateDir(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// ValidateTree validates every driver directory under root and requires them
// to carry the same migrations.
func ValidateTree(root string) error {
	var reference []string
	for i, driver := range Drivers {
		names, err := ValidateDir(filepath.Join(root, driver))
		if err != nil {
			return fmt.Errorf("%s: %w", driver, err)
		}
		if i == 0 {
			reference = names
			continue
		}
		if strings.Join(names, ",") != strings.Join(reference, ",") {
			return fmt.Errorf("%s migrations %v differ from %s migrations %v", driver, names, Drivers[0], reference)
		}
	}
	return nil
}
