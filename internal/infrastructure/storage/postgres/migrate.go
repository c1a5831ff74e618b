package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"backoffice/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the embedded schema files in name order.
// Every file is written to be idempotent, so Migrate can run on each start.
func Migrate(ctx context.Context, db Querier) error {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		logger.Debug(ctx, "migration applied", "file", name)
	}
	return nil
}
