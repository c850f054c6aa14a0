package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"food-marketplace/pkg/logger"
)

// Migrate applies every *.sql file in migrations that has not been recorded
// in schema_migrations, in lexical order, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, migrations fs.FS, log *logger.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			migration_name VARCHAR(255) PRIMARY KEY,
			applied_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, name := range files {
		if applied[name] {
			continue
		}
		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return err
		}
		if err := applyMigration(ctx, db, name, string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		log.Info("migration_applied", "startup", "Applied migration "+name, nil)
	}
	return nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT migration_name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, name, content string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if strings.TrimSpace(content) != "" {
		if _, err := tx.ExecContext(ctx, content); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (migration_name) VALUES ($1)", name); err != nil {
		return err
	}
	return tx.Commit()
}
