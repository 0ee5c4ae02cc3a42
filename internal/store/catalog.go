package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ListCatalogItems returns all stored item names in the order they were added.
func ListCatalogItems(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM catalog_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// EnsureCatalogItems stores every name that is not stored yet, skipping
// blank names. It returns how many names were added.
func EnsureCatalogItems(ctx context.Context, db *sql.DB, names ...string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		result, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO catalog_items (name) VALUES (?)`, name,
		)
		if err != nil {
			return 0, fmt.Errorf("storing catalog item %q: %w", name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting stored catalog items: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing catalog items: %w", err)
	}
	return added, nil
}

// SeedCatalog stores the given names when the catalog is still empty, so a
// configured seed list only applies on first start.
func SeedCatalog(ctx context.Context, db *sql.DB, names []string) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&count); err != nil {
		return fmt.Errorf("counting catalog items: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := EnsureCatalogItems(ctx, db, names...); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	return nil
}
