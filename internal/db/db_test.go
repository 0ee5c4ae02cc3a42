package db

import "testing"

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	var n int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('catalog_items', 'settings')`,
	).Scan(&n)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 tables, got %d", n)
	}
}

func TestCatalogRejectsBlankNames(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO catalog_items (name) VALUES ('  ')`); err == nil {
		t.Error("expected blank name to violate the check constraint")
	}
}
