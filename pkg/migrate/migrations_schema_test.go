package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecoswap/ecoswap-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestProductsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (status IN ('active', 'inactive'))",
		"CREATE INDEX IF NOT EXISTS idx_products_status",
		"DROP TABLE IF EXISTS products",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestExchangesMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_exchanges_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS exchanges",
		"FOREIGN KEY (product_from_id) REFERENCES products(id) ON DELETE CASCADE",
		"FOREIGN KEY (product_to_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (status IN ('pending', 'accepted', 'completed', 'rejected'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_exchanges_pending_product_from",
		"DROP TABLE IF EXISTS exchanges",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
