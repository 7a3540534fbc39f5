package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCoreMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no core tables migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE books",
		"CREATE TABLE vendors",
		"CREATE TABLE customers",
		"CREATE TABLE purchases",
		"CREATE TABLE sales",
		"CREATE TABLE sales_returns",
		"CHECK (quantity >= 1)",
		"CHECK (quantity >= 0)",
		"ON books (isbn) WHERE isbn IS NOT NULL",
		"DROP TABLE sales_returns",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
