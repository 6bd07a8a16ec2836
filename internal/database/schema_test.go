package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

var expectedMigrations = map[string]string{
	"users":          "00001_create_users_table.sql",
	"products":       "00002_create_products_table.sql",
	"collections":    "00003_create_collections_table.sql",
	"saved_products": "00004_create_saved_products_table.sql",
}

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	for tableName, migrationFile := range expectedMigrations {
		contentStr := readMigration(t, migrationFile)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}

		if !strings.Contains(contentStr, "seq BIGINT GENERATED ALWAYS AS IDENTITY") {
			t.Errorf("Table %s has no insertion-order column", tableName)
		}
	}
}

func TestProductsTableHasRequiredColumns(t *testing.T) {
	contentStr := readMigration(t, expectedMigrations["products"])

	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"asin VARCHAR(20) UNIQUE NOT NULL",
		"title TEXT NOT NULL",
		"category VARCHAR(255) NOT NULL",
		"price NUMERIC(10, 2) NOT NULL",
		"rating NUMERIC(3, 2)",
		"keywords JSONB NOT NULL DEFAULT '[]'",
		"competition_level VARCHAR(10)",
		"created_at TIMESTAMPTZ",
		"updated_at TIMESTAMPTZ",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing required column definition: %s", column)
		}
	}

	for _, level := range []string{"'low'", "'medium'", "'high'"} {
		if !strings.Contains(contentStr, level) {
			t.Errorf("Products competition_level constraint missing value: %s", level)
		}
	}
}

func TestSavedProductsTableForeignKeys(t *testing.T) {
	contentStr := readMigration(t, expectedMigrations["saved_products"])

	requiredConstraints := []string{
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE SET NULL",
		"tags JSONB NOT NULL DEFAULT '[]'",
	}

	for _, constraint := range requiredConstraints {
		if !strings.Contains(contentStr, constraint) {
			t.Errorf("saved_products table missing: %s", constraint)
		}
	}
}

func TestCollectionsTableOwnership(t *testing.T) {
	contentStr := readMigration(t, expectedMigrations["collections"])

	if !strings.Contains(contentStr, "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE") {
		t.Error("Collections table missing foreign key to users")
	}

	if !strings.Contains(contentStr, "CHECK (length(btrim(name)) > 0)") {
		t.Error("Collections table missing non-blank name constraint")
	}
}

func TestUsersTableSubscriptionTierConstraint(t *testing.T) {
	contentStr := readMigration(t, expectedMigrations["users"])

	for _, tier := range []string{"free", "pro", "enterprise"} {
		if !strings.Contains(contentStr, tier) {
			t.Errorf("Users subscription_tier constraint missing value: %s", tier)
		}
	}
}
