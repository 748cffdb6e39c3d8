package util

import (
	"database/sql"
	"testing"
)

// The package init() registers sortconcat and concat on the driver.
func TestCustomFunction(t *testing.T) {
	withDB := func(test func(db *sql.DB)) {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		test(db)
	}

	t.Run("Test SortedConcatenate", func(tt *testing.T) {
		withDB(func(db *sql.DB) {
			if _, err := db.Exec("DROP TABLE IF EXISTS test; CREATE TABLE IF NOT EXISTS test (id INTEGER, value TEXT); INSERT INTO test VALUES (1, 'Cosmos'), (3, 'Walden'), (2, 'Dune'), (4, 'Emma')"); err != nil {
				tt.Errorf("Error: %v", err)
			}
			row := db.QueryRow("SELECT sortconcat(id, value) FROM test")

			var result string
			if err := row.Scan(&result); err != nil {
				tt.Errorf("Error: %v", err)
			}
			tt.Log("result: ", result)
			if result != "Cosmos,Dune,Walden,Emma" {
				tt.Errorf("Expected: %s, got: %s", "Cosmos,Dune,Walden,Emma", result)
			}
		})
	})

	t.Run("Test Concatenate", func(tt *testing.T) {
		withDB(func(db *sql.DB) {
			if _, err := db.Exec("DROP TABLE IF EXISTS test; CREATE TABLE IF NOT EXISTS test (id INTEGER, value TEXT); INSERT INTO test VALUES (1, 'Cosmos'), (3, 'Walden'), (2, 'Dune'), (4, 'Emma')"); err != nil {
				tt.Errorf("Error: %v", err)
			}
			row := db.QueryRow("SELECT concat(value) FROM test")

			var result string
			if err := row.Scan(&result); err != nil {
				tt.Errorf("Error: %v", err)
			}
			if result != "Cosmos,Walden,Dune,Emma" {
				tt.Errorf("Expected: %s, got: %s", "Cosmos,Walden,Dune,Emma", result)
			}
		})
	})
}
