package store

import (
	"database/sql"
	"embed"
	"fmt"
	"testing"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const testSchemaFileName = "LATEST_SCHEMA.sql"

//go:embed db/migration
var testMigrationFS embed.FS

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

// newTestStore opens a fresh sqlite database under the test's temp
// directory and applies the latest schema.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	filename := t.TempDir() + "/openshelf_test.db"
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyTestSchema(db); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return NewStore(db)
}

func applyTestSchema(db *sql.DB) error {
	latestSchemaPath := fmt.Sprintf("db/migration/%s", testSchemaFileName)
	buf, err := testMigrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "Failed to read latest schema file: %q", latestSchemaPath)
	}

	stmt := string(buf)
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(stmt); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "Failed to apply latest schema: %s", stmt)
	}
	return tx.Commit()
}

func mustCreateBook(t *testing.T, s *Store, title string, copies int) *model.Book {
	t.Helper()
	book, err := s.CreateBook(&model.Book{
		Title:       title,
		Author:      "Test Author",
		TotalCopies: copies,
	})
	if err != nil {
		t.Fatalf("Failed to create book %q: %v", title, err)
	}
	return book
}

func mustCreateMember(t *testing.T, s *Store, name, registerNumber string) *model.Member {
	t.Helper()
	member, err := s.CreateMember(&model.Member{
		Name:           name,
		RegisterNumber: registerNumber,
	})
	if err != nil {
		t.Fatalf("Failed to create member %q: %v", name, err)
	}
	return member
}

func TestGetOrUpsetSystemSecuritySetting(t *testing.T) {
	s := newTestStore(t)

	system, err := s.GetOrUpsetSystemSecuritySetting()
	if err != nil {
		t.Fatalf("Failed to create system setting: %v", err)
	}
	if system.JWTSecret == "" {
		t.Fatalf("JWT secret is empty")
	}

	again, err := s.GetOrUpsetSystemSecuritySetting()
	if err != nil {
		t.Fatalf("Failed to get system setting: %v", err)
	}
	if again.JWTSecret != system.JWTSecret {
		t.Errorf("JWT secret changed between calls: %q != %q", again.JWTSecret, system.JWTSecret)
	}
}

func TestGetGeneralSystemSetting(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.UpsetGeneralSettings(&model.SystemSettingGeneral{DisableSignup: true}); err != nil {
		t.Fatalf("Failed to upset general settings: %v", err)
	}
	general, err := s.GetSystemGeneralSetting()
	if err != nil {
		t.Fatalf("Failed to get system setting: %v", err)
	}
	if !general.DisableSignup {
		t.Errorf("Expected signup to be disabled")
	}
}
