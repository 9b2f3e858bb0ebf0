package listing

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the properties schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "listing-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			profile_image TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE properties (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			price REAL NOT NULL,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			created_by TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE SET NULL
		) STRICT;

		CREATE INDEX idx_properties_location ON properties(location);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return db
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	p := &Property{
		Name:        "Harbour View Apartment",
		Location:    "Bristol",
		Price:       325000,
		Bedrooms:    2,
		Description: "Two-bed apartment overlooking the floating harbour.",
	}

	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("Create() should generate an ID")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Harbour View Apartment" {
		t.Errorf("Name = %q, want %q", got.Name, "Harbour View Apartment")
	}
	if got.Location != "Bristol" {
		t.Errorf("Location = %q, want %q", got.Location, "Bristol")
	}
	if got.Price != 325000 {
		t.Errorf("Price = %v, want 325000", got.Price)
	}
	if got.Bedrooms != 2 {
		t.Errorf("Bedrooms = %d, want 2", got.Bedrooms)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo := NewRepository(testDB(t))

	_, err := repo.GetByID(context.Background(), "prp-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRepository_List(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	listings, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("List() on empty table = %d rows, want 0", len(listings))
	}

	for _, name := range []string{"First", "Second", "Third"} {
		if err := repo.Create(ctx, &Property{Name: name, Location: "Bath", Price: 100000}); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	listings, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listings) != 3 {
		t.Errorf("List() = %d rows, want 3", len(listings))
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	p := &Property{Name: "Short Lived", Location: "Cardiff", Price: 90000}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing row error = %v, want ErrNotFound", err)
	}
}
