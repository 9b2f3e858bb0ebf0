package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for property persistence.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context) ([]*Property, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed property repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const propertyColumns = "id, name, location, price, bedrooms, description, created_by, created_at, updated_at"

// Create inserts a new property. The ID is generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, p *Property) error {
	if p.ID == "" {
		p.ID = "prp-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (id, name, location, price, bedrooms, description, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Location, p.Price, p.Bedrooms,
		nullString(p.Description), nullString(p.CreatedBy), now, now,
	)
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}
	return nil
}

// GetByID retrieves a property by its unique ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id = ?", id)

	p, err := scanPropertyFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning property: %w", err)
	}
	return p, nil
}

// List returns all properties, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]*Property, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+propertyColumns+" FROM properties ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var properties []*Property
	for rows.Next() {
		p, err := scanPropertyFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return properties, nil
}

// Delete removes a property by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanPropertyFrom(s scanner) (*Property, error) {
	var p Property
	var description, createdBy sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&p.ID, &p.Name, &p.Location, &p.Price, &p.Bedrooms,
		&description, &createdBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = description.String
	}
	if createdBy.Valid {
		p.CreatedBy = createdBy.String
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &p, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
