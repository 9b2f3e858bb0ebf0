package listing

import (
	"errors"
	"time"
)

// Property is a single real estate listing.
type Property struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Bedrooms    int       `json:"bedrooms"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sentinel errors for listing operations.
var (
	ErrNotFound     = errors.New("property not found")
	ErrMissingField = errors.New("required field is missing")
	ErrInvalidInput = errors.New("invalid input detected")
)
