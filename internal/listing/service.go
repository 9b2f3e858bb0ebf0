package listing

import (
	"context"
	"strconv"
	"strings"

	"github.com/casavia/casavia-core/internal/infrastructure/logging"
	"github.com/casavia/casavia-core/internal/threatscan"
)

// CreateRequest carries the fields for a new listing.
type CreateRequest struct {
	Name        string
	Location    string
	Price       float64
	Bedrooms    int
	Description string
	CreatedBy   string
}

// Service implements listing operations over the repository, with
// every textual field passing through the threat scanner before it is
// written.
type Service struct {
	repo    Repository
	scanner *threatscan.Scanner
	logger  *logging.Logger
}

// NewService creates a listing service.
func NewService(repo Repository, scanner *threatscan.Scanner, logger *logging.Logger) *Service {
	return &Service{repo: repo, scanner: scanner, logger: logger}
}

// Create validates and stores a new property listing.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Property, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Location) == "" || req.Price <= 0 {
		return nil, ErrMissingField
	}

	verdict, _ := s.scanner.Scan([]threatscan.Field{
		threatscan.String("name", req.Name),
		threatscan.String("location", req.Location),
		threatscan.String("description", req.Description),
		threatscan.Numeric("price", strconv.FormatFloat(req.Price, 'f', -1, 64)),
		threatscan.Numeric("bedrooms", strconv.Itoa(req.Bedrooms)),
	})
	if verdict != threatscan.Safe {
		s.logger.Warn("listing rejected, suspicious input", "classification", string(verdict))
		return nil, ErrInvalidInput
	}

	p := &Property{
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("property created", "property_id", p.ID)
	return p, nil
}

// Get returns a single property by ID.
func (s *Service) Get(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all properties, newest first.
func (s *Service) List(ctx context.Context) ([]*Property, error) {
	return s.repo.List(ctx)
}

// Delete removes a property by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("property deleted", "property_id", id)
	return nil
}
