package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casavia/casavia-core/internal/listing"
)

// createPropertyRequest is the request body for POST /properties.
type createPropertyRequest struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Bedrooms    int     `json:"bedrooms"`
	Description string  `json:"description"`
}

// handleCreateProperty stores a new property listing. Textual fields
// are threat-scanned by the listing service before anything persists.
func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	createdBy := ""
	if claims := claimsFromContext(r.Context()); claims != nil {
		createdBy = claims.Subject
	}

	property, err := s.listings.Create(r.Context(), listing.CreateRequest{
		Name:        req.Name,
		Location:    req.Location,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Description: req.Description,
		CreatedBy:   createdBy,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data":    property,
		"message": "Property created successfully",
	})
}

// handleListProperties returns all property listings, newest first.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.listings.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if properties == nil {
		properties = []*listing.Property{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  properties,
		"count": len(properties),
	})
}

// handleGetProperty returns a single property by ID.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := s.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": property})
}

// handleDeleteProperty removes a property listing.
func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := s.listings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Property deleted successfully",
	})
}
