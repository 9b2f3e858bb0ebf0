package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casavia/casavia-core/internal/auth"
)

// handleGetProfile returns the public profile of the target account.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := s.authSvc.Profile(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": profile})
}

// accountInfoRequest is the request body for PATCH /user/{id}/account-info.
type accountInfoRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	ProfileImage string `json:"profileImage"`
}

// handleUpdateAccountInfo modifies the target account's profile fields.
func (s *Server) handleUpdateAccountInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req accountInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	profile, err := s.authSvc.UpdateAccountInfo(r.Context(), id, auth.AccountInfoUpdate{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":    profile,
		"message": "Account info updated successfully",
	})
}

// changePasswordRequest is the request body for PATCH /user/{id}/change-password.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// handleChangePassword replaces the target account's password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	err := s.authSvc.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

// validatePasswordRequest is the request body for POST /user/{id}/validate-password.
type validatePasswordRequest struct {
	Password string `json:"password"`
}

// handleValidatePassword checks a password against the stored hash.
// The boolean carries the verdict; a wrong password is still a 200.
func (s *Server) handleValidatePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req validatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	isValid, err := s.authSvc.ValidatePassword(r.Context(), id, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isValid": isValid})
}
