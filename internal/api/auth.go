package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/casavia/casavia-core/internal/auth"
)

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the response body for a successful login.
type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// handleLogin authenticates a user and returns a JWT token with the
// public profile.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	token, profile, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.metrics.recordLogin(false)
		s.writeLoginError(w, r, err)
		return
	}

	s.metrics.recordLogin(true)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:   token,
		Message: "Successfully logged in",
		Data:    profile,
	})
}

// writeLoginError maps login failures, where an unknown email carries
// its own message rather than the generic user-not-found one.
func (s *Server) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "No account found with this email address")
		return
	}
	s.writeServiceError(w, r, err)
}

// forgotPasswordRequest is the request body for POST /auth/forgot-password.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// handleForgotPassword issues a password reset token. The response is
// identical whether or not the address is registered.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists for that email, a reset link has been sent",
	})
}

// resetPasswordRequest is the request body for POST /auth/reset-password.
type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// handleResetPassword completes a password reset using a token from a
// reset email.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.authSvc.ResetPassword(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}
