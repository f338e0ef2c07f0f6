package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/challenge-solver/internal/config"
)

// LoginRequest is the request body for /auth/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the operator token.
type LoginResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	credentials *config.CredentialConfig
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(credentials *config.CredentialConfig, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Login verifies the operator password and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	if !h.credentials.VerifyPassword(req.Password) {
		err := &ErrInvalidCredentials{}
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	token, err := h.jwtService.GenerateToken()
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(LoginResponse{Token: token}); err != nil {
		// Response already sent
		return
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
