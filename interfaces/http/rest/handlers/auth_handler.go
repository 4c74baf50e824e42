// Package handlers contains the HTTP handlers for the REST API. Handlers
// decode and validate requests, delegate to the application services and
// translate errors into the `{"error": ...}` wire format.
package handlers

import (
	"net/http"

	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/interfaces/http/rest/middleware"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

// AuthProvider is the credential surface of the auth provider used by the
// public auth routes.
type AuthProvider interface {
	SignUp(email, password, fullName string) (*types.SignupResponse, error)
	SignIn(email, password string) (types.Session, error)
	SignOut(token string) error
	GetUser(token string) (*types.UserResponse, error)
}

// AuthHandler handles signup, signin and session inspection.
type AuthHandler struct {
	provider AuthProvider
	errors   *errors.ErrorHandler
	logger   *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(provider AuthProvider, errorHandler *errors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, errors: errorHandler, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		common.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.provider.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, resp)
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		common.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.provider.SignIn(req.Email, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":    session.User,
		"session": session,
	})
}

// SignOut handles POST /auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		if err := h.provider.SignOut(token); err != nil {
			h.logger.Warn("Sign out failed", zap.Error(err))
		}
	}
	common.RespondMessage(w, http.StatusOK, "Signed out successfully")
}

// User handles GET /auth/user
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		common.RespondError(w, http.StatusUnauthorized, "No authorization header")
		return
	}

	user, err := h.provider.GetUser(token)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
