package handlers

import (
	"errors"
	"net/http"

	"github.com/eventdeck/server/internal/api/respond"
	"github.com/eventdeck/server/internal/auth"
	"github.com/eventdeck/server/internal/domain/users"
)

const internalErrorMessage = "Internal server error"

// AuthHandler serves the unauthenticated surface: registration and login.
type AuthHandler struct {
	Users *users.Service
}

func NewAuthHandler(service *users.Service) *AuthHandler {
	return &AuthHandler{Users: service}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, token, err := h.Users.Register(r.Context(), users.RegisterParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			respond.Fail(w, r, http.StatusConflict, "Username already exists", nil)
		case errors.Is(err, users.ErrEmailTaken):
			respond.Fail(w, r, http.StatusConflict, "Email already exists", nil)
		default:
			respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		}
		return
	}

	respond.OK(w, r, http.StatusCreated, respond.Envelope{
		"message": "Registration successful",
		"token":   token,
		"user":    user.Public(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.Fail(w, r, http.StatusBadRequest, "Enter both username and password", nil)
		return
	}

	token, role, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			respond.Fail(w, r, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	// Admin tokens travel under their own key so clients can tell which
	// header to send it back in.
	tokenKey := "token"
	if role == auth.RoleAdmin {
		tokenKey = "admin_token"
	}

	respond.OK(w, r, http.StatusOK, respond.Envelope{
		"message": "Login successful",
		tokenKey:  token,
	})
}
