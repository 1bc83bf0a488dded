package handlers

import (
	"errors"
	"net/http"

	"github.com/eventdeck/server/internal/api/middleware"
	"github.com/eventdeck/server/internal/api/respond"
	"github.com/eventdeck/server/internal/domain/users"
)

// UsersHandler serves the authenticated account surface: profile reads, the
// admin-only user listing, and admin creation.
type UsersHandler struct {
	Users *users.Service
}

func NewUsersHandler(service *users.Service) *UsersHandler {
	return &UsersHandler{Users: service}
}

// Me returns the record of the user the token was issued for.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r, middleware.UserID(r))
	if !ok {
		return
	}
	respond.OK(w, r, http.StatusOK, respond.Envelope{"user": user.Public()})
}

// MeAdmin returns the record of the admin the token was issued for.
func (h *UsersHandler) MeAdmin(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.lookup(w, r, middleware.AdminID(r))
	if !ok {
		return
	}
	respond.OK(w, r, http.StatusOK, respond.Envelope{"admin": admin.Public()})
}

// List returns every account, admin-gated.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Users.List(r.Context())
	if err != nil {
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	publics := make([]users.Public, 0, len(list))
	for _, user := range list {
		publics = append(publics, user.Public())
	}
	respond.OK(w, r, http.StatusOK, respond.Envelope{"users": publics})
}

// CreateAdmin provisions another administrator account. Only an existing
// admin reaches this handler.
func (h *UsersHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	admin, err := h.Users.CreateAdmin(r.Context(), users.RegisterParams{
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
		"message": "New admin created successfully",
		"admin":   admin.Public(),
	})
}

func (h *UsersHandler) lookup(w http.ResponseWriter, r *http.Request, id string) (*users.User, bool) {
	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respond.Fail(w, r, http.StatusNotFound, "User not found", nil)
			return nil, false
		}
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return nil, false
	}
	return user, true
}
