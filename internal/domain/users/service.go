// Package users handles account management: registration, login, admin
// creation, and the startup guarantee that at least one administrator exists.
//
// Passwords use bcrypt hashing. Login failures are uniform: an unknown
// username and a wrong password produce the same error, so callers cannot
// probe which usernames exist.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventdeck/server/internal/auth"
	"github.com/eventdeck/server/internal/config"
	"github.com/eventdeck/server/internal/storage"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when registration hits an existing username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email is already taken")

	// ErrInvalidCredentials is returned for any login failure, whether the
	// username is unknown or the password mismatches.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound is returned when a user lookup fails.
	ErrUserNotFound = errors.New("user not found")
)

// BcryptCost is the bcrypt work factor for password hashing
const BcryptCost = 10

// DefaultName is assigned when registration omits a display name
const DefaultName = "guest"

type Service struct {
	repo   Repository
	tokens *auth.TokenManager
	logger zerolog.Logger
}

func NewService(repo Repository, tokens *auth.TokenManager, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

type RegisterParams struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates an ordinary account and issues a user-scoped token for
// it. Duplicate username wins over duplicate email when both collide.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, string, error) {
	user, err := s.create(ctx, params, false)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(auth.RoleUser, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and issues a token scoped to the stored role:
// admin accounts receive admin tokens, everyone else user tokens.
func (s *Service) Login(ctx context.Context, username, password string) (string, auth.Role, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	role := auth.RoleFor(user.IsAdmin)
	token, err := s.tokens.Issue(role, user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("login")
	return token, role, nil
}

// CreateAdmin creates an administrator account. No token is issued; the new
// admin logs in separately.
func (s *Service) CreateAdmin(ctx context.Context, params RegisterParams) (*User, error) {
	user, err := s.create(ctx, params, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin created")
	return user, nil
}

// GetByID fetches a single account record.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns every account record.
func (s *Service) List(ctx context.Context) ([]User, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// EnsureAdmin guarantees at least one administrator account exists. It runs
// once before the server accepts requests and is a no-op when any admin is
// already present, regardless of username.
func (s *Service) EnsureAdmin(ctx context.Context, bootstrap config.AdminBootstrapConfig) error {
	exists, err := s.repo.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		s.logger.Debug().Msg("admin already exists; bootstrap skipped")
		return nil
	}

	admin, err := s.create(ctx, RegisterParams{
		Name:     bootstrap.Name,
		Username: bootstrap.Username,
		Email:    bootstrap.Email,
		Password: bootstrap.Password,
	}, true)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	s.logger.Info().Str("user_id", admin.ID).Str("username", admin.Username).Msg("bootstrapped admin user")
	return nil
}

func (s *Service) create(ctx context.Context, params RegisterParams, isAdmin bool) (*User, error) {
	if params.Name == "" {
		params.Name = DefaultName
	}

	// Username collision is checked before email so the caller sees the
	// same precedence the API has always had.
	if _, err := s.repo.GetByUsername(ctx, params.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, CreateParams{
		Name:         params.Name,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	})
	if err != nil {
		// The database race between the pre-checks and the insert still
		// resolves to the same conflict errors.
		if errors.Is(err, storage.ErrUniqueUsername) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, storage.ErrUniqueEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
