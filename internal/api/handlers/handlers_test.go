package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eventdeck/server/internal/api/middleware"
	"github.com/eventdeck/server/internal/auth"
	"github.com/eventdeck/server/internal/domain/events"
	"github.com/eventdeck/server/internal/domain/users"
	"github.com/eventdeck/server/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users  map[string]*users.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*users.User)}
}

func (m *memUserRepo) Create(_ context.Context, params users.CreateParams) (*users.User, error) {
	for _, u := range m.users {
		if u.Username == params.Username {
			return nil, storage.ErrUniqueUsername
		}
		if u.Email == params.Email {
			return nil, storage.ErrUniqueEmail
		}
	}
	m.nextID++
	user := &users.User{
		ID:           fmt.Sprintf("user-%d", m.nextID),
		Name:         params.Name,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		IsAdmin:      params.IsAdmin,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNoRows
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrNoRows
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNoRows
}

func (m *memUserRepo) List(_ context.Context) ([]users.User, error) {
	out := make([]users.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserRepo) AdminExists(_ context.Context) (bool, error) {
	for _, u := range m.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

type memEventRepo struct {
	events map[string]*events.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*events.Event)}
}

func (m *memEventRepo) Create(_ context.Context, params events.CreateParams) (*events.Event, error) {
	event := &events.Event{
		ID:        params.ID,
		Name:      params.Name,
		Datetime:  params.Datetime,
		OwnerID:   params.OwnerID,
		Location:  params.Location,
		Details:   params.Details,
		Weather:   params.Weather,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.events[event.ID] = event
	return event, nil
}

func (m *memEventRepo) Get(_ context.Context, id string) (*events.Event, error) {
	if e, ok := m.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, storage.ErrNoRows
}

func (m *memEventRepo) List(_ context.Context) ([]events.Event, error) {
	out := make([]events.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memEventRepo) Update(_ context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, storage.ErrNoRows
	}
	e.Name = params.Name
	e.Datetime = params.Datetime
	e.Location = params.Location
	e.Details = params.Details
	if params.Refresh {
		e.Weather = params.Weather
	}
	e.UpdatedAt = time.Now()
	copied := *e
	return &copied, nil
}

func (m *memEventRepo) SetApproved(_ context.Context, id string) (*events.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, storage.ErrNoRows
	}
	e.Approved = true
	copied := *e
	return &copied, nil
}

func (m *memEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return storage.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

type stubDescriber struct {
	description string
	ok          bool
}

func (s stubDescriber) Describe(context.Context, string) (string, bool) {
	return s.description, s.ok
}

type testEnv struct {
	userRepo  *memUserRepo
	eventRepo *memEventRepo
	users     *users.Service
	events    *events.Service
	tokens    *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret")
	userRepo := newMemUserRepo()
	eventRepo := newMemEventRepo()
	return &testEnv{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		users:     users.NewService(userRepo, tokens, zerolog.Nop()),
		events:    events.NewService(eventRepo, stubDescriber{description: "light rain", ok: true}, zerolog.Nop()),
		tokens:    tokens,
	}
}

func accountParams(username, email, password string) users.RegisterParams {
	return users.RegisterParams{
		Name:     "Test Account",
		Username: username,
		Email:    email,
		Password: password,
	}
}

func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asRole stamps an already-authenticated identity into the request context,
// standing in for the middleware guard.
func asRole(req *http.Request, role auth.Role, id string) *http.Request {
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), role, id))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
