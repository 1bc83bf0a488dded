package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventdeck/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesUserToken(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	rec := httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"name":"Alice","username":"alice","email":"alice@example.com","password":"hunter2"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registration successful", body["message"])

	token, ok := body["token"].(string)
	require.True(t, ok, "token missing from response")
	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, claims.Role)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	rec := httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"username":"alice","email":"a@example.com","password":"pw"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"username":"alice","email":"b@example.com","password":"pw"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Username already exists", body["message"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	rec := httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"username":"alice","email":"shared@example.com","password":"pw"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"username":"bob","email":"shared@example.com","password":"pw"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, rec)["message"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	tests := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@example.com","password":"pw"}`},
		{"missing password", `{"username":"alice","email":"a@example.com"}`},
		{"bad email", `{"username":"alice","email":"nope","password":"pw"}`},
		{"malformed json", `{"username":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register", tc.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, decodeBody(t, rec)["success"])
		})
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	rec := httptest.NewRecorder()
	handler.Login(rec, jsonRequest(t, http.MethodPost, "/api/login", `{"username":"alice"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Enter both username and password", decodeBody(t, rec)["message"])
}

func TestLoginUniformFailure(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	rec := httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"username":"alice","email":"a@example.com","password":"right"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	for name, body := range map[string]string{
		"unknown username": `{"username":"nobody","password":"right"}`,
		"wrong password":   `{"username":"alice","password":"wrong"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Login(rec, jsonRequest(t, http.MethodPost, "/api/login", body))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["message"])
		})
	}
}

func TestLoginTokenKeyMatchesRole(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAuthHandler(env.users)

	rec := httptest.NewRecorder()
	handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/register",
		`{"username":"alice","email":"a@example.com","password":"pw"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	_, err := env.users.CreateAdmin(t.Context(), accountParams("root", "root@example.com", "pw"))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	handler.Login(rec, jsonRequest(t, http.MethodPost, "/api/login", `{"username":"alice","password":"pw"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "token")
	assert.NotContains(t, body, "admin_token")

	rec = httptest.NewRecorder()
	handler.Login(rec, jsonRequest(t, http.MethodPost, "/api/login", `{"username":"root","password":"pw"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Contains(t, body, "admin_token")
	assert.NotContains(t, body, "token")

	claims, err := env.tokens.Verify(body["admin_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}
