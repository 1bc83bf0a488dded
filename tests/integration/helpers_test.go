package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/eventdeck/server/internal/api"
	"github.com/eventdeck/server/internal/auth"
	"github.com/eventdeck/server/internal/config"
	"github.com/eventdeck/server/internal/domain/events"
	"github.com/eventdeck/server/internal/domain/users"
	"github.com/eventdeck/server/internal/storage/postgres"
	"github.com/eventdeck/server/internal/weather"
	"github.com/eventdeck/server/internal/weather/openweather"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type testEnv struct {
	Context context.Context
	Pool    *pgxpool.Pool
	Server  *httptest.Server
	Users   *users.Service
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("eventdeck"),
		tcpostgres.WithUsername("eventdeck"),
		tcpostgres.WithPassword("eventdeck_dev"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrationsPath := filepath.Join(projectRoot(t), "internal", "storage", "postgres", "migrations")
	require.NoError(t, migrateWithRetry(dbURL, migrationsPath, 10*time.Second))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo, err := postgres.NewRepository(pool)
	require.NoError(t, err)

	cfg := testConfig(dbURL)
	logger := testLogger()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	usersService := users.NewService(repo.Users(), tokens, logger)

	forecast := stubForecastServer(t)
	weatherClient := openweather.NewClient(forecast.URL, "test-key")
	eventsService := events.NewService(repo.Events(), weather.NewService(weatherClient, logger), logger)

	require.NoError(t, usersService.EnsureAdmin(ctx, cfg.AdminBootstrap))

	server := httptest.NewServer(api.NewRouter(cfg, logger, api.Deps{
		Users:   usersService,
		Events:  eventsService,
		Tokens:  tokens,
		DB:      pool,
		Version: "test",
	}))
	t.Cleanup(server.Close)

	return &testEnv{
		Context: ctx,
		Pool:    pool,
		Server:  server,
		Users:   usersService,
	}
}

// failingLocation makes the forecast stub return a server error, so tests
// can exercise enrichment failure on demand.
const failingLocation = "Nowhereville"

// stubForecastServer mimics the OpenWeatherMap forecast endpoint so
// enrichment runs against a local fixture.
func stubForecastServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == failingLocation {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"weather":[{"main":"Clouds","description":"scattered clouds"}]}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 0,
		},
		Database: config.DatabaseConfig{
			URL:            dbURL,
			MaxConnections: 5,
		},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret-32-bytes-minimum----",
		},
		RateLimit: config.RateLimitConfig{
			LoginPerMinute: 0,
		},
		AdminBootstrap: config.AdminBootstrapConfig{
			Name:     "Admin",
			Username: "admin",
			Password: "adminpassword",
			Email:    "admin@example.com",
		},
		Logging: config.LoggingConfig{
			Level:  "debug",
			Format: "json",
		},
		Environment: "test",
	}
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func migrateWithRetry(databaseURL string, migrationsPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := postgres.MigrateUp(databaseURL, migrationsPath); err != nil {
			if time.Now().After(deadline) {
				return err
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		return nil
	}
}

func (env *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(env.Context, method, env.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := env.Server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}
