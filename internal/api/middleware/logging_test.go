package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventdeck/server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggingEmitsAccessLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/events/nope", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/api/events/nope", line["path"])
	assert.Equal(t, "10.1.2.3", line["remote"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, float64(len("missing")), line["bytes"])
	assert.Contains(t, line, "duration")
}

func TestRequestLoggingCountsRequests(t *testing.T) {
	counter := metrics.HTTPRequestsTotal.WithLabelValues("DELETE", "418")
	before := testutil.ToFloat64(counter)

	handler := RequestLogging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/event/x", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestRequestLoggingDefaultsSilentHandlerTo200(t *testing.T) {
	counter := metrics.HTTPRequestsTotal.WithLabelValues("HEAD", "200")
	before := testutil.ToFloat64(counter)

	var buf bytes.Buffer
	handler := RequestLogging(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No explicit write; net/http sends 200 on return.
	}))

	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRequestLoggingUsesRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := CorrelationID(logger)(RequestLogging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("X-Request-ID", "corr-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-123", line["request_id"])
	assert.Equal(t, "request", line["message"])
}
