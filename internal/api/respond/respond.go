// Package respond writes the JSON envelope every endpoint shares: success is
// always present, message carries the human-readable outcome. Failure
// payloads never expose internal error detail; errors are logged server-side
// through the request-scoped logger instead.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/json"

// Envelope is the wire payload. Handlers add their own keys (token, user,
// event, ...) next to success and message.
type Envelope map[string]any

// OK writes a success envelope merged with payload.
func OK(w http.ResponseWriter, r *http.Request, status int, payload Envelope) {
	body := Envelope{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	write(w, status, body)
}

// Fail writes a failure envelope carrying only the given message. err is for
// the server log, never the client; a nil err logs nothing.
func Fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	write(w, status, Envelope{"success": false, "message": message})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	payload, err := json.Marshal(body)
	if err != nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
