package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventdeck/server/internal/api/middleware"
	"github.com/eventdeck/server/internal/api/respond"
	"github.com/eventdeck/server/internal/domain/events"
	"github.com/eventdeck/server/internal/domain/ids"
)

const eventNotFoundMessage = "Event not found"

// EventsHandler serves the event lifecycle: creation, edits, listings,
// approval, and deletion.
type EventsHandler struct {
	Events *events.Service
}

func NewEventsHandler(service *events.Service) *EventsHandler {
	return &EventsHandler{Events: service}
}

type eventRequest struct {
	EventName string    `json:"eventName" validate:"required"`
	Datetime  time.Time `json:"datetime" validate:"required"`
	Location  string    `json:"location" validate:"required"`
	Details   string    `json:"details"`
}

func (req eventRequest) input() events.CreateInput {
	return events.CreateInput{
		Name:     req.EventName,
		Datetime: req.Datetime,
		Location: req.Location,
		Details:  req.Details,
	}
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	event, err := h.Events.Create(r.Context(), middleware.UserID(r), req.input())
	if err != nil {
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	respond.OK(w, r, http.StatusCreated, respond.Envelope{
		"message": "Event created successfully",
		"event":   event,
	})
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Fail(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	event, err := h.Events.Update(r.Context(), middleware.UserID(r), id, req.input())
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			respond.Fail(w, r, http.StatusNotFound, eventNotFoundMessage, nil)
		case errors.Is(err, events.ErrNotOwner):
			respond.Fail(w, r, http.StatusForbidden, "You cannot edit this event", nil)
		default:
			respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		}
		return
	}

	respond.OK(w, r, http.StatusOK, respond.Envelope{
		"message": "Event Edited Successfully",
		"event":   event,
	})
}

// ListForUser returns every event alongside the caller's id, so clients can
// mark which entries the caller owns.
func (h *EventsHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, middleware.UserID(r))
}

// ListForAdmin is the admin-gated twin of ListForUser.
func (h *EventsHandler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, middleware.AdminID(r))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	event, err := h.Events.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			respond.Fail(w, r, http.StatusNotFound, eventNotFoundMessage, nil)
			return
		}
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	respond.OK(w, r, http.StatusOK, respond.Envelope{"event": event})
}

func (h *EventsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if _, err := h.Events.Approve(r.Context(), id); err != nil {
		if errors.Is(err, events.ErrNotFound) {
			respond.Fail(w, r, http.StatusNotFound, eventNotFoundMessage, nil)
			return
		}
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	respond.OK(w, r, http.StatusOK, respond.Envelope{"message": "Event approved successfully"})
}

// AdminDelete removes any event regardless of owner.
func (h *EventsHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, middleware.AdminID(r), true)
}

// UserDelete removes an event only when the caller owns it.
func (h *EventsHandler) UserDelete(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, middleware.UserID(r), false)
}

func (h *EventsHandler) delete(w http.ResponseWriter, r *http.Request, actorID string, asAdmin bool) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.Events.Delete(r.Context(), actorID, id, asAdmin); err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			respond.Fail(w, r, http.StatusNotFound, eventNotFoundMessage, nil)
		case errors.Is(err, events.ErrNotOwner):
			respond.Fail(w, r, http.StatusForbidden, "You cannot delete this event", nil)
		default:
			respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		}
		return
	}

	respond.OK(w, r, http.StatusOK, respond.Envelope{"message": "Event deleted successfully"})
}

func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request, actorID string) {
	list, err := h.Events.List(r.Context())
	if err != nil {
		respond.Fail(w, r, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	respond.OK(w, r, http.StatusOK, respond.Envelope{
		"events": list,
		"userId": actorID,
	})
}

// eventID validates the path id. An id that is not a ULID cannot name an
// existing event, so it reports not found rather than a validation error.
func (h *EventsHandler) eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := pathParam(r, "id")
	if err := ids.ValidateULID(id); err != nil {
		respond.Fail(w, r, http.StatusNotFound, eventNotFoundMessage, nil)
		return "", false
	}
	return id, true
}
