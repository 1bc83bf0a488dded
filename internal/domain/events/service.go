// Package events owns the event lifecycle: ownership-scoped mutation, the
// one-way approval transition, and best-effort weather enrichment that never
// blocks a write.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventdeck/server/internal/domain/ids"
	"github.com/eventdeck/server/internal/metrics"
	"github.com/eventdeck/server/internal/storage"
	"github.com/eventdeck/server/internal/weather"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when the referenced event does not exist.
	ErrNotFound = errors.New("event not found")

	// ErrNotOwner is returned when a non-admin actor mutates an event
	// they did not create.
	ErrNotOwner = errors.New("actor does not own this event")
)

type Service struct {
	repo    Repository
	weather weather.Describer
	logger  zerolog.Logger
}

func NewService(repo Repository, describer weather.Describer, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		weather: describer,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

// CreateInput carries the mutable fields for create and update.
type CreateInput struct {
	Name     string
	Datetime time.Time
	Location string
	Details  string
}

// Create persists a new unapproved event owned by ownerID. Enrichment is
// attempted inline; creation succeeds identically whether or not it does.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*Event, error) {
	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	description, _ := s.weather.Describe(ctx, input.Location)

	event, err := s.repo.Create(ctx, CreateParams{
		ID:       id,
		Name:     input.Name,
		Datetime: input.Datetime,
		OwnerID:  ownerID,
		Location: input.Location,
		Details:  input.Details,
		Weather:  description,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	metrics.EventsMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("event_id", event.ID).Str("owner_id", ownerID).Bool("enriched", description != "").Msg("event created")
	return event, nil
}

// Update overwrites the mutable fields of an event the actor owns and
// re-attempts enrichment for the possibly new location. When enrichment
// fails the stored weather value is kept, not cleared.
func (s *Service) Update(ctx context.Context, actorID, id string, input CreateInput) (*Event, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	description, ok := s.weather.Describe(ctx, input.Location)

	event, err := s.repo.Update(ctx, id, UpdateParams{
		Name:     input.Name,
		Datetime: input.Datetime,
		Location: input.Location,
		Details:  input.Details,
		Weather:  description,
		Refresh:  ok,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	metrics.EventsMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("event_id", id).Bool("enriched", ok).Msg("event updated")
	return event, nil
}

// Approve marks an event approved. The transition is one-way and idempotent:
// approving an already-approved event succeeds without change.
func (s *Service) Approve(ctx context.Context, id string) (*Event, error) {
	event, err := s.repo.SetApproved(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("approve event: %w", err)
	}

	metrics.EventsMutationsTotal.WithLabelValues("approve").Inc()
	s.logger.Info().Str("event_id", id).Msg("event approved")
	return event, nil
}

// Delete removes an event. Admins delete unconditionally; everyone else only
// what they own.
func (s *Service) Delete(ctx context.Context, actorID, id string, asAdmin bool) error {
	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !asAdmin && existing.OwnerID != actorID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	metrics.EventsMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("event_id", id).Bool("as_admin", asAdmin).Msg("event deleted")
	return nil
}

// List returns every event. Reads are unrestricted for authenticated roles.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

// Get returns a single event by id.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (*Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
