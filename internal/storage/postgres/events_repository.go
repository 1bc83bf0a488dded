package postgres

import (
	"context"
	"fmt"

	"github.com/eventdeck/server/internal/domain/events"
	"github.com/eventdeck/server/internal/storage"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ events.Repository = (*EventRepository)(nil)

type eventRow struct {
	ID        string
	Name      string
	Datetime  pgtype.Timestamptz
	OwnerID   pgtype.UUID
	Location  string
	Details   *string
	Weather   *string
	Approved  bool
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const eventColumns = `id, event_name, starts_at, owner_id, location, details, weather, approved, created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (id, event_name, starts_at, owner_id, location, details, weather)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
RETURNING `+eventColumns,
		params.ID,
		params.Name,
		params.Datetime,
		params.OwnerID,
		params.Location,
		params.Details,
		params.Weather,
	)

	event, err := scanEvent(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return event, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var list []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

// Update overwrites the mutable fields. Weather is written only when the
// caller refreshed it; otherwise the stored value survives.
func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE events
   SET event_name = $2,
       starts_at  = $3,
       location   = $4,
       details    = NULLIF($5, ''),
       weather    = CASE WHEN $6 THEN NULLIF($7, '') ELSE weather END,
       updated_at = now()
 WHERE id = $1
RETURNING `+eventColumns,
		id,
		params.Name,
		params.Datetime,
		params.Location,
		params.Details,
		params.Refresh,
		params.Weather,
	)

	event, err := scanEvent(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return event, nil
}

func (r *EventRepository) SetApproved(ctx context.Context, id string) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE events
   SET approved = true,
       updated_at = now()
 WHERE id = $1
RETURNING `+eventColumns, id)

	event, err := scanEvent(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNoRows
	}
	return nil
}

func scanEvent(row rowScanner) (*events.Event, error) {
	var r eventRow
	if err := row.Scan(&r.ID, &r.Name, &r.Datetime, &r.OwnerID, &r.Location, &r.Details, &r.Weather, &r.Approved, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &events.Event{
		ID:        r.ID,
		Name:      r.Name,
		Datetime:  r.Datetime.Time,
		OwnerID:   uuidString(r.OwnerID),
		Location:  r.Location,
		Details:   derefString(r.Details),
		Weather:   derefString(r.Weather),
		Approved:  r.Approved,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}, nil
}
