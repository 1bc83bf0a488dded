package events

import (
	"context"
	"time"
)

// Event is a scheduled happening owned by the user who created it. The
// weather field is advisory: it is present only when enrichment succeeded at
// the last write and its absence never invalidates the record. The approved
// flag moves false to true exactly once, via Approve.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"eventName"`
	Datetime  time.Time `json:"datetime"`
	OwnerID   string    `json:"ownerId"`
	Location  string    `json:"location"`
	Details   string    `json:"details,omitempty"`
	Weather   string    `json:"weather,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateParams struct {
	ID       string
	Name     string
	Datetime time.Time
	OwnerID  string
	Location string
	Details  string
	Weather  string
}

type UpdateParams struct {
	Name     string
	Datetime time.Time
	Location string
	Details  string
	// Weather is applied only when Refresh is true; otherwise the stored
	// value is left untouched.
	Weather string
	Refresh bool
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)
	SetApproved(ctx context.Context, id string) (*Event, error)
	Delete(ctx context.Context, id string) error
}
