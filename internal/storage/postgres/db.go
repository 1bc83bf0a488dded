package postgres

import (
	"errors"
	"fmt"

	"github.com/eventdeck/server/internal/domain/events"
	"github.com/eventdeck/server/internal/domain/users"
	"github.com/eventdeck/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the pgx-backed stores behind one connection pool.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Users() users.Repository {
	return &UserRepository{pool: r.pool}
}

func (r *Repository) Events() events.Repository {
	return &EventRepository{pool: r.pool}
}

type UserRepository struct {
	pool *pgxpool.Pool
}

type EventRepository struct {
	pool *pgxpool.Pool
}

const uniqueViolation = "23505"

// translateErr maps pgx error shapes onto the storage sentinels the domain
// layer matches against.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNoRows
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return storage.ErrUniqueUsername
		case "users_email_key":
			return storage.ErrUniqueEmail
		}
	}
	return err
}
