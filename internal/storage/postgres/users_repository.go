package postgres

import (
	"context"
	"fmt"

	"github.com/eventdeck/server/internal/domain/users"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ users.Repository = (*UserRepository)(nil)

type userRow struct {
	ID           pgtype.UUID
	Name         string
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    pgtype.Timestamptz
}

const userColumns = `id, name, username, email, password_hash, is_admin, created_at`

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (name, username, email, password_hash, is_admin)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+userColumns,
		params.Name,
		params.Username,
		params.Email,
		params.PasswordHash,
		params.IsAdmin,
	)

	user, err := scanUser(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE is_admin)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	var r userRow
	if err := row.Scan(&r.ID, &r.Name, &r.Username, &r.Email, &r.PasswordHash, &r.IsAdmin, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &users.User{
		ID:           uuidString(r.ID),
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    r.CreatedAt.Time,
	}, nil
}
