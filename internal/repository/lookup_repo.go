package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LookupRepo resolves name-keyed lookup entities and the designated
// system owner account used for reconciled orphans.
type LookupRepo struct {
	pool *pgxpool.Pool
}

func NewLookupRepo(pool *pgxpool.Pool) *LookupRepo {
	return &LookupRepo{pool: pool}
}

// UpsertCategory returns the id of the category with the given name,
// creating it if absent.
func (r *LookupRepo) UpsertCategory(ctx context.Context, name string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		NewID(), name).Scan(&id)
	return id, err
}

// UpsertCounselor returns the id of the counselor with the given name,
// creating it if absent.
func (r *LookupRepo) UpsertCounselor(ctx context.Context, name string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO counselors (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		NewID(), name).Scan(&id)
	return id, err
}

// SystemOwner returns the user id of the configured system account,
// creating an admin row when none exists yet.
func (r *LookupRepo) SystemOwner(ctx context.Context, email string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	id = NewID()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, role) VALUES ($1, $2, 'System', 'ADMIN')
		ON CONFLICT (email) DO NOTHING`,
		id, email)
	if err != nil {
		return "", err
	}

	// Re-read: a concurrent run may have won the insert race.
	err = r.pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	return id, err
}

// UserRole returns the role string for a user id.
func (r *LookupRepo) UserRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	return role, err
}
