package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
)

// Profile is the read-optimized identity mirror consulted by the login
// and session-validation flows. It is written at signup alongside the
// canonical user record.
type Profile struct {
	ID       string
	Username string
	Email    string
}

type Repository interface {
	Create(ctx context.Context, profile Profile) error
	FindByUsername(ctx context.Context, username string) (Profile, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, profile Profile) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO account_profiles (id, username, email) VALUES ($1, $2, $3)`,
		profile.ID,
		profile.Username,
		profile.Email,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrProfileAlreadyExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (Profile, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email FROM account_profiles WHERE username = $1`,
		username,
	)

	var profile Profile
	err := row.Scan(&profile.ID, &profile.Username, &profile.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("failed to find profile by username: %w", err)
	}

	return profile, nil
}
