package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrCredentialNotFound = errors.New("credential not found")

// Credential links a user id to its salted password digest.
type Credential struct {
	UserID       string
	PasswordHash string
}

type Repository interface {
	Create(ctx context.Context, credential Credential) error
	FindByUserID(ctx context.Context, userID string) (Credential, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, credential Credential) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO user_credentials (user_id, password_hash) VALUES ($1, $2)`,
		credential.UserID,
		credential.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByUserID(ctx context.Context, userID string) (Credential, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT user_id, password_hash FROM user_credentials WHERE user_id = $1`,
		userID,
	)

	var credential Credential
	err := row.Scan(&credential.UserID, &credential.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrCredentialNotFound
		}
		return Credential{}, fmt.Errorf("failed to find credential by user id: %w", err)
	}

	return credential, nil
}
