package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"CryptoDash/internal/domain/models"
	domrepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/postgres"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

// PGUserRepository stores accounts in the users table.
type PGUserRepository struct {
	db DBTX
}

func NewPGUserRepository(db DBTX) *PGUserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return domrepo.ErrAlreadyExist
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail expects an already normalized (lower-cased) address.
func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PGUserRepository) Update(ctx context.Context, u *models.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET name = $2, password_hash = $3, updated_at = $4 WHERE id = $1`,
		u.ID, u.Name, u.PasswordHash, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domrepo.ErrNotFound
	}
	return nil
}

func (r *PGUserRepository) getOne(ctx context.Context, q string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domrepo.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
