package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/medcompanion/internal/model"
)

var _ model.CredentialSource = (*CredentialRepository)(nil)

type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{
		db: db,
	}
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (model.Credential, error) {
	const query = `
        SELECT id, name, email, role, COALESCE(profile_image, ''), password_hash
        FROM credentials
        WHERE LOWER(email) = LOWER($1)
    `

	var (
		c    model.Credential
		role string
	)
	err := r.db.QueryRow(ctx, query, email).Scan(
		&c.Identity.ID, &c.Identity.Name, &c.Identity.Email, &role,
		&c.Identity.ProfileImage, &c.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by email: %w", err)
	}
	c.Identity.Role = model.Role(role)

	return c, nil
}

func (r *CredentialRepository) Create(ctx context.Context, credential model.Credential) error {
	const query = `
        INSERT INTO credentials (id, email, name, role, profile_image, password_hash)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
    `

	id := credential.Identity
	_, err := r.db.Exec(ctx, query,
		id.ID, id.Email, id.Name, string(id.Role), id.ProfileImage, credential.PasswordHash,
	)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}

	return nil
}
