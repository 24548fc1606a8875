package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"icefuse-kits-backend/internal/features/token/models"
	"icefuse-kits-backend/internal/features/token/repository"
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) repository.TokenRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, token *models.APIToken) error {
	query := `
		INSERT INTO api_tokens (id, name, token_hash, scopes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.Name, token.TokenHash, token.Scopes, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByHash(ctx context.Context, hash string) (*models.APIToken, error) {
	var token models.APIToken
	query := `
		SELECT id, name, token_hash, scopes, last_used_at, revoked_at, created_at
		FROM api_tokens
		WHERE token_hash = $1
	`
	if err := r.db.GetContext(ctx, &token, query, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*models.APIToken, error) {
	var tokens []*models.APIToken
	query := `
		SELECT id, name, token_hash, scopes, last_used_at, revoked_at, created_at
		FROM api_tokens
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &tokens, query); err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

func (r *postgresRepository) Revoke(ctx context.Context, id string) error {
	query := `UPDATE api_tokens SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrTokenNotFound
	}
	return nil
}

func (r *postgresRepository) TouchLastUsed(ctx context.Context, id string) error {
	query := `UPDATE api_tokens SET last_used_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to touch token: %w", err)
	}
	return nil
}
