package repository

import (
	"context"
	"errors"

	"icefuse-kits-backend/internal/features/token/models"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository interface {
	Create(ctx context.Context, token *models.APIToken) error
	GetByHash(ctx context.Context, hash string) (*models.APIToken, error)
	List(ctx context.Context) ([]*models.APIToken, error)
	Revoke(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string) error
}
