// Package memory provides an in-memory TokenRepository used in tests and
// local development.
package memory

import (
	"context"
	"sync"
	"time"

	"icefuse-kits-backend/internal/features/token/models"
	"icefuse-kits-backend/internal/features/token/repository"
)

type memoryRepository struct {
	mu     sync.Mutex
	tokens map[string]*models.APIToken
}

func NewRepository() repository.TokenRepository {
	return &memoryRepository{tokens: make(map[string]*models.APIToken)}
}

func (r *memoryRepository) Create(ctx context.Context, token *models.APIToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByHash(ctx context.Context, hash string) (*models.APIToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == hash {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (r *memoryRepository) List(ctx context.Context) ([]*models.APIToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.APIToken, 0, len(r.tokens))
	for _, t := range r.tokens {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memoryRepository) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok || t.RevokedAt != nil {
		return repository.ErrTokenNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *memoryRepository) TouchLastUsed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[id]; ok {
		now := time.Now()
		t.LastUsedAt = &now
	}
	return nil
}
