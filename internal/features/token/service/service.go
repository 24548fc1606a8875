package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/features/token/models"
	"icefuse-kits-backend/internal/features/token/repository"
)

const secretBytes = 32

// TokenService manages API bearer tokens and authenticates requests.
type TokenService interface {
	// CreateToken mints a token and returns it with the plaintext secret.
	// The secret is not recoverable afterwards.
	CreateToken(ctx context.Context, name string, scopes []string) (*models.APIToken, string, error)

	// Authenticate resolves a bearer secret to its token record. Revoked
	// and unknown tokens both fail the same way.
	Authenticate(ctx context.Context, secret string) (*models.APIToken, error)

	List(ctx context.Context) ([]*models.APIToken, error)
	Revoke(ctx context.Context, id string) error
}

type tokenService struct {
	repo   repository.TokenRepository
	logger zerolog.Logger
}

func NewTokenService(repo repository.TokenRepository, logger zerolog.Logger) TokenService {
	return &tokenService{repo: repo, logger: logger}
}

func (s *tokenService) CreateToken(ctx context.Context, name string, scopes []string) (*models.APIToken, string, error) {
	if name == "" {
		return nil, "", apperrors.NewValidationError("name", "cannot be empty")
	}
	if len(scopes) == 0 {
		return nil, "", apperrors.NewValidationError("scopes", "at least one scope is required")
	}
	for _, scope := range scopes {
		if !models.IsValidScope(scope) {
			return nil, "", apperrors.NewValidationError("scopes", fmt.Sprintf("unknown scope: %s", scope))
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate token secret")
	}

	token := &models.APIToken{
		ID:        uuid.New().String(),
		Name:      name,
		TokenHash: hashSecret(secret),
		Scopes:    scopes,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, token); err != nil {
		return nil, "", apperrors.NewDatabaseError("create token", err)
	}

	s.logger.Info().
		Str("token_id", token.ID).
		Str("name", token.Name).
		Strs("scopes", scopes).
		Msg("API token created")

	return token, secret, nil
}

func (s *tokenService) Authenticate(ctx context.Context, secret string) (*models.APIToken, error) {
	if secret == "" {
		return nil, apperrors.New(apperrors.ErrCodeTokenNotFound, "Invalid API token")
	}

	token, err := s.repo.GetByHash(ctx, hashSecret(secret))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeTokenNotFound, "Invalid API token")
		}
		return nil, apperrors.NewDatabaseError("get token", err)
	}

	if token.IsRevoked() {
		return nil, apperrors.New(apperrors.ErrCodeTokenNotFound, "Invalid API token")
	}

	// Best effort; authentication does not depend on it.
	if err := s.repo.TouchLastUsed(ctx, token.ID); err != nil {
		s.logger.Warn().Err(err).Str("token_id", token.ID).Msg("Failed to update token last_used_at")
	}

	return token, nil
}

func (s *tokenService) List(ctx context.Context) ([]*models.APIToken, error) {
	tokens, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tokens", err)
	}
	return tokens, nil
}

func (s *tokenService) Revoke(ctx context.Context, id string) error {
	if err := s.repo.Revoke(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return apperrors.NewNotFoundError("token", id)
		}
		return apperrors.NewDatabaseError("revoke token", err)
	}

	s.logger.Info().Str("token_id", id).Msg("API token revoked")
	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "ifk_" + hex.EncodeToString(buf), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
