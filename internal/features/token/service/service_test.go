package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/features/token/models"
	"icefuse-kits-backend/internal/features/token/repository"
	"icefuse-kits-backend/internal/features/token/repository/memory"
)

func newMemTokenRepository() repository.TokenRepository {
	return memory.NewRepository()
}

func TestCreateToken_SecretRoundTrip(t *testing.T) {
	repo := newMemTokenRepository()
	svc := NewTokenService(repo, zerolog.Nop())

	token, secret, err := svc.CreateToken(context.Background(), "plugin", []string{models.ScopeGiveawaysRead})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(secret, "ifk_"))
	assert.NotContains(t, token.TokenHash, secret, "plaintext must not be stored")

	authed, err := svc.Authenticate(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, token.ID, authed.ID)
	assert.True(t, authed.HasScope(models.ScopeGiveawaysRead))
	assert.False(t, authed.HasScope(models.ScopeGiveawaysWrite))
}

func TestCreateToken_Validation(t *testing.T) {
	svc := NewTokenService(newMemTokenRepository(), zerolog.Nop())

	_, _, err := svc.CreateToken(context.Background(), "", []string{models.ScopeGiveawaysRead})
	require.Error(t, err)

	_, _, err = svc.CreateToken(context.Background(), "plugin", nil)
	require.Error(t, err)

	_, _, err = svc.CreateToken(context.Background(), "plugin", []string{"giveaways:destroy"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestAuthenticate_UnknownAndRevokedFailIdentically(t *testing.T) {
	repo := newMemTokenRepository()
	svc := NewTokenService(repo, zerolog.Nop())

	token, secret, err := svc.CreateToken(context.Background(), "plugin", []string{models.ScopeGiveawaysWrite})
	require.NoError(t, err)

	_, unknownErr := svc.Authenticate(context.Background(), "ifk_deadbeef")

	require.NoError(t, svc.Revoke(context.Background(), token.ID))
	_, revokedErr := svc.Authenticate(context.Background(), secret)

	require.Error(t, unknownErr)
	require.Error(t, revokedErr)
	assert.Equal(t, unknownErr.Error(), revokedErr.Error(),
		"revoked and unknown tokens must be indistinguishable to the caller")
}

func TestAuthenticate_TouchesLastUsed(t *testing.T) {
	repo := newMemTokenRepository()
	svc := NewTokenService(repo, zerolog.Nop())

	token, secret, err := svc.CreateToken(context.Background(), "plugin", []string{models.ScopeGiveawaysRead})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), secret)
	require.NoError(t, err)

	tokens, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.ID, tokens[0].ID)
	assert.NotNil(t, tokens[0].LastUsedAt)
}

func TestRevoke_NotFound(t *testing.T) {
	svc := NewTokenService(newMemTokenRepository(), zerolog.Nop())

	err := svc.Revoke(context.Background(), "missing")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
