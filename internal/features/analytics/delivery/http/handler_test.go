package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icefuse-kits-backend/internal/common/middleware"
	"icefuse-kits-backend/internal/features/analytics/models"
	tokenmodels "icefuse-kits-backend/internal/features/token/models"
	tokenmemory "icefuse-kits-backend/internal/features/token/repository/memory"
	tokenservice "icefuse-kits-backend/internal/features/token/service"
)

type stubAnalyticsService struct {
	ingested [][]models.Event
}

func (s *stubAnalyticsService) Ingest(ctx context.Context, events []models.Event) (int, error) {
	s.ingested = append(s.ingested, events)
	return len(events), nil
}

func newAnalyticsEnv(t *testing.T) (*gin.Engine, *stubAnalyticsService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenSvc := tokenservice.NewTokenService(tokenmemory.NewRepository(), zerolog.Nop())
	_, secret, err := tokenSvc.CreateToken(context.Background(), "plugin",
		[]string{tokenmodels.ScopeAnalyticsWrite})
	require.NoError(t, err)

	stub := &stubAnalyticsService{}
	router := gin.New()
	router.Use(middleware.RequestID())
	v1 := router.Group("/api/v1")
	NewAnalyticsHandler(stub, tokenSvc, 100, 100, zerolog.Nop()).RegisterRoutes(v1)

	return router, stub, secret
}

func postEvents(t *testing.T, router *gin.Engine, secret string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/events", &buf)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIngestEvents_Accepted(t *testing.T) {
	router, stub, secret := newAnalyticsEnv(t)

	rec := postEvents(t, router, secret, map[string]interface{}{
		"events": []map[string]interface{}{
			{"type": "player_connect", "server": "rust-main", "steamId64": "76561198000000001"},
			{"type": "wipe_started", "server": "rust-main"},
		},
	})

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["accepted"])

	require.Len(t, stub.ingested, 1)
	assert.Len(t, stub.ingested[0], 2)
}

func TestIngestEvents_EmptyBatchRejected(t *testing.T) {
	router, stub, secret := newAnalyticsEnv(t)

	rec := postEvents(t, router, secret, map[string]interface{}{
		"events": []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.ingested)
}

func TestIngestEvents_RequiresScope(t *testing.T) {
	router, _, _ := newAnalyticsEnv(t)

	rec := postEvents(t, router, "", map[string]interface{}{
		"events": []map[string]interface{}{{"type": "x", "server": "s"}},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
