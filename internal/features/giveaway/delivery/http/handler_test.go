package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icefuse-kits-backend/internal/common/middleware"
	giveawaymemory "icefuse-kits-backend/internal/features/giveaway/repository/memory"
	giveawayservice "icefuse-kits-backend/internal/features/giveaway/service"
	tokenmodels "icefuse-kits-backend/internal/features/token/models"
	tokenmemory "icefuse-kits-backend/internal/features/token/repository/memory"
	tokenservice "icefuse-kits-backend/internal/features/token/service"
)

type testEnv struct {
	router      *gin.Engine
	adminSecret string
	readSecret  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	giveawaySvc := giveawayservice.NewGiveawayService(giveawaymemory.NewRepository(), zerolog.Nop())
	tokenSvc := tokenservice.NewTokenService(tokenmemory.NewRepository(), zerolog.Nop())

	_, adminSecret, err := tokenSvc.CreateToken(context.Background(), "admin",
		[]string{tokenmodels.ScopeGiveawaysRead, tokenmodels.ScopeGiveawaysWrite})
	require.NoError(t, err)

	_, readSecret, err := tokenSvc.CreateToken(context.Background(), "read-only",
		[]string{tokenmodels.ScopeGiveawaysRead})
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.RequestID())
	v1 := router.Group("/api/v1")
	NewGiveawayHandler(giveawaySvc, tokenSvc, zerolog.Nop()).RegisterRoutes(v1)

	return &testEnv{router: router, adminSecret: adminSecret, readSecret: readSecret}
}

func (e *testEnv) do(t *testing.T, method, path, secret string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestGiveawayFlow_WipeParty(t *testing.T) {
	env := newTestEnv(t)

	endAt := time.Now().Add(400 * time.Millisecond)
	rec, resp := env.do(t, http.MethodPost, "/api/v1/giveaways", env.adminSecret, map[string]interface{}{
		"name":             "Wipe Party",
		"isActive":         true,
		"isGlobal":         true,
		"minPlaytimeHours": 2,
		"maxWinners":       1,
		"endAt":            endAt.Format(time.RFC3339Nano),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := resp["data"].(map[string]interface{})
	giveawayID := created["id"].(string)

	// A player below the playtime gate is rejected with both sides of the
	// comparison in the error details.
	rec, resp = env.do(t, http.MethodPost, "/api/v1/giveaway", env.adminSecret, map[string]interface{}{
		"playerName":      "Newbie",
		"playerSteamId64": "76561198000000099",
		"playTime":        7199,
		"server":          "rust-main",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, false, resp["success"])
	details := resp["details"].(map[string]interface{})
	assert.Equal(t, float64(7200), details["required"])
	assert.Equal(t, float64(7199), details["current"])

	steamIDs := make(map[string]bool)
	for i := 0; i < 3; i++ {
		steamID := fmt.Sprintf("7656119800000000%d", i)
		steamIDs[steamID] = true
		rec, resp = env.do(t, http.MethodPost, "/api/v1/giveaway", env.adminSecret, map[string]interface{}{
			"playerName":      fmt.Sprintf("Player %d", i),
			"playerSteamId64": steamID,
			"playTime":        7200 + i*1000,
			"server":          "rust-main",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Wipe Party", resp["giveaway"].(map[string]interface{})["name"])
	}

	// Duplicate submission conflicts.
	rec, _ = env.do(t, http.MethodPost, "/api/v1/giveaway", env.adminSecret, map[string]interface{}{
		"playerName":      "Player 0",
		"playerSteamId64": "76561198000000000",
		"playTime":        9000,
		"server":          "rust-main",
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// Status while the giveaway is still open.
	rec, resp = env.do(t, http.MethodGet, "/api/v1/giveaway?server=rust-main&steamId=76561198000000000", env.readSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp["active"])
	assert.Equal(t, true, resp["hasEntered"])
	assert.Equal(t, float64(3), resp["count"])

	// Let the window expire; the next read reconciles and draws.
	time.Sleep(time.Until(endAt) + 100*time.Millisecond)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/giveaway?server=rust-main", env.readSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, resp["active"])

	giveaway := resp["giveaway"].(map[string]interface{})
	assert.Equal(t, giveawayID, giveaway["id"])
	require.NotNil(t, giveaway["endedAt"])
	winnerSteamID, _ := giveaway["winnerSteamId64"].(string)
	assert.True(t, steamIDs[winnerSteamID], "winner must be one of the entrants, got %q", winnerSteamID)

	winners := 0
	for _, raw := range resp["data"].([]interface{}) {
		entry := raw.(map[string]interface{})
		if entry["isWinner"] == true {
			winners++
			assert.Equal(t, winnerSteamID, entry["playerSteamId64"])
		}
	}
	assert.Equal(t, 1, winners)

	// The drawn giveaway is immutable.
	rec, _ = env.do(t, http.MethodPut, "/api/v1/giveaways/"+giveawayID, env.adminSecret, map[string]interface{}{
		"name": "Renamed",
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestStatus_NoGiveaway(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/giveaway?server=rust-main", env.readSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["active"])
	assert.Equal(t, "No giveaway found", resp["message"])
	assert.Equal(t, float64(0), resp["count"])
	assert.NotNil(t, resp["data"], "entries must serialize as an empty array")
}

func TestStatus_InvalidSteamID(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/giveaway?steamId=not-a-steam-id", env.readSecret, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
}

func TestAuth_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/giveaway", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/giveaway", "ifk_bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MissingScope(t *testing.T) {
	env := newTestEnv(t)

	// Read-only token cannot submit entries or administer giveaways.
	rec, _ := env.do(t, http.MethodPost, "/api/v1/giveaway", env.readSecret, map[string]interface{}{
		"playerName":      "Gordon",
		"playerSteamId64": "76561198000000001",
		"playTime":        100,
		"server":          "rust-main",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/giveaways", env.readSecret, map[string]interface{}{
		"name": "Nope",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/giveaways", env.adminSecret, map[string]interface{}{
		"name":    "Scoped",
		"servers": []string{"ttt", "darkrp"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := resp["data"].(map[string]interface{})["id"].(string)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/giveaways/"+id, env.adminSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Scoped", data["name"])
	assert.Equal(t, false, data["isActive"])
	assert.Equal(t, float64(1), data["maxWinners"], "maxWinners defaults to 1")

	rec, resp = env.do(t, http.MethodPut, "/api/v1/giveaways/"+id, env.adminSecret, map[string]interface{}{
		"name":     "Scoped v2",
		"isActive": true,
		"servers":  []string{"ttt"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Scoped v2", resp["data"].(map[string]interface{})["name"])

	rec, resp = env.do(t, http.MethodGet, "/api/v1/giveaways", env.adminSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/giveaways/"+id, env.adminSecret, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/giveaways/"+id, env.adminSecret, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
