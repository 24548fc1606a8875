package models

import (
	"fmt"
	"time"

	"icefuse-kits-backend/internal/common/validation"
)

// Event is one telemetry datapoint reported by a game-server plugin.
type Event struct {
	Type       string                 `json:"type"`
	Server     string                 `json:"server"`
	SteamID64  string                 `json:"steamId64,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

func (e *Event) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("type cannot be empty")
	}
	if err := validation.ValidateServer(e.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if e.SteamID64 != "" && !validation.IsValidSteamID64(e.SteamID64) {
		return fmt.Errorf("steamId64 must be exactly 17 digits")
	}
	return nil
}
