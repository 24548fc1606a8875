package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventValidate(t *testing.T) {
	valid := Event{Type: "player_kill", Server: "rust-main", SteamID64: "76561198000000001"}
	assert.NoError(t, valid.Validate())

	// Steam id is optional for server-level events.
	serverEvent := Event{Type: "wipe_started", Server: "rust-main"}
	assert.NoError(t, serverEvent.Validate())

	assert.Error(t, (&Event{Server: "rust-main"}).Validate())
	assert.Error(t, (&Event{Type: "player_kill"}).Validate())
	assert.Error(t, (&Event{Type: "player_kill", Server: "rust-main", SteamID64: "short"}).Validate())
}
