package models

import (
	"time"
)

// Giveaway is one promotional drawing. The winner_* columns are a display
// denormalization of the first drawn entry; the source of truth for winners
// is the set of entries with IsWinner set.
type Giveaway struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Description      string     `db:"description" json:"description"`
	IsActive         bool       `db:"is_active" json:"isActive"`
	IsGlobal         bool       `db:"is_global" json:"isGlobal"`
	MinPlaytimeHours float64    `db:"min_playtime_hours" json:"minPlaytimeHours"`
	MaxWinners       int        `db:"max_winners" json:"maxWinners"`
	StartAt          *time.Time `db:"start_at" json:"startAt"`
	EndAt            *time.Time `db:"end_at" json:"endAt"`
	EndedAt          *time.Time `db:"ended_at" json:"endedAt"`
	WinnerID         *string    `db:"winner_id" json:"winnerId"`
	WinnerName       *string    `db:"winner_name" json:"winnerName"`
	WinnerSteamID64  *string    `db:"winner_steam_id64" json:"winnerSteamId64"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`

	// Servers the giveaway applies to; empty when IsGlobal.
	Servers []string `db:"-" json:"servers,omitempty"`
}

// MinPlaytimeSeconds converts the configured gate to the unit entries report.
func (g *Giveaway) MinPlaytimeSeconds() int64 {
	return int64(g.MinPlaytimeHours * 3600)
}

// IsEnded reports whether the draw has been performed. A giveaway never
// transitions out of the ended state.
func (g *Giveaway) IsEnded() bool {
	return g.EndedAt != nil
}

// IsCurrentlyActive reports whether now falls inside the closed interval
// [StartAt, EndAt], with a nil bound meaning unbounded on that side.
func (g *Giveaway) IsCurrentlyActive(now time.Time) bool {
	if !g.IsActive || g.IsEnded() {
		return false
	}
	if g.StartAt != nil && now.Before(*g.StartAt) {
		return false
	}
	if g.EndAt != nil && now.After(*g.EndAt) {
		return false
	}
	return true
}

// AppliesToServer reports whether the giveaway covers the given server.
func (g *Giveaway) AppliesToServer(server string) bool {
	if g.IsGlobal {
		return true
	}
	for _, s := range g.Servers {
		if s == server {
			return true
		}
	}
	return false
}

// Entry is one player's registration into one giveaway. Unique per
// (GiveawayID, PlayerSteamID64), enforced by the storage layer.
type Entry struct {
	ID              string    `db:"id" json:"id"`
	PlayerName      string    `db:"player_name" json:"playerName"`
	PlayerSteamID64 string    `db:"player_steam_id64" json:"playerSteamId64"`
	PlayTime        int64     `db:"play_time" json:"playTime"` // seconds
	Server          string    `db:"server" json:"server"`
	GiveawayID      string    `db:"giveaway_id" json:"giveawayId"`
	IsWinner        bool      `db:"is_winner" json:"isWinner"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// GiveawaySummary is the public projection returned on the player-facing
// status endpoint.
type GiveawaySummary struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	MinPlaytimeHours float64    `json:"minPlaytimeHours"`
	EndAt            *time.Time `json:"endAt"`
}

func NewGiveawaySummary(g *Giveaway) *GiveawaySummary {
	return &GiveawaySummary{
		ID:               g.ID,
		Name:             g.Name,
		MinPlaytimeHours: g.MinPlaytimeHours,
		EndAt:            g.EndAt,
	}
}

// Status is the Entry Ledger's answer to a status check.
type Status struct {
	Active     bool
	Giveaway   *Giveaway
	HasEntered *bool // set only when a steam id was supplied and a giveaway is active
	Entries    []Entry
	Message    string
}
