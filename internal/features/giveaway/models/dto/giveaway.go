package dto

import "time"

// EntryCreateRequest is the body of POST /giveaway, submitted by a trusted
// game-server plugin on behalf of a player. PlayTime is self-reported by the
// plugin and gated server-side against the giveaway's minimum.
type EntryCreateRequest struct {
	PlayerName      string `json:"playerName"`
	PlayerSteamID64 string `json:"playerSteamId64"`
	PlayTime        int64  `json:"playTime"`
	Server          string `json:"server"`
}

// GiveawayCreateRequest is the admin creation payload. IsActive defaults to
// false unless explicitly set; activation is otherwise driven by StartAt.
type GiveawayCreateRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	IsActive         *bool      `json:"isActive"`
	IsGlobal         bool       `json:"isGlobal"`
	MinPlaytimeHours float64    `json:"minPlaytimeHours"`
	MaxWinners       int        `json:"maxWinners"`
	StartAt          *time.Time `json:"startAt"`
	EndAt            *time.Time `json:"endAt"`
	Servers          []string   `json:"servers"`
}

// GiveawayUpdateRequest mirrors the create payload. The server set is
// replaced wholesale, never diffed.
type GiveawayUpdateRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	IsActive         *bool      `json:"isActive"`
	IsGlobal         bool       `json:"isGlobal"`
	MinPlaytimeHours float64    `json:"minPlaytimeHours"`
	MaxWinners       int        `json:"maxWinners"`
	StartAt          *time.Time `json:"startAt"`
	EndAt            *time.Time `json:"endAt"`
	Servers          []string   `json:"servers"`
}
