package models

import (
	"time"

	"github.com/lib/pq"
)

// Scopes recognized by the API. A token carries any subset.
const (
	ScopeGiveawaysRead  = "giveaways:read"
	ScopeGiveawaysWrite = "giveaways:write"
	ScopeAnalyticsWrite = "analytics:write"
	ScopeTokensAdmin    = "tokens:admin"
)

// APIToken is a bearer credential. Only the SHA-256 hash of the secret is
// stored; the plaintext is returned exactly once, at creation.
type APIToken struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	TokenHash  string         `db:"token_hash" json:"-"`
	Scopes     pq.StringArray `db:"scopes" json:"scopes"`
	LastUsedAt *time.Time     `db:"last_used_at" json:"lastUsedAt"`
	RevokedAt  *time.Time     `db:"revoked_at" json:"revokedAt"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

func (t *APIToken) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func (t *APIToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// ValidScopes lists every scope the API understands.
func ValidScopes() []string {
	return []string{ScopeGiveawaysRead, ScopeGiveawaysWrite, ScopeAnalyticsWrite, ScopeTokensAdmin}
}

func IsValidScope(scope string) bool {
	for _, s := range ValidScopes() {
		if s == scope {
			return true
		}
	}
	return false
}
