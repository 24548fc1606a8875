package repository

import (
	"context"
	"errors"
	"time"

	"icefuse-kits-backend/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound = errors.New("giveaway not found")
	ErrDuplicateEntry   = errors.New("entry already exists for this player and giveaway")
)

type Transaction interface {
	Commit() error
	Rollback() error
}

// GiveawayRepository is the storage boundary for giveaways, their server
// scopes and their entries. The close-and-draw path runs inside one
// transaction keyed by the optimistic CloseIfOpen check.
type GiveawayRepository interface {
	BeginTx(ctx context.Context) (Transaction, error)

	Create(ctx context.Context, giveaway *models.Giveaway) error
	GetByID(ctx context.Context, id string) (*models.Giveaway, error)
	List(ctx context.Context) ([]*models.Giveaway, error)
	Update(ctx context.Context, giveaway *models.Giveaway) error
	Delete(ctx context.Context, id string) error

	// ActivateDue flips every giveaway whose window has opened to active.
	// Bulk conditional update; idempotent.
	ActivateDue(ctx context.Context, now time.Time) (int64, error)

	// ListExpired returns active giveaways whose end time has passed.
	ListExpired(ctx context.Context, now time.Time) ([]*models.Giveaway, error)

	// CloseIfOpen marks the giveaway inactive and stamps ended_at, but only
	// if ended_at is still null. Returns false when another request already
	// closed it.
	CloseIfOpen(ctx context.Context, tx Transaction, id string, now time.Time) (bool, error)

	GetEntriesTx(ctx context.Context, tx Transaction, giveawayID string) ([]models.Entry, error)
	MarkWinnersTx(ctx context.Context, tx Transaction, giveawayID string, entryIDs []string) error
	SetWinnerSnapshotTx(ctx context.Context, tx Transaction, giveawayID string, winner models.Entry) error

	// FindActiveForServer returns the most recently created giveaway that is
	// currently active and applies to the server (global or scoped).
	FindActiveForServer(ctx context.Context, server string, now time.Time) (*models.Giveaway, error)

	// FindLatestEndedForServer returns the most recently ended giveaway
	// matching the server scope, for winner-announcement display.
	FindLatestEndedForServer(ctx context.Context, server string) (*models.Giveaway, error)

	GetEntries(ctx context.Context, giveawayID string) ([]models.Entry, error)
	HasEntry(ctx context.Context, giveawayID, steamID string) (bool, error)

	// CreateEntry inserts one entry. Returns ErrDuplicateEntry when the
	// (giveaway_id, player_steam_id64) unique constraint is violated.
	CreateEntry(ctx context.Context, entry *models.Entry) error
}
