package service

import (
	"context"

	"icefuse-kits-backend/internal/features/giveaway/models"
	"icefuse-kits-backend/internal/features/giveaway/models/dto"
)

// GiveawayService is the giveaway core: the lifecycle processor, the entry
// ledger and the admin CRUD operations.
type GiveawayService interface {
	// ProcessLifecycle reconciles every giveaway with the wall clock:
	// activates giveaways whose window has opened and draws winners for
	// giveaways whose window has closed. Invoked inline before every
	// giveaway read/write and periodically by the Runner.
	ProcessLifecycle(ctx context.Context) error

	CheckStatus(ctx context.Context, steamID, server string) (*models.Status, error)
	SubmitEntry(ctx context.Context, input dto.EntryCreateRequest) (*models.Entry, *models.Giveaway, error)

	Create(ctx context.Context, input dto.GiveawayCreateRequest) (*models.Giveaway, error)
	Get(ctx context.Context, id string) (*models.Giveaway, error)
	List(ctx context.Context) ([]*models.Giveaway, error)
	Update(ctx context.Context, id string, input dto.GiveawayUpdateRequest) (*models.Giveaway, error)
	Delete(ctx context.Context, id string) error
	GetEntries(ctx context.Context, giveawayID string) ([]models.Entry, error)
}
