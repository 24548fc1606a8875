package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/common/metrics"
	"icefuse-kits-backend/internal/common/validation"
	"icefuse-kits-backend/internal/features/giveaway/models"
	"icefuse-kits-backend/internal/features/giveaway/models/dto"
	"icefuse-kits-backend/internal/features/giveaway/repository"
)

type giveawayService struct {
	repo   repository.GiveawayRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewGiveawayService(repo repository.GiveawayRepository, logger zerolog.Logger) GiveawayService {
	return &giveawayService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *giveawayService) CheckStatus(ctx context.Context, steamID, server string) (*models.Status, error) {
	now := s.now()

	giveaway, err := s.repo.FindActiveForServer(ctx, server, now)
	if err != nil {
		if !errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, apperrors.NewDatabaseError("find active giveaway", err)
		}

		// No active giveaway: fall back to the most recently ended one so
		// callers can display the winner announcement.
		ended, endedErr := s.repo.FindLatestEndedForServer(ctx, server)
		if endedErr != nil {
			if errors.Is(endedErr, repository.ErrGiveawayNotFound) {
				return &models.Status{Active: false, Message: "No giveaway found"}, nil
			}
			return nil, apperrors.NewDatabaseError("find ended giveaway", endedErr)
		}

		entries, entriesErr := s.repo.GetEntries(ctx, ended.ID)
		if entriesErr != nil {
			return nil, apperrors.NewDatabaseError("get entries", entriesErr)
		}

		return &models.Status{Active: false, Giveaway: ended, Entries: entries}, nil
	}

	status := &models.Status{Active: true, Giveaway: giveaway}

	if steamID != "" {
		entered, err := s.repo.HasEntry(ctx, giveaway.ID, steamID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("check entry", err)
		}
		status.HasEntered = &entered
	}

	entries, err := s.repo.GetEntries(ctx, giveaway.ID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get entries", err)
	}
	status.Entries = entries

	return status, nil
}

func (s *giveawayService) SubmitEntry(ctx context.Context, input dto.EntryCreateRequest) (*models.Entry, *models.Giveaway, error) {
	if err := validation.ValidatePlayerName(input.PlayerName); err != nil {
		return nil, nil, apperrors.NewValidationError("playerName", err.Error())
	}
	if err := validation.ValidateSteamID64(input.PlayerSteamID64); err != nil {
		return nil, nil, apperrors.NewValidationError("playerSteamId64", err.Error())
	}
	if input.PlayTime < 0 {
		return nil, nil, apperrors.NewValidationError("playTime", "cannot be negative")
	}
	if err := validation.ValidateServer(input.Server); err != nil {
		return nil, nil, apperrors.NewValidationError("server", err.Error())
	}

	// Eligibility is always re-resolved server-side; the client is never
	// trusted to name the giveaway it is entering.
	giveaway, err := s.repo.FindActiveForServer(ctx, input.Server, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			metrics.EntrySubmissions.WithLabelValues("rejected").Inc()
			return nil, nil, apperrors.NewNoActiveGiveawayError(input.Server)
		}
		metrics.EntrySubmissions.WithLabelValues("error").Inc()
		return nil, nil, apperrors.NewDatabaseError("find active giveaway", err)
	}

	if required := giveaway.MinPlaytimeSeconds(); input.PlayTime < required {
		metrics.EntrySubmissions.WithLabelValues("rejected").Inc()
		return nil, nil, apperrors.NewPlaytimeTooLowError(required, input.PlayTime)
	}

	// Pre-check is an optimization; the unique constraint in storage is the
	// real duplicate guarantee.
	entered, err := s.repo.HasEntry(ctx, giveaway.ID, input.PlayerSteamID64)
	if err != nil {
		metrics.EntrySubmissions.WithLabelValues("error").Inc()
		return nil, nil, apperrors.NewDatabaseError("check entry", err)
	}
	if entered {
		metrics.EntrySubmissions.WithLabelValues("conflict").Inc()
		return nil, nil, apperrors.NewAlreadyEnteredError(input.PlayerSteamID64)
	}

	entry := &models.Entry{
		ID:              uuid.New().String(),
		PlayerName:      input.PlayerName,
		PlayerSteamID64: input.PlayerSteamID64,
		PlayTime:        input.PlayTime,
		Server:          input.Server,
		GiveawayID:      giveaway.ID,
		CreatedAt:       s.now(),
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			metrics.EntrySubmissions.WithLabelValues("conflict").Inc()
			return nil, nil, apperrors.NewAlreadyEnteredError(input.PlayerSteamID64)
		}
		metrics.EntrySubmissions.WithLabelValues("error").Inc()
		return nil, nil, apperrors.NewDatabaseError("create entry", err)
	}

	metrics.EntrySubmissions.WithLabelValues("accepted").Inc()

	s.logger.Info().
		Str("giveaway_id", giveaway.ID).
		Str("giveaway_name", giveaway.Name).
		Str("player_steam_id64", entry.PlayerSteamID64).
		Str("server", entry.Server).
		Msg("Giveaway entry accepted")

	return entry, giveaway, nil
}

func (s *giveawayService) Create(ctx context.Context, input dto.GiveawayCreateRequest) (*models.Giveaway, error) {
	if err := validation.ValidateGiveawayName(input.Name); err != nil {
		return nil, apperrors.NewValidationError("name", err.Error())
	}
	if err := validation.ValidateDescription(input.Description); err != nil {
		return nil, apperrors.NewValidationError("description", err.Error())
	}
	if err := validation.ValidateNonNegativeFloat(input.MinPlaytimeHours, "minPlaytimeHours"); err != nil {
		return nil, apperrors.NewValidationError("minPlaytimeHours", err.Error())
	}

	maxWinners := input.MaxWinners
	if maxWinners == 0 {
		maxWinners = 1
	}
	if err := validation.ValidatePositiveInt(maxWinners, "maxWinners"); err != nil {
		return nil, apperrors.NewValidationError("maxWinners", err.Error())
	}

	if input.StartAt != nil && input.EndAt != nil && input.EndAt.Before(*input.StartAt) {
		return nil, apperrors.NewValidationError("endAt", "must not be before startAt")
	}

	isActive := false
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	servers := input.Servers
	if input.IsGlobal {
		servers = nil
	}

	giveaway := &models.Giveaway{
		ID:               uuid.New().String(),
		Name:             input.Name,
		Description:      input.Description,
		IsActive:         isActive,
		IsGlobal:         input.IsGlobal,
		MinPlaytimeHours: input.MinPlaytimeHours,
		MaxWinners:       maxWinners,
		StartAt:          input.StartAt,
		EndAt:            input.EndAt,
		CreatedAt:        s.now(),
		UpdatedAt:        s.now(),
		Servers:          servers,
	}

	if err := s.repo.Create(ctx, giveaway); err != nil {
		return nil, apperrors.NewDatabaseError("create giveaway", err)
	}

	s.logger.Info().
		Str("giveaway_id", giveaway.ID).
		Str("name", giveaway.Name).
		Bool("is_global", giveaway.IsGlobal).
		Msg("Giveaway created")

	return giveaway, nil
}

func (s *giveawayService) Get(ctx context.Context, id string) (*models.Giveaway, error) {
	giveaway, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, apperrors.NewNotFoundError("giveaway", id)
		}
		return nil, apperrors.NewDatabaseError("get giveaway", err)
	}
	return giveaway, nil
}

func (s *giveawayService) List(ctx context.Context) ([]*models.Giveaway, error) {
	giveaways, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list giveaways", err)
	}
	return giveaways, nil
}

func (s *giveawayService) Update(ctx context.Context, id string, input dto.GiveawayUpdateRequest) (*models.Giveaway, error) {
	if err := validation.ValidateGiveawayName(input.Name); err != nil {
		return nil, apperrors.NewValidationError("name", err.Error())
	}
	if err := validation.ValidateNonNegativeFloat(input.MinPlaytimeHours, "minPlaytimeHours"); err != nil {
		return nil, apperrors.NewValidationError("minPlaytimeHours", err.Error())
	}

	maxWinners := input.MaxWinners
	if maxWinners == 0 {
		maxWinners = 1
	}
	if err := validation.ValidatePositiveInt(maxWinners, "maxWinners"); err != nil {
		return nil, apperrors.NewValidationError("maxWinners", err.Error())
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// A drawn giveaway is immutable.
	if current.IsEnded() {
		return nil, apperrors.NewConflictError("giveaway", "already ended")
	}

	isActive := current.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	servers := input.Servers
	if input.IsGlobal {
		servers = nil
	}

	updated := &models.Giveaway{
		ID:               id,
		Name:             input.Name,
		Description:      input.Description,
		IsActive:         isActive,
		IsGlobal:         input.IsGlobal,
		MinPlaytimeHours: input.MinPlaytimeHours,
		MaxWinners:       maxWinners,
		StartAt:          input.StartAt,
		EndAt:            input.EndAt,
		Servers:          servers,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, apperrors.NewNotFoundError("giveaway", id)
		}
		return nil, apperrors.NewDatabaseError("update giveaway", err)
	}

	return s.Get(ctx, id)
}

func (s *giveawayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return apperrors.NewNotFoundError("giveaway", id)
		}
		return apperrors.NewDatabaseError("delete giveaway", err)
	}

	s.logger.Info().Str("giveaway_id", id).Msg("Giveaway deleted")
	return nil
}

func (s *giveawayService) GetEntries(ctx context.Context, giveawayID string) ([]models.Entry, error) {
	if _, err := s.Get(ctx, giveawayID); err != nil {
		return nil, err
	}

	entries, err := s.repo.GetEntries(ctx, giveawayID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get entries", err)
	}
	return entries, nil
}
