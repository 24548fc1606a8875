package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"icefuse-kits-backend/internal/common/metrics"
	"icefuse-kits-backend/internal/features/giveaway/models"
	"icefuse-kits-backend/internal/utils/random"
)

// ProcessLifecycle brings every giveaway in line with the current wall-clock
// time. Activation runs first so a giveaway is never auto-ended without
// having been observed active in the same pass. Per-giveaway draw failures
// are isolated: the giveaway stays open and is retried on the next pass.
func (s *giveawayService) ProcessLifecycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.LifecycleRunDuration.Observe(time.Since(start).Seconds())
	}()

	now := s.now()

	activated, err := s.repo.ActivateDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to activate due giveaways: %w", err)
	}
	if activated > 0 {
		s.logger.Info().Int64("count", activated).Msg("Giveaways auto-activated")
	}

	expired, err := s.repo.ListExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list expired giveaways: %w", err)
	}

	for _, giveaway := range expired {
		if err := s.closeAndDraw(ctx, giveaway, now); err != nil {
			metrics.LifecycleErrors.Inc()
			s.logger.Error().
				Err(err).
				Str("giveaway_id", giveaway.ID).
				Str("giveaway_name", giveaway.Name).
				Msg("Failed to close giveaway, will retry on next pass")
		}
	}

	return nil
}

// closeAndDraw closes one expired giveaway and draws its winners in a single
// transaction. The optimistic close is the concurrency guard: if zero rows
// were affected, a concurrent request already drew this giveaway and the
// whole transaction is abandoned.
func (s *giveawayService) closeAndDraw(ctx context.Context, giveaway *models.Giveaway, now time.Time) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	closed, err := s.repo.CloseIfOpen(ctx, tx, giveaway.ID, now)
	if err != nil {
		return err
	}
	if !closed {
		return nil
	}

	entries, err := s.repo.GetEntriesTx(ctx, tx, giveaway.ID)
	if err != nil {
		return err
	}

	winners, err := random.Draw(entries, giveaway.MaxWinners)
	if err != nil {
		return fmt.Errorf("failed to draw winners: %w", err)
	}

	if len(winners) > 0 {
		ids := make([]string, len(winners))
		for i, w := range winners {
			ids[i] = w.ID
		}
		if err := s.repo.MarkWinnersTx(ctx, tx, giveaway.ID, ids); err != nil {
			return err
		}
		if err := s.repo.SetWinnerSnapshotTx(ctx, tx, giveaway.ID, winners[0]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.GiveawaysClosed.Inc()

	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = w.PlayerName
	}
	event := s.logger.Info().
		Str("giveaway_id", giveaway.ID).
		Str("giveaway_name", giveaway.Name).
		Int("entries", len(entries))
	if len(names) > 0 {
		event.Strs("winners", names)
	} else {
		event.Str("winners", "none")
	}
	event.Msg("Giveaway closed")

	return nil
}

// Runner invokes ProcessLifecycle on a fixed interval so giveaway state does
// not depend on request traffic to advance.
type Runner struct {
	service  GiveawayService
	interval time.Duration
	logger   zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(service GiveawayService, interval time.Duration, logger zerolog.Logger) *Runner {
	return &Runner{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Info().Dur("interval", r.interval).Msg("Lifecycle runner started")

		for {
			select {
			case <-ticker.C:
				if err := r.service.ProcessLifecycle(ctx); err != nil {
					r.logger.Error().Err(err).Msg("Lifecycle pass failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info().Msg("Lifecycle runner stopped")
}
