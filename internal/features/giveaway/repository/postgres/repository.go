package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"icefuse-kits-backend/internal/features/giveaway/models"
	"icefuse-kits-backend/internal/features/giveaway/repository"
)

const uniqueViolation = "23505"

const giveawayColumns = `id, name, description, is_active, is_global, min_playtime_hours,
	max_winners, start_at, end_at, ended_at, winner_id, winner_name, winner_steam_id64,
	created_at, updated_at`

type postgresRepository struct {
	db *sqlx.DB
}

type postgresTransaction struct {
	tx *sqlx.Tx
}

func (t *postgresTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *postgresTransaction) Rollback() error {
	return t.tx.Rollback()
}

func NewPostgresRepository(db *sqlx.DB) repository.GiveawayRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) BeginTx(ctx context.Context) (repository.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &postgresTransaction{tx: tx}, nil
}

func (r *postgresRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO giveaways (id, name, description, is_active, is_global, min_playtime_hours,
			max_winners, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err = tx.ExecContext(ctx, query,
		giveaway.ID, giveaway.Name, giveaway.Description, giveaway.IsActive, giveaway.IsGlobal,
		giveaway.MinPlaytimeHours, giveaway.MaxWinners, giveaway.StartAt, giveaway.EndAt,
		giveaway.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create giveaway: %w", err)
	}

	if err := insertServers(ctx, tx, giveaway.ID, giveaway.Servers); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	var giveaway models.Giveaway
	query := `SELECT ` + giveawayColumns + ` FROM giveaways WHERE id = $1`
	if err := r.db.GetContext(ctx, &giveaway, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrGiveawayNotFound
		}
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}

	servers, err := r.getServers(ctx, id)
	if err != nil {
		return nil, err
	}
	giveaway.Servers = servers

	return &giveaway, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*models.Giveaway, error) {
	var giveaways []*models.Giveaway
	query := `SELECT ` + giveawayColumns + ` FROM giveaways ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &giveaways, query); err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}

	for _, g := range giveaways {
		servers, err := r.getServers(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		g.Servers = servers
	}

	return giveaways, nil
}

// Update rewrites the giveaway row and replaces its server set wholesale.
func (r *postgresRepository) Update(ctx context.Context, giveaway *models.Giveaway) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE giveaways
		SET name = $2, description = $3, is_active = $4, is_global = $5,
			min_playtime_hours = $6, max_winners = $7, start_at = $8, end_at = $9,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query,
		giveaway.ID, giveaway.Name, giveaway.Description, giveaway.IsActive, giveaway.IsGlobal,
		giveaway.MinPlaytimeHours, giveaway.MaxWinners, giveaway.StartAt, giveaway.EndAt)
	if err != nil {
		return fmt.Errorf("failed to update giveaway: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrGiveawayNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM giveaway_servers WHERE giveaway_id = $1`, giveaway.ID); err != nil {
		return fmt.Errorf("failed to delete old servers: %w", err)
	}
	if err := insertServers(ctx, tx, giveaway.ID, giveaway.Servers); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM giveaways WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete giveaway: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrGiveawayNotFound
	}
	return nil
}

func (r *postgresRepository) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE giveaways
		SET is_active = TRUE, updated_at = $1
		WHERE is_active = FALSE
			AND ended_at IS NULL
			AND start_at IS NOT NULL AND start_at <= $1
			AND (end_at IS NULL OR end_at > $1)
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to activate due giveaways: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

func (r *postgresRepository) ListExpired(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	var giveaways []*models.Giveaway
	query := `
		SELECT ` + giveawayColumns + `
		FROM giveaways
		WHERE is_active = TRUE AND ended_at IS NULL AND end_at IS NOT NULL AND end_at <= $1
		ORDER BY end_at ASC
	`
	if err := r.db.SelectContext(ctx, &giveaways, query, now); err != nil {
		return nil, fmt.Errorf("failed to list expired giveaways: %w", err)
	}
	return giveaways, nil
}

func (r *postgresRepository) CloseIfOpen(ctx context.Context, tx repository.Transaction, id string, now time.Time) (bool, error) {
	ptx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}

	// Optimistic check: the row is only closed if nobody beat us to it.
	query := `
		UPDATE giveaways
		SET is_active = FALSE, ended_at = $2, updated_at = $2
		WHERE id = $1 AND ended_at IS NULL
	`
	res, err := ptx.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("failed to close giveaway: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *postgresRepository) GetEntriesTx(ctx context.Context, tx repository.Transaction, giveawayID string) ([]models.Entry, error) {
	ptx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}

	var entries []models.Entry
	query := `
		SELECT id, player_name, player_steam_id64, play_time, server, giveaway_id, is_winner, created_at
		FROM giveaway_entries
		WHERE giveaway_id = $1
		ORDER BY created_at ASC
	`
	if err := ptx.SelectContext(ctx, &entries, query, giveawayID); err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	return entries, nil
}

func (r *postgresRepository) MarkWinnersTx(ctx context.Context, tx repository.Transaction, giveawayID string, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	ptx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE giveaway_entries
		SET is_winner = TRUE
		WHERE giveaway_id = $1 AND id = ANY($2)
	`
	if _, err := ptx.ExecContext(ctx, query, giveawayID, pq.Array(entryIDs)); err != nil {
		return fmt.Errorf("failed to mark winners: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetWinnerSnapshotTx(ctx context.Context, tx repository.Transaction, giveawayID string, winner models.Entry) error {
	ptx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE giveaways
		SET winner_id = $2, winner_name = $3, winner_steam_id64 = $4
		WHERE id = $1
	`
	if _, err := ptx.ExecContext(ctx, query, giveawayID, winner.ID, winner.PlayerName, winner.PlayerSteamID64); err != nil {
		return fmt.Errorf("failed to set winner snapshot: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindActiveForServer(ctx context.Context, server string, now time.Time) (*models.Giveaway, error) {
	var giveaway models.Giveaway
	query := `
		SELECT ` + giveawayColumns + `
		FROM giveaways g
		WHERE g.is_active = TRUE
			AND g.ended_at IS NULL
			AND (g.start_at IS NULL OR g.start_at <= $2)
			AND (g.end_at IS NULL OR g.end_at >= $2)
			AND (g.is_global = TRUE OR EXISTS (
				SELECT 1 FROM giveaway_servers gs
				WHERE gs.giveaway_id = g.id AND gs.server = $1
			))
		ORDER BY g.created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &giveaway, query, server, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrGiveawayNotFound
		}
		return nil, fmt.Errorf("failed to find active giveaway: %w", err)
	}

	servers, err := r.getServers(ctx, giveaway.ID)
	if err != nil {
		return nil, err
	}
	giveaway.Servers = servers

	return &giveaway, nil
}

func (r *postgresRepository) FindLatestEndedForServer(ctx context.Context, server string) (*models.Giveaway, error) {
	var giveaway models.Giveaway
	query := `
		SELECT ` + giveawayColumns + `
		FROM giveaways g
		WHERE g.ended_at IS NOT NULL
			AND (g.is_global = TRUE OR EXISTS (
				SELECT 1 FROM giveaway_servers gs
				WHERE gs.giveaway_id = g.id AND gs.server = $1
			))
		ORDER BY g.ended_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &giveaway, query, server); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrGiveawayNotFound
		}
		return nil, fmt.Errorf("failed to find ended giveaway: %w", err)
	}

	servers, err := r.getServers(ctx, giveaway.ID)
	if err != nil {
		return nil, err
	}
	giveaway.Servers = servers

	return &giveaway, nil
}

func (r *postgresRepository) GetEntries(ctx context.Context, giveawayID string) ([]models.Entry, error) {
	var entries []models.Entry
	query := `
		SELECT id, player_name, player_steam_id64, play_time, server, giveaway_id, is_winner, created_at
		FROM giveaway_entries
		WHERE giveaway_id = $1
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &entries, query, giveawayID); err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	return entries, nil
}

func (r *postgresRepository) HasEntry(ctx context.Context, giveawayID, steamID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM giveaway_entries
			WHERE giveaway_id = $1 AND player_steam_id64 = $2
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, giveawayID, steamID); err != nil {
		return false, fmt.Errorf("failed to check entry existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CreateEntry(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO giveaway_entries (id, player_name, player_steam_id64, play_time, server, giveaway_id, is_winner, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.PlayerName, entry.PlayerSteamID64, entry.PlayTime,
		entry.Server, entry.GiveawayID, entry.IsWinner, entry.CreatedAt)
	if err != nil {
		// The unique constraint on (giveaway_id, player_steam_id64) is the
		// real duplicate guarantee; the service-level pre-check is only an
		// optimization.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) getServers(ctx context.Context, giveawayID string) ([]string, error) {
	var servers []string
	query := `SELECT server FROM giveaway_servers WHERE giveaway_id = $1 ORDER BY server`
	if err := r.db.SelectContext(ctx, &servers, query, giveawayID); err != nil {
		return nil, fmt.Errorf("failed to get giveaway servers: %w", err)
	}
	return servers, nil
}

func insertServers(ctx context.Context, tx *sqlx.Tx, giveawayID string, servers []string) error {
	for _, server := range servers {
		query := `
			INSERT INTO giveaway_servers (giveaway_id, server)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, giveawayID, server); err != nil {
			return fmt.Errorf("failed to link server to giveaway: %w", err)
		}
	}
	return nil
}

func unwrapTx(tx repository.Transaction) (*sqlx.Tx, error) {
	ptx, ok := tx.(*postgresTransaction)
	if !ok {
		return nil, fmt.Errorf("invalid transaction type")
	}
	return ptx.tx, nil
}
