// Package memory provides an in-memory GiveawayRepository used in tests and
// local development. It mirrors the storage guarantees the service layer
// relies on: the CloseIfOpen compare-and-set and the per-player unique
// constraint on entries.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"icefuse-kits-backend/internal/features/giveaway/models"
	"icefuse-kits-backend/internal/features/giveaway/repository"
)

type memoryRepository struct {
	mu        sync.Mutex
	giveaways map[string]*models.Giveaway
	entries   map[string][]models.Entry
}

func NewRepository() repository.GiveawayRepository {
	return &memoryRepository{
		giveaways: make(map[string]*models.Giveaway),
		entries:   make(map[string][]models.Entry),
	}
}

type memoryTx struct{}

func (memoryTx) Commit() error   { return nil }
func (memoryTx) Rollback() error { return nil }

func (r *memoryRepository) BeginTx(ctx context.Context) (repository.Transaction, error) {
	return memoryTx{}, nil
}

func (r *memoryRepository) Create(ctx context.Context, g *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *g
	r.giveaways[g.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[id]
	if !ok {
		return nil, repository.ErrGiveawayNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Giveaway, 0, len(r.giveaways))
	for _, g := range r.giveaways {
		clone := *g
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, g *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.giveaways[g.ID]
	if !ok {
		return repository.ErrGiveawayNotFound
	}
	clone := *g
	clone.CreatedAt = current.CreatedAt
	clone.EndedAt = current.EndedAt
	clone.WinnerID = current.WinnerID
	clone.WinnerName = current.WinnerName
	clone.WinnerSteamID64 = current.WinnerSteamID64
	clone.UpdatedAt = time.Now()
	r.giveaways[g.ID] = &clone
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.giveaways[id]; !ok {
		return repository.ErrGiveawayNotFound
	}
	delete(r.giveaways, id)
	delete(r.entries, id)
	return nil
}

func (r *memoryRepository) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, g := range r.giveaways {
		if g.IsActive || g.EndedAt != nil || g.StartAt == nil {
			continue
		}
		if g.StartAt.After(now) {
			continue
		}
		if g.EndAt != nil && !g.EndAt.After(now) {
			continue
		}
		g.IsActive = true
		g.UpdatedAt = now
		n++
	}
	return n, nil
}

func (r *memoryRepository) ListExpired(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Giveaway
	for _, g := range r.giveaways {
		if g.IsActive && g.EndedAt == nil && g.EndAt != nil && !g.EndAt.After(now) {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryRepository) CloseIfOpen(ctx context.Context, tx repository.Transaction, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[id]
	if !ok || g.EndedAt != nil {
		return false, nil
	}
	ended := now
	g.IsActive = false
	g.EndedAt = &ended
	g.UpdatedAt = now
	return true, nil
}

func (r *memoryRepository) GetEntriesTx(ctx context.Context, tx repository.Transaction, giveawayID string) ([]models.Entry, error) {
	return r.GetEntries(ctx, giveawayID)
}

func (r *memoryRepository) MarkWinnersTx(ctx context.Context, tx repository.Transaction, giveawayID string, entryIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	winners := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		winners[id] = true
	}
	list := r.entries[giveawayID]
	for i := range list {
		if winners[list[i].ID] {
			list[i].IsWinner = true
		}
	}
	return nil
}

func (r *memoryRepository) SetWinnerSnapshotTx(ctx context.Context, tx repository.Transaction, giveawayID string, winner models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[giveawayID]
	if !ok {
		return repository.ErrGiveawayNotFound
	}
	g.WinnerID = &winner.ID
	g.WinnerName = &winner.PlayerName
	g.WinnerSteamID64 = &winner.PlayerSteamID64
	return nil
}

func (r *memoryRepository) FindActiveForServer(ctx context.Context, server string, now time.Time) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Giveaway
	for _, g := range r.giveaways {
		if !g.IsCurrentlyActive(now) || !g.AppliesToServer(server) {
			continue
		}
		if best == nil || g.CreatedAt.After(best.CreatedAt) {
			best = g
		}
	}
	if best == nil {
		return nil, repository.ErrGiveawayNotFound
	}
	clone := *best
	return &clone, nil
}

func (r *memoryRepository) FindLatestEndedForServer(ctx context.Context, server string) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Giveaway
	for _, g := range r.giveaways {
		if g.EndedAt == nil || !g.AppliesToServer(server) {
			continue
		}
		if best == nil || g.EndedAt.After(*best.EndedAt) {
			best = g
		}
	}
	if best == nil {
		return nil, repository.ErrGiveawayNotFound
	}
	clone := *best
	return &clone, nil
}

func (r *memoryRepository) GetEntries(ctx context.Context, giveawayID string) ([]models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Entry(nil), r.entries[giveawayID]...), nil
}

func (r *memoryRepository) HasEntry(ctx context.Context, giveawayID, steamID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries[giveawayID] {
		if e.PlayerSteamID64 == steamID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) CreateEntry(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries[entry.GiveawayID] {
		if e.PlayerSteamID64 == entry.PlayerSteamID64 {
			return repository.ErrDuplicateEntry
		}
	}
	r.entries[entry.GiveawayID] = append(r.entries[entry.GiveawayID], *entry)
	return nil
}
