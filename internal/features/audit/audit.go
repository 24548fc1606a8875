package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Record is one audit log row: who did what to which resource.
type Record struct {
	ID        string          `db:"id" json:"id"`
	TokenID   string          `db:"token_id" json:"tokenId"`
	TokenName string          `db:"token_name" json:"tokenName"`
	Action    string          `db:"action" json:"action"`
	Resource  string          `db:"resource" json:"resource"`
	Detail    json.RawMessage `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, record *Record) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO audit_logs (id, token_id, token_name, action, resource, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.TokenID, record.TokenName, record.Action,
		record.Resource, record.Detail, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit record: %w", err)
	}
	return nil
}

// Recorder writes audit entries without ever failing the request that
// triggered them.
type Recorder struct {
	repo   Repository
	logger zerolog.Logger
}

func NewRecorder(repo Repository, logger zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, tokenID, tokenName, action, resource string, detail interface{}) {
	var raw json.RawMessage
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			raw = b
		}
	}

	record := &Record{
		ID:        uuid.New().String(),
		TokenID:   tokenID,
		TokenName: tokenName,
		Action:    action,
		Resource:  resource,
		Detail:    raw,
		CreatedAt: time.Now(),
	}

	if err := r.repo.Create(ctx, record); err != nil {
		r.logger.Error().
			Err(err).
			Str("action", action).
			Str("resource", resource).
			Msg("Failed to write audit record")
	}
}
