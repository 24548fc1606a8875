package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	apperrors "icefuse-kits-backend/internal/common/errors"
	"icefuse-kits-backend/internal/common/metrics"
	"icefuse-kits-backend/internal/features/analytics/models"
)

// AnalyticsService buffers telemetry events on a Redis stream; the worker
// drains the stream into the columnar store.
type AnalyticsService interface {
	Ingest(ctx context.Context, events []models.Event) (int, error)
}

type analyticsService struct {
	rdb    *redis.Client
	stream string
	logger zerolog.Logger
}

func NewAnalyticsService(rdb *redis.Client, stream string, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{rdb: rdb, stream: stream, logger: logger}
}

func (s *analyticsService) Ingest(ctx context.Context, events []models.Event) (int, error) {
	if len(events) == 0 {
		return 0, apperrors.NewValidationError("events", "cannot be empty")
	}

	for i := range events {
		if err := events[i].Validate(); err != nil {
			return 0, apperrors.NewValidationError("events", err.Error()).
				WithDetail("index", i)
		}
		if events[i].OccurredAt.IsZero() {
			events[i].OccurredAt = time.Now()
		}
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode event")
		}
		if err := s.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			Values: map[string]interface{}{"data": string(payload)},
		}).Err(); err != nil {
			return 0, apperrors.Wrap(err, apperrors.ErrCodeStreamError, "failed to enqueue event")
		}
	}

	metrics.AnalyticsEventsIngested.Add(float64(len(events)))
	return len(events), nil
}
