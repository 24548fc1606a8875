package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"icefuse-kits-backend/internal/features/analytics/models"
)

const (
	readCount = 200
	readBlock = 2 * time.Second
)

// Worker drains the analytics Redis stream into ClickHouse in batches.
// Malformed messages are acked and dropped; insert failures leave the batch
// pending for redelivery.
type Worker struct {
	rdb      *redis.Client
	ch       clickhouse.Conn
	stream   string
	group    string
	consumer string
	logger   zerolog.Logger
}

func NewWorker(rdb *redis.Client, ch clickhouse.Conn, stream, group string, logger zerolog.Logger) *Worker {
	return &Worker{
		rdb:      rdb,
		ch:       ch,
		stream:   stream,
		group:    group,
		consumer: fmt.Sprintf("c-%s", uuid.New().String()[:8]),
		logger:   logger,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	// Group may already exist; BUSYGROUP is fine.
	_ = w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "$").Err()

	w.logger.Info().
		Str("stream", w.stream).
		Str("group", w.group).
		Str("consumer", w.consumer).
		Msg("Analytics worker started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		res, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.group,
			Consumer: w.consumer,
			Streams:  []string{w.stream, ">"},
			Count:    readCount,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			w.logger.Warn().Err(err).Msg("Failed to read analytics stream")
			continue
		}

		for _, stream := range res {
			if err := w.processBatch(ctx, stream.Messages); err != nil {
				w.logger.Warn().Err(err).Int("messages", len(stream.Messages)).Msg("Failed to flush batch to clickhouse")
			}
		}
	}
}

func (w *Worker) processBatch(ctx context.Context, messages []redis.XMessage) error {
	type pending struct {
		id    string
		event models.Event
	}
	batch := make([]pending, 0, len(messages))

	for _, msg := range messages {
		data, _ := msg.Values["data"].(string)
		if data == "" {
			_ = w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err()
			continue
		}

		var event models.Event
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			w.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Dropping malformed analytics event")
			_ = w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err()
			continue
		}

		batch = append(batch, pending{id: msg.ID, event: event})
	}

	if len(batch) == 0 {
		return nil
	}

	insert, err := w.ch.PrepareBatch(ctx, `
		INSERT INTO events (type, server, steam_id64, occurred_at, properties)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, p := range batch {
		props, _ := json.Marshal(p.event.Properties)
		if err := insert.Append(p.event.Type, p.event.Server, p.event.SteamID64, p.event.OccurredAt, string(props)); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := insert.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	for _, p := range batch {
		_ = w.rdb.XAck(ctx, w.stream, w.group, p.id).Err()
	}

	return nil
}
