package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/sentiment-map/internal/config"
	"github.com/couchcryptid/sentiment-map/internal/domain"
)

// Writer publishes sentiment snapshots to a Kafka topic, one message per
// department keyed by its code. It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot writes every record of snap in a single WriteMessages call.
// Records hash to partitions by code, so a compacted topic keeps the latest
// figures per department.
func (w *Writer) PublishSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Records))
	for i := range snap.Records {
		msg, err := serializeToMessage(snap.Records[i], snap)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Debug("snapshot written", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one record into a Kafka message.
func serializeToMessage(rec domain.SentimentRecord, snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sentiment record %s: %w", rec.Code, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Code),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "loaded_at", Value: []byte(snap.LoadedAt.Format(time.RFC3339))},
			{Key: "fallback", Value: []byte(strconv.FormatBool(snap.Fallback))},
			{Key: "synthesized", Value: []byte(strconv.FormatBool(rec.Synthesized))},
		},
	}, nil
}
