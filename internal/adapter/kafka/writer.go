package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-data-loader/internal/config"
	"github.com/couchcryptid/quake-data-loader/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes committed earthquakes to a Kafka topic.
// It implements loader.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes the earthquakes and writes them in a single
// WriteMessages call. Messages are keyed by the event key so replays of the
// same record land on the same partition.
func (w *Writer) Publish(ctx context.Context, earthquakes []domain.Earthquake) error {
	if len(earthquakes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(earthquakes))
	for i := range earthquakes {
		msg, err := serializeToMessage(domain.NewLoadedEvent(earthquakes[i]))
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write earthquakes: %w", err)
	}
	w.logger.Debug("published earthquakes", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LoadedEvent into a Kafka message.
func serializeToMessage(event domain.LoadedEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize earthquake: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert", Value: []byte(event.Earthquake.Alert)},
			{Key: "tsunami", Value: []byte(strconv.Itoa(event.Earthquake.Tsunami))},
			{Key: "loaded_at", Value: []byte(event.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
