// Package kafka publishes cleaned crash records to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/couchcryptid/crash-map-etl/internal/config"
	"github.com/couchcryptid/crash-map-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces one message per record to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Load serializes every record and publishes them in a single WriteMessages call.
func (w *Writer) Load(ctx context.Context, ds *domain.Dataset) error {
	if ds.Len() == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, ds.Len())
	for i, r := range ds.Records {
		msg, err := serializeToMessage(ds.Columns, r)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Info("published records", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) String() string { return "kafka:" + w.writer.Topic }

func (w *Writer) Close() error {
	return w.writer.Close()
}

// CrashMessage is the JSON value of a published record.
type CrashMessage struct {
	ID         string            `json:"id"`
	Date       string            `json:"date,omitempty"`
	Location   string            `json:"location"`
	Operator   string            `json:"operator"`
	Fatalities float64           `json:"fatalities"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Extra      map[string]string `json:"extra,omitempty"` // non-canonical input columns
}

// serializeToMessage marshals a cleaned record into a Kafka message keyed by its ID.
func serializeToMessage(columns []string, r domain.Record) (kafkago.Message, error) {
	lat, lon, ok := domain.Coordinates(r)
	if !ok {
		return kafkago.Message{}, fmt.Errorf("serialize crash record: missing coordinates")
	}
	fatalities, _ := domain.ParseNumber(r[domain.ColFatalities])

	msg := CrashMessage{
		ID:         domain.RecordID(r),
		Date:       r.Get(domain.ColDate),
		Location:   r.Get(domain.ColLocation),
		Operator:   r.Get(domain.ColOperator),
		Fatalities: fatalities,
		Latitude:   lat,
		Longitude:  lon,
	}
	for _, c := range columns {
		if slices.Contains(domain.CanonicalColumns, c) || r.IsNull(c) {
			continue
		}
		if msg.Extra == nil {
			msg.Extra = make(map[string]string)
		}
		msg.Extra[c] = r[c]
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize crash record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(msg.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "operator", Value: []byte(msg.Operator)},
		},
	}, nil
}
