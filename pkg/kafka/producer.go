package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/edelweiss/pkg/metrics"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

// EventResolutionCompleted is the event type of a published resolution
const EventResolutionCompleted = "resolution.completed"

// Writer is the part of *kafka.Writer the producer uses
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles Kafka event emission
type Producer struct {
	writer Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(writer, cfg.Topic, logger)
}

// NewProducerWithWriter creates a producer around an existing writer
func NewProducerWithWriter(writer Writer, topic string, logger ectologger.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		topic:  topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// ResolutionEvent announces a completed resolution
type ResolutionEvent struct {
	EventType  string             `json:"event_type"`
	RequestKey string             `json:"request_key,omitempty"`
	Resolution *models.Resolution `json:"resolution"`
	Timestamp  time.Time          `json:"timestamp"`
}

// PublishResolution publishes a resolution event keyed by resort id, so events
// of one resort stay ordered on one partition.
func (p *Producer) PublishResolution(ctx context.Context, event *ResolutionEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishResolution")
	defer span.End()

	if event.EventType == "" {
		event.EventType = EventResolutionCompleted
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.RequestKey
	if event.Resolution != nil && event.Resolution.ResortID != "" {
		key = event.Resolution.ResortID
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "schema_version", Value: []byte("1.0")},
	}
	if event.Resolution != nil {
		headers = append(headers, kafka.Header{Key: "resolution_id", Value: []byte(event.Resolution.ID)})
	}
	headers = append(headers, injectTraceContext(ctx)...)

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to publish resolution event")
		metrics.RecordKafkaPublish(p.topic, "failed")
		return err
	}
	metrics.RecordKafkaPublish(p.topic, "published")

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": event.EventType,
		"key":        key,
	}).Debug("Published resolution event")

	return nil
}
