package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/edelweiss/pkg/metrics"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

// MessageHandler processes incoming Kafka messages
type MessageHandler func(ctx context.Context, msg *IncomingMessage) error

// Reader is the part of *kafka.Reader the consumer uses
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer handles Kafka message consumption
type Consumer struct {
	reader  Reader
	topic   string
	logger  ectologger.Logger
	handler MessageHandler
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running atomic.Bool
	// retryDelay is the first pause after a failed fetch or handler call.
	retryDelay time.Duration
}

const maxRetryDelay = 30 * time.Second

// ErrNotRunning is reported by PingContext when the consume loop is not running.
var ErrNotRunning = errors.New("kafka consumer is not running")

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg ConsumerConfig, logger ectologger.Logger, handler MessageHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return NewConsumerWithReader(reader, cfg.Topic, logger, handler)
}

// NewConsumerWithReader creates a consumer around an existing reader
func NewConsumerWithReader(reader Reader, topic string, logger ectologger.Logger, handler MessageHandler) *Consumer {
	return &Consumer{
		reader:     reader,
		topic:      topic,
		logger:     logger,
		handler:    handler,
		retryDelay: time.Second,
	}
}

// Start begins consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.running.Store(true)
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"topic": c.topic,
	}).Info("Kafka consumer started")
	return nil
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()
	defer c.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			c.logger.WithContext(ctx).Info("Consumer loop stopping")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					return
				}
				c.logger.WithContext(ctx).WithError(err).Error("Failed to fetch message")
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.retryDelay):
				}
				continue
			}

			c.processMessage(ctx, msg)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	incoming := newIncomingMessage(msg)
	ctx = extractTraceContext(ctx, incoming.Headers)

	ctx, span := tracing.StartSpan(ctx, "kafka.Consumer.processMessage")
	defer span.End()

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
		"key":       incoming.Key,
	})

	// A failed message is retried in place. Moving on would let the next
	// commit in this partition skip past it.
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, incoming)
		if err == nil {
			metrics.RecordKafkaConsume(msg.Topic, "processed")
			break
		}
		if errors.Is(err, ErrMalformed) {
			log.WithError(err).Warn("Skipping malformed message")
			metrics.RecordKafkaConsume(msg.Topic, "skipped")
			break
		}

		metrics.RecordKafkaConsume(msg.Topic, "failed")
		log.WithError(err).WithFields(map[string]any{"attempt": attempt, "retry_in": delay}).Error("Failed to process message")
		select {
		case <-ctx.Done():
			// Left uncommitted; the group resumes from it after a restart.
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.WithError(err).Error("Failed to commit message")
	}
}

// PingContext reports whether the consume loop is running, for readiness checks.
func (c *Consumer) PingContext(context.Context) error {
	if !c.running.Load() {
		return ErrNotRunning
	}
	return nil
}
