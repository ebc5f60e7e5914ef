package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers  []string
	writer   messageWriter
	attempts int
	backoff  time.Duration
}

type ProducerOption func(*Producer)

// WithAttempts sets how many writes Publish tries before giving up.
func WithAttempts(n int) ProducerOption {
	return func(p *Producer) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithBackoff sets the base delay; attempt i waits i times this long.
func WithBackoff(d time.Duration) ProducerOption {
	return func(p *Producer) {
		if d >= 0 {
			p.backoff = d
		}
	}
}

func NewProducer(brokers []string, opts ...ProducerOption) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return newProducer(brokers, writer, opts...)
}

func newProducer(brokers []string, writer messageWriter, opts ...ProducerOption) *Producer {
	p := &Producer{
		brokers:  brokers,
		writer:   writer,
		attempts: 1,
		backoff:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes payload as JSON; the key keeps one entity's events on one
// partition. Failed writes are retried up to the configured attempts.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	return p.PublishWithRetry(ctx, topic, key, payload, p.attempts)
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := p.write(ctx, topic, key, data)
		if err == nil {
			log.Printf("kafka published topic=%s key=%s bytes=%d attempt=%d", topic, key, len(data), i+1)
			return nil
		}

		lastErr = err
		log.Printf("kafka publish attempt=%d topic=%s err=%v", i+1, topic, err)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) write(ctx context.Context, topic, key string, data []byte) error {
	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	return nil
}
