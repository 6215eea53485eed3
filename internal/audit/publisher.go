// Package audit emits mutation events to Kafka. The stream is observability
// only: publishing is fire-and-forget and never gates or fails the mutation
// that produced the event.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/mori5600/yarukoto/internal/config"
	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// Publisher writes audit events. A Publisher with no brokers configured is
// valid and publishes nothing.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds the Kafka writer from config. When KAFKA_BROKERS is
// unset the publisher is disabled.
func NewPublisher(ctx context.Context) *Publisher {
	cfg := config.Get()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Audit publisher disabled (no Kafka brokers)")
		return &Publisher{}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info(ctx, "Audit publisher initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &Publisher{writer: w}
}

// EnsureTopic creates the audit topic if missing (idempotent). Failure only
// logs; the app runs without the stream.
func EnsureTopic(ctx context.Context) {
	cfg := config.Get()
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	conn, err := kafka.Dial("tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka audit topic ensured", "topic", cfg.KafkaTopic)
}

// Publish sends one event. Errors are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, ev models.AuditEvent) {
	if p == nil || p.writer == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error(ctx, "Audit marshal failed", "error", err)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OwnerID + ":" + ev.Action),
		Value: payload,
	})
	if err != nil {
		logger.Warn(ctx, "Audit publish failed", "error", err, "action", ev.Action)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
