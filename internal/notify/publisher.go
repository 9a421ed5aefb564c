// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samber/oops"
	"github.com/segmentio/kafka-go"

	"github.com/wardrobe-app/wardrobe/internal/auth"
	"github.com/wardrobe-app/wardrobe/internal/logging"
)

// RequestIDHeader carries the originating request ID on every message.
const RequestIDHeader = "request_id"

const defaultPublishTimeout = 10 * time.Second

var _ auth.Notifier = (*KafkaPublisher)(nil)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// partitionKeyer is implemented by payloads that must stay ordered per key.
type partitionKeyer interface {
	PartitionKey() string
}

// KafkaPublisher publishes JSON messages to Kafka and waits for every in-sync
// replica to acknowledge them.
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	now     func() time.Time
}

// NewKafkaWriter returns a writer for brokers. The topic is chosen per
// message, keys are hashed to partitions and writes require acknowledgement
// from all in-sync replicas.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher creates a publisher over writer.
func NewKafkaPublisher(writer MessageWriter) (*KafkaPublisher, error) {
	if writer == nil {
		return nil, oops.Code("NOTIFY_INVALID_DEPENDENCY").Errorf("kafka writer is required")
	}
	return &KafkaPublisher{writer: writer, timeout: defaultPublishTimeout, now: time.Now}, nil
}

// Publish serializes payload as JSON and writes it to topic.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, payload any) error {
	if topic == "" {
		return oops.Code("NOTIFY_INVALID_TOPIC").Errorf("topic is required")
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return oops.Code("NOTIFY_ENCODE_FAILED").
			With("topic", topic).
			Wrap(err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: value,
		Time:  p.now(),
	}
	if k, ok := payload.(partitionKeyer); ok {
		msg.Key = []byte(k.PartitionKey())
	}
	if id := logging.RequestIDFrom(ctx); id != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: RequestIDHeader, Value: []byte(id)})
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return oops.Code("NOTIFY_PUBLISH_FAILED").
			With("topic", topic).
			Wrap(err)
	}
	return nil
}

// Close flushes pending writes and releases the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return oops.Code("NOTIFY_CLOSE_FAILED").Wrap(err)
	}
	return nil
}
