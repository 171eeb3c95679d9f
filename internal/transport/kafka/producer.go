package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"courierflow/internal/domain"
	"courierflow/internal/logx"
)

// seam for tests
var newSyncProducer = sarama.NewSyncProducer

// TrackingEventDTO is the wire shape of one published tracking event.
type TrackingEventDTO struct {
	EventID        string    `json:"event_id"`
	DeliveryID     string    `json:"delivery_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	Description    string    `json:"description"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// FromDomain converts a domain.TrackingEvent to its wire shape.
func FromDomain(ev domain.TrackingEvent) TrackingEventDTO {
	return TrackingEventDTO{
		EventID:        ev.ID,
		DeliveryID:     ev.DeliveryID,
		Status:         string(ev.Status),
		PreviousStatus: string(ev.PreviousStatus),
		Description:    ev.Description,
		RecordedAt:     ev.RecordedAt,
	}
}

// Producer publishes tracking events to the notifications topic. Messages
// are keyed by delivery ID so consumers see each delivery's events in order.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewProducer creates a new Kafka producer. Returns nil without error when
// the broker configuration is empty, letting deployments run without Kafka.
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// PublishTrackingEvent sends one tracking event. A nil Producer silently
// drops events.
func (p *Producer) PublishTrackingEvent(ctx context.Context, ev domain.TrackingEvent) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(FromDomain(ev))
	if err != nil {
		return fmt.Errorf("marshal tracking event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.DeliveryID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send tracking event: %w", err)
	}

	p.logger.Debug("tracking event published",
		logx.String("delivery_id", ev.DeliveryID),
		logx.String("status", string(ev.Status)),
		logx.Int("partition", int(partition)),
		logx.Int64("offset", offset),
	)
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
