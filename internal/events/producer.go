package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w       MessageWriter
	service string
}

var _ port.EventPublisher = (*Producer)(nil)

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewProducer(w MessageWriter, service string) (*Producer, error) {
	if w == nil {
		return nil, errors.New("writer is nil")
	}
	if service == "" {
		return nil, errors.New("service is empty")
	}

	return &Producer{w: w, service: service}, nil
}

// Publish writes one message keyed by order id, so events of one order stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, event domain.OrderEvent) error {
	msg, err := p.message(event)
	if err != nil {
		return fmt.Errorf("p.message: %w", err)
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("w.WriteMessages: %w", err)
	}

	return nil
}

func (p *Producer) message(event domain.OrderEvent) (kafka.Message, error) {
	var m kafka.Message

	if event.OrderID == uuid.Nil {
		return m, errors.New("orderID is empty")
	}

	payload, err := json.Marshal(OrderEventPayload{
		OrderID:  event.OrderID.String(),
		ClientID: event.ClientID,
		Sellers:  event.Sellers,
		State:    string(event.State),
		ActorID:  event.ActorID,
	})
	if err != nil {
		return m, fmt.Errorf("json.Marshal payload: %w", err)
	}

	envelope, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type),
		EventVersion:  envelopeVersion,
		OccurredAt:    event.OccurredAt.UTC(),
		Producer:      p.service,
		CorrelationID: event.OrderID.String(),
		Payload:       payload,
	})
	if err != nil {
		return m, fmt.Errorf("json.Marshal envelope: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: envelope,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(event.Type)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(envelopeVersion))},
		},
	}, nil
}

func (p *Producer) Close() error {
	return p.w.Close()
}
