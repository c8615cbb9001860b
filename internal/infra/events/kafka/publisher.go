package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/events"
)

const headerEventType = "event_type"

// Config настройки продюсера
type Config struct {
	Brokers        []string
	Topic          string
	ClientID       string
	ProduceTimeout time.Duration
}

// Publisher публикует события слотов в Kafka; ключ записи = venueId,
// поэтому события одной площадки попадают в одну партицию по порядку
type Publisher struct {
	client  *kgo.Client
	timeout time.Duration
}

// NewPublisher создает продюсера franz-go
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is empty")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: failed to create client: %w", err)
	}

	timeout := cfg.ProduceTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Publisher{client: client, timeout: timeout}, nil
}

// Publish синхронно отправляет событие
func (p *Publisher) Publish(ctx context.Context, event domain.SlotEvent) error {
	record, err := newRecord(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka: failed to produce %s: %w", event.Type, err)
	}
	return nil
}

// Close дожидается отправки буфера и закрывает клиента
func (p *Publisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	err := p.client.Flush(ctx)
	p.client.Close()
	return err
}

func newRecord(event domain.SlotEvent) (*kgo.Record, error) {
	payload, err := json.Marshal(events.NewMessage(event))
	if err != nil {
		return nil, fmt.Errorf("kafka: failed to marshal event: %w", err)
	}
	return &kgo.Record{
		Key:   []byte(event.VenueID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(event.Type)},
		},
	}, nil
}
