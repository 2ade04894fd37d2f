package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinephoria/internal/bookings"
	"cinephoria/internal/shared/config"
	"cinephoria/pkg/logger"

	"github.com/IBM/sarama"
)

const (
	EventTypeBookingFinalized = "booking.finalized"

	producerName = "cinephoria-bookings"
)

// BookingEventProducer publishes committed bookings to Kafka for downstream consumers
// (confirmation mail, analytics). It satisfies bookings.Publisher.
type BookingEventProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaConfig builds the sarama producer configuration used for booking events
func NewKafkaConfig(cfg config.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// every event of a booking lands on the same partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	return saramaConfig
}

// NewBookingEventProducer connects to the configured brokers
func NewBookingEventProducer(cfg config.KafkaConfig) (*BookingEventProducer, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewKafkaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.GetDefault().Info("kafka booking producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewBookingEventProducerWith(producer, cfg.Topic), nil
}

// NewBookingEventProducerWith wraps an existing sync producer
func NewBookingEventProducerWith(producer sarama.SyncProducer, topic string) *BookingEventProducer {
	return &BookingEventProducer{
		producer: producer,
		topic:    topic,
		log:      logger.GetDefault(),
	}
}

func (p *BookingEventProducer) PublishBookingFinalized(ctx context.Context, event bookings.FinalizedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.BookingID.String()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   p.headers(event),
		Timestamp: event.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send booking event to Kafka: %w", err)
	}

	p.log.Debug("booking event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"booking_id", event.BookingID.String(),
	)
	return nil
}

func (p *BookingEventProducer) headers(event bookings.FinalizedEvent) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(EventTypeBookingFinalized)},
		{Key: []byte("booking_id"), Value: []byte(event.BookingID.String())},
		{Key: []byte("order_id"), Value: []byte(event.OrderID)},
		{Key: []byte("producer"), Value: []byte(producerName)},
		{Key: []byte("created_at"), Value: []byte(event.CreatedAt.Format(time.RFC3339))},
	}
	if event.UserID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("user_id"),
			Value: []byte(event.UserID.String()),
		})
	}
	return headers
}

func (p *BookingEventProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// LogPublisher is used when Kafka is disabled. Events only reach the log.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.GetDefault()}
}

func (p *LogPublisher) PublishBookingFinalized(ctx context.Context, event bookings.FinalizedEvent) error {
	p.log.InfoWithContext(ctx, "booking finalized", map[string]interface{}{
		"booking_id": event.BookingID.String(),
		"order_id":   event.OrderID,
		"seats":      event.Seats,
	})
	return nil
}
