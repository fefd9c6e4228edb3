package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer lazily opens one writer per topic. Writers are created
// from request handlers and background goroutines concurrently, so the
// map is mutex-guarded.
type KafkaProducer struct {
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		writers: make(map[string]*kafka.Writer),
	}
}

func (kp *KafkaProducer) GetWriter(topic string, brokers []string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(topic string, brokers []string, key string, value interface{}) error {
	writer := kp.GetWriter(topic, brokers)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return writer.WriteMessages(context.Background(), message)
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	for _, writer := range kp.writers {
		writer.Close()
	}
}

// Event types for async processing

// OrderEvent is emitted on topic "orders" when an order is created,
// paid or moved between statuses.
type OrderEvent struct {
	Type          string      `json:"type"` // order.created, order.paid, order.status_changed, order.cancelled
	OrderID       string      `json:"order_id"`
	UserID        string      `json:"user_id"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Data          interface{} `json:"data,omitempty"`
}

// CatalogEvent is emitted on topic "catalog" when products, categories
// or articles change, so downstream search indexers can refresh.
type CatalogEvent struct {
	Type     string `json:"type"` // product.created, product.updated, product.deleted, article.published
	EntityID string `json:"entity_id"`
	Slug     string `json:"slug,omitempty"`
}

// PaymentEvent is emitted on topic "payments" when a gateway callback
// settles a payment.
type PaymentEvent struct {
	Type          string  `json:"type"` // payment.succeeded, payment.failed, payment.expired
	PaymentID     string  `json:"payment_id"`
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id,omitempty"`
}
