package messaging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Order handlers and the payment sweeper publish from separate
// goroutines; first use of a topic must not race on the writer map.
func TestSendMessageConcurrentFirstUse(t *testing.T) {
	producer := NewKafkaProducer(nil)
	defer producer.Close()
	brokers := []string{"127.0.0.1:1"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			topic := fmt.Sprintf("topic-%d", n%4)
			event := OrderEvent{Type: "order.cancelled", OrderID: fmt.Sprintf("order-%d", n)}
			// The broker is unreachable; only the map access matters here.
			producer.SendMessage(topic, brokers, event.OrderID, event)
		}(i)
	}
	wg.Wait()
}

func TestGetWriterReusesPerTopic(t *testing.T) {
	producer := NewKafkaProducer(nil)
	defer producer.Close()
	brokers := []string{"127.0.0.1:1"}

	first := producer.GetWriter("orders", brokers)
	second := producer.GetWriter("orders", brokers)
	assert.Same(t, first, second)

	other := producer.GetWriter("payments", brokers)
	assert.NotSame(t, first, other)
}
