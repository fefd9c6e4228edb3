package services

import (
	"context"
	"log"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"
)

// PaymentSweeper cancels MoMo orders whose payment was never completed.
// A buyer who abandons the wallet page leaves an order in
// pending_payment forever; the sweeper reaps those after a cutoff so
// stock counts and admin views stay honest.
type PaymentSweeper struct {
	ticker        *time.Ticker
	stopChan      chan bool
	orderRepo     repositories.OrderRepository
	paymentRepo   repositories.PaymentRepository
	kafkaProducer *messaging.KafkaProducer
	kafkaBrokers  []string
	cutoffMinutes int
}

func NewPaymentSweeper(
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	kafkaProducer *messaging.KafkaProducer,
	kafkaBrokers []string,
	cutoffMinutes int,
) *PaymentSweeper {
	return &PaymentSweeper{
		stopChan:      make(chan bool),
		orderRepo:     orderRepo,
		paymentRepo:   paymentRepo,
		kafkaProducer: kafkaProducer,
		kafkaBrokers:  kafkaBrokers,
		cutoffMinutes: cutoffMinutes,
	}
}

func (s *PaymentSweeper) Start() {
	s.ticker = time.NewTicker(5 * time.Minute)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.sweep()
			case <-s.stopChan:
				return
			}
		}
	}()

	log.Printf("Payment sweeper started - cancelling unpaid orders after %d minutes", s.cutoffMinutes)
}

func (s *PaymentSweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	log.Println("Payment sweeper stopped")
}

func (s *PaymentSweeper) sweep() {
	ctx := context.Background()

	orders, err := s.orderRepo.GetStalePendingPayment(ctx, s.cutoffMinutes)
	if err != nil {
		log.Printf("Payment sweep failed to list stale orders: %v", err)
		return
	}

	for i := range orders {
		order := &orders[i]

		order.Status = "cancelled"
		order.UpdatedAt = time.Now()
		if err := s.orderRepo.Update(ctx, order); err != nil {
			log.Printf("Payment sweep failed to cancel order %s: %v", order.ID, err)
			continue
		}

		if payment, err := s.paymentRepo.GetByOrderID(ctx, order.ID); err == nil && payment.Status == "pending" {
			payment.Status = "expired"
			payment.UpdatedAt = time.Now()
			if err := s.paymentRepo.Update(ctx, payment); err != nil {
				log.Printf("Payment sweep failed to expire payment for order %s: %v", order.ID, err)
			}
		}

		event := messaging.OrderEvent{
			Type:          "order.cancelled",
			OrderID:       order.ID.String(),
			UserID:        order.UserID.String(),
			PaymentMethod: order.PaymentMethod,
		}
		if err := s.kafkaProducer.SendMessage("orders", s.kafkaBrokers, order.ID.String(), event); err != nil {
			log.Printf("Failed to publish cancellation event for %s: %v", order.ID, err)
		}
	}

	if len(orders) > 0 {
		log.Printf("Payment sweep cancelled %d unpaid orders", len(orders))
	}
}
