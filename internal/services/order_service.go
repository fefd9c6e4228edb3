package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"github.com/google/uuid"
)

type OrderService struct {
	orderRepo     repositories.OrderRepository
	paymentRepo   repositories.PaymentRepository
	kafkaProducer *messaging.KafkaProducer
	kafkaBrokers  []string
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	kafkaProducer *messaging.KafkaProducer,
	kafkaBrokers []string,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		paymentRepo:   paymentRepo,
		kafkaProducer: kafkaProducer,
		kafkaBrokers:  kafkaBrokers,
	}
}

type OrderListResponse struct {
	Orders     []models.Order `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// allowedTransitions maps each order status to the statuses an admin
// may move it to. pending_payment flips to pending only through the
// payment gateway callback, never here.
var allowedTransitions = map[string][]string{
	"pending":   {"confirmed", "cancelled"},
	"confirmed": {"shipping", "cancelled"},
	"shipping":  {"delivered"},
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	offset := (page - 1) * limit

	orders, total, err := s.orderRepo.GetByUserID(ctx, userUUID, offset, limit)
	if err != nil {
		return nil, err
	}

	return &OrderListResponse{
		Orders:     orders,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("invalid order ID")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}

	if order.UserID.String() != userID {
		return nil, errors.New("order does not belong to user")
	}

	return order, nil
}

// Admin listing, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, status string, page, limit int) (*OrderListResponse, error) {
	offset := (page - 1) * limit

	orders, total, err := s.orderRepo.GetByStatus(ctx, status, offset, limit)
	if err != nil {
		return nil, err
	}

	return &OrderListResponse{
		Orders:     orders,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, req *UpdateOrderStatusRequest) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("invalid order ID")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("order not found")
	}

	if !transitionAllowed(order.Status, req.Status) {
		return nil, errors.New("invalid status transition from " + order.Status + " to " + req.Status)
	}

	order.Status = req.Status
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	event := messaging.OrderEvent{
		Type:    "order.status_changed",
		OrderID: order.ID.String(),
		UserID:  order.UserID.String(),
		Data:    map[string]string{"status": req.Status, "note": req.Note},
	}
	if err := s.kafkaProducer.SendMessage("orders", s.kafkaBrokers, order.ID.String(), event); err != nil {
		log.Printf("Failed to publish order status event for %s: %v", order.ID, err)
	}

	return order, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
