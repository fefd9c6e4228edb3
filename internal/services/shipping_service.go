package services

import (
	"context"
	"errors"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"

	"github.com/google/uuid"
)

// FallbackCity is the fee-table row applied to cities without an
// explicit entry.
const FallbackCity = "*"

type ShippingService struct {
	shippingRepo repositories.ShippingFeeRepository
}

func NewShippingService(shippingRepo repositories.ShippingFeeRepository) *ShippingService {
	return &ShippingService{
		shippingRepo: shippingRepo,
	}
}

type CreateShippingFeeRequest struct {
	City         string  `json:"city" binding:"required"`
	Fee          float64 `json:"fee" binding:"min=0"`
	FreeShipOver float64 `json:"free_ship_over" binding:"min=0"`
}

type UpdateShippingFeeRequest struct {
	Fee          *float64 `json:"fee"`
	FreeShipOver *float64 `json:"free_ship_over"`
	IsActive     *bool    `json:"is_active"`
}

// FeeFor resolves the shipping fee for a delivery city against the fee
// table. The fee is always derived here, never client-side. Cities
// without a row use the fallback row; no fallback row means free
// shipping.
func (s *ShippingService) FeeFor(ctx context.Context, city string, subtotal float64) (float64, error) {
	fee, err := s.shippingRepo.GetByCity(ctx, city)
	if err != nil {
		fee, err = s.shippingRepo.GetByCity(ctx, FallbackCity)
		if err != nil {
			return 0, nil
		}
	}

	if fee.FreeShipOver > 0 && subtotal >= fee.FreeShipOver {
		return 0, nil
	}

	return fee.Fee, nil
}

func (s *ShippingService) ListFees(ctx context.Context) ([]models.ShippingFee, error) {
	return s.shippingRepo.List(ctx)
}

func (s *ShippingService) CreateFee(ctx context.Context, req *CreateShippingFeeRequest) (*models.ShippingFee, error) {
	fee := &models.ShippingFee{
		City:         req.City,
		Fee:          req.Fee,
		FreeShipOver: req.FreeShipOver,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.shippingRepo.Create(ctx, fee); err != nil {
		return nil, err
	}

	return fee, nil
}

func (s *ShippingService) UpdateFee(ctx context.Context, feeID string, req *UpdateShippingFeeRequest) (*models.ShippingFee, error) {
	id, err := uuid.Parse(feeID)
	if err != nil {
		return nil, errors.New("invalid shipping fee ID")
	}

	fee, err := s.shippingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("shipping fee not found")
	}

	if req.Fee != nil {
		fee.Fee = *req.Fee
	}
	if req.FreeShipOver != nil {
		fee.FreeShipOver = *req.FreeShipOver
	}
	if req.IsActive != nil {
		fee.IsActive = *req.IsActive
	}
	fee.UpdatedAt = time.Now()

	if err := s.shippingRepo.Update(ctx, fee); err != nil {
		return nil, err
	}

	return fee, nil
}

func (s *ShippingService) DeleteFee(ctx context.Context, feeID string) error {
	id, err := uuid.Parse(feeID)
	if err != nil {
		return errors.New("invalid shipping fee ID")
	}

	return s.shippingRepo.Delete(ctx, id)
}
