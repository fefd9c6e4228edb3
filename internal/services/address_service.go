package services

import (
	"context"
	"errors"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"

	"github.com/google/uuid"
)

type AddressService struct {
	addressRepo repositories.AddressRepository
	userRepo    repositories.UserRepository
}

func NewAddressService(addressRepo repositories.AddressRepository, userRepo repositories.UserRepository) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		userRepo:    userRepo,
	}
}

type CreateAddressRequest struct {
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line" binding:"required"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city" binding:"required"`
	IsDefault   bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
	IsDefault   *bool  `json:"is_default"`
}

type AddressResponse struct {
	ID          string `json:"id"`
	FullAddress string `json:"fullAddress"`
	City        string `json:"city"`
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	IsDefault   bool   `json:"isDefault"`
}

func toAddressResponse(a *models.Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID.String(),
		FullAddress: a.FullAddress(),
		City:        a.City,
		Recipient:   a.Recipient,
		Phone:       a.Phone,
		IsDefault:   a.IsDefault,
	}
}

func (s *AddressService) CreateAddress(ctx context.Context, userID string, req *CreateAddressRequest) (*AddressResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	existing, err := s.addressRepo.GetByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	// First address becomes the default regardless of the flag.
	isDefault := req.IsDefault || len(existing) == 0

	if isDefault {
		if err := s.addressRepo.UnsetDefaultAddresses(ctx, userUUID); err != nil {
			return nil, err
		}
	}

	address := &models.Address{
		UserID:      userUUID,
		Recipient:   req.Recipient,
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		Ward:        req.Ward,
		District:    req.District,
		City:        req.City,
		IsDefault:   isDefault,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *AddressService) GetAddresses(ctx context.Context, userID string) ([]AddressResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	addresses, err := s.addressRepo.GetByUserID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	responses := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		responses = append(responses, toAddressResponse(&addresses[i]))
	}
	return responses, nil
}

func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID string, req *UpdateAddressRequest) (*AddressResponse, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.Recipient != "" {
		address.Recipient = req.Recipient
	}
	if req.Phone != "" {
		address.Phone = req.Phone
	}
	if req.AddressLine != "" {
		address.AddressLine = req.AddressLine
	}
	if req.Ward != "" {
		address.Ward = req.Ward
	}
	if req.District != "" {
		address.District = req.District
	}
	if req.City != "" {
		address.City = req.City
	}
	if req.IsDefault != nil && *req.IsDefault {
		if err := s.addressRepo.UnsetDefaultAddresses(ctx, address.UserID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}
	address.UpdatedAt = time.Now()

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}

	return s.addressRepo.Delete(ctx, address.ID)
}

// SetDefaultAddress enforces the single-default invariant: every other
// address of the user loses the flag before this one gains it.
func (s *AddressService) SetDefaultAddress(ctx context.Context, userID, addressID string) (*AddressResponse, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.UnsetDefaultAddresses(ctx, address.UserID); err != nil {
		return nil, err
	}

	address.IsDefault = true
	address.UpdatedAt = time.Now()
	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *AddressService) ownedAddress(ctx context.Context, userID, addressID string) (*models.Address, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	id, err := uuid.Parse(addressID)
	if err != nil {
		return nil, errors.New("invalid address ID")
	}

	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("address not found")
	}

	if address.UserID != userUUID {
		return nil, errors.New("address does not belong to user")
	}

	return address, nil
}
