package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBuyerRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	GSTIN   string `json:"gstin"`
	Phone   string `json:"phone"`
}

// UpdateBuyerRequest uses pointers so omitted fields stay untouched.
type UpdateBuyerRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	GSTIN   *string `json:"gstin"`
	Phone   *string `json:"phone"`
}

type BuyerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	GSTIN     string    `json:"gstin"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

// BuyerService exposes create/read/list/update. Buyers are never deleted:
// issued invoices may reference them for reporting.
type BuyerService interface {
	CreateBuyer(ctx context.Context, req CreateBuyerRequest) (BuyerResponse, error)
	GetBuyer(ctx context.Context, id string) (BuyerResponse, error)
	ListBuyers(ctx context.Context, search string, page, limit int) ([]BuyerResponse, int64, error)
	UpdateBuyer(ctx context.Context, id string, req UpdateBuyerRequest) (BuyerResponse, error)
}

type buyerService struct {
	buyerRepo repository.BuyerRepository
}

func NewBuyerService(buyerRepo repository.BuyerRepository) BuyerService {
	return &buyerService{buyerRepo: buyerRepo}
}

// --- Implementation ---

func toBuyerResponse(buyer *model.Buyer) BuyerResponse {
	return BuyerResponse{
		ID:        buyer.ID,
		Name:      buyer.Name,
		Address:   buyer.Address,
		GSTIN:     buyer.GSTIN,
		Phone:     buyer.Phone,
		CreatedAt: buyer.CreatedAt,
		UpdatedAt: buyer.UpdatedAt,
	}
}

func (s *buyerService) CreateBuyer(ctx context.Context, req CreateBuyerRequest) (BuyerResponse, error) {
	buyer := model.Buyer{
		Name:    req.Name,
		Address: req.Address,
		GSTIN:   req.GSTIN,
		Phone:   req.Phone,
	}
	if err := s.buyerRepo.Create(ctx, &buyer); err != nil {
		return BuyerResponse{}, fmt.Errorf("failed to create buyer: %w", err)
	}
	return toBuyerResponse(&buyer), nil
}

func (s *buyerService) GetBuyer(ctx context.Context, id string) (BuyerResponse, error) {
	buyerID, err := uuid.Parse(id)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("invalid buyer id: %w", err)
	}

	buyer, err := s.buyerRepo.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BuyerResponse{}, ErrBuyerNotFound
		}
		return BuyerResponse{}, err
	}
	return toBuyerResponse(buyer), nil
}

func (s *buyerService) ListBuyers(ctx context.Context, search string, page, limit int) ([]BuyerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	buyers, total, err := s.buyerRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch buyers: %w", err)
	}

	result := make([]BuyerResponse, 0, len(buyers))
	for i := range buyers {
		result = append(result, toBuyerResponse(&buyers[i]))
	}
	return result, total, nil
}

func (s *buyerService) UpdateBuyer(ctx context.Context, id string, req UpdateBuyerRequest) (BuyerResponse, error) {
	buyerID, err := uuid.Parse(id)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("invalid buyer id: %w", err)
	}

	buyer, err := s.buyerRepo.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BuyerResponse{}, ErrBuyerNotFound
		}
		return BuyerResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return BuyerResponse{}, fmt.Errorf("name cannot be empty")
		}
		buyer.Name = *req.Name
	}
	if req.Address != nil {
		if *req.Address == "" {
			return BuyerResponse{}, fmt.Errorf("address cannot be empty")
		}
		buyer.Address = *req.Address
	}
	if req.GSTIN != nil {
		buyer.GSTIN = *req.GSTIN
	}
	if req.Phone != nil {
		buyer.Phone = *req.Phone
	}

	if err := s.buyerRepo.Update(ctx, buyer); err != nil {
		return BuyerResponse{}, fmt.Errorf("failed to update buyer: %w", err)
	}
	return toBuyerResponse(buyer), nil
}
