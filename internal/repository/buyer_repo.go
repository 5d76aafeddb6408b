package repository

import (
	"context"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BuyerRepository interface {
	Create(ctx context.Context, buyer *model.Buyer) error
	Update(ctx context.Context, buyer *model.Buyer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Buyer, int64, error)
}

type buyerRepository struct {
	db *gorm.DB
}

func NewBuyerRepository(db *gorm.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

func (r *buyerRepository) Create(ctx context.Context, buyer *model.Buyer) error {
	return GetDB(ctx, r.db).Create(buyer).Error
}

func (r *buyerRepository) Update(ctx context.Context, buyer *model.Buyer) error {
	return GetDB(ctx, r.db).Save(buyer).Error
}

func (r *buyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	var buyer model.Buyer
	if err := GetDB(ctx, r.db).First(&buyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *buyerRepository) List(ctx context.Context, search string, page, limit int) ([]model.Buyer, int64, error) {
	var buyers []model.Buyer
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Buyer{})
	if search != "" {
		query = query.Where("name ILIKE ? OR gstin ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetchQuery := db.Model(&model.Buyer{})
	if search != "" {
		fetchQuery = fetchQuery.Where("name ILIKE ? OR gstin ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	offset := (page - 1) * limit
	if err := fetchQuery.Order("name ASC").Offset(offset).Limit(limit).Find(&buyers).Error; err != nil {
		return nil, 0, err
	}

	return buyers, total, nil
}
