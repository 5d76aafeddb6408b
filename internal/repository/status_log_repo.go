package repository

import (
	"context"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusLogRepository interface {
	Append(ctx context.Context, entry *model.InvoiceStatusLog) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceStatusLog, error)
}

type statusLogRepository struct {
	db *gorm.DB
}

func NewStatusLogRepository(db *gorm.DB) StatusLogRepository {
	return &statusLogRepository{db: db}
}

func (r *statusLogRepository) Append(ctx context.Context, entry *model.InvoiceStatusLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *statusLogRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceStatusLog, error) {
	var logs []model.InvoiceStatusLog
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
