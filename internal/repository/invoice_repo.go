package repository

import (
	"context"
	"time"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows the invoice listing. Zero values mean "no
// constraint" except ExcludeArchived, which the service sets unless the
// caller explicitly asked for archived invoices.
type InvoiceListFilter struct {
	BuyerID         *uuid.UUID
	ProductID       *uuid.UUID // matches invoices having at least one line item for the product
	NumberContains  string     // case-insensitive substring of invoice_no
	Status          string     // pending, paid, archived or empty
	ExcludeArchived bool
	DateFrom        *time.Time // inclusive
	DateBefore      *time.Time // exclusive (day after the requested end date)
	Page            int
	Limit           int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create persists the invoice together with its line items in one compound
// insert (gorm writes the association rows in the same statement batch).
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Buyer").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func applyInvoiceFilter(query *gorm.DB, filter InvoiceListFilter) *gorm.DB {
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.ProductID != nil {
		query = query.Where("id IN (SELECT invoice_id FROM invoice_items WHERE product_id = ?)", *filter.ProductID)
	}
	if filter.NumberContains != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+filter.NumberContains+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else if filter.ExcludeArchived {
		query = query.Where("status <> ?", model.StatusArchived)
	}
	if filter.DateFrom != nil {
		query = query.Where("invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateBefore != nil {
		query = query.Where("invoice_date < ?", *filter.DateBefore)
	}
	return query
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	countQuery := applyInvoiceFilter(db.Model(&model.Invoice{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := applyInvoiceFilter(db.Model(&model.Invoice{}), filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if err := fetchQuery.Order("invoice_date DESC, created_at DESC").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Save(invoice).Error
}

// NumberExists reports whether a non-archived invoice currently holds the
// exact number. Archived invoices never match: their stored number carries
// the archival suffix.
func (r *invoiceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("invoice_no = ? AND status <> ?", number, model.StatusArchived).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
