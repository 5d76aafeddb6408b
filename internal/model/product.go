package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory enum constants
const (
	CategoryGoods   = "GOODS"
	CategoryService = "SERVICE"
)

// Product is a template for invoice line items: picking a product pre-fills
// description, HSN code, unit and rate on the form. Invoices keep their own
// copy of those fields, so later product edits do not touch issued invoices.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	HSN       string          `gorm:"type:varchar(20)" json:"hsn"`
	Category  string          `gorm:"type:varchar(20);not null;index" json:"category"` // GOODS, SERVICE
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
	Unit      string          `gorm:"type:varchar(20)" json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
