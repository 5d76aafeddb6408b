package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusArchived = "archived"
)

// ArchivedNumberSeparator joins the original invoice number with the invoice
// id when an invoice is archived, freeing the number for reuse while keeping
// the unique index on invoice_no satisfied.
const ArchivedNumberSeparator = "__archived__"

// Invoice is a tax invoice issued to a buyer. Buyer and seller fields are
// snapshots taken at creation time; only status (and, on archive, the invoice
// number) is ever mutated afterwards. Invoices are never deleted.
type Invoice struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo   string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_no"`
	InvoiceDate time.Time  `gorm:"type:date;not null;index" json:"invoice_date"`
	VehicleNo   string     `gorm:"type:varchar(30)" json:"vehicle_no"`
	BuyerID     *uuid.UUID `gorm:"type:uuid;index" json:"buyer_id"` // reference for reporting only
	Buyer       *Buyer     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`

	// Buyer snapshot, write-once at creation
	BuyerName    string `gorm:"type:varchar(255);not null" json:"buyer_name"`
	BuyerAddress string `gorm:"type:text" json:"buyer_address"`
	BuyerGSTIN   string `gorm:"type:varchar(20)" json:"buyer_gstin"`

	// Seller snapshot, write-once at creation
	SellerName    string `gorm:"type:varchar(255);not null" json:"seller_name"`
	SellerAddress string `gorm:"type:text" json:"seller_address"`
	SellerGSTIN   string `gorm:"type:varchar(20)" json:"seller_gstin"`

	CgstRate   decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"cgst_rate"`
	SgstRate   decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"sgst_rate"`
	IgstRate   decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"igst_rate"`
	CgstAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cgst_amount"`
	SgstAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sgst_amount"`
	IgstAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"igst_amount"`
	Discount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	RoundOff   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"round_off"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`

	TotalInWords string `gorm:"type:text" json:"total_in_words"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending, paid, archived

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is one line of an invoice. Description/HSN/unit/rate are copied
// from the product (if one was picked) when the invoice is created.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"` // reference for reporting only
	Description string          `gorm:"type:text;not null" json:"description"`
	HSN         string          `gorm:"type:varchar(20)" json:"hsn"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Unit        string          `gorm:"type:varchar(20)" json:"unit"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"rate"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
	Position    int             `gorm:"not null" json:"position"`
}
