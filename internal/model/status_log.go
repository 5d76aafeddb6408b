package model

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatusLog records one committed invoice status change. Rows are
// written in the same transaction as the change itself and are never updated
// or deleted.
type InvoiceStatusLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	OldStatus string    `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus string    `gorm:"type:varchar(20);not null" json:"new_status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
