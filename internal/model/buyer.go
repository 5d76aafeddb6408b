package model

import (
	"time"

	"github.com/google/uuid"
)

// Buyer represents a customer the business issues invoices to.
// Invoices copy the buyer fields at creation time, so editing a buyer
// never changes an already issued invoice.
type Buyer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	GSTIN     string    `gorm:"type:varchar(20)" json:"gstin"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
