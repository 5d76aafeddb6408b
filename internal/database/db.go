package database

import (
	"log"

	"invoicing/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	// TranslateError maps postgres unique violations onto gorm.ErrDuplicatedKey,
	// which the invoice service relies on for number conflicts.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Buyer{},
		&model.Product{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.InvoiceStatusLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
