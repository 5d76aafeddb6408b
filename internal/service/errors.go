package service

import "errors"

// Sentinel errors handlers map onto HTTP status codes.
var (
	ErrBuyerNotFound   = errors.New("buyer not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvoiceNotFound = errors.New("invoice not found")

	ErrDuplicateNumber = errors.New("invoice number already in use by a non-archived invoice")
	ErrAlreadyArchived = errors.New("invoice is already archived")

	ErrInvalidCredentials = errors.New("invalid username or password")
)
