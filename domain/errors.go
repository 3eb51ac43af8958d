package domain

import "errors"

// Error kinds shared across the store, the transaction logs and the
// inventory operations. Callers match them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidDateRange  = errors.New("expiry date must be after manufacturing date")
	ErrAlreadyExpired    = errors.New("medicine is already expired")
	ErrNotFound          = errors.New("medicine not found")
	ErrNegativeStock     = errors.New("stock cannot be reduced below zero")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrCorruptStorage    = errors.New("inventory storage is unreadable")
	ErrStorageWrite      = errors.New("inventory storage write failed")
)
