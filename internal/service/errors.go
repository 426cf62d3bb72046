package service

import "errors"

// Ledger errors are sentinels so HTTP handlers can map them to status
// codes with errors.Is.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidAmount     = errors.New("movement amount must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
)
