package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrOrderRefNotFound is returned by invoice writes whose order reference
	// does not point at a stored order.
	ErrOrderRefNotFound = errors.New("referenced order not found")
)
