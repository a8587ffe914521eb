package services

import "errors"

// Service errors
var (
	ErrInvalidInput = errors.New("invalid input")
)
