package model

import "errors"

// Error categories for the command side. Handlers and the HTTP layer
// distinguish them with errors.Is; everything else is reported generically.
var (
	// ErrInvalidInput marks malformed or missing command fields. Raised
	// during command validation, before any repository access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced aggregate that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusinessRule marks a state-machine guard or authorization failure.
	ErrBusinessRule = errors.New("business rule violation")
)
