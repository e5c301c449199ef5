package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound           = errors.New("domain: not found")
	ErrUnsupportedVariant = errors.New("domain: unsupported contract variant")
	ErrInvalidLanguage    = errors.New("domain: language not allowed on this domain")
)
