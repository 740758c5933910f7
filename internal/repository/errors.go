package repository

import "errors"

var (
	// ErrInvalidSource indicates a malformed or disallowed source URL
	ErrInvalidSource = errors.New("invalid image source")

	// ErrUnsupportedScheme indicates no fetcher is registered for a scheme
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
)
