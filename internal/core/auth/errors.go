package auth

import "errors"

// Authentication errors all map to UNAUTHENTICATED; messages do not confirm
// whether a token id exists.
var (
	ErrMissingKey       = errors.New("API key required in x-api-key metadata")
	ErrInvalidKeyFormat = errors.New("invalid API key format")
	ErrUnknownKey       = errors.New("unknown token ID")
	ErrInvalidKey       = errors.New("invalid API key")
)
