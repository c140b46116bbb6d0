package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthExchange   = fmt.Errorf("authorization exchange failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// Domain errors
	ErrNotFound            = fmt.Errorf("account not found")
	ErrDuplicateConnection = fmt.Errorf("accounts are already connected")
	ErrInsufficientData    = fmt.Errorf("insufficient listening history")

	// API and service errors
	ErrUpstreamFetch      = fmt.Errorf("spotify request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
