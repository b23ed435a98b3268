package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig     = fmt.Errorf("configuration not found")
	ErrInvalidConfig     = fmt.Errorf("invalid configuration")
	ErrMissingCredential = fmt.Errorf("missing credential")
	ErrRateLimiterConfig = fmt.Errorf("invalid rate limiter configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrArtistNotFound     = fmt.Errorf("artist not found")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Transformation errors
	ErrUnknownDialect    = fmt.Errorf("unknown SQL dialect")
	ErrUnknownStrategy   = fmt.Errorf("unknown merge strategy")
	ErrUnknownResolution = fmt.Errorf("unknown conflict resolution")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrFileNotFound    = fmt.Errorf("file not found")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
