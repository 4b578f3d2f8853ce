package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Lookup errors: a referenced id did not resolve.
	// Not retryable without a corrected id.
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrAlbumNotFound    = fmt.Errorf("album not found")
	ErrArtistNotFound   = fmt.Errorf("artist not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrEntryNotFound    = fmt.Errorf("queue entry not found")

	// Input validation errors. Recoverable by re-fetching queue state
	// and retrying with corrected input.
	ErrInvalidIndex    = fmt.Errorf("index out of range")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)
