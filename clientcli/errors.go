package clientcli

import "errors"

// Sentinel errors for client configuration and input validation.
// Use errors.Is() to check for these conditions.
var (
	// ErrProfileNotFound is returned when a named profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNoProfiles is returned when no profiles are configured.
	ErrNoProfiles = errors.New("no profiles configured")

	// ErrProfileExists is returned when adding a profile whose name is taken.
	ErrProfileExists = errors.New("profile already exists")

	// ErrTokenRequired is returned when a request needs a bearer token and none
	// is configured.
	ErrTokenRequired = errors.New("token required")

	// ErrConfigRequired is returned when a nil config is passed to New.
	ErrConfigRequired = errors.New("config required")

	// ErrEmptyID is returned when an operation is given an empty todo id.
	ErrEmptyID = errors.New("todo id required")

	// ErrEmptyName is returned when a create or update is given an empty name.
	ErrEmptyName = errors.New("todo name required")
)
