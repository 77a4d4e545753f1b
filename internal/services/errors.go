package services

import "errors"

var (
	// ErrInvalidPreference is returned when a value is not a member of its enumeration.
	ErrInvalidPreference = errors.New("invalid preference value")
	// ErrStorage wraps failures writing or reading durable storage.
	ErrStorage = errors.New("preference storage failed")
	// ErrEnvironment wraps failures applying preferences to the environment.
	ErrEnvironment = errors.New("apply preferences to environment failed")
	// ErrConfig wraps failures fetching or decoding the application configuration.
	ErrConfig = errors.New("application config unavailable")
	// ErrModelDisabled is returned when a user picks a model the selector disables.
	ErrModelDisabled = errors.New("model is not selectable")
	ErrNotLoggedIn   = errors.New("not logged in")
)
