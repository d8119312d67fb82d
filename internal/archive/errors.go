package archive

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("archive: session not found")

	// ErrSessionExists is returned when creating a session whose ID is
	// already recorded.
	ErrSessionExists = errors.New("archive: session already exists")
)
