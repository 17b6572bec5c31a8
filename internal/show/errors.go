package show

import "errors"

var (
	// ErrFixtureNotFound is returned when a fixture does not exist.
	ErrFixtureNotFound = errors.New("show: fixture not found")

	// ErrSceneNotFound is returned when a scene does not exist.
	ErrSceneNotFound = errors.New("show: scene not found")

	// ErrCueListNotFound is returned when a cue list does not exist.
	ErrCueListNotFound = errors.New("show: cue list not found")

	// ErrCueNotFound is returned when a cue does not exist.
	ErrCueNotFound = errors.New("show: cue not found")

	// ErrAlreadyExists is returned when creating an entity whose id is
	// already taken.
	ErrAlreadyExists = errors.New("show: already exists")

	// ErrSceneInUse is returned when deleting a scene that cues still
	// reference.
	ErrSceneInUse = errors.New("show: scene referenced by cues")

	// ErrValidation is the base error for invalid show data; wrap it with
	// field detail.
	ErrValidation = errors.New("show: validation failed")
)
