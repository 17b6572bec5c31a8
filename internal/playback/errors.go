package playback

import "errors"

var (
	// ErrListEmpty is returned when starting a cue list that has no cues.
	ErrListEmpty = errors.New("playback: cue list is empty")

	// ErrIndexOutOfRange is returned for a start or goto index outside
	// the cue list.
	ErrIndexOutOfRange = errors.New("playback: cue index out of range")

	// ErrNotPlaying is returned when navigating a list that has no
	// playback state.
	ErrNotPlaying = errors.New("playback: cue list is not playing")

	// ErrAtLastCue is returned by next on a non-looping list's last cue.
	ErrAtLastCue = errors.New("playback: already at last cue")

	// ErrAtFirstCue is returned by previous on the first cue.
	ErrAtFirstCue = errors.New("playback: already at first cue")
)
