package show

import (
	"fmt"
	"time"
)

// Fixture is a physical lighting unit patched at a universe and starting
// channel. A fixture with start channel 10 and 4 channels occupies
// channels 10 through 13.
type Fixture struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Universe     int       `json:"universe"`
	StartChannel int       `json:"start_channel"`
	ChannelCount int       `json:"channel_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the fixture's patch data.
func (f *Fixture) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: fixture name is required", ErrValidation)
	}
	if f.Universe < 1 {
		return fmt.Errorf("%w: universe must be >= 1, got %d", ErrValidation, f.Universe)
	}
	if f.StartChannel < 1 || f.StartChannel > 512 {
		return fmt.Errorf("%w: start channel must be 1-512, got %d", ErrValidation, f.StartChannel)
	}
	if f.ChannelCount < 1 {
		return fmt.Errorf("%w: channel count must be >= 1, got %d", ErrValidation, f.ChannelCount)
	}
	if f.StartChannel+f.ChannelCount-1 > 512 {
		return fmt.Errorf("%w: fixture %q overflows universe (start %d, count %d)",
			ErrValidation, f.Name, f.StartChannel, f.ChannelCount)
	}
	return nil
}

// FixtureValue is one fixture's channel values within a scene. Values[0]
// lands on the fixture's start channel, Values[1] on the next, and so on.
type FixtureValue struct {
	FixtureID string `json:"fixture_id"`
	Values    []int  `json:"values"`
}

// Scene is a named set of fixture values.
type Scene struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   *string        `json:"description,omitempty"`
	FixtureValues []FixtureValue `json:"fixture_values"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Validate checks the scene's shape. Channel values are not range checked
// here; the output path clamps on write.
func (s *Scene) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: scene name is required", ErrValidation)
	}
	for i, fv := range s.FixtureValues {
		if fv.FixtureID == "" {
			return fmt.Errorf("%w: fixture_values[%d] missing fixture id", ErrValidation, i)
		}
	}
	return nil
}

// CueList is an ordered sequence of cues. Loop controls whether playback
// wraps from the last cue back to the first.
type CueList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Loop      bool      `json:"loop"`
	Cues      []Cue     `json:"cues"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the cue list's shape.
func (cl *CueList) Validate() error {
	if cl.Name == "" {
		return fmt.Errorf("%w: cue list name is required", ErrValidation)
	}
	return nil
}

// Cue references a scene plus the timing and easing used when playback
// reaches it. FollowSec, when set, auto-advances to the next cue that many
// seconds after this one starts.
type Cue struct {
	ID         string    `json:"id"`
	CueListID  string    `json:"cue_list_id"`
	Name       string    `json:"name"`
	SceneID    string    `json:"scene_id"`
	FadeInSec  float64   `json:"fade_in_sec"`
	FadeOutSec float64   `json:"fade_out_sec"`
	FollowSec  *float64  `json:"follow_sec,omitempty"`
	Easing     *string   `json:"easing,omitempty"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the cue's shape and timing.
func (c *Cue) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: cue name is required", ErrValidation)
	}
	if c.SceneID == "" {
		return fmt.Errorf("%w: cue %q has no scene", ErrValidation, c.Name)
	}
	if c.FadeInSec < 0 || c.FadeOutSec < 0 {
		return fmt.Errorf("%w: cue %q has negative fade time", ErrValidation, c.Name)
	}
	if c.FollowSec != nil && *c.FollowSec < 0 {
		return fmt.Errorf("%w: cue %q has negative follow time", ErrValidation, c.Name)
	}
	return nil
}

// DeepCopy returns a copy of the cue list with its cue slice duplicated,
// safe for callers to mutate.
func (cl *CueList) DeepCopy() *CueList {
	cp := *cl
	cp.Cues = make([]Cue, len(cl.Cues))
	for i := range cl.Cues {
		cp.Cues[i] = *cl.Cues[i].DeepCopy()
	}
	return &cp
}

// DeepCopy returns a copy of the cue with pointer fields duplicated.
func (c *Cue) DeepCopy() *Cue {
	cp := *c
	if c.FollowSec != nil {
		v := *c.FollowSec
		cp.FollowSec = &v
	}
	if c.Easing != nil {
		v := *c.Easing
		cp.Easing = &v
	}
	return &cp
}

// DeepCopy returns a copy of the scene with its value slices duplicated.
func (s *Scene) DeepCopy() *Scene {
	cp := *s
	if s.Description != nil {
		v := *s.Description
		cp.Description = &v
	}
	cp.FixtureValues = make([]FixtureValue, len(s.FixtureValues))
	for i, fv := range s.FixtureValues {
		values := make([]int, len(fv.Values))
		copy(values, fv.Values)
		cp.FixtureValues[i] = FixtureValue{FixtureID: fv.FixtureID, Values: values}
	}
	return &cp
}

// DeepCopy returns a copy of the fixture.
func (f *Fixture) DeepCopy() *Fixture {
	cp := *f
	return &cp
}
