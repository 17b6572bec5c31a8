// Package show provides persistence and caching for show data: fixtures,
// scenes, cue lists, and cues.
//
// The data model mirrors how operators think about a rig. A fixture is a
// physical unit patched at a universe and starting channel. A scene stores
// per-fixture value arrays; value N lands on the fixture's start channel
// plus N. Cues order scenes within a cue list and carry fade timing and
// easing metadata for playback.
//
// Repository is the SQLite-backed store. Registry layers an in-memory
// cache on top: playback resolves cue lists through the registry so the
// hot path never touches the database mid-sequence, and every structural
// mutation to a cue list invalidates that list's cached form.
package show
