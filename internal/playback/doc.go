// Package playback sequences cue lists through the fade engine.
//
// The engine keeps one small piece of state per cue list: the current cue
// index and a playing flag. Navigation (start, next, previous, goto)
// resolves cue and scene data through the show registry, flattens each
// scene's fixture values into absolute channel targets, and hands them to
// the fade engine. Playback never touches DMX state directly.
//
// All navigation paths execute cues through the same resolution code, so
// the light state on the wire and the recorded index cannot diverge. Cues
// with a follow time auto-advance after that many seconds; any manual
// navigation or stop cancels the pending follow.
//
// Next past the end of a looping list wraps to cue 0. On a non-looping
// list it returns ErrAtLastCue, and previous before the start returns
// ErrAtFirstCue; both are operator-visible conditions, not faults.
package playback
