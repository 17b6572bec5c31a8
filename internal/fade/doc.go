// Package fade provides the fade engine for Stagelight Core.
//
// The engine interpolates channel values over time on a fixed 25ms tick
// (40Hz) and writes each frame through the DMX output service. Fades are
// identified by string ids: resubmitting under an existing id replaces
// the running fade, and an interpolated-value cache carries the exact
// fractional position across the replacement so the output never jumps.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────┐
//	│                 Engine (engine.go)                   │
//	│  Active fades keyed by id + interpolated cache       │
//	│        │                                             │
//	│        ▼  every 25ms                                 │
//	│  ┌──────────────────────────────────────────────┐   │
//	│  │  1. progress = (now - start) / duration       │   │
//	│  │  2. eased = easing(progress)  (easing.go)     │   │
//	│  │  3. value = start + (end-start) * eased       │   │
//	│  │  4. cache unrounded, write rounded            │   │
//	│  │  5. complete → exact targets, run callbacks   │   │
//	│  └──────────────────────────────────────────────┘   │
//	│        │                                             │
//	│        ▼                                             │
//	│    DMXWriter (the dmx output service)                │
//	└─────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Engine: Tick scheduler and fade lifecycle owner
//   - ChannelTarget: One (universe, channel, target value) triple
//   - Easing: Curve selector, stored on cues as a string
//
// # Behavior Notes
//
// In-progress frames are rounded and clamped to [0,255] before writing;
// the completion frame writes each channel's exact requested target. Out
// of range targets are passed through, the output service clamps on
// write. Cancellation is synchronous: once CancelFade returns no further
// frames for that fade are written.
package fade
