// Package api implements the HTTP REST API and WebSocket server for
// Stagelight Core.
//
// This package provides:
//   - REST endpoints for live channel control, fades, scene activation,
//     and cue playback
//   - Show data CRUD (fixtures, scenes, cue lists, cues)
//   - WebSocket hub for real-time playback and DMX rate broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body limit,
//     JWT bearer auth)
//
// # Architecture
//
// The API server sits between operator interfaces (console UIs, tablet
// remotes, show-control integrations) and the lighting engines. Channel
// and fade requests go straight to the DMX service and fade engine; cue
// operations go through the playback engine; show data flows through
// the cached registry. Playback transitions and transmission rate
// changes are pushed to WebSocket subscribers as they happen.
//
// # Security
//
// Authentication is a single shared HS256 bearer token, validated on
// every API route when enabled. Lighting rigs run on isolated networks;
// per-user accounts are out of scope. WebSocket clients pass the same
// token as a query parameter since browsers cannot set headers on
// upgrade requests.
//
// # Graceful Degradation
//
// The server operates without MQTT; the status bus is an optional
// mirror of what the WebSocket hub already broadcasts.
package api
