// Package dmx provides the DMX output service for Stagelight Core.
//
// The service owns per-universe channel state (512 one-byte channels per
// universe), a manual override layer, Art-Net packet encoding, and an
// adaptive transmission scheduler that streams the effective output onto
// the network.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────┐
//	│                Service (service.go)                  │
//	│  Base channel arrays + override layer + snapshots    │
//	│        │                                             │
//	│        ▼                                             │
//	│  ┌──────────────────────────────────────────────┐   │
//	│  │  Adaptive sender (sender.go)                  │   │
//	│  │  1. Diff effective output vs last transmitted │   │
//	│  │  2. Change → active rate; quiet → idle rate   │   │
//	│  │  3. Encode ArtDMX packets (packet.go)         │   │
//	│  │  4. UDP broadcast, port 6454                  │   │
//	│  └──────────────────────────────────────────────┘   │
//	└─────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Service: Owner of all universe state; single writer by API surface
//   - ChannelKey: Composite (universe, channel) map key
//   - Recorder: Optional telemetry sink for rate changes and transmissions
//
// # Error Handling
//
// Writes to unknown universes or out-of-range channels are silently
// ignored; patch data may reference addresses that are not configured yet.
// UDP send failures are logged per universe and never stop the scheduler.
//
// # Thread Safety
//
// All public methods are safe for concurrent use. Reads always return
// defensive copies, never internal references.
package dmx
