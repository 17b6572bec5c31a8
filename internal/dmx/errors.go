package dmx

import "errors"

// Domain errors for the dmx package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, dmx.ErrInvalidPacket) {
//	    // handle malformed packet
//	}
var (
	// ErrInvalidPacket is returned when decoding a buffer that is not a
	// valid ArtDMX packet.
	ErrInvalidPacket = errors.New("dmx: invalid Art-Net packet")

	// ErrAlreadyStarted is returned when Start is called on a running service.
	ErrAlreadyStarted = errors.New("dmx: service already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("dmx: service not started")

	// ErrNoBroadcastAddress is returned when no usable destination address
	// can be resolved for Art-Net output.
	ErrNoBroadcastAddress = errors.New("dmx: no broadcast address")
)
