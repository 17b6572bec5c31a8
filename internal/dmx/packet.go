package dmx

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Art-Net protocol constants.
const (
	// ArtNetPort is the fixed UDP port for Art-Net traffic.
	ArtNetPort = 6454

	// OpCodeDMX is the ArtDMX opcode (little-endian on the wire).
	OpCodeDMX uint16 = 0x5000

	// ProtocolVersion is the Art-Net protocol revision (big-endian on the wire).
	ProtocolVersion uint16 = 14

	// UniverseSize is the number of channels in one DMX universe.
	UniverseSize = 512

	// PacketSize is the total length of an ArtDMX packet carrying a full universe.
	PacketSize = 530

	// headerSize is the length of the fixed ArtDMX header preceding channel data.
	headerSize = 18
)

// artNetID is the 8-byte packet identifier: "Art-Net" plus a terminating NUL.
var artNetID = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0}

// ArtDMX is a decoded ArtDMX packet.
//
// Universe holds the zero-based wire value; the service's universe ids
// are one-based, so universe 1 encodes as 0.
type ArtDMX struct {
	OpCode    uint16
	ProtoVer  uint16
	Sequence  byte
	Physical  byte
	Universe  uint16
	Length    uint16
	Data      [UniverseSize]byte
}

// EncodeArtDMX encodes one universe of channel data as a 530-byte ArtDMX packet.
//
// Wire layout (interoperability with real nodes depends on this being
// byte-exact):
//
//	Byte 0-7:   "Art-Net\0"
//	Byte 8-9:   OpCode 0x5000 (little-endian)
//	Byte 10-11: Protocol version 14 (big-endian)
//	Byte 12:    Sequence (0 = disabled)
//	Byte 13:    Physical port (0)
//	Byte 14-15: Universe, zero-based (little-endian)
//	Byte 16-17: Data length 512 (big-endian)
//	Byte 18-529: Channel values
//
// Parameters:
//   - universe: One-based universe id (encoded as universe-1)
//   - data: The 512 effective channel values
//
// Returns:
//   - []byte: Complete packet ready to send over UDP
func EncodeArtDMX(universe int, data *[UniverseSize]byte) []byte {
	buf := make([]byte, PacketSize)

	copy(buf[0:8], artNetID[:])
	binary.LittleEndian.PutUint16(buf[8:10], OpCodeDMX)
	binary.BigEndian.PutUint16(buf[10:12], ProtocolVersion)
	buf[12] = 0 // Sequence disabled
	buf[13] = 0 // Physical port
	binary.LittleEndian.PutUint16(buf[14:16], uint16(universe-1)) //nolint:gosec // Universe ids are validated at service construction
	binary.BigEndian.PutUint16(buf[16:18], UniverseSize)
	copy(buf[headerSize:], data[:])

	return buf
}

// DecodeArtDMX parses a raw buffer into an ArtDMX packet.
//
// Used by tests and diagnostics; the output path only encodes.
//
// Parameters:
//   - packet: Raw bytes, expected to be exactly PacketSize long
//
// Returns:
//   - ArtDMX: Decoded packet
//   - error: ErrInvalidPacket if the buffer is malformed
func DecodeArtDMX(packet []byte) (ArtDMX, error) {
	if len(packet) != PacketSize {
		return ArtDMX{}, fmt.Errorf("%w: length %d, want %d", ErrInvalidPacket, len(packet), PacketSize)
	}

	if !bytes.Equal(packet[0:8], artNetID[:]) {
		return ArtDMX{}, fmt.Errorf("%w: bad identifier %q", ErrInvalidPacket, packet[0:8])
	}

	p := ArtDMX{
		OpCode:   binary.LittleEndian.Uint16(packet[8:10]),
		ProtoVer: binary.BigEndian.Uint16(packet[10:12]),
		Sequence: packet[12],
		Physical: packet[13],
		Universe: binary.LittleEndian.Uint16(packet[14:16]),
		Length:   binary.BigEndian.Uint16(packet[16:18]),
	}

	if p.OpCode != OpCodeDMX {
		return ArtDMX{}, fmt.Errorf("%w: opcode 0x%04X", ErrInvalidPacket, p.OpCode)
	}
	if p.Length != UniverseSize {
		return ArtDMX{}, fmt.Errorf("%w: data length %d", ErrInvalidPacket, p.Length)
	}

	copy(p.Data[:], packet[headerSize:])
	return p, nil
}
