/*
NAME
  decoy.go

DESCRIPTION
  decoy.go provides the decoy board wire protocol decoder; a framed
  reassembly-and-decode layer fed one transport fragment at a time.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package decoy implements the decoy board problem protocol. A host
// pushes climbing problems to the board as frames carried over a
// fragmenting transport; the Decoder reassembles the fragments,
// locates frame boundaries by sentinel, validates an 8-bit complement
// checksum and emits the decoded hold placements.
//
// One frame on the wire:
//
//	==========================================================
//	| octet    | value                                       |
//	==========================================================
//	| 0        | first byte indicator (0x01)                 |
//	----------------------------------------------------------
//	| 1        | payload size, counting the index marker     |
//	----------------------------------------------------------
//	| 2        | checksum                                    |
//	----------------------------------------------------------
//	| 3        | second byte indicator (0x02)                |
//	----------------------------------------------------------
//	| 4        | index marker                                |
//	----------------------------------------------------------
//	| 5..5+N-1 | placement records, 3 octets each            |
//	----------------------------------------------------------
//	| 5+N      | third byte indicator (0x03)                 |
//	----------------------------------------------------------
//
// Each placement record is a little-endian uint16 hold position
// followed by one rrrgggbb packed color octet.
package decoy

import (
	"github.com/ausocean/utils/logging"
)

// Frame sentinels. The indicators sit at fixed offsets and are the
// only means of locating a frame boundary in the stream.
const (
	firstByteIndicator  = 0x01
	secondByteIndicator = 0x02
	thirdByteIndicator  = 0x03
)

// Fixed element sizes.
const (
	headerSize    = 5 // Indicator, payload size, checksum, indicator, index marker.
	footerSize    = 1 // Indicator.
	placementSize = 3 // Little-endian uint16 position and a packed color octet.
)

// MaxPlacements bounds the number of placements carried by one frame.
// Placement storage is sized once at construction and reused across
// frames; a frame exceeding the bound fails as a bad payload.
const MaxPlacements = 35

// Header field offsets.
const (
	firstIndicatorIdx  = 0
	payloadSizeIdx     = 1
	checksumIdx        = 2
	secondIndicatorIdx = 3
	indexMarkerIdx     = 4
)

// Color is an RGB color with 8-bit channels.
type Color struct {
	R, G, B uint8
}

// Placement is one lit hold on the board: a position in the board's
// hold space and the color it should show. Position ranges are not
// validated here; the board database owns that mapping.
type Placement struct {
	Position uint16
	Color    Color
}

// IndexMarker classifies a frame's role in a multi-frame problem
// sequence. The decoder delivers every frame individually; joining a
// first/middle/last sequence is the caller's concern.
type IndexMarker uint8

// Recognised index markers. Any other value fails the frame.
const (
	MarkerMiddle IndexMarker = 0x51
	MarkerFirst  IndexMarker = 0x52
	MarkerLast   IndexMarker = 0x53
	MarkerSolo   IndexMarker = 0x54
)

// valid reports whether m is one of the four recognised markers.
func (m IndexMarker) valid() bool {
	switch m {
	case MarkerMiddle, MarkerFirst, MarkerLast, MarkerSolo:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (m IndexMarker) String() string {
	switch m {
	case MarkerMiddle:
		return "middle"
	case MarkerFirst:
		return "first"
	case MarkerLast:
		return "last"
	case MarkerSolo:
		return "solo"
	default:
		return "invalid"
	}
}

// Packet is one validated frame: its index marker and the placements
// decoded from its payload, in payload order.
type Packet struct {
	Marker     IndexMarker
	Placements []Placement
}

// Decoder reassembles and decodes frames from a fragmented stream.
// Fragments are consumed strictly in the order presented to Process.
// A Decoder is not safe for concurrent use; a single driver owns it.
type Decoder struct {
	buf        bufferList
	placements []Placement
	log        logging.Logger
}

// NewDecoder returns a Decoder that logs parse progress to l at debug
// level. Malformed input is recovered from silently; only a validated
// frame reaches the caller.
func NewDecoder(l logging.Logger) *Decoder {
	return &Decoder{
		placements: make([]Placement, 0, MaxPlacements),
		log:        l,
	}
}

// Process absorbs one fragment and attempts to decode a frame from
// the buffered stream. It returns the decoded packet and true when a
// complete frame validated, otherwise nil and false with any partial
// frame retained for subsequent calls.
//
// On a parse failure the oldest buffered fragment is dropped and the
// remainder re-parsed; the transport fragments at frame-aligned
// boundaries, so a frame's header always begins at the start of some
// segment and segment-level resynchronisation recovers from a dropped
// or reordered fragment in at most one misfire.
//
// The fragment is copied; the caller may reuse it once Process
// returns. The returned packet's placements are valid until the next
// call to Process on the same Decoder.
func (d *Decoder) Process(fragment []byte) (*Packet, bool) {
	if len(fragment) != 0 {
		d.buf.append(fragment)
	}

	for !d.buf.empty() {
		var pkt Packet
		status := d.parse(&pkt)
		switch status {
		case statusSuccess:
			d.buf.clear()
			d.log.Debug("decoded frame", "marker", pkt.Marker.String(), "placements", len(pkt.Placements))
			return &pkt, true
		case statusIncomplete:
			// Wait and accumulate further fragments.
			return nil, false
		default:
			// Remove the oldest fragment and try to interpret the
			// remainder as a frame.
			d.log.Debug("dropping oldest fragment", "status", status.String(), "buffered", d.buf.size())
			d.buf.popFront()
		}
	}
	return nil, false
}

// Clear discards all buffered stream state. Transport disconnection
// handling may use this to abandon a partially received frame.
func (d *Decoder) Clear() {
	d.buf.clear()
}

// Buffered returns the number of stream bytes currently retained.
func (d *Decoder) Buffered() int {
	return d.buf.size()
}
