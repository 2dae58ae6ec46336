/*
NAME
  encode.go

DESCRIPTION
  encode.go provides encoding of placements into decoy wire frames,
  the byte-exact inverse of the decoder.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decoy

import (
	"encoding/binary"
	"fmt"
)

// ErrTooManyPlacements is returned by Encode when the placements will
// not fit in one frame.
var ErrTooManyPlacements = fmt.Errorf("more than %d placements for one frame", MaxPlacements)

// Encode renders marker and placements as one wire frame. Color
// packing quantises channels onto the rrrgggbb layout, so colors are
// lossy; marker and positions survive a round-trip exactly.
func Encode(marker IndexMarker, placements []Placement) ([]byte, error) {
	if !marker.valid() {
		return nil, fmt.Errorf("invalid index marker: %#02x", uint8(marker))
	}
	if len(placements) > MaxPlacements {
		return nil, ErrTooManyPlacements
	}

	frame := make([]byte, headerSize, headerSize+len(placements)*placementSize+footerSize)
	frame[firstIndicatorIdx] = firstByteIndicator
	frame[payloadSizeIdx] = byte(len(placements)*placementSize + 1)
	frame[secondIndicatorIdx] = secondByteIndicator
	frame[indexMarkerIdx] = byte(marker)

	for _, p := range placements {
		var rec [placementSize]byte
		binary.LittleEndian.PutUint16(rec[:], p.Position)
		rec[2] = packColor(p.Color)
		frame = append(frame, rec[:]...)
	}

	frame[checksumIdx] = checksum(marker, [][]byte{frame[headerSize:]})
	return append(frame, thirdByteIndicator), nil
}
