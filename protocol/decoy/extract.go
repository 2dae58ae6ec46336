/*
NAME
  extract.go

DESCRIPTION
  extract.go provides placement extraction from a validated decoy
  frame payload, stitching records that straddle fragment boundaries.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decoy

import "encoding/binary"

// extractPlacements decodes consecutive placement records from the
// ordered payload views, appending to dst. Whole records within a
// view are decoded in place; a record straddling a view boundary is
// compacted through a small staging array first. Extraction fails
// when the payload does not divide into whole records or carries more
// than MaxPlacements of them.
func extractPlacements(views [][]byte, dst []Placement) ([]Placement, bool) {
	var n int
	for _, v := range views {
		n += len(v)
	}
	if n%placementSize != 0 || n/placementSize > MaxPlacements {
		return nil, false
	}

	var (
		stage  [placementSize]byte
		staged int
	)
	for _, v := range views {
		if staged != 0 {
			m := copy(stage[staged:], v)
			staged += m
			if staged < placementSize {
				continue
			}
			dst = append(dst, decodePlacement(stage[:]))
			staged = 0
			v = v[m:]
		}

		for len(v) >= placementSize {
			dst = append(dst, decodePlacement(v[:placementSize]))
			v = v[placementSize:]
		}

		if len(v) != 0 {
			staged = copy(stage[:], v)
		}
	}
	if staged != 0 {
		return nil, false
	}
	return dst, true
}

// decodePlacement reads one record: a little-endian uint16 position
// followed by a packed color octet.
func decodePlacement(b []byte) Placement {
	return Placement{
		Position: binary.LittleEndian.Uint16(b),
		Color:    unpackColor(b[2]),
	}
}
