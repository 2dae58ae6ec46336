/*
NAME
  helpers.go

DESCRIPTION
  helpers.go provides packed color conversion helpers for the decoy
  wire format.

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

// Colors travel packed into one octet laid out rrrgggbb, most to
// least significant. Unpacking scales the 3-bit channels by 32 and
// the 2-bit blue channel by 64; the packing is lossy and colors are
// not required to round-trip.

// unpackColor expands a packed wire octet to 8-bit channels.
func unpackColor(b uint8) Color {
	return Color{
		R: (b & 0xe0) >> 5 * 32,
		G: (b & 0x1c) >> 2 * 32,
		B: b & 0x03 * 64,
	}
}

// packColor quantises c onto the packed wire layout.
func packColor(c Color) uint8 {
	return c.R/32<<5 | c.G/32<<2 | c.B/64
}
