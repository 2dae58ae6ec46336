/*
NAME
  board.go

DESCRIPTION
  board.go provides the hold database for the 12x12 decoy board:
  translation from protocol hold positions to LED strip indices, and
  the failure indicator pattern.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package board describes the physical decoy board: which hold
// positions exist and where each one's LED sits on the strip.
//
// Positions run column-major down a frame of 17 columns with 35
// position slots per column; the final column is short, ending at the
// main top row, which puts the last position at 577. Not every slot
// carries a hold. The strip is wired in a serpentine: it climbs the
// first column, descends the second, and so on, so a hold's strip
// index depends on its column's direction and on how many holds
// precede the column.
package board

// Board geometry.
const (
	// NumLEDs is the number of pixels on the strip; one per hold.
	NumLEDs = 461

	// NumPositions is the size of the protocol's hold position space.
	NumPositions = 578

	// NumColumns and slotsPerColumn define the position grid. The
	// last column holds only the remaining NumPositions slots.
	NumColumns     = 17
	slotsPerColumn = 35
)

// columnRows gives the inclusive row range carrying holds in each
// column, row 0 at the top of the frame. The range sizes sum to
// NumLEDs.
var columnRows = [NumColumns][2]uint8{
	{3, 30}, {4, 30}, {4, 30}, {3, 30}, {3, 30}, {3, 30}, {3, 30}, {3, 30},
	{3, 30}, {3, 30}, {3, 30}, {3, 30}, {3, 30}, {3, 30}, {3, 30}, {3, 30},
	{3, 17},
}

// columnBase[c] is the strip index of the first hold of column c.
var columnBase [NumColumns]uint16

func init() {
	var base uint16
	for c, r := range columnRows {
		columnBase[c] = base
		base += uint16(r[1] - r[0] + 1)
	}
	if base != NumLEDs {
		panic("board: column hold ranges do not sum to the LED count")
	}
}

// PixelFor translates a protocol hold position to its LED strip
// index. It reports false when the position is out of range or
// addresses a slot on the frame with no hold.
func PixelFor(position uint16) (uint16, bool) {
	if position >= NumPositions {
		return 0, false
	}
	col := position / slotsPerColumn
	row := uint8(position % slotsPerColumn)

	lo, hi := columnRows[col][0], columnRows[col][1]
	if row < lo || row > hi {
		return 0, false
	}

	// Even columns are wired bottom to top, odd columns top to bottom.
	if col%2 == 0 {
		return columnBase[col] + uint16(hi-row), true
	}
	return columnBase[col] + uint16(row-lo), true
}

// FailurePattern returns every tenth strip index, the pixel set
// flashed to indicate a problem that cannot be displayed.
func FailurePattern() []uint16 {
	var pattern []uint16
	for i := uint16(0); i < NumLEDs; i += 10 {
		pattern = append(pattern, i)
	}
	return pattern
}
