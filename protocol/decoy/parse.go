/*
NAME
  parse.go

DESCRIPTION
  parse.go provides frame parsing for the decoy protocol: header and
  footer sentinel checks, payload length accounting and checksum
  validation over the buffered fragments.

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

package decoy

// parseStatus tags the outcome of one frame parse attempt. Statuses
// other than success and incomplete are recoverable; the driver drops
// the oldest fragment and retries.
type parseStatus int

const (
	statusSuccess parseStatus = iota
	statusIncomplete
	statusInsufficientHeaderBytes
	statusBadHeader
	statusBadPayload
	statusBadFooter
	statusBadChecksum
)

// String implements fmt.Stringer.
func (s parseStatus) String() string {
	switch s {
	case statusSuccess:
		return "success"
	case statusIncomplete:
		return "incomplete"
	case statusInsufficientHeaderBytes:
		return "insufficient header bytes"
	case statusBadHeader:
		return "bad header"
	case statusBadPayload:
		return "bad payload"
	case statusBadFooter:
		return "bad footer"
	case statusBadChecksum:
		return "bad checksum"
	default:
		return "unknown"
	}
}

// parse attempts to decode one complete frame from the head of the
// fragment buffer, populating pkt on success. The buffer is never
// mutated here; recovery policy belongs to the driver.
func (d *Decoder) parse(pkt *Packet) parseStatus {
	if d.buf.size() < headerSize {
		return statusInsufficientHeaderBytes
	}

	// The header is small enough that it almost always lies within the
	// first segment. When an earlier pop has left a short segment at
	// the head, compact the header bytes into a stack array instead.
	var stage [headerSize]byte
	header := d.buf.spanOf(0, headerSize)
	if header == nil {
		var n int
		for _, v := range d.buf.spansOf(0, headerSize) {
			n += copy(stage[n:], v)
		}
		header = stage[:]
	}

	if header[firstIndicatorIdx] != firstByteIndicator {
		return statusBadHeader
	}
	if header[secondIndicatorIdx] != secondByteIndicator {
		return statusBadHeader
	}
	marker := IndexMarker(header[indexMarkerIdx])
	if !marker.valid() {
		return statusBadHeader
	}

	// The index marker is counted by the size field even though it sits
	// in the header, so the field must account for at least one byte.
	if header[payloadSizeIdx] < 1 {
		return statusBadHeader
	}
	payloadLen := int(header[payloadSizeIdx]) - 1

	if d.buf.size() < headerSize+payloadLen+footerSize {
		return statusIncomplete
	}

	payload := d.buf.spansOf(headerSize, payloadLen)
	if sum := checksum(marker, payload); sum != header[checksumIdx] {
		return statusBadChecksum
	}

	// Segments are never empty, so a single byte cannot straddle a
	// boundary and the footer read is always contiguous.
	footer := d.buf.spanOf(headerSize+payloadLen, footerSize)
	if footer[0] != thirdByteIndicator {
		return statusBadFooter
	}

	d.placements = d.placements[:0]
	placements, ok := extractPlacements(payload, d.placements)
	if !ok {
		return statusBadPayload
	}
	d.placements = placements

	pkt.Marker = marker
	pkt.Placements = placements
	return statusSuccess
}

// checksum folds the index marker and every payload byte into a
// running 8-bit sum and returns the bitwise complement of the result.
func checksum(marker IndexMarker, payload [][]byte) uint8 {
	acc := uint8(marker)
	for _, v := range payload {
		for _, b := range v {
			acc += b
		}
	}
	return ^acc
}
