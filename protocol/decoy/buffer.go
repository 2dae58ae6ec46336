/*
NAME
  buffer.go

DESCRIPTION
  buffer.go provides the fragment buffer backing the decoy protocol
  decoder; an ordered list of owned segments with logical addressing.

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

// bufferList holds the unconsumed tail of the stream as a list of
// owned segments, one per received fragment, in arrival order. It
// presents a linear addressing model over the segments so the frame
// parser need not care where fragment boundaries fell.
//
// Views returned by spanOf and spansOf alias segment storage and are
// invalidated by any mutation of the list.
type bufferList struct {
	segs [][]byte
}

// append copies p into a new owned segment at the tail. Segments are
// never coalesced; popFront must be able to discard exactly one
// received fragment.
func (l *bufferList) append(p []byte) {
	seg := make([]byte, len(p))
	copy(seg, p)
	l.segs = append(l.segs, seg)
}

// empty reports whether the list holds no segments.
func (l *bufferList) empty() bool {
	return len(l.segs) == 0
}

// size returns the logical size, i.e. the sum of segment sizes.
func (l *bufferList) size() int {
	var n int
	for _, s := range l.segs {
		n += len(s)
	}
	return n
}

// popFront discards the oldest segment.
func (l *bufferList) popFront() {
	if len(l.segs) == 0 {
		return
	}
	l.segs[0] = nil
	l.segs = l.segs[1:]
}

// clear discards all segments.
func (l *bufferList) clear() {
	l.segs = nil
}

// spanOf returns a contiguous view of n bytes starting at logical
// offset start, or nil when the range does not lie within a single
// segment. The caller must ensure start+n <= size().
func (l *bufferList) spanOf(start, n int) []byte {
	for _, s := range l.segs {
		if start < len(s) {
			if start+n > len(s) {
				return nil
			}
			return s[start : start+n]
		}
		start -= len(s)
	}
	return nil
}

// spansOf returns ordered views whose concatenation is the logical
// range [start, start+n); the view count is the number of segment
// boundaries crossed plus one. The caller must ensure
// start+n <= size().
func (l *bufferList) spansOf(start, n int) [][]byte {
	var views [][]byte
	for _, s := range l.segs {
		if n == 0 {
			break
		}
		if start >= len(s) {
			start -= len(s)
			continue
		}
		take := len(s) - start
		if take > n {
			take = n
		}
		views = append(views, s[start:start+take])
		n -= take
		start = 0
	}
	return views
}
