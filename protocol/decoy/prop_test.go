/*
NAME
  prop_test.go

DESCRIPTION
  prop_test.go provides property-based testing of the decoy protocol
  round-trip and resynchronisation laws.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decoy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

var markers = []IndexMarker{MarkerMiddle, MarkerFirst, MarkerLast, MarkerSolo}

// drawPlacements draws up to MaxPlacements placements whose colors
// are representable on the wire, so decode returns them exactly.
func drawPlacements(t *rapid.T) []Placement {
	n := rapid.IntRange(0, MaxPlacements).Draw(t, "n")
	placements := make([]Placement, n)
	for i := range placements {
		placements[i] = Placement{
			Position: rapid.Uint16().Draw(t, "position"),
			Color:    unpackColor(rapid.Byte().Draw(t, "color")),
		}
	}
	return placements
}

// TestRoundTripLaw checks that an encoded frame fed back through a
// decoder, split arbitrarily provided the first fragment carries a
// whole header, yields the marker and placements that produced it.
func TestRoundTripLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		marker := rapid.SampledFrom(markers).Draw(t, "marker")
		placements := drawPlacements(t)

		frame, err := Encode(marker, placements)
		if err != nil {
			t.Fatalf("unexpected encode error: %v", err)
		}

		d := NewDecoder(testLogger())
		rest := frame
		cut := rapid.IntRange(headerSize, len(rest)).Draw(t, "first cut")
		frag, done := rest[:cut], false
		var pkt *Packet
		for {
			rest = rest[len(frag):]
			pkt, done = d.Process(frag)
			if len(rest) == 0 {
				break
			}
			if done {
				t.Fatal("frame completed before all fragments arrived")
			}
			frag = rest[:rapid.IntRange(1, len(rest)).Draw(t, "cut")]
		}
		if !done || pkt == nil {
			t.Fatal("frame did not complete")
		}
		if pkt.Marker != marker {
			t.Errorf("unexpected marker: got %v, want %v", pkt.Marker, marker)
		}
		if diff := cmp.Diff(placements, pkt.Placements); diff != "" {
			t.Errorf("unexpected placements (-want +got):\n%s", diff)
		}
	})
}

// TestResynchronisationLaw checks that any sequence of garbage
// fragments not opening with the first sentinel is recovered from,
// and a following frame decodes as if fed alone.
func TestResynchronisationLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		marker := rapid.SampledFrom(markers).Draw(t, "marker")
		placements := drawPlacements(t)
		frame, err := Encode(marker, placements)
		if err != nil {
			t.Fatalf("unexpected encode error: %v", err)
		}

		d := NewDecoder(testLogger())
		n := rapid.IntRange(1, 5).Draw(t, "garbage fragments")
		for i := 0; i < n; i++ {
			g := rapid.SliceOfN(rapid.Byte(), 1, 40).Draw(t, "garbage")
			if g[0] == firstByteIndicator {
				g[0]++
			}
			if pkt, done := d.Process(g); done || pkt != nil {
				t.Fatal("unexpected completion from garbage")
			}
		}

		pkt, done := d.Process(frame)
		if !done || pkt == nil {
			t.Fatal("frame did not complete after garbage prefix")
		}
		if pkt.Marker != marker {
			t.Errorf("unexpected marker: got %v, want %v", pkt.Marker, marker)
		}
		if diff := cmp.Diff(placements, pkt.Placements); diff != "" {
			t.Errorf("unexpected placements (-want +got):\n%s", diff)
		}
	})
}
