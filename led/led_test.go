/*
NAME
  led_test.go

DESCRIPTION
  led_test.go provides testing for the LED strip buffer and the SPI
  bit expansion.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package led

import (
	"bytes"
	"testing"

	"github.com/ausocean/luz/protocol/decoy"
)

func TestBufferSetAndClear(t *testing.T) {
	b := NewBuffer(4)
	red := decoy.Color{R: 224}

	if err := b.SetPixel(2, red); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.SetPixel(4, red); err == nil {
		t.Error("expected error for out-of-range pixel")
	}

	pixels := b.Pixels()
	if pixels[2] != red {
		t.Errorf("unexpected pixel 2: got %v, want %v", pixels[2], red)
	}

	if err := b.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range b.Pixels() {
		if p != (decoy.Color{}) {
			t.Errorf("pixel %d not cleared: %v", i, p)
		}
	}
}

// TestSymbolExpansion checks the bit-to-symbol lookup against hand
// expansions: 0x00 is eight 100 symbols, 0xff eight 110 symbols.
func TestSymbolExpansion(t *testing.T) {
	tests := []struct {
		in   byte
		want [3]byte
	}{
		{0x00, [3]byte{0x92, 0x49, 0x24}},
		{0xff, [3]byte{0xdb, 0x6d, 0xb6}},
		{0x80, [3]byte{0xd2, 0x49, 0x24}},
	}
	for _, test := range tests {
		if got := symbols[test.in]; got != test.want {
			t.Errorf("symbols[%#02x] = %x, want %x", test.in, got, test.want)
		}
	}
}

// TestSPIRefresh checks channel order and framing of a strip update:
// GRB per pixel, three bytes per channel, zero latch tail.
func TestSPIRefresh(t *testing.T) {
	var out bytes.Buffer
	s := NewSPIStrip(&out, 2)
	if err := s.SetPixel(0, decoy.Color{R: 255}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Refresh(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := append([]byte{}, symbols[0x00][:]...) // Pixel 0 green.
	want = append(want, symbols[0xff][:]...)      // Pixel 0 red.
	want = append(want, symbols[0x00][:]...)      // Pixel 0 blue.
	for i := 0; i < 3; i++ {                      // Pixel 1 off.
		want = append(want, symbols[0x00][:]...)
	}
	want = append(want, make([]byte, latchBytes)...)

	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("unexpected strip update:\ngot  %x\nwant %x", out.Bytes(), want)
	}
}
