/*
NAME
  led.go

DESCRIPTION
  led.go provides the LED strip abstraction used to display decoded
  problems: a Strip interface with the set/refresh/clear surface of a
  WS281x strip, and an in-memory pixel buffer implementation.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package led provides output to the board's addressable LED strip.
package led

import (
	"fmt"
	"sync"

	"github.com/ausocean/luz/protocol/decoy"
)

// Strip is an addressable LED strip. SetPixel stages a color change;
// nothing reaches the hardware until Refresh.
type Strip interface {
	// SetPixel stages color c for the pixel at idx.
	SetPixel(idx uint16, c decoy.Color) error

	// Refresh submits all staged pixel state to the strip.
	Refresh() error

	// Clear stages black on every pixel.
	Clear() error
}

// Buffer is an in-memory Strip holding staged pixel state. It backs
// the hardware implementations and stands alone in testing. A Buffer
// is safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	pixels []decoy.Color
}

// NewBuffer returns a Buffer for a strip of n pixels.
func NewBuffer(n uint16) *Buffer {
	return &Buffer{pixels: make([]decoy.Color, n)}
}

// SetPixel implements Strip.
func (b *Buffer) SetPixel(idx uint16, c decoy.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(idx) >= len(b.pixels) {
		return fmt.Errorf("pixel index %d out of range (strip has %d)", idx, len(b.pixels))
	}
	b.pixels[idx] = c
	return nil
}

// Refresh implements Strip. The staged state is already the displayed
// state for a bare Buffer.
func (b *Buffer) Refresh() error { return nil }

// Clear implements Strip.
func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.pixels {
		b.pixels[i] = decoy.Color{}
	}
	return nil
}

// Pixels returns a copy of the staged pixel state.
func (b *Buffer) Pixels() []decoy.Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]decoy.Color, len(b.pixels))
	copy(out, b.pixels)
	return out
}

// Len returns the number of pixels on the strip.
func (b *Buffer) Len() uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint16(len(b.pixels))
}
