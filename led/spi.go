/*
NAME
  spi.go

DESCRIPTION
  spi.go provides a WS281x strip driven over SPI: each data bit is
  expanded to a three-bit line symbol so that an SPI bus clocked at
  2.4 MHz reproduces the strip's one-wire timing.

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
	"io"

	"github.com/pkg/errors"
)

// WS281x strips latch on a quiet line; at 2.4 MHz the required 50us
// is 15 zero bytes, padded out for margin.
const latchBytes = 30

// symbols maps one data byte to its line encoding: each bit becomes
// the symbol 110 (one) or 100 (zero), so one byte expands to three.
var symbols [256][3]byte

func init() {
	for b := 0; b < 256; b++ {
		var enc uint32
		for bit := 7; bit >= 0; bit-- {
			enc <<= 3
			if b&(1<<uint(bit)) != 0 {
				enc |= 0b110
			} else {
				enc |= 0b100
			}
		}
		symbols[b] = [3]byte{byte(enc >> 16), byte(enc >> 8), byte(enc)}
	}
}

// SPIStrip drives a WS281x strip through an SPI device. Pixel state
// is staged in the embedded Buffer; Refresh writes one bit-expanded
// update of the whole strip. The strip expects its channels in GRB
// order.
type SPIStrip struct {
	*Buffer
	w   io.Writer
	out []byte
}

// NewSPIStrip returns an SPIStrip of n pixels writing to w, typically
// an opened spidev node.
func NewSPIStrip(w io.Writer, n uint16) *SPIStrip {
	return &SPIStrip{
		Buffer: NewBuffer(n),
		w:      w,
		out:    make([]byte, 0, int(n)*9+latchBytes),
	}
}

// Refresh implements Strip, submitting the staged state to the bus.
func (s *SPIStrip) Refresh() error {
	s.out = s.out[:0]
	for _, c := range s.Pixels() {
		for _, b := range [3]uint8{c.G, c.R, c.B} {
			enc := symbols[b]
			s.out = append(s.out, enc[0], enc[1], enc[2])
		}
	}
	for i := 0; i < latchBytes; i++ {
		s.out = append(s.out, 0)
	}

	_, err := s.w.Write(s.out)
	if err != nil {
		return errors.Wrap(err, "could not write strip update")
	}
	return nil
}
