/*
NAME
  rig.go

DESCRIPTION
  rig.go provides the Rig type, which ties a decoy board together:
  transports feed fragments through a pool buffer into the protocol
  decoder, and decoded problems are joined and displayed on the LED
  strip.

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

// Package rig provides the decoy board service: it owns the protocol
// decoder, the LED strip and the configured transports, and runs the
// decode loop between them.
package rig

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/luz/board"
	"github.com/ausocean/luz/led"
	"github.com/ausocean/luz/protocol/decoy"
	"github.com/ausocean/luz/rig/config"
	"github.com/ausocean/luz/transport"
	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

// Pool buffer read timeout for the decode loop; bounds the latency of
// noticing Stop.
const poolReadTimeout = 1 * time.Second

// Failure indicator timing.
const (
	failureFlashOn  = 100 * time.Millisecond
	failureFlashOff = 100 * time.Millisecond
)

// Red on the failure indicator.
var failureColor = decoy.Color{R: 255}

// Rig is one decoy board service instance.
type Rig struct {
	cfg        config.Config
	log        logging.Logger
	dec        *decoy.Decoder
	strip      led.Strip
	transports []transport.Transport

	// frags carries fragments from transport goroutines to the decode
	// loop, one fragment per chunk, preserving transport write
	// boundaries.
	frags *pool.Buffer

	// problem accumulates placements across a first/middle/last frame
	// sequence; joining is keyed on the frame index markers.
	problem []decoy.Placement
	joining bool

	err     chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New returns a Rig using the given strip and transports, configured
// by c. The configuration is validated here.
func New(c config.Config, strip led.Strip, transports ...transport.Transport) (*Rig, error) {
	err := c.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "could not validate config")
	}
	if len(transports) == 0 {
		return nil, errors.New("no transports provided")
	}

	r := &Rig{
		cfg:        c,
		log:        c.Logger,
		dec:        decoy.NewDecoder(c.Logger),
		strip:      strip,
		transports: transports,
		frags:      pool.NewBuffer(c.PoolElements, c.PoolElementSize, time.Duration(c.WriteTimeout)),
		err:        make(chan error),
	}
	go r.handleErrors()
	return r, nil
}

// handleErrors logs errors from the rig's routines.
func (r *Rig) handleErrors() {
	for err := range r.err {
		if err != nil {
			r.log.Error("async error", "error", err.Error())
		}
	}
}

// Start starts the configured transports and the decode loop.
func (r *Rig) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return errors.New("rig already running")
	}

	for i, t := range r.transports {
		err := t.Start(r.queue)
		if err != nil {
			for _, started := range r.transports[:i] {
				started.Stop()
			}
			return errors.Wrapf(err, "could not start %s transport", t.Name())
		}
		r.log.Info("transport started", "transport", t.Name())
	}

	r.done = make(chan struct{})
	r.wg.Add(1)
	go r.decodeLoop()
	r.running = true
	r.log.Info("rig started")
	return nil
}

// queue delivers one fragment from a transport to the decode loop.
// Fragments are dropped, not blocked on, when the queue stays full
// past the configured timeout; the host re-sends problems that do not
// take effect.
func (r *Rig) queue(fragment []byte) {
	_, err := r.frags.Write(fragment)
	if err != nil {
		r.log.Warning("dropping fragment", "error", err.Error(), "size", len(fragment))
		return
	}
	r.frags.Flush()
}

// decodeLoop pops fragments off the pool buffer and feeds them to the
// protocol decoder, displaying each completed problem.
func (r *Rig) decodeLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			r.log.Info("terminating decode loop")
			return
		default:
			chunk, err := r.frags.Next(poolReadTimeout)
			switch err {
			case nil:
			case pool.ErrTimeout:
				continue
			default:
				r.err <- errors.Wrap(err, "could not read fragment from pool buffer")
				continue
			}

			pkt, done := r.dec.Process(chunk.Bytes())
			chunk.Close()
			if done {
				r.handlePacket(pkt)
			}
		}
	}
}

// handlePacket joins decoded frames into whole problems according to
// their index markers and displays completed problems. A solo frame
// is a whole problem; a first frame opens a sequence that middle
// frames extend and a last frame completes. Frames arriving out of
// sequence reset the join.
func (r *Rig) handlePacket(pkt *decoy.Packet) {
	switch pkt.Marker {
	case decoy.MarkerSolo:
		r.problem = append(r.problem[:0], pkt.Placements...)
		r.joining = false
		r.display(r.problem)
	case decoy.MarkerFirst:
		r.problem = append(r.problem[:0], pkt.Placements...)
		r.joining = true
	case decoy.MarkerMiddle:
		if !r.joining {
			r.log.Warning("middle frame with no sequence open; dropping")
			return
		}
		r.problem = append(r.problem, pkt.Placements...)
	case decoy.MarkerLast:
		if !r.joining {
			r.log.Warning("last frame with no sequence open; dropping")
			return
		}
		r.problem = append(r.problem, pkt.Placements...)
		r.joining = false
		r.display(r.problem)
	}
}

// display maps a problem's placements onto strip pixels and refreshes
// the strip. A placement with no corresponding pixel aborts the
// display and flashes the failure indicator.
func (r *Rig) display(problem []decoy.Placement) {
	err := r.strip.Clear()
	if err != nil {
		r.err <- errors.Wrap(err, "could not clear strip")
		return
	}

	for _, p := range problem {
		pixel, ok := board.PixelFor(p.Position)
		if !ok {
			r.log.Error("placement position has no pixel", "position", p.Position)
			r.indicateFailure()
			return
		}
		r.log.Debug("setting placement", "position", p.Position, "pixel", pixel,
			"r", p.Color.R, "g", p.Color.G, "b", p.Color.B)
		err = r.strip.SetPixel(pixel, p.Color)
		if err != nil {
			r.err <- errors.Wrap(err, "could not set pixel")
			return
		}
	}

	err = r.strip.Refresh()
	if err != nil {
		r.err <- errors.Wrap(err, "could not refresh strip")
		return
	}
	r.log.Info("problem displayed", "placements", len(problem))
}

// indicateFailure flashes every tenth pixel red for the configured
// number of cycles, then blanks the strip.
func (r *Rig) indicateFailure() {
	pattern := board.FailurePattern()
	for i := 0; i < r.cfg.FailureCycles; i++ {
		r.strip.Clear()
		r.strip.Refresh()
		select {
		case <-r.done:
			return
		case <-time.After(failureFlashOff):
		}

		for _, pixel := range pattern {
			err := r.strip.SetPixel(pixel, failureColor)
			if err != nil {
				r.err <- errors.Wrap(err, "could not set failure pixel")
				return
			}
		}
		r.strip.Refresh()
		select {
		case <-r.done:
			return
		case <-time.After(failureFlashOn):
		}
	}
	r.strip.Clear()
	r.strip.Refresh()
}

// Stop stops the transports and the decode loop. Buffered stream
// state is discarded; a problem in flight must be re-sent.
func (r *Rig) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}

	var firstErr error
	for _, t := range r.transports {
		err := t.Stop()
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "could not stop %s transport", t.Name())
		}
	}

	close(r.done)
	r.wg.Wait()
	r.dec.Clear()
	r.running = false
	r.log.Info("rig stopped")
	return firstErr
}
