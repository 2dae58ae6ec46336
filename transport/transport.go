/*
NAME
  transport.go

DESCRIPTION
  transport.go defines the interface implemented by the fragment
  sources feeding the decoy protocol decoder.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package transport defines fragment sources for the decoy board.
// A transport delivers each host write as one opaque fragment; frame
// reassembly and validation belong to the protocol decoder.
package transport

// MaxFragmentSize bounds one delivered fragment. The largest frame is
// 260 bytes, so any transport MTU of interest fits.
const MaxFragmentSize = 512

// Handler receives one fragment per transport write. The fragment is
// only valid for the duration of the call; the receiver copies what
// it retains.
type Handler func(fragment []byte)

// Transport is a source of problem fragments.
type Transport interface {
	// Name identifies the transport in logs.
	Name() string

	// Start begins delivery of fragments to h. It does not block.
	Start(h Handler) error

	// Stop ceases delivery and releases the transport's resources.
	// No calls to the handler are made after Stop returns.
	Stop() error
}
