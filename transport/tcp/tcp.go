/*
NAME
  tcp.go

DESCRIPTION
  tcp.go provides a TCP fragment source: a listener treating each
  read from an accepted connection as one fragment. Used on the bench
  and by hosts without a BLE radio.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tcp provides the decoy board's TCP fragment transport.
package tcp

import (
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/ausocean/luz/transport"
	"github.com/ausocean/utils/logging"
)

// Server accepts connections and forwards each read as one fragment.
// TCP does not preserve write boundaries, so a host pacing its writes
// is assumed, as it is for BLE characteristic writes; a coalesced
// read simply presents the decoder with a larger fragment.
type Server struct {
	addr string
	log  logging.Logger

	mu   sync.Mutex
	ln   net.Listener
	wg   sync.WaitGroup
	done chan struct{}
}

// NewServer returns a Server that will listen on addr.
func NewServer(addr string, l logging.Logger) *Server {
	return &Server{addr: addr, log: l}
}

// Name implements transport.Transport.
func (s *Server) Name() string { return "tcp" }

// Start implements transport.Transport.
func (s *Server) Start(h transport.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return errors.New("transport already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(err, "could not listen")
	}
	s.ln = ln
	s.done = make(chan struct{})
	s.log.Info("tcp transport listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go s.accept(ln, s.done, h)
	return nil
}

// Addr returns the bound listen address, or the configured address
// before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// accept runs the accept loop, one handling routine per connection.
func (s *Server) accept(ln net.Listener, done chan struct{}, h transport.Handler) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-done:
				return
			default:
			}
			s.log.Warning("could not accept connection", "error", err.Error())
			continue
		}
		s.log.Debug("accepted connection", "remote", conn.RemoteAddr().String())

		s.wg.Add(1)
		go s.handle(conn, done, h)
	}
}

// handle forwards reads from one connection until it closes.
func (s *Server) handle(conn net.Conn, done chan struct{}, h transport.Handler) {
	defer s.wg.Done()
	defer conn.Close()

	go func() {
		<-done
		conn.Close()
	}()

	buf := make([]byte, transport.MaxFragmentSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			h(buf[:n])
		}
		if err != nil {
			select {
			case <-done:
			default:
				s.log.Debug("connection closed", "remote", conn.RemoteAddr().String(), "error", err.Error())
			}
			return
		}
	}
}

// Stop implements transport.Transport.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	close(s.done)
	err := s.ln.Close()
	s.wg.Wait()
	s.ln = nil
	if err != nil {
		return errors.Wrap(err, "could not close listener")
	}
	return nil
}
