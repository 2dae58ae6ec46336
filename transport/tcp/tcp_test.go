/*
NAME
  tcp_test.go

DESCRIPTION
  tcp_test.go provides testing for the TCP fragment transport.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tcp

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
)

func TestServerDeliversFragments(t *testing.T) {
	s := NewServer("127.0.0.1:0", logging.New(logging.Info, io.Discard, true))

	var (
		mu  sync.Mutex
		got []byte
	)
	err := s.Start(func(fragment []byte) {
		mu.Lock()
		got = append(got, fragment...)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("could not start server: %v", err)
	}
	defer s.Stop()

	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatalf("could not dial server: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	_, err = conn.Write(want)
	if err != nil {
		t.Fatalf("could not write: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := bytes.Equal(got, want)
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			mu.Lock()
			t.Fatalf("fragments not delivered: got %x, want %x", got, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServerStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", logging.New(logging.Info, io.Discard, true))
	err := s.Start(func([]byte) {})
	if err != nil {
		t.Fatalf("could not start server: %v", err)
	}
	addr := s.Addr()
	err = s.Stop()
	if err != nil {
		t.Fatalf("could not stop server: %v", err)
	}

	_, err = net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err == nil {
		t.Error("listener still accepting after Stop")
	}

	// A stopped server may be started again.
	err = s.Start(func([]byte) {})
	if err != nil {
		t.Fatalf("could not restart server: %v", err)
	}
	s.Stop()
}
