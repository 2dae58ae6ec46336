/*
DESCRIPTION
  luz-send is a host-side utility that encodes a climbing problem as
  decoy wire frames and pushes them to a board over TCP or MQTT,
  optionally splitting the stream into MTU-sized fragments the way a
  BLE central would.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is a problem push utility for the decoy board.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/ausocean/luz/protocol/decoy"
)

func main() {
	var (
		addr   = flag.String("addr", "", "TCP address of the board, e.g. board.local:8571")
		broker = flag.String("broker", "", "MQTT broker URL, e.g. tcp://broker.local:1883")
		topic  = flag.String("topic", "decoy/problem", "MQTT problem topic")
		file   = flag.String("file", "", "problem file; one 'position r g b' line per hold (default stdin)")
		mtu    = flag.Int("mtu", 20, "fragment size in bytes")
		delay  = flag.Duration("delay", 10*time.Millisecond, "delay between fragments")
	)
	flag.Parse()

	if (*addr == "") == (*broker == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -addr and -broker must be given")
		os.Exit(1)
	}
	if *mtu < 6 {
		fmt.Fprintln(os.Stderr, "mtu must fit the smallest frame (6 bytes)")
		os.Exit(1)
	}

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open problem file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	placements, err := parseProblem(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not parse problem: %v\n", err)
		os.Exit(1)
	}

	frames, err := encodeProblem(placements)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not encode problem: %v\n", err)
		os.Exit(1)
	}

	send := sendTCP(*addr)
	if *broker != "" {
		send, err = sendMQTT(*broker, *topic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not connect to broker: %v\n", err)
			os.Exit(1)
		}
	}

	for _, frame := range frames {
		for off := 0; off < len(frame); off += *mtu {
			end := off + *mtu
			if end > len(frame) {
				end = len(frame)
			}
			err = send(frame[off:end])
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not send fragment: %v\n", err)
				os.Exit(1)
			}
			time.Sleep(*delay)
		}
	}
	fmt.Printf("sent %d placements in %d frames\n", len(placements), len(frames))
}

// parseProblem reads placements, one per line, as whitespace
// separated position and 8-bit color channels. Blank lines and lines
// opening with # are skipped.
func parseProblem(f *os.File) ([]decoy.Placement, error) {
	var placements []decoy.Placement
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: want 'position r g b', got %q", line, text)
		}
		var vals [4]uint64
		for i, field := range fields {
			max := uint64(255)
			if i == 0 {
				max = 1<<16 - 1
			}
			v, err := strconv.ParseUint(field, 10, 64)
			if err != nil || v > max {
				return nil, fmt.Errorf("line %d: bad field %q", line, field)
			}
			vals[i] = v
		}
		placements = append(placements, decoy.Placement{
			Position: uint16(vals[0]),
			Color:    decoy.Color{R: uint8(vals[1]), G: uint8(vals[2]), B: uint8(vals[3])},
		})
	}
	return placements, sc.Err()
}

// encodeProblem renders the placements as one solo frame, or as a
// first/middle/last sequence when they exceed the frame bound.
func encodeProblem(placements []decoy.Placement) ([][]byte, error) {
	if len(placements) <= decoy.MaxPlacements {
		frame, err := decoy.Encode(decoy.MarkerSolo, placements)
		if err != nil {
			return nil, err
		}
		return [][]byte{frame}, nil
	}

	var frames [][]byte
	for off := 0; off < len(placements); off += decoy.MaxPlacements {
		end := off + decoy.MaxPlacements
		if end > len(placements) {
			end = len(placements)
		}
		marker := decoy.MarkerMiddle
		switch {
		case off == 0:
			marker = decoy.MarkerFirst
		case end == len(placements):
			marker = decoy.MarkerLast
		}
		frame, err := decoy.Encode(marker, placements[off:end])
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// sendTCP returns a send function writing fragments to one TCP
// connection.
func sendTCP(addr string) func([]byte) error {
	var conn net.Conn
	return func(p []byte) error {
		if conn == nil {
			var err error
			conn, err = net.Dial("tcp", addr)
			if err != nil {
				return err
			}
		}
		_, err := conn.Write(p)
		return err
	}
}

// sendMQTT returns a send function publishing each fragment to the
// problem topic.
func sendMQTT(broker, topic string) (func([]byte) error, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("luz-send")
	client := paho.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("timed out connecting to broker")
	}
	if err := tok.Error(); err != nil {
		return nil, err
	}
	return func(p []byte) error {
		t := client.Publish(topic, 1, false, p)
		t.Wait()
		return t.Error()
	}, nil
}
