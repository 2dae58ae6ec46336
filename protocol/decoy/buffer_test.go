/*
NAME
  buffer_test.go

DESCRIPTION
  buffer_test.go provides testing for the fragment buffer.

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

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBufferSize(t *testing.T) {
	var l bufferList
	if !l.empty() || l.size() != 0 {
		t.Fatal("new buffer not empty")
	}

	l.append([]byte{1, 2, 3})
	l.append([]byte{4, 5})
	l.append([]byte{6})
	if l.size() != 6 {
		t.Errorf("unexpected size: got %d, want 6", l.size())
	}

	l.popFront()
	if l.size() != 3 {
		t.Errorf("unexpected size after pop: got %d, want 3", l.size())
	}

	l.clear()
	if !l.empty() || l.size() != 0 {
		t.Error("buffer not empty after clear")
	}
}

func TestBufferOwnership(t *testing.T) {
	var l bufferList
	frag := []byte{1, 2, 3}
	l.append(frag)
	frag[0] = 0xff

	got := l.spanOf(0, 3)
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("buffer aliases caller storage: got %v", got)
	}
}

func TestBufferSpanOf(t *testing.T) {
	var l bufferList
	l.append([]byte{1, 2, 3, 4})
	l.append([]byte{5, 6})

	tests := []struct {
		start, n int
		want     []byte
	}{
		{0, 4, []byte{1, 2, 3, 4}},
		{1, 2, []byte{2, 3}},
		{4, 2, []byte{5, 6}},
		{5, 1, []byte{6}},
		{3, 2, nil}, // Straddles the segment boundary.
	}
	for i, test := range tests {
		got := l.spanOf(test.start, test.n)
		if !bytes.Equal(got, test.want) {
			t.Errorf("test %d: spanOf(%d, %d) = %v, want %v", i, test.start, test.n, got, test.want)
		}
	}
}

func TestBufferSpansOf(t *testing.T) {
	var l bufferList
	l.append([]byte{1, 2, 3, 4})
	l.append([]byte{5, 6})
	l.append([]byte{7, 8, 9})

	tests := []struct {
		start, n int
		want     [][]byte
	}{
		{0, 4, [][]byte{{1, 2, 3, 4}}},
		{3, 2, [][]byte{{4}, {5}}},
		{2, 6, [][]byte{{3, 4}, {5, 6}, {7, 8}}},
		{4, 5, [][]byte{{5, 6}, {7, 8, 9}}},
		{6, 0, nil},
	}
	for i, test := range tests {
		got := l.spansOf(test.start, test.n)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: spansOf(%d, %d) (-want +got):\n%s", i, test.start, test.n, diff)
		}
	}
}

func TestBufferPopOrder(t *testing.T) {
	var l bufferList
	l.append([]byte{1})
	l.append([]byte{2})
	l.append([]byte{3})

	for want := byte(1); want <= 3; want++ {
		got := l.spanOf(0, 1)
		if got[0] != want {
			t.Fatalf("unexpected head segment: got %d, want %d", got[0], want)
		}
		l.popFront()
	}
	if !l.empty() {
		t.Error("buffer not empty after popping all segments")
	}
}
