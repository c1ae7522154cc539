// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smuart04l

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSense(t *testing.T) {
	var body [28]byte
	body[1] = 28
	body[9] = 7
	body[11] = 11
	body[13] = 13
	good := NewFrame(body)
	bad := good
	bad[12] = 0xff

	var stream []byte
	stream = append(stream, 0x11)
	stream = append(stream, good[:]...)
	stream = append(stream, bad[:]...)
	dev := New(bytes.NewReader(stream))

	pm := Reading{PM25Env: 99}
	if err := dev.Sense(&pm); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Sense() on garbage returned %v expected ErrNoFrame", err)
	}
	if pm.PM25Env != 99 {
		t.Errorf("reading altered after sync failure: %#v", pm)
	}

	if err := dev.Sense(&pm); err != nil {
		t.Fatal(err)
	}
	expected := good.Decode()
	if diff := cmp.Diff(expected, pm); diff != "" {
		t.Errorf("Sense() mismatch (-want +got):\n%s", diff)
	}
	if pm.PM1Env != 7 || pm.PM25Env != 11 || pm.PM10Env != 13 {
		t.Errorf("unexpected environment values %s", pm.String())
	}

	err := dev.Sense(&pm)
	var csErr *ChecksumError
	if !errors.As(err, &csErr) {
		t.Fatalf("Sense() on corrupt frame returned %v expected ChecksumError", err)
	}
	if csErr.Checksum != good.Checksum() || csErr.Sum != bad.Sum() {
		t.Errorf("unexpected checksum error %#v", csErr)
	}
	if diff := cmp.Diff(expected, pm); diff != "" {
		t.Errorf("reading altered after checksum failure (-want +got):\n%s", diff)
	}

	if err := dev.Sense(&pm); !errors.Is(err, io.EOF) {
		t.Errorf("Sense() at end of stream returned %v expected EOF", err)
	}
}

func TestSenseContinuous(t *testing.T) {
	var stream []byte
	for i := range 5 {
		var body [28]byte
		body[1] = 28
		body[13] = byte(i)
		f := NewFrame(body)
		if i == 2 {
			f[30] ^= 0xff
		}
		// Garbage and a false start in front of every frame.
		stream = append(stream, 0x00, 0x42, 0x00)
		stream = append(stream, f[:]...)
	}
	dev := New(bytes.NewReader(stream))
	ch, err := dev.SenseContinuous()
	if err != nil {
		t.Fatal(err)
	}
	var got []uint16
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case pm, ok := <-ch:
			if !ok {
				done = true
				break
			}
			got = append(got, pm.PM10Env)
		case <-timeout:
			t.Fatal("timed out")
		}
	}
	if diff := cmp.Diff([]uint16{0, 1, 3, 4}, got); diff != "" {
		t.Errorf("SenseContinuous() mismatch (-want +got):\n%s", diff)
	}
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
}

// blockingReader returns frames forever.
type blockingReader struct {
	f   Frame
	pos int
}

func (b *blockingReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		p[n] = b.f[b.pos]
		b.pos = (b.pos + 1) % FrameSize
		n++
	}
	return n, nil
}

func TestHalt(t *testing.T) {
	dev := New(&blockingReader{f: NewFrame([28]byte{})})
	ch, err := dev.SenseContinuous()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.SenseContinuous(); err == nil {
		t.Error("expected an error for attempting concurrent SenseContinuous")
	}
	<-ch
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	// The goroutine is gone: buffered readings drain and the channel is closed.
	for open := true; open; {
		select {
		case _, open = <-ch:
		default:
			t.Fatal("channel still open after Halt returned")
		}
	}
	if _, err := dev.SenseContinuous(); err != nil {
		t.Errorf("SenseContinuous() after Halt: %v", err)
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if s := dev.String(); s != "smuart04l" {
		t.Errorf("String()=%q", s)
	}
}
