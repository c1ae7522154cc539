// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smuart04l

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3"
)

// Dev represents an SM-UART-04L sensor connected to a serial stream.
type Dev struct {
	r    io.Reader
	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// New returns a Dev reading frames from r. r is typically an open serial
// port configured for DefaultBaud.
func New(r io.Reader) *Dev {
	return &Dev{r: r}
}

// Sense runs one poll cycle: it looks for a frame header, validates the
// checksum and decodes the frame into pm.
//
// ErrNoFrame is returned when the header was not found and *ChecksumError
// when the frame is corrupt. pm is only written when nil is returned, so the
// previous reading is kept on any failure.
func (d *Dev) Sense(pm *Reading) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok, err := Sync(d.r)
	if err != nil {
		return fmt.Errorf("smuart04l: error reading frame %w", err)
	}
	if !ok {
		return ErrNoFrame
	}
	if !f.Valid() {
		return &ChecksumError{Checksum: f.Checksum(), Sum: f.Sum()}
	}
	*pm = f.Decode()
	return nil
}

// SenseContinuous reads frames back to back and sends every valid reading to
// the returned channel. Sync and checksum failures are skipped. The channel is
// closed after Halt, or when the stream returns an error.
//
// The sensor paces the stream, so there is no interval.
func (d *Dev) SenseContinuous() (<-chan Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("smuart04l: SenseContinuous already running")
	}
	stop := make(chan struct{})
	d.stop = stop
	ch := make(chan Reading, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		for {
			select {
			case <-stop:
				return
			default:
			}
			var pm Reading
			err := d.Sense(&pm)
			var csErr *ChecksumError
			switch {
			case err == nil:
				select {
				case ch <- pm:
				case <-stop:
					return
				}
			case errors.Is(err, ErrNoFrame), errors.As(err, &csErr):
			default:
				d.mu.Lock()
				if d.stop == stop {
					d.stop = nil
				}
				d.mu.Unlock()
				return
			}
		}
	}()
	return ch, nil
}

// Halt stops a running SenseContinuous and waits for it to return, so the
// channel is closed once Halt returns. A read already blocked on the stream
// completes first. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	d.wg.Wait()
	return nil
}

func (d *Dev) String() string {
	return "smuart04l"
}

var _ conn.Resource = &Dev{}
