// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smuart04l

import (
	"fmt"
	"io"

	"github.com/GermanBionicSystems/airsense/common"
)

const (
	// FrameSize is the length of a frame including header and checksum.
	FrameSize = 32
	// Header0 and Header1 start every frame.
	Header0 byte = 0x42
	Header1 byte = 0x4d
	// DefaultBaud is the only rate the sensor talks at.
	DefaultBaud = 9600

	checksumOffs = FrameSize - 2
)

// Frame is one raw record as received from the sensor, header included.
type Frame [FrameSize]byte

// NewFrame builds a well formed frame around the 28 bytes between the header
// and the checksum.
func NewFrame(body [28]byte) Frame {
	var f Frame
	f[0] = Header0
	f[1] = Header1
	copy(f[2:checksumOffs], body[:])
	sum := f.Sum()
	f[checksumOffs] = byte(sum >> 8)
	f[checksumOffs+1] = byte(sum)
	return f
}

// Sync reads a frame from r.
//
// A single byte is read and compared to Header0, then a second one is
// compared to Header1. On a mismatch the bytes are dropped and ok is false;
// the caller retries on its next cycle. When both header bytes match the 30
// remaining bytes are read.
//
// Errors from r are returned as is, a stream ending in the middle of a frame
// returns io.ErrUnexpectedEOF.
func Sync(r io.Reader) (f Frame, ok bool, err error) {
	var b [1]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return f, false, err
	}
	if b[0] != Header0 {
		return f, false, nil
	}
	if _, err = io.ReadFull(r, b[:]); err != nil {
		return f, false, err
	}
	if b[0] != Header1 {
		return f, false, nil
	}
	f[0] = Header0
	f[1] = Header1
	if _, err = io.ReadFull(r, f[2:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return f, false, err
	}
	return f, true, nil
}

// word returns the big endian 16 bit value at offset.
func (f *Frame) word(offset int) uint16 {
	return uint16(f[offset])*256 + uint16(f[offset+1])
}

// Checksum returns the checksum carried by the frame.
func (f *Frame) Checksum() uint16 {
	return f.word(checksumOffs)
}

// Sum computes the checksum of bytes 0 to 29.
func (f *Frame) Sum() uint16 {
	return common.Sum16(f[:checksumOffs])
}

// Valid reports whether the carried checksum matches the content.
func (f *Frame) Valid() bool {
	return f.Sum() == f.Checksum()
}

// Decode extracts every field of the frame. It does not check the checksum,
// call Valid first.
func (f *Frame) Decode() Reading {
	return Reading{
		FrameLength:    f.word(2),
		PM1Standard:    f.word(4),
		PM25Standard:   f.word(6),
		PM10Standard:   f.word(8),
		PM1Env:         f.word(10),
		PM25Env:        f.word(12),
		PM10Env:        f.word(14),
		Particles03um:  f.word(16),
		Particles05um:  f.word(18),
		Particles10um:  f.word(20),
		Particles25um:  f.word(22),
		Particles50um:  f.word(24),
		Particles100um: f.word(26),
		Reserved:       f.word(28),
		Checksum:       f.word(30),
	}
}

// Reading is a decoded frame. Mass concentrations are in µg/m³ and particle
// counts are per 0.1 L of air.
type Reading struct {
	FrameLength uint16

	// Concentrations using the CF=1 standard particle calibration.
	PM1Standard  uint16
	PM25Standard uint16
	PM10Standard uint16

	// Concentrations under atmospheric environment.
	PM1Env  uint16
	PM25Env uint16
	PM10Env uint16

	// Number of particles with a diameter beyond the given size.
	Particles03um  uint16
	Particles05um  uint16
	Particles10um  uint16
	Particles25um  uint16
	Particles50um  uint16
	Particles100um uint16

	Reserved uint16
	Checksum uint16
}

func (r *Reading) String() string {
	return fmt.Sprintf("PM1.0: %d µg/m³ PM2.5: %d µg/m³ PM10: %d µg/m³", r.PM1Env, r.PM25Env, r.PM10Env)
}
