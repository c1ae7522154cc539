// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smuart04l

import (
	"errors"
	"fmt"
)

// ErrNoFrame is returned when no frame header was found in this cycle. The
// next call resumes the search.
var ErrNoFrame = errors.New("smuart04l: frame header not found")

// ChecksumError is returned when a frame was received but its checksum does
// not match its content.
type ChecksumError struct {
	// Checksum is the value carried in bytes 30-31 of the frame.
	Checksum uint16
	// Sum is the value computed over bytes 0-29.
	Sum uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("smuart04l: checksum mismatch, frame carries 0x%04x computed 0x%04x", e.Checksum, e.Sum)
}
