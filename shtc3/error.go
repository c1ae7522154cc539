// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shtc3

import "errors"

// CRCError is returned when one or both words of a measurement fail their
// CRC. The values that passed are still delivered.
type CRCError struct {
	Humidity    bool
	Temperature bool
}

func (e *CRCError) Error() string {
	switch {
	case e.Humidity && e.Temperature:
		return "shtc3: humidity and temperature crc error"
	case e.Humidity:
		return "shtc3: humidity crc error"
	default:
		return "shtc3: temperature crc error"
	}
}

var errTiming = errors.New("shtc3: timing must satisfy Wake >= Measure >= Read >= 0")
