// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package smuart04l reads the Amphenol SM-UART-04L particulate matter sensor
// over a UART. The sensor streams 32 byte frames at 9600 8N1:
//
//	offset  field
//	0       0x42 0x4d header
//	2       frame length (28)
//	4       PM1.0 / PM2.5 / PM10 standard particle, µg/m³
//	10      PM1.0 / PM2.5 / PM10 atmospheric environment, µg/m³
//	16      particle counts >0.3, >0.5, >1.0, >2.5, >5.0, >10 µm in 0.1 L of air
//	28      reserved
//	30      checksum, sum of bytes 0 to 29
//
// All fields are big endian 16 bit words.
//
// The package does not open the serial port. Any io.Reader works, for example
// a github.com/tarm/serial port.
//
// # Datasheet
//
// https://www.amphenol-sensors.com/hubfs/Documents/AAS-916-142A-SM-UART-04L-Datasheet.pdf
package smuart04l
