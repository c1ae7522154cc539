// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package shtc3 controls a Sensirion SHTC3 humidity and temperature sensor
// over I²C.
//
// The sensor sleeps between measurements. Every measurement wakes it up,
// issues a measure command, reads the 6 byte result and puts it back to
// sleep. The result holds two words, each followed by its own CRC-8; the two
// values are validated independently so a corrupt humidity word doesn't cost
// the temperature reading.
//
// # Datasheet
//
// https://sensirion.com/media/documents/643F9C8E/63A5A436/Datasheet_SHTC3.pdf
//
// # Accuracy
//
//	Humidity: ±2 %RH typical, 0.01 %RH resolution
//
//	Temperature: ±0.2 °C typical, 0.01 °C resolution
package shtc3
