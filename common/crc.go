// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the checksum functions shared by the sensor
// drivers: the Sensirion CRC-8 used on the I²C bus, and the additive 16-bit
// sum used by the particulate matter UART frames.
package common

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. Polynomial x^8+x^5+x^4+1 (0x31), seed 0xff, no
// reflection and no final xor. CRC bytes are used in sensors from TI and
// Sensirion.
func CRC8(bytes []byte) byte {
	var crc byte = 0xff
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x31)
			}
		}
	}
	return crc
}

// CheckCRC8 verifies a 3 byte block made of 2 data bytes followed by their
// CRC. Any other length fails.
func CheckCRC8(block []byte) bool {
	if len(block) != 3 {
		return false
	}
	return CRC8(block[:2]) == block[2]
}

// Sum16 returns the unsigned sum of bytes, wrapping at 2^16.
func Sum16(bytes []byte) uint16 {
	var sum uint16
	for _, val := range bytes {
		sum += uint16(val)
	}
	return sum
}
