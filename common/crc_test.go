// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
		{bytes: []byte{}, result: 0xff},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

func TestCheckCRC8(t *testing.T) {
	var tests = []struct {
		block []byte
		ok    bool
	}{
		{block: []byte{0xbe, 0xef, 0x92}, ok: true},
		{block: []byte{0xbe, 0xef, 0x93}, ok: false},
		{block: []byte{0xbf, 0xef, 0x92}, ok: false},
		{block: []byte{0x01, 0xa4, 0x4d}, ok: true},
		{block: []byte{0xbe, 0xef}, ok: false},
		{block: []byte{0xbe, 0xef, 0x92, 0x00}, ok: false},
		{block: nil, ok: false},
	}
	for _, test := range tests {
		if res := CheckCRC8(test.block); res != test.ok {
			t.Errorf("CheckCRC8(%#v)=%t expected %t", test.block, res, test.ok)
		}
	}
}

func TestCheckCRC8AllWords(t *testing.T) {
	// Every 16 bit word with its own CRC passes, and a flipped CRC fails.
	for w := 0; w < 1<<16; w++ {
		block := []byte{byte(w >> 8), byte(w), 0}
		block[2] = CRC8(block[:2])
		if !CheckCRC8(block) {
			t.Fatalf("CheckCRC8(%#v) failed", block)
		}
		block[2] ^= 0x01
		if CheckCRC8(block) {
			t.Fatalf("CheckCRC8(%#v) passed with a bad crc", block)
		}
	}
}

func TestSum16(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result uint16
	}{
		{bytes: nil, result: 0},
		{bytes: []byte{0x42, 0x4d}, result: 0x8f},
		{bytes: []byte{0xff, 0xff, 0xff}, result: 0x2fd},
	}
	for _, test := range tests {
		if res := Sum16(test.bytes); res != test.result {
			t.Errorf("Sum16(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}

	// 300 bytes of 0xff overflow 16 bits: 300*255 = 76500 = 0x12ad4.
	b := make([]byte, 300)
	for i := range b {
		b[i] = 0xff
	}
	if res := Sum16(b); res != 0x2ad4 {
		t.Errorf("Sum16 wraparound expected 0x2ad4 received 0x%x", res)
	}
}
