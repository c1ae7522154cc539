// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shtc3

import "fmt"

// Command is a 16 bit command word, sent MSB first.
type Command uint16

const (
	CmdReset  Command = 0x805d
	CmdReadID Command = 0xefc8
	CmdWake   Command = 0x3517
	CmdSleep  Command = 0xb098

	// Measure commands. The name gives the value read first, then the power
	// mode and whether the sensor stretches the clock until the result is
	// ready.
	CmdMeasureTNormalStretch    Command = 0x7ca2
	CmdMeasureRHNormalStretch   Command = 0x5c24
	CmdMeasureTNormal           Command = 0x7866
	CmdMeasureRHNormal          Command = 0x58e0
	CmdMeasureTLowPowerStretch  Command = 0x6458
	CmdMeasureRHLowPowerStretch Command = 0x44de
	CmdMeasureTLowPower         Command = 0x609c
	CmdMeasureRHLowPower        Command = 0x401a
)

var commandNames = map[Command]string{
	CmdReset:                    "reset",
	CmdReadID:                   "read-id",
	CmdWake:                     "wake",
	CmdSleep:                    "sleep",
	CmdMeasureTNormalStretch:    "measure-t-normal-stretch",
	CmdMeasureRHNormalStretch:   "measure-rh-normal-stretch",
	CmdMeasureTNormal:           "measure-t-normal",
	CmdMeasureRHNormal:          "measure-rh-normal",
	CmdMeasureTLowPowerStretch:  "measure-t-lowpower-stretch",
	CmdMeasureRHLowPowerStretch: "measure-rh-lowpower-stretch",
	CmdMeasureTLowPower:         "measure-t-lowpower",
	CmdMeasureRHLowPower:        "measure-rh-lowpower",
}

// Bytes returns the command as written on the bus.
func (c Command) Bytes() []byte {
	return []byte{byte(c >> 8), byte(c)}
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(0x%04x)", uint16(c))
}

// Mode selects the measure command variant. The zero value is normal power,
// humidity first, with clock stretching.
type Mode struct {
	// LowPower trades repeatability for a shorter, lower power measurement.
	LowPower bool
	// TemperatureFirst returns the temperature word before the humidity word.
	TemperatureFirst bool
	// NoClockStretching makes the sensor NACK reads until the result is
	// ready instead of holding the clock line.
	NoClockStretching bool
}

// MeasureCommand returns the measure command for mode.
func MeasureCommand(mode Mode) Command {
	switch {
	case !mode.LowPower && mode.TemperatureFirst && !mode.NoClockStretching:
		return CmdMeasureTNormalStretch
	case !mode.LowPower && !mode.TemperatureFirst && !mode.NoClockStretching:
		return CmdMeasureRHNormalStretch
	case !mode.LowPower && mode.TemperatureFirst:
		return CmdMeasureTNormal
	case !mode.LowPower:
		return CmdMeasureRHNormal
	case mode.TemperatureFirst && !mode.NoClockStretching:
		return CmdMeasureTLowPowerStretch
	case !mode.TemperatureFirst && !mode.NoClockStretching:
		return CmdMeasureRHLowPowerStretch
	case mode.TemperatureFirst:
		return CmdMeasureTLowPower
	default:
		return CmdMeasureRHLowPower
	}
}
