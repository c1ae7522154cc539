// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airsense is a container for the air quality sensor drivers and the
// airsense daemon.
//
// smuart04l reads particulate matter frames from a UART, shtc3 measures
// humidity and temperature over I²C, and cmd/airsense polls both and exports
// the readings.
package airsense
