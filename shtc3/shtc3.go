// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shtc3

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/airsense/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the only address of the SHTC3.
const DefaultAddress i2c.Addr = 0x70

// ResponseSize is the length of a measurement result.
const ResponseSize = 6

const (
	countDivisor = float32(65536)

	// ID register bits identifying an SHTC3.
	idMask  = 0x083f
	idValue = 0x0807
)

// Delayer waits for the given duration. It replaces the busy loops of a
// bare metal implementation, tests substitute a recorder.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to a Delayer.
type DelayFunc func(d time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// Timing holds the settling delays of a measurement sequence.
type Timing struct {
	// Wake is waited after the wake-up command.
	Wake time.Duration
	// Measure is waited after the measure command, before the read.
	Measure time.Duration
	// Read is waited after the read, before the sleep command.
	Read time.Duration
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Mode selects the measure command.
	Mode Mode
	// Timing must satisfy Wake >= Measure >= Read.
	Timing Timing
	// Delayer implements the settling delays. nil means time.Sleep.
	Delayer Delayer
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Timing: Timing{
		Wake:    15 * time.Millisecond,
		Measure: 13 * time.Millisecond,
		Read:    time.Millisecond,
	},
	Delayer: DelayFunc(time.Sleep),
}

// Response is the raw result of a measure command: two 3 byte sub-blocks of
// a big endian word followed by its CRC-8.
type Response [ResponseSize]byte

// Primary returns the sub-block read first.
func (r *Response) Primary() []byte {
	return r[0:3]
}

// Secondary returns the sub-block read second.
func (r *Response) Secondary() []byte {
	return r[3:6]
}

// Reading is a humidity and temperature pair. Each value is only meaningful
// when its Valid flag is set.
type Reading struct {
	// Humidity in %RH.
	Humidity      float32
	HumidityValid bool
	// Temperature in °C.
	Temperature      float32
	TemperatureValid bool
}

// Merge copies the values of src that passed their CRC into r. The other
// values of r are left as they were.
func (r *Reading) Merge(src Reading) {
	if src.HumidityValid {
		r.Humidity = src.Humidity
		r.HumidityValid = true
	}
	if src.TemperatureValid {
		r.Temperature = src.Temperature
		r.TemperatureValid = true
	}
}

// Env returns the reading in periph units. Invalid values are zero.
func (r *Reading) Env() physic.Env {
	var e physic.Env
	if r.HumidityValid {
		e.Humidity = physic.RelativeHumidity(float64(r.Humidity) * float64(physic.PercentRH))
	}
	if r.TemperatureValid {
		e.Temperature = physic.Temperature(float64(r.Temperature)*float64(physic.Kelvin)) + physic.ZeroCelsius
	}
	return e
}

func (r *Reading) String() string {
	return fmt.Sprintf("Temperature: %.2f°C Humidity: %.2f%%rH", r.Temperature, r.Humidity)
}

// CountToHumidity converts a raw humidity word to %RH.
func CountToHumidity(count uint16) float32 {
	// RH=100*count/2^16
	return 100 * float32(count) / countDivisor
}

// CountToTemperature converts a raw temperature word to °C.
func CountToTemperature(count uint16) float32 {
	// T=-45+175*count/2^16
	return 175*float32(count)/countDivisor - 45
}

// Decode validates both sub-blocks of resp and converts the ones that pass.
// mode tells which sub-block holds which value.
func Decode(resp Response, mode Mode) Reading {
	rh, t := resp.Primary(), resp.Secondary()
	if mode.TemperatureFirst {
		rh, t = t, rh
	}
	var r Reading
	if common.CheckCRC8(rh) {
		r.Humidity = CountToHumidity(uint16(rh[0])<<8 | uint16(rh[1]))
		r.HumidityValid = true
	}
	if common.CheckCRC8(t) {
		r.Temperature = CountToTemperature(uint16(t[0])<<8 | uint16(t[1]))
		r.TemperatureValid = true
	}
	return r
}

// Dev represents an SHTC3 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns a Dev on bus b. opts can be nil for DefaultOpts. The sensor
// isn't accessed.
func NewI2C(b i2c.Bus, addr i2c.Addr, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Delayer == nil {
		o.Delayer = DelayFunc(time.Sleep)
	}
	tm := o.Timing
	if tm.Read < 0 || tm.Measure < tm.Read || tm.Wake < tm.Measure {
		return nil, errTiming
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: uint16(addr)}, opts: o}, nil
}

func (d *Dev) write(cmd Command) error {
	if err := d.d.Tx(cmd.Bytes(), nil); err != nil {
		return fmt.Errorf("shtc3: error sending %s %w", cmd, err)
	}
	return nil
}

// awake wakes the sensor up, runs fn and puts the sensor back to sleep. The
// sleep command is sent whatever happened before it. The caller holds d.mu.
func (d *Dev) awake(fn func() error) error {
	err := d.write(CmdWake)
	if err == nil {
		d.opts.Delayer.Delay(d.opts.Timing.Wake)
		err = fn()
	}
	if serr := d.write(CmdSleep); serr != nil {
		err = errors.Join(err, serr)
	}
	return err
}

// Measure runs a full measurement sequence and returns the raw response
// without checking it: wake, measure, read 6 bytes, sleep. The bus device
// is held for the whole sequence.
func (d *Dev) Measure() (Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var resp Response
	err := d.awake(func() error {
		if err := d.write(MeasureCommand(d.opts.Mode)); err != nil {
			return err
		}
		d.opts.Delayer.Delay(d.opts.Timing.Measure)
		if err := d.d.Tx(nil, resp[:]); err != nil {
			return fmt.Errorf("shtc3: error reading %w", err)
		}
		d.opts.Delayer.Delay(d.opts.Timing.Read)
		return nil
	})
	return resp, err
}

// Update runs a measurement and merges the values that pass their CRC into
// r. A *CRCError names the values that were left unchanged.
func (d *Dev) Update(r *Reading) error {
	resp, err := d.Measure()
	if err != nil {
		return err
	}
	cur := Decode(resp, d.opts.Mode)
	r.Merge(cur)
	if !cur.HumidityValid || !cur.TemperatureValid {
		return &CRCError{Humidity: !cur.HumidityValid, Temperature: !cur.TemperatureValid}
	}
	return nil
}

// Sense reads temperature and humidity from the device. Implements
// physic.SenseEnv. On a *CRCError the value that passed is still written to
// e.
func (d *Dev) Sense(e *physic.Env) error {
	var r Reading
	err := d.Update(&r)
	env := r.Env()
	e.Pressure = 0
	if r.HumidityValid {
		e.Humidity = env.Humidity
	}
	if r.TemperatureValid {
		e.Temperature = env.Temperature
	}
	return err
}

// minSampleDuration returns the time a complete sequence waits.
func (d *Dev) minSampleDuration() time.Duration {
	t := d.opts.Timing
	return t.Wake + t.Measure + t.Read
}

// SenseContinuous measures every interval and sends the complete readings to
// the returned channel. Call Halt to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("shtc3: SenseContinuous already running")
	}
	if interval < d.minSampleDuration() {
		return nil, errors.New("shtc3: sample interval is < device sample rate")
	}
	stop := make(chan struct{})
	d.stop = stop
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err == nil {
					select {
					case ch <- e:
					case <-stop:
						return
					}
				}
			}
		}
	}()
	return ch, nil
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Reset issues a soft reset. The sensor is woken up first and sent back to
// sleep afterwards.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awake(func() error {
		if err := d.write(CmdReset); err != nil {
			return err
		}
		d.opts.Delayer.Delay(d.opts.Timing.Wake)
		return nil
	})
}

// ID reads the ID register. An error is returned on a CRC mismatch or when
// the register doesn't identify an SHTC3.
func (d *Dev) ID() (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var r [3]byte
	err := d.awake(func() error {
		if err := d.d.Tx(CmdReadID.Bytes(), r[:]); err != nil {
			return fmt.Errorf("shtc3: error reading id %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !common.CheckCRC8(r[:]) {
		return 0, errors.New("shtc3: id crc error")
	}
	id := uint16(r[0])<<8 | uint16(r[1])
	if id&idMask != idValue {
		return id, fmt.Errorf("shtc3: unexpected id 0x%04x", id)
	}
	return id, nil
}

// Precision returns the smallest change in readings the device can produce.
// Implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Kelvin / 100
	e.Humidity = physic.PercentRH / 100
	e.Pressure = 0
}

func (d *Dev) String() string {
	return "shtc3"
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
