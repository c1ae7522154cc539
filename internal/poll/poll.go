// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package poll drives the particulate matter and humidity/temperature
// pipelines. It holds no protocol logic: every cycle asks each sensor for a
// reading, keeps it when it passed its checks and keeps the previous one
// otherwise.
package poll

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GermanBionicSystems/airsense/internal/metrics"
	"github.com/GermanBionicSystems/airsense/shtc3"
	"github.com/GermanBionicSystems/airsense/smuart04l"
)

// PMSensor is the serial pipeline, implemented by *smuart04l.Dev.
type PMSensor interface {
	Sense(pm *smuart04l.Reading) error
}

// RHSensor is the bus pipeline, implemented by *shtc3.Dev.
type RHSensor interface {
	Update(r *shtc3.Reading) error
}

// Snapshot is the last accepted reading of each pipeline.
type Snapshot struct {
	PM        smuart04l.Reading `json:"pm"`
	PMValid   bool              `json:"pmValid"`
	PMUpdated time.Time         `json:"pmUpdated"`
	RH        shtc3.Reading     `json:"rh"`
	RHUpdated time.Time         `json:"rhUpdated"`
}

// Options configures a Loop. PM or RH may be nil to run a single pipeline.
type Options struct {
	PM       PMSensor
	RH       RHSensor
	Interval time.Duration
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Loop runs the poll cycles.
type Loop struct {
	opts Options
	log  *zap.Logger

	// Working buffers, only touched by the goroutine calling Cycle.
	pm smuart04l.Reading
	rh shtc3.Reading

	mu     sync.Mutex
	latest Snapshot
	now    func() time.Time
}

// New returns a Loop. Interval must be positive.
func New(opts Options) (*Loop, error) {
	if opts.Interval <= 0 {
		return nil, errors.New("poll: interval must be positive")
	}
	if opts.PM == nil && opts.RH == nil {
		return nil, errors.New("poll: no sensor")
	}
	l := &Loop{opts: opts, log: opts.Logger, now: time.Now}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l, nil
}

// Cycle runs the serial pipeline then the bus pipeline once.
func (l *Loop) Cycle() {
	if l.opts.PM != nil {
		l.cyclePM()
	}
	if l.opts.RH != nil {
		l.cycleRH()
	}
}

func (l *Loop) cyclePM() {
	err := l.opts.PM.Sense(&l.pm)
	var csErr *smuart04l.ChecksumError
	result := metrics.ResultOK
	switch {
	case err == nil:
		l.mu.Lock()
		l.latest.PM = l.pm
		l.latest.PMValid = true
		l.latest.PMUpdated = l.now()
		l.mu.Unlock()
		if l.opts.Metrics != nil {
			l.opts.Metrics.ObservePM(&l.pm)
		}
		l.log.Debug("pm reading", zap.Uint16("pm1", l.pm.PM1Env), zap.Uint16("pm25", l.pm.PM25Env), zap.Uint16("pm10", l.pm.PM10Env))
	case errors.Is(err, smuart04l.ErrNoFrame):
		result = metrics.ResultNoFrame
		l.log.Debug("pm frame not found")
	case errors.As(err, &csErr):
		result = metrics.ResultChecksum
		l.log.Debug("pm checksum failure", zap.Uint16("checksum", csErr.Checksum), zap.Uint16("sum", csErr.Sum))
	default:
		result = metrics.ResultTransport
		l.log.Warn("pm transport error", zap.Error(err))
	}
	if l.opts.Metrics != nil {
		l.opts.Metrics.Cycle(metrics.PipelinePM, result)
	}
}

func (l *Loop) cycleRH() {
	err := l.opts.RH.Update(&l.rh)
	var crcErr *shtc3.CRCError
	result := metrics.ResultOK
	accepted := true
	switch {
	case err == nil:
	case errors.As(err, &crcErr):
		// The value that passed its CRC was merged, publish it.
		result = metrics.ResultChecksum
		accepted = !crcErr.Humidity || !crcErr.Temperature
		l.log.Debug("rh crc failure", zap.Bool("humidity", crcErr.Humidity), zap.Bool("temperature", crcErr.Temperature))
	default:
		result = metrics.ResultTransport
		accepted = false
		l.log.Warn("rh transport error", zap.Error(err))
	}
	if accepted {
		l.mu.Lock()
		l.latest.RH = l.rh
		l.latest.RHUpdated = l.now()
		l.mu.Unlock()
		if l.opts.Metrics != nil {
			l.opts.Metrics.ObserveRH(&l.rh)
		}
		l.log.Debug("rh reading", zap.Float32("humidity", l.rh.Humidity), zap.Float32("temperature", l.rh.Temperature))
	}
	if l.opts.Metrics != nil {
		l.opts.Metrics.Cycle(metrics.PipelineRH, result)
	}
}

// Run calls Cycle every interval until ctx is done. A sensor blocked on its
// transport delays the whole cycle.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.opts.Interval)
	defer ticker.Stop()
	for {
		l.Cycle()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Latest returns a copy of the last accepted readings.
func (l *Loop) Latest() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

// ServeHTTP writes Latest as JSON.
func (l *Loop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(l.Latest()); err != nil {
		l.log.Warn("encoding snapshot", zap.Error(err))
	}
}
