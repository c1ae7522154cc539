// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// airsense polls an SM-UART-04L particulate matter sensor and an SHTC3
// humidity/temperature sensor, and exports the readings over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tarm/serial"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/airsense/internal/config"
	"github.com/GermanBionicSystems/airsense/internal/logging"
	"github.com/GermanBionicSystems/airsense/internal/metrics"
	"github.com/GermanBionicSystems/airsense/internal/poll"
	"github.com/GermanBionicSystems/airsense/shtc3"
	"github.com/GermanBionicSystems/airsense/smuart04l"
)

func main() {
	path := flag.String("config", "", "configuration file")
	flag.Parse()

	if err := mainImpl(*path); err != nil {
		fmt.Fprintf(os.Stderr, "airsense: %s.\n", err)
		os.Exit(1)
	}
}

func mainImpl(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	opts := poll.Options{Interval: cfg.Poll.Interval, Logger: logger}

	if cfg.SMUART04L.Enable {
		// No read timeout: a stalled sensor stalls the cycle instead of
		// looking like a missing frame.
		port, err := serial.OpenPort(&serial.Config{Name: cfg.SMUART04L.Port, Baud: cfg.SMUART04L.Baud})
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.SMUART04L.Port, err)
		}
		defer port.Close()
		opts.PM = smuart04l.New(port)
		logger.Info("smuart04l enabled", zap.String("port", cfg.SMUART04L.Port), zap.Int("baud", cfg.SMUART04L.Baud))
	}

	if cfg.SHTC3.Enable {
		bus, err := i2creg.Open(cfg.SHTC3.Bus)
		if err != nil {
			return fmt.Errorf("open i2c bus %q: %w", cfg.SHTC3.Bus, err)
		}
		defer bus.Close()
		devOpts := shtc3.DefaultOpts
		devOpts.Mode = shtc3.Mode{
			LowPower:          cfg.SHTC3.LowPower,
			TemperatureFirst:  cfg.SHTC3.TemperatureFirst,
			NoClockStretching: cfg.SHTC3.NoClockStretching,
		}
		dev, err := shtc3.NewI2C(bus, i2c.Addr(cfg.SHTC3.Address), &devOpts)
		if err != nil {
			return err
		}
		if id, err := dev.ID(); err != nil {
			logger.Warn("shtc3 id", zap.Error(err))
		} else {
			logger.Info("shtc3 enabled", zap.String("bus", bus.String()), zap.Uint16("id", id))
		}
		opts.RH = dev
	}

	mux := http.NewServeMux()
	if cfg.Metrics.Enable {
		reg := metrics.NewRegistry()
		opts.Metrics = metrics.New(reg)
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
	}
	loop, err := poll.New(opts)
	if err != nil {
		return err
	}
	mux.Handle("/readings", loop)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
		}
	}()
	logger.Info("polling", zap.Duration("interval", cfg.Poll.Interval), zap.String("addr", cfg.Metrics.Addr))

	loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	snap := loop.Latest()
	logger.Info("stopped", zap.Stringer("pm", &snap.PM), zap.Stringer("rh", &snap.RH))
	return nil
}
