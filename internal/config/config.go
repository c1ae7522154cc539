// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the airsense daemon configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SMUART04LConfig configures the particulate matter sensor UART.
type SMUART04LConfig struct {
	Enable bool   `mapstructure:"enable"`
	Port   string `mapstructure:"port"`
	Baud   int    `mapstructure:"baud"`
}

// SHTC3Config configures the humidity/temperature sensor.
type SHTC3Config struct {
	Enable            bool   `mapstructure:"enable"`
	Bus               string `mapstructure:"bus"`
	Address           uint16 `mapstructure:"address"`
	LowPower          bool   `mapstructure:"lowPower"`
	TemperatureFirst  bool   `mapstructure:"temperatureFirst"`
	NoClockStretching bool   `mapstructure:"noClockStretching"`
}

// PollConfig controls the poll loop.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LumberjackConfig configures the rolling log file. An empty Filename
// disables the file.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig sets the log level and outputs.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

// Config is the top level configuration.
type Config struct {
	SMUART04L SMUART04LConfig `mapstructure:"smuart04l"`
	SHTC3     SHTC3Config     `mapstructure:"shtc3"`
	Poll      PollConfig      `mapstructure:"poll"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Load reads the configuration from path, the environment and defaults, in
// increasing order of precedence: defaults, file, AIRSENSE_* variables. If
// path is empty AIRSENSE_CONFIG is used, then airsense.yaml in the working
// directory or /etc/airsense. A missing file is not an error in that case.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("AIRSENSE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/airsense")
		v.SetConfigName("airsense")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("AIRSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load can't check by type.
func (c *Config) Validate() error {
	if !c.SMUART04L.Enable && !c.SHTC3.Enable {
		return errors.New("config: no sensor enabled")
	}
	if c.SMUART04L.Enable {
		if c.SMUART04L.Port == "" {
			return errors.New("config: smuart04l.port is empty")
		}
		if c.SMUART04L.Baud <= 0 {
			return fmt.Errorf("config: invalid smuart04l.baud %d", c.SMUART04L.Baud)
		}
	}
	if c.SHTC3.Enable && (c.SHTC3.Address == 0 || c.SHTC3.Address > 0x7f) {
		return fmt.Errorf("config: invalid shtc3.address 0x%x", c.SHTC3.Address)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("config: invalid poll.interval %s", c.Poll.Interval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("smuart04l.enable", true)
	v.SetDefault("smuart04l.port", "/dev/ttyS0")
	v.SetDefault("smuart04l.baud", 9600)

	v.SetDefault("shtc3.enable", true)
	v.SetDefault("shtc3.bus", "")
	v.SetDefault("shtc3.address", 0x70)
	v.SetDefault("shtc3.lowPower", false)
	v.SetDefault("shtc3.temperatureFirst", false)
	v.SetDefault("shtc3.noClockStretching", false)

	v.SetDefault("poll.interval", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 10)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 7)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.addr", ":9100")
	v.SetDefault("metrics.path", "/metrics")
}
