// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package metrics exports the sensor readings and poll results to
// Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GermanBionicSystems/airsense/shtc3"
	"github.com/GermanBionicSystems/airsense/smuart04l"
)

// Pipeline names used as label values.
const (
	PipelinePM = "smuart04l"
	PipelineRH = "shtc3"
)

// Cycle results used as label values.
const (
	ResultOK        = "ok"
	ResultNoFrame   = "no_frame"
	ResultChecksum  = "checksum"
	ResultTransport = "transport"
)

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics holds the airsense collectors.
type Metrics struct {
	PM          *prometheus.GaugeVec // labels: size, calibration
	Particles   *prometheus.GaugeVec // labels: size
	Humidity    prometheus.Gauge
	Temperature prometheus.Gauge
	Cycles      *prometheus.CounterVec // labels: pipeline, result
}

// New registers and returns the airsense collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PM: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "airsense_pm_ugm3",
			Help: "Particulate matter mass concentration in µg/m³.",
		}, []string{"size", "calibration"}),
		Particles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "airsense_particles_per_decilitre",
			Help: "Particles beyond the given diameter in 0.1 L of air.",
		}, []string{"size"}),
		Humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airsense_humidity_percent",
			Help: "Relative humidity in %RH.",
		}),
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "airsense_temperature_celsius",
			Help: "Temperature in °C.",
		}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airsense_cycles_total",
			Help: "Poll cycles by pipeline and result.",
		}, []string{"pipeline", "result"}),
	}
	reg.MustRegister(m.PM, m.Particles, m.Humidity, m.Temperature, m.Cycles)
	return m
}

// ObservePM publishes a decoded particulate matter frame.
func (m *Metrics) ObservePM(r *smuart04l.Reading) {
	m.PM.WithLabelValues("1.0", "standard").Set(float64(r.PM1Standard))
	m.PM.WithLabelValues("2.5", "standard").Set(float64(r.PM25Standard))
	m.PM.WithLabelValues("10", "standard").Set(float64(r.PM10Standard))
	m.PM.WithLabelValues("1.0", "environment").Set(float64(r.PM1Env))
	m.PM.WithLabelValues("2.5", "environment").Set(float64(r.PM25Env))
	m.PM.WithLabelValues("10", "environment").Set(float64(r.PM10Env))

	m.Particles.WithLabelValues("0.3").Set(float64(r.Particles03um))
	m.Particles.WithLabelValues("0.5").Set(float64(r.Particles05um))
	m.Particles.WithLabelValues("1.0").Set(float64(r.Particles10um))
	m.Particles.WithLabelValues("2.5").Set(float64(r.Particles25um))
	m.Particles.WithLabelValues("5.0").Set(float64(r.Particles50um))
	m.Particles.WithLabelValues("10").Set(float64(r.Particles100um))
}

// ObserveRH publishes the valid values of a humidity/temperature reading.
func (m *Metrics) ObserveRH(r *shtc3.Reading) {
	if r.HumidityValid {
		m.Humidity.Set(float64(r.Humidity))
	}
	if r.TemperatureValid {
		m.Temperature.Set(float64(r.Temperature))
	}
}

// Cycle counts one poll cycle result.
func (m *Metrics) Cycle(pipeline, result string) {
	m.Cycles.WithLabelValues(pipeline, result).Inc()
}
