// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/airsense/shtc3"
	"github.com/GermanBionicSystems/airsense/smuart04l"
)

func TestObserve(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.ObservePM(&smuart04l.Reading{PM1Standard: 10, PM25Env: 15, Particles100um: 3})
	assert.Equal(t, 10.0, testutil.ToFloat64(m.PM.WithLabelValues("1.0", "standard")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.PM.WithLabelValues("2.5", "environment")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Particles.WithLabelValues("10")))

	m.ObserveRH(&shtc3.Reading{Humidity: 40, HumidityValid: true, Temperature: 21, TemperatureValid: true})
	m.ObserveRH(&shtc3.Reading{Humidity: 99, Temperature: 22, TemperatureValid: true})
	assert.Equal(t, 40.0, testutil.ToFloat64(m.Humidity))
	assert.Equal(t, 22.0, testutil.ToFloat64(m.Temperature))

	m.Cycle(PipelinePM, ResultOK)
	m.Cycle(PipelinePM, ResultOK)
	m.Cycle(PipelineRH, ResultChecksum)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Cycles.WithLabelValues(PipelinePM, ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues(PipelineRH, ResultChecksum)))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.Cycle(PipelineRH, ResultTransport)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `airsense_cycles_total{pipeline="shtc3",result="transport"} 1`)
}
