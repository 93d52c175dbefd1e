// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the solver collectors
type Metrics struct {
	Steps         prometheus.Counter       // number of completed steps
	Relocations   prometheus.Counter       // number of particles that moved to another cell
	Orphans       prometheus.Gauge         // particles that could not be located
	ActiveNodes   prometheus.Gauge         // nodes that received mass during the last step
	StepDuration  prometheus.Histogram     // wall time of each step
	StageDuration *prometheus.HistogramVec // wall time of each stage of a step
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (o *Metrics, err error) {
	o = &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mpm_steps_total",
			Help: "Total number of completed time steps",
		}),
		Relocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mpm_relocations_total",
			Help: "Total number of particles that moved to another cell",
		}),
		Orphans: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mpm_orphan_particles",
			Help: "Number of particles that could not be located in any cell",
		}),
		ActiveNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mpm_active_nodes",
			Help: "Number of nodes that received mass during the last step",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mpm_step_duration_seconds",
			Help:    "Duration of time steps",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mpm_stage_duration_seconds",
			Help:    "Duration of the stages of a time step",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"stage"}),
	}
	if reg == nil {
		return
	}
	for _, c := range []prometheus.Collector{o.Steps, o.Relocations, o.Orphans, o.ActiveNodes, o.StepDuration, o.StageDuration} {
		if err = reg.Register(c); err != nil {
			return nil, chk.Err("cannot register metrics:\n%v", err)
		}
	}
	return
}
