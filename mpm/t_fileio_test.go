// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HaichaoLee/mpm-1/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_fileio01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio01. save and read particles")

	m := newFallingBlock(tst)
	p0, _ := m.Particles.Get(0)
	require.NoError(tst, p0.AssignStress(0, []float64{-1, -2, -3, 0.5, 0, 0}))
	require.NoError(tst, p0.AssignVelocity(0, []float64{0.1, -0.2}))

	for _, enctype := range []string{"gob", "json"} {
		var buf bytes.Buffer
		require.NoError(tst, m.SaveParticles(&buf, enctype))

		// new mesh: particles are created
		other := newTestMesh(tst, "qua4", 4, 4)
		require.NoError(tst, other.ReadParticles(bytes.NewReader(buf.Bytes()), enctype))
		require.Equal(tst, 4, other.Particles.Len(), enctype)
		for i := 0; i < 4; i++ {
			p, _ := m.Particles.Get(i)
			q, ok := other.Particles.Get(i)
			require.True(tst, ok)
			assert.Equal(tst, p.Data(), q.Data(), enctype)
			assert.Nil(tst, q.Cell())
		}
		assert.Equal(tst, 0, len(other.LocateParticles()))
		q0, _ := other.Particles.Get(0)
		assert.Equal(tst, 9, q0.CellId)

		// same mesh: particles are updated
		p0.X[1] = 2.8
		require.NoError(tst, m.ReadParticles(bytes.NewReader(buf.Bytes()), enctype))
		chk.Array(tst, "x", 1e-17, p0.X, []float64{1.25, 2.05})
		require.Equal(tst, 0, len(m.LocateParticles()))
	}

	// incompatible mesh
	var buf bytes.Buffer
	require.NoError(tst, m.SaveParticles(&buf, "gob"))
	m3 := newTestMesh(tst, "hex8", 1, 1)
	assert.Error(tst, m3.ReadParticles(&buf, "gob"))
	assert.Error(tst, m3.ReadParticles(bytes.NewReader([]byte("{")), "json"))
}

func Test_fileio02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio02. analysis output files")

	sim, err := inp.SampleSim("qua4")
	require.NoError(tst, err)
	sim.DirOut = filepath.Join(tst.TempDir(), "out")
	sim.Solver.Nsteps = 3
	sim.Solver.OutEvery = 2

	reg := prometheus.NewRegistry()
	a, err := NewAnalysis(sim, reg, false)
	require.NoError(tst, err)
	require.NotNil(tst, a.Metrics)
	assert.Equal(tst, 64, a.Mesh.Particles.Len())
	assert.Equal(tst, 1, len(a.Models))
	require.NoError(tst, a.Run(context.Background()))
	chk.Float64(tst, "steps", 1e-17, testutil.ToFloat64(a.Metrics.Steps), 3)

	// initial state, step 2 and final state
	for tidx := 0; tidx < 3; tidx++ {
		_, err := os.Stat(out_par_path(sim.DirOut, sim.Key, "gob", tidx))
		assert.NoError(tst, err, "tidx=%d", tidx)
	}
	_, err = os.Stat(out_par_path(sim.DirOut, sim.Key, "gob", 3))
	assert.True(tst, os.IsNotExist(err))

	// initial state: all particles at rest with mass ρ V
	m, err := NewMesh(2, 1)
	require.NoError(tst, err)
	require.NoError(tst, m.ReadParticlesFile(sim.DirOut, sim.Key, "gob", 0))
	assert.Equal(tst, 64, m.Particles.Len())
	m.Particles.ForEach(func(p *Particle) {
		chk.Float64(tst, "mass", 1e-12, p.Mass(0), 1000*0.01/4)
		chk.Array(tst, "v", 1e-17, p.Velocity(0), []float64{0, 0})
	})

	// final state
	require.NoError(tst, m.ReadParticlesFile(sim.DirOut, sim.Key, "gob", 2))
	a.Mesh.Particles.ForEach(func(p *Particle) {
		q, ok := m.Particles.Get(p.Id)
		require.True(tst, ok)
		assert.Equal(tst, p.Data(), q.Data())
	})
	assert.Error(tst, m.ReadParticlesFile(sim.DirOut, sim.Key, "gob", 10))

	// summary
	sum, err := ReadSum(sim.DirOut, sim.Key, "gob")
	require.NoError(tst, err)
	assert.Equal(tst, 3, sum.Nout())
	chk.Ints(tst, "steps", sum.OutSteps, []int{0, 2, 3})
	dt := sim.Solver.Dt
	chk.Array(tst, "times", 1e-15, sum.OutTimes, []float64{0, 2 * dt, 3 * dt})
	assert.Equal(tst, sim.DirOut, sum.Dirout)
	assert.Equal(tst, a.Summary.OutTimes, sum.OutTimes)
	require.NoError(tst, sum.ReadParticles(m, 1))
	assert.Error(tst, sum.ReadParticles(m, 3))
	_, err = ReadSum(sim.DirOut, "nokey", "gob")
	assert.Error(tst, err)
}

func Test_fileio03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio03. summary with json encoding")

	dir := tst.TempDir()
	m := newFallingBlock(tst)
	sum := NewSummary(dir, "block", "json")
	require.NoError(tst, sum.SaveResults(m, 0, 0, false))
	require.NoError(tst, sum.SaveResults(m, 0.5, 50, false))
	require.NoError(tst, sum.Save())

	res, err := ReadSum(dir, "block", "json")
	require.NoError(tst, err)
	chk.Array(tst, "times", 1e-17, res.OutTimes, []float64{0, 0.5})
	chk.Ints(tst, "steps", res.OutSteps, []int{0, 50})
	assert.Equal(tst, "block", res.Fnkey)

	// saving more results continues the numbering
	require.NoError(tst, res.SaveResults(m, 1, 100, false))
	_, err = os.Stat(out_par_path(dir, "block", "json", 2))
	assert.NoError(tst, err)
}

func Test_fileio04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio04. resume from output")

	newSim := func(dirout string, nsteps int) *inp.Simulation {
		sim, err := inp.SampleSim("qua4")
		require.NoError(tst, err)
		sim.DirOut = dirout
		sim.Solver.Nsteps = nsteps
		sim.Solver.OutEvery = 2
		return sim
	}

	// uninterrupted run
	full, err := NewAnalysis(newSim(filepath.Join(tst.TempDir(), "full"), 6), nil, false)
	require.NoError(tst, err)
	require.NoError(tst, full.Run(context.Background()))
	chk.Ints(tst, "steps", full.Summary.OutSteps, []int{0, 2, 4, 6})

	// three steps
	dir := filepath.Join(tst.TempDir(), "part")
	a, err := NewAnalysis(newSim(dir, 3), nil, false)
	require.NoError(tst, err)
	require.NoError(tst, a.Run(context.Background()))
	chk.Ints(tst, "steps", a.Summary.OutSteps, []int{0, 2, 3})

	// continue from step 2 up to step 6
	b, err := NewAnalysis(newSim(dir, 6), nil, false)
	require.NoError(tst, err)
	assert.Error(tst, b.Resume(3))
	require.NoError(tst, b.Resume(1))
	assert.Equal(tst, 2, b.Stepper.Nsteps)
	chk.Float64(tst, "time", 1e-17, b.Stepper.Time, full.Summary.OutTimes[1])
	require.NoError(tst, b.Run(context.Background()))
	assert.Equal(tst, 6, b.Stepper.Nsteps)
	chk.Float64(tst, "time", 1e-17, b.Stepper.Time, full.Stepper.Time)
	full.Mesh.Particles.ForEach(func(p *Particle) {
		q, ok := b.Mesh.Particles.Get(p.Id)
		require.True(tst, ok)
		chk.Array(tst, "x", 1e-12, q.X, p.X)
		chk.Array(tst, "v", 1e-12, q.Velocity(0), p.Velocity(0))
		chk.Array(tst, "σ", 1e-8, q.Stress(0), p.Stress(0))
		assert.Equal(tst, p.CellId, q.CellId, "particle %d", p.Id)
	})

	// outputs after the restored one are replaced
	sum, err := ReadSum(dir, b.Sim.Key, "gob")
	require.NoError(tst, err)
	chk.Ints(tst, "steps", sum.OutSteps, []int{0, 2, 4, 6})
	chk.Array(tst, "times", 1e-17, sum.OutTimes, full.Summary.OutTimes)

	// resuming from the last output has nothing left to run
	c, err := NewAnalysis(newSim(dir, 6), nil, false)
	require.NoError(tst, err)
	require.NoError(tst, c.Resume(-1))
	require.NoError(tst, c.Run(context.Background()))
	assert.Equal(tst, 6, c.Stepper.Nsteps)
	chk.Ints(tst, "steps", c.Summary.OutSteps, []int{0, 2, 4, 6})

	// missing summary
	d, err := NewAnalysis(newSim(filepath.Join(tst.TempDir(), "none"), 6), nil, false)
	require.NoError(tst, err)
	assert.Error(tst, d.Resume(-1))
}
