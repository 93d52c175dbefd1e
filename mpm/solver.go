// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"context"
	"runtime"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"golang.org/x/sync/errgroup"
)

// Stepper runs the explicit update-stress-first (USF) time loop
//
//  Each step:
//   1. zero nodal accumulators
//   2. locate particles and compute shape functions
//   3. scatter mass, volume, momentum and body forces
//   4. nodal velocities and constraints
//   5. strain increments (gather)
//   6. stresses
//   7. scatter internal forces; nodal accelerations and velocities; update particles (gather)
//   8. relocate particles
//
//  Scatter stages process the cells colour by colour: cells of one colour share no node and
//  run in parallel; particles of a cell run in increasing id order. Hence, the results do not
//  depend on the number of workers.
//
//  A particle that leaves the mesh is flagged as orphan and skipped afterwards. Any other
//  failure of a particle (e.g. a missing material model) abandons the step and the error names
//  the step and the particle; Time and Nsteps are then not advanced.
type Stepper struct {

	// input
	Mesh     *Mesh     // mesh with nodes, cells and particles
	Dt       float64   // time step
	Gravity  []float64 // body force per unit mass [ndim]
	Nworkers int       // maximum number of goroutines
	Phase    int       // phase being solved

	// options
	Metrics *Metrics // collectors; may be nil
	Verbose bool     // show messages

	// state
	Time    float64 // current time
	Nsteps  int     // number of completed steps
	Orphans []int   // ids of particles flagged as orphan during the last step
}

// NewStepper returns a new stepper
//  nworkers <= 0 means runtime.NumCPU()
func NewStepper(mesh *Mesh, dt float64, gravity []float64, nworkers int) (o *Stepper, err error) {
	if mesh == nil {
		return nil, chk.Err("stepper: mesh is required")
	}
	if dt <= 0 {
		return nil, chk.Err("stepper: time step must be positive; dt=%g is invalid", dt)
	}
	if gravity == nil {
		gravity = make([]float64, mesh.Ndim)
	}
	if len(gravity) != mesh.Ndim {
		return nil, chk.Err("stepper: gravity must have %d components; %d is invalid", mesh.Ndim, len(gravity))
	}
	if nworkers <= 0 {
		nworkers = runtime.NumCPU()
	}
	o = &Stepper{
		Mesh:     mesh,
		Dt:       dt,
		Gravity:  append([]float64{}, gravity...),
		Nworkers: nworkers,
	}
	return
}

// Run runs nsteps steps, calling out (if not nil) after each one. The context is checked
// between steps only.
func (o *Stepper) Run(ctx context.Context, nsteps int, out func(step int) error) (err error) {
	for i := 0; i < nsteps; i++ {
		if err = o.Step(ctx); err != nil {
			return
		}
		if out != nil {
			if err = out(o.Nsteps); err != nil {
				return
			}
		}
	}
	return
}

// Step runs one USF step; any failure abandons the step
func (o *Stepper) Step(ctx context.Context) (err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	start := time.Now()
	m := o.Mesh
	α, Δt := o.Phase, o.Dt
	nodes := m.Nodes.Items()
	particles := m.Particles.Items()

	// 1. zero nodes
	err = o.stage("initialise", func() error {
		return o.parallel(len(nodes), func(i int) error {
			nodes[i].Initialise()
			return nil
		})
	})
	if err != nil {
		return
	}

	// 2. locate particles and compute shape functions
	orphaned := make([]bool, len(particles))
	err = o.stage("shapefn", func() error {
		return o.parallel(len(particles), func(i int) error {
			p := particles[i]
			if !p.Active() {
				return nil
			}
			if e := p.ComputeReferenceLocation(); e != nil {
				orphaned[i] = true
				return nil
			}
			return p.ComputeShapefn()
		})
	})
	if err != nil {
		return chk.Err("step %d: %v", o.Nsteps, err)
	}
	for i, p := range particles {
		if orphaned[i] {
			p.RemoveCell()
		}
	}

	// 3. scatter mass, momentum and body force
	err = o.stage("p2g", func() error {
		return o.sweep(func(p *Particle) error {
			if err := p.MapMassMomentumToNodes(α); err != nil {
				return err
			}
			return p.MapBodyForce(α, o.Gravity)
		})
	})
	if err != nil {
		return chk.Err("step %d: %v", o.Nsteps, err)
	}

	// 4. nodal velocities
	err = o.stage("velocity", func() error {
		return o.parallel(len(nodes), func(i int) error {
			nodes[i].ComputeVelocity()
			return nil
		})
	})
	if err != nil {
		return
	}

	// 5. and 6. strain and stress
	err = o.stage("stress", func() error {
		return o.parallel(len(particles), func(i int) error {
			p := particles[i]
			if !p.Active() {
				return nil
			}
			if err := p.ComputeStrain(α, Δt); err != nil {
				return err
			}
			return p.ComputeStress(α)
		})
	})
	if err != nil {
		return chk.Err("step %d: %v", o.Nsteps, err)
	}

	// 7. internal forces, nodal solution and kinematics of particles
	err = o.stage("internal", func() error {
		return o.sweep(func(p *Particle) error {
			return p.MapInternalForce(α)
		})
	})
	if err != nil {
		return chk.Err("step %d: %v", o.Nsteps, err)
	}
	err = o.stage("acceleration", func() error {
		return o.parallel(len(nodes), func(i int) error {
			return nodes[i].ComputeAccelerationVelocity(α, Δt)
		})
	})
	if err != nil {
		return chk.Err("step %d: %v", o.Nsteps, err)
	}
	err = o.stage("g2p", func() error {
		return o.parallel(len(particles), func(i int) error {
			p := particles[i]
			if !p.Active() {
				return nil
			}
			return p.ComputeUpdatedPosition(α, Δt)
		})
	})
	if err != nil {
		return chk.Err("step %d: %v", o.Nsteps, err)
	}

	// 8. relocate
	nrelocated := 0
	err = o.stage("relocate", func() error {
		targets := make([]*Cell, len(particles))
		xis := make([][]float64, len(particles))
		err := o.parallel(len(particles), func(i int) error {
			p := particles[i]
			if p.Active() {
				targets[i], xis[i] = m.FindCell(p.X, p.Cell())
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i, p := range particles {
			if !p.Active() {
				continue
			}
			if targets[i] == nil {
				p.RemoveCell()
				p.Orphan = true
				orphaned[i] = true
				continue
			}
			if targets[i] != p.Cell() {
				nrelocated++
			}
			p.setCell(targets[i], xis[i])
		}
		return nil
	})
	if err != nil {
		return
	}

	// orphans
	o.Orphans = o.Orphans[:0]
	for i, p := range particles {
		if orphaned[i] || p.Orphan {
			o.Orphans = append(o.Orphans, p.Id)
		}
	}

	// update time
	o.Time += Δt
	o.Nsteps++
	if o.Metrics != nil {
		nactive := 0
		for _, node := range nodes {
			if node.Status() {
				nactive++
			}
		}
		o.Metrics.Steps.Inc()
		o.Metrics.Relocations.Add(float64(nrelocated))
		o.Metrics.Orphans.Set(float64(len(o.Orphans)))
		o.Metrics.ActiveNodes.Set(float64(nactive))
		o.Metrics.StepDuration.Observe(time.Since(start).Seconds())
	}
	if o.Verbose {
		io.Pf("step %6d: t = %g  relocated = %d  orphans = %d\n", o.Nsteps, o.Time, nrelocated, len(o.Orphans))
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

// stage runs fcn and records its duration
func (o *Stepper) stage(name string, fcn func() error) error {
	start := time.Now()
	err := fcn()
	if o.Metrics != nil {
		o.Metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	return err
}

// parallel calls fcn(i) for i in [0, n) using at most Nworkers goroutines
func (o *Stepper) parallel(n int, fcn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(o.Nworkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fcn(i)
		})
	}
	return g.Wait()
}

// sweep calls fcn for the active particles of each cell; colours run in sequence and the
// cells of one colour run in parallel
func (o *Stepper) sweep(fcn func(p *Particle) error) (err error) {
	m := o.Mesh
	for _, cids := range m.Colors {
		err = o.parallel(len(cids), func(i int) error {
			cell, _ := m.Cells.Get(cids[i])
			for _, pid := range cell.ParticleIds() {
				p, ok := m.Particles.Get(pid)
				if !ok || !p.Active() {
					continue
				}
				if err := fcn(p); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return
		}
	}
	return
}
