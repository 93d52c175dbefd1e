// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"context"
	"os"
	"time"

	"github.com/HaichaoLee/mpm-1/inp"
	"github.com/HaichaoLee/mpm-1/msolid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
)

// Analysis holds all data for a simulation using the material point method
type Analysis struct {
	Sim     *inp.Simulation         // simulation data
	Mesh    *Mesh                   // grid and particles
	Models  map[string]msolid.Model // material name => model
	Stepper *Stepper                // explicit solver
	Metrics *Metrics                // collectors; nil if no registry is given
	Summary *Summary                // output times; set by Run
	Verbose bool                    // show messages
}

// NewAnalysis builds the mesh, materials, particles and boundary conditions from sim
//  reg -- registry for metrics; may be nil
func NewAnalysis(sim *inp.Simulation, reg prometheus.Registerer, verbose bool) (o *Analysis, err error) {

	// new analysis
	o = &Analysis{Sim: sim, Models: make(map[string]msolid.Model), Verbose: verbose}
	if reg != nil {
		if o.Metrics, err = NewMetrics(reg); err != nil {
			return nil, err
		}
	}

	// grid
	msh := sim.Mesh
	if o.Mesh, err = NewMesh(msh.Ndim, 1); err != nil {
		return nil, err
	}
	o.Mesh.Verbose = verbose
	for _, v := range msh.Verts {
		if _, err = o.Mesh.AddNode(v.Id, v.C); err != nil {
			return nil, err
		}
	}
	for _, c := range msh.Cells {
		if _, err = o.Mesh.AddCell(c.Id, c.Type, c.Verts); err != nil {
			return nil, err
		}
	}
	if err = o.Mesh.Initialise(); err != nil {
		return nil, err
	}

	// materials
	for _, m := range sim.Materials {
		model, err := msolid.New(m.Model)
		if err != nil {
			return nil, chk.Err("material %q: %v", m.Name, err)
		}
		if err = model.Init(msh.Ndim, m.Prms); err != nil {
			return nil, chk.Err("material %q: %v", m.Name, err)
		}
		o.Models[m.Name] = model
	}

	// particles
	type pset struct {
		first, last int
		data        *inp.ParticlesData
	}
	var sets []pset
	for _, pd := range sim.Particles {
		set := pset{first: o.Mesh.Particles.Len(), data: pd}
		coords := append([][]float64{}, pd.Coords...)
		for _, c := range msh.CellTag2cells[pd.CellTag] {
			pts, err := msh.GenPoints(c, pd.Npts)
			if err != nil {
				return nil, err
			}
			coords = append(coords, pts...)
		}
		for _, x := range coords {
			p, err := o.Mesh.AddParticle(o.Mesh.Particles.Len(), x)
			if err != nil {
				return nil, err
			}
			if err = p.AssignMaterial(o.Models[pd.Mat]); err != nil {
				return nil, err
			}
		}
		set.last = o.Mesh.Particles.Len()
		sets = append(sets, set)
	}
	orphans := o.Mesh.LocateParticles()
	if len(orphans) > 0 {
		return nil, chk.Err("%d particles are outside the mesh; e.g. particle %d", len(orphans), orphans[0])
	}
	if err = o.Mesh.ComputeParticleVolumes(); err != nil {
		return nil, err
	}
	for _, set := range sets {
		for i := set.first; i < set.last; i++ {
			p := o.Mesh.Particles.At(i)
			if len(set.data.Velocity) > 0 {
				if err = p.AssignVelocity(0, set.data.Velocity); err != nil {
					return nil, err
				}
			}
			if len(set.data.Stress) > 0 {
				if err = p.AssignStress(0, set.data.Stress); err != nil {
					return nil, err
				}
			}
		}
	}

	// boundary conditions
	var cons []VelocityConstraint
	for _, bc := range sim.VelocityBcs {
		for _, vid := range sim.BcVerts(bc) {
			cons = append(cons, VelocityConstraint{NodeId: vid, Dof: bc.Dof, Value: bc.Value})
		}
	}
	if err = o.Mesh.AssignVelocityConstraints(cons); err != nil {
		return nil, err
	}

	// solver
	if o.Stepper, err = NewStepper(o.Mesh, sim.Solver.Dt, sim.Solver.Gravity, sim.Solver.Nworkers); err != nil {
		return nil, err
	}
	o.Stepper.Metrics = o.Metrics
	if o.Verbose {
		io.Pf("%d particles, %d velocity constraints, %d workers\n", o.Mesh.Particles.Len(), len(cons), o.Stepper.Nworkers)
	}
	return
}

// Resume restores the particles saved at output index tidx by a previous run of this
// simulation and sets the time and step counters; tidx < 0 means the last output. Run then
// continues up to Solver.Nsteps, overwriting the outputs after tidx.
func (o *Analysis) Resume(tidx int) (err error) {
	sim := o.Sim
	sum, err := ReadSum(sim.DirOut, sim.Key, sim.EncType)
	if err != nil {
		return chk.Err("cannot resume %q:\n%v", sim.Key, err)
	}
	sum.Dirout = sim.DirOut
	if tidx < 0 {
		tidx = sum.Nout() - 1
	}
	np := o.Mesh.Particles.Len()
	if err = sum.ReadParticles(o.Mesh, tidx); err != nil {
		return chk.Err("cannot resume %q:\n%v", sim.Key, err)
	}
	if o.Mesh.Particles.Len() != np {
		return chk.Err("cannot resume %q: output %d has particles that are not in the simulation", sim.Key, tidx)
	}
	o.Mesh.LocateParticles()
	sum.OutTimes, sum.OutSteps = sum.OutTimes[:tidx+1], sum.OutSteps[:tidx+1]
	sum.tidx = tidx + 1
	o.Summary = sum
	o.Stepper.Time, o.Stepper.Nsteps = sum.OutTimes[tidx], sum.OutSteps[tidx]
	if o.Verbose {
		io.Pf("resuming from output %d: step = %d, t = %g\n", tidx, o.Stepper.Nsteps, o.Stepper.Time)
	}
	return
}

// Run runs the simulation and saves the particles to Sim.DirOut; after Resume, the run
// continues from the restored step
func (o *Analysis) Run(ctx context.Context) (err error) {

	// output directory
	sim := o.Sim
	if err = os.MkdirAll(sim.DirOut, 0777); err != nil {
		return chk.Err("cannot create directory for output results (%s):\n%v", sim.DirOut, err)
	}

	// initial state
	save := func() error {
		return o.Summary.SaveResults(o.Mesh, o.Stepper.Time, o.Stepper.Nsteps, o.Verbose)
	}
	if o.Summary == nil {
		o.Summary = NewSummary(sim.DirOut, sim.Key, sim.EncType)
		if err = save(); err != nil {
			return
		}
	}

	// time loop
	cputime := time.Now()
	err = o.Stepper.Run(ctx, sim.Solver.Nsteps-o.Stepper.Nsteps, func(step int) error {
		if sim.Solver.OutEvery > 0 && step%sim.Solver.OutEvery == 0 {
			return save()
		}
		return nil
	})
	if err != nil {
		if e := o.Summary.Save(); e != nil {
			io.PfRed("%v\n", e)
		}
		return
	}
	if o.Summary.OutSteps[o.Summary.Nout()-1] != o.Stepper.Nsteps {
		if err = save(); err != nil {
			return
		}
	}
	if err = o.Summary.Save(); err != nil {
		return
	}
	if o.Verbose {
		io.Pfyel("\nfinal time = %g; cpu time = %v; orphans = %d\n", o.Stepper.Time, time.Since(cputime), len(o.Stepper.Orphans))
	}
	return
}
