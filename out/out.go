// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements post-processing of particle results saved by an analysis
package out

import (
	"strings"

	"github.com/HaichaoLee/mpm-1/inp"
	"github.com/HaichaoLee/mpm-1/mpm"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// constants
var (
	TolC = 1e-8 // tolerance to compare x-y-z coordinates
	TolT = 1e-8 // tolerance to compare times
)

// ResultsMap maps aliases to points
type ResultsMap map[string]Points

// Output holds the results of one simulation
type Output struct {

	// data set by Start
	Sim  *inp.Simulation // simulation data
	Sum  *mpm.Summary    // summary of output files
	Mesh *mpm.Mesh       // particles; positions at the first output time

	// defined entities and results loaded by LoadResults
	Results  ResultsMap // maps labels => points
	TimeInds []int      // selected output indices
	Times    []float64  // selected output times
}

// Start starts handling of results given a simulation
func Start(sim *inp.Simulation) (o *Output, err error) {
	o = &Output{Sim: sim, Results: make(map[string]Points)}
	if o.Sum, err = mpm.ReadSum(sim.DirOut, sim.Key, sim.EncType); err != nil {
		return nil, err
	}
	if o.Sum.Nout() < 1 {
		return nil, chk.Err("summary of %q has no output times", sim.Key)
	}
	if o.Mesh, err = mpm.NewMesh(sim.Ndim, 1); err != nil {
		return nil, err
	}
	if err = o.Sum.ReadParticles(o.Mesh, 0); err != nil {
		return nil, err
	}
	return
}

// StartFile starts handling of results given a simulation file
func StartFile(simfnpath, alias string) (*Output, error) {
	sim, err := inp.ReadSim(simfnpath, alias)
	if err != nil {
		return nil, err
	}
	return Start(sim)
}

// Define defines aliases
//  alias -- an alias to a group of points, an individual point, or to a set of points.
//           Example: "A", "left-column" or "a b c". If the number of points found is different
//           than the number of aliases, a group is created.
//  Note:
//    To use spaces in aliases, prefix the alias with an exclamation mark; e.g "!right column"
func (o *Output) Define(alias string, loc Locator) (err error) {
	if len(alias) < 1 {
		return chk.Err("alias must have at least one character. %q is invalid", alias)
	}
	pts := loc.Locate(o.Mesh)
	if len(pts) < 1 {
		return chk.Err("cannot define entities with alias=%q and locator=%v", alias, loc)
	}
	if alias[0] == '!' {
		o.Results[alias[1:]] = pts
		return
	}
	lbls := strings.Fields(alias)
	if len(lbls) == len(pts) {
		for i, l := range lbls {
			o.Results[l] = []*Point{pts[i]}
		}
		return
	}
	o.Results[alias] = pts
	return
}

// LoadResults loads all results after points are defined
//  times -- specified selected output times
//           use nil to indicate that all times are required
func (o *Output) LoadResults(times []float64) (err error) {

	// selected output times and indices
	if times == nil {
		times = o.Sum.OutTimes
	}
	o.TimeInds, o.Times = selectTimes(o.Sum.OutTimes, times, TolT)
	if len(o.TimeInds) < 1 {
		return chk.Err("none of the selected times %v was found in the summary", times)
	}

	// clear previous results
	for _, pts := range o.Results {
		for _, p := range pts {
			p.Vals = make(map[string][]float64)
		}
	}

	// for each selected output time
	m, err := mpm.NewMesh(o.Sim.Ndim, 1)
	if err != nil {
		return
	}
	for _, tidx := range o.TimeInds {
		if err = o.Sum.ReadParticles(m, tidx); err != nil {
			return
		}
		for alias, pts := range o.Results {
			for _, p := range pts {
				par, ok := m.Particles.Get(p.Pid)
				if !ok {
					return chk.Err("%q: particle %d is not in output file %d", alias, p.Pid, tidx)
				}
				for key, val := range Calc(par) {
					p.Vals[key] = append(p.Vals[key], val)
				}
			}
		}
		io.Pf("output %d loaded\n", tidx)
	}
	return
}

// selectTimes returns the indices and values of the times in tout matching the selected ones
func selectTimes(tout, tsel []float64, tol float64) (I []int, T []float64) {
	for _, t := range tsel {
		for i, τ := range tout {
			if τ > t-tol && τ < t+tol {
				I = append(I, i)
				T = append(T, τ)
				break
			}
		}
	}
	return
}
