// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
)

// SampleSim returns a simulation of a block of Bingham fluid released inside a box with
// fixed walls
//  shape -- "qua4", "qua9" or "hex8"
func SampleSim(shape string) (o *Simulation, err error) {
	ndim := 2
	if shape == "hex8" {
		ndim = 3
	}
	xmin := make([]float64, ndim)
	xmax := make([]float64, ndim)
	ndiv := make([]int, ndim)
	gravity := make([]float64, ndim)
	for i := 0; i < ndim; i++ {
		xmax[i], ndiv[i] = 1.0, 10
	}
	gravity[ndim-1] = -9.81
	msh, err := GenBox(shape, xmin, xmax, ndiv, -1)
	if err != nil {
		return
	}

	// block: cells in the lower-left corner
	for _, c := range msh.Cells {
		x := msh.CellCoords(c)
		inside := true
		for i := 0; i < ndim; i++ {
			for _, xi := range x[i] {
				if xi > 0.4+Ztol {
					inside = false
				}
			}
		}
		if inside {
			c.Tag = -2
		}
	}
	if err = msh.Init(); err != nil {
		return
	}

	o = &Simulation{
		Data: Data{
			Desc:    "collapse of a block of Bingham fluid",
			Encoder: "gob",
		},
		Solver: SolverData{
			Dt:       1e-4,
			Nsteps:   1000,
			Gravity:  gravity,
			OutEvery: 100,
		},
		Mesh: msh,
		Materials: []*MatData{
			{
				Name:  "fluid",
				Model: "bingham",
				Prms: map[string]interface{}{
					"density":             1000.0,
					"youngs_modulus":      1.0e6,
					"poisson_ratio":       0.3,
					"tau0":                10.0,
					"mu":                  0.1,
					"critical_shear_rate": 0.2,
				},
			},
		},
		Particles: []*ParticlesData{
			{Mat: "fluid", CellTag: -2, Npts: 2},
		},
	}
	for i := 0; i < ndim; i++ {
		o.VelocityBcs = append(o.VelocityBcs,
			&VelocityBc{Plane: &PlaneData{Axis: i, Coord: xmin[i]}, Dof: i},
			&VelocityBc{Plane: &PlaneData{Axis: i, Coord: xmax[i]}, Dof: i},
		)
	}
	o.Ndim = ndim
	o.Key = "sample-" + shape
	o.EncType = o.Data.Encoder
	o.DirOut = filepath.Join(os.TempDir(), "mpm", o.Key)
	return
}
