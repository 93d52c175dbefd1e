// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const (
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping function
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// InvMap computes the natural coordinates r, given the real coordinate y
//  Input:
//   y[ndim]           -- are the 2D/3D point coordinates
//   x[ndim][nverts+?] -- coordinates matrix of cell
//  Output:
//   r[gndim] -- are the natural coordinates of given point
//  Note: r is not clipped to the reference cell; use InRefCell to check the result
func (o *Shape) InvMap(r, y []float64, x [][]float64) error {

	// check
	if len(r) < o.Gndim || len(y) < o.Gndim {
		return chk.Err("InvMap of %s requires r and y with %d components", o.Type, o.Gndim)
	}

	var δRnorm float64
	S := make([]float64, o.Nverts)
	dSdR := utl.Alloc(o.Nverts, o.Gndim)
	dxdR := utl.Alloc(o.Gndim, o.Gndim)
	e := make([]float64, o.Gndim)  // residual
	δr := make([]float64, o.Gndim) // corrector
	for i := 0; i < o.Gndim; i++ {
		r[i] = 0 // first trial
	}
	for it := 0; it < INVMAP_NIT; it++ {

		// shape functions and derivatives
		o.Func(S, dSdR, r, true)

		// residual: e = y - x * S
		for i := 0; i < o.Gndim; i++ {
			e[i] = y[i]
			for j := 0; j < o.Nverts; j++ {
				e[i] -= x[i][j] * S[j]
			}
		}

		// Jmat == dxdR = x * dSdR;
		for i := 0; i < o.Gndim; i++ {
			for j := 0; j < o.Gndim; j++ {
				dxdR[i][j] = 0.0
				for k := 0; k < o.Nverts; k++ {
					dxdR[i][j] += x[i][k] * dSdR[k][j]
				}
			}
		}

		// Jimat == dRdx = Jmat.inverse();
		dRdx, _, err := invert(dxdR)
		if err != nil {
			return chk.Err("InvMap of %s failed:\n%v", o.Type, err)
		}

		// corrector: dR = Jimat * e
		δRnorm = 0.0
		for i := 0; i < o.Gndim; i++ {
			δr[i] = 0.0
			for j := 0; j < o.Gndim; j++ {
				δr[i] += dRdx[i][j] * e[j]
			}
		}

		// update and fix r near the boundaries
		for i := 0; i < o.Gndim; i++ {
			r[i] += δr[i]
			δRnorm += δr[i] * δr[i]
			if math.Abs(r[i]-(-1.0)) < INVMAP_TOL {
				r[i] = -1.0
			}
			if math.Abs(r[i]-1.0) < INVMAP_TOL {
				r[i] = 1.0
			}
		}

		// converged?
		if math.Sqrt(δRnorm) < INVMAP_TOL {
			return nil
		}
	}
	return chk.Err("InvMap of %s did not converge after %d iterations", o.Type, INVMAP_NIT)
}

// InRefCell tells whether natural coordinates r lie inside the reference cell, allowing a
// tolerance tol beyond its faces
func (o *Shape) InRefCell(r []float64, tol float64) bool {
	for i := 0; i < o.Gndim; i++ {
		if r[i] < -1.0-tol || r[i] > 1.0+tol {
			return false
		}
	}
	return true
}
