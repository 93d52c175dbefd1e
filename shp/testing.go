// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := make([]float64, shape.Gndim)
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		S := shape.Shapefn(r)

		// check
		if verbose {
			io.Pf("S = %v\n", S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(S[m] - 1.0)
			} else {
				errS += math.Abs(S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckPartition checks that shape functions sum to 1 and that their derivatives sum to 0
// at natural coordinates r
func CheckPartition(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {
	S := shape.Shapefn(r)
	dSdR := shape.GradShapefn(r)
	sumS := 0.0
	sumG := make([]float64, shape.Gndim)
	for m := 0; m < shape.Nverts; m++ {
		sumS += S[m]
		for i := 0; i < shape.Gndim; i++ {
			sumG[i] += dSdR[m][i]
		}
	}
	if verbose {
		io.Pforan("%s @ %v: ΣS = %v  ΣdSdR = %v\n", shape.Type, r, sumS, sumG)
	}
	if math.Abs(sumS-1.0) > tol {
		tst.Errorf("%s: sum of S @ %v is %v\n", shape.Type, r, sumS)
		return
	}
	for i := 0; i < shape.Gndim; i++ {
		if math.Abs(sumG[i]) > tol {
			tst.Errorf("%s: sum of dSdR%d @ %v is %v\n", shape.Type, i, r, sumG[i])
			return
		}
	}
}

// CheckDSdR checks dSdR derivatives of shape structures
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// auxiliary
	r_tmp := make([]float64, len(r))
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-3}

	// analytical
	dSdR := shape.GradShapefn(r)

	// numerical
	for n := 0; n < shape.Nverts; n++ {
		for i := 0; i < shape.Gndim; i++ {
			dSndRi := fd.Derivative(func(t float64) float64 {
				copy(r_tmp, r)
				r_tmp[i] = t
				return shape.Shapefn(r_tmp)[n]
			}, r[i], settings)
			if verbose {
				io.Pfgrey2("  dS%ddR%d @ %5.2f = %v (num: %v)\n", n, i, r, dSdR[n][i], dSndRi)
			}
			if math.Abs(dSdR[n][i]-dSndRi) > tol {
				tst.Errorf("%s dS%ddR%d failed with err = %g\n", shape.Type, n, i, math.Abs(dSdR[n][i]-dSndRi))
				return
			}
		}
	}
}

// CheckDSdx checks G=dSdx derivatives of shape structures
func CheckDSdx(tst *testing.T, shape *Shape, xmat [][]float64, x []float64, tol float64, verbose bool) {

	// find r corresponding to x
	r := make([]float64, shape.Gndim)
	err := shape.InvMap(r, x, xmat)
	if err != nil {
		tst.Errorf("InvMap failed:\n%v", err)
		return
	}

	// analytical
	_, G, _, err := shape.CalcAtR(xmat, r)
	if err != nil {
		tst.Errorf("CalcAtR failed:\n%v", err)
		return
	}

	// numerical
	x_tmp := make([]float64, len(x))
	r_tmp := make([]float64, shape.Gndim)
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-3}
	for n := 0; n < shape.Nverts; n++ {
		for i := 0; i < shape.Gndim; i++ {
			dSnDxi := fd.Derivative(func(t float64) float64 {
				copy(x_tmp, x)
				x_tmp[i] = t
				if e := shape.InvMap(r_tmp, x_tmp, xmat); e != nil {
					tst.Errorf("InvMap failed:\n%v", e)
				}
				return shape.Shapefn(r_tmp)[n]
			}, x[i], settings)
			if verbose {
				io.Pfgrey2("  dS%dDx%d @ %5.2f = %v (num: %v)\n", n, i, x, G[n][i], dSnDxi)
			}
			if math.Abs(G[n][i]-dSnDxi) > tol {
				tst.Errorf("%s dS%dDx%d failed with err = %g\n", shape.Type, n, i, math.Abs(G[n][i]-dSnDxi))
				return
			}
		}
	}
}
