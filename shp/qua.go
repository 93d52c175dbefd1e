// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {

	// topology shared by all quadrilaterals
	sides := [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	corners := []int{0, 1, 2, 3}

	// natural coordinates
	//
	//   3      6      2
	//    @-----@-----@
	//    |           |
	//  7 @     @ 8   @ 5
	//    |           |
	//    @-----@-----@
	//   0      4      1
	//
	rr := []float64{-1, 1, 1, -1, 0, 1, 0, -1, 0}
	ss := []float64{-1, -1, 1, 1, -1, 0, 1, 0, 0}

	for _, q := range []struct {
		name   string
		fcn    ShpFunc
		nverts int
		vtk    int
	}{
		{"qua4", Qua4, 4, VTK_QUAD},
		{"qua8", Qua8, 8, VTK_QUADRATIC_QUAD},
		{"qua9", Qua9, 9, VTK_BIQUADRATIC_QUAD},
	} {
		factory[q.name] = &Shape{
			Type:      q.name,
			Func:      q.fcn,
			BasicType: "qua4",
			Gndim:     2,
			Nverts:    q.nverts,
			NatCoords: [][]float64{rr[:q.nverts], ss[:q.nverts]},
			VtkCode:   q.vtk,
			sides:     sides,
			corners:   corners,
			inhedron:  sides,
		}
	}
}

// Qua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements at {r,s} natural coordinates. The derivatives are calculated only if derivs==true.
func Qua4(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s := R[0], R[1]
	S[0] = (1.0 - r - s + r*s) / 4.0
	S[1] = (1.0 + r - s - r*s) / 4.0
	S[2] = (1.0 + r + s + r*s) / 4.0
	S[3] = (1.0 - r + s - r*s) / 4.0
	if !derivs {
		return
	}
	dSdR[0][0] = (-1.0 + s) / 4.0
	dSdR[0][1] = (-1.0 + r) / 4.0
	dSdR[1][0] = (+1.0 - s) / 4.0
	dSdR[1][1] = (-1.0 - r) / 4.0
	dSdR[2][0] = (+1.0 + s) / 4.0
	dSdR[2][1] = (+1.0 + r) / 4.0
	dSdR[3][0] = (-1.0 - s) / 4.0
	dSdR[3][1] = (+1.0 - r) / 4.0
}

// Qua8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua8
// (serendipity) elements at {r,s} natural coordinates. The derivatives are calculated only if
// derivs==true.
func Qua8(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s := R[0], R[1]

	S[0] = (1.0 - r) * (1.0 - s) * (-r - s - 1.0) / 4.0
	S[1] = (1.0 + r) * (1.0 - s) * (r - s - 1.0) / 4.0
	S[2] = (1.0 + r) * (1.0 + s) * (r + s - 1.0) / 4.0
	S[3] = (1.0 - r) * (1.0 + s) * (-r + s - 1.0) / 4.0
	S[4] = (1.0 - r*r) * (1.0 - s) / 2.0
	S[5] = (1.0 + r) * (1.0 - s*s) / 2.0
	S[6] = (1.0 - r*r) * (1.0 + s) / 2.0
	S[7] = (1.0 - r) * (1.0 - s*s) / 2.0

	if !derivs {
		return
	}

	dSdR[0][0] = -(1.0 - s) * (-r - r - s) / 4.0
	dSdR[1][0] = (1.0 - s) * (r + r - s) / 4.0
	dSdR[2][0] = (1.0 + s) * (r + r + s) / 4.0
	dSdR[3][0] = -(1.0 + s) * (-r - r + s) / 4.0
	dSdR[4][0] = -r * (1.0 - s)
	dSdR[5][0] = (1.0 - s*s) / 2.0
	dSdR[6][0] = -r * (1.0 + s)
	dSdR[7][0] = -(1.0 - s*s) / 2.0

	dSdR[0][1] = -(1.0 - r) * (-s - s - r) / 4.0
	dSdR[1][1] = -(1.0 + r) * (-s - s + r) / 4.0
	dSdR[2][1] = (1.0 + r) * (s + s + r) / 4.0
	dSdR[3][1] = (1.0 - r) * (s + s - r) / 4.0
	dSdR[4][1] = -(1.0 - r*r) / 2.0
	dSdR[5][1] = -s * (1.0 + r)
	dSdR[6][1] = (1.0 - r*r) / 2.0
	dSdR[7][1] = -s * (1.0 - r)
}

// Qua9 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua9
// (Lagrange) elements at {r,s} natural coordinates. The derivatives are calculated only if
// derivs==true.
func Qua9(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s := R[0], R[1]

	// 1D quadratic Lagrange polynomials @ -1, 0, +1
	var Lr, Ls, dLr, dLs [3]float64
	lagrange3(&Lr, &dLr, r)
	lagrange3(&Ls, &dLs, s)

	// index of the 1D polynomial associated with each vertex
	for m := 0; m < 9; m++ {
		i, j := qua9I[m], qua9J[m]
		S[m] = Lr[i] * Ls[j]
		if derivs {
			dSdR[m][0] = dLr[i] * Ls[j]
			dSdR[m][1] = Lr[i] * dLs[j]
		}
	}
}

// qua9I and qua9J hold the 1D polynomial index (0 => -1, 1 => 0, 2 => +1) of each qua9 vertex
var (
	qua9I = [9]int{0, 2, 2, 0, 1, 2, 1, 0, 1}
	qua9J = [9]int{0, 0, 2, 2, 0, 1, 2, 1, 1}
)

// lagrange3 computes the quadratic Lagrange polynomials with nodes at -1, 0 and +1
func lagrange3(L, dL *[3]float64, x float64) {
	L[0] = x * (x - 1.0) / 2.0
	L[1] = 1.0 - x*x
	L[2] = x * (x + 1.0) / 2.0
	dL[0] = x - 0.5
	dL[1] = -2.0 * x
	dL[2] = x + 0.5
}
