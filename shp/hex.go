// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// natural coordinates of hexahedra
//  corners: 0..3 @ t=-1 and 4..7 @ t=+1 (counter-clockwise from r=s=-1)
//  mid-edge: 8:0-1  9:0-3  10:0-4  11:1-2  12:1-5  13:2-3
//            14:2-6 15:3-7 16:4-5  17:4-7  18:5-6  19:6-7
var (
	hexR = []float64{-1, 1, 1, -1, -1, 1, 1, -1, 0, -1, -1, 1, 1, 0, 1, -1, 0, -1, 1, 0}
	hexS = []float64{-1, -1, 1, 1, -1, -1, 1, 1, -1, 0, -1, 0, -1, 1, 1, 1, -1, 0, 0, 1}
	hexT = []float64{-1, -1, -1, -1, 1, 1, 1, 1, -1, -1, 0, -1, 0, -1, 0, 0, 1, 1, 1, 1}
)

// register shapes
func init() {

	// topology shared by all hexahedra
	sides := [][]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	corners := []int{0, 1, 2, 3, 4, 5, 6, 7}
	faces := [][]int{
		{0, 3, 2, 1}, // t = -1
		{4, 5, 6, 7}, // t = +1
		{0, 1, 5, 4}, // s = -1
		{1, 2, 6, 5}, // r = +1
		{2, 3, 7, 6}, // s = +1
		{3, 0, 4, 7}, // r = -1
	}
	inhedron := make([][]int, 0, 12)
	for _, f := range faces {
		inhedron = append(inhedron, []int{f[0], f[1], f[2]}, []int{f[0], f[2], f[3]})
	}

	for _, h := range []struct {
		name   string
		fcn    ShpFunc
		nverts int
		vtk    int
		order  []int
	}{
		{"hex8", Hex8, 8, VTK_HEXAHEDRON, nil},
		{"hex20", Hex20, 20, VTK_QUADRATIC_HEXAHEDRON, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 11, 13, 9, 16, 18, 19, 17, 10, 12, 14, 15}},
	} {
		factory[h.name] = &Shape{
			Type:      h.name,
			Func:      h.fcn,
			BasicType: "hex8",
			Gndim:     3,
			Nverts:    h.nverts,
			NatCoords: [][]float64{hexR[:h.nverts], hexS[:h.nverts], hexT[:h.nverts]},
			VtkCode:   h.vtk,
			VtkOrder:  h.order,
			sides:     sides,
			corners:   corners,
			faces:     faces,
			inhedron:  inhedron,
		}
	}
}

// Hex8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of hex8
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
func Hex8(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	for m := 0; m < 8; m++ {
		ri, si, ti := hexR[m], hexS[m], hexT[m]
		S[m] = (1.0 + ri*r) * (1.0 + si*s) * (1.0 + ti*t) / 8.0
		if derivs {
			dSdR[m][0] = ri * (1.0 + si*s) * (1.0 + ti*t) / 8.0
			dSdR[m][1] = si * (1.0 + ri*r) * (1.0 + ti*t) / 8.0
			dSdR[m][2] = ti * (1.0 + ri*r) * (1.0 + si*s) / 8.0
		}
	}
}

// Hex20 calculates the shape functions (S) and derivatives of shape functions (dSdR) of hex20
// (serendipity) elements at {r,s,t} natural coordinates. The derivatives are calculated only if
// derivs==true.
func Hex20(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	for m := 0; m < 20; m++ {
		ri, si, ti := hexR[m], hexS[m], hexT[m]
		a, b, c := 1.0+ri*r, 1.0+si*s, 1.0+ti*t
		switch {

		// corners
		case m < 8:
			e := ri*r + si*s + ti*t - 2.0
			S[m] = a * b * c * e / 8.0
			if derivs {
				dSdR[m][0] = ri * b * c * (e + a) / 8.0
				dSdR[m][1] = si * a * c * (e + b) / 8.0
				dSdR[m][2] = ti * a * b * (e + c) / 8.0
			}

		// mid-edge parallel to r
		case ri == 0:
			S[m] = (1.0 - r*r) * b * c / 4.0
			if derivs {
				dSdR[m][0] = -2.0 * r * b * c / 4.0
				dSdR[m][1] = si * (1.0 - r*r) * c / 4.0
				dSdR[m][2] = ti * (1.0 - r*r) * b / 4.0
			}

		// mid-edge parallel to s
		case si == 0:
			S[m] = a * (1.0 - s*s) * c / 4.0
			if derivs {
				dSdR[m][0] = ri * (1.0 - s*s) * c / 4.0
				dSdR[m][1] = -2.0 * s * a * c / 4.0
				dSdR[m][2] = ti * a * (1.0 - s*s) / 4.0
			}

		// mid-edge parallel to t
		default:
			S[m] = a * b * (1.0 - t*t) / 4.0
			if derivs {
				dSdR[m][0] = ri * b * (1.0 - t*t) / 4.0
				dSdR[m][1] = si * a * (1.0 - t*t) / 4.0
				dSdR[m][2] = -2.0 * t * a * b / 4.0
			}
		}
	}
}
