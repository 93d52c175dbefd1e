// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/routines for the background grid
//
//  Shapes are immutable once registered; all methods allocate their results, so a single
//  Shape may be shared by every cell and goroutine of a simulation.
package shp

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"
)

// constants
const (
	MINDET = 1.0e-14 // minimum determinant allowed for dxdR
	NSIG   = 6       // number of stress/strain components (Voigt: xx, yy, zz, xy, yz, xz)
)

// VTK cell codes
const (
	VTK_VERTEX               = 1
	VTK_QUAD                 = 9
	VTK_HEXAHEDRON           = 12
	VTK_QUADRATIC_QUAD       = 23
	VTK_QUADRATIC_HEXAHEDRON = 25
	VTK_BIQUADRATIC_QUAD     = 28
)

// ShpFunc is the shape functions callback function
//  Input:
//   r[gndim] -- natural coordinates
//   derivs   -- also compute dSdR
//  Output:
//   S[nverts]           -- shape functions
//   dSdR[nverts][gndim] -- derivatives of S w.r.t natural coordinates
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data
type Shape struct {

	// geometry
	Type      string      // name; e.g. "qua8"
	Func      ShpFunc     // shape/derivs function callback function
	BasicType string      // geometry of basic element; e.g. "qua8" => "qua4"
	Gndim     int         // geometry of shape; e.g. "hex20" => gndim == 3
	Nverts    int         // number of vertices in cell; e.g. "qua8" => 8
	NatCoords [][]float64 // natural coordinates [gndim][nverts]
	VtkCode   int         // VTK code
	VtkOrder  []int       // [nverts] local vertex at each VTK position; nil means the same order

	// topology of basic (corner) cell
	sides    [][]int // [nsides][2] edges used to compute lengths
	corners  []int   // corner vertices
	faces    [][]int // [nfaces][4] outward faces (3D only)
	inhedron [][]int // [nsub][2 or 3] sub-triangles/tetrahedra with the query point
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// aliases maps alternative names to factory keys
var aliases = map[string]string{
	"ED2Q4":  "qua4",
	"ED2Q8":  "qua8",
	"ED2Q9":  "qua9",
	"ED3H8":  "hex8",
	"ED3H20": "hex20",
}

// New returns the Shape registered under name (or one of its aliases)
func New(name string) (*Shape, error) {
	if key, ok := aliases[name]; ok {
		name = key
	}
	s, ok := factory[name]
	if !ok {
		return nil, chk.Err("shape %q is not available in 'shp' database", name)
	}
	return s, nil
}

// Names returns the sorted names of all registered shapes
func Names() (names []string) {
	for name := range factory {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Shapefn evaluates the shape functions at natural coordinates xi
func (o *Shape) Shapefn(xi []float64) (S []float64) {
	S = make([]float64, o.Nverts)
	o.Func(S, nil, xi, false)
	return
}

// GradShapefn evaluates dSdR[nverts][gndim] at natural coordinates xi
func (o *Shape) GradShapefn(xi []float64) (dSdR [][]float64) {
	S := make([]float64, o.Nverts)
	dSdR = utl.Alloc(o.Nverts, o.Gndim)
	o.Func(S, dSdR, xi, true)
	return
}

// Jacobian computes dxdR[gndim][gndim] at xi
//  Input:
//   xi                -- natural coordinates
//   x[ndim][nverts+?] -- coordinates matrix of cell
//  Output:
//   dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
//  Note: an error is returned if |det(dxdR)| < MINDET (degenerate geometry)
func (o *Shape) Jacobian(xi []float64, x [][]float64) (dxdR [][]float64, err error) {
	if len(x) != o.Gndim {
		return nil, chk.Err("coordinates matrix of %s must have %d rows; %d is invalid", o.Type, o.Gndim, len(x))
	}
	for i := 0; i < o.Gndim; i++ {
		if len(x[i]) < o.Nverts {
			return nil, chk.Err("coordinates matrix of %s must have %d columns; %d is invalid", o.Type, o.Nverts, len(x[i]))
		}
	}
	dSdR := o.GradShapefn(xi)
	dxdR = utl.Alloc(o.Gndim, o.Gndim)
	for i := 0; i < o.Gndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			for n := 0; n < o.Nverts; n++ {
				dxdR[i][j] += x[i][n] * dSdR[n][j]
			}
		}
	}
	if det := mat.Det(dense(dxdR)); det < MINDET && det > -MINDET {
		return nil, chk.Err("%s: determinant of Jacobian %g is too small (degenerate geometry)", o.Type, det)
	}
	return
}

// CalcAtR calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts+?] -- coordinates matrix of cell
//   r[gndim]          -- local/natural coordinates
//  Output:
//   S[nverts]        -- shape functions
//   G[nverts][gndim] -- G == dSdx. derivative of shape function
//   J                -- determinant of dxdR
func (o *Shape) CalcAtR(x [][]float64, r []float64) (S []float64, G [][]float64, J float64, err error) {

	// S and dSdR
	S = make([]float64, o.Nverts)
	dSdR := utl.Alloc(o.Nverts, o.Gndim)
	o.Func(S, dSdR, r, true)

	// dxdR
	dxdR, err := o.Jacobian(r, x)
	if err != nil {
		return
	}

	// dRdx := inv(dxdR)
	dRdx, J, err := invert(dxdR)
	if err != nil {
		return nil, nil, 0, chk.Err("%s: %v", o.Type, err)
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dx_j := sum_i dS^m/dR_i * dR_i/dx_j
	G = utl.Alloc(o.Nverts, o.Gndim)
	for m := 0; m < o.Nverts; m++ {
		for j := 0; j < o.Gndim; j++ {
			for i := 0; i < o.Gndim; i++ {
				G[m][j] += dSdR[m][i] * dRdx[i][j]
			}
		}
	}
	return
}

// Bmatrix returns the strain-displacement matrices [nverts][6][gndim] computed with the
// gradients w.r.t natural coordinates
func (o *Shape) Bmatrix(xi []float64) [][][]float64 {
	return o.bmatrix(o.GradShapefn(xi))
}

// BmatrixReal returns the strain-displacement matrices [nverts][6][gndim] computed with the
// gradients w.r.t real coordinates x[ndim][nverts]
func (o *Shape) BmatrixReal(xi []float64, x [][]float64) ([][][]float64, error) {
	_, G, _, err := o.CalcAtR(x, xi)
	if err != nil {
		return nil, err
	}
	return o.bmatrix(G), nil
}

// UnitCellCoordinates returns the natural coordinates of the vertices [nverts][gndim]
func (o *Shape) UnitCellCoordinates() (c [][]float64) {
	c = utl.Alloc(o.Nverts, o.Gndim)
	for n := 0; n < o.Nverts; n++ {
		for i := 0; i < o.Gndim; i++ {
			c[n][i] = o.NatCoords[i][n]
		}
	}
	return
}

// SidesIndices returns the pairs of vertices forming the sides (edges) of the cell
func (o *Shape) SidesIndices() [][]int { return intsClone(o.sides) }

// CornerIndices returns the corner vertices of the cell
func (o *Shape) CornerIndices() []int { return append([]int{}, o.corners...) }

// FacesIndices returns the outward oriented corner faces of a 3D cell; nil in 2D
func (o *Shape) FacesIndices() [][]int { return intsClone(o.faces) }

// InhedronIndices returns the vertices that, together with a query point, form the
// sub-triangles (2D) or sub-tetrahedra (3D) covering the cell
func (o *Shape) InhedronIndices() [][]int { return intsClone(o.inhedron) }

// bmatrix assembles B for each vertex given the gradients G[nverts][gndim]
//  2D: εxx = G0 vx, εyy = G1 vy, γxy = G1 vx + G0 vy
//  3D: εxx, εyy, εzz, γxy, γyz, γxz
func (o *Shape) bmatrix(G [][]float64) (B [][][]float64) {
	B = make([][][]float64, o.Nverts)
	for m := 0; m < o.Nverts; m++ {
		B[m] = utl.Alloc(NSIG, o.Gndim)
		g := G[m]
		if o.Gndim == 2 {
			B[m][0][0] = g[0]
			B[m][1][1] = g[1]
			B[m][3][0] = g[1]
			B[m][3][1] = g[0]
			continue
		}
		B[m][0][0] = g[0]
		B[m][1][1] = g[1]
		B[m][2][2] = g[2]
		B[m][3][0] = g[1]
		B[m][3][1] = g[0]
		B[m][4][1] = g[2]
		B[m][4][2] = g[1]
		B[m][5][0] = g[2]
		B[m][5][2] = g[0]
	}
	return
}

// invert computes the inverse and the determinant of a small square matrix
func invert(a [][]float64) (ai [][]float64, det float64, err error) {
	n := len(a)
	A := dense(a)
	det = mat.Det(A)
	if det < MINDET && det > -MINDET {
		return nil, det, chk.Err("inverse of matrix failed: determinant %g is too small (degenerate geometry)", det)
	}
	var Ai mat.Dense
	if err = Ai.Inverse(A); err != nil {
		return nil, det, chk.Err("inverse of matrix failed:\n%v", err)
	}
	ai = utl.Alloc(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ai[i][j] = Ai.At(i, j)
		}
	}
	return
}

// dense converts a square matrix to gonum's format
func dense(a [][]float64) *mat.Dense {
	n := len(a)
	A := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.Set(i, j, a[i][j])
		}
	}
	return A
}

// intsClone returns a deep copy of a; nil stays nil
func intsClone(a [][]int) (b [][]int) {
	if a == nil {
		return
	}
	b = make([][]int, len(a))
	for i := range a {
		b[i] = append([]int{}, a[i]...)
	}
	return
}
