// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01")

	verb := chk.Verbose
	for _, name := range Names() {
		shape := factory[name]

		io.Pfyel("--------------------------------- %-6s---------------------------------\n", name)

		// check S
		CheckShape(tst, shape, 1e-15, verb)

		// check partition of unity and dSdR @ a few points
		points := [][]float64{
			{0, 0, 0},
			{0.25, -0.5, 0.75},
			{-0.9, 0.1, -0.3},
			{1, 1, 1},
		}
		for _, p := range points {
			r := p[:shape.Gndim]
			CheckPartition(tst, shape, r, 1e-14, verb)
			CheckDSdR(tst, shape, r, 1e-9, verb)
		}

		io.PfGreen("OK\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02")

	xmat := [][]float64{
		{10, 13, 13, 10},
		{8, 8, 9, 9},
	}
	dx, dy := 3.0, 1.0
	dr, ds := 2.0, 2.0
	r := []float64{0, 0}
	shape, err := New("qua4")
	require.NoError(tst, err)
	_, _, J, err := shape.CalcAtR(xmat, r)
	require.NoError(tst, err)
	io.Pforan("J = %v\n", J)
	chk.Float64(tst, "J", 1e-15, J, (dx/dr)*(dy/ds))

	dxdR, err := shape.Jacobian(r, xmat)
	require.NoError(tst, err)
	chk.Deep2(tst, "dxdR", 1e-15, dxdR, [][]float64{{1.5, 0}, {0, 0.5}})

	tol := 1e-7
	verb := chk.Verbose
	x := []float64{12.0, 8.5}
	CheckDSdx(tst, shape, xmat, x, tol, verb)
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. registry")

	chk.Strings(tst, "names", Names(), []string{"hex20", "hex8", "qua4", "qua8", "qua9"})

	for alias, name := range map[string]string{"ED2Q4": "qua4", "ED2Q8": "qua8", "ED2Q9": "qua9", "ED3H8": "hex8", "ED3H20": "hex20"} {
		s, err := New(alias)
		require.NoError(tst, err)
		assert.Equal(tst, name, s.Type)
	}

	_, err := New("tri3")
	assert.Error(tst, err)

	s, _ := New("hex20")
	assert.Equal(tst, 20, s.Nverts, "nverts")
	assert.Equal(tst, 3, s.Gndim, "gndim")
	assert.Equal(tst, 12, len(s.SidesIndices()), "nsides")
	assert.Equal(tst, 12, len(s.InhedronIndices()), "ninhedron")
	chk.Ints(tst, "corners", s.CornerIndices(), []int{0, 1, 2, 3, 4, 5, 6, 7})
	chk.Deep2(tst, "unit cell (mid-edge nodes)", 1e-17, s.UnitCellCoordinates()[8:12], [][]float64{
		{0, -1, -1},
		{-1, 0, -1},
		{-1, -1, 0},
		{1, 0, -1},
	})

	q, _ := New("qua9")
	chk.Deep2(tst, "unit cell", 1e-17, q.UnitCellCoordinates(), [][]float64{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
		{0, -1}, {1, 0}, {0, 1}, {-1, 0},
		{0, 0},
	})
	assert.Nil(tst, q.FacesIndices())
	assert.Equal(tst, 4, len(q.SidesIndices()), "nsides")

	// tables are copies
	sides := q.SidesIndices()
	sides[0][0] = 123
	chk.Ints(tst, "side 0", q.SidesIndices()[0], []int{0, 1})
}

func Test_shape04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape04. VTK codes and ordering")

	// VTK mid-edge nodes: 0-1 1-2 2-3 3-0 (4-5 5-6 6-7 7-4 0-4 1-5 2-6 3-7)
	vtkEdges := map[int][][]int{
		2: {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		3: {{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}},
	}
	for name, code := range map[string]int{"qua4": 9, "qua8": 23, "qua9": 28, "hex8": 12, "hex20": 25} {
		s, err := New(name)
		require.NoError(tst, err)
		assert.Equal(tst, code, s.VtkCode, name)
		order := s.VtkOrder
		if order == nil {
			order = make([]int, s.Nverts)
			for i := range order {
				order[i] = i
			}
		}
		require.Equal(tst, s.Nverts, len(order), name)
		X := s.UnitCellCoordinates()
		ncorners := len(s.CornerIndices())
		for k, edge := range vtkEdges[s.Gndim] {
			if ncorners+k >= s.Nverts || (s.Gndim == 2 && k >= 4) {
				break
			}
			a, b, m := X[order[edge[0]]], X[order[edge[1]]], X[order[ncorners+k]]
			for i := 0; i < s.Gndim; i++ {
				chk.Float64(tst, io.Sf("%s: vtk node %d", name, ncorners+k), 1e-17, m[i], (a[i]+b[i])/2)
			}
		}
	}
}

func Test_shape05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape05. Jacobian of degenerate cells")

	// collinear vertices
	qua4, _ := New("qua4")
	dxdR, err := qua4.Jacobian([]float64{0, 0}, [][]float64{{0, 1, 2, 3}, {0, 0, 0, 0}})
	assert.Error(tst, err)
	assert.Nil(tst, dxdR)

	// collapsed edge (triangle): det J = (1-s)/8 vanishes on s = 1
	xmat := [][]float64{{0, 1, 0, 0}, {0, 0, 1, 1}}
	_, err = qua4.Jacobian([]float64{-1, 1}, xmat)
	assert.Error(tst, err)
	_, err = qua4.Jacobian([]float64{0, 0}, xmat)
	assert.NoError(tst, err)

	// flat hexahedron
	hex8, _ := New("hex8")
	x := make([][]float64, 3)
	for i := 0; i < 2; i++ {
		x[i] = append([]float64{}, hex8.NatCoords[i]...)
	}
	x[2] = make([]float64, hex8.Nverts)
	_, err = hex8.Jacobian([]float64{0.1, 0.2, 0.3}, x)
	assert.Error(tst, err)
}
