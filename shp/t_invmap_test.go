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

func Test_invmap01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("invmap01. qua4 and qua8")

	// qua4
	shape, _ := New("qua4")
	xmat := [][]float64{
		{0.5, 1.5, 1.5, 0.5},
		{0.5, 0.5, 1.5, 1.5},
	}
	r := make([]float64, 2)
	err := shape.InvMap(r, []float64{0.75, 0.75}, xmat)
	require.NoError(tst, err)
	io.Pforan("r = %v\n", r)
	chk.Array(tst, "r", 1e-15, r, []float64{-0.5, -0.5})
	assert.True(tst, shape.InRefCell(r, 1e-10))

	// outside
	err = shape.InvMap(r, []float64{3.0, 0.75}, xmat)
	require.NoError(tst, err)
	chk.Array(tst, "r", 1e-15, r, []float64{4.0, -0.5})
	assert.False(tst, shape.InRefCell(r, 1e-10))

	// qua8 with straight sides
	shape, _ = New("qua8")
	xmat = [][]float64{
		{0.5, 1.5, 1.5, 0.5, 1.0, 1.5, 1.0, 0.5},
		{0.5, 0.5, 1.5, 1.5, 0.5, 1.0, 1.5, 1.0},
	}
	err = shape.InvMap(r, []float64{0.75, 0.75}, xmat)
	require.NoError(tst, err)
	chk.Array(tst, "r", 1e-14, r, []float64{-0.5, -0.5})
}

func Test_invmap02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("invmap02. hex8 and distorted qua4")

	shape, _ := New("hex8")
	xmat := [][]float64{
		{0, 2, 2, 0, 0, 2, 2, 0},
		{0, 0, 2, 2, 0, 0, 2, 2},
		{0, 0, 0, 0, 2, 2, 2, 2},
	}
	r := make([]float64, 3)
	err := shape.InvMap(r, []float64{1.5, 1.5, 1.5}, xmat)
	require.NoError(tst, err)
	io.Pforan("r = %v\n", r)
	chk.Array(tst, "r", 1e-15, r, []float64{0.5, 0.5, 0.5})

	// distorted quadrilateral: map forward and back
	q4, _ := New("qua4")
	xq := [][]float64{
		{0, 3, 4, -0.5},
		{0, 0.5, 3, 2},
	}
	rc := []float64{0.3, -0.7}
	S := q4.Shapefn(rc)
	y := make([]float64, 2)
	for i := 0; i < 2; i++ {
		for n := 0; n < 4; n++ {
			y[i] += S[n] * xq[i][n]
		}
	}
	r2 := make([]float64, 2)
	err = q4.InvMap(r2, y, xq)
	require.NoError(tst, err)
	chk.Array(tst, "r", 1e-12, r2, rc)

	// degenerate
	err = q4.InvMap(r2, y, [][]float64{{0, 1, 2, 3}, {0, 0, 0, 0}})
	assert.Error(tst, err)
}
