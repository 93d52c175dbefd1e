// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_gen01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gen01. qua4 and qua9 boxes")

	msh, err := GenBox("qua4", []float64{0, 0}, []float64{2, 3}, []int{2, 3}, -1)
	require.NoError(tst, err)
	assert.Equal(tst, 2, msh.Ndim)
	assert.Equal(tst, 12, len(msh.Verts))
	assert.Equal(tst, 6, len(msh.Cells))
	chk.Ints(tst, "cell 0", msh.Cells[0].Verts, []int{0, 1, 4, 3})
	chk.Ints(tst, "cell 5", msh.Cells[5].Verts, []int{7, 8, 11, 10})
	chk.Array(tst, "vert 11", 1e-17, msh.Verts[11].C, []float64{2, 3})
	chk.Float64(tst, "xmax", 1e-17, msh.Xmax, 2)
	chk.Float64(tst, "ymax", 1e-17, msh.Ymax, 3)
	assert.Equal(tst, 6, len(msh.CellTag2cells[-1]))
	assert.Equal(tst, 6, len(msh.Ctype2cells["qua4"]))
	io.Pforan("%v\n", msh)

	msh, err = GenBox("qua9", []float64{0, 0}, []float64{2, 2}, []int{1, 1}, -3)
	require.NoError(tst, err)
	assert.Equal(tst, 9, len(msh.Verts))
	chk.Ints(tst, "cell 0", msh.Cells[0].Verts, []int{0, 2, 8, 6, 1, 5, 7, 3, 4})
	chk.Array(tst, "centre", 1e-17, msh.Verts[4].C, []float64{1, 1})
	assert.Equal(tst, -3, msh.Cells[0].Tag)

	// errors
	_, err = GenBox("qua8", []float64{0, 0}, []float64{1, 1}, []int{1, 1}, -1)
	assert.Error(tst, err)
	_, err = GenBox("tri3", []float64{0, 0}, []float64{1, 1}, []int{1, 1}, -1)
	assert.Error(tst, err)
	_, err = GenBox("qua4", []float64{0, 0}, []float64{1, 1, 1}, []int{1, 1}, -1)
	assert.Error(tst, err)
	_, err = GenBox("qua4", []float64{0, 0}, []float64{1, 0}, []int{1, 1}, -1)
	assert.Error(tst, err)
	_, err = GenBox("qua4", []float64{0, 0}, []float64{1, 1}, []int{1, 0}, -1)
	assert.Error(tst, err)
	_, err = GenBox("qua4", []float64{0, 0}, []float64{1, 1}, []int{1, 1}, 0)
	assert.Error(tst, err, "cell tags must be negative")
}

func Test_gen02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gen02. hex8 box")

	msh, err := GenBox("hex8", []float64{0, 0, 0}, []float64{1, 1, 2}, []int{1, 1, 2}, -1)
	require.NoError(tst, err)
	assert.Equal(tst, 3, msh.Ndim)
	assert.Equal(tst, 12, len(msh.Verts))
	assert.Equal(tst, 2, len(msh.Cells))
	chk.Ints(tst, "cell 0", msh.Cells[0].Verts, []int{0, 1, 3, 2, 4, 5, 7, 6})
	chk.Ints(tst, "cell 1", msh.Cells[1].Verts, []int{4, 5, 7, 6, 8, 9, 11, 10})
	chk.Float64(tst, "zmax", 1e-17, msh.Zmax, 2)
	chk.Array(tst, "vert 11", 1e-17, msh.Verts[11].C, []float64{1, 1, 2})
}

func Test_gen03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gen03. points in cells")

	msh, err := GenBox("qua4", []float64{0, 0}, []float64{2, 2}, []int{1, 1}, -1)
	require.NoError(tst, err)
	pts, err := msh.GenPoints(msh.Cells[0], 2)
	require.NoError(tst, err)
	chk.Deep2(tst, "points", 1e-15, pts, [][]float64{{0.5, 0.5}, {1.5, 0.5}, {0.5, 1.5}, {1.5, 1.5}})
	pts, err = msh.GenPoints(msh.Cells[0], 1)
	require.NoError(tst, err)
	chk.Deep2(tst, "centre", 1e-15, pts, [][]float64{{1, 1}})
	_, err = msh.GenPoints(msh.Cells[0], 0)
	assert.Error(tst, err)

	hex, err := GenBox("hex8", []float64{0, 0, 0}, []float64{1, 1, 1}, []int{1, 1, 1}, -1)
	require.NoError(tst, err)
	pts, err = hex.GenPoints(hex.Cells[0], 2)
	require.NoError(tst, err)
	require.Equal(tst, 8, len(pts))
	chk.Array(tst, "first", 1e-15, pts[0], []float64{0.25, 0.25, 0.25})
	chk.Array(tst, "last", 1e-15, pts[7], []float64{0.75, 0.75, 0.75})
}
