// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binghamPrms() map[string]interface{} {
	return map[string]interface{}{
		"density":             1000.0,
		"youngs_modulus":      1.0e7,
		"poisson_ratio":       0.3,
		"tau0":                771.8,
		"mu":                  0.0451,
		"critical_shear_rate": 0.2,
	}
}

func Test_bingham01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bingham01. properties")

	mdl, err := New("bingham")
	require.NoError(tst, err)

	// before initialisation
	assert.False(tst, mdl.Active())
	chk.Float64(tst, "density", 1e-17, mdl.Prm("density"), UNSET)
	chk.Float64(tst, "noproperty", 1e-17, mdl.Prm("noproperty"), UNSET)

	// initialise
	err = mdl.Init(2, binghamPrms())
	require.NoError(tst, err)
	assert.True(tst, mdl.Active())
	chk.Float64(tst, "density", 1e-17, mdl.Prm("density"), 1000)
	chk.Float64(tst, "rho", 1e-17, mdl.GetRho(), 1000)
	chk.Float64(tst, "tau0", 1e-17, mdl.Prm("tau0"), 771.8)
	chk.Float64(tst, "noproperty", 1e-17, mdl.Prm("noproperty"), UNSET)

	o := mdl.(*Bingham)
	chk.Float64(tst, "K", 1e-8, o.K, 1.0e7/(3.0*0.4))

	// integers and strings are accepted
	prms := binghamPrms()
	prms["density"] = 1200
	prms["tau0"] = "500"
	require.NoError(tst, mdl.Init(3, prms))
	chk.Float64(tst, "density", 1e-17, mdl.Prm("density"), 1200)
	chk.Float64(tst, "tau0", 1e-17, mdl.Prm("tau0"), 500)
}

func Test_bingham02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bingham02. invalid properties")

	for key, val := range map[string]interface{}{
		"density":             -1.0,
		"youngs_modulus":      0.0,
		"poisson_ratio":       0.5,
		"tau0":                -1.0,
		"critical_shear_rate": -0.1,
	} {
		prms := binghamPrms()
		prms[key] = val
		mdl, _ := New("bingham")
		err := mdl.Init(2, prms)
		io.Pforan("%s: %v\n", key, err)
		assert.Error(tst, err, key)
		assert.False(tst, mdl.Active(), key)
		chk.Float64(tst, key, 1e-17, mdl.Prm("density"), UNSET)
	}

	// missing
	prms := binghamPrms()
	delete(prms, "mu")
	mdl, _ := New("bingham")
	assert.Error(tst, mdl.Init(2, prms))
	assert.False(tst, mdl.Active())

	// wrong ndim
	assert.Error(tst, mdl.Init(1, binghamPrms()))

	// not a number
	prms = binghamPrms()
	prms["mu"] = "abc"
	assert.Error(tst, mdl.Init(2, prms))

	// inactive model cannot update
	_, err := mdl.Update(make([]float64, 6), make([]float64, 6), NewState(6))
	assert.Error(tst, err)
}

func Test_bingham03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bingham03. stresses 2D")

	mdl, _ := New("bingham")
	require.NoError(tst, mdl.Init(2, binghamPrms()))

	// strain rates at (0.5,0.5) of the (±2,±2) cell with velocity prescribed at node 0
	σ := make([]float64, 6)
	Δε := []float64{-0.001, 0.0005, 0, 0, 0, 0}
	s := NewState(6)

	// no strain rate
	σnew, err := mdl.Update(σ, Δε, s)
	require.NoError(tst, err)
	chk.Array(tst, "σ (no rate)", 1e-15, σnew, []float64{0, 0, 0, 0, 0, 0})

	// small rate: unyielded
	s.Rate = []float64{-0.001875, -0.0028125, 0, -0.0046875, 0, 0}
	s.DvolC = -0.025
	σnew, err = mdl.Update(σ, Δε, s)
	require.NoError(tst, err)
	io.Pforan("σnew = %v\n", σnew)
	chk.Array(tst, "σ (unyielded)", 1e-7, σnew, []float64{-208333.3333333333, -208333.3333333333, 0, 0, 0, 0})

	// large rate: yielded
	s.Rate = []float64{-0.1875, -0.28125, 0, -0.46875, 0, 0}
	s.DvolC = -2.5
	σnew, err = mdl.Update(σ, Δε, s)
	require.NoError(tst, err)
	io.Pforan("σnew = %v\n", σnew)
	chk.Array(tst, "σ (yielded)", 1e-5, σnew, []float64{-20833765.64471337, -20833981.80040339, 0, -540.38922505, 0, 0})

	// input is not modified
	chk.Array(tst, "σ", 1e-17, σ, []float64{0, 0, 0, 0, 0, 0})

	// wrong sizes
	_, err = mdl.Update(σ[:4], Δε, s)
	assert.Error(tst, err)
	_, err = mdl.Update(σ, Δε, nil)
	assert.Error(tst, err)
}

func Test_bingham04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bingham04. stresses 3D")

	mdl, _ := New("bingham")
	require.NoError(tst, mdl.Init(3, binghamPrms()))

	σ := make([]float64, 6)
	Δε := make([]float64, 6)
	s := NewState(6)

	// yielded
	s.Rate = []float64{0.1, -0.2, 0.05, 0.3, -0.1, 0.2}
	s.DvolC = -0.01
	σnew, err := mdl.Update(σ, Δε, s)
	require.NoError(tst, err)
	io.Pforan("σnew = %v\n", σnew)
	chk.Array(tst, "σ (yielded)", 1e-8, σnew, []float64{
		-83021.47001977917, -83957.05996044165, -83177.40167655626,
		467.79497033123766, -155.93165677707924, 311.8633135541585,
	})

	// below critical shear rate: hydrostatic only
	s.Rate = []float64{0.01, -0.02, 0.005, 0.03, -0.01, 0.02}
	σnew, err = mdl.Update(σ, Δε, s)
	require.NoError(tst, err)
	chk.Array(tst, "σ (unyielded)", 1e-8, σnew, []float64{-83333.33333333333, -83333.33333333333, -83333.33333333333, 0, 0, 0})
}
