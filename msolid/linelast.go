// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// LinElastPrms holds the parameters of the linear elastic model
type LinElastPrms struct {
	Rho float64 `mapstructure:"density"`        // density
	E   float64 `mapstructure:"youngs_modulus"` // Young's modulus
	Nu  float64 `mapstructure:"poisson_ratio"`  // Poisson's coefficient
}

// LinElast implements a linear elastic model with Hooke's law in rate form: Δσ = D Δε
type LinElast struct {
	P      LinElastPrms // parameters
	K, G   float64      // bulk and shear moduli
	D      *mat.Dense   // stiffness [nsig][nsig]
	active bool         // parameters were validated
}

// add model to factory
func init() {
	allocators["linear-elastic"] = func() Model { return new(LinElast) }
}

// Init initialises model
func (o *LinElast) Init(ndim int, prms map[string]interface{}) (err error) {
	o.active = false
	if ndim != 2 && ndim != 3 {
		return chk.Err("linear-elastic: ndim must be 2 or 3; ndim=%d is invalid", ndim)
	}
	var p LinElastPrms
	if err = decodePrms("linear-elastic", prms, &p, "density", "youngs_modulus", "poisson_ratio"); err != nil {
		return
	}
	if p.Rho <= 0 {
		return chk.Err("linear-elastic: density must be positive; density=%g is invalid", p.Rho)
	}
	if o.K, o.G, err = elasticBulk("linear-elastic", p.E, p.Nu); err != nil {
		return
	}
	o.P = p

	// stiffness for engineering shear strains
	λ := o.K - 2.0*o.G/3.0
	o.D = mat.NewDense(NSIG, NSIG, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.D.Set(i, j, λ)
		}
		o.D.Set(i, i, λ+2.0*o.G)
		o.D.Set(i+3, i+3, o.G)
	}
	o.active = true
	return
}

// Active returns whether the parameters have been validated
func (o *LinElast) Active() bool { return o.active }

// Prm returns a parameter by name or UNSET
func (o *LinElast) Prm(name string) float64 {
	if !o.active {
		return UNSET
	}
	switch name {
	case "density":
		return o.P.Rho
	case "youngs_modulus":
		return o.P.E
	case "poisson_ratio":
		return o.P.Nu
	}
	return UNSET
}

// GetRho returns density
func (o *LinElast) GetRho() float64 { return o.P.Rho }

// Update computes σnew = σ + D Δε
func (o *LinElast) Update(σ, Δε []float64, s *State) (σnew []float64, err error) {
	if !o.active {
		return nil, chk.Err("linear-elastic: model is not active")
	}
	if err = checkSizes("linear-elastic", σ, Δε, s); err != nil {
		return
	}
	var Δσ mat.VecDense
	Δσ.MulVec(o.D, mat.NewVecDense(NSIG, append([]float64{}, Δε...)))
	σnew = make([]float64, NSIG)
	for i := 0; i < NSIG; i++ {
		σnew[i] = σ[i] + Δσ.AtVec(i)
	}
	return
}
