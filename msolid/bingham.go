// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// BinghamPrms holds the parameters of the Bingham model
type BinghamPrms struct {
	Rho  float64 `mapstructure:"density"`             // density
	E    float64 `mapstructure:"youngs_modulus"`      // Young's modulus
	Nu   float64 `mapstructure:"poisson_ratio"`       // Poisson's coefficient
	Tau0 float64 `mapstructure:"tau0"`                // yield stress
	Mu   float64 `mapstructure:"mu"`                  // plastic viscosity
	Gcr  float64 `mapstructure:"critical_shear_rate"` // critical shear rate; avoids singular viscosity
}

// Bingham implements a Bingham viscoplastic fluid
//  The deviatoric stress is τ = η D with the apparent viscosity η = 2 (τ0/γ̇ + μ) when the shear
//  rate γ̇ exceeds the critical shear rate; otherwise η = 0. The fluid is unyielded (τ = 0) while
//  ½ τ:τ < τ0². The pressure follows the volumetric strain increment at the cell centroid.
type Bingham struct {
	Ndim   int                // space dimension
	P      BinghamPrms        // parameters
	K      float64            // bulk modulus
	prms   map[string]float64 // all parameters by name
	active bool               // parameters were validated
}

// minimum critical shear rate
const BINGHAM_MINGCR = 1e-15

// add model to factory
func init() {
	allocators["bingham"] = func() Model { return new(Bingham) }
}

// Init initialises model
func (o *Bingham) Init(ndim int, prms map[string]interface{}) (err error) {
	o.active, o.prms = false, nil
	if ndim != 2 && ndim != 3 {
		return chk.Err("bingham: ndim must be 2 or 3; ndim=%d is invalid", ndim)
	}
	var p BinghamPrms
	err = decodePrms("bingham", prms, &p, "density", "youngs_modulus", "poisson_ratio", "tau0", "mu", "critical_shear_rate")
	if err != nil {
		return
	}
	if p.Rho <= 0 {
		return chk.Err("bingham: density must be positive; density=%g is invalid", p.Rho)
	}
	if p.Tau0 < 0 || p.Mu < 0 || p.Gcr < 0 {
		return chk.Err("bingham: tau0, mu and critical_shear_rate must be non-negative; tau0=%g mu=%g critical_shear_rate=%g are invalid", p.Tau0, p.Mu, p.Gcr)
	}
	K, _, err := elasticBulk("bingham", p.E, p.Nu)
	if err != nil {
		return
	}
	if p.Gcr < BINGHAM_MINGCR {
		p.Gcr = BINGHAM_MINGCR
	}
	o.Ndim, o.P, o.K = ndim, p, K
	o.prms = map[string]float64{
		"density":             p.Rho,
		"youngs_modulus":      p.E,
		"poisson_ratio":       p.Nu,
		"tau0":                p.Tau0,
		"mu":                  p.Mu,
		"critical_shear_rate": p.Gcr,
	}
	o.active = true
	return
}

// Active returns whether the parameters have been validated
func (o *Bingham) Active() bool { return o.active }

// Prm returns a parameter by name or UNSET
func (o *Bingham) Prm(name string) float64 {
	if v, ok := o.prms[name]; ok {
		return v
	}
	return UNSET
}

// GetRho returns density
func (o *Bingham) GetRho() float64 { return o.P.Rho }

// Update computes the new stress from the strain rate and centroid volumetric strain in s
func (o *Bingham) Update(σ, Δε []float64, s *State) (σnew []float64, err error) {

	// check
	if !o.active {
		return nil, chk.Err("bingham: model is not active")
	}
	if err = checkSizes("bingham", σ, Δε, s); err != nil {
		return
	}

	// rate of deformation tensor D, with tensorial shear components
	var D [NSIG]float64
	copy(D[:], s.Rate)
	for i := 3; i < NSIG; i++ {
		D[i] *= 0.5
	}

	// shear rate γ̇ = sqrt(2 D:D)
	DD := 0.0
	for i := 0; i < NSIG; i++ {
		DD += D[i] * D[i]
		if i > 2 {
			DD += D[i] * D[i]
		}
	}
	γdot := math.Sqrt(2.0 * DD)

	// apparent viscosity
	η := 0.0
	if γdot > o.P.Gcr {
		η = 2.0 * (o.P.Tau0/γdot + o.P.Mu)
	}

	// deviatoric stress and yield criterion
	var τ [NSIG]float64
	ττ := 0.0
	for i := 0; i < NSIG; i++ {
		τ[i] = η * D[i]
		ττ += τ[i] * τ[i]
		if i > 2 {
			ττ += τ[i] * τ[i]
		}
	}
	if 0.5*ττ < o.P.Tau0*o.P.Tau0 {
		τ = [NSIG]float64{}
	}

	// stress
	σnew = make([]float64, NSIG)
	p := o.K * s.DvolC
	for i := 0; i < NSIG; i++ {
		σnew[i] = τ[i]
		if i < o.Ndim {
			σnew[i] += p
		}
	}
	return
}
