// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

// State holds the continuum mechanics data of one material point and phase, including the
// kinematic quantities that rate-type models read when updating stresses
type State struct {

	// essential
	Sig []float64 // σ: current Cauchy stress tensor [nsig]
	Eps []float64 // ε: accumulated strains [nsig]

	// last step
	Deps  []float64 // Δε: strain increment [nsig]
	Rate  []float64 // dε/dt: strain rate [nsig]
	DvolC float64   // Δεv: volumetric strain increment evaluated at the centroid of the cell
}

// NewState allocates state structure
func NewState(nsig int) *State {
	return &State{
		Sig:  make([]float64, nsig),
		Eps:  make([]float64, nsig),
		Deps: make([]float64, nsig),
		Rate: make([]float64, nsig),
	}
}

// Set copies states
//  Note: 1) this and other states must have been pre-allocated with the same sizes
//        2) this method does not check for errors
func (o *State) Set(other *State) {
	copy(o.Sig, other.Sig)
	copy(o.Eps, other.Eps)
	copy(o.Deps, other.Deps)
	copy(o.Rate, other.Rate)
	o.DvolC = other.DvolC
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := NewState(len(o.Sig))
	other.Set(o)
	return other
}
