// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements constitutive models for the material points
//
//  Stresses and strains are always stored with 6 components in Voigt order
//      σ = {σxx, σyy, σzz, σxy, σyz, σxz}
//      ε = {εxx, εyy, εzz, γxy, γyz, γxz}  (engineering shear strains)
//  In 2D (plane strain), only the xx, yy and xy components follow from the kinematics;
//  the zz component may be non-zero through the constitutive law.
package msolid

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/mitchellh/mapstructure"
)

// NSIG is the number of stress/strain components
const NSIG = 6

// UNSET is returned by Model.Prm for parameters that have not been set
const UNSET = math.MaxFloat64

// Model defines the interface for material models
//  Update must not modify the model; thus, many goroutines may call it concurrently
type Model interface {
	Init(ndim int, prms map[string]interface{}) error    // validates and stores parameters; activates model
	Active() bool                                        // parameters have been validated
	Prm(name string) float64                             // returns parameter or UNSET
	GetRho() float64                                     // returns density
	Update(σ, Δε []float64, s *State) ([]float64, error) // returns updated stress
}

// New returns new material model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'msolid' database", name)
	}
	return allocator(), nil
}

// Names returns the names of all available models
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}

// decodePrms decodes the parameters in prms into the structure pointed by res and checks
// that all keys in required are given
func decodePrms(model string, prms map[string]interface{}, res interface{}, required ...string) (err error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           res,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	if err = dec.Decode(prms); err != nil {
		return chk.Err("%s: cannot decode parameters:\n%v", model, err)
	}
	given := make(map[string]bool)
	for _, key := range md.Keys {
		given[key] = true
	}
	for _, key := range required {
		if !given[key] {
			return chk.Err("%s: parameter %q is missing", model, key)
		}
	}
	return
}

// checkSizes checks the sizes of stress and strain increment vectors
func checkSizes(model string, σ, Δε []float64, s *State) error {
	if len(σ) != NSIG || len(Δε) != NSIG {
		return chk.Err("%s: stress and strain increment must have %d components; len(σ)=%d len(Δε)=%d are invalid", model, NSIG, len(σ), len(Δε))
	}
	if s == nil {
		return chk.Err("%s: state of material point is required", model)
	}
	return nil
}

// elasticBulk computes the bulk and shear moduli from Young's modulus and Poisson's coefficient
func elasticBulk(model string, E, ν float64) (K, G float64, err error) {
	if E <= 0 {
		return 0, 0, chk.Err("%s: Young's modulus must be positive; E=%g is invalid", model, E)
	}
	if ν <= -1 || ν >= 0.5 {
		return 0, 0, chk.Err("%s: Poisson's coefficient must be in (-1, 0.5); ν=%g is invalid", model, ν)
	}
	K = E / (3.0 * (1.0 - 2.0*ν))
	G = E / (2.0 * (1.0 + ν))
	return
}
