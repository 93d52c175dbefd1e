// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpm implements the background grid, the material points and the explicit
// update-stress-first (USF) solver of the material point method
package mpm

import (
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// MINMASS is the nodal mass below which velocities and accelerations are set to zero
const MINMASS = 1.0e-15

// Node holds the accumulators of one vertex of the background grid
//  Note: all Update methods lock the node; thus, many cells may scatter onto the same node
//        concurrently. Getters return copies.
type Node struct {

	// essential
	Id      int       // global index
	X       []float64 // coordinates [ndim]
	Ndof    int       // number of degrees of freedom per phase
	Nphases int       // number of phases

	// accumulators [nphases] or [nphases][ndof]
	mass     []float64
	volume   []float64
	momentum [][]float64
	fext     [][]float64
	fint     [][]float64
	vel      [][]float64
	acc      [][]float64

	// status and constraints
	status bool            // node received mass during this step
	vcons  map[int]float64 // prescribed velocities: dof => value

	mu sync.Mutex
}

// NewNode allocates a new node
func NewNode(id int, x []float64, ndof, nphases int) (o *Node, err error) {
	if len(x) < 1 || len(x) > 3 {
		return nil, chk.Err("node %d: number of coordinates must be 1, 2 or 3; %d is invalid", id, len(x))
	}
	if ndof < 1 {
		return nil, chk.Err("node %d: number of degrees of freedom must be positive; ndof=%d is invalid", id, ndof)
	}
	if nphases < 1 {
		return nil, chk.Err("node %d: number of phases must be positive; nphases=%d is invalid", id, nphases)
	}
	o = &Node{
		Id:      id,
		X:       append([]float64{}, x...),
		Ndof:    ndof,
		Nphases: nphases,
		mass:    make([]float64, nphases),
		volume:  make([]float64, nphases),
		vcons:   make(map[int]float64),
	}
	o.momentum = allocPhases(nphases, ndof)
	o.fext = allocPhases(nphases, ndof)
	o.fint = allocPhases(nphases, ndof)
	o.vel = allocPhases(nphases, ndof)
	o.acc = allocPhases(nphases, ndof)
	return
}

// GetId returns the global index
func (o *Node) GetId() int { return o.Id }

// Ndim returns the space dimension
func (o *Node) Ndim() int { return len(o.X) }

// Status tells whether the node received mass since the last Initialise
func (o *Node) Status() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Initialise zeroes all accumulators; velocity constraints are kept
func (o *Node) Initialise() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = false
	for α := 0; α < o.Nphases; α++ {
		o.mass[α] = 0
		o.volume[α] = 0
		for _, v := range [][]float64{o.momentum[α], o.fext[α], o.fint[α], o.vel[α], o.acc[α]} {
			for i := range v {
				v[i] = 0
			}
		}
	}
}

// update scalars //////////////////////////////////////////////////////////////////////////////

// UpdateMass adds m to (additive) or sets m as (!additive) the mass of phase
func (o *Node) UpdateMass(additive bool, phase int, m float64) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if additive {
		o.mass[phase] += m
	} else {
		o.mass[phase] = m
	}
	if o.mass[phase] > MINMASS {
		o.status = true
	}
	return
}

// UpdateVolume adds v to (additive) or sets v as (!additive) the volume of phase
func (o *Node) UpdateVolume(additive bool, phase int, v float64) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if additive {
		o.volume[phase] += v
	} else {
		o.volume[phase] = v
	}
	return
}

// update vectors //////////////////////////////////////////////////////////////////////////////

// UpdateMomentum updates the momentum of phase
func (o *Node) UpdateMomentum(additive bool, phase int, value []float64) error {
	return o.updateVector("momentum", o.momentum, additive, phase, value)
}

// UpdateExternalForce updates the external force of phase
func (o *Node) UpdateExternalForce(additive bool, phase int, value []float64) error {
	return o.updateVector("external force", o.fext, additive, phase, value)
}

// UpdateInternalForce updates the internal force of phase
func (o *Node) UpdateInternalForce(additive bool, phase int, value []float64) error {
	return o.updateVector("internal force", o.fint, additive, phase, value)
}

// UpdateAcceleration updates the acceleration of phase
func (o *Node) UpdateAcceleration(additive bool, phase int, value []float64) error {
	return o.updateVector("acceleration", o.acc, additive, phase, value)
}

// getters /////////////////////////////////////////////////////////////////////////////////////

// Mass returns the mass of phase
func (o *Node) Mass(phase int) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mass[phase]
}

// Volume returns the volume of phase
func (o *Node) Volume(phase int) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume[phase]
}

// Momentum returns a copy of the momentum of phase
func (o *Node) Momentum(phase int) []float64 { return o.get(o.momentum, phase) }

// ExternalForce returns a copy of the external force of phase
func (o *Node) ExternalForce(phase int) []float64 { return o.get(o.fext, phase) }

// InternalForce returns a copy of the internal force of phase
func (o *Node) InternalForce(phase int) []float64 { return o.get(o.fint, phase) }

// Velocity returns a copy of the velocity of phase
func (o *Node) Velocity(phase int) []float64 { return o.get(o.vel, phase) }

// Acceleration returns a copy of the acceleration of phase
func (o *Node) Acceleration(phase int) []float64 { return o.get(o.acc, phase) }

// solution ////////////////////////////////////////////////////////////////////////////////////

// ComputeVelocity computes v = p / m for all phases and applies the velocity constraints
func (o *Node) ComputeVelocity() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for α := 0; α < o.Nphases; α++ {
		if o.mass[α] > MINMASS {
			floats.ScaleTo(o.vel[α], 1.0/o.mass[α], o.momentum[α])
			continue
		}
		for i := range o.vel[α] {
			o.vel[α][i] = 0
		}
	}
	o.applyConstraints()
}

// ComputeAccelerationVelocity computes a = (fext + fint) / m and updates v += a Δt; then
// applies the velocity constraints
func (o *Node) ComputeAccelerationVelocity(phase int, Δt float64) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mass[phase] > MINMASS {
		for i := 0; i < o.Ndof; i++ {
			o.acc[phase][i] = (o.fext[phase][i] + o.fint[phase][i]) / o.mass[phase]
		}
		floats.AddScaled(o.vel[phase], Δt, o.acc[phase])
	}
	o.applyConstraints()
	return
}

// constraints /////////////////////////////////////////////////////////////////////////////////

// AssignVelocityConstraint prescribes the velocity of dof for all phases
func (o *Node) AssignVelocityConstraint(dof int, value float64) error {
	if dof < 0 || dof >= o.Ndof {
		return chk.Err("node %d: dof must be in [0, %d); dof=%d is invalid", o.Id, o.Ndof, dof)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vcons[dof] = value
	return nil
}

// VelocityConstraints returns the prescribed dofs (sorted) and values
func (o *Node) VelocityConstraints() (dofs []int, values []float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for dof := range o.vcons {
		dofs = append(dofs, dof)
	}
	sort.Ints(dofs)
	for _, dof := range dofs {
		values = append(values, o.vcons[dof])
	}
	return
}

// ApplyVelocityConstraints overwrites the constrained components: velocity = value,
// momentum = mass * value and acceleration = 0
func (o *Node) ApplyVelocityConstraints() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applyConstraints()
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

// applyConstraints requires the lock
func (o *Node) applyConstraints() {
	for dof, v := range o.vcons {
		for α := 0; α < o.Nphases; α++ {
			o.vel[α][dof] = v
			o.momentum[α][dof] = o.mass[α] * v
			o.acc[α][dof] = 0
		}
	}
}

func (o *Node) checkPhase(phase int) error {
	if phase < 0 || phase >= o.Nphases {
		return chk.Err("node %d: phase must be in [0, %d); phase=%d is invalid", o.Id, o.Nphases, phase)
	}
	return nil
}

func (o *Node) updateVector(name string, dest [][]float64, additive bool, phase int, value []float64) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	if len(value) != o.Ndof {
		return chk.Err("node %d: %s must have %d components; %d is invalid", o.Id, name, o.Ndof, len(value))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if additive {
		floats.Add(dest[phase], value)
	} else {
		copy(dest[phase], value)
	}
	return
}

func (o *Node) get(src [][]float64, phase int) []float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]float64{}, src[phase]...)
}

func allocPhases(nphases, n int) (v [][]float64) {
	v = make([][]float64, nphases)
	for α := range v {
		v[α] = make([]float64, n)
	}
	return
}
