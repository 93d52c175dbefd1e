// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"bytes"
	"encoding/gob"

	"github.com/HaichaoLee/mpm-1/msolid"
	"github.com/cpmech/gosl/chk"
)

// XI_TOL is the tolerance on natural coordinates for a point to be considered inside its cell
const XI_TOL = 1.0e-8

// Particle holds a material point
//  Note: the methods of one particle must not be called concurrently; different particles
//        may be processed in parallel since they only interact through the nodes.
type Particle struct {

	// essential
	Id      int       // global index
	Nphases int       // number of phases
	X       []float64 // current coordinates [ndim]
	Xi      []float64 // natural coordinates in cell; valid only if cell != nil
	Status  bool      // active
	Orphan  bool      // could not be located in any cell
	CellId  int       // id of cell containing this particle; -1 means unassigned

	// per phase
	mass   []float64
	volume []float64
	states []*msolid.State // stress, strain, strain increment and rate
	vel    [][]float64     // velocity [nphases][ndim]
	mom    [][]float64     // momentum [nphases][ndim]
	acc    [][]float64     // acceleration [nphases][ndim]

	// auxiliary
	cell  *Cell         // cell containing this particle
	model msolid.Model  // constitutive model
	S     []float64     // [nnodes] shape functions at Xi
	B     [][][]float64 // [nnodes][6][ndim] strain-displacement matrices at Xi
}

// NewParticle allocates a new particle
func NewParticle(id, nphases int, x []float64, status bool) (o *Particle, err error) {
	if len(x) < 1 || len(x) > 3 {
		return nil, chk.Err("particle %d: number of coordinates must be 1, 2 or 3; %d is invalid", id, len(x))
	}
	if nphases < 1 {
		return nil, chk.Err("particle %d: number of phases must be positive; nphases=%d is invalid", id, nphases)
	}
	o = &Particle{
		Id:      id,
		Nphases: nphases,
		X:       append([]float64{}, x...),
		Xi:      make([]float64, len(x)),
		Status:  status,
		CellId:  -1,
	}
	o.alloc()
	return
}

// NewActiveParticle allocates a new particle with Status = true
func NewActiveParticle(id, nphases int, x []float64) (*Particle, error) {
	return NewParticle(id, nphases, x, true)
}

// GetId returns the global index
func (o *Particle) GetId() int { return o.Id }

// Ndim returns the space dimension
func (o *Particle) Ndim() int { return len(o.X) }

// Active tells whether this particle takes part in the current step
func (o *Particle) Active() bool { return o.Status && !o.Orphan && o.cell != nil }

// cell ////////////////////////////////////////////////////////////////////////////////////////

// AssignCell locates this particle in cell; the particle is left unchanged on failure
func (o *Particle) AssignCell(cell *Cell) (err error) {
	if cell == nil {
		return chk.Err("particle %d: cannot assign nil cell", o.Id)
	}
	if cell.Ndim != o.Ndim() {
		return chk.Err("particle %d: cell %d has ndim=%d but particle has ndim=%d", o.Id, cell.Id, cell.Ndim, o.Ndim())
	}
	if !cell.PointInCell(o.X) {
		return chk.Err("particle %d: point %v is not inside cell %d", o.Id, o.X, cell.Id)
	}
	xi, err := cell.LocalCoordinates(o.X)
	if err != nil {
		return chk.Err("particle %d: %v", o.Id, err)
	}
	o.setCell(cell, xi)
	return
}

// RemoveCell detaches this particle from its cell
func (o *Particle) RemoveCell() {
	if o.cell != nil {
		o.cell.RemoveParticleId(o.Id)
	}
	o.cell, o.CellId = nil, -1
	o.S, o.B = nil, nil
}

// Cell returns the cell containing this particle (nil if unassigned)
func (o *Particle) Cell() *Cell { return o.cell }

// ComputeReferenceLocation computes the natural coordinates of X in the current cell. The
// particle is flagged as orphan if it has no cell or X falls outside of it.
func (o *Particle) ComputeReferenceLocation() (err error) {
	if o.cell == nil {
		o.Orphan = true
		return chk.Err("particle %d: cell is not assigned", o.Id)
	}
	xi, err := o.cell.LocalCoordinates(o.X)
	if err != nil {
		o.Orphan = true
		return chk.Err("particle %d: %v", o.Id, err)
	}
	if !o.cell.Shape.InRefCell(xi, XI_TOL) {
		o.Orphan = true
		return chk.Err("particle %d: natural coordinates %v are outside cell %d", o.Id, xi, o.cell.Id)
	}
	o.Xi = xi
	return
}

// ComputeShapefn computes the shape functions and B-matrices at Xi
func (o *Particle) ComputeShapefn() (err error) {
	if o.cell == nil {
		return chk.Err("particle %d: cell is not assigned", o.Id)
	}
	B, err := o.cell.Shape.BmatrixReal(o.Xi, o.cell.x)
	if err != nil {
		return chk.Err("particle %d: %v", o.Id, err)
	}
	o.S, o.B = o.cell.Shape.Shapefn(o.Xi), B
	return
}

// Shapefn returns a copy of the cached shape functions
func (o *Particle) Shapefn() []float64 { return append([]float64{}, o.S...) }

// properties //////////////////////////////////////////////////////////////////////////////////

// AssignMaterial sets the constitutive model; the model must be active
func (o *Particle) AssignMaterial(model msolid.Model) error {
	if model == nil || !model.Active() {
		return chk.Err("particle %d: material model must be initialised", o.Id)
	}
	o.model = model
	return nil
}

// Material returns the constitutive model
func (o *Particle) Material() msolid.Model { return o.model }

// AssignVolume sets the volume of phase
func (o *Particle) AssignVolume(phase int, volume float64) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	if volume <= 0 {
		return chk.Err("particle %d: volume must be positive; %g is invalid", o.Id, volume)
	}
	o.volume[phase] = volume
	return
}

// ComputeMass computes mass = density * volume of phase
func (o *Particle) ComputeMass(phase int) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	if o.model == nil {
		return chk.Err("particle %d: material model is required to compute mass", o.Id)
	}
	if o.volume[phase] <= 0 {
		return chk.Err("particle %d: volume is required to compute mass", o.Id)
	}
	o.mass[phase] = o.model.GetRho() * o.volume[phase]
	return
}

// AssignMass sets the mass of phase
func (o *Particle) AssignMass(phase int, mass float64) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	if mass < 0 {
		return chk.Err("particle %d: mass must be non-negative; %g is invalid", o.Id, mass)
	}
	o.mass[phase] = mass
	return
}

// AssignVelocity sets the velocity of phase and updates the momentum
func (o *Particle) AssignVelocity(phase int, velocity []float64) (err error) {
	if err = o.checkVector(phase, "velocity", velocity, o.Ndim()); err != nil {
		return
	}
	for i, v := range velocity {
		o.vel[phase][i] = v
		o.mom[phase][i] = o.mass[phase] * v
	}
	return
}

// AssignStress sets the stress of phase
func (o *Particle) AssignStress(phase int, σ []float64) (err error) {
	if err = o.checkVector(phase, "stress", σ, msolid.NSIG); err != nil {
		return
	}
	copy(o.states[phase].Sig, σ)
	return
}

// Mass returns the mass of phase
func (o *Particle) Mass(phase int) float64 { return o.mass[phase] }

// Volume returns the volume of phase
func (o *Particle) Volume(phase int) float64 { return o.volume[phase] }

// Velocity returns a copy of the velocity of phase
func (o *Particle) Velocity(phase int) []float64 { return append([]float64{}, o.vel[phase]...) }

// Momentum returns a copy of the momentum of phase
func (o *Particle) Momentum(phase int) []float64 { return append([]float64{}, o.mom[phase]...) }

// Acceleration returns a copy of the acceleration of phase
func (o *Particle) Acceleration(phase int) []float64 { return append([]float64{}, o.acc[phase]...) }

// Stress returns a copy of the stress of phase
func (o *Particle) Stress(phase int) []float64 { return append([]float64{}, o.states[phase].Sig...) }

// Strain returns a copy of the strain of phase
func (o *Particle) Strain(phase int) []float64 { return append([]float64{}, o.states[phase].Eps...) }

// State returns a copy of the state of phase
func (o *Particle) State(phase int) *msolid.State { return o.states[phase].GetCopy() }

// mapping /////////////////////////////////////////////////////////////////////////////////////

// MapMassMomentumToNodes scatters mass, volume and momentum of phase
func (o *Particle) MapMassMomentumToNodes(phase int) (err error) {
	if err = o.checkMapping(phase); err != nil {
		return
	}
	if err = o.cell.assignMass(o.S, phase, o.mass[phase]); err != nil {
		return
	}
	if err = o.cell.assignVolume(o.S, phase, o.volume[phase]); err != nil {
		return
	}
	return o.cell.assignMomentum(o.S, phase, o.mass[phase], o.vel[phase])
}

// MapBodyForce scatters mass * gravity of phase to the external forces
func (o *Particle) MapBodyForce(phase int, gravity []float64) (err error) {
	if err = o.checkMapping(phase); err != nil {
		return
	}
	if len(gravity) != o.Ndim() {
		return chk.Err("particle %d: gravity must have %d components; %d is invalid", o.Id, o.Ndim(), len(gravity))
	}
	return o.cell.assignBodyForce(o.S, phase, o.mass[phase], gravity)
}

// MapInternalForce scatters -Bᵀ σ volume of phase to the internal forces
func (o *Particle) MapInternalForce(phase int) (err error) {
	if err = o.checkMapping(phase); err != nil {
		return
	}
	return o.cell.AssignInternalForceToNodes(o.B, phase, o.volume[phase], o.states[phase].Sig)
}

// update //////////////////////////////////////////////////////////////////////////////////////

// ComputeStrain gathers the strain rate from the nodal velocities and integrates the strain
// over Δt. The volumetric strain increment at the cell centroid is also stored.
func (o *Particle) ComputeStrain(phase int, Δt float64) (err error) {
	if err = o.checkMapping(phase); err != nil {
		return
	}
	rate, err := o.cell.ComputeStrainRate(o.B, phase)
	if err != nil {
		return
	}
	dvol, err := o.cell.CentroidVolumetricRate(phase)
	if err != nil {
		return
	}
	s := o.states[phase]
	for i := 0; i < msolid.NSIG; i++ {
		s.Rate[i] = rate[i]
		s.Deps[i] = rate[i] * Δt
		s.Eps[i] += s.Deps[i]
	}
	s.DvolC = dvol * Δt
	return
}

// ComputeStress updates the stress of phase with the constitutive model
func (o *Particle) ComputeStress(phase int) (err error) {
	if err = o.checkPhase(phase); err != nil {
		return
	}
	if o.model == nil {
		return chk.Err("particle %d: material model is not assigned", o.Id)
	}
	s := o.states[phase]
	σ, err := o.model.Update(s.Sig, s.Deps, s)
	if err != nil {
		return chk.Err("particle %d: stress update failed:\n%v", o.Id, err)
	}
	copy(s.Sig, σ)
	return
}

// ComputeUpdatedPosition gathers nodal accelerations and velocities and updates
//  v += Σ S a Δt,  x += Σ S v Δt,  p = m v
func (o *Particle) ComputeUpdatedPosition(phase int, Δt float64) (err error) {
	if err = o.checkMapping(phase); err != nil {
		return
	}
	a, err := o.cell.interpolate(o.S, phase, (*Node).Acceleration)
	if err != nil {
		return
	}
	v, err := o.cell.interpolate(o.S, phase, (*Node).Velocity)
	if err != nil {
		return
	}
	for i := 0; i < o.Ndim(); i++ {
		o.acc[phase][i] = a[i]
		o.vel[phase][i] += a[i] * Δt
		o.mom[phase][i] = o.mass[phase] * o.vel[phase][i]
		o.X[i] += v[i] * Δt
	}
	return
}

// checkpoint //////////////////////////////////////////////////////////////////////////////////

// ParticleData holds the state of a particle for checkpoints
type ParticleData struct {
	Id       int             `json:"id"`
	Status   bool            `json:"status"`
	X        []float64       `json:"x"`
	Mass     []float64       `json:"mass"`
	Volume   []float64       `json:"volume"`
	States   []*msolid.State `json:"states"`
	Velocity [][]float64     `json:"velocity"`
	Momentum [][]float64     `json:"momentum"`
}

// Data returns a deep copy of the state of this particle
func (o *Particle) Data() *ParticleData {
	d := &ParticleData{
		Id:     o.Id,
		Status: o.Status,
		X:      append([]float64{}, o.X...),
		Mass:   append([]float64{}, o.mass...),
		Volume: append([]float64{}, o.volume...),
		States: make([]*msolid.State, o.Nphases),
	}
	for α := 0; α < o.Nphases; α++ {
		d.States[α] = o.states[α].GetCopy()
		d.Velocity = append(d.Velocity, append([]float64{}, o.vel[α]...))
		d.Momentum = append(d.Momentum, append([]float64{}, o.mom[α]...))
	}
	return d
}

// SetData restores the state of this particle; the cell is detached and must be assigned again
func (o *Particle) SetData(d *ParticleData) (err error) {
	nphases := len(d.Mass)
	if nphases < 1 || len(d.X) < 1 || len(d.X) > 3 {
		return chk.Err("particle %d: checkpoint has invalid sizes: len(mass)=%d len(x)=%d", d.Id, nphases, len(d.X))
	}
	if len(d.Volume) != nphases || len(d.States) != nphases || len(d.Velocity) != nphases || len(d.Momentum) != nphases {
		return chk.Err("particle %d: checkpoint must have data for %d phases", d.Id, nphases)
	}
	for α := 0; α < nphases; α++ {
		s := d.States[α]
		if s == nil || len(s.Sig) != msolid.NSIG || len(s.Eps) != msolid.NSIG || len(d.Velocity[α]) != len(d.X) || len(d.Momentum[α]) != len(d.X) {
			return chk.Err("particle %d: checkpoint of phase %d has invalid sizes", d.Id, α)
		}
	}
	o.RemoveCell()
	o.Id, o.Nphases, o.Status, o.Orphan = d.Id, nphases, d.Status, false
	o.X = append([]float64{}, d.X...)
	o.Xi = make([]float64, len(d.X))
	o.alloc()
	copy(o.mass, d.Mass)
	copy(o.volume, d.Volume)
	for α := 0; α < nphases; α++ {
		o.states[α].Set(d.States[α])
		copy(o.vel[α], d.Velocity[α])
		copy(o.mom[α], d.Momentum[α])
	}
	return
}

// Pack serialises the state of this particle
func (o *Particle) Pack() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(o.Data()); err != nil {
		return nil, chk.Err("particle %d: cannot pack:\n%v", o.Id, err)
	}
	return buf.Bytes(), nil
}

// Unpack restores the state serialised by Pack
func (o *Particle) Unpack(b []byte) (err error) {
	var d ParticleData
	if err = gob.NewDecoder(bytes.NewReader(b)).Decode(&d); err != nil {
		return chk.Err("cannot unpack particle:\n%v", err)
	}
	return o.SetData(&d)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

func (o *Particle) alloc() {
	ndim := len(o.X)
	o.mass = make([]float64, o.Nphases)
	o.volume = make([]float64, o.Nphases)
	o.states = make([]*msolid.State, o.Nphases)
	for α := range o.states {
		o.states[α] = msolid.NewState(msolid.NSIG)
	}
	o.vel = allocPhases(o.Nphases, ndim)
	o.mom = allocPhases(o.Nphases, ndim)
	o.acc = allocPhases(o.Nphases, ndim)
}

func (o *Particle) setCell(cell *Cell, xi []float64) {
	if o.cell != nil && o.cell != cell {
		o.cell.RemoveParticleId(o.Id)
	}
	o.cell, o.CellId, o.Xi, o.Orphan = cell, cell.Id, xi, false
	cell.AddParticleId(o.Id)
}

func (o *Particle) checkPhase(phase int) error {
	if phase < 0 || phase >= o.Nphases {
		return chk.Err("particle %d: phase must be in [0, %d); phase=%d is invalid", o.Id, o.Nphases, phase)
	}
	return nil
}

func (o *Particle) checkVector(phase int, name string, v []float64, n int) error {
	if err := o.checkPhase(phase); err != nil {
		return err
	}
	if len(v) != n {
		return chk.Err("particle %d: %s must have %d components; %d is invalid", o.Id, name, n, len(v))
	}
	return nil
}

// checkMapping checks that the particle can exchange data with the nodes of its cell
func (o *Particle) checkMapping(phase int) error {
	if err := o.checkPhase(phase); err != nil {
		return err
	}
	if o.cell == nil {
		return chk.Err("particle %d: cell is not assigned", o.Id)
	}
	if len(o.S) != o.cell.Nnodes || len(o.B) != o.cell.Nnodes {
		return chk.Err("particle %d: shape functions have not been computed", o.Id)
	}
	return nil
}
