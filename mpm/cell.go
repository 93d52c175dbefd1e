// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"math"
	"sort"
	"sync"

	"github.com/HaichaoLee/mpm-1/msolid"
	"github.com/HaichaoLee/mpm-1/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// CELL_TOL is the absolute tolerance on areas/volumes used by PointInCell
const CELL_TOL = 1.0e-10

// Cell holds one element of the background grid
//  Note: a cell does not own its nodes; nodes on the boundary between cells are shared.
type Cell struct {

	// essential
	Id     int        // global index
	Nnodes int        // capacity: number of nodes
	Shape  *shp.Shape // shape structure
	Ndim   int        // space dimension

	// connectivity and neighbourhood (set by Mesh)
	NodeIds    []int // [nnodes] global ids of nodes; -1 means unassigned
	Neighbours []int // ids of cells sharing at least one node with this cell (sorted)
	Color      int   // cells with the same colour share no node

	// derived
	nodes       []*Node       // [nnodes] nodes by local index
	nadded      int           // number of nodes added so far
	x           [][]float64   // [ndim][nnodes] coordinates matrix
	volume      float64       // cached volume
	hull        float64       // volume enclosed by the triangulated faces (area in 2D)
	xmin, xmax  []float64     // bounding box
	bcentroid   [][][]float64 // B-matrices at the centroid (xi = 0)
	initialised bool          // nodes attached and geometry computed

	// particles located inside this cell
	pids map[int]bool
	mu   sync.Mutex
}

// NewCell allocates a new cell
func NewCell(id, nnodes int, shape *shp.Shape) (o *Cell, err error) {
	if shape == nil {
		return nil, chk.Err("cell %d: shape is required", id)
	}
	if nnodes < 1 || shape.Nverts < nnodes {
		return nil, chk.Err("cell %d: shape %s has %d functions; nnodes=%d is invalid", id, shape.Type, shape.Nverts, nnodes)
	}
	o = &Cell{
		Id:      id,
		Nnodes:  nnodes,
		Shape:   shape,
		Ndim:    shape.Gndim,
		NodeIds: make([]int, nnodes),
		Color:   -1,
		nodes:   make([]*Node, nnodes),
		pids:    make(map[int]bool),
	}
	for i := range o.NodeIds {
		o.NodeIds[i] = -1
	}
	return
}

// GetId returns the global index
func (o *Cell) GetId() int { return o.Id }

// AddNode attaches node at localId
func (o *Cell) AddNode(localId int, node *Node) error {
	if node == nil {
		return chk.Err("cell %d: cannot add nil node", o.Id)
	}
	if localId < 0 || localId >= o.Nnodes {
		return chk.Err("cell %d: local id must be in [0, %d); %d is invalid", o.Id, o.Nnodes, localId)
	}
	if o.nadded >= o.Nnodes {
		return chk.Err("cell %d: all %d nodes have been added already", o.Id, o.Nnodes)
	}
	if o.nodes[localId] != nil {
		return chk.Err("cell %d: local id %d is taken by node %d", o.Id, localId, o.nodes[localId].Id)
	}
	if node.Ndim() != o.Ndim || node.Ndof != o.Ndim {
		return chk.Err("cell %d: node %d must have %d coordinates and %d dofs", o.Id, node.Id, o.Ndim, o.Ndim)
	}
	o.nodes[localId] = node
	o.NodeIds[localId] = node.Id
	o.nadded++
	o.initialised = false
	return nil
}

// Node returns the node at localId (nil if unassigned)
func (o *Cell) Node(localId int) *Node { return o.nodes[localId] }

// NumNodes returns the number of nodes added so far
func (o *Cell) NumNodes() int { return o.nadded }

// Initialise computes the geometry; it requires all nodes
func (o *Cell) Initialise() (err error) {
	o.initialised = false
	if o.nadded != o.Nnodes {
		return chk.Err("cell %d: %d nodes are required; only %d have been added", o.Id, o.Nnodes, o.nadded)
	}
	if o.Nnodes != o.Shape.Nverts {
		return chk.Err("cell %d: geometry of %s requires %d nodes; nnodes=%d is invalid", o.Id, o.Shape.Type, o.Shape.Nverts, o.Nnodes)
	}
	o.x = utl.Alloc(o.Ndim, o.Nnodes)
	for n, node := range o.nodes {
		for i := 0; i < o.Ndim; i++ {
			o.x[i][n] = node.X[i]
		}
	}
	vol, err := o.ComputeVolume()
	if err != nil {
		return
	}
	if vol < CELL_TOL {
		return chk.Err("cell %d: volume %g is too small (degenerate geometry)", o.Id, vol)
	}
	B, err := o.Shape.BmatrixReal(make([]float64, o.Ndim), o.x)
	if err != nil {
		return chk.Err("cell %d: %v", o.Id, err)
	}
	o.volume, o.bcentroid = vol, B
	o.hull = o.triangulatedVolume(o.centroid())
	o.xmin, o.xmax = make([]float64, o.Ndim), make([]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		o.xmin[i], o.xmax[i] = o.x[i][0], o.x[i][0]
		for _, x := range o.x[i] {
			o.xmin[i] = math.Min(o.xmin[i], x)
			o.xmax[i] = math.Max(o.xmax[i], x)
		}
	}
	o.initialised = true
	return
}

// Initialised tells whether Initialise succeeded
func (o *Cell) Initialised() bool { return o.initialised }

// Volume returns the cached volume
func (o *Cell) Volume() float64 { return o.volume }

// Coords returns a copy of the coordinates matrix [ndim][nnodes]
func (o *Cell) Coords() (x [][]float64) {
	x = utl.Alloc(len(o.x), o.Nnodes)
	for i := range o.x {
		copy(x[i], o.x[i])
	}
	return
}

// geometry ////////////////////////////////////////////////////////////////////////////////////

// ComputeVolume computes the volume (area in 2D) using the corner nodes
//  2D: Bretschneider's formula with sides a, b, c, d and diagonals p, q
//  3D: divergence theorem over the six bilinear faces
func (o *Cell) ComputeVolume() (vol float64, err error) {
	if o.nadded != o.Nnodes {
		return 0, chk.Err("cell %d: volume requires all %d nodes", o.Id, o.Nnodes)
	}
	X := func(n int) []float64 { return o.nodes[n].X }
	if o.Ndim == 2 {
		a2 := dist2(X(0), X(1))
		b2 := dist2(X(1), X(2))
		c2 := dist2(X(2), X(3))
		d2 := dist2(X(3), X(0))
		p2 := dist2(X(0), X(2))
		q2 := dist2(X(1), X(3))
		k := a2 + c2 - b2 - d2
		vol = 0.25 * math.Sqrt(math.Max(4.0*p2*q2-k*k, 0))
		return
	}
	for _, f := range o.Shape.FacesIndices() {
		var c, d1, d2 [3]float64
		for i := 0; i < 3; i++ {
			c[i] = 0.25 * (X(f[0])[i] + X(f[1])[i] + X(f[2])[i] + X(f[3])[i])
			d1[i] = X(f[2])[i] - X(f[0])[i]
			d2[i] = X(f[3])[i] - X(f[1])[i]
		}
		vol += c[0]*(d1[1]*d2[2]-d1[2]*d2[1]) + c[1]*(d1[2]*d2[0]-d1[0]*d2[2]) + c[2]*(d1[0]*d2[1]-d1[1]*d2[0])
	}
	vol /= 6.0
	return
}

// PointInCell tells whether p lies inside the cell. The sum of the areas (volumes) of the
// triangles (tetrahedra) formed by p and the inhedron is compared with the area (volume)
// enclosed by the same triangles; points inside the bounding box that fail this test (e.g.
// near non-planar faces) are checked with their natural coordinates
//  Note: 2D uses the x-y components only
func (o *Cell) PointInCell(p []float64) bool {
	if !o.initialised || len(p) < o.Ndim {
		return false
	}
	for i := 0; i < o.Ndim; i++ {
		if p[i] < o.xmin[i]-CELL_TOL || p[i] > o.xmax[i]+CELL_TOL {
			return false
		}
	}
	if math.Abs(o.triangulatedVolume(p)-o.hull) < CELL_TOL {
		return true
	}
	xi, err := o.LocalCoordinates(p[:o.Ndim])
	return err == nil && o.Shape.InRefCell(xi, XI_TOL)
}

// triangulatedVolume returns the sum of the areas (volumes) of the triangles (tetrahedra)
// formed by p and the inhedron
func (o *Cell) triangulatedVolume(p []float64) (sum float64) {
	for _, t := range o.Shape.InhedronIndices() {
		a := o.nodes[t[0]].X
		b := o.nodes[t[1]].X
		if o.Ndim == 2 {
			sum += 0.5 * math.Abs((a[0]-p[0])*(b[1]-p[1])-(a[1]-p[1])*(b[0]-p[0]))
			continue
		}
		c := o.nodes[t[2]].X
		sum += math.Abs(det3(a, b, c, p)) / 6.0
	}
	return
}

// centroid returns the mean of the corner nodes
func (o *Cell) centroid() (c []float64) {
	c = make([]float64, o.Ndim)
	corners := o.Shape.CornerIndices()
	for _, n := range corners {
		for i := 0; i < o.Ndim; i++ {
			c[i] += o.x[i][n] / float64(len(corners))
		}
	}
	return
}

// LocalCoordinates computes the natural coordinates of p
func (o *Cell) LocalCoordinates(p []float64) (xi []float64, err error) {
	if !o.initialised {
		return nil, chk.Err("cell %d: cell is not initialised", o.Id)
	}
	if len(p) != o.Ndim {
		return nil, chk.Err("cell %d: point must have %d coordinates; %d is invalid", o.Id, o.Ndim, len(p))
	}
	xi = make([]float64, o.Ndim)
	if err = o.Shape.InvMap(xi, p, o.x); err != nil {
		return nil, chk.Err("cell %d: %v", o.Id, err)
	}
	return
}

// scatter /////////////////////////////////////////////////////////////////////////////////////

// AssignMassToNodes adds S(xi) * mass to the nodal masses of phase
func (o *Cell) AssignMassToNodes(xi []float64, phase int, mass float64) error {
	S, err := o.shapefn(xi)
	if err != nil {
		return err
	}
	return o.assignMass(S, phase, mass)
}

// AssignVolumeToNodes adds S(xi) * volume to the nodal volumes of phase
func (o *Cell) AssignVolumeToNodes(xi []float64, phase int, volume float64) error {
	S, err := o.shapefn(xi)
	if err != nil {
		return err
	}
	return o.assignVolume(S, phase, volume)
}

// AssignMomentumToNodes adds S(xi) * mass * velocity to the nodal momenta of phase
func (o *Cell) AssignMomentumToNodes(xi []float64, phase int, mass float64, velocity []float64) error {
	S, err := o.shapefn(xi)
	if err != nil {
		return err
	}
	return o.assignMomentum(S, phase, mass, velocity)
}

// AssignBodyForceToNodes adds S(xi) * mass * gravity to the nodal external forces of phase
func (o *Cell) AssignBodyForceToNodes(xi []float64, phase int, mass float64, gravity []float64) error {
	S, err := o.shapefn(xi)
	if err != nil {
		return err
	}
	return o.assignBodyForce(S, phase, mass, gravity)
}

// AssignInternalForceToNodes adds -Bᵀ σ volume to the nodal internal forces of phase
//  B[nnodes][6][ndim] -- strain-displacement matrices at the material point
func (o *Cell) AssignInternalForceToNodes(B [][][]float64, phase int, volume float64, σ []float64) (err error) {
	if err = o.check(phase); err != nil {
		return
	}
	if len(B) != o.Nnodes || len(σ) != msolid.NSIG {
		return chk.Err("cell %d: B must have %d matrices and σ %d components; len(B)=%d len(σ)=%d are invalid", o.Id, o.Nnodes, msolid.NSIG, len(B), len(σ))
	}
	f := make([]float64, o.Ndim)
	for n, node := range o.nodes {
		for j := 0; j < o.Ndim; j++ {
			f[j] = 0
			for k := 0; k < msolid.NSIG; k++ {
				f[j] -= B[n][k][j] * σ[k] * volume
			}
		}
		node.UpdateInternalForce(true, phase, f)
	}
	return
}

// gather //////////////////////////////////////////////////////////////////////////////////////

// InterpolateVelocity computes Σ S(xi) v of phase
func (o *Cell) InterpolateVelocity(xi []float64, phase int) ([]float64, error) {
	S, err := o.shapefn(xi)
	if err != nil {
		return nil, err
	}
	return o.interpolate(S, phase, (*Node).Velocity)
}

// InterpolateAcceleration computes Σ S(xi) a of phase
func (o *Cell) InterpolateAcceleration(xi []float64, phase int) ([]float64, error) {
	S, err := o.shapefn(xi)
	if err != nil {
		return nil, err
	}
	return o.interpolate(S, phase, (*Node).Acceleration)
}

// ComputeStrainRate computes dε/dt = Σ B v of phase (Voigt, engineering shear)
func (o *Cell) ComputeStrainRate(B [][][]float64, phase int) (rate []float64, err error) {
	if err = o.check(phase); err != nil {
		return
	}
	if len(B) != o.Nnodes {
		return nil, chk.Err("cell %d: B must have %d matrices; %d is invalid", o.Id, o.Nnodes, len(B))
	}
	rate = make([]float64, msolid.NSIG)
	for n, node := range o.nodes {
		v := node.Velocity(phase)
		for k := 0; k < msolid.NSIG; k++ {
			for j := 0; j < o.Ndim; j++ {
				rate[k] += B[n][k][j] * v[j]
			}
		}
	}
	return
}

// CentroidVolumetricRate computes the volumetric strain rate at the centroid used by
// pressure-dependent fluids
//  Note: the trace of the strain rate is accumulated after the contribution of each node;
//        i.e. dεv = Σ_m tr(Σ_{n≤m} Bc_n v_n)
func (o *Cell) CentroidVolumetricRate(phase int) (dvol float64, err error) {
	if err = o.check(phase); err != nil {
		return
	}
	rate := make([]float64, o.Ndim)
	for n, node := range o.nodes {
		v := node.Velocity(phase)
		for k := 0; k < o.Ndim; k++ {
			for j := 0; j < o.Ndim; j++ {
				rate[k] += o.bcentroid[n][k][j] * v[j]
			}
			dvol += rate[k]
		}
	}
	return
}

// membership //////////////////////////////////////////////////////////////////////////////////

// AddParticleId registers particle pid as inside this cell
func (o *Cell) AddParticleId(pid int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pids[pid] = true
}

// RemoveParticleId unregisters particle pid
func (o *Cell) RemoveParticleId(pid int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pids, pid)
}

// ParticleIds returns the sorted ids of particles inside this cell
func (o *Cell) ParticleIds() (ids []int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ids = make([]int, 0, len(o.pids))
	for id := range o.pids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// Status tells whether the cell holds particles
func (o *Cell) Status() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pids) > 0
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

func (o *Cell) shapefn(xi []float64) ([]float64, error) {
	if len(xi) != o.Ndim {
		return nil, chk.Err("cell %d: natural coordinates must have %d components; %d is invalid", o.Id, o.Ndim, len(xi))
	}
	return o.Shape.Shapefn(xi), nil
}

// check checks that the cell is usable and that phase exists in all nodes
func (o *Cell) check(phase int) error {
	if !o.initialised {
		return chk.Err("cell %d: cell is not initialised", o.Id)
	}
	for _, node := range o.nodes {
		if phase < 0 || phase >= node.Nphases {
			return chk.Err("cell %d: phase=%d is invalid for node %d", o.Id, phase, node.Id)
		}
	}
	return nil
}

func (o *Cell) checkVector(name string, S, v []float64) error {
	if len(S) != o.Nnodes {
		return chk.Err("cell %d: shape functions must have %d components; %d is invalid", o.Id, o.Nnodes, len(S))
	}
	if v != nil && len(v) != o.Ndim {
		return chk.Err("cell %d: %s must have %d components; %d is invalid", o.Id, name, o.Ndim, len(v))
	}
	return nil
}

func (o *Cell) assignMass(S []float64, phase int, mass float64) (err error) {
	if err = o.check(phase); err != nil {
		return
	}
	if err = o.checkVector("", S, nil); err != nil {
		return
	}
	for n, node := range o.nodes {
		node.UpdateMass(true, phase, S[n]*mass)
	}
	return
}

func (o *Cell) assignVolume(S []float64, phase int, volume float64) (err error) {
	if err = o.check(phase); err != nil {
		return
	}
	if err = o.checkVector("", S, nil); err != nil {
		return
	}
	for n, node := range o.nodes {
		node.UpdateVolume(true, phase, S[n]*volume)
	}
	return
}

func (o *Cell) assignMomentum(S []float64, phase int, mass float64, velocity []float64) (err error) {
	return o.scatterVector("velocity", (*Node).UpdateMomentum, S, phase, mass, velocity)
}

func (o *Cell) assignBodyForce(S []float64, phase int, mass float64, gravity []float64) (err error) {
	return o.scatterVector("gravity", (*Node).UpdateExternalForce, S, phase, mass, gravity)
}

// scatterVector adds S[n] * c * v to each node through update
func (o *Cell) scatterVector(name string, update func(*Node, bool, int, []float64) error, S []float64, phase int, c float64, v []float64) (err error) {
	if err = o.check(phase); err != nil {
		return
	}
	if err = o.checkVector(name, S, v); err != nil {
		return
	}
	w := make([]float64, o.Ndim)
	for n, node := range o.nodes {
		for i := 0; i < o.Ndim; i++ {
			w[i] = S[n] * c * v[i]
		}
		update(node, true, phase, w)
	}
	return
}

func (o *Cell) interpolate(S []float64, phase int, get func(*Node, int) []float64) (res []float64, err error) {
	if err = o.check(phase); err != nil {
		return
	}
	if err = o.checkVector("", S, nil); err != nil {
		return
	}
	res = make([]float64, o.Ndim)
	for n, node := range o.nodes {
		v := get(node, phase)
		for i := 0; i < o.Ndim; i++ {
			res[i] += S[n] * v[i]
		}
	}
	return
}

// dist2 returns the squared distance between a and b
func dist2(a, b []float64) (d float64) {
	for i := range a {
		d += (a[i] - b[i]) * (a[i] - b[i])
	}
	return
}

// det3 returns (a-p) · ((b-p) × (c-p))
func det3(a, b, c, p []float64) float64 {
	u := [3]float64{a[0] - p[0], a[1] - p[1], a[2] - p[2]}
	v := [3]float64{b[0] - p[0], b[1] - p[1], b[2] - p[2]}
	w := [3]float64{c[0] - p[0], c[1] - p[1], c[2] - p[2]}
	return u[0]*(v[1]*w[2]-v[2]*w[1]) + u[1]*(v[2]*w[0]-v[0]*w[2]) + u[2]*(v[0]*w[1]-v[1]*w[0])
}
