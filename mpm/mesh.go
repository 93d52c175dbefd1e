// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"sort"

	"github.com/HaichaoLee/mpm-1/msolid"
	"github.com/HaichaoLee/mpm-1/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// VelocityConstraint prescribes the velocity of one degree of freedom of a node
type VelocityConstraint struct {
	NodeId int     // node id
	Dof    int     // local degree of freedom; e.g. 0 => x, 1 => y
	Value  float64 // prescribed velocity
}

// Mesh holds the background grid and the material points
type Mesh struct {

	// essential
	Ndim    int // space dimension
	Nphases int // number of phases

	// entities
	Nodes     *Container[*Node]     // all nodes
	Cells     *Container[*Cell]     // all cells
	Particles *Container[*Particle] // all particles

	// derived
	Colors     [][]int       // [ncolors] ids of cells (sorted) with each colour
	Node2cells map[int][]int // node id => ids of cells sharing this node (sorted)
	cids       []int         // sorted ids of all cells when Initialise was called

	// options
	Verbose bool // show messages
}

// NewMesh returns a new empty mesh
func NewMesh(ndim, nphases int) (o *Mesh, err error) {
	if ndim != 2 && ndim != 3 {
		return nil, chk.Err("mesh: ndim must be 2 or 3; ndim=%d is invalid", ndim)
	}
	if nphases < 1 {
		return nil, chk.Err("mesh: number of phases must be positive; nphases=%d is invalid", nphases)
	}
	o = &Mesh{
		Ndim:      ndim,
		Nphases:   nphases,
		Nodes:     NewContainer[*Node](),
		Cells:     NewContainer[*Cell](),
		Particles: NewContainer[*Particle](),
	}
	return
}

// AddNode creates a node at x
func (o *Mesh) AddNode(id int, x []float64) (node *Node, err error) {
	if len(x) != o.Ndim {
		return nil, chk.Err("mesh: node %d must have %d coordinates; %d is invalid", id, o.Ndim, len(x))
	}
	node, err = NewNode(id, x, o.Ndim, o.Nphases)
	if err != nil {
		return
	}
	if !o.Nodes.Insert(node) {
		return nil, chk.Err("mesh: node %d exists already", id)
	}
	return
}

// AddCell creates a cell with shape named shapeName connecting nodeIds
func (o *Mesh) AddCell(id int, shapeName string, nodeIds []int) (cell *Cell, err error) {
	shape, err := shp.New(shapeName)
	if err != nil {
		return
	}
	if shape.Gndim != o.Ndim {
		return nil, chk.Err("mesh: shape %s of cell %d is incompatible with ndim=%d", shape.Type, id, o.Ndim)
	}
	cell, err = NewCell(id, len(nodeIds), shape)
	if err != nil {
		return
	}
	for localId, nid := range nodeIds {
		node, ok := o.Nodes.Get(nid)
		if !ok {
			return nil, chk.Err("mesh: cannot find node %d of cell %d", nid, id)
		}
		if err = cell.AddNode(localId, node); err != nil {
			return nil, err
		}
	}
	if !o.Cells.Insert(cell) {
		return nil, chk.Err("mesh: cell %d exists already", id)
	}
	return
}

// AddParticle creates an active particle at x
func (o *Mesh) AddParticle(id int, x []float64) (p *Particle, err error) {
	if len(x) != o.Ndim {
		return nil, chk.Err("mesh: particle %d must have %d coordinates; %d is invalid", id, o.Ndim, len(x))
	}
	p, err = NewActiveParticle(id, o.Nphases, x)
	if err != nil {
		return
	}
	if !o.Particles.Insert(p) {
		return nil, chk.Err("mesh: particle %d exists already", id)
	}
	return
}

// Initialise computes the geometry of all cells, the lists of neighbours and the colours
//  Note: cells are coloured greedily in increasing id order; two cells sharing a node never
//        have the same colour
func (o *Mesh) Initialise() (err error) {

	// geometry
	ids := o.cellIds()
	o.cids = ids
	for _, cid := range ids {
		cell, _ := o.Cells.Get(cid)
		if err = cell.Initialise(); err != nil {
			return
		}
	}

	// node => cells
	o.Node2cells = make(map[int][]int)
	for _, cid := range ids {
		cell, _ := o.Cells.Get(cid)
		for _, nid := range cell.NodeIds {
			o.Node2cells[nid] = append(o.Node2cells[nid], cid)
		}
	}

	// neighbours
	for _, cid := range ids {
		cell, _ := o.Cells.Get(cid)
		set := make(map[int]bool)
		for _, nid := range cell.NodeIds {
			for _, other := range o.Node2cells[nid] {
				if other != cid {
					set[other] = true
				}
			}
		}
		cell.Neighbours = cell.Neighbours[:0]
		for other := range set {
			cell.Neighbours = append(cell.Neighbours, other)
		}
		sort.Ints(cell.Neighbours)
	}

	// colours
	o.Colors = nil
	for _, cid := range ids {
		cell, _ := o.Cells.Get(cid)
		cell.Color = -1
	}
	for _, cid := range ids {
		cell, _ := o.Cells.Get(cid)
		taken := make(map[int]bool)
		for _, other := range cell.Neighbours {
			nb, _ := o.Cells.Get(other)
			if nb.Color >= 0 {
				taken[nb.Color] = true
			}
		}
		color := 0
		for taken[color] {
			color++
		}
		cell.Color = color
		if color == len(o.Colors) {
			o.Colors = append(o.Colors, nil)
		}
		o.Colors[color] = append(o.Colors[color], cid)
	}
	if o.Verbose {
		io.Pf("mesh: %d nodes, %d cells (%d colours), %d particles\n", o.Nodes.Len(), o.Cells.Len(), len(o.Colors), o.Particles.Len())
	}
	return
}

// LocateParticles assigns a cell to every particle without one; returns the ids of particles
// that could not be located (flagged as orphans)
func (o *Mesh) LocateParticles() (orphans []int) {
	o.Particles.ForEach(func(p *Particle) {
		if p.Cell() != nil {
			return
		}
		cell, xi := o.FindCell(p.X, nil)
		if cell == nil {
			p.Orphan = true
			orphans = append(orphans, p.Id)
			return
		}
		p.setCell(cell, xi)
	})
	if o.Verbose && len(orphans) > 0 {
		io.Pforan("mesh: %d particles could not be located\n", len(orphans))
	}
	return
}

// FindCell searches for the cell containing x: first hint, then its neighbours, then all cells
func (o *Mesh) FindCell(x []float64, hint *Cell) (*Cell, []float64) {
	try := func(cell *Cell) []float64 {
		if !cell.PointInCell(x) {
			return nil
		}
		xi, err := cell.LocalCoordinates(x)
		if err != nil || !cell.Shape.InRefCell(xi, XI_TOL) {
			return nil
		}
		return xi
	}
	if hint != nil {
		if xi := try(hint); xi != nil {
			return hint, xi
		}
		for _, cid := range hint.Neighbours {
			cell, _ := o.Cells.Get(cid)
			if xi := try(cell); xi != nil {
				return cell, xi
			}
		}
	}
	ids := o.cids
	if len(ids) != o.Cells.Len() {
		ids = o.cellIds()
	}
	for _, cid := range ids {
		cell, _ := o.Cells.Get(cid)
		if xi := try(cell); xi != nil {
			return cell, xi
		}
	}
	return nil, nil
}

// ComputeParticleVolumes shares the volume of each cell equally among its particles and
// computes the masses of particles with a material model
func (o *Mesh) ComputeParticleVolumes() (err error) {
	for _, cid := range o.cellIds() {
		cell, _ := o.Cells.Get(cid)
		pids := cell.ParticleIds()
		if len(pids) == 0 {
			continue
		}
		vol := cell.Volume() / float64(len(pids))
		for _, pid := range pids {
			p, _ := o.Particles.Get(pid)
			for α := 0; α < o.Nphases; α++ {
				if err = p.AssignVolume(α, vol); err != nil {
					return
				}
				if p.Material() == nil {
					continue
				}
				if err = p.ComputeMass(α); err != nil {
					return
				}
			}
		}
	}
	return
}

// AssignMaterial sets model to all particles
func (o *Mesh) AssignMaterial(model msolid.Model) (err error) {
	for _, p := range o.Particles.Items() {
		if err = p.AssignMaterial(model); err != nil {
			return
		}
	}
	return
}

// AssignVelocityConstraints prescribes nodal velocities
func (o *Mesh) AssignVelocityConstraints(constraints []VelocityConstraint) (err error) {
	for _, c := range constraints {
		node, ok := o.Nodes.Get(c.NodeId)
		if !ok {
			return chk.Err("mesh: cannot find node %d to set velocity constraint", c.NodeId)
		}
		if err = node.AssignVelocityConstraint(c.Dof, c.Value); err != nil {
			return
		}
	}
	return
}

// NodesOnPlane returns the ids of nodes with x[axis] == coord
func (o *Mesh) NodesOnPlane(axis int, coord float64) (ids []int) {
	o.Nodes.ForEach(func(node *Node) {
		if axis < len(node.X) && node.X[axis] > coord-CELL_TOL && node.X[axis] < coord+CELL_TOL {
			ids = append(ids, node.Id)
		}
	})
	sort.Ints(ids)
	return
}

// cellIds returns the sorted ids of all cells
func (o *Mesh) cellIds() (ids []int) {
	ids = make([]int, 0, o.Cells.Len())
	o.Cells.ForEach(func(cell *Cell) {
		ids = append(ids, cell.Id)
	})
	sort.Ints(ids)
	return
}
