// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) YAML or JSON file
package inp

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `yaml:"desc"`    // description of simulation
	DirOut  string `yaml:"dirout"`  // directory for output; e.g. /tmp/mpm
	Encoder string `yaml:"encoder"` // encoder name; e.g. "gob" "json"
}

// SolverData holds data for the explicit solver
type SolverData struct {
	Dt       float64   `yaml:"dt"`       // time step
	Nsteps   int       `yaml:"nsteps"`   // number of steps
	Nworkers int       `yaml:"nworkers"` // number of goroutines; 0 => number of CPUs
	Gravity  []float64 `yaml:"gravity"`  // body force per unit mass [ndim]
	OutEvery int       `yaml:"outevery"` // save particles every OutEvery steps; 0 => only at the end
}

// MatData holds material data
type MatData struct {
	Name  string                 `yaml:"name"`  // name of material
	Model string                 `yaml:"model"` // name of model; e.g. "bingham"
	Prms  map[string]interface{} `yaml:"prms"`  // parameters; e.g. density: 1000
}

// ParticlesData holds data to generate particles
type ParticlesData struct {
	Mat      string      `yaml:"mat"`                // material name
	CellTag  int         `yaml:"celltag"`            // generate particles inside cells with this tag
	Npts     int         `yaml:"npts"`               // number of particles per direction in each cell
	Coords   [][]float64 `yaml:"coords,omitempty"`   // coordinates of particles given explicitly
	Velocity []float64   `yaml:"velocity,omitempty"` // initial velocity
	Stress   []float64   `yaml:"stress,omitempty"`   // initial stress (6 components)
}

// PlaneData selects the vertices with x[Axis] == Coord
type PlaneData struct {
	Axis  int     `yaml:"axis"`  // 0, 1 or 2
	Coord float64 `yaml:"coord"` // coordinate of plane
}

// VelocityBc holds a prescribed velocity
type VelocityBc struct {
	Verts []int      `yaml:"verts,omitempty"` // ids of vertices
	Tag   int        `yaml:"tag"`             // tag of vertices (if negative)
	Plane *PlaneData `yaml:"plane,omitempty"` // vertices on plane
	Dof   int        `yaml:"dof"`             // degree of freedom; e.g. 0 => x
	Value float64    `yaml:"value"`           // prescribed velocity
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data        Data             `yaml:"data"`        // stores global simulation data
	Solver      SolverData       `yaml:"solver"`      // solver data
	Mshfile     string           `yaml:"mshfile"`     // file with mesh data
	Mesh        *Mesh            `yaml:"mesh"`        // mesh given in the simulation file (if Mshfile is empty)
	Materials   []*MatData       `yaml:"materials"`   // all materials
	Particles   []*ParticlesData `yaml:"particles"`   // sets of particles
	VelocityBcs []*VelocityBc    `yaml:"velocitybcs"` // prescribed velocities

	// derived
	DirOut  string `yaml:"-"` // directory to save results
	Key     string `yaml:"-"` // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string `yaml:"-"` // encoder type
	Ndim    int    `yaml:"-"` // space dimension
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {
	o.Dt = 1e-3
	o.Nsteps = 1
}

// PostProcess checks the solver data
func (o *SolverData) PostProcess(ndim int) (err error) {
	if o.Dt <= 0 {
		return chk.Err("solver: dt must be positive; dt=%g is invalid", o.Dt)
	}
	if o.Nsteps < 0 || o.Nworkers < 0 || o.OutEvery < 0 {
		return chk.Err("solver: nsteps, nworkers and outevery must be non-negative")
	}
	if o.Gravity == nil {
		o.Gravity = make([]float64, ndim)
	}
	if len(o.Gravity) != ndim {
		return chk.Err("solver: gravity must have %d components; %d is invalid", ndim, len(o.Gravity))
	}
	return
}

// ReadSim reads all simulation data from a .sim file (YAML or JSON)
func ReadSim(simfilepath, alias string) (o *Simulation, err error) {
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file %q:\n%v", simfilepath, err)
	}
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := io.FnKey(filepath.Base(simfilepath))
	if alias != "" {
		fnkey += "-" + alias
	}
	return ParseSim(b, dir, fnkey)
}

// ParseSim parses simulation data. dir is used to find the mesh file
func ParseSim(b []byte, dir, fnkey string) (o *Simulation, err error) {

	// decode
	o = new(Simulation)
	o.Solver.SetDefault()
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal simulation data:\n%v", err)
	}
	o.Key = fnkey

	// output directory and encoder type
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "mpm", fnkey)
	}
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// mesh
	if o.Mshfile != "" {
		if o.Mesh, err = ReadMsh(dir, o.Mshfile); err != nil {
			return nil, err
		}
	} else {
		if o.Mesh == nil {
			return nil, chk.Err("either mshfile or mesh must be given")
		}
		if err = o.Mesh.Init(); err != nil {
			return nil, chk.Err("mesh is invalid:\n%v", err)
		}
	}
	o.Ndim = o.Mesh.Ndim

	// solver
	if err = o.Solver.PostProcess(o.Ndim); err != nil {
		return nil, err
	}

	// materials
	names := make(map[string]bool)
	for _, m := range o.Materials {
		if m.Name == "" || names[m.Name] {
			return nil, chk.Err("material names must be unique and non-empty; %q is invalid", m.Name)
		}
		names[m.Name] = true
	}

	// particles
	for i, p := range o.Particles {
		if !names[p.Mat] {
			return nil, chk.Err("particles set %d: cannot find material %q", i, p.Mat)
		}
		if len(p.Coords) == 0 && len(o.Mesh.CellTag2cells[p.CellTag]) == 0 {
			return nil, chk.Err("particles set %d: either coords or celltag of existent cells must be given", i)
		}
		if len(p.Velocity) > 0 && len(p.Velocity) != o.Ndim {
			return nil, chk.Err("particles set %d: velocity must have %d components", i, o.Ndim)
		}
		if len(p.Stress) > 0 && len(p.Stress) != 6 {
			return nil, chk.Err("particles set %d: stress must have 6 components", i)
		}
		if p.Npts == 0 {
			p.Npts = 2
		}
	}

	// boundary conditions
	for i, bc := range o.VelocityBcs {
		if bc.Dof < 0 || bc.Dof >= o.Ndim {
			return nil, chk.Err("velocity bc %d: dof must be in [0, %d); dof=%d is invalid", i, o.Ndim, bc.Dof)
		}
		if bc.Plane != nil && (bc.Plane.Axis < 0 || bc.Plane.Axis >= o.Ndim) {
			return nil, chk.Err("velocity bc %d: plane axis=%d is invalid", i, bc.Plane.Axis)
		}
	}
	return
}

// GetMat returns the material named name or nil
func (o *Simulation) GetMat(name string) *MatData {
	for _, m := range o.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// BcVerts returns the ids of the vertices selected by bc
func (o *Simulation) BcVerts(bc *VelocityBc) (ids []int) {
	ids = append(ids, bc.Verts...)
	if bc.Tag < 0 {
		for _, v := range o.Mesh.VertTag2verts[bc.Tag] {
			ids = append(ids, v.Id)
		}
	}
	if bc.Plane != nil {
		for _, v := range o.Mesh.Verts {
			if d := v.C[bc.Plane.Axis] - bc.Plane.Coord; d > -Ztol && d < Ztol {
				ids = append(ids, v.Id)
			}
		}
	}
	return
}

// Encode returns the YAML representation of the simulation data
func (o *Simulation) Encode() ([]byte, error) {
	return yaml.Marshal(o)
}

// Ztol is the tolerance to select vertices on planes
const Ztol = 1e-7
