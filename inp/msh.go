// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"os"
	"path/filepath"

	"github.com/HaichaoLee/mpm-1/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `yaml:"id"`  // id
	Tag int       `yaml:"tag"` // tag
	C   []float64 `yaml:"c"`   // coordinates (size==2 or 3)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    `yaml:"id"`    // id
	Tag   int    `yaml:"tag"`   // tag
	Type  string `yaml:"type"`  // geometry type; e.g. "qua4", "hex8"
	Verts []int  `yaml:"verts"` // vertices

	// derived
	Shp *shp.Shape `yaml:"-"` // shape structure
}

// Mesh holds the background grid
type Mesh struct {

	// input data
	Verts []*Vert `yaml:"verts"` // vertices
	Cells []*Cell `yaml:"cells"` // cells

	// derived
	FnamePath  string  `yaml:"-"` // complete filename path
	Ndim       int     `yaml:"-"` // space dimension
	Xmin, Xmax float64 `yaml:"-"` // min and max x-coordinate
	Ymin, Ymax float64 `yaml:"-"` // min and max y-coordinate
	Zmin, Zmax float64 `yaml:"-"` // min and max z-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert    `yaml:"-"` // vertex tag => set of vertices
	CellTag2cells map[int][]*Cell    `yaml:"-"` // cell tag => set of cells
	Ctype2cells   map[string][]*Cell `yaml:"-"` // cell type => set of cells
}

// ReadMsh reads a mesh file (YAML or JSON)
func ReadMsh(dir, fn string) (o *Mesh, err error) {
	o = new(Mesh)
	o.FnamePath = filepath.Join(dir, fn)
	b, err := os.ReadFile(o.FnamePath)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", o.FnamePath, err)
	}
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", o.FnamePath, err)
	}
	if err = o.Init(); err != nil {
		return nil, chk.Err("mesh file %q is invalid:\n%v", o.FnamePath, err)
	}
	return
}

// Init checks the mesh and computes derived data
func (o *Mesh) Init() (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("at least 2 vertices are required; %d is invalid", len(o.Verts))
	}
	if len(o.Cells) < 1 {
		return chk.Err("at least 1 cell is required")
	}

	// vertex related derived data
	o.Ndim = len(o.Verts[0].C)
	if o.Ndim != 2 && o.Ndim != 3 {
		return chk.Err("vertices must have 2 or 3 coordinates; %d is invalid", o.Ndim)
	}
	o.Xmin, o.Xmax = math.Inf(1), math.Inf(-1)
	o.Ymin, o.Ymax = math.Inf(1), math.Inf(-1)
	o.Zmin, o.Zmax = 0, 0
	if o.Ndim == 3 {
		o.Zmin, o.Zmax = math.Inf(1), math.Inf(-1)
	}
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {
		if v.Id != i {
			return chk.Err("vertex ids must be sequential; vertex %d has id=%d", i, v.Id)
		}
		if len(v.C) != o.Ndim {
			return chk.Err("vertex %d must have %d coordinates", v.Id, o.Ndim)
		}
		if v.Tag < 0 {
			o.VertTag2verts[v.Tag] = append(o.VertTag2verts[v.Tag], v)
		}
		o.Xmin, o.Xmax = math.Min(o.Xmin, v.C[0]), math.Max(o.Xmax, v.C[0])
		o.Ymin, o.Ymax = math.Min(o.Ymin, v.C[1]), math.Max(o.Ymax, v.C[1])
		if o.Ndim == 3 {
			o.Zmin, o.Zmax = math.Min(o.Zmin, v.C[2]), math.Max(o.Zmax, v.C[2])
		}
	}

	// cells
	o.CellTag2cells = make(map[int][]*Cell)
	o.Ctype2cells = make(map[string][]*Cell)
	for i, c := range o.Cells {
		if c.Id != i {
			return chk.Err("cell ids must be sequential; cell %d has id=%d", i, c.Id)
		}
		if c.Tag >= 0 {
			return chk.Err("cell %d: tag must be negative; tag=%d is invalid", c.Id, c.Tag)
		}
		if c.Shp, err = shp.New(c.Type); err != nil {
			return chk.Err("cell %d: %v", c.Id, err)
		}
		if c.Shp.Gndim != o.Ndim || len(c.Verts) != c.Shp.Nverts {
			return chk.Err("cell %d: %s requires ndim=%d and %d vertices", c.Id, c.Shp.Type, c.Shp.Gndim, c.Shp.Nverts)
		}
		for _, vid := range c.Verts {
			if vid < 0 || vid >= len(o.Verts) {
				return chk.Err("cell %d: vertex %d does not exist", c.Id, vid)
			}
		}
		o.CellTag2cells[c.Tag] = append(o.CellTag2cells[c.Tag], c)
		o.Ctype2cells[c.Type] = append(o.Ctype2cells[c.Type], c)
	}
	return
}

// CellCoords returns the coordinates matrix [ndim][nverts] of cell c
func (o *Mesh) CellCoords(c *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for n, vid := range c.Verts {
			x[i][n] = o.Verts[vid].C[i]
		}
	}
	return
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%23.15e", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Cell
func (o *Cell) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"verts\":[", o.Id, o.Tag, o.Type)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Mesh
func (o Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, x := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
