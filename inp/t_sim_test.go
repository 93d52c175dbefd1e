// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read simulation file")

	sim, err := ReadSim("data/box.sim", "")
	require.NoError(tst, err)
	assert.Equal(tst, "box", sim.Key)
	assert.Equal(tst, "json", sim.EncType)
	assert.Equal(tst, filepath.Join(os.TempDir(), "mpm", "box"), sim.DirOut)
	assert.Equal(tst, 2, sim.Ndim)
	assert.Equal(tst, "block of Bingham fluid on a rough floor", sim.Data.Desc)

	// solver
	chk.Float64(tst, "dt", 1e-17, sim.Solver.Dt, 0.0005)
	assert.Equal(tst, 10, sim.Solver.Nsteps)
	assert.Equal(tst, 5, sim.Solver.OutEvery)
	chk.Array(tst, "gravity", 1e-17, sim.Solver.Gravity, []float64{0, -10})

	// mesh
	msh := sim.Mesh
	assert.Equal(tst, 6, len(msh.Verts))
	assert.Equal(tst, 2, len(msh.Cells))
	assert.Equal(tst, filepath.Join("data", "box.msh"), msh.FnamePath)
	assert.Equal(tst, 3, len(msh.VertTag2verts[-10]))
	assert.Equal(tst, 1, len(msh.CellTag2cells[-2]))
	chk.Ints(tst, "verts of cell 1", msh.Cells[1].Verts, []int{1, 2, 5, 4})
	assert.Equal(tst, "qua4", msh.Cells[1].Shp.Type)

	// materials
	mat := sim.GetMat("mud")
	require.NotNil(tst, mat)
	assert.Equal(tst, "bingham", mat.Model)
	assert.Equal(tst, 6, len(mat.Prms))
	assert.Nil(tst, sim.GetMat("water"))

	// particles
	require.Equal(tst, 2, len(sim.Particles))
	assert.Equal(tst, 3, sim.Particles[0].Npts)
	assert.Equal(tst, 2, sim.Particles[1].Npts)
	chk.Deep2(tst, "coords", 1e-17, sim.Particles[1].Coords, [][]float64{{1.5, 0.5}})
	chk.Array(tst, "velocity", 1e-17, sim.Particles[1].Velocity, []float64{1, 0})

	// boundary conditions
	require.Equal(tst, 3, len(sim.VelocityBcs))
	chk.Ints(tst, "bottom", sim.BcVerts(sim.VelocityBcs[0]), []int{0, 1, 2})
	chk.Ints(tst, "left", sim.BcVerts(sim.VelocityBcs[1]), []int{0, 3})
	chk.Ints(tst, "vertex", sim.BcVerts(sim.VelocityBcs[2]), []int{5})
	chk.Float64(tst, "value", 1e-17, sim.VelocityBcs[2].Value, 0.5)

	// alias
	sim, err = ReadSim("data/box.sim", "fine")
	require.NoError(tst, err)
	assert.Equal(tst, "box-fine", sim.Key)

	// missing file
	_, err = ReadSim("data/nofile.sim", "")
	assert.Error(tst, err)
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. inline mesh and defaults")

	sim, err := ParseSim([]byte(`
mesh:
  verts:
    - { id: 0, c: [0, 0, 0] }
    - { id: 1, c: [1, 0, 0] }
    - { id: 2, c: [1, 1, 0] }
    - { id: 3, c: [0, 1, 0] }
    - { id: 4, c: [0, 0, 1] }
    - { id: 5, c: [1, 0, 1] }
    - { id: 6, c: [1, 1, 1] }
    - { id: 7, c: [0, 1, 1] }
  cells:
    - { id: 0, tag: -1, type: hex8, verts: [0, 1, 2, 3, 4, 5, 6, 7] }
materials:
  - { name: soil, model: linear-elastic, prms: { density: 2000, youngs_modulus: 1e6, poisson_ratio: 0.25 } }
particles:
  - { mat: soil, celltag: -1, stress: [-1, -1, -1, 0, 0, 0] }
data:
  dirout: /tmp/mpm/cube
`), "", "cube")
	require.NoError(tst, err)
	assert.Equal(tst, 3, sim.Ndim)
	assert.Equal(tst, "gob", sim.EncType)
	assert.Equal(tst, "/tmp/mpm/cube", sim.DirOut)
	chk.Float64(tst, "dt", 1e-17, sim.Solver.Dt, 1e-3)
	assert.Equal(tst, 1, sim.Solver.Nsteps)
	chk.Array(tst, "gravity", 1e-17, sim.Solver.Gravity, []float64{0, 0, 0})
	assert.Equal(tst, 2, sim.Particles[0].Npts)
	chk.Float64(tst, "zmax", 1e-17, sim.Mesh.Zmax, 1)
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. invalid data")

	mesh := `
mesh:
  verts: [ { id: 0, c: [0, 0] }, { id: 1, c: [1, 0] }, { id: 2, c: [1, 1] }, { id: 3, c: [0, 1] } ]
  cells: [ { id: 0, tag: -1, type: qua4, verts: [0, 1, 2, 3] } ]
`
	mats := `
materials: [ { name: m, model: bingham } ]
`
	for _, bad := range []string{
		"desc: [",
		"data: { desc: no mesh }",
		"mshfile: nofile.msh",
		mesh + "solver: { dt: -1 }",
		mesh + "solver: { gravity: [0, 0, -10] }",
		mesh + "solver: { nsteps: -1 }",
		mesh + "materials: [ { name: a }, { name: a } ]",
		mesh + "particles: [ { mat: m, celltag: -1 } ]",
		mesh + mats + "particles: [ { mat: m, celltag: -5 } ]",
		mesh + mats + "particles: [ { mat: m, celltag: -1, velocity: [1] } ]",
		mesh + mats + "particles: [ { mat: m, celltag: -1, stress: [1, 2, 3] } ]",
		mesh + "velocitybcs: [ { verts: [0], dof: 2 } ]",
		mesh + "velocitybcs: [ { plane: { axis: 3 }, dof: 0 } ]",
		`
mesh:
  verts: [ { id: 0, c: [0, 0] }, { id: 2, c: [1, 0] } ]
  cells: [ { id: 0, tag: -1, type: qua4, verts: [0, 1, 2, 3] } ]
`,
		`
mesh:
  verts: [ { id: 0, c: [0, 0] }, { id: 1, c: [1, 0] }, { id: 2, c: [1, 1] } ]
  cells: [ { id: 0, tag: -1, type: qua4, verts: [0, 1, 2] } ]
`,
		`
mesh:
  verts: [ { id: 0, c: [0, 0] }, { id: 1, c: [1, 0] }, { id: 2, c: [1, 1] }, { id: 3, c: [0, 1] } ]
  cells: [ { id: 0, tag: 1, type: qua4, verts: [0, 1, 2, 3] } ]
`,
	} {
		_, err := ParseSim([]byte(bad), "data", "bad")
		io.Pforan("%v\n", err)
		assert.Error(tst, err, bad)
	}
}

func Test_sim04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim04. sample simulation")

	for _, shape := range []string{"qua4", "qua9", "hex8"} {
		sim, err := SampleSim(shape)
		require.NoError(tst, err)
		ndim := sim.Ndim
		nblock := 16
		if ndim == 3 {
			nblock = 64
		}
		assert.Equal(tst, nblock, len(sim.Mesh.CellTag2cells[-2]), shape)
		assert.Equal(tst, "sample-"+shape, sim.Key)
		assert.Equal(tst, 2*ndim, len(sim.VelocityBcs))

		// encode and parse again
		b, err := sim.Encode()
		require.NoError(tst, err)
		res, err := ParseSim(b, "", "sample")
		require.NoError(tst, err, shape)
		assert.Equal(tst, ndim, res.Ndim)
		assert.Equal(tst, len(sim.Mesh.Verts), len(res.Mesh.Verts))
		assert.Equal(tst, len(sim.Mesh.Cells), len(res.Mesh.Cells))
		assert.Equal(tst, nblock, len(res.Mesh.CellTag2cells[-2]))
		assert.Equal(tst, sim.Solver, res.Solver)
		assert.Equal(tst, "bingham", res.GetMat("fluid").Model)
		assert.EqualValues(tst, 1000, res.GetMat("fluid").Prms["density"])
		for i, bc := range res.VelocityBcs {
			chk.Ints(tst, io.Sf("%s: bc %d", shape, i), res.BcVerts(bc), sim.BcVerts(sim.VelocityBcs[i]))
		}
		assert.NotContains(tst, string(b), "velocity:", shape)
		assert.NotContains(tst, string(b), "stress:", shape)
		assert.Equal(tst, 0, len(res.Particles[0].Velocity))
		assert.Equal(tst, 0, len(res.Particles[0].Stress))

		// empty lists mean no initial values
		var doc map[string]interface{}
		require.NoError(tst, yaml.Unmarshal(b, &doc))
		pd := doc["particles"].([]interface{})[0].(map[string]interface{})
		pd["velocity"], pd["stress"], pd["coords"] = []interface{}{}, []interface{}{}, []interface{}{}
		b, err = yaml.Marshal(doc)
		require.NoError(tst, err)
		_, err = ParseSim(b, "", "sample")
		require.NoError(tst, err, shape)

		// wrong sizes
		pd["velocity"] = []interface{}{1.0}
		b, err = yaml.Marshal(doc)
		require.NoError(tst, err)
		_, err = ParseSim(b, "", "sample")
		assert.Error(tst, err, shape)
	}

	_, err := SampleSim("tri3")
	assert.Error(tst, err)
}
