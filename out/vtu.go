// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	goio "io"
	"os"
	"path/filepath"

	"github.com/HaichaoLee/mpm-1/inp"
	"github.com/HaichaoLee/mpm-1/mpm"
	"github.com/HaichaoLee/mpm-1/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// WriteGridVtu writes the background grid as a VTK unstructured grid
func WriteGridVtu(w goio.Writer, msh *inp.Mesh) (err error) {
	geo := new(bytes.Buffer)
	dat := new(bytes.Buffer)

	// coordinates
	io.Ff(geo, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, v := range msh.Verts {
		io.Ff(geo, "%23.15e %23.15e %23.15e ", v.C[0], v.C[1], coord(v.C, 2))
	}
	io.Ff(geo, "\n</DataArray>\n</Points>\n")

	// connectivities
	io.Ff(geo, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		if c.Shp == nil || c.Shp.VtkCode < 1 {
			return chk.Err("cannot handle cell type %q", c.Type)
		}
		for j := 0; j < c.Shp.Nverts; j++ {
			k := j
			if c.Shp.VtkOrder != nil {
				k = c.Shp.VtkOrder[j]
			}
			io.Ff(geo, "%d ", c.Verts[k])
		}
	}

	// offsets
	io.Ff(geo, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	var offset int
	for _, c := range msh.Cells {
		offset += c.Shp.Nverts
		io.Ff(geo, "%d ", offset)
	}

	// types
	io.Ff(geo, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		io.Ff(geo, "%d ", c.Shp.VtkCode)
	}
	io.Ff(geo, "\n</DataArray>\n</Cells>\n")

	// points data
	io.Ff(dat, "<PointData Scalars=\"TheScalars\">\n")
	io.Ff(dat, "<DataArray type=\"Int32\" Name=\"nid\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, v := range msh.Verts {
		io.Ff(dat, "%d ", v.Id)
	}
	io.Ff(dat, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"tag\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, v := range msh.Verts {
		io.Ff(dat, "%d ", iabs(v.Tag))
	}
	io.Ff(dat, "\n</DataArray>\n</PointData>\n")

	// cells data
	io.Ff(dat, "<CellData Scalars=\"TheScalars\">\n")
	io.Ff(dat, "<DataArray type=\"Int32\" Name=\"eid\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		io.Ff(dat, "%d ", c.Id)
	}
	io.Ff(dat, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"tag\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		io.Ff(dat, "%d ", iabs(c.Tag))
	}
	io.Ff(dat, "\n</DataArray>\n</CellData>\n")
	return vtu_write(w, len(msh.Verts), len(msh.Cells), geo, dat)
}

// WriteParticlesVtu writes particles as VTK vertices with their results (first phase)
func WriteParticlesVtu(w goio.Writer, m *mpm.Mesh) (err error) {
	geo := new(bytes.Buffer)
	dat := new(bytes.Buffer)
	np := m.Particles.Len()

	// coordinates
	io.Ff(geo, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	m.Particles.ForEach(func(p *mpm.Particle) {
		io.Ff(geo, "%23.15e %23.15e %23.15e ", p.X[0], p.X[1], coord(p.X, 2))
	})
	io.Ff(geo, "\n</DataArray>\n</Points>\n")

	// one vertex per particle
	io.Ff(geo, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for i := 0; i < np; i++ {
		io.Ff(geo, "%d ", i)
	}
	io.Ff(geo, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for i := 0; i < np; i++ {
		io.Ff(geo, "%d ", i+1)
	}
	io.Ff(geo, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for i := 0; i < np; i++ {
		io.Ff(geo, "%d ", shp.VTK_VERTEX)
	}
	io.Ff(geo, "\n</DataArray>\n</Cells>\n")

	// points data
	io.Ff(dat, "<PointData Scalars=\"TheScalars\">\n")
	io.Ff(dat, "<DataArray type=\"Int32\" Name=\"pid\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	m.Particles.ForEach(func(p *mpm.Particle) {
		io.Ff(dat, "%d ", p.Id)
	})
	io.Ff(dat, "\n</DataArray>\n<DataArray type=\"Float64\" Name=\"mass\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	m.Particles.ForEach(func(p *mpm.Particle) {
		io.Ff(dat, "%23.15e ", p.Mass(0))
	})
	io.Ff(dat, "\n</DataArray>\n<DataArray type=\"Float64\" Name=\"velocity\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	m.Particles.ForEach(func(p *mpm.Particle) {
		v := p.Velocity(0)
		io.Ff(dat, "%23.15e %23.15e %23.15e ", v[0], v[1], coord(v, 2))
	})
	io.Ff(dat, "\n</DataArray>\n<DataArray type=\"Float64\" Name=\"stress\" NumberOfComponents=\"6\" format=\"ascii\">\n")
	m.Particles.ForEach(func(p *mpm.Particle) {
		for _, s := range p.Stress(0) {
			io.Ff(dat, "%23.15e ", s)
		}
	})
	io.Ff(dat, "\n</DataArray>\n</PointData>\n")
	return vtu_write(w, np, np, geo, dat)
}

// WriteVtuFiles writes one particles file per output time, the grid and a ParaView collection
// to dirout
func (o *Output) WriteVtuFiles(dirout string) (err error) {
	if err = os.MkdirAll(dirout, 0777); err != nil {
		return chk.Err("cannot create directory for vtu files (%s):\n%v", dirout, err)
	}
	fnkey := o.Sim.Key
	grid := fnkey + "_grid.vtu"
	if err = writeFile(filepath.Join(dirout, grid), func(w goio.Writer) error {
		return WriteGridVtu(w, o.Sim.Mesh)
	}); err != nil {
		return
	}
	m, err := mpm.NewMesh(o.Sim.Ndim, 1)
	if err != nil {
		return
	}
	pvd := new(bytes.Buffer)
	io.Ff(pvd, "<?xml version=\"1.0\"?>\n<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n<Collection>\n")
	for tidx, t := range o.Sum.OutTimes {
		if err = o.Sum.ReadParticles(m, tidx); err != nil {
			return
		}
		fn := io.Sf("%s_par_%06d.vtu", fnkey, tidx)
		if err = writeFile(filepath.Join(dirout, fn), func(w goio.Writer) error {
			return WriteParticlesVtu(w, m)
		}); err != nil {
			return
		}
		io.Ff(pvd, "<DataSet timestep=\"%23.15e\" group=\"particles\" part=\"0\" file=\"%s\"/>\n", t, fn)
		io.Ff(pvd, "<DataSet timestep=\"%23.15e\" group=\"grid\" part=\"1\" file=\"%s\"/>\n", t, grid)
	}
	io.Ff(pvd, "</Collection>\n</VTKFile>\n")
	return writeFile(filepath.Join(dirout, fnkey+".pvd"), func(w goio.Writer) error {
		_, err := w.Write(pvd.Bytes())
		return err
	})
}

// headers and footers ///////////////////////////////////////////////////////////////////////////////

func vtu_write(w goio.Writer, npoints, ncells int, geo, dat *bytes.Buffer) (err error) {
	var hdr, foo bytes.Buffer
	io.Ff(&hdr, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&hdr, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", npoints, ncells)
	io.Ff(&foo, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	for _, b := range []*bytes.Buffer{&hdr, geo, dat, &foo} {
		if _, err = w.Write(b.Bytes()); err != nil {
			return
		}
	}
	return
}

func writeFile(filename string, write func(w goio.Writer) error) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	if err = write(fil); err != nil {
		return
	}
	io.Pfblue2("file <%s> written\n", filename)
	return
}

func coord(x []float64, i int) float64 {
	if i < len(x) {
		return x[i]
	}
	return 0
}

func iabs(val int) int {
	if val < 0 {
		return -val
	}
	return val
}
