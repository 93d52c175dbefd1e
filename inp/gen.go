// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/HaichaoLee/mpm-1/shp"
	"github.com/cpmech/gosl/chk"
)

// GenBox generates a structured mesh of the box [xmin, xmax] with ndiv divisions along each
// direction. All cells receive tag ctag.
//  shape -- "qua4", "qua9" or "hex8"
func GenBox(shape string, xmin, xmax []float64, ndiv []int, ctag int) (o *Mesh, err error) {

	// check
	s, err := shp.New(shape)
	if err != nil {
		return
	}
	ndim := s.Gndim
	if len(xmin) != ndim || len(xmax) != ndim || len(ndiv) != ndim {
		return nil, chk.Err("%s box requires xmin, xmax and ndiv with %d components", s.Type, ndim)
	}
	for i := 0; i < ndim; i++ {
		if ndiv[i] < 1 || xmax[i] <= xmin[i] {
			return nil, chk.Err("box is invalid along direction %d: xmin=%g xmax=%g ndiv=%d", i, xmin[i], xmax[i], ndiv[i])
		}
	}

	// vertices per cell side
	m := 1
	switch s.Type {
	case "qua4", "hex8":
	case "qua9":
		m = 2
	default:
		return nil, chk.Err("cannot generate box with %s cells", s.Type)
	}

	// vertices
	o = new(Mesh)
	npts := []int{m*ndiv[0] + 1, m*ndiv[1] + 1, 1}
	if ndim == 3 {
		npts[2] = m*ndiv[2] + 1
	}
	vid := func(i, j, k int) int { return i + j*npts[0] + k*npts[0]*npts[1] }
	for k := 0; k < npts[2]; k++ {
		for j := 0; j < npts[1]; j++ {
			for i := 0; i < npts[0]; i++ {
				idx := []int{i, j, k}
				c := make([]float64, ndim)
				for d := 0; d < ndim; d++ {
					c[d] = xmin[d] + float64(idx[d])*(xmax[d]-xmin[d])/float64(m*ndiv[d])
				}
				o.Verts = append(o.Verts, &Vert{Id: len(o.Verts), C: c})
			}
		}
	}

	// cells: local vertices follow the natural coordinates of the shape
	nk := 1
	if ndim == 3 {
		nk = ndiv[2]
	}
	for k := 0; k < nk; k++ {
		for j := 0; j < ndiv[1]; j++ {
			for i := 0; i < ndiv[0]; i++ {
				verts := make([]int, s.Nverts)
				for n := 0; n < s.Nverts; n++ {
					a := m*i + int(float64(m)*(s.NatCoords[0][n]+1)/2)
					b := m*j + int(float64(m)*(s.NatCoords[1][n]+1)/2)
					c := 0
					if ndim == 3 {
						c = m*k + int(float64(m)*(s.NatCoords[2][n]+1)/2)
					}
					verts[n] = vid(a, b, c)
				}
				o.Cells = append(o.Cells, &Cell{Id: len(o.Cells), Tag: ctag, Type: s.Type, Verts: verts})
			}
		}
	}
	err = o.Init()
	return
}

// GenPoints generates npts×npts(×npts) points inside cell c at the centres of a regular
// subdivision of the reference cell
func (o *Mesh) GenPoints(c *Cell, npts int) (points [][]float64, err error) {
	if npts < 1 {
		return nil, chk.Err("number of points per direction must be positive; %d is invalid", npts)
	}
	x := o.CellCoords(c)
	ndim := c.Shp.Gndim
	nk := 1
	if ndim == 3 {
		nk = npts
	}
	r := func(i int) float64 { return -1.0 + (2.0*float64(i)+1.0)/float64(npts) }
	for k := 0; k < nk; k++ {
		for j := 0; j < npts; j++ {
			for i := 0; i < npts; i++ {
				xi := []float64{r(i), r(j)}
				if ndim == 3 {
					xi = append(xi, r(k))
				}
				S := c.Shp.Shapefn(xi)
				p := make([]float64, ndim)
				for d := 0; d < ndim; d++ {
					for n := range S {
						p[d] += S[n] * x[d][n]
					}
				}
				points = append(points, p)
			}
		}
	}
	return
}
