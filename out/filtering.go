// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"sort"

	"github.com/HaichaoLee/mpm-1/mpm"
	"gonum.org/v1/gonum/floats"
)

// Locator defines interface for locating particles
type Locator interface {
	Locate(m *mpm.Mesh) Points
}

// At implements locator of the particle nearest to a point
type At []float64

// P implements particle locator with ids
type P []int

// Along implements locator along line
//  Example: with 2 points in 3D: {{0,0,0}, {1,1,1}}
type Along [][]float64

// AlongX implements Along with []float64{y_cte} or []float64{y_cte, z_cte}
type AlongX []float64

// AlongY implements Along with []float64{x_cte} or []float64{x_cte, z_cte}
type AlongY []float64

// AlongZ implements Along with []float64{x_cte, y_cte}
type AlongZ []float64

// Box implements locator of particles inside box
//  Example: {{xmin,ymin}, {xmax,ymax}}
type Box [][]float64

// Locate finds the nearest particle
func (o At) Locate(m *mpm.Mesh) Points {
	var q *mpm.Particle
	dmin := math.MaxFloat64
	m.Particles.ForEach(func(p *mpm.Particle) {
		if len(o) < len(p.X) {
			return
		}
		if d := dist(p.X, o); d < dmin {
			q, dmin = p, d
		}
	})
	if q == nil {
		return nil
	}
	return Points{newPoint(q, o)}
}

// Locate finds particles
func (o P) Locate(m *mpm.Mesh) (res Points) {
	var A []float64 // reference point
	for _, pid := range o {
		p, ok := m.Particles.Get(pid)
		if !ok {
			return nil
		}
		if A == nil {
			A = p.X
		}
		res = append(res, newPoint(p, A))
	}
	return
}

// Locate finds points
func (o Along) Locate(m *mpm.Mesh) (res Points) {

	// check if there are two points
	if len(o) != 2 || len(o[0]) != len(o[1]) || len(o[0]) < m.Ndim {
		return
	}
	A := o[0][:m.Ndim]
	B := o[1][:m.Ndim]
	n := floats.SubTo(make([]float64, m.Ndim), B, A)
	if floats.Norm(n, 2) < TolC {
		return
	}
	floats.Scale(1/floats.Norm(n, 2), n)

	// particles with zero distance to line
	ap := make([]float64, m.Ndim)
	m.Particles.ForEach(func(p *mpm.Particle) {
		floats.SubTo(ap, p.X, A)
		floats.AddScaled(ap, -floats.Dot(ap, n), n)
		if floats.Norm(ap, 2) < TolC {
			res = append(res, newPoint(p, A))
		}
	})
	sort.Stable(res)
	return
}

// Locate finds points
func (o AlongX) Locate(m *mpm.Mesh) (res Points) {
	if len(o) < 1 {
		return
	}
	y_cte, z_cte := o[0], 0.0
	if len(o) > 1 {
		z_cte = o[1]
	}
	return Along{{0, y_cte, z_cte}, {1, y_cte, z_cte}}.Locate(m)
}

// Locate finds points
func (o AlongY) Locate(m *mpm.Mesh) (res Points) {
	if len(o) < 1 {
		return
	}
	x_cte, z_cte := o[0], 0.0
	if len(o) > 1 {
		z_cte = o[1]
	}
	return Along{{x_cte, 0, z_cte}, {x_cte, 1, z_cte}}.Locate(m)
}

// Locate finds points
func (o AlongZ) Locate(m *mpm.Mesh) (res Points) {
	if len(o) < 2 {
		return
	}
	x_cte, y_cte := o[0], o[1]
	return Along{{x_cte, y_cte, 0}, {x_cte, y_cte, 1}}.Locate(m)
}

// Locate finds particles inside box; distances are measured from the min corner
func (o Box) Locate(m *mpm.Mesh) (res Points) {
	if len(o) != 2 || len(o[0]) < m.Ndim || len(o[1]) < m.Ndim {
		return
	}
	m.Particles.ForEach(func(p *mpm.Particle) {
		for i, x := range p.X {
			if x < o[0][i]-TolC || x > o[1][i]+TolC {
				return
			}
		}
		res = append(res, newPoint(p, o[0]))
	})
	sort.Stable(res)
	return
}

// AllParticles returns all particle ids
func AllParticles(m *mpm.Mesh) P {
	res := make([]int, 0, m.Particles.Len())
	m.Particles.ForEach(func(p *mpm.Particle) {
		res = append(res, p.Id)
	})
	return res
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

func newPoint(p *mpm.Particle, A []float64) *Point {
	return &Point{
		Pid:  p.Id,
		X:    append([]float64{}, p.X...),
		Dist: dist(p.X, A),
		Vals: make(map[string][]float64),
	}
}

// dist returns the distance between x and the first len(x) components of a
func dist(x, a []float64) float64 {
	return floats.Distance(x, a[:len(x)], 2)
}
