// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/HaichaoLee/mpm-1/mpm"
	"github.com/cpmech/gosl/chk"
)

// Point holds the results of one particle
type Point struct {
	Pid  int                  // particle id
	X    []float64            // coordinates when the point was located
	Dist float64              // distance from reference point (along line)
	Vals map[string][]float64 // [nTimeInds] maps keys to results series
}

// Points is a set of points sorted by distance
type Points []*Point

func (o Points) Len() int           { return len(o) }
func (o Points) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o Points) Less(i, j int) bool { return o[i].Dist < o[j].Dist }

// Keys of results
var (
	PosKeys = []string{"x", "y", "z"}
	VelKeys = []string{"vx", "vy", "vz"}
	SigKeys = []string{"sx", "sy", "sz", "sxy", "syz", "sxz"}
	EpsKeys = []string{"ex", "ey", "ez", "exy", "eyz", "exz"}
)

// Calc computes the results of a particle (first phase)
//  Note: "p" is the mean pressure (compression positive) and "q" is the von Mises equivalent stress
func Calc(p *mpm.Particle) (res map[string]float64) {
	res = map[string]float64{
		"m":   p.Mass(0),
		"vol": p.Volume(0),
	}
	v := p.Velocity(0)
	for i, x := range p.X {
		res[PosKeys[i]] = x
		res[VelKeys[i]] = v[i]
	}
	σ := p.Stress(0)
	ε := p.Strain(0)
	for i := range SigKeys {
		res[SigKeys[i]] = σ[i]
		res[EpsKeys[i]] = ε[i]
	}
	pm := -(σ[0] + σ[1] + σ[2]) / 3.0
	sx, sy, sz := σ[0]+pm, σ[1]+pm, σ[2]+pm
	res["p"] = pm
	res["q"] = math.Sqrt(1.5*(sx*sx+sy*sy+sz*sz) + 3.0*(σ[3]*σ[3]+σ[4]*σ[4]+σ[5]*σ[5]))
	return
}

// GetRes gets results as a time or space series corresponding to a given alias
// for a single point or set of points.
//  idxI -- index in TimeInds slice corresponding to selected output time; use -1 for the last item.
//          If alias defines a single point, the whole time series is returned and idxI is ignored.
func (o *Output) GetRes(key, alias string, idxI int) (res []float64, err error) {
	if idxI < 0 {
		idxI = len(o.TimeInds) - 1
	}
	pts, ok := o.Results[alias]
	if !ok {
		return nil, chk.Err("alias %q is not defined", alias)
	}
	if len(pts) == 1 {
		if v, ok := pts[0].Vals[key]; ok {
			return v, nil
		}
		return nil, chk.Err("cannot get %q at %q", key, alias)
	}
	for _, p := range pts {
		v, ok := p.Vals[key]
		if !ok || idxI >= len(v) {
			return nil, chk.Err("cannot get %q at %q with time index %d", key, alias, idxI)
		}
		res = append(res, v[idxI])
	}
	return
}

// GetIds returns the ids of particles corresponding to alias
func (o *Output) GetIds(alias string) (pids []int) {
	for _, p := range o.Results[alias] {
		pids = append(pids, p.Pid)
	}
	return
}

// GetCoords returns the coordinates of a single point
func (o *Output) GetCoords(alias string) ([]float64, error) {
	if pts, ok := o.Results[alias]; ok {
		if len(pts) == 1 {
			return pts[0].X, nil
		}
	}
	return nil, chk.Err("cannot get coordinates of point with alias %q (make sure this alias corresponds to a single point)", alias)
}

// GetDist returns the distances from the reference point of the locator of alias
func (o *Output) GetDist(alias string) (dist []float64) {
	for _, p := range o.Results[alias] {
		dist = append(dist, p.Dist)
	}
	return
}

// GetXYZ returns the x-y-z coordinates of the points of alias when located
func (o *Output) GetXYZ(alias string) (x, y, z []float64) {
	for _, p := range o.Results[alias] {
		x = append(x, p.X[0])
		y = append(y, p.X[1])
		if len(p.X) == 3 {
			z = append(z, p.X[2])
		}
	}
	return
}
