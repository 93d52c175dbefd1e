// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Summary records summary of outputs
type Summary struct {
	OutTimes []float64 // [nOutTimes] output times
	OutSteps []int     // [nOutTimes] step number corresponding to each output time
	Dirout   string    // directory where results are saved
	Fnkey    string    // filename key
	EncType  string    // encoder type
	tidx     int       // current time output index
}

// NewSummary returns a new summary of outputs
func NewSummary(dirout, fnkey, enctype string) *Summary {
	return &Summary{Dirout: dirout, Fnkey: fnkey, EncType: enctype}
}

// Nout returns the number of output times
func (o *Summary) Nout() int {
	return len(o.OutTimes)
}

// SaveResults saves the state of particles at the current output index
func (o *Summary) SaveResults(m *Mesh, time float64, step int, verbose bool) (err error) {
	if err = m.SaveParticlesFile(o.Dirout, o.Fnkey, o.EncType, o.tidx, verbose); err != nil {
		return
	}
	o.OutTimes = append(o.OutTimes, time)
	o.OutSteps = append(o.OutSteps, step)
	o.tidx++
	return
}

// Save saves summary
func (o *Summary) Save() (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.EncType)
	if err = enc.Encode(o); err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	return save_file(out_sum_path(o.Dirout, o.Fnkey, o.EncType), &buf, false)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {
	fil, err := os.Open(out_sum_path(dir, fnkey, enctype))
	if err != nil {
		return nil, chk.Err("cannot open summary file:\n%v", err)
	}
	defer fil.Close()
	o = new(Summary)
	if err = GetDecoder(fil, enctype).Decode(o); err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	if len(o.OutTimes) != len(o.OutSteps) {
		return nil, chk.Err("summary is corrupted: %d output times but %d steps", len(o.OutTimes), len(o.OutSteps))
	}
	o.tidx = len(o.OutTimes)
	return
}

// ReadParticles reads the state of particles at output index tidx into mesh
func (o *Summary) ReadParticles(m *Mesh, tidx int) (err error) {
	if tidx < 0 || tidx >= len(o.OutTimes) {
		return chk.Err("output index %d is out of range [0, %d)", tidx, len(o.OutTimes))
	}
	return m.ReadParticlesFile(o.Dirout, o.Fnkey, o.EncType, tidx)
}

func out_sum_path(dir, fnkey, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}
