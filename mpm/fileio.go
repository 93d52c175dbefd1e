// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// SaveParticles writes the state of all particles
func (o *Mesh) SaveParticles(w goio.Writer, enctype string) (err error) {
	enc := GetEncoder(w, enctype)
	data := make([]*ParticleData, 0, o.Particles.Len())
	o.Particles.ForEach(func(p *Particle) {
		data = append(data, p.Data())
	})
	if err = enc.Encode(data); err != nil {
		return chk.Err("cannot encode particles:\n%v", err)
	}
	return
}

// ReadParticles reads the state of particles written by SaveParticles. Existing particles are
// updated; the others are created. All particles read are detached from their cells; call
// LocateParticles to assign them again.
func (o *Mesh) ReadParticles(r goio.Reader, enctype string) (err error) {
	dec := GetDecoder(r, enctype)
	var data []*ParticleData
	if err = dec.Decode(&data); err != nil {
		return chk.Err("cannot decode particles:\n%v", err)
	}
	for _, d := range data {
		if len(d.X) != o.Ndim || len(d.Mass) != o.Nphases {
			return chk.Err("particle %d: checkpoint is incompatible with mesh (ndim=%d, nphases=%d)", d.Id, o.Ndim, o.Nphases)
		}
		p, ok := o.Particles.Get(d.Id)
		if !ok {
			if p, err = o.AddParticle(d.Id, d.X); err != nil {
				return
			}
		}
		if err = p.SetData(d); err != nil {
			return
		}
	}
	return
}

// SaveParticlesFile writes the state of all particles to a file which name is set with tidx
// (time output index)
func (o *Mesh) SaveParticlesFile(dir, fnkey, enctype string, tidx int, verbose bool) (err error) {
	var buf bytes.Buffer
	if err = o.SaveParticles(&buf, enctype); err != nil {
		return
	}
	return save_file(out_par_path(dir, fnkey, enctype, tidx), &buf, verbose)
}

// ReadParticlesFile reads the state of particles from a file which name is set with tidx
func (o *Mesh) ReadParticlesFile(dir, fnkey, enctype string, tidx int) (err error) {
	fil, err := os.Open(out_par_path(dir, fnkey, enctype, tidx))
	if err != nil {
		return
	}
	defer fil.Close()
	return o.ReadParticles(fil, enctype)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

func out_par_path(dir, fnkey, enctype string, tidx int) string {
	return filepath.Join(dir, io.Sf("%s_par_%010d.%s", fnkey, tidx, enctype))
}

func save_file(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
