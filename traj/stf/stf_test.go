/*
 * stf_test.go, part of gofm.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package stf

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
)

// writeTraj writes nframes frames of natoms particles, where particle i of frame k is at (k, i, -i/3).
func writeTraj(Te *testing.T, name string, natoms, nframes int, header map[string]string) {
	Te.Helper()
	w, err := NewWriter(name, natoms, header)
	if err != nil {
		Te.Fatal(err)
	}
	c := v3.Zeros(natoms)
	for k := 0; k < nframes; k++ {
		for i := 0; i < natoms; i++ {
			c.SetVec(i, [3]float64{float64(k), float64(i), -float64(i) / 3})
		}
		if err := w.WNext(c, []float64{10 + float64(k), 11, 12}); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
}

func TestSTFRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, ext := range []string{".stf", ".stz", ".stR", ".stl"} {
		name := filepath.Join(dir, "test"+ext)
		writeTraj(Te, name, 4, 3, map[string]string{"prec": "3", "creator": "gofm"})
		r, header, err := New(name)
		if err != nil {
			Te.Fatal(ext, err)
		}
		if header["creator"] != "gofm" || header["prec"] != "3" {
			Te.Errorf("%s: wrong header %v", ext, header)
		}
		if r.Len() != 4 || r.NFrames() != 3 {
			Te.Errorf("%s: %d particles and %d frames, expected 4 and 3", ext, r.Len(), r.NFrames())
		}
		f := fm.NewFrame(4)
		read := 0
		for ; ; read++ {
			err := r.Next(f)
			if fm.IsLastFrame(err) {
				break
			}
			if err != nil {
				Te.Fatal(ext, err)
			}
			if f.Index != read {
				Te.Errorf("%s: frame index %d, expected %d", ext, f.Index, read)
			}
			v := f.Coords.Vec(2)
			if v[0] != float64(read) || v[1] != 2 || math.Abs(v[2]+2.0/3) > 1e-3 {
				Te.Errorf("%s: frame %d particle 2 read as %v", ext, read, v)
			}
			if f.Box[0] != 10+float64(read) || f.Box[1] != 11 || f.Box[2] != 12 {
				Te.Errorf("%s: frame %d box read as %v", ext, read, f.Box)
			}
		}
		if read != 3 {
			Te.Errorf("%s: read %d frames, expected 3", ext, read)
		}
		if r.Readable() {
			Te.Errorf("%s: reader still readable after the last frame", ext)
		}
		//Rewind and Seek
		if err := r.Seek(2); err != nil {
			Te.Fatal(ext, err)
		}
		if err := r.Next(f); err != nil || f.Index != 2 || f.Coords.Vec(0)[0] != 2 {
			Te.Errorf("%s: after seeking frame 2, read frame %d (%v), err %v", ext, f.Index, f.Coords.Vec(0), err)
		}
		if err := r.Rewind(); err != nil {
			Te.Fatal(ext, err)
		}
		if err := r.Next(f); err != nil || f.Index != 0 {
			Te.Errorf("%s: after rewinding, read frame %d, err %v", ext, f.Index, err)
		}
		r.Close()
	}
}

func TestSTFDefaults(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "def.stf")
	w, err := NewWriter(name, 1, nil)
	if err != nil {
		Te.Fatal(err)
	}
	c, _ := v3.NewMatrix([]float64{1.23456, 0, 0})
	if err := w.WNext(c); err != nil {
		Te.Fatal(err)
	}
	if err := w.WNext(v3.Zeros(2)); err == nil {
		Te.Error("writing a frame of the wrong size should fail")
	}
	w.Close()
	if err := w.WNext(c); err == nil {
		Te.Error("writing to a closed writer should fail")
	}
	r, header, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if header["prec"] != "2" {
		Te.Errorf("precision not written by default: %v", header)
	}
	f := fm.NewFrame(1)
	f.Box = []float64{5, 5, 5}
	if err := r.Next(f); err != nil {
		Te.Fatal(err)
	}
	if f.Coords.At(0, 0) != 1.23 {
		Te.Errorf("read %g, expected 1.23 at the default precision", f.Coords.At(0, 0))
	}
	if f.Box[0] != 5 {
		Te.Errorf("a frame without box should leave the box alone, got %v", f.Box)
	}
}

func TestSTFSource(Te *testing.T) {
	dir := Te.TempDir()
	pos := filepath.Join(dir, "pos.stf")
	frc := filepath.Join(dir, "forces.stf")
	writeTraj(Te, pos, 3, 4, nil)
	writeTraj(Te, frc, 3, 4, map[string]string{"prec": "4"})
	fr, _, err := New(frc)
	if err != nil {
		Te.Fatal(err)
	}
	S, err := NewSource(pos, fr)
	if err != nil {
		Te.Fatal(err)
	}
	defer S.Close()
	var _ fm.FrameSource = S
	var _ fm.Seeker = S
	if S.NFrames() != 4 || S.Len() != 3 {
		Te.Errorf("%d frames of %d particles, expected 4 of 3", S.NFrames(), S.Len())
	}
	f := fm.NewFrame(3)
	if err := S.Seek(3); err != nil {
		Te.Fatal(err)
	}
	if err := S.Next(f); err != nil {
		Te.Fatal(err)
	}
	forces, ok := f.RefForces()
	if !ok {
		Te.Fatal("no forces read")
	}
	if forces.At(1, 0) != 3 || math.Abs(forces.At(1, 2)+1.0/3) > 1e-4 {
		Te.Errorf("wrong forces for frame 3: %v", forces.Vec(1))
	}
	if err := S.Next(f); !fm.IsLastFrame(err) {
		Te.Errorf("expected the end of the trajectory, got %v", err)
	}
	if err := S.Rewind(); err != nil {
		Te.Fatal(err)
	}
	if err := S.Next(f); err != nil || f.Index != 0 || f.Forces.At(0, 0) != 0 {
		Te.Errorf("wrong first frame after rewinding: %d %v", f.Index, err)
	}

	//a forces file shorter than the positions is an error, not the end of the trajectory
	short := filepath.Join(dir, "short.stf")
	writeTraj(Te, short, 3, 1, nil)
	sr, _, _ := New(short)
	S2, _ := NewSource(pos, sr)
	defer S2.Close()
	S2.Next(f)
	err = S2.Next(f)
	if err == nil || fm.IsLastFrame(err) {
		Te.Errorf("expected an error for missing forces, got %v", err)
	}
}

func TestSTFErrors(Te *testing.T) {
	dir := Te.TempDir()
	if _, _, err := New(filepath.Join(dir, "nothere.stf")); err == nil {
		Te.Error("opening a missing file should fail")
	}
	name := filepath.Join(dir, "small.stl")
	w, _ := NewWriter(name, 2, nil)
	c := v3.Zeros(2)
	w.WNext(c)
	w.Close()
	r, _, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	//the header says 2 particles, read them into room for 3
	f := &fm.Frame{Coords: v3.Zeros(3)}
	if err := r.Next(f); err != nil || f.Len() != 2 {
		Te.Errorf("Next should resize the frame: %v, %d particles", err, f.Len())
	}
	r.Close()
	if err := r.Next(f); err == nil || fm.IsLastFrame(err) {
		Te.Errorf("reading a closed reader should fail, got %v", err)
	}
	if _, err := os.Stat(name); err != nil {
		Te.Error(err)
	}
}
