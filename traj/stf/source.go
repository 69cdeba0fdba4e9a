/*
 * source.go, part of gofm.
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
	"fmt"

	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
)

// ForceReader reads reference forces, one frame per call. Both *Reader, for stf files
// that store forces, and the LAMMPS dump reader implement it.
type ForceReader interface {
	NextForces(dst *v3.Matrix) error
	Rewind() error
}

// Source is a fm.FrameSource that takes positions (and boxes) from an stf file, and,
// optionally, the reference forces of each frame from a ForceReader.
type Source struct {
	pos    *Reader
	forces ForceReader
	skip   *v3.Matrix
}

// NewSource opens the stf file posname. forces can be nil, in which case the frames
// read carry no reference forces.
func NewSource(posname string, forces ForceReader) (*Source, error) {
	pos, _, err := New(posname)
	if err != nil {
		return nil, errDecorate(err, "NewSource")
	}
	return &Source{pos: pos, forces: forces}, nil
}

// Readable returns true if frames can still be read.
func (S *Source) Readable() bool { return S.pos.Readable() }

// Len returns the number of particles per frame.
func (S *Source) Len() int { return S.pos.Len() }

// NFrames returns the number of frames in the positions file.
func (S *Source) NFrames() int { return S.pos.NFrames() }

// Next reads the positions of the next frame, and its forces if there is a force reader, into f.
func (S *Source) Next(f *fm.Frame) error {
	if err := S.pos.Next(f); err != nil {
		return errDecorate(err, "Source.Next")
	}
	if S.forces == nil {
		f.Forces = nil
		return nil
	}
	if f.Forces == nil || f.Forces.NVecs() != S.pos.Len() {
		f.Forces = v3.Zeros(S.pos.Len())
	}
	if err := S.forces.NextForces(f.Forces); err != nil {
		if fm.IsLastFrame(err) {
			return Error{fmt.Sprintf("the forces end before frame %d of the positions", f.Index), S.pos.filename, []string{"Source.Next"}, true}
		}
		return errDecorate(err, "Source.Next")
	}
	return nil
}

// Rewind sets both the positions and the forces back to their first frames.
func (S *Source) Rewind() error {
	if err := S.pos.Rewind(); err != nil {
		return errDecorate(err, "Source.Rewind")
	}
	if S.forces != nil {
		if err := S.forces.Rewind(); err != nil {
			return errDecorate(err, "Source.Rewind")
		}
	}
	return nil
}

// Seek leaves the source so the next call to Next returns frame i. Forces are skipped by reading them.
func (S *Source) Seek(i int) error {
	if S.forces == nil {
		return errDecorate(S.pos.Seek(i), "Source.Seek")
	}
	if err := S.Rewind(); err != nil {
		return err
	}
	if err := S.pos.Seek(i); err != nil {
		return errDecorate(err, "Source.Seek")
	}
	if S.skip == nil {
		S.skip = v3.Zeros(S.pos.Len())
	}
	for k := 0; k < i; k++ {
		if err := S.forces.NextForces(S.skip); err != nil {
			return errDecorate(err, "Source.Seek")
		}
	}
	return nil
}

// Close closes the positions file and, if it can be closed, the force reader.
func (S *Source) Close() {
	S.pos.Close()
	if c, ok := S.forces.(interface{ Close() }); ok {
		c.Close()
	}
}
