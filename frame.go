/*
 * frame.go, part of gofm.
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

package fm

import (
	v3 "github.com/rmera/gofm/v3"
)

// Frame holds the time-dependent data for one snapshot of a coarse-grained trajectory.
// Vel and Forces may be nil when the source does not provide them.
// A nil (or empty) Box means the system is not periodic.
type Frame struct {
	Index  int
	Coords *v3.Matrix
	Vel    *v3.Matrix
	Forces *v3.Matrix
	Box    []float64
}

// NewFrame returns a frame with room for natoms particles. Velocities and
// reference forces are left nil.
func NewFrame(natoms int) *Frame {
	return &Frame{Coords: v3.Zeros(natoms)}
}

// Len returns the number of particles in the frame.
func (F *Frame) Len() int {
	if F.Coords == nil {
		return 0
	}
	return F.Coords.NVecs()
}

// Periodic returns true if the frame has a valid rectangular box.
func (F *Frame) Periodic() bool {
	return validBox(F.Box)
}

// RefForces returns the reference forces for the frame, and whether they were
// actually available.
func (F *Frame) RefForces() (*v3.Matrix, bool) {
	if F.Forces == nil || F.Forces.NVecs() != F.Len() {
		return nil, false
	}
	return F.Forces, true
}

// Velocities returns the velocities for the frame, and whether they were
// actually available.
func (F *Frame) Velocities() (*v3.Matrix, bool) {
	if F.Vel == nil || F.Vel.NVecs() != F.Len() {
		return nil, false
	}
	return F.Vel, true
}

// ForcesOrZeros returns the reference forces of the frame or, if they are not
// available, a zero-filled matrix of the right size. Callers that need to report
// the missing forces should check RefForces.
func (F *Frame) ForcesOrZeros() *v3.Matrix {
	if f, ok := F.RefForces(); ok {
		return f
	}
	return v3.Zeros(F.Len())
}

// CopyFrom copies the data in src to the receiver, reusing the receiver's
// storage when the sizes agree.
func (F *Frame) CopyFrom(src *Frame) {
	F.Index = src.Index
	F.Coords = copyMatrix(F.Coords, src.Coords)
	F.Vel = copyMatrix(F.Vel, src.Vel)
	F.Forces = copyMatrix(F.Forces, src.Forces)
	if src.Box == nil {
		F.Box = nil
		return
	}
	if len(F.Box) != len(src.Box) {
		F.Box = make([]float64, len(src.Box))
	}
	copy(F.Box, src.Box)
}

func copyMatrix(dst, src *v3.Matrix) *v3.Matrix {
	if src == nil {
		return nil
	}
	if dst == nil || dst.NVecs() != src.NVecs() {
		dst = v3.Zeros(src.NVecs())
	}
	dst.Copy(src.Dense)
	return dst
}

func validBox(box []float64) bool {
	if len(box) != 3 {
		return false
	}
	for _, v := range box {
		if v <= 0 {
			return false
		}
	}
	return true
}
