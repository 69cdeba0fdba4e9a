/*
 * file.go, part of gofm.
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

package forces

import (
	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
)

// FileForce gives the reference forces stored in each frame, as read from the
// trajectory source. It has no parameters and no category. It is meant to be used as a
// reference force, usually together with analytic reference terms that are subtracted
// from the stored forces.
type FileForce struct {
	name string
}

// NewFileForce returns a FileForce with the given name.
func NewFileForce(name string) *FileForce {
	if name == "" {
		name = "file"
	}
	return &FileForce{name: name}
}

func (F *FileForce) Name() string { return F.name }

func (F *FileForce) Category() fm.Category { return nil }

// Specialize does nothing: the stored forces already belong to each particle.
func (F *FileForce) Specialize(sel1, sel2 string) {}

func (F *FileForce) Setup(top *fm.Topology) error { return nil }

// CalcForces adds the stored forces of f to out. If f has no forces, nothing is added.
func (F *FileForce) CalcForces(out *v3.Matrix, f *fm.Frame) error {
	ref, ok := f.RefForces()
	if !ok {
		return nil
	}
	if out.NVecs() != ref.NVecs() {
		return fm.NewError(fm.ErrShape, "FileForce.CalcForces", "output has %d vectors, the frame has %d", out.NVecs(), ref.NVecs())
	}
	out.Add(out.Dense, ref.Dense)
	return nil
}

func (F *FileForce) Clone() Force { return &FileForce{name: F.name} }
