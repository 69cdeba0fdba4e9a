/*
 * mesh.go, part of gofm.
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
	"math"
	"strings"

	fm "github.com/rmera/gofm"
)

// Mesh is an ordered partition of a distance range into bins.
// Meshes are immutable, so they can be shared between forces.
type Mesh interface {
	Len() int
	Min() float64
	Max() float64

	//Bin returns the index of the bin containing d, or -1 if d is outside the mesh.
	Bin(d float64) int

	//Edges returns the limits of bin k.
	Edges(k int) (float64, float64)
}

// UniformMesh is a mesh with bins of the same width.
type UniformMesh struct {
	min, max, dx float64
	n            int
}

// NewUniformMesh returns a mesh from min to max with bins of width (about) dx.
// The number of bins is rounded so they cover exactly [min, max).
func NewUniformMesh(min, max, dx float64) (*UniformMesh, error) {
	if max <= min || dx <= 0 || min < 0 {
		return nil, fm.NewError(fm.ErrConfig, "NewUniformMesh", "invalid mesh min=%g max=%g dx=%g", min, max, dx)
	}
	n := int(math.Round((max - min) / dx))
	if n < 1 {
		n = 1
	}
	return &UniformMesh{min: min, max: max, dx: (max - min) / float64(n), n: n}, nil
}

func (U *UniformMesh) Len() int     { return U.n }
func (U *UniformMesh) Min() float64 { return U.min }
func (U *UniformMesh) Max() float64 { return U.max }

// Width returns the width of the bins.
func (U *UniformMesh) Width() float64 { return U.dx }

func (U *UniformMesh) Bin(d float64) int {
	if d < U.min || d >= U.max {
		return -1
	}
	k := int((d - U.min) / U.dx)
	if k >= U.n {
		k = U.n - 1
	}
	return k
}

func (U *UniformMesh) Edges(k int) (float64, float64) {
	lo := U.min + float64(k)*U.dx
	return lo, lo + U.dx
}

// Basis is a set of functions b_k, one per mesh bin, in which spectral forces are expanded.
type Basis interface {
	Name() string

	//Eval writes b_k(d) for all k to dst, which must have mesh.Len() elements.
	Eval(d float64, mesh Mesh, dst []float64)

	//Integral writes the integral of b_k from d to mesh.Max() for all k to dst.
	Integral(d float64, mesh Mesh, dst []float64)
}

// NewBasis returns the basis with the given name ("unitstep" or "hat").
func NewBasis(name string) (Basis, error) {
	switch strings.ToLower(name) {
	case "unitstep", "":
		return UnitStep{}, nil
	case "hat":
		return Hat{}, nil
	}
	return nil, fm.NewError(fm.ErrConfig, "NewBasis", "unknown basis %q", name)
}

// UnitStep has b_k(d) = 1 if d is in bin k, and 0 otherwise, so spectral forces are
// piecewise constant.
type UnitStep struct{}

func (UnitStep) Name() string { return "unitstep" }

func (UnitStep) Eval(d float64, mesh Mesh, dst []float64) {
	for k := range dst {
		dst[k] = 0
	}
	if k := mesh.Bin(d); k >= 0 {
		dst[k] = 1
	}
}

func (UnitStep) Integral(d float64, mesh Mesh, dst []float64) {
	for k := range dst {
		lo, hi := mesh.Edges(k)
		lo = math.Max(lo, d)
		dst[k] = math.Max(0, hi-lo)
	}
}

// Hat has piecewise-linear tents centered in each bin, each spanning two bin widths,
// so spectral forces are continuous.
type Hat struct{}

func (Hat) Name() string { return "hat" }

func hatParams(k int, mesh Mesh) (float64, float64) {
	lo, hi := mesh.Edges(k)
	return (lo + hi) / 2, hi - lo
}

func (Hat) Eval(d float64, mesh Mesh, dst []float64) {
	for k := range dst {
		dst[k] = 0
	}
	if d < mesh.Min() || d >= mesh.Max() {
		return
	}
	b := mesh.Bin(d)
	for k := b - 1; k <= b+1; k++ {
		if k < 0 || k >= len(dst) {
			continue
		}
		c, w := hatParams(k, mesh)
		dst[k] = math.Max(0, 1-math.Abs(d-c)/w)
	}
}

// tentCumulative returns the integral of a tent centered at c with half-width w,
// from -infinity to x.
func tentCumulative(x, c, w float64) float64 {
	switch {
	case x <= c-w:
		return 0
	case x <= c:
		t := x - (c - w)
		return t * t / (2 * w)
	case x < c+w:
		t := c + w - x
		return w - t*t/(2*w)
	}
	return w
}

func (Hat) Integral(d float64, mesh Mesh, dst []float64) {
	max := mesh.Max()
	for k := range dst {
		if d >= max {
			dst[k] = 0
			continue
		}
		c, w := hatParams(k, mesh)
		lo := math.Max(d, mesh.Min())
		dst[k] = tentCumulative(max, c, w) - tentCumulative(lo, c, w)
	}
}
