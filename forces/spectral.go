/*
 * spectral.go, part of gofm.
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
	"log"

	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Spectral is a pair force expanded in a basis over a mesh: F(d) = sum_k w_k b_k(d).
// The force is zero outside the mesh.
type Spectral struct {
	pairBase
	mesh   Mesh
	basis  Basis
	params *Params
	g      *mat.Dense
	bbuf   []float64
}

// NewSpectral returns a spectral force for the category cat. All parameters start at DefaultHeight.
func NewSpectral(name string, cat fm.Category, mesh Mesh, basis Basis) *Spectral {
	if p, ok := cat.(*fm.Pairwise); ok && mesh.Max() > p.Cutoff() {
		log.Printf("forces: mesh of %s extends to %g, beyond the cutoff %g. The last bins will never be fitted", name, mesh.Max(), p.Cutoff())
	}
	S := new(Spectral)
	if name == "" {
		name = "spectral"
	}
	S.pairBase = pairBase{name: name, cat: cat}
	S.mesh = mesh
	S.basis = basis
	w0 := make([]float64, mesh.Len())
	for i := range w0 {
		w0[i] = DefaultHeight
	}
	S.params = NewParams(w0, DefaultSpectralEta)
	S.g = mat.NewDense(mesh.Len(), 3, nil)
	S.bbuf = make([]float64, mesh.Len())
	return S
}

// Mesh returns the mesh of the force.
func (S *Spectral) Mesh() Mesh { return S.mesh }

// Basis returns the basis of the force.
func (S *Spectral) Basis() Basis { return S.basis }

func (S *Spectral) Setup(top *fm.Topology) error {
	if err := S.setup(top); err != nil {
		return fm.NewError(err, "Spectral.Setup", "%s", S.Name())
	}
	return nil
}

func (S *Spectral) Params() *Params { return S.params }

func (S *Spectral) ParticleForce(i int, f *fm.Frame) ([3]float64, *mat.Dense) {
	var force [3]float64
	S.g.Zero()
	w := S.params.W
	raw := S.g.RawMatrix()
	S.walk(i, f, func(j int, d float64, rhat [3]float64) {
		S.basis.Eval(d, S.mesh, S.bbuf)
		F := floats.Dot(w, S.bbuf)
		for k := 0; k < 3; k++ {
			force[k] += F * rhat[k]
		}
		for p, b := range S.bbuf {
			if b == 0 {
				continue
			}
			row := raw.Data[p*raw.Stride : p*raw.Stride+3]
			row[0] += b * rhat[0]
			row[1] += b * rhat[1]
			row[2] += b * rhat[2]
		}
	})
	return force, S.g
}

func (S *Spectral) CalcForces(out *v3.Matrix, f *fm.Frame) error {
	if err := S.cat.Setup(f); err != nil {
		return err
	}
	w := S.params.W
	for i := 0; i < f.Len(); i++ {
		S.walk(i, f, func(j int, d float64, rhat [3]float64) {
			S.basis.Eval(d, S.mesh, S.bbuf)
			F := floats.Dot(w, S.bbuf)
			out.AddToVec(i, [3]float64{F * rhat[0], F * rhat[1], F * rhat[2]})
		})
	}
	return nil
}

// Potential returns the energy of the frame, with the pair potential
// U(d) = -sum_k w_k * integral of b_k from d to the end of the mesh.
func (S *Spectral) Potential(f *fm.Frame) (float64, error) {
	var U float64
	w := S.params.W
	err := S.sumPairs(f, func(d float64) {
		S.basis.Integral(d, S.mesh, S.bbuf)
		U -= floats.Dot(w, S.bbuf)
	})
	return U, err
}

func (S *Spectral) PotentialGrad(f *fm.Frame, dst []float64) ([]float64, error) {
	if len(dst) != S.params.Len() {
		dst = make([]float64, S.params.Len())
	}
	for k := range dst {
		dst[k] = 0
	}
	err := S.sumPairs(f, func(d float64) {
		S.basis.Integral(d, S.mesh, S.bbuf)
		floats.Sub(dst, S.bbuf)
	})
	return dst, err
}

func (S *Spectral) ForceAt(d float64) float64 {
	S.basis.Eval(d, S.mesh, S.bbuf)
	return floats.Dot(S.params.W, S.bbuf)
}

func (S *Spectral) PotentialAt(d float64) (float64, bool) {
	S.basis.Integral(d, S.mesh, S.bbuf)
	return -floats.Dot(S.params.W, S.bbuf), true
}

func (S *Spectral) Domain() (float64, float64) {
	return S.mesh.Min(), S.mesh.Max()
}

func (S *Spectral) Clone() Force {
	n := new(Spectral)
	n.pairBase = S.pairBase.clone()
	n.mesh = S.mesh
	n.basis = S.basis
	n.params = S.params.Clone()
	n.g = mat.NewDense(S.mesh.Len(), 3, nil)
	n.bbuf = make([]float64, S.mesh.Len())
	return n
}
