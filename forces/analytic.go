/*
 * analytic.go, part of gofm.
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

	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
	"gonum.org/v1/gonum/mat"
)

// Law is a closed-form pair force F(d, w), where F is the derivative of the
// pair potential with respect to the distance, so a positive F pulls the
// particles together.
type Law struct {
	Name    string
	NParams int

	Force     func(d float64, w []float64) float64
	ForceGrad func(d float64, w []float64, dst []float64) //dF/dw, written to dst

	//Optional. If nil, the force has no potential.
	Potential     func(d float64, w []float64) float64
	PotentialGrad func(d float64, w []float64, dst []float64)

	//Optional. Range of distances worth plotting, given the parameters and
	//the cutoff (0 if there is none).
	Domain func(w []float64, cutoff float64) (float64, float64)
}

// LJLaw is the Lennard-Jones law, with w = (epsilon, sigma).
var LJLaw = Law{
	Name:    "lj",
	NParams: 2,
	Force: func(d float64, w []float64) float64 {
		s6 := math.Pow(w[1], 6)
		return 4 * w[0] * (6*s6/math.Pow(d, 7) - 12*s6*s6/math.Pow(d, 13))
	},
	ForceGrad: func(d float64, w []float64, dst []float64) {
		s5 := math.Pow(w[1], 5)
		s6 := s5 * w[1]
		d7 := math.Pow(d, 7)
		d13 := math.Pow(d, 13)
		dst[0] = 4 * (6*s6/d7 - 12*s6*s6/d13)
		dst[1] = 4 * w[0] * (36*s5/d7 - 144*s6*s5/d13)
	},
	Potential: func(d float64, w []float64) float64 {
		sd6 := math.Pow(w[1]/d, 6)
		return 4 * w[0] * (sd6*sd6 - sd6)
	},
	PotentialGrad: func(d float64, w []float64, dst []float64) {
		sd6 := math.Pow(w[1]/d, 6)
		dst[0] = 4 * (sd6*sd6 - sd6)
		dst[1] = 4 * w[0] * (12*sd6*sd6 - 6*sd6) / w[1]
	},
	Domain: func(w []float64, cutoff float64) (float64, float64) {
		if cutoff <= 0 {
			cutoff = 3 * w[1]
		}
		return 0.85 * w[1], cutoff
	},
}

// HarmonicLaw is a harmonic spring, U = k/2 (d-r0)^2, with w = (k, r0).
// It is meant for bonded categories.
var HarmonicLaw = Law{
	Name:    "harmonic",
	NParams: 2,
	Force: func(d float64, w []float64) float64 {
		return w[0] * (d - w[1])
	},
	ForceGrad: func(d float64, w []float64, dst []float64) {
		dst[0] = d - w[1]
		dst[1] = -w[0]
	},
	Potential: func(d float64, w []float64) float64 {
		x := d - w[1]
		return 0.5 * w[0] * x * x
	},
	PotentialGrad: func(d float64, w []float64, dst []float64) {
		x := d - w[1]
		dst[0] = 0.5 * x * x
		dst[1] = -w[0] * x
	},
	Domain: func(w []float64, cutoff float64) (float64, float64) {
		return 0.5 * w[1], 1.5 * w[1]
	},
}

// ConstantLaw returns a law with a constant force F = w0. Its potential,
// -integral from d to the cutoff of F, is only defined if cutoff > 0.
func ConstantLaw(cutoff float64) Law {
	l := Law{
		Name:    "constant",
		NParams: 1,
		Force:   func(d float64, w []float64) float64 { return w[0] },
		ForceGrad: func(d float64, w []float64, dst []float64) {
			dst[0] = 1
		},
		Domain: func(w []float64, c float64) (float64, float64) {
			if c <= 0 {
				c = 1
			}
			return 0, c
		},
	}
	if cutoff > 0 {
		l.Potential = func(d float64, w []float64) float64 { return -w[0] * (cutoff - d) }
		l.PotentialGrad = func(d float64, w []float64, dst []float64) { dst[0] = -(cutoff - d) }
	}
	return l
}

// Analytic is a pair force given by a closed-form Law.
type Analytic struct {
	pairBase
	law    Law
	params *Params
	g      *mat.Dense
	gbuf   []float64
}

// NewAnalytic returns a pair force following law in the category cat, with initial parameters w0.
func NewAnalytic(law Law, cat fm.Category, w0 []float64) (*Analytic, error) {
	if len(w0) != law.NParams {
		return nil, fm.NewError(fm.ErrConfig, "NewAnalytic", "law %s takes %d parameters, %d given", law.Name, law.NParams, len(w0))
	}
	if law.Force == nil || law.ForceGrad == nil {
		return nil, fm.NewError(fm.ErrConfig, "NewAnalytic", "law %s lacks a force or its gradient", law.Name)
	}
	A := new(Analytic)
	A.pairBase = pairBase{name: law.Name, cat: cat}
	A.law = law
	A.params = NewParams(w0, DefaultAnalyticEta)
	A.g = mat.NewDense(law.NParams, 3, nil)
	A.gbuf = make([]float64, law.NParams)
	return A, nil
}

// NewLJ returns a Lennard-Jones force in the category cat.
func NewLJ(cat fm.Category, epsilon, sigma float64) (*Analytic, error) {
	return NewAnalytic(LJLaw, cat, []float64{epsilon, sigma})
}

// NewHarmonic returns a harmonic bond force in the category cat.
func NewHarmonic(cat fm.Category, k, r0 float64) (*Analytic, error) {
	return NewAnalytic(HarmonicLaw, cat, []float64{k, r0})
}

func (A *Analytic) Setup(top *fm.Topology) error {
	if err := A.setup(top); err != nil {
		return fm.NewError(err, "Analytic.Setup", "%s", A.Name())
	}
	return nil
}

func (A *Analytic) Params() *Params { return A.params }

func (A *Analytic) ParticleForce(i int, f *fm.Frame) ([3]float64, *mat.Dense) {
	var force [3]float64
	A.g.Zero()
	w := A.params.W
	A.walk(i, f, func(j int, d float64, rhat [3]float64) {
		F := A.law.Force(d, w)
		A.law.ForceGrad(d, w, A.gbuf)
		for k := 0; k < 3; k++ {
			force[k] += F * rhat[k]
		}
		for p, gp := range A.gbuf {
			for k := 0; k < 3; k++ {
				A.g.Set(p, k, A.g.At(p, k)+gp*rhat[k])
			}
		}
	})
	return force, A.g
}

func (A *Analytic) CalcForces(out *v3.Matrix, f *fm.Frame) error {
	if err := A.cat.Setup(f); err != nil {
		return err
	}
	w := A.params.W
	for i := 0; i < f.Len(); i++ {
		A.walk(i, f, func(j int, d float64, rhat [3]float64) {
			F := A.law.Force(d, w)
			out.AddToVec(i, [3]float64{F * rhat[0], F * rhat[1], F * rhat[2]})
		})
	}
	return nil
}

// HasPotential returns true if the law of the force has a potential.
func (A *Analytic) HasPotential() bool {
	return A.law.Potential != nil && A.law.PotentialGrad != nil
}

func (A *Analytic) Potential(f *fm.Frame) (float64, error) {
	if !A.HasPotential() {
		return 0, fm.NewError(fm.ErrConfig, "Analytic.Potential", "%s has no potential", A.Name())
	}
	var U float64
	w := A.params.W
	err := A.sumPairs(f, func(d float64) { U += A.law.Potential(d, w) })
	return U, err
}

func (A *Analytic) PotentialGrad(f *fm.Frame, dst []float64) ([]float64, error) {
	if !A.HasPotential() {
		return nil, fm.NewError(fm.ErrConfig, "Analytic.PotentialGrad", "%s has no potential", A.Name())
	}
	if len(dst) != A.params.Len() {
		dst = make([]float64, A.params.Len())
	}
	for k := range dst {
		dst[k] = 0
	}
	w := A.params.W
	err := A.sumPairs(f, func(d float64) {
		A.law.PotentialGrad(d, w, A.gbuf)
		for k, v := range A.gbuf {
			dst[k] += v
		}
	})
	return dst, err
}

func (A *Analytic) ForceAt(d float64) float64 {
	return A.law.Force(d, A.params.W)
}

func (A *Analytic) PotentialAt(d float64) (float64, bool) {
	if !A.HasPotential() {
		return 0, false
	}
	return A.law.Potential(d, A.params.W), true
}

func (A *Analytic) Domain() (float64, float64) {
	if A.law.Domain == nil {
		c := A.cutoff()
		if c <= 0 {
			c = 1
		}
		return 0, c
	}
	return A.law.Domain(A.params.W, A.cutoff())
}

func (A *Analytic) Clone() Force {
	n := new(Analytic)
	n.pairBase = A.pairBase.clone()
	n.law = A.law
	n.params = A.params.Clone()
	n.g = mat.NewDense(A.law.NParams, 3, nil)
	n.gbuf = make([]float64, A.law.NParams)
	return n
}
