/*
 * force.go, part of gofm.
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

// Force is any term that can contribute forces to the particles of a frame.
type Force interface {
	//Name returns a short label for the force, used in logs and files.
	Name() string

	//Category returns the category that produces the pairs of the force, or nil if
	//the force does not work on pairs.
	Category() fm.Category

	//Specialize restricts the force to pairs with one particle selected by sel1 and the
	//other by sel2. An empty sel1 selects all particles, an empty sel2 means "same as sel1".
	//It must be called before Setup.
	Specialize(sel1, sel2 string)

	//Setup binds the force to a topology. It must be called once before using the force.
	Setup(top *fm.Topology) error

	//CalcForces adds the forces for all particles in f to out.
	CalcForces(out *v3.Matrix, f *fm.Frame) error

	//Clone returns an independent copy of the force, with its own parameters,
	//sharing the category (and the mesh, if any) with the original.
	Clone() Force
}

// Fittable is a force with parameters that can be fitted.
type Fittable interface {
	Force

	//Params returns the parameter state of the force. Changes to it affect the force.
	Params() *Params

	//ParticleForce returns the force on particle i and its gradient with respect to the parameters,
	//as a len(w)x3 matrix. The category must have been set up for f. The returned matrix
	//is reused by the next call.
	ParticleForce(i int, f *fm.Frame) ([3]float64, *mat.Dense)
}

// Potentialer is a force that also knows its potential energy.
type Potentialer interface {
	//Potential returns the potential energy of the frame. Each pair is counted once.
	Potential(f *fm.Frame) (float64, error)

	//PotentialGrad returns the gradient of the potential energy with respect to the
	//parameters of the force, in dst if it has the right length.
	PotentialGrad(f *fm.Frame, dst []float64) ([]float64, error)
}

// Curve is a pair force that can be evaluated as a function of the distance,
// for plotting and tabulation.
type Curve interface {
	Name() string
	ForceAt(d float64) float64
	PotentialAt(d float64) (float64, bool)
	Domain() (float64, float64)
}

// pairBase has what all the pair forces share: the category, the selections and the
// masks, and the walk over the partners of a particle.
type pairBase struct {
	name  string
	cat   fm.Category
	sel1  string
	sel2  string
	mask1 []bool
	mask2 []bool
}

func (p *pairBase) Name() string {
	if p.sel1 == "" {
		return p.name
	}
	if p.sel2 == "" {
		return p.name + "[" + p.sel1 + "]"
	}
	return p.name + "[" + p.sel1 + "|" + p.sel2 + "]"
}

func (p *pairBase) Category() fm.Category { return p.cat }

func (p *pairBase) Specialize(sel1, sel2 string) {
	p.sel1 = sel1
	p.sel2 = sel2
}

// Selections returns the selectors given to Specialize.
func (p *pairBase) Selections() (string, string) { return p.sel1, p.sel2 }

func (p *pairBase) setup(top *fm.Topology) error {
	if p.cat == nil {
		return fm.NewError(fm.ErrConfig, "Setup "+p.Name(), "force has no category")
	}
	if err := p.cat.Bind(top); err != nil {
		return err
	}
	var err error
	if p.sel1 == "" {
		p.mask1 = make([]bool, top.Len())
		for i := range p.mask1 {
			p.mask1[i] = true
		}
	} else if p.mask1, err = top.Select(p.sel1); err != nil {
		return err
	}
	if p.sel2 == "" {
		p.mask2 = p.mask1
	} else if p.mask2, err = top.Select(p.sel2); err != nil {
		return err
	}
	return nil
}

// partnerMask returns the mask the partners of i must be in, or nil if
// i is in neither selection.
func (p *pairBase) partnerMask(i int) []bool {
	if p.mask1[i] {
		return p.mask2
	}
	if p.mask2[i] {
		return p.mask1
	}
	return nil
}

// walk calls fn for each partner j of i in the frame, with the distance d and
// the unit vector rhat from i to j.
func (p *pairBase) walk(i int, f *fm.Frame, fn func(j int, d float64, rhat [3]float64)) {
	maskj := p.partnerMask(i)
	if maskj == nil {
		return
	}
	xi := f.Coords.Vec(i)
	for _, j := range p.cat.Neighbors(i) {
		if !maskj[j] {
			continue
		}
		r := fm.MinImageVec(f.Coords.Vec(j), xi, f.Box)
		d := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
		if d == 0 {
			continue
		}
		fn(j, d, [3]float64{r[0] / d, r[1] / d, r[2] / d})
	}
}

// sumPairs calls fn once per pair, with the distance, over the whole frame.
func (p *pairBase) sumPairs(f *fm.Frame, fn func(d float64)) error {
	if err := p.cat.Setup(f); err != nil {
		return err
	}
	for i := 0; i < f.Len(); i++ {
		p.walk(i, f, func(j int, d float64, _ [3]float64) {
			if i < j {
				fn(d)
			}
		})
	}
	return nil
}

func (p *pairBase) clone() pairBase {
	return pairBase{name: p.name, cat: p.cat, sel1: p.sel1, sel2: p.sel2, mask1: p.mask1, mask2: p.mask2}
}

// cutoff returns the cutoff of the category of the force, or 0 if it has none.
func (p *pairBase) cutoff() float64 {
	if c, ok := p.cat.(*fm.Pairwise); ok {
		return c.Cutoff()
	}
	return 0
}
