/*
 * params.go, part of gofm.
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
	"fmt"
	"math"

	fm "github.com/rmera/gofm"
	"gonum.org/v1/gonum/floats"
)

const (
	//DefaultHeight is the initial value of every parameter of a spectral force.
	DefaultHeight = 5.0

	//DefaultSpectralEta is the default learning rate of spectral forces.
	DefaultSpectralEta = 2 * DefaultHeight

	//DefaultAnalyticEta is the default learning rate of analytic forces.
	DefaultAnalyticEta = 0.1
)

// Params is the fitting state of a force: the parameters W, the AdaGrad accumulator
// of squared gradients Lip, the learning rate Eta and the regularizers.
// len(W)==len(Lip) always. Lip never decreases, except through SwapLip.
type Params struct {
	W            []float64
	Lip          []float64
	Eta          float64
	Regularizers []Regularizer

	lipCache []float64
	grad     []float64
}

// NewParams returns parameters with initial values w0 (which are copied), learning rate eta and
// the accumulator set to ones.
func NewParams(w0 []float64, eta float64) *Params {
	P := new(Params)
	P.W = append([]float64(nil), w0...)
	P.Lip = make([]float64, len(w0))
	P.lipCache = make([]float64, len(w0))
	P.grad = make([]float64, len(w0))
	for i := range P.Lip {
		P.Lip[i] = 1
		P.lipCache[i] = 1
	}
	P.Eta = eta
	return P
}

// Len returns the number of parameters.
func (P *Params) Len() int { return len(P.W) }

// Step performs one AdaGrad update with the gradient g, to which the gradients
// of the regularizers are added. g is not modified. If any component of the
// gradient is not finite, nothing is changed.
func (P *Params) Step(g []float64) error {
	if len(g) != len(P.W) {
		return fm.NewError(fm.ErrShape, "Params.Step", "gradient has %d elements, there are %d parameters", len(g), len(P.W))
	}
	copy(P.grad, g)
	for _, r := range P.Regularizers {
		r.AddGrad(P.W, P.grad)
	}
	for k, gk := range P.grad {
		if math.IsNaN(gk) || math.IsInf(gk, 0) {
			return fm.NewError(fm.ErrConfig, "Params.Step", "non-finite gradient for parameter %d", k)
		}
	}
	for k, gk := range P.grad {
		P.Lip[k] += gk * gk
		P.W[k] -= P.Eta / math.Sqrt(P.Lip[k]) * gk
	}
	return nil
}

// Penalty returns the sum of the penalties of the regularizers for the current parameters.
func (P *Params) Penalty() float64 {
	var ret float64
	for _, r := range P.Regularizers {
		ret += r.Penalty(P.W)
	}
	return ret
}

// SwapLip exchanges the accumulator with a cached one, so a different fitting mode
// can build its own step history. Calling it twice restores the original state.
func (P *Params) SwapLip() {
	P.Lip, P.lipCache = P.lipCache, P.Lip
}

// Clone returns a deep copy of P. Regularizers are stateless, so they are shared.
func (P *Params) Clone() *Params {
	n := NewParams(P.W, P.Eta)
	copy(n.Lip, P.Lip)
	copy(n.lipCache, P.lipCache)
	n.Regularizers = append([]Regularizer(nil), P.Regularizers...)
	return n
}

func (P *Params) String() string {
	return fmt.Sprintf("w=%v lip=%v eta=%g", P.W, P.Lip, P.Eta)
}

// Regularizer is a penalty on the parameters that is added to the fitting gradient.
type Regularizer interface {
	//AddGrad adds the gradient of the penalty at w to dst.
	AddGrad(w, dst []float64)
	//Penalty returns the value of the penalty at w.
	Penalty(w []float64) float64
}

// Smooth penalizes differences between consecutive parameters, which, for spectral
// forces, means rough force curves. Penalty = Strength*sum_k (w_k+1 - w_k)^2.
type Smooth struct {
	Strength float64
}

func (S Smooth) AddGrad(w, dst []float64) {
	for k := 0; k < len(w)-1; k++ {
		diff := 2 * S.Strength * (w[k+1] - w[k])
		dst[k] -= diff
		dst[k+1] += diff
	}
}

func (S Smooth) Penalty(w []float64) float64 {
	var ret float64
	for k := 0; k < len(w)-1; k++ {
		d := w[k+1] - w[k]
		ret += d * d
	}
	return S.Strength * ret
}

// L2 penalizes large parameters. Penalty = Strength*sum_k w_k^2.
type L2 struct {
	Strength float64
}

func (L L2) AddGrad(w, dst []float64) {
	floats.AddScaled(dst, 2*L.Strength, w)
}

func (L L2) Penalty(w []float64) float64 {
	return L.Strength * floats.Dot(w, w)
}
