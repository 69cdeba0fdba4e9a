/*
 * category.go, part of gofm.
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
	"math"
)

// CategoryKind identifies the kind of particle pairs a category produces.
type CategoryKind int

const (
	PairwiseKind CategoryKind = iota
	BondedKind
)

func (k CategoryKind) String() string {
	switch k {
	case PairwiseKind:
		return "pairwise"
	case BondedKind:
		return "bonded"
	}
	return "unknown"
}

// Category decides which particle pairs interact. All the forces of a kind
// share one Category per run, so the neighbor data is built once per frame no matter
// how many forces use it.
type Category interface {
	Kind() CategoryKind

	//Bind attaches the category to a topology. Binding again to the
	//same topology does nothing.
	Bind(top *Topology) error

	//Setup prepares the neighbor data for the frame, if it is stale.
	Setup(f *Frame) error

	//Teardown marks the neighbor data as stale.
	Teardown()

	//Neighbors returns the partners of particle i. Only valid between Setup and Teardown.
	Neighbors(i int) []int

	//PairExists returns true if the category can produce at least one pair with a particle
	//selected by mask1 and the other by mask2.
	PairExists(mask1, mask2 []bool) bool
}

// Pairwise is the category for non-bonded interactions within a cutoff.
type Pairwise struct {
	cutoff    float64
	exclude13 bool
	top       *Topology
	nl        *NeighborList
	stale     bool
}

func (P *Pairwise) Kind() CategoryKind { return PairwiseKind }

// Cutoff returns the cutoff radius of the category.
func (P *Pairwise) Cutoff() float64 { return P.cutoff }

func (P *Pairwise) Bind(top *Topology) error {
	if P.top == top {
		return nil
	}
	if P.top != nil {
		return NewError(ErrConfig, "Pairwise.Bind", "category already bound to a different topology")
	}
	nl, err := NewNeighborList(top.Len(), P.cutoff, P.exclude13)
	if err != nil {
		return errDecorate(err, "Pairwise.Bind")
	}
	if err := nl.SetExclusions(top); err != nil {
		return errDecorate(err, "Pairwise.Bind")
	}
	P.top = top
	P.nl = nl
	P.stale = true
	return nil
}

func (P *Pairwise) Setup(f *Frame) error {
	if P.nl == nil {
		return NewError(ErrConfig, "Pairwise.Setup", "category not bound to a topology")
	}
	if !P.stale {
		return nil
	}
	if err := P.nl.Build(f); err != nil {
		return errDecorate(err, "Pairwise.Setup")
	}
	P.stale = false
	return nil
}

func (P *Pairwise) Teardown() { P.stale = true }

func (P *Pairwise) Neighbors(i int) []int { return P.nl.Neighbors(i) }

// PairExists always returns true: any two particle types can come within the cutoff.
func (P *Pairwise) PairExists(mask1, mask2 []bool) bool { return true }

// NeighborList returns the neighbor list of the category, or nil if it is not bound.
func (P *Pairwise) NeighborList() *NeighborList { return P.nl }

// Bonded is the category for interactions between bonded particles.
// Its pairs come from the topology and do not change between frames.
type Bonded struct {
	top *Topology
}

func (B *Bonded) Kind() CategoryKind { return BondedKind }

func (B *Bonded) Bind(top *Topology) error {
	if B.top != nil && B.top != top {
		return NewError(ErrConfig, "Bonded.Bind", "category already bound to a different topology")
	}
	B.top = top
	return nil
}

func (B *Bonded) Setup(f *Frame) error {
	if B.top == nil {
		return NewError(ErrConfig, "Bonded.Setup", "category not bound to a topology")
	}
	return nil
}

func (B *Bonded) Teardown() {}

func (B *Bonded) Neighbors(i int) []int { return B.top.Bonded(i) }

// PairExists returns true if some bond joins a particle in mask1 and one in mask2.
func (B *Bonded) PairExists(mask1, mask2 []bool) bool {
	if B.top == nil {
		return false
	}
	for _, b := range B.top.Bonds() {
		i, j := b[0], b[1]
		if (mask1[i] && mask2[j]) || (mask1[j] && mask2[i]) {
			return true
		}
	}
	return false
}

// Registry holds the categories of a run: at most one of each kind. Forces obtain
// their category from the registry so they share it.
type Registry struct {
	exclude13 bool
	pairwise  *Pairwise
	bonded    *Bonded
}

// NewRegistry returns an empty registry. exclude13 applies to the pairwise
// category it will create.
func NewRegistry(exclude13 bool) *Registry {
	return &Registry{exclude13: exclude13}
}

// Pairwise returns the pairwise category of the run, creating it if needed.
// It is an error to request a cutoff different from that of the existing category.
func (R *Registry) Pairwise(cutoff float64) (*Pairwise, error) {
	if cutoff <= 0 {
		return nil, NewError(ErrConfig, "Registry.Pairwise", "invalid cutoff %g", cutoff)
	}
	if R.pairwise == nil {
		R.pairwise = &Pairwise{cutoff: cutoff, exclude13: R.exclude13, stale: true}
		return R.pairwise, nil
	}
	if math.Abs(R.pairwise.cutoff-cutoff) > 1e-9 {
		return nil, NewError(ErrIncompatibleCutoff, "Registry.Pairwise", "requested %g, but the run uses %g", cutoff, R.pairwise.cutoff)
	}
	return R.pairwise, nil
}

// Bonded returns the bonded category of the run, creating it if needed.
func (R *Registry) Bonded() *Bonded {
	if R.bonded == nil {
		R.bonded = new(Bonded)
	}
	return R.bonded
}
