/*
 * topology.go, part of gofm.
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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Atom contains the data of a coarse-grained particle except for the coordinates,
// velocities and forces, which are in the Frame.
type Atom struct {
	ID      int
	Name    string
	Type    string //the particle type, used by type selectors and type pairs.
	MolName string
	MolID   int
	Mass    float64
	Charge  float64
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

// Topology contains the information about a system that is not expected to change in time:
// the particles and the bonds between them. A Topology is immutable once built,
// and shared by all the frames of a trajectory and all the forces of a run.
type Topology struct {
	atoms  []*Atom
	bonds  [][2]int
	bonded [][]int
	types  []string
}

// NewTopology builds a topology from the given atoms and bonds. Each bond
// is stored once, as an ordered pair (i<j). Duplicated bonds are ignored.
func NewTopology(atoms []*Atom, bonds [][2]int) (*Topology, error) {
	if len(atoms) == 0 {
		return nil, NewError(ErrNoAtoms, "NewTopology", "the topology has no particles")
	}
	T := new(Topology)
	T.atoms = atoms
	T.bonded = make([][]int, len(atoms))
	seen := make(map[[2]int]bool, len(bonds))
	for _, b := range bonds {
		i, j := b[0], b[1]
		if i > j {
			i, j = j, i
		}
		if i < 0 || j >= len(atoms) || i == j {
			return nil, NewError(ErrConfig, "NewTopology", "invalid bond %d-%d for %d particles", b[0], b[1], len(atoms))
		}
		if seen[[2]int{i, j}] {
			continue
		}
		seen[[2]int{i, j}] = true
		T.bonds = append(T.bonds, [2]int{i, j})
		T.bonded[i] = append(T.bonded[i], j)
		T.bonded[j] = append(T.bonded[j], i)
	}
	for _, v := range T.bonded {
		sort.Ints(v)
	}
	tmap := make(map[string]bool)
	for _, a := range atoms {
		if !tmap[a.Type] {
			tmap[a.Type] = true
			T.types = append(T.types, a.Type)
		}
	}
	return T, nil
}

// Len returns the number of particles.
func (T *Topology) Len() int {
	return len(T.atoms)
}

// Atom returns the ith atom. It panics if i is out of range.
func (T *Topology) Atom(i int) *Atom {
	return T.atoms[i]
}

// Bonds returns the bonded pairs in the topology. The slice must not be modified.
func (T *Topology) Bonds() [][2]int {
	return T.bonds
}

// Bonded returns the sorted indexes of the particles bonded to i.
func (T *Topology) Bonded(i int) []int {
	return T.bonded[i]
}

// Types returns the distinct particle types in the topology, in the order
// in which they first appear.
func (T *Topology) Types() []string {
	return T.types
}

// Select evaluates a selector and returns a mask with one element per particle, true for
// the selected ones. A selector is a list of clauses joined by " or ". Each clause is
// one of:
//
//	all
//	type T1 [T2 ...]
//	name N1 [N2 ...]
//	resname R1 [R2 ...]
//	index i[-j] [k ...]   (0-based, ranges are inclusive)
//
// A selector that matches no particle is an error.
func (T *Topology) Select(sel string) ([]bool, error) {
	mask := make([]bool, T.Len())
	clauses := strings.Split(strings.TrimSpace(sel), " or ")
	for _, c := range clauses {
		fields := strings.Fields(c)
		if len(fields) == 0 {
			return nil, NewError(ErrConfig, "Topology.Select", "empty clause in selector %q", sel)
		}
		key := strings.ToLower(fields[0])
		args := fields[1:]
		if key != "all" && len(args) == 0 {
			return nil, NewError(ErrConfig, "Topology.Select", "clause %q in selector %q has no arguments", c, sel)
		}
		switch key {
		case "all":
			for i := range mask {
				mask[i] = true
			}
		case "type", "name", "resname":
			want := make(map[string]bool, len(args))
			for _, a := range args {
				want[a] = true
			}
			for i, at := range T.atoms {
				if want[atomField(at, key)] {
					mask[i] = true
				}
			}
		case "index":
			for _, a := range args {
				lo, hi, err := parseRange(a)
				if err != nil {
					return nil, NewError(ErrConfig, "Topology.Select", "bad index %q in selector %q: %s", a, sel, err)
				}
				for i := lo; i <= hi && i < len(mask); i++ {
					if i >= 0 {
						mask[i] = true
					}
				}
			}
		default:
			return nil, NewError(ErrConfig, "Topology.Select", "unknown keyword %q in selector %q", fields[0], sel)
		}
	}
	for _, v := range mask {
		if v {
			return mask, nil
		}
	}
	return nil, NewError(ErrNoAtoms, "Topology.Select", "selector %q matches no particle", sel)
}

func atomField(at *Atom, key string) string {
	switch key {
	case "type":
		return at.Type
	case "name":
		return at.Name
	default:
		return at.MolName
	}
}

func parseRange(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	lo, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		return lo, lo, nil
	}
	hi, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("range end %d before start %d", hi, lo)
	}
	return lo, hi, nil
}
