/*
 * nlist.go, part of gofm.
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
	"sort"
)

// NeighborList is a cell-linked list. For each frame it produces a flattened, directed
// neighbor list: the neighbors of particle i are nlist[offsets[i]:offsets[i]+lengths[i]],
// so each pair normally appears once in the segment of each of its members.
// Pairs of bonded particles (and, optionally, particles separated by two bonds)
// are excluded.
type NeighborList struct {
	natoms    int
	cutoff    float64
	exclude13 bool

	//grid
	box       []float64
	ncells    [3]int
	cellsize  [3]float64
	origin    [3]float64
	periodic  bool
	cellneigh [][]int

	//linked lists
	head []int
	next []int

	exclusions [][]int

	nlist   []int
	lengths []int
	offsets []int
}

// NewNeighborList returns a neighbor list for natoms particles with the given cutoff.
// If exclude13 is true, particles separated by two bonds are excluded in addition
// to bonded ones, once SetExclusions is called.
func NewNeighborList(natoms int, cutoff float64, exclude13 bool) (*NeighborList, error) {
	if natoms <= 0 {
		return nil, NewError(ErrNoAtoms, "NewNeighborList", "%d particles requested", natoms)
	}
	if cutoff <= 0 || math.IsNaN(cutoff) || math.IsInf(cutoff, 0) {
		return nil, NewError(ErrConfig, "NewNeighborList", "invalid cutoff %g", cutoff)
	}
	N := new(NeighborList)
	N.natoms = natoms
	N.cutoff = cutoff
	N.exclude13 = exclude13
	N.next = make([]int, natoms)
	N.exclusions = make([][]int, natoms)
	N.lengths = make([]int, natoms)
	N.offsets = make([]int, natoms)
	return N, nil
}

// Cutoff returns the cutoff radius of the list.
func (N *NeighborList) Cutoff() float64 { return N.cutoff }

// SetExclusions builds the exclusion lists from the bonds in top.
// It only needs to be called once per topology.
func (N *NeighborList) SetExclusions(top *Topology) error {
	if top.Len() != N.natoms {
		return NewError(ErrShape, "NeighborList.SetExclusions", "topology has %d particles, list was made for %d", top.Len(), N.natoms)
	}
	for i := 0; i < N.natoms; i++ {
		ex := make(map[int]bool)
		for _, j := range top.Bonded(i) {
			ex[j] = true
			if !N.exclude13 {
				continue
			}
			for _, k := range top.Bonded(j) {
				if k != i {
					ex[k] = true
				}
			}
		}
		list := make([]int, 0, len(ex))
		for j := range ex {
			list = append(list, j)
		}
		sort.Ints(list)
		N.exclusions[i] = list
	}
	return nil
}

// Excluded returns true if the pair i,j is in the exclusion list.
func (N *NeighborList) Excluded(i, j int) bool {
	ex := N.exclusions[i]
	k := sort.SearchInts(ex, j)
	return k < len(ex) && ex[k] == j
}

// Build bins the particles of f into cells and rebuilds the neighbor list.
// In periodic mode the cutoff must not exceed half of the smallest box side.
func (N *NeighborList) Build(f *Frame) error {
	if f.Len() != N.natoms {
		return NewError(ErrShape, "NeighborList.Build", "frame has %d particles, list was made for %d", f.Len(), N.natoms)
	}
	if err := N.grid(f); err != nil {
		return errDecorate(err, "NeighborList.Build")
	}
	N.bin(f)
	N.nlist = N.nlist[:0]
	cutsq := N.cutoff * N.cutoff
	for i := 0; i < N.natoms; i++ {
		N.offsets[i] = len(N.nlist)
		xi := f.Coords.Vec(i)
		for _, c := range N.cellneigh[N.cellOf(xi)] {
			for j := N.head[c]; j >= 0; j = N.next[j] {
				if j == i || N.Excluded(i, j) {
					continue
				}
				if MinImageDistSq(f.Coords.Vec(j), xi, N.box) < cutsq {
					N.nlist = append(N.nlist, j)
				}
			}
		}
		N.lengths[i] = len(N.nlist) - N.offsets[i]
	}
	return nil
}

// Neighbors returns the neighbors of particle i found by the last Build.
// The slice must not be modified.
func (N *NeighborList) Neighbors(i int) []int {
	o := N.offsets[i]
	return N.nlist[o : o+N.lengths[i]]
}

// grid recomputes the cell grid if needed. In periodic mode this only happens when
// the box changes. In non-periodic mode the grid spans the bounding box of the
// current positions, so it is recomputed every frame.
func (N *NeighborList) grid(f *Frame) error {
	var ncells [3]int
	wasperiodic := N.periodic
	if f.Periodic() {
		for _, L := range f.Box {
			if N.cutoff > L/2 {
				return NewError(ErrConfig, "grid", "cutoff %g larger than half the box side %g", N.cutoff, L)
			}
		}
		if N.periodic && equalBox(N.box, f.Box) {
			return nil
		}
		N.periodic = true
		N.box = append(N.box[:0], f.Box...)
		for k, L := range f.Box {
			ncells[k] = cellCount(L, N.cutoff)
			N.cellsize[k] = L / float64(ncells[k])
			N.origin[k] = 0
		}
	} else {
		if len(f.Box) != 0 {
			return NewError(ErrConfig, "grid", "invalid box %v", f.Box)
		}
		N.periodic = false
		N.box = nil
		lo, hi := boundingBox(f)
		for k := 0; k < 3; k++ {
			extent := hi[k] - lo[k]
			ncells[k] = cellCount(extent, N.cutoff)
			N.cellsize[k] = extent / float64(ncells[k])
			if N.cellsize[k] <= 0 {
				N.cellsize[k] = N.cutoff
			}
			N.origin[k] = lo[k]
		}
	}
	if ncells == N.ncells && N.cellneigh != nil && wasperiodic == N.periodic {
		return nil
	}
	N.ncells = ncells
	total := ncells[0] * ncells[1] * ncells[2]
	N.head = make([]int, total)
	N.cellneigh = make([][]int, total)
	for x := 0; x < ncells[0]; x++ {
		for y := 0; y < ncells[1]; y++ {
			for z := 0; z < ncells[2]; z++ {
				N.cellneigh[N.cellIndex(x, y, z)] = N.neighborCells(x, y, z)
			}
		}
	}
	return nil
}

// neighborCells returns the deduplicated indexes of the cells around (and including) x,y,z.
func (N *NeighborList) neighborCells(x, y, z int) []int {
	seen := make(map[int]bool, 27)
	ret := make([]int, 0, 27)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				c := [3]int{x + dx, y + dy, z + dz}
				ok := true
				for k := range c {
					if N.periodic {
						c[k] = wrap(c[k], N.ncells[k])
					} else if c[k] < 0 || c[k] >= N.ncells[k] {
						ok = false
					}
				}
				if !ok {
					continue
				}
				idx := N.cellIndex(c[0], c[1], c[2])
				if !seen[idx] {
					seen[idx] = true
					ret = append(ret, idx)
				}
			}
		}
	}
	return ret
}

// bin fills the linked lists.
func (N *NeighborList) bin(f *Frame) {
	for c := range N.head {
		N.head[c] = -1
	}
	for i := 0; i < N.natoms; i++ {
		c := N.cellOf(f.Coords.Vec(i))
		N.next[i] = N.head[c]
		N.head[c] = i
	}
}

func (N *NeighborList) cellOf(x [3]float64) int {
	var c [3]int
	for k := 0; k < 3; k++ {
		c[k] = int(math.Floor((x[k] - N.origin[k]) / N.cellsize[k]))
		if N.periodic {
			c[k] = wrap(c[k], N.ncells[k])
		} else if c[k] >= N.ncells[k] {
			c[k] = N.ncells[k] - 1
		} else if c[k] < 0 {
			c[k] = 0
		}
	}
	return N.cellIndex(c[0], c[1], c[2])
}

func (N *NeighborList) cellIndex(x, y, z int) int {
	return (x*N.ncells[1]+y)*N.ncells[2] + z
}

// cellCount returns the number of cells along an axis of the given length. Cells are never
// smaller than the cutoff, so the 27 neighboring cells always contain every partner.
func cellCount(length, cutoff float64) int {
	n := int(math.Floor(length / cutoff))
	if n < 1 {
		n = 1
	}
	return n
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func equalBox(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func boundingBox(f *Frame) ([3]float64, [3]float64) {
	lo := f.Coords.Vec(0)
	hi := lo
	for i := 1; i < f.Len(); i++ {
		v := f.Coords.Vec(i)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return lo, hi
}
