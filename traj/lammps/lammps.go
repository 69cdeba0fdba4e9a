/*
 * lammps.go, part of gofm.
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

/*
Package lammps reads reference forces from LAMMPS dump files, such as those written by

	dump 1 all custom 100 forces.dump id fx fy fz

Each frame is located by its "ITEM: ATOMS" line. The columns are taken from that line when it names
them, and are otherwise assumed to be id, fx, fy and fz. Particle ids start at 1.
*/
package lammps

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gofm/v3"
)

// ForceReader reads the forces of a LAMMPS dump, one frame per call to NextForces.
// It can be attached as the force reader of an stf.Source.
type ForceReader struct {
	filename string
	natoms   int
	negate   bool
	f        *os.File
	s        *bufio.Scanner
	line     int
	frame    int
	readable bool
}

// NewForceReader opens the dump file name, which must have natoms particles per frame.
// If negate is true, the forces read are multiplied by -1.
func NewForceReader(name string, natoms int, negate bool) (*ForceReader, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("invalid number of particles %d", natoms), name, 0, []string{"NewForceReader"}, true}
	}
	L := &ForceReader{filename: name, natoms: natoms, negate: negate}
	if err := L.open(); err != nil {
		return nil, errDecorate(err, "NewForceReader")
	}
	return L, nil
}

func (L *ForceReader) open() error {
	var err error
	L.f, err = os.Open(L.filename)
	if err != nil {
		return Error{err.Error(), L.filename, 0, []string{"open"}, true}
	}
	L.s = bufio.NewScanner(L.f)
	L.line = 0
	L.frame = 0
	L.readable = true
	return nil
}

// Len returns the number of particles per frame.
func (L *ForceReader) Len() int { return L.natoms }

// Readable returns true if frames can still be read.
func (L *ForceReader) Readable() bool { return L.readable }

// scan advances to the next line, returning false at the end of the file.
func (L *ForceReader) scan() (bool, error) {
	if L.s.Scan() {
		L.line++
		return true, nil
	}
	if err := L.s.Err(); err != nil {
		return false, Error{err.Error(), L.filename, L.line, []string{"scan"}, true}
	}
	return false, nil
}

// NextForces reads the forces of the next frame into dst, which must have room for Len() particles.
// Any line of the frame that can't be parsed is a critical error.
func (L *ForceReader) NextForces(dst *v3.Matrix) error {
	if !L.readable {
		return Error{"reader not open", L.filename, L.line, []string{"NextForces"}, true}
	}
	if dst == nil || dst.NVecs() != L.natoms {
		return Error{fmt.Sprintf("room for the wrong number of particles, need %d", L.natoms), L.filename, L.line, []string{"NextForces"}, true}
	}
	var header string
	for {
		ok, err := L.scan()
		if err != nil {
			return errDecorate(err, "NextForces")
		}
		if !ok {
			L.Close()
			return newlastFrameError(L.filename, "NextForces")
		}
		if t := L.s.Text(); strings.HasPrefix(t, "ITEM: ATOMS") {
			header = t
			break
		}
	}
	cols, err := columns(header)
	if err != nil {
		return Error{err.Error(), L.filename, L.line, []string{"NextForces"}, true}
	}
	sign := 1.0
	if L.negate {
		sign = -1
	}
	seen := make([]bool, L.natoms)
	for i := 0; i < L.natoms; i++ {
		ok, err := L.scan()
		if err != nil {
			return errDecorate(err, "NextForces")
		}
		if !ok {
			return Error{fmt.Sprintf("frame %d ends after %d particles", L.frame, i), L.filename, L.line, []string{"NextForces"}, true}
		}
		id, force, err := parseLine(L.s.Text(), cols)
		if err != nil {
			return Error{err.Error(), L.filename, L.line, []string{"NextForces"}, true}
		}
		if id < 1 || id > L.natoms || seen[id-1] {
			return Error{fmt.Sprintf("invalid or repeated particle id %d", id), L.filename, L.line, []string{"NextForces"}, true}
		}
		seen[id-1] = true
		dst.SetVec(id-1, [3]float64{sign * force[0], sign * force[1], sign * force[2]})
	}
	L.frame++
	return nil
}

// columns returns the positions of the id, fx, fy and fz columns, given the "ITEM: ATOMS" line.
func columns(header string) ([4]int, error) {
	ret := [4]int{0, 1, 2, 3}
	names := strings.Fields(strings.TrimPrefix(header, "ITEM: ATOMS"))
	if len(names) == 0 {
		return ret, nil
	}
	want := [4]string{"id", "fx", "fy", "fz"}
	for k, w := range want {
		ret[k] = -1
		for i, n := range names {
			if n == w {
				ret[k] = i
			}
		}
		if ret[k] < 0 {
			return ret, fmt.Errorf("column %s missing from '%s'", w, header)
		}
	}
	return ret, nil
}

func parseLine(line string, cols [4]int) (int, [3]float64, error) {
	var force [3]float64
	fields := strings.Fields(line)
	for _, c := range cols {
		if c >= len(fields) {
			return 0, force, fmt.Errorf("invalid forces line: %s", line)
		}
	}
	id, err := strconv.Atoi(fields[cols[0]])
	if err != nil {
		return 0, force, fmt.Errorf("invalid forces line: %s", line)
	}
	for k := 0; k < 3; k++ {
		force[k], err = strconv.ParseFloat(fields[cols[k+1]], 64)
		if err != nil {
			return 0, force, fmt.Errorf("invalid forces line: %s", line)
		}
	}
	return id, force, nil
}

// Rewind reopens the file, so the next call to NextForces reads the first frame.
func (L *ForceReader) Rewind() error {
	L.Close()
	return errDecorate(L.open(), "Rewind")
}

// Close closes the file.
func (L *ForceReader) Close() {
	if L.f != nil {
		L.f.Close()
		L.f = nil
	}
	L.readable = false
}

// NFrames counts the frames in the file, reading it with a separate handle.
func (L *ForceReader) NFrames() (int, error) {
	f, err := os.Open(L.filename)
	if err != nil {
		return 0, Error{err.Error(), L.filename, 0, []string{"NFrames"}, true}
	}
	defer f.Close()
	return countFrames(f)
}

func countFrames(r io.Reader) (int, error) {
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		if strings.HasPrefix(s.Text(), "ITEM: ATOMS") {
			n++
		}
	}
	return n, s.Err()
}
