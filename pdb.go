/*
 * pdb.go, part of gofm.
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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gofm/v3"
)

// PDBFileRead reads a coarse-grained structure from a PDB file. See PDBRead.
func PDBFileRead(pdbname string) (*Topology, *Frame, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, nil, NewError(err, "PDBFileRead", "can't open %s", pdbname)
	}
	defer pdbfile.Close()
	top, frame, err := PDBRead(pdbfile)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBFileRead "+pdbname)
	}
	return top, frame, nil
}

// PDBRead reads the first model of a PDB stream. It returns the topology (particles
// from ATOM/HETATM records and bonds from CONECT records) and a frame with the coordinates
// and, if a CRYST1 record is present, the box. The particle type is the element
// field (columns 77-78) if present, and the atom name otherwise.
func PDBRead(r io.Reader) (*Topology, *Frame, error) {
	atoms := make([]*Atom, 0, 100)
	coords := make([]float64, 0, 300)
	serials := make(map[int]int) //PDB serial -> index
	var conect [][]int
	var box []float64
	pdb := bufio.NewScanner(r)
	contlines := 0
scan:
	for pdb.Scan() {
		line := pdb.Text()
		contlines++
		switch {
		case strings.HasPrefix(line, "ENDMDL"):
			break scan
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			at, c, err := readPDBAtomLine(line)
			if err != nil {
				return nil, nil, NewError(ErrConfig, "PDBRead", "line %d: %s", contlines, err)
			}
			serials[at.ID] = len(atoms)
			atoms = append(atoms, at)
			coords = append(coords, c[:]...)
		case strings.HasPrefix(line, "CONECT"):
			fields, err := readConectLine(line)
			if err != nil {
				return nil, nil, NewError(ErrConfig, "PDBRead", "line %d: %s", contlines, err)
			}
			conect = append(conect, fields)
		case strings.HasPrefix(line, "CRYST1"):
			b, err := readCrystLine(line)
			if err != nil {
				return nil, nil, NewError(ErrConfig, "PDBRead", "line %d: %s", contlines, err)
			}
			box = b
		}
	}
	if err := pdb.Err(); err != nil {
		return nil, nil, NewError(err, "PDBRead", "reading line %d", contlines)
	}
	bonds := make([][2]int, 0, len(conect))
	for _, c := range conect {
		i, ok := serials[c[0]]
		if !ok {
			return nil, nil, NewError(ErrConfig, "PDBRead", "CONECT record for unknown atom %d", c[0])
		}
		for _, s := range c[1:] {
			j, ok := serials[s]
			if !ok {
				return nil, nil, NewError(ErrConfig, "PDBRead", "CONECT record to unknown atom %d", s)
			}
			bonds = append(bonds, [2]int{i, j})
		}
	}
	top, err := NewTopology(atoms, bonds)
	if err != nil {
		return nil, nil, errDecorate(err, "PDBRead")
	}
	mcoords, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, NewError(ErrShape, "PDBRead", "%s", err)
	}
	return top, &Frame{Coords: mcoords, Box: box}, nil
}

// readPDBAtomLine parses a valid ATOM or HETATM line, returning an Atom
// and its coordinates.
func readPDBAtomLine(line string) (*Atom, [3]float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return nil, coords, NewError(ErrConfig, "readPDBAtomLine", "line too short: %q", line)
	}
	err := make([]error, 5)
	atom := new(Atom)
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.MolName = strings.TrimSpace(line[17:20])
	atom.MolID, err[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], err[2] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], err[3] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], err[4] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, e := range err {
		if e != nil {
			return nil, coords, e
		}
	}
	atom.Type = atom.Name
	if len(line) >= 78 {
		if t := strings.TrimSpace(line[76:78]); t != "" {
			atom.Type = t
		}
	}
	atom.Mass = 1
	return atom, coords, nil
}

// readConectLine returns the serial numbers in a CONECT record. The first
// one is the atom the others are bonded to.
func readConectLine(line string) ([]int, error) {
	ret := make([]int, 0, 5)
	for start := 6; start < len(line); start += 5 {
		end := start + 5
		if end > len(line) {
			end = len(line)
		}
		f := strings.TrimSpace(line[start:end])
		if f == "" {
			continue
		}
		s, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	if len(ret) < 2 {
		return nil, NewError(ErrConfig, "readConectLine", "CONECT record with no bonds: %q", line)
	}
	return ret, nil
}

// readCrystLine reads the box side lengths from a CRYST1 record. Only rectangular
// boxes are supported, the angles are ignored.
func readCrystLine(line string) ([]float64, error) {
	if len(line) < 33 {
		return nil, NewError(ErrConfig, "readCrystLine", "CRYST1 line too short: %q", line)
	}
	box := make([]float64, 3)
	var err error
	for k := 0; k < 3; k++ {
		box[k], err = strconv.ParseFloat(strings.TrimSpace(line[6+9*k:15+9*k]), 64)
		if err != nil {
			return nil, err
		}
	}
	return box, nil
}
