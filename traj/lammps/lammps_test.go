/*
 * lammps_test.go, part of gofm.
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

package lammps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	fm "github.com/rmera/gofm"
	v3 "github.com/rmera/gofm/v3"
)

const dump = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type fx fy fz
2 1 0.5 0 0
1 1 -1 2 3
3 2 0 0 -0.25
ITEM: TIMESTEP
100
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type fx fy fz
1 1 1 1 1
2 1 2 2 2
3 2 3 3 3
`

func writeDump(Te *testing.T, content string) string {
	Te.Helper()
	name := filepath.Join(Te.TempDir(), "forces.dump")
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestForceReader(Te *testing.T) {
	g := NewWithT(Te)
	L, err := NewForceReader(writeDump(Te, dump), 3, true)
	g.Expect(err).NotTo(HaveOccurred())
	defer L.Close()
	n, err := L.NFrames()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(2))

	dst := v3.Zeros(3)
	g.Expect(L.NextForces(dst)).To(Succeed())
	//particles come back in id order, with the sign flipped
	g.Expect(dst.Vec(0)).To(Equal([3]float64{1, -2, -3}))
	g.Expect(dst.Vec(1)).To(Equal([3]float64{-0.5, 0, 0}))
	g.Expect(dst.Vec(2)).To(Equal([3]float64{0, 0, 0.25}))
	g.Expect(L.NextForces(dst)).To(Succeed())
	g.Expect(dst.Vec(2)).To(Equal([3]float64{-3, -3, -3}))
	g.Expect(fm.IsLastFrame(L.NextForces(dst))).To(BeTrue())

	g.Expect(L.Rewind()).To(Succeed())
	g.Expect(L.NextForces(dst)).To(Succeed())
	g.Expect(dst.Vec(1)).To(Equal([3]float64{-0.5, 0, 0}))
}

func TestForceReaderNoNegate(Te *testing.T) {
	g := NewWithT(Te)
	//without column names, the order is id fx fy fz
	L, err := NewForceReader(writeDump(Te, "ITEM: ATOMS\n1 1 2 3\n"), 1, false)
	g.Expect(err).NotTo(HaveOccurred())
	dst := v3.Zeros(1)
	g.Expect(L.NextForces(dst)).To(Succeed())
	g.Expect(dst.Vec(0)).To(Equal([3]float64{1, 2, 3}))
}

func TestForceReaderErrors(Te *testing.T) {
	g := NewWithT(Te)
	bad := strings.Replace(dump, "1 1 -1 2 3", "1 1 -1 two 3", 1)
	L, err := NewForceReader(writeDump(Te, bad), 3, true)
	g.Expect(err).NotTo(HaveOccurred())
	err = L.NextForces(v3.Zeros(3))
	g.Expect(err).To(HaveOccurred())
	g.Expect(fm.IsLastFrame(err)).To(BeFalse())
	g.Expect(err.(fm.TrajError).Critical()).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring("line 11"))

	short := strings.Replace(dump, "3 2 0 0 -0.25\n", "", 1)
	L, _ = NewForceReader(writeDump(Te, short), 3, true)
	err = L.NextForces(v3.Zeros(3))
	g.Expect(err).To(HaveOccurred()) //the frame runs into the next one
	g.Expect(fm.IsLastFrame(err)).To(BeFalse())

	noforces := strings.Replace(dump, "id type fx fy fz", "id type x y z", 1)
	L, _ = NewForceReader(writeDump(Te, noforces), 3, true)
	g.Expect(L.NextForces(v3.Zeros(3))).NotTo(Succeed())

	L, _ = NewForceReader(writeDump(Te, dump), 3, true)
	g.Expect(L.NextForces(v3.Zeros(2))).NotTo(Succeed())
	_, err = NewForceReader(filepath.Join(Te.TempDir(), "missing"), 3, true)
	g.Expect(err).To(HaveOccurred())
}
