/*
 * category_test.go, part of gofm.
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
	"errors"
	"testing"

	. "github.com/onsi/gomega"
)

func TestRegistry(Te *testing.T) {
	g := NewWithT(Te)
	R := NewRegistry(true)
	p1, err := R.Pairwise(5)
	g.Expect(err).NotTo(HaveOccurred())
	p2, err := R.Pairwise(5)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p2).To(BeIdenticalTo(p1))

	_, err = R.Pairwise(6)
	g.Expect(errors.Is(err, ErrIncompatibleCutoff)).To(BeTrue())

	g.Expect(R.Bonded()).To(BeIdenticalTo(R.Bonded()))
	g.Expect(p1.Kind()).To(Equal(PairwiseKind))
	g.Expect(R.Bonded().Kind().String()).To(Equal("bonded"))
}

func TestPairwiseCategory(Te *testing.T) {
	g := NewWithT(Te)
	top, f := testSystem(Te, 10, 20, [][2]int{{0, 1}}, 5)
	R := NewRegistry(false)
	p, _ := R.Pairwise(5)
	g.Expect(p.Setup(f)).To(HaveOccurred()) //not bound yet
	g.Expect(p.Bind(top)).To(Succeed())
	g.Expect(p.Bind(top)).To(Succeed())
	g.Expect(p.Setup(f)).To(Succeed())
	before := append([]int(nil), p.Neighbors(3)...)

	//without a Teardown, a new Setup does not rebuild.
	f.Coords.SetVec(3, [3]float64{100, 100, 100})
	g.Expect(p.Setup(f)).To(Succeed())
	g.Expect(sameSet(p.Neighbors(3), before)).To(BeTrue())

	p.Teardown()
	g.Expect(p.Setup(f)).To(Succeed())
	want := bruteForce(p.NeighborList(), f)
	g.Expect(sameSet(p.Neighbors(3), want[3])).To(BeTrue())
	g.Expect(p.PairExists(make([]bool, 10), make([]bool, 10))).To(BeTrue())
}

func TestBondedCategory(Te *testing.T) {
	g := NewWithT(Te)
	//types alternate A,B: bond 0-2 is A-A, bond 3-5 is B-B
	top, f := testSystem(Te, 6, 20, [][2]int{{0, 2}, {3, 5}}, 5)
	b := NewRegistry(true).Bonded()
	g.Expect(b.Bind(top)).To(Succeed())
	g.Expect(b.Setup(f)).To(Succeed())
	g.Expect(b.Neighbors(0)).To(Equal([]int{2}))
	g.Expect(b.Neighbors(2)).To(Equal([]int{0}))
	g.Expect(b.Neighbors(1)).To(BeEmpty())

	A, err := top.Select("type A")
	g.Expect(err).NotTo(HaveOccurred())
	B, err := top.Select("type B")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(b.PairExists(A, A)).To(BeTrue())
	g.Expect(b.PairExists(B, B)).To(BeTrue())
	g.Expect(b.PairExists(A, B)).To(BeFalse())
	g.Expect(b.PairExists(B, A)).To(BeFalse())
}
