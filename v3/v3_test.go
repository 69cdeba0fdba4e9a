/*
 * v3_test.go, part of gofm.
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

package v3

import (
	"fmt"
	"testing"
)

func TestVecs(Te *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 {
		Te.Errorf("expected 3 vecs, got %d", A.NVecs())
	}
	if v := A.Vec(1); v != [3]float64{4, 5, 6} {
		Te.Errorf("wrong vec 1: %v", v)
	}
	A.AddToVec(2, [3]float64{1, 1, 1})
	if A.At(2, 0) != 8 || A.At(2, 2) != 10 {
		Te.Errorf("AddToVec failed: %v", A)
	}
	A.SetVec(0, [3]float64{0, 0, -1})
	if a[2] != -1 {
		Te.Errorf("SetVec should write through to the data slice")
	}
	view := A.VecView(1)
	view.Set(0, 1, 50)
	if A.At(1, 1) != 50 {
		Te.Errorf("VecView should share storage with the parent")
	}
	fmt.Println(A)
}

func TestSomeVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4})
	B := Zeros(2)
	B.SomeVecs(A, []int{3, 1})
	if B.At(0, 0) != 4 || B.At(1, 0) != 2 {
		Te.Errorf("SomeVecs failed: %v", B)
	}
	C := Zeros(4)
	C.SetVecs(B, []int{0, 2})
	if C.At(0, 0) != 4 || C.At(2, 0) != 2 || C.At(1, 0) != 0 {
		Te.Errorf("SetVecs failed: %v", C)
	}
	if len(C.Flat()) != 12 {
		Te.Errorf("Flat should return all 12 numbers")
	}
}

func TestNewMatrixErrors(Te *testing.T) {
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("a slice with 2 elements should not make a Matrix")
	}
	if _, err := NewMatrix(nil); err == nil {
		Te.Error("an empty slice should not make a Matrix")
	}
}
