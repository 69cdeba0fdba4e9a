/*
 * geometry_test.go, part of gofm.
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
	"math/rand"
	"testing"
)

func TestMinImage(Te *testing.T) {
	box := []float64{10, 10, 10}
	x := [3]float64{0.5, 0, 0}
	y := [3]float64{9.5, 0, 0}
	d := MinImageVec(x, y, box)
	if math.Abs(d[0]-1) > 1e-12 {
		Te.Errorf("expected displacement 1 across the boundary, got %v", d)
	}
	if dist := MinImageDist(x, y, box); math.Abs(dist-1) > 1e-12 {
		Te.Errorf("expected distance 1, got %f", dist)
	}
	//non-periodic
	if dist := MinImageDist(x, y, nil); math.Abs(dist-9) > 1e-12 {
		Te.Errorf("expected raw distance 9, got %f", dist)
	}
	//exactly half a box: the tie is resolved away from zero, so the magnitude is half the box
	h := MinImageVec([3]float64{5, 0, 0}, [3]float64{0, 0, 0}, box)
	if math.Abs(math.Abs(h[0])-5) > 1e-12 {
		Te.Errorf("half box displacement should have magnitude 5, got %v", h)
	}
}

func TestMinImageProperties(Te *testing.T) {
	rng := rand.New(rand.NewSource(3))
	box := []float64{7, 11, 13}
	for n := 0; n < 500; n++ {
		var x, y [3]float64
		for k := 0; k < 3; k++ {
			x[k] = (rng.Float64() - 0.5) * 40
			y[k] = (rng.Float64() - 0.5) * 40
		}
		dxy := MinImageDist(x, y, box)
		dyx := MinImageDist(y, x, box)
		if math.Abs(dxy-dyx) > 1e-9 {
			Te.Fatalf("not symmetric: %f %f", dxy, dyx)
		}
		var xs, ys [3]float64
		for k := 0; k < 3; k++ {
			shift := float64(rng.Intn(7)-3) * box[k]
			xs[k] = x[k] + shift
			ys[k] = y[k] + float64(rng.Intn(7)-3)*box[k]
		}
		if ds := MinImageDist(xs, ys, box); math.Abs(ds-dxy) > 1e-9 {
			Te.Fatalf("not invariant under box translations: %f %f", ds, dxy)
		}
		v := MinImageVec(x, y, box)
		for k := 0; k < 3; k++ {
			if math.Abs(v[k]) > box[k]/2+1e-9 {
				Te.Fatalf("component %d of %v longer than half the box", k, v)
			}
		}
	}
}
