/*
 * geometry.go, part of gofm.
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

import "math"

// imageRound rounds q to the nearest integer, with halves going away from zero.
func imageRound(q float64) float64 {
	if q >= 0 {
		return math.Floor(q + 0.5)
	}
	return math.Ceil(q - 0.5)
}

// MinImageVec returns the displacement x-y, with each component shifted by the
// integer multiple of the box length on that axis that brings it closest to zero.
// If box is not a valid 3-component box, no correction is applied.
func MinImageVec(x, y [3]float64, box []float64) [3]float64 {
	var d [3]float64
	periodic := validBox(box)
	for k := 0; k < 3; k++ {
		d[k] = x[k] - y[k]
		if periodic {
			d[k] -= box[k] * imageRound(d[k]/box[k])
		}
	}
	return d
}

// MinImageDistSq returns the square of the minimum image distance between x and y.
func MinImageDistSq(x, y [3]float64, box []float64) float64 {
	d := MinImageVec(x, y, box)
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}

// MinImageDist returns the minimum image distance between x and y.
func MinImageDist(x, y [3]float64, box []float64) float64 {
	return math.Sqrt(MinImageDistSq(x, y, box))
}
