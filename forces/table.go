/*
 * table.go, part of gofm.
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

package forces

import (
	"bufio"
	"fmt"
	"io"

	fm "github.com/rmera/gofm"
	"gonum.org/v1/gonum/floats"
)

// TablePoint is a force curve evaluated at one distance. U is only meaningful if HasU.
type TablePoint struct {
	D, F, U float64
	HasU    bool
}

// Tabulate evaluates c at n evenly spaced distances over its domain.
func Tabulate(c Curve, n int) ([]TablePoint, error) {
	if n < 2 {
		return nil, fm.NewError(fm.ErrConfig, "Tabulate", "at least 2 points are needed, %d requested", n)
	}
	lo, hi := c.Domain()
	ds := floats.Span(make([]float64, n), lo, hi)
	//the upper limit is often outside the force range, so we stop just before it.
	ds[n-1] = hi - (hi-lo)*1e-9
	ret := make([]TablePoint, n)
	for i, d := range ds {
		u, ok := c.PotentialAt(d)
		ret[i] = TablePoint{D: d, F: c.ForceAt(d), U: u, HasU: ok}
	}
	return ret, nil
}

// WriteTable writes n points of c to w, one per line, as distance, force and, if
// available, potential.
func WriteTable(w io.Writer, c Curve, n int) error {
	t, err := Tabulate(c, n)
	if err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# %s\n", c.Name())
	for _, p := range t {
		if p.HasU {
			fmt.Fprintf(b, "%12.6f %14.6e %14.6e\n", p.D, p.F, p.U)
		} else {
			fmt.Fprintf(b, "%12.6f %14.6e\n", p.D, p.F)
		}
	}
	return b.Flush()
}
