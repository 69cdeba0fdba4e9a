/*
 * plot_test.go, part of gofm.
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

package fmplot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
)

func curves(Te *testing.T) []forces.Curve {
	Te.Helper()
	R := fm.NewRegistry(true)
	cat, err := R.Pairwise(3)
	if err != nil {
		Te.Fatal(err)
	}
	lj, err := forces.NewLJ(cat, 1, 1)
	if err != nil {
		Te.Fatal(err)
	}
	mesh, _ := forces.NewUniformMesh(0.5, 3, 0.25)
	s := forces.NewSpectral("nb", cat, mesh, forces.Hat{})
	//a constant law without cutoff has no potential
	c, _ := forces.NewAnalytic(forces.ConstantLaw(0), R.Bonded(), []float64{1})
	return []forces.Curve{lj, s, c}
}

func TestPlot(Te *testing.T) {
	dir := Te.TempDir()
	cs := curves(Te)
	for _, name := range []string{"forces.png", "forces.svg"} {
		path := filepath.Join(dir, name)
		if err := Plot(cs, path, Options{Title: "Forces", YMin: -5, YMax: 5}); err != nil {
			Te.Fatal(err)
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			Te.Errorf("%s not written: %v", name, err)
		}
	}
	path := filepath.Join(dir, "potentials.png")
	if err := Plot(cs, path, Options{Potential: true, Points: 50, Size: 3}); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		Te.Error(err)
	}
}

func TestPlotErrors(Te *testing.T) {
	dir := Te.TempDir()
	if err := Plot(nil, filepath.Join(dir, "a.png"), Options{}); !errors.Is(err, fm.ErrConfig) {
		Te.Errorf("expected a configuration error, got %v", err)
	}
	cs := curves(Te)[2:]
	if err := Plot(cs, filepath.Join(dir, "b.png"), Options{Potential: true}); !errors.Is(err, fm.ErrConfig) {
		Te.Errorf("expected an error when no curve has a potential, got %v", err)
	}
	if err := Plot(cs, filepath.Join(dir, "c.png"), Options{Points: 1}); err == nil {
		Te.Error("expected an error for a single point")
	}
}

func TestColors(Te *testing.T) {
	seen := map[[3]uint8]bool{}
	for k := 0; k < 6; k++ {
		r, g, b := colors(k, 6)
		seen[[3]uint8{r, g, b}] = true
	}
	if len(seen) != 6 {
		Te.Errorf("expected 6 different colors, got %d", len(seen))
	}
}
