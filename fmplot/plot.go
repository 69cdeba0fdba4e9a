/*
 * plot.go, part of gofm.
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

// Package fmplot draws fitted force and potential curves with gonum/plot.
package fmplot

import (
	"image/color"
	"log"
	"math"

	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultPoints is the number of distances at which each curve is evaluated.
const DefaultPoints = 200

// Options control the look of a plot. The zero value gives a force plot with
// automatic axes.
type Options struct {
	Title     string
	Points    int
	Potential bool

	//The Y axis is fixed to [YMin, YMax] if YMin < YMax. Useful for curves
	//that diverge at short distances.
	YMin, YMax float64

	//Size of the plot, in inches. 5 if not given.
	Size float64
}

func basicPlot(o Options) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = o.Title
	p.X.Label.Text = "Distance"
	p.Y.Label.Text = "Force"
	if o.Potential {
		p.Y.Label.Text = "Potential"
	}
	if o.YMin < o.YMax {
		p.Y.Min = o.YMin
		p.Y.Max = o.YMax
	}
	p.Add(plotter.NewGrid())
	return p
}

// Plot draws the curves in cs, each with its own color, and saves the plot to filename.
// The format is taken from the extension of filename (png, svg, pdf and so on).
// When plotting potentials, curves that have none are skipped, with a warning.
func Plot(cs []forces.Curve, filename string, o Options) error {
	if len(cs) == 0 {
		return fm.NewError(fm.ErrConfig, "fmplot.Plot", "no curves to plot")
	}
	if o.Points == 0 {
		o.Points = DefaultPoints
	}
	if o.Size <= 0 {
		o.Size = 5
	}
	p := basicPlot(o)
	plotted := 0
	for key, c := range cs {
		pts, err := points(c, o)
		if err != nil {
			return fm.NewError(err, "fmplot.Plot", "%s", c.Name())
		}
		if len(pts) == 0 {
			log.Printf("fmplot: %s has no potential, not plotted", c.Name())
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fm.NewError(err, "fmplot.Plot", "%s", c.Name())
		}
		r, g, b := colors(key, len(cs))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(c.Name(), l)
		plotted++
	}
	if plotted == 0 {
		return fm.NewError(fm.ErrConfig, "fmplot.Plot", "none of the %d curves has a potential", len(cs))
	}
	size := vg.Length(o.Size) * vg.Inch
	if err := p.Save(size, size, filename); err != nil {
		return fm.NewError(err, "fmplot.Plot", "saving %s", filename)
	}
	return nil
}

// points evaluates c, dropping non-finite values, which plotter.NewLine rejects.
func points(c forces.Curve, o Options) (plotter.XYs, error) {
	t, err := forces.Tabulate(c, o.Points)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, 0, len(t))
	for _, v := range t {
		y := v.F
		if o.Potential {
			if !v.HasU {
				return nil, nil
			}
			y = v.U
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: v.D, Y: y})
	}
	return pts, nil
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	conversion := 255.0
	if s == 0.0 {
		return uint8(conversion * v), uint8(conversion * v), uint8(conversion * v)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

// colors spreads steps hues over the spectrum, skipping the yellows, which
// are hard to see on white.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	h := float64(key)*norm + 20.0
	if h < 55 {
		h -= 20.0
	} else {
		h += 20.0
	}
	//darker than the pure hues, so thin lines read well
	return iHVS2RGB(h, 0.85, 1.0)
}
