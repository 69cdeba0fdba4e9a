/*
 * build.go, part of gofm.
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

package config

import (
	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
)

// Target is a fittable force built from the configuration, and whether it is to be
// expanded into one copy per pair of particle types.
type Target struct {
	Force     forces.Fittable
	TypePairs bool
}

// BuildForces builds the forces of the configuration. All pairwise forces share a category
// from R, so they must all have the same cutoff.
func (c *Config) BuildForces(R *fm.Registry) ([]Target, []forces.Force, error) {
	var targets []Target
	var refs []forces.Force
	for _, fc := range c.ForceList {
		f, err := fc.Build(R)
		if err != nil {
			return nil, nil, fm.NewError(err, "Config.BuildForces", "%s", fc.Name)
		}
		if fc.Role == "reference" {
			refs = append(refs, f)
			continue
		}
		ft, ok := f.(forces.Fittable)
		if !ok {
			return nil, nil, fm.NewError(fm.ErrConfig, "Config.BuildForces", "%s can't be fitted", fc.Name)
		}
		targets = append(targets, Target{Force: ft, TypePairs: fc.TypePairs})
	}
	return targets, refs, nil
}

// Build returns the force described by f.
func (f ForceConfig) Build(R *fm.Registry) (forces.Force, error) {
	caller := "ForceConfig.Build"
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.Kind == "file" {
		return forces.NewFileForce(f.Name), nil
	}
	var cat fm.Category
	if pairwise[f.Kind] {
		p, err := R.Pairwise(f.Cutoff)
		if err != nil {
			return nil, fm.NewError(err, caller, "%s", f.Name)
		}
		cat = p
	} else {
		cat = R.Bonded()
	}
	var ret forces.Fittable
	var err error
	switch f.Kind {
	case "spectral":
		mesh, err := forces.NewUniformMesh(f.Mesh.Min, f.Mesh.Max, f.Mesh.Dx)
		if err != nil {
			return nil, fm.NewError(err, caller, "%s", f.Name)
		}
		basis, err := forces.NewBasis(f.Basis)
		if err != nil {
			return nil, fm.NewError(err, caller, "%s", f.Name)
		}
		S := forces.NewSpectral(f.Name, cat, mesh, basis)
		switch len(f.Initial) {
		case 0:
		case 1:
			for i := range S.Params().W {
				S.Params().W[i] = f.Initial[0]
			}
		case mesh.Len():
			copy(S.Params().W, f.Initial)
		default:
			return nil, fm.NewError(fm.ErrConfig, caller, "%s: %d initial values for %d mesh bins", f.Name, len(f.Initial), mesh.Len())
		}
		ret = S
	case "lj":
		ret, err = analytic(forces.LJLaw, cat, f.Name, f.Initial, []float64{1, 1})
	case "harmonic":
		ret, err = analytic(forces.HarmonicLaw, cat, f.Name, f.Initial, []float64{1, 1})
	case "constant":
		ret, err = analytic(forces.ConstantLaw(f.Cutoff), cat, f.Name, f.Initial, []float64{0})
	}
	if err != nil {
		return nil, err
	}
	if f.Eta > 0 {
		ret.Params().Eta = f.Eta
	}
	for _, r := range f.Regularizers {
		switch r.Kind {
		case "smooth":
			ret.Params().Regularizers = append(ret.Params().Regularizers, forces.Smooth{Strength: r.Strength})
		case "l2":
			ret.Params().Regularizers = append(ret.Params().Regularizers, forces.L2{Strength: r.Strength})
		}
	}
	switch len(f.Select) {
	case 1:
		ret.Specialize(f.Select[0], "")
	case 2:
		ret.Specialize(f.Select[0], f.Select[1])
	}
	return ret, nil
}

func analytic(law forces.Law, cat fm.Category, name string, initial, def []float64) (*forces.Analytic, error) {
	if len(initial) == 0 {
		initial = def
	}
	law.Name = name
	A, err := forces.NewAnalytic(law, cat, initial)
	if err != nil {
		return nil, fm.NewError(err, "config.analytic", "")
	}
	return A, nil
}
