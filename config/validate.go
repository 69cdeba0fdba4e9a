/*
 * validate.go, part of gofm.
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
)

// pairwise kinds need a cutoff.
var pairwise = map[string]bool{"lj": true, "spectral": true, "constant": true}

var kinds = map[string]bool{"lj": true, "spectral": true, "constant": true, "harmonic": true, "file": true}

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	caller := "Config.Validate"
	if c.Structure == "" {
		return fm.NewError(fm.ErrConfig, caller, "no structure file given")
	}
	if c.Trajectory == "" {
		return fm.NewError(fm.ErrConfig, caller, "no trajectory file given")
	}
	if c.Forces != "" && c.LammpsForces != "" {
		return fm.NewError(fm.ErrConfig, caller, "give reference forces either as an stf file or as a LAMMPS dump, not both")
	}
	if c.KT <= 0 {
		return fm.NewError(fm.ErrConfig, caller, "kT must be given and positive, got %g", c.KT)
	}
	if c.Box != nil {
		if len(c.Box) != 3 {
			return fm.NewError(fm.ErrConfig, caller, "the box must have 3 entries, got %d", len(c.Box))
		}
		for _, v := range c.Box {
			if v <= 0 {
				return fm.NewError(fm.ErrConfig, caller, "invalid box %v", c.Box)
			}
		}
	}
	switch c.Mode {
	case "force":
	case "observable", "both":
		if c.Observable == "" {
			return fm.NewError(fm.ErrConfig, caller, "mode %s needs an observable", c.Mode)
		}
	default:
		return fm.NewError(fm.ErrConfig, caller, "unknown mode %q", c.Mode)
	}
	if c.Iterations < 0 || c.ObsMatch.Sweeps < 0 || c.ObsMatch.Samples < 0 || c.ObsMatch.RejectTol < 0 {
		return fm.NewError(fm.ErrConfig, caller, "iterations, sweeps, samples and reject_tol can't be negative")
	}
	switch c.Store.Kind {
	case "memory", "none":
	case "sqlite":
		if c.Store.Path == "" {
			return fm.NewError(fm.ErrConfig, caller, "the sqlite store needs a path")
		}
	default:
		return fm.NewError(fm.ErrConfig, caller, "unknown store %q", c.Store.Kind)
	}
	targets := 0
	for i := range c.ForceList {
		if err := c.ForceList[i].validate(); err != nil {
			return fm.NewError(err, caller, "force %d", i)
		}
		if c.ForceList[i].Role == "target" {
			targets++
		}
	}
	if targets == 0 {
		return fm.NewError(fm.ErrConfig, caller, "no target forces")
	}
	return nil
}

func (f *ForceConfig) validate() error {
	caller := "ForceConfig.validate"
	if !kinds[f.Kind] {
		return fm.NewError(fm.ErrConfig, caller, "unknown kind %q", f.Kind)
	}
	switch f.Role {
	case "target":
		if f.Kind == "file" {
			return fm.NewError(fm.ErrConfig, caller, "%s: forces read from files can only be references", f.Name)
		}
	case "reference":
		if f.TypePairs {
			return fm.NewError(fm.ErrConfig, caller, "%s: only targets can be expanded into type pairs", f.Name)
		}
	default:
		return fm.NewError(fm.ErrConfig, caller, "%s: unknown role %q", f.Name, f.Role)
	}
	if pairwise[f.Kind] && f.Cutoff <= 0 {
		return fm.NewError(fm.ErrConfig, caller, "%s: a positive cutoff is needed", f.Name)
	}
	if f.Kind == "spectral" {
		if f.Mesh.Min < 0 || f.Mesh.Max <= f.Mesh.Min || f.Mesh.Dx <= 0 {
			return fm.NewError(fm.ErrConfig, caller, "%s: invalid mesh %+v", f.Name, f.Mesh)
		}
		if f.Basis != "unitstep" && f.Basis != "hat" {
			return fm.NewError(fm.ErrConfig, caller, "%s: unknown basis %q", f.Name, f.Basis)
		}
	}
	if len(f.Select) > 2 {
		return fm.NewError(fm.ErrConfig, caller, "%s: at most 2 selections, got %d", f.Name, len(f.Select))
	}
	if f.TypePairs && len(f.Select) > 0 {
		return fm.NewError(fm.ErrConfig, caller, "%s: type_pairs and select can't be used together", f.Name)
	}
	for _, r := range f.Regularizers {
		if r.Kind != "smooth" && r.Kind != "l2" {
			return fm.NewError(fm.ErrConfig, caller, "%s: unknown regularizer %q", f.Name, r.Kind)
		}
		if r.Strength < 0 {
			return fm.NewError(fm.ErrConfig, caller, "%s: negative regularizer strength", f.Name)
		}
	}
	if f.Eta < 0 {
		return fm.NewError(fm.ErrConfig, caller, "%s: negative eta", f.Name)
	}
	return nil
}
