/*
 * session.go, part of gofm.
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

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/config"
	"github.com/rmera/gofm/fit"
	"github.com/rmera/gofm/fmplot"
	"github.com/rmera/gofm/forces"
	"github.com/rmera/gofm/store"
	"github.com/rmera/gofm/traj/lammps"
	"github.com/rmera/gofm/traj/stf"
)

// session is a fitting run set up from a configuration.
type session struct {
	cfg     *config.Config
	top     *fm.Topology
	src     *stf.Source
	matcher *fit.Matcher
}

func newSession(cfg *config.Config) (*session, error) {
	top, ref, err := fm.PDBFileRead(cfg.Structure)
	if err != nil {
		return nil, err
	}
	var fr stf.ForceReader
	switch {
	case cfg.Forces != "":
		r, _, err := stf.New(cfg.Forces)
		if err != nil {
			return nil, err
		}
		fr = r
	case cfg.LammpsForces != "":
		r, err := lammps.NewForceReader(cfg.LammpsForces, top.Len(), cfg.LammpsNegate)
		if err != nil {
			return nil, err
		}
		fr = r
	}
	src, err := openSource(cfg.Trajectory, fr)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, top: top, src: src}
	box, err := s.box(ref)
	if err != nil {
		s.close()
		return nil, err
	}
	opts := fit.Options{KT: cfg.KT, Box: box, Seed: cfg.Seed, Logger: log.Default()}
	if cfg.Mode != "force" {
		opts.Observable, err = cfg.LoadObservable(src.NFrames())
		if err != nil {
			s.close()
			return nil, err
		}
	}
	s.matcher, err = fit.New(src, top, opts)
	if err != nil {
		s.close()
		return nil, err
	}
	targets, refs, err := cfg.BuildForces(fm.NewRegistry(cfg.Exclude13))
	if err != nil {
		s.close()
		return nil, err
	}
	if err := s.matcher.AddReference(refs...); err != nil {
		s.close()
		return nil, err
	}
	for _, t := range targets {
		if t.TypePairs {
			err = s.matcher.AddAndTypePair(t.Force)
		} else {
			err = s.matcher.AddTarget(t.Force)
		}
		if err != nil {
			s.close()
			return nil, err
		}
	}
	return s, nil
}

// openSource opens the trajectory with the reference forces from fr, which is closed,
// if it can be, when the trajectory can't be opened.
func openSource(traj string, fr stf.ForceReader) (*stf.Source, error) {
	src, err := stf.NewSource(traj, fr)
	if err != nil {
		if c, ok := fr.(interface{ Close() }); ok {
			c.Close()
		}
		return nil, err
	}
	return src, nil
}

// box returns the box to force on every frame: the one in the configuration or,
// if the trajectory has no boxes, the one in the structure file, if any.
func (s *session) box(ref *fm.Frame) ([]float64, error) {
	if s.cfg.Box != nil {
		return s.cfg.Box, nil
	}
	f := fm.NewFrame(s.src.Len())
	if err := s.src.Next(f); err != nil {
		return nil, err
	}
	if err := s.src.Rewind(); err != nil {
		return nil, err
	}
	if f.Periodic() || !ref.Periodic() {
		return nil, nil
	}
	log.Printf("gofm: the trajectory has no box, the one in %s will be used", s.cfg.Structure)
	return ref.Box, nil
}

func (s *session) fit() error {
	c := s.cfg
	if c.Mode == "force" || c.Mode == "both" {
		if err := s.matcher.ForceMatch(c.Iterations); err != nil {
			return err
		}
	}
	if c.Mode == "observable" || c.Mode == "both" {
		if err := s.matcher.ObservationMatch(c.ObsMatch.Sweeps, c.ObsMatch.Samples, c.ObsMatch.RejectTol); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) record() store.Run {
	run := store.NewRun(s.cfg.Mode, s.cfg.KT)
	for _, t := range s.matcher.Targets() {
		run.Forces = append(run.Forces, store.Record(t))
	}
	run.Errors = s.matcher.Errors()
	return run
}

// load sets the parameters of the targets to those in run.
func (s *session) load(run store.Run) error {
	for _, t := range s.matcher.Targets() {
		rec, ok := run.Force(t.Name())
		if !ok {
			return fmt.Errorf("run %s has no force %s", run.ID, t.Name())
		}
		if err := rec.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) curves() []forces.Curve {
	var cs []forces.Curve
	for _, t := range s.matcher.Targets() {
		if c, ok := t.(forces.Curve); ok {
			cs = append(cs, c)
		}
	}
	return cs
}

func (s *session) writeTables(n int) error {
	if err := os.MkdirAll(s.cfg.Output, 0755); err != nil {
		return err
	}
	for _, c := range s.curves() {
		name := filepath.Join(s.cfg.Output, fileName(c.Name())+".dat")
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		err = forces.WriteTable(f, c, n)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *session) plot(n int, ymin, ymax float64) error {
	if err := os.MkdirAll(s.cfg.Output, 0755); err != nil {
		return err
	}
	cs := s.curves()
	o := fmplot.Options{Title: "Fitted forces", Points: n, YMin: ymin, YMax: ymax}
	if err := fmplot.Plot(cs, filepath.Join(s.cfg.Output, "forces.png"), o); err != nil {
		return err
	}
	o.Title = "Fitted potentials"
	o.Potential = true
	return fmplot.Plot(cs, filepath.Join(s.cfg.Output, "potentials.png"), o)
}

func (s *session) close() {
	s.src.Close()
}

// fileName turns a force name like "nb[type A|type B]" into "nb_type_A_type_B".
func fileName(name string) string {
	ret := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, name)
	return strings.Trim(ret, "_")
}
