/*
 * matcher.go, part of gofm.
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

package fit

import (
	"log"
	"math/rand"
	"time"

	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
	v3 "github.com/rmera/gofm/v3"
)

// Options are the settings of a fitting run.
type Options struct {
	//KT is the thermal energy, in the same units as the potentials. Required.
	KT float64

	//Box, if given, replaces the box of every frame read.
	Box []float64

	//Observable has one value per frame of the trajectory. It is only needed for
	//observable matching.
	Observable []float64

	//Seed for the random numbers used to shuffle particles and sample frames.
	//0 means a seed taken from the clock.
	Seed int64

	//Logger for progress messages. If nil, the standard logger is used.
	Logger *log.Logger
}

// Matcher fits a set of target forces so that, together, they reproduce the
// reference forces of a trajectory.
type Matcher struct {
	traj fm.FrameSource
	top  *fm.Topology
	opts Options

	targets []forces.Fittable
	refs    []forces.Force
	cats    []fm.Category

	frame  *fm.Frame
	refbuf *v3.Matrix
	rng    *rand.Rand
	logger *log.Logger

	errors []float64
	calls  int
}

// New returns a Matcher that reads frames from traj, which must have as many
// particles as top.
func New(traj fm.FrameSource, top *fm.Topology, opts Options) (*Matcher, error) {
	if traj == nil || top == nil {
		return nil, fm.NewError(fm.ErrConfig, "fit.New", "a trajectory and a topology are required")
	}
	if opts.KT <= 0 {
		return nil, fm.NewError(fm.ErrConfig, "fit.New", "kT must be positive, got %g", opts.KT)
	}
	if opts.Box != nil && len(opts.Box) != 3 {
		return nil, fm.NewError(fm.ErrConfig, "fit.New", "the box must have 3 components, got %v", opts.Box)
	}
	if traj.Len() != top.Len() {
		return nil, fm.NewError(fm.ErrShape, "fit.New", "trajectory has %d particles, topology has %d", traj.Len(), top.Len())
	}
	if traj.NFrames() <= 0 {
		return nil, fm.NewError(fm.ErrConfig, "fit.New", "the trajectory has no frames")
	}
	M := new(Matcher)
	M.traj = traj
	M.top = top
	M.opts = opts
	M.frame = fm.NewFrame(top.Len())
	M.refbuf = v3.Zeros(top.Len())
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	M.rng = rand.New(rand.NewSource(seed))
	M.logger = opts.Logger
	if M.logger == nil {
		M.logger = log.Default()
	}
	return M, nil
}

// AddTarget adds forces to be fitted. Each force is set up with the topology of the run.
func (M *Matcher) AddTarget(fs ...forces.Fittable) error {
	for _, f := range fs {
		if err := f.Setup(M.top); err != nil {
			return fm.NewError(err, "Matcher.AddTarget", "")
		}
		if f.Category() == nil {
			return fm.NewError(fm.ErrConfig, "Matcher.AddTarget", "target %s has no category", f.Name())
		}
		M.addCategory(f.Category())
		M.targets = append(M.targets, f)
	}
	return nil
}

// AddReference adds forces that, summed, give the reference forces. If no reference
// is added, the forces stored in the frames are used.
func (M *Matcher) AddReference(fs ...forces.Force) error {
	for _, f := range fs {
		if err := f.Setup(M.top); err != nil {
			return fm.NewError(err, "Matcher.AddReference", "")
		}
		if c := f.Category(); c != nil {
			M.addCategory(c)
		}
		M.refs = append(M.refs, f)
	}
	return nil
}

// AddAndTypePair adds, as targets, one clone of proto per pair of particle types
// for which proto's category can produce pairs. Each clone is restricted to its type pair.
func (M *Matcher) AddAndTypePair(proto forces.Fittable) error {
	cat := proto.Category()
	if cat == nil {
		return fm.NewError(fm.ErrConfig, "Matcher.AddAndTypePair", "%s has no category", proto.Name())
	}
	if err := cat.Bind(M.top); err != nil {
		return fm.NewError(err, "Matcher.AddAndTypePair", "")
	}
	types := M.top.Types()
	added := 0
	for i, ti := range types {
		m1, err := M.top.Select("type " + ti)
		if err != nil {
			return fm.NewError(err, "Matcher.AddAndTypePair", "")
		}
		for _, tj := range types[i:] {
			m2, err := M.top.Select("type " + tj)
			if err != nil {
				return fm.NewError(err, "Matcher.AddAndTypePair", "")
			}
			if !cat.PairExists(m1, m2) {
				continue
			}
			c, ok := proto.Clone().(forces.Fittable)
			if !ok {
				return fm.NewError(fm.ErrConfig, "Matcher.AddAndTypePair", "clone of %s can't be fitted", proto.Name())
			}
			c.Specialize("type "+ti, "type "+tj)
			if err := M.AddTarget(c); err != nil {
				return err
			}
			added++
		}
	}
	M.logger.Printf("fit: %s expanded into %d type pairs", proto.Name(), added)
	return nil
}

// Targets returns the forces being fitted.
func (M *Matcher) Targets() []forces.Fittable { return M.targets }

// Errors returns the total force deviation of each frame processed by force matching,
// in the order they were processed.
func (M *Matcher) Errors() []float64 { return M.errors }

// Calls returns the number of frames and sweeps processed so far by either fitting mode.
func (M *Matcher) Calls() int { return M.calls }

func (M *Matcher) addCategory(c fm.Category) {
	for _, v := range M.cats {
		if v == c {
			return
		}
	}
	M.cats = append(M.cats, c)
}

// next reads the next frame into the working frame, applying the box override.
func (M *Matcher) next() error {
	if err := M.traj.Next(M.frame); err != nil {
		return err
	}
	if M.opts.Box != nil {
		if len(M.frame.Box) != 3 {
			M.frame.Box = make([]float64, 3)
		}
		copy(M.frame.Box, M.opts.Box)
	}
	return nil
}

// setup prepares all the categories for the current frame.
func (M *Matcher) setup() error {
	for _, c := range M.cats {
		if err := c.Setup(M.frame); err != nil {
			return err
		}
	}
	return nil
}

func (M *Matcher) teardown() {
	for _, c := range M.cats {
		c.Teardown()
	}
}

// seek leaves the working frame with frame i of the trajectory.
func (M *Matcher) seek(i int) error {
	if s, ok := M.traj.(fm.Seeker); ok {
		if err := s.Seek(i); err != nil {
			return err
		}
		return M.next()
	}
	if err := M.traj.Rewind(); err != nil {
		return err
	}
	for k := 0; k <= i; k++ {
		if err := M.next(); err != nil {
			return err
		}
	}
	return nil
}

// swapLips swaps the AdaGrad accumulators of all targets with their caches.
func (M *Matcher) swapLips() {
	for _, t := range M.targets {
		t.Params().SwapLip()
	}
}
