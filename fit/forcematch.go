/*
 * forcematch.go, part of gofm.
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
	"math"

	"github.com/dustin/go-humanize"
	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
	v3 "github.com/rmera/gofm/v3"
	"gonum.org/v1/gonum/mat"
)

// ForceMatch runs force matching over at most iterations frames of the trajectory, starting
// from the first one. 0 iterations means the whole trajectory.
// For each frame, the particles are visited in random order, and for each particle every
// target takes one AdaGrad step along the gradient of the squared deviation between the
// reference force on the particle and the sum of the target forces on it.
func (M *Matcher) ForceMatch(iterations int) error {
	if len(M.targets) == 0 {
		return fm.NewError(fm.ErrConfig, "Matcher.ForceMatch", "no target forces")
	}
	if iterations <= 0 {
		iterations = M.traj.NFrames()
	}
	if err := M.traj.Rewind(); err != nil {
		return fm.NewError(err, "Matcher.ForceMatch", "can't rewind the trajectory")
	}
	M.logger.Printf("fit: force matching %d targets over up to %s frames", len(M.targets), humanize.Comma(int64(iterations)))
	natoms := M.top.Len()
	grads := make([]*mat.VecDense, len(M.targets))
	for k, t := range M.targets {
		grads[k] = mat.NewVecDense(t.Params().Len(), nil)
	}
	gmats := make([]*mat.Dense, len(M.targets))
	for done := 0; done < iterations; done++ {
		err := M.next()
		if fm.IsLastFrame(err) {
			break
		}
		if err != nil {
			return fm.NewError(err, "Matcher.ForceMatch", "reading frame %d", done)
		}
		if err := M.setup(); err != nil {
			return fm.NewError(err, "Matcher.ForceMatch", "frame %d", M.frame.Index)
		}
		ref, err := M.referenceForces()
		if err != nil {
			return err
		}
		M.calls++
		var netdf float64
		for _, i := range M.rng.Perm(natoms) {
			df := ref.Vec(i)
			for k, t := range M.targets {
				f, g := t.ParticleForce(i, M.frame)
				df[0] -= f[0]
				df[1] -= f[1]
				df[2] -= f[2]
				gmats[k] = g
			}
			netdf += math.Sqrt(df[0]*df[0] + df[1]*df[1] + df[2]*df[2])
			dfv := mat.NewVecDense(3, df[:])
			for k, t := range M.targets {
				//g = -G*df
				grads[k].MulVec(gmats[k], dfv)
				grads[k].ScaleVec(-1, grads[k])
				if err := t.Params().Step(grads[k].RawVector().Data); err != nil {
					return fm.NewError(err, "Matcher.ForceMatch", "%s, frame %d particle %d", t.Name(), M.frame.Index, i)
				}
			}
		}
		M.teardown()
		M.errors = append(M.errors, netdf)
		logerr := 0.0
		if netdf > 1 {
			logerr = math.Log(netdf)
		}
		var penalty float64
		for _, t := range M.targets {
			penalty += t.Params().Penalty()
		}
		M.logger.Printf("fit: log error at frame %d = %g, regularization penalty = %g", M.frame.Index, logerr, penalty)
	}
	return nil
}

// referenceForces returns the reference forces for the current frame: the sum of the
// reference forces, if there are any, or the forces stored in the frame.
// A frame without stored forces, when they are needed, counts as zero forces and is logged.
func (M *Matcher) referenceForces() (*v3.Matrix, error) {
	if _, ok := M.frame.RefForces(); !ok && M.usesFrameForces() {
		M.logger.Printf("fit: frame %d has no reference forces, using zeros", M.frame.Index)
	}
	if len(M.refs) == 0 {
		return M.frame.ForcesOrZeros(), nil
	}
	M.refbuf.Zero()
	for _, r := range M.refs {
		if err := r.CalcForces(M.refbuf, M.frame); err != nil {
			return nil, fm.NewError(err, "Matcher.referenceForces", "%s", r.Name())
		}
	}
	return M.refbuf, nil
}

// usesFrameForces returns true if the reference forces include the ones stored in the frames.
func (M *Matcher) usesFrameForces() bool {
	if len(M.refs) == 0 {
		return true
	}
	for _, r := range M.refs {
		if _, ok := r.(*forces.FileForce); ok {
			return true
		}
	}
	return false
}
