/*
 * obsmatch.go, part of gofm.
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

	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaxReducedDeviation is the largest |dE/kT| for which a sampled frame is
// accepted in observable matching. Frames beyond it would get negligible
// or overflowing weights.
const MaxReducedDeviation = 250.0

// ObservationMatch refines the target potentials so that the observable, reweighted to the
// target ensemble, matches its reference values. Each of the sweeps draws samples random frames,
// weights each by exp((U_ref-U_tar)/kT), and takes one AdaGrad step per target along
// -cov(observable, dU_tar/dw)/kT, with the covariance estimated under those weights.
// Non-positive sweeps, samples or rejectTol take the defaults: 25 sweeps, max(5, frames/sweeps)
// samples, and rejectTol = samples.
// When rejectTol frames in a row are rejected, the targets are refreshed with
// rejectTol frames of force matching before sampling resumes.
func (M *Matcher) ObservationMatch(sweeps, samples, rejectTol int) error {
	nframes := M.traj.NFrames()
	if len(M.targets) == 0 {
		return fm.NewError(fm.ErrConfig, "Matcher.ObservationMatch", "no target forces")
	}
	if len(M.opts.Observable) < nframes {
		return fm.NewError(fm.ErrConfig, "Matcher.ObservationMatch", "%d observable values for %d frames", len(M.opts.Observable), nframes)
	}
	tpots := make([]forces.Potentialer, len(M.targets))
	for k, t := range M.targets {
		p, ok := t.(forces.Potentialer)
		if !ok || !hasPotential(t) {
			return fm.NewError(fm.ErrConfig, "Matcher.ObservationMatch", "target %s has no potential", t.Name())
		}
		tpots[k] = p
	}
	rpots := make([]forces.Potentialer, len(M.refs))
	for k, r := range M.refs {
		p, ok := r.(forces.Potentialer)
		if !ok || !hasPotential(r) {
			return fm.NewError(fm.ErrConfig, "Matcher.ObservationMatch", "reference %s has no potential", r.Name())
		}
		rpots[k] = p
	}
	if sweeps <= 0 {
		sweeps = 25
	}
	if samples <= 0 {
		samples = nframes / sweeps
		if samples < 5 {
			samples = 5
		}
	}
	if rejectTol <= 0 {
		rejectTol = samples
	}

	//force matching and observable matching each keep their own step history.
	M.swapLips()
	defer M.swapLips()

	weights := make([]float64, samples)
	obs := make([]float64, samples)
	//sgrads[k][p] has the samples of the gradient of parameter p of target k.
	sgrads := make([][][]float64, len(M.targets))
	for k, t := range M.targets {
		sgrads[k] = make([][]float64, t.Params().Len())
		for p := range sgrads[k] {
			sgrads[k][p] = make([]float64, samples)
		}
	}
	gbufs := make([][]float64, len(M.targets))
	for s := 0; s < sweeps; s++ {
		M.calls++
		rejects := 0
		for i := 0; i < samples; {
			index := M.rng.Intn(nframes)
			if err := M.seek(index); err != nil {
				return fm.NewError(err, "Matcher.ObservationMatch", "sampling frame %d", index)
			}
			if err := M.setup(); err != nil {
				return fm.NewError(err, "Matcher.ObservationMatch", "frame %d", index)
			}
			dev, err := M.deviation(tpots, rpots)
			if err != nil {
				return err
			}
			if math.Abs(dev/M.opts.KT) > MaxReducedDeviation {
				M.teardown()
				rejects++
				if rejects == rejectTol {
					M.logger.Printf("fit: rejection rate of frames is too high, restarting force matching")
					M.swapLips()
					err := M.ForceMatch(rejects)
					M.swapLips()
					if err != nil {
						return err
					}
					rejects = 0
				}
				continue
			}
			weights[i] = math.Exp(dev / M.opts.KT)
			obs[i] = M.opts.Observable[M.frame.Index]
			for k, p := range tpots {
				gbufs[k], err = p.PotentialGrad(M.frame, gbufs[k])
				if err != nil {
					return fm.NewError(err, "Matcher.ObservationMatch", "%s", M.targets[k].Name())
				}
				for q, v := range gbufs[k] {
					sgrads[k][q][i] = v
				}
			}
			M.teardown()
			i++
		}
		meanobs := stat.Mean(obs, weights)
		norm := floats.Sum(weights)
		for k, t := range M.targets {
			grad := make([]float64, t.Params().Len())
			for q := range grad {
				meang := stat.Mean(sgrads[k][q], weights)
				var cov float64
				for n, w := range weights {
					cov += w * (obs[n] - meanobs) * (sgrads[k][q][n] - meang)
				}
				grad[q] = -cov / norm / M.opts.KT
			}
			if err := t.Params().Step(grad); err != nil {
				return fm.NewError(err, "Matcher.ObservationMatch", "%s, sweep %d", t.Name(), s)
			}
		}
		M.logger.Printf("fit: sweep %d, observable mean: %g, reweighted mean: %g", s, stat.Mean(M.opts.Observable[:nframes], nil), meanobs)
	}
	return nil
}

// deviation returns the sum of the reference potentials minus the sum of the target potentials for the current frame.
func (M *Matcher) deviation(tpots, rpots []forces.Potentialer) (float64, error) {
	var dev float64
	for k, p := range tpots {
		u, err := p.Potential(M.frame)
		if err != nil {
			return 0, fm.NewError(err, "Matcher.deviation", "%s", M.targets[k].Name())
		}
		dev -= u
	}
	for k, p := range rpots {
		u, err := p.Potential(M.frame)
		if err != nil {
			return 0, fm.NewError(err, "Matcher.deviation", "%s", M.refs[k].Name())
		}
		dev += u
	}
	return dev, nil
}

// hasPotential checks the optional HasPotential method of forces whose potential
// depends on their configuration.
func hasPotential(f interface{}) bool {
	if h, ok := f.(interface{ HasPotential() bool }); ok {
		return h.HasPotential()
	}
	return true
}
