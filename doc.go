/*
 * doc.go, part of gofm.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package fm is the main package of the gofm library, which fits coarse-grained force fields
to reference forces by force matching. It provides the frame and topology structures,
the trajectory interfaces, minimum-image geometry, cell-linked neighbor lists and
the force categories that decide which particle pairs interact.

	**gofm Capabilities**

	Reads coarse-grained structures (particles, bonds and box) from PDB files.

	Reads positions and reference forces from STF (and, for forces, LAMMPS dump)
	trajectories, see the traj subpackages.

	Builds O(N) neighbor lists with periodic boundary conditions and exclusion of
	bonded (and optionally 1-3) pairs.

	Fits analytic (Lennard-Jones, harmonic) and spectral (piecewise-basis) forces
	to reference forces with AdaGrad, see the forces and fit subpackages.

	Refines potentials against a per-frame observable by importance-sampling
	reweighting.

	Plots and tabulates the fitted forces and potentials, and stores the fitted
	parameters.

The engine is single-threaded. A run owns a Registry, which holds the one pairwise
and the one bonded category that all its forces share.
*/
package fm
