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

/*
Package fit fits the forces of the forces package to a reference trajectory.

A Matcher reads frames from an fm.FrameSource and runs one of two fitting modes:

ForceMatch visits the frames in order, and takes one AdaGrad step per particle and target force,
reducing the deviation between the reference forces and the sum of the target forces.

ObservationMatch samples random frames and steps the target parameters so that an observable,
reweighted from the reference ensemble to the one of the target potentials, matches its reference
values. It keeps its own AdaGrad accumulators, and falls back to force matching when too many sampled
frames in a row have negligible weight.

The reference forces are the sum of the forces added with AddReference or, if none were added, the forces stored
in each frame.
*/
package fit
