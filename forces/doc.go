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
Package forces implements the parametric pair forces that gofm fits: analytic forces given by
closed-form laws (Lennard-Jones, harmonic springs, constants) and spectral forces expanded
in a basis over a distance mesh. It also has the fitting state of a force (parameters,
AdaGrad accumulators and regularizers), and a force that just returns the reference forces stored
in the frames.

The force on particle i from a partner j is F(d)*r/d, where r is the minimum-image vector from i
to j and d its length. F is the derivative of the pair potential with respect to the distance.
*/
package forces
