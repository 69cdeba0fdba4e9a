/*
 * interfaces.go, part of gofm.
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

package fm

// Traj is an interface for any trajectory object the fitting engine can read from.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into f. f is owned by the caller and is
	//overwritten; implementations must not keep references to it.
	//The end of the trajectory is signaled by an error implementing LastFrameError.
	Next(f *Frame) error

	//Returns the number of particles per frame
	Len() int
}

// FrameSource is a trajectory that can be read more than once, which is what
// the fitting engine needs, as each pass of force matching starts from the first frame.
type FrameSource interface {
	Traj

	//Rewind leaves the source so the next call to Next returns the first frame.
	Rewind() error

	//NFrames returns the total number of frames in the source.
	NFrames() int
}

// Seeker is implemented by sources that can jump to a given frame. The next
// call to Next after Seek(i) returns the frame with index i.
type Seeker interface {
	Seek(i int) error
}

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice resulting from the current call. An empty string just returns the current value.
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
