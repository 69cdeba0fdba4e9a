/*
 * memtraj.go, part of gofm.
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

// MemTraj is a FrameSource that keeps all its frames in memory.
// It also implements Seeker.
type MemTraj struct {
	frames  []*Frame
	natoms  int
	current int
}

// NewMemTraj returns a MemTraj with the given frames. All frames must have the same
// number of particles. The frames are not copied, but Next only ever copies
// from them, so callers never get to modify them through the MemTraj.
func NewMemTraj(frames ...*Frame) (*MemTraj, error) {
	if len(frames) == 0 {
		return nil, NewError(ErrNoAtoms, "NewMemTraj", "no frames given")
	}
	M := &MemTraj{frames: frames, natoms: frames[0].Len()}
	if M.natoms == 0 {
		return nil, NewError(ErrNoAtoms, "NewMemTraj", "frames have no particles")
	}
	for i, f := range frames {
		if f.Len() != M.natoms {
			return nil, NewError(ErrShape, "NewMemTraj", "frame %d has %d particles, expected %d", i, f.Len(), M.natoms)
		}
		f.Index = i
	}
	return M, nil
}

// Readable returns true if there are frames left to read.
func (M *MemTraj) Readable() bool { return M.current < len(M.frames) }

// Len returns the number of particles per frame.
func (M *MemTraj) Len() int { return M.natoms }

// NFrames returns the number of frames.
func (M *MemTraj) NFrames() int { return len(M.frames) }

// Next copies the next frame into f.
func (M *MemTraj) Next(f *Frame) error {
	if M.current >= len(M.frames) {
		return newlastFrameError("memory", "MemTraj.Next")
	}
	f.CopyFrom(M.frames[M.current])
	M.current++
	return nil
}

// Rewind sets the trajectory back to its first frame.
func (M *MemTraj) Rewind() error {
	M.current = 0
	return nil
}

// Seek makes the next call to Next return frame i.
func (M *MemTraj) Seek(i int) error {
	if i < 0 || i >= len(M.frames) {
		return NewError(ErrShape, "MemTraj.Seek", "frame %d out of range [0,%d)", i, len(M.frames))
	}
	M.current = i
	return nil
}
