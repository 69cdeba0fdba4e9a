/*
 * errors.go, part of gofm.
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

package lammps

import (
	"fmt"

	fm "github.com/rmera/gofm"
)

// Error is the error type for LAMMPS dumps. It fullfills fm.TrajError.
type Error struct {
	message  string
	filename string
	line     int
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.line > 0 {
		return fmt.Sprintf("lammps dump %s, line %d, error: %s", err.filename, err.line, err.message)
	}
	return fmt.Sprintf("lammps dump %s error: %s", err.filename, err.message)
}

// Decorate adds deco to the trail of the error and returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file that caused the error.
func (err Error) FileName() string { return err.filename }

// Format always returns "lammps".
func (err Error) Format() string { return "lammps" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(fm.Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return Error{err.Error(), "", 0, []string{caller}, true}
}

// lastFrameError implements fm.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "lammps" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
