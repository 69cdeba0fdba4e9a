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

package fm

import (
	"errors"
	"fmt"
	"strings"
)

//Sentinel errors. Functions in gofm return CError values that wrap these,
//so they can be checked with errors.Is.
var (
	//ErrConfig marks fatal configuration errors: bad selectors, bad boxes,
	//missing parameters and the like.
	ErrConfig = errors.New("invalid configuration")

	//ErrIncompatibleCutoff is returned when a pairwise category with a given cutoff
	//already exists in a run, and one with a different cutoff is requested.
	ErrIncompatibleCutoff = errors.New("incompatible pairwise cutoff")

	//ErrNoAtoms is returned when a selection, topology or frame is empty.
	ErrNoAtoms = errors.New("no particles")

	//ErrShape is returned when the dimensions of given data do not agree.
	ErrShape = errors.New("shape mismatch")
)

// CError is the general error type for the fm package. It implements Error.
type CError struct {
	msg      string
	deco     []string
	critical bool
	wrapped  error
}

// NewError returns a critical CError with the given message, wrapping
// sentinel (which can be nil) and decorated with caller.
func NewError(sentinel error, caller string, format string, args ...interface{}) *CError {
	err := new(CError)
	err.msg = fmt.Sprintf(format, args...)
	err.wrapped = sentinel
	err.critical = true
	err.Decorate(caller)
	return err
}

func (err CError) Error() string {
	msg := err.msg
	if err.wrapped != nil && msg != "" {
		msg = err.wrapped.Error() + ": " + msg
	} else if err.wrapped != nil {
		msg = err.wrapped.Error()
	}
	if len(err.deco) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", strings.Join(err.deco, "->"), msg)
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append([]string{dec}, err.deco...)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err CError) Critical() bool { return err.critical }

// Unwrap returns the sentinel error wrapped by err, if any.
func (err CError) Unwrap() error { return err.wrapped }

// errDecorate decorates err with caller if err implements Error, and returns it.
// Other errors are wrapped in a CError.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
		return err
	}
	return NewError(err, caller, "")
}

// lastFrameError implements LastFrameError
type lastFrameError struct {
	deco   []string
	source string
}

func newlastFrameError(source string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.source = source
	e.deco = []string{caller}
	return e
}

// NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.source }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "memory" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var lf LastFrameError
	return errors.As(err, &lf)
}
