/*
 * observable.go, part of gofm.
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

package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	fm "github.com/rmera/gofm"
)

// ReadObservable reads one observable value per frame from r: the first column of each line,
// skipping blank lines and lines starting with '#' or '@'. At least nframes values are needed.
// If set is not nil, each value x is replaced by (x-set)^2, so that matching the observable
// drives it toward set.
func ReadObservable(r io.Reader, nframes int, set *float64) ([]float64, error) {
	var ret []float64
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		t := strings.TrimSpace(s.Text())
		if t == "" || t[0] == '#' || t[0] == '@' {
			continue
		}
		v, err := strconv.ParseFloat(strings.Fields(t)[0], 64)
		if err != nil {
			return nil, fm.NewError(fm.ErrConfig, "ReadObservable", "line %d: %s", line, err.Error())
		}
		if set != nil {
			v = (v - *set) * (v - *set)
		}
		ret = append(ret, v)
	}
	if err := s.Err(); err != nil {
		return nil, fm.NewError(fm.ErrConfig, "ReadObservable", "%s", err.Error())
	}
	if len(ret) < nframes {
		return nil, fm.NewError(fm.ErrShape, "ReadObservable", "%d values for %d frames", len(ret), nframes)
	}
	return ret, nil
}

// LoadObservable reads the observable file of the configuration. See ReadObservable.
func (c *Config) LoadObservable(nframes int) ([]float64, error) {
	f, err := os.Open(c.Observable)
	if err != nil {
		return nil, fm.NewError(fm.ErrConfig, "Config.LoadObservable", "%s", err.Error())
	}
	defer f.Close()
	return ReadObservable(f, nframes, c.ObservableSet)
}
