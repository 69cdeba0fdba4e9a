/*
 * store.go, part of gofm.
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

// Package store keeps the parameters of fitted forces, one record per fitting run.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
)

// Store persists fitting runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
}

// Run is the result of a fitting run.
type Run struct {
	SchemaVersion int           `json:"schema_version"`
	ID            string        `json:"id"`
	Created       time.Time     `json:"created"`
	Mode          string        `json:"mode"`
	KT            float64       `json:"kT"`
	Forces        []ForceRecord `json:"forces"`
	Errors        []float64     `json:"errors,omitempty"`
}

// ForceRecord has the fitted state of one force.
type ForceRecord struct {
	Name  string    `json:"name"`
	W     []float64 `json:"w"`
	Lip   []float64 `json:"lip"`
	Eta   float64   `json:"eta"`
	Basis string    `json:"basis,omitempty"`
	Mesh  []float64 `json:"mesh,omitempty"` //min, max, number of bins
}

// NewRun returns an empty run with a new random ID.
func NewRun(mode string, kT float64) Run {
	return Run{
		SchemaVersion: CurrentSchemaVersion,
		ID:            uuid.NewString(),
		Created:       time.Now().UTC(),
		Mode:          mode,
		KT:            kT,
	}
}

// Record returns the record of the current state of f.
func Record(f forces.Fittable) ForceRecord {
	p := f.Params()
	rec := ForceRecord{
		Name: f.Name(),
		W:    append([]float64(nil), p.W...),
		Lip:  append([]float64(nil), p.Lip...),
		Eta:  p.Eta,
	}
	if s, ok := f.(*forces.Spectral); ok {
		rec.Basis = s.Basis().Name()
		rec.Mesh = []float64{s.Mesh().Min(), s.Mesh().Max(), float64(s.Mesh().Len())}
	}
	return rec
}

// Apply sets the parameters of f to those in the record.
func (r ForceRecord) Apply(f forces.Fittable) error {
	p := f.Params()
	if len(r.W) != p.Len() || len(r.Lip) != p.Len() {
		return fm.NewError(fm.ErrShape, "ForceRecord.Apply", "%s has %d parameters, the record for %s has %d", f.Name(), p.Len(), r.Name, len(r.W))
	}
	copy(p.W, r.W)
	copy(p.Lip, r.Lip)
	p.Eta = r.Eta
	return nil
}

// Force returns the record with the given name.
func (r Run) Force(name string) (ForceRecord, bool) {
	for _, f := range r.Forces {
		if f.Name == name {
			return f, true
		}
	}
	return ForceRecord{}, false
}

// NewStore returns a store of the given kind: "memory" (the default) or "sqlite", which
// is only available in builds with the sqlite tag.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes store if it can be closed.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
