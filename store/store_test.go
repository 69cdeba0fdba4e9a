/*
 * store_test.go, part of gofm.
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

package store

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
)

func spectral(Te *testing.T) *forces.Spectral {
	Te.Helper()
	cat, err := fm.NewRegistry(true).Pairwise(3)
	if err != nil {
		Te.Fatal(err)
	}
	mesh, _ := forces.NewUniformMesh(0, 3, 0.5)
	return forces.NewSpectral("nb", cat, mesh, forces.Hat{})
}

func TestMemoryStoreRoundTrip(Te *testing.T) {
	g := NewWithT(Te)
	ctx := context.Background()
	s, err := NewStore("", "")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.SaveRun(ctx, NewRun("force", 1))).NotTo(Succeed()) //not initialized
	g.Expect(s.Init(ctx)).To(Succeed())

	S := spectral(Te)
	S.Params().W[2] = -1
	run := NewRun("force", 0.596)
	run.Forces = append(run.Forces, Record(S))
	run.Errors = []float64{3, 2, 1}
	g.Expect(s.SaveRun(ctx, run)).To(Succeed())

	//the record is a copy
	S.Params().W[2] = 7
	got, ok, err := s.GetRun(ctx, run.ID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(got.KT).To(Equal(0.596))
	g.Expect(got.Created.Equal(run.Created)).To(BeTrue())
	rec, ok := got.Force("nb")
	g.Expect(ok).To(BeTrue())
	g.Expect(rec.W[2]).To(Equal(-1.0))
	g.Expect(rec.Basis).To(Equal("hat"))
	g.Expect(rec.Mesh).To(Equal([]float64{0, 3, 6}))

	g.Expect(rec.Apply(S)).To(Succeed())
	g.Expect(S.Params().W[2]).To(Equal(-1.0))

	_, ok, err = s.GetRun(ctx, "nope")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())

	other := NewRun("observable", 1)
	g.Expect(other.ID).NotTo(Equal(run.ID))
	g.Expect(s.SaveRun(ctx, other)).To(Succeed())
	ids, err := s.ListRuns(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ids).To(ConsistOf(run.ID, other.ID))
	g.Expect(CloseIfSupported(s)).To(Succeed())
}

func TestApplyShape(Te *testing.T) {
	g := NewWithT(Te)
	S := spectral(Te)
	rec := Record(S)
	rec.W = rec.W[1:]
	err := rec.Apply(S)
	g.Expect(errors.Is(err, fm.ErrShape)).To(BeTrue())
}

func TestCodecVersion(Te *testing.T) {
	g := NewWithT(Te)
	run := NewRun("force", 1)
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	g.Expect(err).NotTo(HaveOccurred())
	_, err = DecodeRun(data)
	g.Expect(err).To(MatchError(ErrVersionMismatch))
	_, err = DecodeRun([]byte("{"))
	g.Expect(err).To(HaveOccurred())
}

func TestNewStoreKinds(Te *testing.T) {
	g := NewWithT(Te)
	_, err := NewStore("postgres", "")
	g.Expect(err).To(HaveOccurred())
}
