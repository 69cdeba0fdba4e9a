/*
 * config_test.go, part of gofm.
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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	fm "github.com/rmera/gofm"
	"github.com/rmera/gofm/forces"
)

const example = `
structure: cg.pdb
trajectory: cg.stf
forces: cg_forces.stf
kT: 0.596
box: [30, 30, 30]
seed: 7
forces_list:
  - name: nb
    kind: spectral
    cutoff: 12
    mesh: {min: 2, max: 12, dx: 0.5}
    basis: hat
    type_pairs: true
    regularizers: [{kind: smooth, strength: 0.5}, {kind: l2}]
  - name: bond
    kind: harmonic
    initial: [100, 3.8]
    eta: 1
  - kind: lj
    role: reference
    cutoff: 12
    select: ["type A", "type B"]
`

func TestParse(Te *testing.T) {
	g := NewWithT(Te)
	c, err := Parse([]byte(example))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.KT).To(Equal(0.596))
	g.Expect(c.Box).To(Equal([]float64{30, 30, 30}))
	g.Expect(c.Exclude13).To(BeTrue())
	g.Expect(c.Mode).To(Equal("force"))
	g.Expect(c.ObsMatch.Sweeps).To(Equal(DefaultSweeps))
	g.Expect(c.Store.Kind).To(Equal("memory"))
	g.Expect(c.ForceList).To(HaveLen(3))
	g.Expect(c.ForceList[0].Role).To(Equal("target"))
	g.Expect(c.ForceList[0].Regularizers[1].Strength).To(Equal(DefaultRegStrength))
	g.Expect(c.ForceList[2].Name).To(Equal("lj"))

	targets, refs, err := c.BuildForces(fm.NewRegistry(c.Exclude13))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(targets).To(HaveLen(2))
	g.Expect(refs).To(HaveLen(1))
	S, ok := targets[0].Force.(*forces.Spectral)
	g.Expect(ok).To(BeTrue())
	g.Expect(targets[0].TypePairs).To(BeTrue())
	g.Expect(S.Mesh().Len()).To(Equal(20))
	g.Expect(S.Basis().Name()).To(Equal("hat"))
	g.Expect(S.Params().Regularizers).To(HaveLen(2))
	g.Expect(targets[1].Force.Params().W).To(Equal([]float64{100, 3.8}))
	g.Expect(targets[1].Force.Params().Eta).To(Equal(1.0))
	g.Expect(targets[1].Force.Category().Kind()).To(Equal(fm.BondedKind))
	g.Expect(refs[0].Name()).To(Equal("lj[type A|type B]"))
	//all pairwise forces share the category
	g.Expect(refs[0].Category()).To(BeIdenticalTo(S.Category()))
}

func TestValidate(Te *testing.T) {
	g := NewWithT(Te)
	cases := map[string]string{
		"no kT":          strings.Replace(example, "kT: 0.596", "", 1),
		"short box":      strings.Replace(example, "[30, 30, 30]", "[30, 30]", 1),
		"unknown kind":   strings.Replace(example, "kind: harmonic", "kind: morse", 1),
		"no structure":   strings.Replace(example, "structure: cg.pdb", "", 1),
		"no trajectory":  strings.Replace(example, "trajectory: cg.stf", "", 1),
		"bad basis":      strings.Replace(example, "basis: hat", "basis: gaussian", 1),
		"two sources":    example + "lammps_forces: dump.txt\n",
		"obs needs data": example + "mode: observable\n",
		"bad role":       strings.Replace(example, "role: reference", "role: both", 1),
		"no cutoff":      strings.Replace(example, "    cutoff: 12\n    select", "    select", 1),
		"bad store":      example + "store: {kind: postgres}\n",
		"bad yaml":       example + "kT: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		g.Expect(err).To(HaveOccurred(), name)
		g.Expect(errors.Is(err, fm.ErrConfig)).To(BeTrue(), name)
	}
	only := `
structure: a.pdb
trajectory: a.stf
kT: 1
forces_list:
  - {kind: file, role: reference}
`
	_, err := Parse([]byte(only))
	g.Expect(errors.Is(err, fm.ErrConfig)).To(BeTrue())
}

func TestBuildCutoffMismatch(Te *testing.T) {
	g := NewWithT(Te)
	c, err := Parse([]byte(strings.Replace(example, "role: reference\n    cutoff: 12", "role: reference\n    cutoff: 10", 1)))
	g.Expect(err).NotTo(HaveOccurred())
	_, _, err = c.BuildForces(fm.NewRegistry(true))
	g.Expect(errors.Is(err, fm.ErrIncompatibleCutoff)).To(BeTrue())
}

func TestSpectralInitial(Te *testing.T) {
	g := NewWithT(Te)
	f := ForceConfig{Name: "s", Kind: "spectral", Cutoff: 3, Initial: []float64{2}}
	f.setDefaults()
	F, err := f.Build(fm.NewRegistry(true))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(F.(forces.Fittable).Params().W).To(Equal([]float64{2, 2, 2, 2, 2, 2}))
	f.Initial = []float64{1, 2}
	_, err = f.Build(fm.NewRegistry(true))
	g.Expect(errors.Is(err, fm.ErrConfig)).To(BeTrue())
}

func TestReadObservable(Te *testing.T) {
	g := NewWithT(Te)
	data := "# time value\n@ xvg legend\n0.5 10\n\n1.5 20\n-1 30\n"
	v, err := ReadObservable(strings.NewReader(data), 3, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal([]float64{0.5, 1.5, -1}))
	set := 1.0
	v, err = ReadObservable(strings.NewReader(data), 2, &set)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal([]float64{0.25, 0.25, 4}))
	_, err = ReadObservable(strings.NewReader(data), 4, nil)
	g.Expect(errors.Is(err, fm.ErrShape)).To(BeTrue())
	_, err = ReadObservable(strings.NewReader("x\n"), 1, nil)
	g.Expect(errors.Is(err, fm.ErrConfig)).To(BeTrue())
}

func TestLoad(Te *testing.T) {
	g := NewWithT(Te)
	dir := Te.TempDir()
	path := filepath.Join(dir, "run.yaml")
	g.Expect(os.WriteFile(path, []byte(example+"observable: "+filepath.Join(dir, "obs.dat")+"\nobservable_set: 2\n"), 0644)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(dir, "obs.dat"), []byte("1\n2\n4\n"), 0644)).To(Succeed())
	c, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	v, err := c.LoadObservable(3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal([]float64{1, 0, 4}))

	//what is saved loads back the same
	path2 := filepath.Join(dir, "saved.yaml")
	g.Expect(c.Save(path2)).To(Succeed())
	c2, err := Load(path2)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c2).To(Equal(c))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	g.Expect(errors.Is(err, fm.ErrConfig)).To(BeTrue())
}
