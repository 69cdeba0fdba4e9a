/*
 * config.go, part of gofm.
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

// Package config reads the YAML description of a fitting run.
package config

import (
	"os"

	fm "github.com/rmera/gofm"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSweeps      = 25
	DefaultMode        = "force"
	DefaultStore       = "memory"
	DefaultRegStrength = 1.0
	DefaultMeshDx      = 0.5
)

// Config describes a fitting run.
type Config struct {
	Structure     string         `yaml:"structure"`
	Trajectory    string         `yaml:"trajectory"`
	Forces        string         `yaml:"forces"`
	LammpsForces  string         `yaml:"lammps_forces"`
	LammpsNegate  bool           `yaml:"lammps_negate"`
	KT            float64        `yaml:"kT"`
	Box           []float64      `yaml:"box,omitempty"`
	Observable    string         `yaml:"observable"`
	ObservableSet *float64       `yaml:"observable_set,omitempty"`
	Mode          string         `yaml:"mode"`
	Seed          int64          `yaml:"seed"`
	Iterations    int            `yaml:"iterations"`
	Exclude13     bool           `yaml:"exclude13"`
	ObsMatch      ObsMatchConfig `yaml:"obs_match"`
	Store         StoreConfig    `yaml:"store"`
	Output        string         `yaml:"output"`
	ForceList     []ForceConfig  `yaml:"forces_list,omitempty"`
}

type ObsMatchConfig struct {
	Sweeps    int `yaml:"sweeps"`
	Samples   int `yaml:"samples"`
	RejectTol int `yaml:"reject_tol"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// ForceConfig describes one force of the run.
type ForceConfig struct {
	Name         string      `yaml:"name"`
	Kind         string      `yaml:"kind"`
	Role         string      `yaml:"role"`
	Cutoff       float64     `yaml:"cutoff"`
	Mesh         MeshConfig  `yaml:"mesh"`
	Basis        string      `yaml:"basis"`
	TypePairs    bool        `yaml:"type_pairs"`
	Select       []string    `yaml:"select,omitempty"`
	Regularizers []RegConfig `yaml:"regularizers,omitempty"`
	Eta          float64     `yaml:"eta"`
	Initial      []float64   `yaml:"initial,omitempty"`
}

type MeshConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	Dx  float64 `yaml:"dx"`
}

type RegConfig struct {
	Kind     string  `yaml:"kind"`
	Strength float64 `yaml:"strength"`
}

// DefaultConfig returns a configuration with every optional value set to its default.
func DefaultConfig() *Config {
	return &Config{
		Mode:         DefaultMode,
		Exclude13:    true,
		LammpsNegate: true,
		ObsMatch: ObsMatchConfig{
			Sweeps: DefaultSweeps,
		},
		Store: StoreConfig{
			Kind: DefaultStore,
		},
		Output: ".",
	}
}

// Load reads the configuration in the file path over the defaults, and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fm.NewError(fm.ErrConfig, "config.Load", "%s", err.Error())
	}
	return Parse(data)
}

// Parse reads a configuration from data over the defaults, and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fm.NewError(fm.ErrConfig, "config.Parse", "%s", err.Error())
	}
	for i := range cfg.ForceList {
		cfg.ForceList[i].setDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (f *ForceConfig) setDefaults() {
	if f.Role == "" {
		f.Role = "target"
	}
	if f.Kind == "spectral" {
		if f.Basis == "" {
			f.Basis = "unitstep"
		}
		if f.Mesh.Max == 0 {
			f.Mesh.Max = f.Cutoff
		}
		if f.Mesh.Dx == 0 {
			f.Mesh.Dx = DefaultMeshDx
		}
	}
	if f.Name == "" {
		f.Name = f.Kind
	}
	for i, r := range f.Regularizers {
		if r.Strength == 0 {
			f.Regularizers[i].Strength = DefaultRegStrength
		}
	}
}
