// Package forcefield provides a Lennard-Jones parameter table implementing the
// short-range pair energy used by the interaction evaluator.
package forcefield

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultBigEnergy = 1e6

var ErrInvalidParams = errors.New("forcefield: invalid parameters")

type AtomParams struct {
	Name   string  `yaml:"name"`
	Radius float64 `yaml:"radius"`
}

// PairParams describes the Lennard-Jones interaction between atom types A and
// B. The pair is symmetric.
type PairParams struct {
	A       int     `yaml:"a"`
	B       int     `yaml:"b"`
	Epsilon float64 `yaml:"epsilon"`
	Sigma   float64 `yaml:"sigma"`
	Cutoff  float64 `yaml:"cutoff"`
}

func (p PairParams) energy(r float64) float64 {
	if r >= p.Cutoff {
		return 0
	}
	sr := p.Sigma / r
	sr2 := sr * sr
	sr6 := sr2 * sr2 * sr2
	return 4 * p.Epsilon * (sr6*sr6 - sr6)
}

type pairKey struct{ a, b int }

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Table is read-only after construction and safe for concurrent use.
type Table struct {
	Big   float64      `yaml:"big_energy"`
	Atoms []AtomParams `yaml:"atoms"`
	Pairs []PairParams `yaml:"pairs"`

	pairs map[pairKey]PairParams
}

// New validates the parameters and indexes the pair table. A zero big energy
// becomes DefaultBigEnergy.
func New(big float64, atoms []AtomParams, pairs []PairParams) (*Table, error) {
	t := &Table{Big: big, Atoms: atoms, Pairs: pairs}
	if err := t.init(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) init() error {
	if t.Big == 0 {
		t.Big = DefaultBigEnergy
	}
	if err := t.Validate(); err != nil {
		return err
	}
	t.pairs = make(map[pairKey]PairParams, len(t.Pairs))
	for _, p := range t.Pairs {
		t.pairs[keyOf(p.A, p.B)] = p
	}
	return nil
}

func (t *Table) Validate() error {
	if t.Big <= 0 {
		return fmt.Errorf("%w: big_energy must be positive, got %g", ErrInvalidParams, t.Big)
	}
	for i, a := range t.Atoms {
		if a.Radius < 0 {
			return fmt.Errorf("%w: atom %d (%s) radius %g", ErrInvalidParams, i, a.Name, a.Radius)
		}
	}
	seen := make(map[pairKey]bool, len(t.Pairs))
	for i, p := range t.Pairs {
		if p.A < 0 || p.A >= len(t.Atoms) || p.B < 0 || p.B >= len(t.Atoms) {
			return fmt.Errorf("%w: pair %d references atom types %d,%d of %d", ErrInvalidParams, i, p.A, p.B, len(t.Atoms))
		}
		if p.Sigma <= 0 || p.Cutoff <= 0 {
			return fmt.Errorf("%w: pair %d needs positive sigma and cutoff", ErrInvalidParams, i)
		}
		k := keyOf(p.A, p.B)
		if seen[k] {
			return fmt.Errorf("%w: pair %d,%d declared twice", ErrInvalidParams, p.A, p.B)
		}
		seen[k] = true
	}
	return nil
}

// PairEnergy returns the Lennard-Jones energy of atom types a and b at
// distance r, capped at BigEnergy. Undeclared pairs do not interact.
func (t *Table) PairEnergy(a, b int, r float64) float64 {
	p, ok := t.pairs[keyOf(a, b)]
	if !ok {
		return 0
	}
	if r <= 0 {
		return t.Big
	}
	return math.Min(p.energy(r), t.Big)
}

// AtomRadius returns the exclusion radius of an atom type, 0 if unknown.
func (t *Table) AtomRadius(typ int) float64 {
	if typ < 0 || typ >= len(t.Atoms) {
		return 0
	}
	return t.Atoms[typ].Radius
}

func (t *Table) BigEnergy() float64 { return t.Big }

func Parse(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("forcefield: %w", err)
	}
	if err := t.init(); err != nil {
		return nil, err
	}
	return t, nil
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Save(path string, t *Table) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Default is a single atom type of radius 0.5 with a unit Lennard-Jones
// self interaction cut at 2.5σ.
func Default() *Table {
	t, err := New(DefaultBigEnergy,
		[]AtomParams{{Name: "A", Radius: 0.5}},
		[]PairParams{{A: 0, B: 0, Epsilon: 1, Sigma: 1, Cutoff: 2.5}},
	)
	if err != nil {
		panic(err)
	}
	return t
}
