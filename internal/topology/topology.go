// Package topology holds the molecule definitions that give each body type its
// atoms.
package topology

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownType is returned for a body type with no molecule definition,
// including the invalid type -1.
var ErrUnknownType = errors.New("topology: unknown body type")

// Atom is one interaction site, offset from the body origin in the body frame.
type Atom struct {
	Type int     `yaml:"type"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

type Molecule struct {
	Name  string `yaml:"name"`
	Atoms []Atom `yaml:"atoms"`
}

func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// Table maps body types (slice indices) to molecules.
type Table struct {
	Molecules []Molecule `yaml:"molecules"`
}

func (t *Table) Molecule(typ int) (*Molecule, error) {
	if typ < 0 || typ >= len(t.Molecules) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, typ)
	}
	return &t.Molecules[typ], nil
}

func (t *Table) NumTypes() int { return len(t.Molecules) }

// Lookup returns the type index of the molecule with the given name.
func (t *Table) Lookup(name string) (int, error) {
	for i := range t.Molecules {
		if t.Molecules[i].Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Validate checks that every molecule has at least one atom and that atom
// types are non-negative.
func (t *Table) Validate() error {
	if len(t.Molecules) == 0 {
		return errors.New("topology: no molecules defined")
	}
	for i, m := range t.Molecules {
		if len(m.Atoms) == 0 {
			return fmt.Errorf("topology: molecule %d (%s) has no atoms", i, m.Name)
		}
		for j, a := range m.Atoms {
			if a.Type < 0 {
				return fmt.Errorf("topology: molecule %d atom %d has negative type %d", i, j, a.Type)
			}
		}
	}
	return nil
}

func Parse(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}
	if err := t.Validate(); err != nil {
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

// Point returns a table holding one single-atom molecule of atom type 0.
func Point() *Table {
	return &Table{Molecules: []Molecule{{Name: "point", Atoms: []Atom{{Type: 0}}}}}
}
