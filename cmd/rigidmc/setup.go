package main

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/forcefield"
	"github.com/san-kum/rigidmc/internal/interaction"
	"github.com/san-kum/rigidmc/internal/montecarlo"
	"github.com/san-kum/rigidmc/internal/storage"
	"github.com/san-kum/rigidmc/internal/topology"
)

// system is everything a run needs besides the sampler parameters.
type system struct {
	cfg *config.Config
	top *topology.Table
	ff  *forcefield.Table
	bd  boundary.Boundary
	ev  *interaction.Evaluator
}

func loadSystem(cfg *config.Config) (*system, error) {
	top := topology.Point()
	if cfg.Topology != "" {
		t, err := topology.Load(cfg.Topology)
		if err != nil {
			return nil, fmt.Errorf("failed to load topology: %w", err)
		}
		top = t
	}

	ff := forcefield.Default()
	if cfg.ForceField != "" {
		f, err := forcefield.Load(cfg.ForceField)
		if err != nil {
			return nil, fmt.Errorf("failed to load force field: %w", err)
		}
		ff = f
	}

	bd, err := boundary.FromConfig(cfg.Box)
	if err != nil {
		return nil, err
	}

	return &system{
		cfg: cfg,
		top: top,
		ff:  ff,
		bd:  bd,
		ev:  interaction.New(ff, top),
	}, nil
}

func (s *system) populate(seed int64) ([]*body.Body, error) {
	return montecarlo.Populate(s.cfg, s.top, s.bd, rand.New(rand.NewSource(seed)))
}

// storedSystem rebuilds the system a stored run ended in.
func storedSystem(meta *storage.RunMetadata) (*system, error) {
	cfg := config.DefaultConfig()
	cfg.Box = meta.Box
	cfg.Topology = meta.Topology
	cfg.ForceField = meta.ForceField
	return loadSystem(cfg)
}
