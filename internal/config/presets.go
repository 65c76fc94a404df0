package config

import "sort"

// Presets are grouped by box kind.
var Presets = map[string]map[string]*Config{
	BoxPeriodic: {
		"gas": {
			Name:       "gas",
			Box:        BoxConfig{Kind: BoxPeriodic, Width: 40, Height: 40},
			Population: []PopulationConfig{{Type: 0, Count: 16}},
			MC:         presetMC(200, 2.0, 1.0, 1, 0.5),
		},
		"liquid": {
			Name:       "liquid",
			Box:        BoxConfig{Kind: BoxPeriodic, Width: 12, Height: 12},
			Population: []PopulationConfig{{Type: 0, Count: 64}},
			MC:         presetMC(500, 0.8, 0.2, 4, 0.4),
		},
	},
	BoxWalls: {
		"slab": {
			Name:       "slab",
			Box:        BoxConfig{Kind: BoxWalls, Width: 30, Height: 10},
			Population: []PopulationConfig{{Type: 0, Count: 24}},
			MC:         presetMC(300, 1.0, 0.5, 1, 0.4),
		},
	},
	BoxPolygon: {
		"hexagon": {
			Name: "hexagon",
			Box: BoxConfig{Kind: BoxPolygon, Polygon: [][2]float64{
				{10, 0}, {20, 5}, {20, 15}, {10, 20}, {0, 15}, {0, 5},
			}},
			Population: []PopulationConfig{{Type: 0, Count: 20}},
			MC:         presetMC(300, 1.0, 0.5, 1, 0.4),
		},
	},
}

func presetMC(sweeps int, temperature, maxStep float64, workers int, target float64) MCConfig {
	return MCConfig{
		Sweeps:           sweeps,
		Temperature:      temperature,
		MaxStep:          maxStep,
		MaxAngle:         DefaultMaxAngle,
		RotateProb:       DefaultRotateProb,
		Workers:          workers,
		AdaptEvery:       DefaultAdaptEvery,
		TargetAcceptance: target,
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
