package config

// Presets are named run configurations keyed by source model. The
// "full" entries reproduce the production grid; the "fast" entries
// trade resolution for turnaround during setup work.
var Presets = map[string]map[string]*Config{
	"undulator": {
		"fast": {
			OmegaMax: 1.0e18, ThetaMax: 1.14594939,
			NOmega: 256, NTheta: 16, NPhi: 2, NTrace: 50,
			Source: SourceConfig{Model: "undulator", B0: 0.8, Period: 0.02, P0: 2.7e-20, Dt: 1e-13, Steps: 2000},
		},
		"full": {
			OmegaMax: DefaultOmegaMax, ThetaMax: DefaultThetaMax,
			NOmega: DefaultNOmega, NTheta: DefaultNTheta, NPhi: DefaultNPhi, NTrace: DefaultNTrace,
			Source: SourceConfig{Model: "undulator", B0: 0.8, Period: 0.02, P0: 2.7e-20, Dt: 1e-13, Steps: 8000},
		},
	},
	"dipole": {
		"fast": {
			OmegaMax: 1.0e15, ThetaMax: 30.0,
			NOmega: 256, NTheta: 16, NPhi: 4, NTrace: 50,
			Source: SourceConfig{Model: "dipole", B0: 1.0, P0: 1e-22, Dt: 5e-14, Steps: 2000},
		},
		"full": {
			OmegaMax: 1.0e17, ThetaMax: 30.0,
			NOmega: DefaultNOmega, NTheta: 64, NPhi: 8, NTrace: DefaultNTrace,
			Source: SourceConfig{Model: "dipole", B0: 1.0, P0: 1e-22, Dt: 5e-14, Steps: 8000},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
