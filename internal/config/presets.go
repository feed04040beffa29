package config

// Presets are named ready-to-run configurations per case.
var Presets = map[string]map[string]*Config{
	"relaxation": {
		"disc": relaxationPreset(0.05, 400),
		"fine": relaxationPreset(0.025, 1200),
	},
	"channel": {
		"gentle": channelPreset(1.0, 500),
		"surge":  channelPreset(2.5, 800),
	},
}

func relaxationPreset(spacing float64, steps int) *Config {
	cfg := DefaultConfig()
	cfg.Case = "relaxation"
	cfg.Steps = steps
	cfg.Domain = DomainConfig{
		Lower:   []float64{0, 0},
		Upper:   []float64{2, 2},
		Spacing: spacing,
	}
	cfg.Fluid.SoundSpeed = 1
	cfg.Inflow = InflowConfig{Velocity: 0, BufferWidth: 1}
	return cfg
}

func channelPreset(velocity float64, steps int) *Config {
	cfg := DefaultConfig()
	cfg.Case = "channel"
	cfg.Steps = steps
	cfg.Inflow.Velocity = velocity
	// acoustic margin scales with the inflow speed
	cfg.Fluid.SoundSpeed = 10 * velocity
	return cfg
}

func GetPreset(caseName, preset string) *Config {
	casePresets, ok := Presets[caseName]
	if !ok {
		return nil
	}
	cfg, ok := casePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(caseName string) []string {
	casePresets, ok := Presets[caseName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(casePresets))
	for name := range casePresets {
		names = append(names, name)
	}
	return names
}
