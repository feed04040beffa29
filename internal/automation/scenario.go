package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/resolventdk/gosph/internal/cases"
	"github.com/resolventdk/gosph/internal/config"
	"github.com/resolventdk/gosph/internal/storage"
)

// Scenario is a scripted sequence of case runs. Steps execute in order
// and each one is persisted, so a later step can reload the particle
// state a former step produced (relax a packing, then flow it).
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single case run within a scenario.
type ScenarioStep struct {
	Case        string             `yaml:"case"`
	Preset      string             `yaml:"preset"`
	Steps       int                `yaml:"steps"`
	RecordEvery int                `yaml:"record_every"`
	Seed        int64              `yaml:"seed"`
	Reload      string             `yaml:"reload"`
	Overrides   map[string]float64 `yaml:"overrides"`
	SaveAs      string             `yaml:"save_as"`
}

// StepResult is what one scenario step left behind.
type StepResult struct {
	Label  string
	RunID  string
	Steps  int
	Finals map[string]float64
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order. Each step's run is saved to
// the store; a step's Reload may name either an existing run ID or the
// save_as label of an earlier step.
func RunScenario(ctx context.Context, reg *cases.Registry, st *storage.Store, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	labels := make(map[string]string)

	for i, step := range scenario.Steps {
		fmt.Printf("step %d/%d: %s\n", i+1, len(scenario.Steps), step.Case)

		cfg, err := stepConfig(step, labels)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		build, err := reg.Get(step.Case)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		scene, err := build(cfg, st)
		if err != nil {
			return results, fmt.Errorf("step %d build: %w", i+1, err)
		}

		runner := cases.NewRunner(scene)
		result, err := runner.Run(ctx, cfg.Steps, cfg.RecordEvery)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		runID, err := st.Save(cfg.Case, cfg.Seed, result.Steps, scene.Fluid.Particles.TotalReal, result.Series, result.Finals)
		if err != nil {
			return results, fmt.Errorf("step %d save: %w", i+1, err)
		}
		if err := st.SaveSnapshot(runID, scene.TakeSnapshot()); err != nil {
			return results, fmt.Errorf("step %d save: %w", i+1, err)
		}

		if step.SaveAs != "" {
			labels[step.SaveAs] = runID
		}
		results = append(results, StepResult{
			Label:  step.SaveAs,
			RunID:  runID,
			Steps:  result.Steps,
			Finals: result.Finals,
		})
	}

	return results, nil
}

// stepConfig assembles the config for one step: preset, then overrides,
// then the explicit scalar fields, then reload label resolution.
func stepConfig(step ScenarioStep, labels map[string]string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		pc := config.GetPreset(step.Case, step.Preset)
		if pc == nil {
			return nil, fmt.Errorf("unknown preset %q for case %s", step.Preset, step.Case)
		}
		copied := *pc
		cfg = &copied
	}
	cfg.Case = step.Case

	keys := make([]string, 0, len(step.Overrides))
	for k := range step.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := cfg.SetParam(k, step.Overrides[k]); err != nil {
			return nil, err
		}
	}

	if step.Steps > 0 {
		cfg.Steps = step.Steps
	}
	if step.RecordEvery > 0 {
		cfg.RecordEvery = step.RecordEvery
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Reload != "" {
		if runID, ok := labels[step.Reload]; ok {
			cfg.Reload = runID
		} else {
			cfg.Reload = step.Reload
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
