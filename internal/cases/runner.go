package cases

import (
	"context"
	"fmt"
	"time"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/storage"
)

// Result collects what a run produced: the recorded diagnostic series,
// the final metric values, and how far it got.
type Result struct {
	Series  *storage.Series
	Finals  map[string]float64
	Steps   int
	Elapsed time.Duration
}

// Runner drives a scene: it advances the clock exactly once per step,
// samples the metrics after each step, and stops on the first error or
// when the scene reports convergence.
type Runner struct {
	scene *Scene
	clock *engine.Clock
}

func NewRunner(scene *Scene) *Runner {
	return &Runner{scene: scene, clock: &scene.System.Clock}
}

func (r *Runner) Scene() *Scene        { return r.scene }
func (r *Runner) Clock() *engine.Clock { return r.clock }

// StepOnce advances the scene one step. Failures come back wrapped with
// the step index and physical time.
func (r *Runner) StepOnce(step int) error {
	dt, err := r.scene.Step()
	if err != nil {
		return &engine.StepError{Step: step, Time: r.clock.Time, Wrapped: err}
	}
	r.clock.Advance(dt)
	for _, m := range r.scene.Metrics {
		m.Observe(r.clock.Time)
	}
	return nil
}

func (r *Runner) Run(ctx context.Context, steps, recordEvery int) (*Result, error) {
	if steps <= 0 {
		return nil, &body.ConfigError{Field: "steps", Detail: fmt.Sprintf("got %d, want positive", steps)}
	}
	if recordEvery <= 0 {
		return nil, &body.ConfigError{Field: "record_every", Detail: fmt.Sprintf("got %d, want positive", recordEvery)}
	}

	for _, m := range r.scene.Metrics {
		m.Reset()
	}

	names := make([]string, 0, len(r.scene.Metrics))
	for _, m := range r.scene.Metrics {
		names = append(names, m.Name())
	}
	result := &Result{
		Series: &storage.Series{Names: names},
		Finals: make(map[string]float64),
	}

	start := time.Now()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if err := r.StepOnce(i); err != nil {
			result.Elapsed = time.Since(start)
			return result, err
		}
		result.Steps++

		if (i+1)%recordEvery == 0 {
			r.record(result.Series)
		}
		if r.scene.Done != nil && r.scene.Done() {
			break
		}
	}
	result.Elapsed = time.Since(start)

	for _, m := range r.scene.Metrics {
		result.Finals[m.Name()] = m.Value()
	}
	return result, nil
}

func (r *Runner) record(series *storage.Series) {
	row := make([]float64, 0, len(r.scene.Metrics))
	for _, m := range r.scene.Metrics {
		row = append(row, m.Value())
	}
	series.Times = append(series.Times, r.clock.Time)
	series.Rows = append(series.Rows, row)
}
