package cases

import (
	"fmt"
	"sort"

	"github.com/resolventdk/gosph/internal/config"
	"github.com/resolventdk/gosph/internal/storage"
)

// BuildFunc turns a validated config into a runnable scene. The store
// is available for cases that reload a saved particle state.
type BuildFunc func(cfg *config.Config, st *storage.Store) (*Scene, error)

type Registry struct {
	cases map[string]BuildFunc
}

func NewRegistry() *Registry {
	r := &Registry{cases: make(map[string]BuildFunc)}
	r.cases["relaxation"] = buildRelaxation
	r.cases["channel"] = buildChannel
	return r
}

func (r *Registry) Get(name string) (BuildFunc, error) {
	fn, ok := r.cases[name]
	if !ok {
		return nil, fmt.Errorf("unknown case: %s", name)
	}
	return fn, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.cases))
	for name := range r.cases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
