package badges

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Registry holds the badge reference data, loaded from a seed file at
// startup and never mutated afterwards.
type Registry struct {
	defs []Definition
	byID map[string]Definition
}

func NewRegistry(defs []Definition) (*Registry, error) {
	byID := make(map[string]Definition, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("badge %q: %w", d.ID, err)
		}
		if _, ok := byID[d.ID]; ok {
			return nil, fmt.Errorf("badge %q: duplicate id", d.ID)
		}
		byID[d.ID] = d
	}
	return &Registry{
		defs: defs,
		byID: byID,
	}, nil
}

func NewRegistryFromSeedFile(path string) (*Registry, error) {
	seedBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var defs []Definition
	if err := json.Unmarshal(seedBytes, &defs); err != nil {
		return nil, fmt.Errorf("unmarshal seed file: %w", err)
	}

	registry, err := NewRegistry(defs)
	if err != nil {
		return nil, err
	}

	log.Debugf("badge registry loaded, %d badges", len(defs))
	return registry, nil
}

// All returns the definitions in seed order.
func (r *Registry) All() []Definition {
	return r.defs
}

func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.byID[id]
	if !ok {
		return Definition{}, ErrBadgeNotFound
	}
	return d, nil
}
