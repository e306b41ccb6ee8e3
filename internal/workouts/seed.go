package workouts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

type upserter interface {
	Upsert(ctx context.Context, workout Workout) error
}

// LoadSeedFile reads and validates a workout catalog seed file.
func LoadSeedFile(path string) ([]Workout, error) {
	seedBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var list []Workout
	if err := json.Unmarshal(seedBytes, &list); err != nil {
		return nil, fmt.Errorf("unmarshal seed file: %w", err)
	}

	seen := make(map[string]bool, len(list))
	for _, w := range list {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("workout %q: %w", w.ID, err)
		}
		if seen[w.ID] {
			return nil, fmt.Errorf("workout %q: duplicate id in seed", w.ID)
		}
		seen[w.ID] = true
	}

	return list, nil
}

// Seed upserts the catalog into storage.
func Seed(ctx context.Context, repo upserter, list []Workout) error {
	for _, w := range list {
		if err := repo.Upsert(ctx, w); err != nil {
			return fmt.Errorf("seed workout %q: %w", w.ID, err)
		}
	}
	log.Debugf("workout catalog seeded, %d workouts", len(list))
	return nil
}
