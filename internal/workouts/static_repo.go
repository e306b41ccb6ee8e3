package workouts

import (
	"context"
)

// StaticRepo serves the catalog straight from a seed slice, without any
// storage behind it. It backs the degraded mode where postgres is
// unreachable at startup and the config allows booting anyway.
type StaticRepo struct {
	list []Workout
	byID map[string]Workout
}

func NewStaticRepo(list []Workout) *StaticRepo {
	byID := make(map[string]Workout, len(list))
	for _, w := range list {
		byID[w.ID] = w
	}
	return &StaticRepo{
		list: list,
		byID: byID,
	}
}

func (r *StaticRepo) List(_ context.Context) ([]Workout, error) {
	listCopy := make([]Workout, len(r.list))
	copy(listCopy, r.list)
	return listCopy, nil
}

func (r *StaticRepo) Get(_ context.Context, id string) (*Workout, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	return &w, nil
}
