package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/barefootreset/backend/internal/badges"
	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=progress_test

type completionsStore interface {
	LoadCompletions(ctx context.Context, userID int) ([]CompletionRecord, error)
	AppendCompletion(ctx context.Context, record CompletionRecord) (*CompletionRecord, error)
}

type unlocksStore interface {
	UnlockedBadgeIDs(ctx context.Context, userID int) (map[string]bool, error)
	AppendUnlocks(ctx context.Context, records []badges.UnlockRecord) ([]badges.UnlockRecord, error)
}

type catalogProvider interface {
	List(ctx context.Context) ([]workouts.Workout, error)
}

// CompletionResult is the pipeline output for one completed workout.
type CompletionResult struct {
	Record           CompletionRecord      `json:"record"`
	Streak           int                   `json:"streak"`
	CompletedCount   int                   `json:"completedCount"`
	TotalCount       int                   `json:"totalCount"`
	PercentComplete  int                   `json:"percentComplete"`
	NewUnlocks       []badges.UnlockRecord `json:"newUnlocks"`
	UnlockSaveFailed bool                  `json:"unlockSaveFailed,omitempty"`
}

// Summary is the dashboard state for one user.
type Summary struct {
	Streak          int               `json:"streak"`
	CompletedCount  int               `json:"completedCount"`
	TotalCount      int               `json:"totalCount"`
	PercentComplete int               `json:"percentComplete"`
	NextWorkout     *workouts.Workout `json:"nextWorkout"`
}

// PhaseState is the timeline standing of one program phase.
type PhaseState string

const (
	PhaseStateLocked    PhaseState = "locked"
	PhaseStateActive    PhaseState = "active"
	PhaseStateCompleted PhaseState = "completed"
)

type TimelineWorkout struct {
	workouts.Workout
	Completed bool `json:"completed"`
}

type PhaseProgress struct {
	Phase           workouts.Phase    `json:"phase"`
	State           PhaseState        `json:"state"`
	CompletedCount  int               `json:"completedCount"`
	TotalCount      int               `json:"totalCount"`
	PercentComplete int               `json:"percentComplete"`
	Workouts        []TimelineWorkout `json:"workouts"`
}

// Tracker runs the completion pipeline and derives progress views.
// The pipeline for one completion is strictly ordered: record, then
// streak and progress recomputation, then badge evaluation, then unlock
// persistence, because badge evaluation depends on the post-completion
// state.
type Tracker struct {
	completions completionsStore
	unlocks     unlocksStore
	catalog     catalogProvider
	registry    *badges.Registry
	// injectable clock for deterministic tests
	NowFunc func() time.Time
}

func NewTracker(
	completions completionsStore,
	unlocks unlocksStore,
	catalog catalogProvider,
	registry *badges.Registry,
) *Tracker {
	return &Tracker{
		completions: completions,
		unlocks:     unlocks,
		catalog:     catalog,
		registry:    registry,
		NowFunc:     time.Now,
	}
}

func (t *Tracker) Complete(ctx context.Context, userID int, workoutID string) (_ *CompletionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressTracker.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("workout.id", workoutID),
	)

	catalog, err := t.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	inCatalog := false
	for _, w := range catalog {
		if w.ID == workoutID {
			inCatalog = true
			break
		}
	}
	if !inCatalog {
		return nil, workouts.ErrWorkoutNotFound
	}

	now := t.NowFunc()
	record, err := t.completions.AppendCompletion(ctx, CompletionRecord{
		UserID:      userID,
		WorkoutID:   workoutID,
		CompletedAt: now,
	})
	if err != nil {
		// ErrAlreadyCompleted passes through to the caller
		return nil, err
	}

	records, err := t.completions.LoadCompletions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	streak := ComputeStreak(records, userID, now)
	completed := CompletedCount(records, userID)
	percent := PercentComplete(completed, len(catalog))

	unlockedIDs, err := t.unlocks.UnlockedBadgeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load unlocked badge ids: %w", err)
	}

	newUnlocks := badges.EvaluateUnlocks(badges.EvaluateParams{
		UserID:              userID,
		CompletedWorkoutIDs: CompletedWorkoutIDs(records, userID),
		UnlockedBadgeIDs:    unlockedIDs,
		Streak:              streak,
		Catalog:             catalog,
		Definitions:         t.registry.All(),
		Now:                 now,
	})

	result := &CompletionResult{
		Record:          *record,
		Streak:          streak,
		CompletedCount:  completed,
		TotalCount:      len(catalog),
		PercentComplete: percent,
		NewUnlocks:      []badges.UnlockRecord{},
	}

	if len(newUnlocks) > 0 {
		saved, saveErr := t.unlocks.AppendUnlocks(ctx, newUnlocks)
		if saved != nil {
			result.NewUnlocks = saved
		}
		if saveErr != nil {
			// the completion itself is durable, report the failed
			// unlock writes instead of dropping them silently
			log.Errorf("append unlocks for user %d: %s", userID, saveErr)
			result.UnlockSaveFailed = true
		}
	}

	span.SetAttributes(
		attribute.Int("progress.streak", streak),
		attribute.Int("badges.newUnlocks", len(result.NewUnlocks)),
	)
	return result, nil
}

func (t *Tracker) Summary(ctx context.Context, userID int) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressTracker.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	catalog, err := t.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	records, err := t.completions.LoadCompletions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	completed := CompletedCount(records, userID)
	return &Summary{
		Streak:          ComputeStreak(records, userID, t.NowFunc()),
		CompletedCount:  completed,
		TotalCount:      len(catalog),
		PercentComplete: PercentComplete(completed, len(catalog)),
		NextWorkout:     nextWorkout(catalog, CompletedWorkoutIDs(records, userID)),
	}, nil
}

func (t *Tracker) NextWorkout(ctx context.Context, userID int) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressTracker.nextWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	catalog, err := t.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	records, err := t.completions.LoadCompletions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	return nextWorkout(catalog, CompletedWorkoutIDs(records, userID)), nil
}

// nextWorkout is the first catalog workout, in program order, without a
// completion. Nil when the program is done.
func nextWorkout(catalog []workouts.Workout, completed map[string]bool) *workouts.Workout {
	for i := range catalog {
		if !completed[catalog[i].ID] {
			return &catalog[i]
		}
	}
	return nil
}

// Timeline groups the catalog by phase with per-phase progress. The
// first phase with unfinished workouts is active, later phases are
// locked, fully finished phases are completed.
func (t *Tracker) Timeline(ctx context.Context, userID int) (_ []PhaseProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressTracker.timeline")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	catalog, err := t.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	records, err := t.completions.LoadCompletions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	completed := CompletedWorkoutIDs(records, userID)

	byPhase := make(map[workouts.Phase][]TimelineWorkout)
	for _, w := range catalog {
		byPhase[w.Phase] = append(byPhase[w.Phase], TimelineWorkout{
			Workout:   w,
			Completed: completed[w.ID],
		})
	}

	timeline := make([]PhaseProgress, 0, len(workouts.PhaseOrder))
	activeSeen := false
	for _, phase := range workouts.PhaseOrder {
		phaseWorkouts := byPhase[phase]
		completedCount := 0
		for _, w := range phaseWorkouts {
			if w.Completed {
				completedCount++
			}
		}

		state := PhaseStateLocked
		switch {
		case len(phaseWorkouts) > 0 && completedCount == len(phaseWorkouts):
			state = PhaseStateCompleted
		case !activeSeen:
			state = PhaseStateActive
			activeSeen = true
		}

		if phaseWorkouts == nil {
			phaseWorkouts = []TimelineWorkout{}
		}
		timeline = append(timeline, PhaseProgress{
			Phase:           phase,
			State:           state,
			CompletedCount:  completedCount,
			TotalCount:      len(phaseWorkouts),
			PercentComplete: PercentComplete(completedCount, len(phaseWorkouts)),
			Workouts:        phaseWorkouts,
		})
	}

	return timeline, nil
}
