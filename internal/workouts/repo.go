package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/barefootreset/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert writes one catalog workout and replaces its steps.
func (r *Repo) Upsert(ctx context.Context, workout Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(
		ctx,
		`INSERT INTO workout
				(id, title, description, duration_min, video_url, week, day, focus, phase)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				duration_min = EXCLUDED.duration_min,
				video_url = EXCLUDED.video_url,
				week = EXCLUDED.week,
				day = EXCLUDED.day,
				focus = EXCLUDED.focus,
				phase = EXCLUDED.phase;`,
		workout.ID, workout.Title, workout.Description, workout.Duration,
		workout.VideoURL, workout.Week, workout.Day, workout.Focus, workout.Phase,
	)
	if err != nil {
		return fmt.Errorf("upsert workout: %w", err)
	}

	if _, err = tx.Exec(
		ctx,
		`DELETE FROM workout_step WHERE workout_id = $1;`,
		workout.ID,
	); err != nil {
		return fmt.Errorf("clear steps: %w", err)
	}

	for i, step := range workout.Steps {
		if _, err = tx.Exec(
			ctx,
			`INSERT INTO workout_step
				(workout_id, ord, title, description, step_type, media_url)
				VALUES ($1, $2, $3, $4, $5, $6);`,
			workout.ID, i, step.Title, step.Description, step.StepType, step.MediaURL,
		); err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

// List returns the whole catalog in program order (week, then day).
func (r *Repo) List(ctx context.Context) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, description, duration_min, video_url, week, day, focus, phase
			FROM workout
			ORDER BY week, day, id;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Workout
	byID := make(map[string]int)
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.Title, &w.Description, &w.Duration,
			&w.VideoURL, &w.Week, &w.Day, &w.Focus, &w.Phase,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		byID[w.ID] = len(list)
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stepRows, err := r.db.Query(
		ctx,
		`SELECT workout_id, title, description, step_type, media_url
			FROM workout_step
			ORDER BY workout_id, ord;`,
	)
	if err != nil {
		return nil, err
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var workoutID string
		var step Step
		if err := stepRows.Scan(
			&workoutID, &step.Title, &step.Description, &step.StepType, &step.MediaURL,
		); err != nil {
			return nil, fmt.Errorf("step rows scan: %w", err)
		}
		if i, ok := byID[workoutID]; ok {
			list[i].Steps = append(list[i].Steps, step)
		}
	}
	if err := stepRows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workouts.count", len(list)))
	return list, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	var w Workout
	err = r.db.QueryRow(
		ctx,
		`SELECT id, title, description, duration_min, video_url, week, day, focus, phase
			FROM workout WHERE id = $1;`,
		id,
	).Scan(
		&w.ID, &w.Title, &w.Description, &w.Duration,
		&w.VideoURL, &w.Week, &w.Day, &w.Focus, &w.Phase,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	stepRows, err := r.db.Query(
		ctx,
		`SELECT title, description, step_type, media_url
			FROM workout_step WHERE workout_id = $1
			ORDER BY ord;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var step Step
		if err := stepRows.Scan(&step.Title, &step.Description, &step.StepType, &step.MediaURL); err != nil {
			return nil, fmt.Errorf("step rows scan: %w", err)
		}
		w.Steps = append(w.Steps, step)
	}
	if err := stepRows.Err(); err != nil {
		return nil, err
	}

	return &w, nil
}
