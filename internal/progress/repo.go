package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/pkg"

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

func (r *Repo) LoadCompletions(ctx context.Context, userID int) (_ []CompletionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.completions.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, workout_id, completed_at
			FROM workout_completion WHERE user_id = $1
			ORDER BY completed_at, id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CompletionRecord
	for rows.Next() {
		var record CompletionRecord
		if err := rows.Scan(&record.ID, &record.UserID, &record.WorkoutID, &record.CompletedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("completions.count", len(records)))
	return records, nil
}

// AppendCompletion writes one completion record. The unique
// (user_id, workout_id) constraint turns a duplicate into
// ErrAlreadyCompleted, which also resolves concurrent requests racing
// on the same pair.
func (r *Repo) AppendCompletion(ctx context.Context, record CompletionRecord) (_ *CompletionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.completions.append")
	defer func() {
		if !errors.Is(err, ErrAlreadyCompleted) {
			tracing.EndSpanWithErrCheck(span, err)
		} else {
			span.End()
		}
	}()
	span.SetAttributes(
		attribute.Int("user.id", record.UserID),
		attribute.String("workout.id", record.WorkoutID),
	)

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_completion (user_id, workout_id, completed_at)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		record.UserID, record.WorkoutID, record.CompletedAt,
	).Scan(&id)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrAlreadyCompleted
		}
		return nil, err
	}

	record.ID = id
	return &record, nil
}

