package onboarding

import (
	"context"
	"errors"

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

func (r *Repo) Upsert(ctx context.Context, profile Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athleteProfile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", profile.UserID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO athlete_profile
				(user_id, name, age_bracket, sport, season, goal, foot_history, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id) DO UPDATE SET
				name = EXCLUDED.name,
				age_bracket = EXCLUDED.age_bracket,
				sport = EXCLUDED.sport,
				season = EXCLUDED.season,
				goal = EXCLUDED.goal,
				foot_history = EXCLUDED.foot_history,
				updated_at = EXCLUDED.updated_at;`,
		profile.UserID, profile.Name, profile.AgeBracket, profile.Sport,
		profile.Season, profile.Goal, profile.FootHistory, profile.UpdatedAt,
	)
	return err
}

func (r *Repo) Get(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.athleteProfile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var profile Profile
	err = r.db.QueryRow(
		ctx,
		`SELECT user_id, name, age_bracket, sport, season, goal, foot_history, updated_at
			FROM athlete_profile WHERE user_id = $1;`,
		userID,
	).Scan(
		&profile.UserID, &profile.Name, &profile.AgeBracket, &profile.Sport,
		&profile.Season, &profile.Goal, &profile.FootHistory, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}
