package badges

import (
	"context"
	"fmt"

	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type UnlocksRepo struct {
	db *pgxpool.Pool
}

func NewUnlocksRepo(db *pgxpool.Pool) *UnlocksRepo {
	return &UnlocksRepo{
		db: db,
	}
}

func (r *UnlocksRepo) LoadUnlocks(ctx context.Context, userID int) (_ []UnlockRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.badgeUnlocks.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, badge_id, unlocked_at
			FROM badge_unlock WHERE user_id = $1
			ORDER BY id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []UnlockRecord
	for rows.Next() {
		var u UnlockRecord
		if err := rows.Scan(&u.ID, &u.UserID, &u.BadgeID, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		unlocks = append(unlocks, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return unlocks, nil
}

func (r *UnlocksRepo) UnlockedBadgeIDs(ctx context.Context, userID int) (map[string]bool, error) {
	unlocks, err := r.LoadUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		ids[u.BadgeID] = true
	}
	return ids, nil
}

// AppendUnlocks persists new unlock records as a best-effort batch: a
// failed record does not stop the rest, and every failure is reported
// back in the combined error. A record hitting the (user_id, badge_id)
// uniqueness constraint was unlocked by a concurrent request and is
// skipped without an error.
func (r *UnlocksRepo) AppendUnlocks(ctx context.Context, records []UnlockRecord) (saved []UnlockRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.badgeUnlocks.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("unlocks.count", len(records)))

	var appendErr error
	for _, record := range records {
		var id int
		insertErr := r.db.QueryRow(
			ctx,
			`INSERT INTO badge_unlock (user_id, badge_id, unlocked_at)
				VALUES ($1, $2, $3)
			RETURNING id;`,
			record.UserID, record.BadgeID, record.UnlockedAt,
		).Scan(&id)
		if insertErr != nil {
			if pkg.IsUniqueViolationError(insertErr) {
				continue
			}
			appendErr = multierr.Append(appendErr,
				fmt.Errorf("append unlock %s for user %d: %w", record.BadgeID, record.UserID, insertErr),
			)
			continue
		}
		record.ID = id
		saved = append(saved, record)
	}

	return saved, appendErr
}
