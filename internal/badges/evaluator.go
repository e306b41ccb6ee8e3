package badges

import (
	"strconv"
	"strings"
	"time"

	"github.com/barefootreset/backend/internal/workouts"

	log "github.com/sirupsen/logrus"
)

// EvaluateParams is the state snapshot one evaluation runs against.
type EvaluateParams struct {
	UserID              int
	CompletedWorkoutIDs map[string]bool
	UnlockedBadgeIDs    map[string]bool
	Streak              int
	Catalog             []workouts.Workout
	Definitions         []Definition
	Now                 time.Time
}

// EvaluateUnlocks returns the newly-to-unlock records only, in definition
// order. Already-unlocked badges are filtered up front, so running the
// evaluation twice against the same state emits nothing the second time.
// Persistence is the caller's responsibility.
func EvaluateUnlocks(params EvaluateParams) []UnlockRecord {
	var newUnlocks []UnlockRecord
	for _, def := range params.Definitions {
		if params.UnlockedBadgeIDs[def.ID] {
			continue
		}

		var unlock bool
		switch def.Condition.Kind {
		case ConditionCount:
			unlock = len(params.CompletedWorkoutIDs) >= def.Condition.Threshold
		case ConditionStreak:
			unlock = params.Streak >= def.Condition.Threshold
		case ConditionSpecific:
			unlock = allCompleted(
				resolveTarget(def.Condition.Target, params.Catalog),
				params.CompletedWorkoutIDs,
			)
		default:
			// unknown kinds fail closed, badge catalogs may evolve
			log.Warnf("badge %s: unknown condition kind %q", def.ID, def.Condition.Kind)
		}

		if unlock {
			newUnlocks = append(newUnlocks, UnlockRecord{
				UserID:     params.UserID,
				BadgeID:    def.ID,
				UnlockedAt: params.Now,
			})
		}
	}
	return newUnlocks
}

// allCompleted reports whether every workout in the target set is completed.
// An empty target set never satisfies the condition.
func allCompleted(targetIDs []string, completed map[string]bool) bool {
	if len(targetIDs) == 0 {
		return false
	}
	for _, id := range targetIDs {
		if !completed[id] {
			return false
		}
	}
	return true
}

// resolveTarget maps a specific-condition target to concrete workout ids.
// Supported forms: "phase:<phase>", "week:<n>", "focus:<substring>" and
// "ids:<id,id,...>". Unresolvable targets yield an empty set.
func resolveTarget(target string, catalog []workouts.Workout) []string {
	scheme, value, found := strings.Cut(target, ":")
	if !found {
		log.Warnf("badge target %q: missing scheme", target)
		return nil
	}

	var ids []string
	switch scheme {
	case "phase":
		phase := workouts.Phase(value)
		if !phase.Valid() {
			log.Warnf("badge target %q: unknown phase", target)
			return nil
		}
		for _, w := range catalog {
			if w.Phase == phase {
				ids = append(ids, w.ID)
			}
		}
	case "week":
		week, err := strconv.Atoi(value)
		if err != nil {
			log.Warnf("badge target %q: bad week: %s", target, err)
			return nil
		}
		for _, w := range catalog {
			if w.Week == week {
				ids = append(ids, w.ID)
			}
		}
	case "focus":
		needle := strings.ToLower(value)
		for _, w := range catalog {
			if strings.Contains(strings.ToLower(w.Focus), needle) {
				ids = append(ids, w.ID)
			}
		}
	case "ids":
		inCatalog := make(map[string]bool, len(catalog))
		for _, w := range catalog {
			inCatalog[w.ID] = true
		}
		for _, id := range strings.Split(value, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if !inCatalog[id] {
				log.Warnf("badge target %q: workout %q not in catalog", target, id)
				return nil
			}
			ids = append(ids, id)
		}
	default:
		log.Warnf("badge target %q: unknown scheme %q", target, scheme)
		return nil
	}

	return ids
}
