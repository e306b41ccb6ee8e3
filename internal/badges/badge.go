package badges

import (
	"errors"
	"fmt"
	"time"
)

var ErrBadgeNotFound = errors.New("badge not found")

type ConditionKind string

const (
	// total distinct completed workouts reaches the threshold
	ConditionCount ConditionKind = "count"
	// current consecutive-day streak reaches the threshold
	ConditionStreak ConditionKind = "streak"
	// every workout in the resolved target set is completed
	ConditionSpecific ConditionKind = "specific"
)

// Condition is a tagged variant: Threshold applies to count and streak,
// Target applies to specific.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold int           `json:"threshold,omitempty"`
	Target    string        `json:"target,omitempty"`
}

type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

func (t Tier) Valid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold:
		return true
	}
	return false
}

type Definition struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Emoji       string    `json:"emoji"`
	Tier        Tier      `json:"tier,omitempty"`
	Condition   Condition `json:"condition"`
}

func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.New("badge id empty")
	}
	if d.Title == "" {
		return errors.New("badge title empty")
	}
	if d.Tier != "" && !d.Tier.Valid() {
		return fmt.Errorf("unknown badge tier: %q", d.Tier)
	}
	switch d.Condition.Kind {
	case ConditionCount, ConditionStreak:
		if d.Condition.Threshold <= 0 {
			return fmt.Errorf("badge condition %s: threshold must be positive", d.Condition.Kind)
		}
	case ConditionSpecific:
		if d.Condition.Target == "" {
			return errors.New("badge condition specific: target empty")
		}
	default:
		return fmt.Errorf("unknown badge condition kind: %q", d.Condition.Kind)
	}
	return nil
}

// UnlockRecord marks one user earning one badge. Never deleted or
// overwritten, badges cannot be re-locked.
type UnlockRecord struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	BadgeID    string    `json:"badgeId"`
	UnlockedAt time.Time `json:"unlockedAt"`
}
