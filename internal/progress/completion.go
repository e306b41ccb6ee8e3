package progress

import (
	"errors"
	"time"
)

// ErrAlreadyCompleted rejects a repeated completion of the same workout
// by the same user. The storage uniqueness constraint is the authority,
// any in-memory check is a courtesy only.
var ErrAlreadyCompleted = errors.New("workout already completed")

// CompletionRecord is one user finishing one workout. Append-only, at
// most one record per (user, workout) pair.
type CompletionRecord struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	WorkoutID   string    `json:"workoutId"`
	CompletedAt time.Time `json:"completedAt"`
}
