package progress

import "math"

// CompletedCount is the size of the user's distinct completed-workout set.
func CompletedCount(records []CompletionRecord, userID int) int {
	distinct := make(map[string]bool)
	for _, r := range records {
		if r.UserID == userID {
			distinct[r.WorkoutID] = true
		}
	}
	return len(distinct)
}

// CompletedWorkoutIDs is the user's distinct completed-workout set.
func CompletedWorkoutIDs(records []CompletionRecord, userID int) map[string]bool {
	distinct := make(map[string]bool)
	for _, r := range records {
		if r.UserID == userID {
			distinct[r.WorkoutID] = true
		}
	}
	return distinct
}

// PercentComplete is round(100 * completed / total), 0 for an empty catalog.
func PercentComplete(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
