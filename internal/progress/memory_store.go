package progress

import (
	"context"
	"sync"

	"github.com/barefootreset/backend/internal/badges"
)

// MemoryStore is the explicit fallback store used when postgres is
// unreachable at startup and the config allows running degraded. Data
// lives for the process lifetime only.
type MemoryStore struct {
	mutex       sync.RWMutex
	completions []CompletionRecord
	unlocks     []badges.UnlockRecord
	nextID      int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
	}
}

func (s *MemoryStore) LoadCompletions(_ context.Context, userID int) ([]CompletionRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var records []CompletionRecord
	for _, r := range s.completions {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (s *MemoryStore) AppendCompletion(_ context.Context, record CompletionRecord) (*CompletionRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, r := range s.completions {
		if r.UserID == record.UserID && r.WorkoutID == record.WorkoutID {
			return nil, ErrAlreadyCompleted
		}
	}

	record.ID = s.nextID
	s.nextID++
	s.completions = append(s.completions, record)
	return &record, nil
}

func (s *MemoryStore) LoadUnlocks(_ context.Context, userID int) ([]badges.UnlockRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var records []badges.UnlockRecord
	for _, u := range s.unlocks {
		if u.UserID == userID {
			records = append(records, u)
		}
	}
	return records, nil
}

func (s *MemoryStore) UnlockedBadgeIDs(_ context.Context, userID int) (map[string]bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := make(map[string]bool)
	for _, u := range s.unlocks {
		if u.UserID == userID {
			ids[u.BadgeID] = true
		}
	}
	return ids, nil
}

func (s *MemoryStore) AppendUnlocks(_ context.Context, records []badges.UnlockRecord) ([]badges.UnlockRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var saved []badges.UnlockRecord
	for _, record := range records {
		alreadyUnlocked := false
		for _, u := range s.unlocks {
			if u.UserID == record.UserID && u.BadgeID == record.BadgeID {
				alreadyUnlocked = true
				break
			}
		}
		if alreadyUnlocked {
			continue
		}
		record.ID = s.nextID
		s.nextID++
		s.unlocks = append(s.unlocks, record)
		saved = append(saved, record)
	}
	return saved, nil
}
