package onboarding

import (
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("athlete profile not found")

// Profile is the onboarding survey result, one row per user, saved as
// a whole via upsert.
type Profile struct {
	UserID      int       `json:"userId"`
	Name        string    `json:"name"`
	AgeBracket  string    `json:"ageBracket"`
	Sport       string    `json:"sport"`
	Season      string    `json:"season"`
	Goal        string    `json:"goal"`
	FootHistory string    `json:"footHistory"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p Profile) Validate() error {
	if p.UserID <= 0 {
		return errors.New("profile user id invalid")
	}
	if p.Name == "" {
		return errors.New("profile name empty")
	}
	if p.AgeBracket == "" {
		return errors.New("profile age bracket empty")
	}
	return nil
}
