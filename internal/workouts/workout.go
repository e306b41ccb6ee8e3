package workouts

import "errors"

var ErrWorkoutNotFound = errors.New("workout not found")

// Phase groups workouts into the three program stages.
type Phase string

const (
	PhaseFoundation  Phase = "foundation"
	PhaseProgression Phase = "progression"
	PhaseMastery     Phase = "mastery"
)

// PhaseOrder is the program ordering of phases.
var PhaseOrder = []Phase{PhaseFoundation, PhaseProgression, PhaseMastery}

func (p Phase) Valid() bool {
	return p == PhaseFoundation || p == PhaseProgression || p == PhaseMastery
}

type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StepType    string `json:"stepType,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty"`
}

// Workout is immutable reference data, created by catalog seeding only.
type Workout struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"` // minutes
	VideoURL    string `json:"videoUrl,omitempty"`
	Week        int    `json:"week"`
	Day         int    `json:"day"`
	Focus       string `json:"focus"`
	Phase       Phase  `json:"phase"`
	Steps       []Step `json:"steps"`
}

func (w Workout) Validate() error {
	if w.ID == "" {
		return errors.New("workout id empty")
	}
	if w.Title == "" {
		return errors.New("workout title empty")
	}
	if w.Duration <= 0 {
		return errors.New("workout duration must be positive")
	}
	if w.Week <= 0 || w.Day <= 0 {
		return errors.New("workout week and day must be positive")
	}
	if !w.Phase.Valid() {
		return errors.New("workout phase invalid")
	}
	return nil
}
