package domain

import (
	"fmt"
	"strings"
)

// Mode selects which variant of the quiz a session runs.
type Mode int

const (
	ModePractice Mode = iota
	ModeTimed
	ModeInstructor
)

// ModePolicy expresses per-mode behavior as data so one engine serves all modes.
type ModePolicy struct {
	ScoresOnCorrect     bool // add the question's difficulty to the score
	AdvanceOnCorrect    bool // a correct drop moves to the next question immediately
	NextRequiresCorrect bool // Next is only accepted after a correct drop
	AllowsPrev          bool
	AllowsAuthoring     bool // add question and show/hide answer
	Timed               bool
	ResumesProgress     bool // consume the resume marker at start
}

var policies = map[Mode]ModePolicy{
	ModePractice: {
		NextRequiresCorrect: true,
		ResumesProgress:     true,
	},
	ModeTimed: {
		ScoresOnCorrect:  true,
		AdvanceOnCorrect: true,
		Timed:            true,
	},
	ModeInstructor: {
		AllowsPrev:      true,
		AllowsAuthoring: true,
	},
}

// Policy returns the behavior table for the mode.
func (m Mode) Policy() ModePolicy {
	return policies[m]
}

func (m Mode) String() string {
	switch m {
	case ModePractice:
		return "practice"
	case ModeTimed:
		return "timed"
	case ModeInstructor:
		return "instructor"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title is the human-facing screen title for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeTimed:
		return "Lightning Mode"
	case ModeInstructor:
		return "Instructor Mode"
	default:
		return "Training Mode"
	}
}

// ParseMode accepts the mode names used on the command line.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "practice", "training", "":
		return ModePractice, nil
	case "timed", "lightning":
		return ModeTimed, nil
	case "instructor":
		return ModeInstructor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}
