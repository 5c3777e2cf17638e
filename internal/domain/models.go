package domain

import "time"

// Question is one quiz item. Answer is always one of Options.
type Question struct {
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Difficulty int      `json:"difficulty"` // score weight in timed mode
}

// HasOption reports whether label is one of the question's options.
func (q Question) HasOption(label string) bool {
	for _, opt := range q.Options {
		if opt == label {
			return true
		}
	}
	return false
}

// Outcome is the result of a single drag gesture.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomeWrong
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeWrong:
		return "wrong"
	default:
		return "none"
	}
}

// Feedback is what the session currently shows about the last drop.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "Correct"
	case FeedbackWrong:
		return "Wrong"
	default:
		return ""
	}
}

// Role is granted at sign-in.
type Role int

const (
	RolePlayer Role = iota
	RoleInstructor
)

// ScoreEntry is one row of the persisted score record.
type ScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Leaderboard is the ordered top-N view of the score record.
type Leaderboard struct {
	Entries   []ScoreEntry `json:"entries"`
	UpdatedAt time.Time    `json:"updatedAt,omitempty"`
}

// PlaceholderName fills empty leaderboard slots.
const PlaceholderName = "none"

// GuestName is the player identity used when nobody has signed in.
const GuestName = "guest"

// LeaderboardSize is the number of rows the leaderboard always shows.
const LeaderboardSize = 5
