package app

import (
	"context"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
)

// BankRepository loads question banks (from files, Postgres, or a cache in front of them).
type BankRepository interface {
	GetBank(ctx context.Context, datasetID string) (*bank.Bank, error)
}

// BankInvalidator is implemented by caching repositories that must forget a dataset after it changes.
type BankInvalidator interface {
	Invalidate(datasetID string)
}

// DatasetWriter appends authored questions to a dataset.
type DatasetWriter interface {
	AppendQuestion(ctx context.Context, datasetID string, q domain.Question) error
}

// ProgressStore persists the highest question index reached per user. Writes max-merge.
type ProgressStore interface {
	SaveProgress(ctx context.Context, username string, index int) error
	Progress(ctx context.Context, username string) (int, bool, error)
}

// ScoreStore persists the highest score per user. Writes max-merge.
type ScoreStore interface {
	MergeScore(ctx context.Context, username string, score int) error
	Scores(ctx context.Context) ([]domain.ScoreEntry, error)
}

// ResumeStore holds a one-shot pending question index.
type ResumeStore interface {
	// LoadResumeIndex returns the pending index and clears it.
	LoadResumeIndex(ctx context.Context) (int, bool, error)
	SetResumeIndex(ctx context.Context, index int) error
}

// UserMarker records the signed-in user for the gameplay screens.
type UserMarker interface {
	CurrentUser(ctx context.Context) (string, error)
	SetCurrentUser(ctx context.Context, username string) error
}

// Accounts checks sign-in credentials.
type Accounts interface {
	Authenticate(ctx context.Context, username, key string) (domain.Role, error)
}
