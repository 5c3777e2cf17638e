package bank

import (
	"fmt"
	"strings"

	"logicquest/internal/domain"
)

// Bank is an immutable, index-addressable sequence of questions.
type Bank struct {
	questions []domain.Question
}

// New validates questions and returns a bank that owns a copy of them.
func New(questions []domain.Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", domain.ErrDataset)
	}
	owned := make([]domain.Question, len(questions))
	for i, q := range questions {
		if err := validate(i, q); err != nil {
			return nil, err
		}
		q.Options = append([]string(nil), q.Options...)
		owned[i] = q
	}
	return &Bank{questions: owned}, nil
}

func validate(i int, q domain.Question) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %d has %d options, need at least 2", domain.ErrDataset, i+1, len(q.Options))
	}
	if q.Difficulty <= 0 {
		return fmt.Errorf("%w: question %d has non-positive difficulty %d", domain.ErrDataset, i+1, q.Difficulty)
	}
	for _, opt := range q.Options {
		if !storableLine(opt) {
			return fmt.Errorf("%w: question %d option %q must be a non-empty single line", domain.ErrDataset, i+1, opt)
		}
	}
	if !q.HasOption(q.Answer) {
		return fmt.Errorf("%w: %w: question %d answer %q", domain.ErrDatasetMismatch, domain.ErrAnswerNotInOptions, i+1, q.Answer)
	}
	return nil
}

// storableLine reports whether s survives the line-oriented dataset format unchanged.
func storableLine(s string) bool {
	return s != "" && strings.TrimSpace(s) == s && !strings.ContainsAny(s, "\r\n")
}

// Len returns the number of questions; always at least one.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Get returns question i. Callers normalize cycling indexes with Wrap first.
func (b *Bank) Get(i int) (domain.Question, error) {
	if i < 0 || i >= len(b.questions) {
		return domain.Question{}, fmt.Errorf("%w: %d (bank has %d)", domain.ErrIndexOutOfRange, i, len(b.questions))
	}
	q := b.questions[i]
	q.Options = append([]string(nil), q.Options...)
	return q, nil
}

// Wrap maps any integer onto a valid index, so the question sequence is circular.
func (b *Bank) Wrap(i int) int {
	n := len(b.questions)
	return ((i % n) + n) % n
}

// Questions returns a copy of all questions in order.
func (b *Bank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	for i := range b.questions {
		out[i], _ = b.Get(i)
	}
	return out
}

// Append returns a new bank with q added at the end. b is unchanged.
func Append(b *Bank, q domain.Question) (*Bank, error) {
	questions := b.Questions()
	questions = append(questions, q)
	return New(questions)
}
