package file

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"logicquest/internal/domain"
)

// ScoreStore keeps the score record as alternating name and score lines.
type ScoreStore struct {
	path string
	mu   sync.Mutex
}

func NewScoreStore(path string) *ScoreStore {
	return &ScoreStore{path: path}
}

// MergeScore keeps the higher of the stored and the new score for username.
func (s *ScoreStore) MergeScore(_ context.Context, username string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	found := false
	for i := range entries {
		if entries[i].Username != username {
			continue
		}
		found = true
		if score > entries[i].Score {
			entries[i].Score = score
		}
		break
	}
	if !found {
		entries = append(entries, domain.ScoreEntry{Username: username, Score: score})
	}

	lines := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		lines = append(lines, e.Username, strconv.Itoa(e.Score))
	}
	if err := writeAtomic(s.path, joinLines(lines)); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return nil
}

// Scores returns the record in file order. A missing file is an empty record.
func (s *ScoreStore) Scores(_ context.Context) ([]domain.ScoreEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *ScoreStore) read() ([]domain.ScoreEntry, error) {
	lines, err := readLines(s.path)
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	var nonBlank []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonBlank = append(nonBlank, strings.TrimSpace(l))
		}
	}
	if len(nonBlank)%2 != 0 {
		return nil, fmt.Errorf("%w: %s has a name without a score", domain.ErrMalformedRecord, s.path)
	}
	entries := make([]domain.ScoreEntry, 0, len(nonBlank)/2)
	for i := 0; i < len(nonBlank); i += 2 {
		score, err := strconv.Atoi(nonBlank[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: score %q for %s", domain.ErrMalformedRecord, nonBlank[i+1], nonBlank[i])
		}
		entries = append(entries, domain.ScoreEntry{Username: nonBlank[i], Score: score})
	}
	return entries, nil
}
