package memory

import (
	"context"
	"sync"

	"logicquest/internal/domain"
)

// ProgressStore is an in-memory max-merge progress record.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[string]int
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: make(map[string]int)}
}

func (s *ProgressStore) SaveProgress(_ context.Context, username string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.progress[username]; !ok || index > cur {
		s.progress[username] = index
	}
	return nil
}

func (s *ProgressStore) Progress(_ context.Context, username string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.progress[username]
	return idx, ok, nil
}

// ScoreStore is an in-memory max-merge score record.
type ScoreStore struct {
	mu     sync.RWMutex
	order  []string
	scores map[string]int
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{scores: make(map[string]int)}
}

func (s *ScoreStore) MergeScore(_ context.Context, username string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.scores[username]
	if !ok {
		s.order = append(s.order, username)
	}
	if !ok || score > cur {
		s.scores[username] = score
	}
	return nil
}

func (s *ScoreStore) Scores(_ context.Context) ([]domain.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScoreEntry, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, domain.ScoreEntry{Username: name, Score: s.scores[name]})
	}
	return out, nil
}

// ResumeStore holds a one-shot resume index.
type ResumeStore struct {
	mu    sync.Mutex
	index int
	set   bool
}

func NewResumeStore() *ResumeStore {
	return &ResumeStore{}
}

func (s *ResumeStore) LoadResumeIndex(_ context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index, s.set
	s.index, s.set = 0, false
	return idx, ok, nil
}

func (s *ResumeStore) SetResumeIndex(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index, s.set = index, true
	return nil
}

// UserMarker remembers the signed-in user.
type UserMarker struct {
	mu   sync.RWMutex
	user string
}

func NewUserMarker(initial string) *UserMarker {
	return &UserMarker{user: initial}
}

func (m *UserMarker) CurrentUser(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, nil
}

func (m *UserMarker) SetCurrentUser(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = username
	return nil
}
