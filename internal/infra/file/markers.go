package file

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"logicquest/internal/domain"
)

// ResumeStore is the one-shot resume marker: a single index line, emptied once read.
type ResumeStore struct {
	path string
	mu   sync.Mutex
}

func NewResumeStore(path string) *ResumeStore {
	return &ResumeStore{path: path}
}

func (s *ResumeStore) LoadResumeIndex(_ context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := readLines(s.path)
	if err != nil {
		return 0, false, fmt.Errorf("read resume marker: %w", err)
	}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return 0, false, nil
	}
	if err := writeAtomic(s.path, nil); err != nil {
		return 0, false, fmt.Errorf("clear resume marker: %w", err)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return 0, false, fmt.Errorf("%w: resume marker %q", domain.ErrMalformedRecord, lines[0])
	}
	return idx, true, nil
}

func (s *ResumeStore) SetResumeIndex(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.path, joinLines([]string{strconv.Itoa(index)})); err != nil {
		return fmt.Errorf("write resume marker: %w", err)
	}
	return nil
}

// UserMarker stores the signed-in username on one line.
type UserMarker struct {
	path string
	mu   sync.Mutex
}

func NewUserMarker(path string) *UserMarker {
	return &UserMarker{path: path}
}

// CurrentUser returns the guest name when nobody signed in yet.
func (m *UserMarker) CurrentUser(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines, err := readLines(m.path)
	if err != nil {
		return domain.GuestName, fmt.Errorf("read current user: %w", err)
	}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return domain.GuestName, nil
	}
	return strings.TrimSpace(lines[0]), nil
}

func (m *UserMarker) SetCurrentUser(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := writeAtomic(m.path, joinLines([]string{username})); err != nil {
		return fmt.Errorf("write current user: %w", err)
	}
	return nil
}
