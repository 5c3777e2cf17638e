package file

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"logicquest/internal/domain"
)

// ProgressStore keeps one "name:level" line per user.
type ProgressStore struct {
	path string
	mu   sync.Mutex
}

func NewProgressStore(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

type progressLine struct {
	name  string
	level int
}

// SaveProgress records index for username unless a higher level is already stored.
func (s *ProgressStore) SaveProgress(_ context.Context, username string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	found := false
	for i := range records {
		if records[i].name == username {
			found = true
			if index > records[i].level {
				records[i].level = index
			}
			break
		}
	}
	if !found {
		records = append(records, progressLine{name: username, level: index})
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.name+":"+strconv.Itoa(r.level))
	}
	if err := writeAtomic(s.path, joinLines(lines)); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) Progress(_ context.Context, username string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return 0, false, err
	}
	for _, r := range records {
		if r.name == username {
			return r.level, true, nil
		}
	}
	return 0, false, nil
}

func (s *ProgressStore) read() ([]progressLine, error) {
	lines, err := readLines(s.path)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	var out []progressLine
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		// names may contain ':'; the level is after the last one
		i := strings.LastIndex(l, ":")
		if i < 0 {
			return nil, fmt.Errorf("%w: progress line %q", domain.ErrMalformedRecord, l)
		}
		level, err := strconv.Atoi(strings.TrimSpace(l[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("%w: progress line %q", domain.ErrMalformedRecord, l)
		}
		out = append(out, progressLine{name: l[:i], level: level})
	}
	return out, nil
}
