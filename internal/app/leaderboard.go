package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"logicquest/internal/domain"
)

// TopScores orders entries by score (desc), then name, keeps n, and pads with placeholders.
func TopScores(entries []domain.ScoreEntry, n int) domain.Leaderboard {
	sorted := append([]domain.ScoreEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Username < sorted[j].Username
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	for len(sorted) < n {
		sorted = append(sorted, domain.ScoreEntry{Username: domain.PlaceholderName, Score: 0})
	}
	return domain.Leaderboard{Entries: sorted}
}

// LeaderboardFeed polls the score record and fans snapshots out to subscribers.
type LeaderboardFeed struct {
	scores ScoreStore
	now    func() time.Time

	mu          sync.RWMutex
	current     domain.Leaderboard
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardFeed(scores ScoreStore) *LeaderboardFeed {
	return &LeaderboardFeed{
		scores:      scores,
		now:         time.Now,
		current:     TopScores(nil, domain.LeaderboardSize),
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Refresh re-reads the score record and broadcasts when the top entries changed.
func (f *LeaderboardFeed) Refresh(ctx context.Context) (bool, error) {
	entries, err := f.scores.Scores(ctx)
	if err != nil {
		return false, err
	}
	lb := TopScores(entries, domain.LeaderboardSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	if sameBoard(f.current, lb) {
		return false, nil
	}
	lb.UpdatedAt = f.now()
	f.current = lb
	f.broadcastLocked()
	return true, nil
}

// Run refreshes every interval until ctx is done.
func (f *LeaderboardFeed) Run(ctx context.Context, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := f.Refresh(ctx); err != nil && onErr != nil {
			onErr(err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Current returns the latest snapshot.
func (f *LeaderboardFeed) Current() domain.Leaderboard {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Subscribe returns a channel that receives leaderboard updates, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *LeaderboardFeed) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	initial := f.current
	f.mu.Unlock()

	ch <- initial

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *LeaderboardFeed) broadcastLocked() {
	for ch := range f.subscribers {
		select {
		case ch <- f.current:
		default:
			// slow subscriber: drop its oldest update
			select {
			case <-ch:
			default:
			}
			ch <- f.current
		}
	}
}

func sameBoard(a, b domain.Leaderboard) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		if a.Entries[i] != b.Entries[i] {
			return false
		}
	}
	return true
}
