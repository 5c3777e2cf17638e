package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"logicquest/internal/domain"
)

const keyPrefix = "logicquest:"

const (
	scoresKey   = keyPrefix + "scores"
	progressKey = keyPrefix + "progress"
	resumeKey   = keyPrefix + "resume"
	userKey     = keyPrefix + "current_user"
)

// maxScoreScript sets a sorted-set member's score only when it grows.
var maxScoreScript = redis.NewScript(`
local cur = redis.call('ZSCORE', KEYS[1], ARGV[1])
if (not cur) or tonumber(ARGV[2]) > tonumber(cur) then
	redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
	return 1
end
return 0
`)

// maxFieldScript sets a hash field only when the new value is larger.
var maxFieldScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if (not cur) or tonumber(ARGV[2]) > tonumber(cur) then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// ScoreStore keeps the score record in a sorted set shared by every client.
type ScoreStore struct {
	client *redis.Client
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client}
}

func (s *ScoreStore) MergeScore(ctx context.Context, username string, score int) error {
	if err := maxScoreScript.Run(ctx, s.client, []string{scoresKey}, username, score).Err(); err != nil {
		return fmt.Errorf("merge score: %w", err)
	}
	return nil
}

// Scores returns every entry, highest first.
func (s *ScoreStore) Scores(ctx context.Context) ([]domain.ScoreEntry, error) {
	zs, err := s.client.ZRevRangeWithScores(ctx, scoresKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	out := make([]domain.ScoreEntry, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		out = append(out, domain.ScoreEntry{Username: name, Score: int(z.Score)})
	}
	return out, nil
}

// ProgressStore keeps the progress record in a hash: HSET logicquest:progress {user} {index}
type ProgressStore struct {
	client *redis.Client
}

func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

func (s *ProgressStore) SaveProgress(ctx context.Context, username string, index int) error {
	if err := maxFieldScript.Run(ctx, s.client, []string{progressKey}, username, index).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) Progress(ctx context.Context, username string) (int, bool, error) {
	raw, err := s.client.HGet(ctx, progressKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read progress: %w", err)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: progress %q for %s", domain.ErrMalformedRecord, raw, username)
	}
	return idx, true, nil
}

// ResumeStore is the one-shot resume marker, consumed with GETDEL.
type ResumeStore struct {
	client *redis.Client
}

func NewResumeStore(client *redis.Client) *ResumeStore {
	return &ResumeStore{client: client}
}

func (s *ResumeStore) LoadResumeIndex(ctx context.Context) (int, bool, error) {
	raw, err := s.client.GetDel(ctx, resumeKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read resume marker: %w", err)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: resume marker %q", domain.ErrMalformedRecord, raw)
	}
	return idx, true, nil
}

func (s *ResumeStore) SetResumeIndex(ctx context.Context, index int) error {
	return s.client.Set(ctx, resumeKey, index, 0).Err()
}

// UserMarker stores the signed-in username.
type UserMarker struct {
	client *redis.Client
}

func NewUserMarker(client *redis.Client) *UserMarker {
	return &UserMarker{client: client}
}

func (m *UserMarker) CurrentUser(ctx context.Context) (string, error) {
	name, err := m.client.Get(ctx, userKey).Result()
	if errors.Is(err, redis.Nil) || (err == nil && name == "") {
		return domain.GuestName, nil
	}
	if err != nil {
		return domain.GuestName, fmt.Errorf("read current user: %w", err)
	}
	return name, nil
}

func (m *UserMarker) SetCurrentUser(ctx context.Context, username string) error {
	return m.client.Set(ctx, userKey, username, 0).Err()
}
