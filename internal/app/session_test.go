package app_test

import (
	"context"
	"errors"
	"testing"

	"logicquest/internal/app"
	"logicquest/internal/bank"
	"logicquest/internal/domain"
	"logicquest/internal/drag"
	"logicquest/internal/infra/memory"
)

func testLayout() drag.Layout {
	return drag.Layout{
		Width:      100,
		ChipWidth:  10,
		ChipHeight: 3,
		Spacing:    5,
		BankY:      30,
		Target:     drag.Rect{X: 45, Y: 10, W: 10, H: 3},
	}
}

// twoQuestionBank has difficulty weights [3, 5].
func twoQuestionBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New([]domain.Question{
		{Text: "What is 2 + 2?", Options: []string{"3", "4"}, Answer: "4", Difficulty: 3},
		{Text: "Which is prime?", Options: []string{"6", "7", "8"}, Answer: "7", Difficulty: 5},
	})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return b
}

func newSession(t *testing.T, mode domain.Mode, scores app.ScoreStore, progress app.ProgressStore) *app.Session {
	t.Helper()
	s, err := app.NewSession(app.SessionConfig{
		Mode:       mode,
		Username:   "alice",
		Bank:       twoQuestionBank(t),
		Layout:     testLayout(),
		TimerTicks: 1000,
		TickRate:   60,
		Scores:     scores,
		Progress:   progress,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

// drop drags the chip labelled label so its top-left lands on dst.
func drop(t *testing.T, s *app.Session, label string, dst drag.Point) domain.Outcome {
	t.Helper()
	for _, chip := range s.Chips() {
		if chip.Label != label {
			continue
		}
		grab := drag.Point{X: chip.Bounds.X, Y: chip.Bounds.Y}
		s.HandlePointer(drag.PointerEvent{Kind: drag.PointerDown, At: grab})
		s.HandlePointer(drag.PointerEvent{Kind: drag.PointerMove, At: dst})
		return s.HandlePointer(drag.PointerEvent{Kind: drag.PointerUp, At: dst})
	}
	t.Fatalf("no chip labelled %q", label)
	return domain.OutcomeNone
}

func onTarget(s *app.Session) drag.Point {
	target := s.Target()
	return drag.Point{X: target.X, Y: target.Y}
}

func correctLabel(s *app.Session) string {
	return s.Question().Answer
}

func wrongLabel(t *testing.T, s *app.Session) string {
	t.Helper()
	for _, chip := range s.Chips() {
		if !chip.Correct {
			return chip.Label
		}
	}
	t.Fatalf("no wrong chip")
	return ""
}

func TestPracticeScenarioWrapsWithoutScoring(t *testing.T) {
	s := newSession(t, domain.ModePractice, nil, nil)

	if got := drop(t, s, correctLabel(s), onTarget(s)); got != domain.OutcomeCorrect {
		t.Fatalf("expected correct, got %v", got)
	}
	snap := s.Snapshot()
	if snap.Feedback != domain.FeedbackCorrect || snap.State != app.StateFeedback || snap.Score != 0 {
		t.Fatalf("unexpected snapshot after correct drop: %+v", snap)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if s.Snapshot().Index != 1 || s.Snapshot().Feedback != domain.FeedbackNone {
		t.Fatalf("expected index 1 with cleared feedback, got %+v", s.Snapshot())
	}

	drop(t, s, correctLabel(s), onTarget(s))
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if s.Snapshot().Index != 0 {
		t.Fatalf("expected wraparound to 0, got %d", s.Snapshot().Index)
	}
	if s.Snapshot().Score != 0 {
		t.Fatalf("practice mode must not score, got %d", s.Snapshot().Score)
	}
}

func TestPracticeNextRequiresCorrectAnswer(t *testing.T) {
	s := newSession(t, domain.ModePractice, nil, nil)
	if err := s.Next(); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected invalid action before answering, got %v", err)
	}
	drop(t, s, wrongLabel(t, s), onTarget(s))
	if s.Snapshot().State != app.StateFeedback || s.Snapshot().Feedback != domain.FeedbackWrong {
		t.Fatalf("expected wrong feedback, got %+v", s.Snapshot())
	}
	if err := s.Next(); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected invalid action after wrong answer, got %v", err)
	}
	// chips stay draggable while feedback is shown
	if got := drop(t, s, correctLabel(s), onTarget(s)); got != domain.OutcomeCorrect {
		t.Fatalf("expected retry to be correct, got %v", got)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next after retry: %v", err)
	}
}

func TestDropOutsideTargetLeavesStateUnchanged(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModePractice, domain.ModeTimed, domain.ModeInstructor} {
		s := newSession(t, mode, nil, nil)
		before := s.Snapshot()
		if got := drop(t, s, correctLabel(s), drag.Point{X: 0, Y: 0}); got != domain.OutcomeNone {
			t.Fatalf("%s: expected none, got %v", mode, got)
		}
		if after := s.Snapshot(); after != before {
			t.Fatalf("%s: state changed %+v -> %+v", mode, before, after)
		}
	}
}

func TestTimedScenario(t *testing.T) {
	scores := &countingScores{ScoreStore: memory.NewScoreStore()}
	s := newSession(t, domain.ModeTimed, scores, nil)
	ctx := context.Background()

	s.Tick(ctx)
	s.Tick(ctx)
	if s.Snapshot().RemainingTicks != 998 {
		t.Fatalf("expected 998 ticks, got %d", s.Snapshot().RemainingTicks)
	}

	if got := drop(t, s, correctLabel(s), onTarget(s)); got != domain.OutcomeCorrect {
		t.Fatalf("expected correct, got %v", got)
	}
	snap := s.Snapshot()
	if snap.Score != 3 || snap.RemainingTicks != 1000 || snap.Index != 1 || snap.CorrectCount != 1 {
		t.Fatalf("unexpected snapshot after timed correct: %+v", snap)
	}
	if snap.State != app.StateAnswering {
		t.Fatalf("timed mode advances without manual confirmation, state=%s", snap.State)
	}

	for i := 0; i < 1000; i++ {
		s.Tick(ctx)
	}
	if s.State() != app.StateRoundEnded {
		t.Fatalf("expected round ended, got %s", s.State())
	}
	if scores.calls != 1 {
		t.Fatalf("expected exactly one score merge, got %d", scores.calls)
	}
	entries, _ := scores.Scores(ctx)
	if len(entries) != 1 || entries[0].Username != "alice" || entries[0].Score != 3 {
		t.Fatalf("unexpected persisted scores %+v", entries)
	}

	// further input and ticks are ignored
	s.Tick(ctx)
	if got := drop(t, s, correctLabel(s), onTarget(s)); got != domain.OutcomeNone {
		t.Fatalf("expected no outcome after round end, got %v", got)
	}
	if err := s.Next(); !errors.Is(err, domain.ErrSessionEnded) {
		t.Fatalf("expected session ended, got %v", err)
	}
	if scores.calls != 1 {
		t.Fatalf("score merged more than once: %d", scores.calls)
	}
}

func TestTimedScoresCurrentQuestionWeight(t *testing.T) {
	s := newSession(t, domain.ModeTimed, nil, nil)
	drop(t, s, correctLabel(s), onTarget(s)) // +3, now on question 2
	drop(t, s, correctLabel(s), onTarget(s)) // +5, wraps to question 1
	snap := s.Snapshot()
	if snap.Score != 8 || snap.Index != 0 || snap.CorrectCount != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestTimedWrongNeverChangesScoreOrIndex(t *testing.T) {
	s := newSession(t, domain.ModeTimed, nil, nil)
	s.Tick(context.Background())
	if got := drop(t, s, wrongLabel(t, s), onTarget(s)); got != domain.OutcomeWrong {
		t.Fatalf("expected wrong, got %v", got)
	}
	snap := s.Snapshot()
	if snap.Score != 0 || snap.Index != 0 || snap.RemainingTicks != 999 {
		t.Fatalf("unexpected snapshot after wrong: %+v", snap)
	}
	if snap.Feedback != domain.FeedbackWrong || snap.State != app.StateAnswering {
		t.Fatalf("expected wrong feedback while still answering: %+v", snap)
	}
}

func TestTimedManualNextResetsTimerWithoutScoring(t *testing.T) {
	s := newSession(t, domain.ModeTimed, nil, nil)
	s.Tick(context.Background())
	if err := s.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	snap := s.Snapshot()
	if snap.Index != 1 || snap.Score != 0 || snap.RemainingTicks != 1000 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestWraparoundLaw(t *testing.T) {
	for k := 0; k < 2; k++ {
		for n := 0; n < 9; n++ {
			s, err := app.NewSession(app.SessionConfig{
				Mode:       domain.ModeInstructor,
				Bank:       twoQuestionBank(t),
				Layout:     testLayout(),
				StartIndex: k,
			})
			if err != nil {
				t.Fatalf("new session: %v", err)
			}
			for i := 0; i < n; i++ {
				if err := s.Next(); err != nil {
					t.Fatalf("next: %v", err)
				}
			}
			if got, want := s.Snapshot().Index, (k+n)%2; got != want {
				t.Fatalf("k=%d n=%d: index %d want %d", k, n, got, want)
			}
		}
	}
}

func TestInstructorPrevAndShowAnswer(t *testing.T) {
	s := newSession(t, domain.ModeInstructor, nil, nil)
	if err := s.Prev(); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if s.Snapshot().Index != 1 {
		t.Fatalf("expected prev to wrap to 1, got %d", s.Snapshot().Index)
	}
	if err := s.ToggleAnswer(); err != nil || !s.Snapshot().ShowAnswer {
		t.Fatalf("expected answer shown, err=%v", err)
	}
	drop(t, s, correctLabel(s), onTarget(s))
	if s.Snapshot().Score != 0 {
		t.Fatalf("instructor mode must not score")
	}

	practice := newSession(t, domain.ModePractice, nil, nil)
	if err := practice.Prev(); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("prev must be instructor-only, got %v", err)
	}
	if err := practice.ToggleAnswer(); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("show answer must be instructor-only, got %v", err)
	}
}

func TestPauseFreezesTimerAndResumesPriorState(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, domain.ModeTimed, nil, nil)
	s.Tick(ctx)
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	for i := 0; i < 10; i++ {
		s.Tick(ctx)
	}
	if s.Snapshot().RemainingTicks != 999 || !s.Snapshot().Paused {
		t.Fatalf("timer must freeze while paused: %+v", s.Snapshot())
	}
	if got := drop(t, s, correctLabel(s), onTarget(s)); got != domain.OutcomeNone {
		t.Fatalf("input must be ignored while paused, got %v", got)
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.State() != app.StateAnswering {
		t.Fatalf("expected answering after resume, got %s", s.State())
	}

	practice := newSession(t, domain.ModePractice, nil, nil)
	drop(t, practice, wrongLabel(t, practice), onTarget(practice))
	_ = practice.Pause()
	_ = practice.Resume()
	if practice.State() != app.StateFeedback || practice.Snapshot().Feedback != domain.FeedbackWrong {
		t.Fatalf("resume must restore feedback state, got %+v", practice.Snapshot())
	}
}

func TestSaveProgressWhilePaused(t *testing.T) {
	ctx := context.Background()
	progress := memory.NewProgressStore()
	s := newSession(t, domain.ModeInstructor, nil, progress)
	_ = s.Next()
	if err := s.SaveProgress(ctx); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("save outside pause must be rejected, got %v", err)
	}
	_ = s.Pause()
	if err := s.SaveProgress(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.State() != app.StatePaused {
		t.Fatalf("save must not leave pause, got %s", s.State())
	}
	idx, ok, _ := progress.Progress(ctx, "alice")
	if !ok || idx != 1 {
		t.Fatalf("expected saved index 1, got %d (ok=%v)", idx, ok)
	}
}

func TestPersistenceFailureIsRetriedAtNextPoint(t *testing.T) {
	ctx := context.Background()
	progress := &flakyProgress{ProgressStore: memory.NewProgressStore(), failures: 1}
	s := newSession(t, domain.ModeInstructor, nil, progress)
	_ = s.Next()
	_ = s.Pause()
	if err := s.SaveProgress(ctx); err == nil {
		t.Fatalf("expected save failure")
	}
	if s.Err() == nil {
		t.Fatalf("failure should be reported on the session")
	}
	if s.Snapshot().Index != 1 {
		t.Fatalf("in-memory progress must survive a failed save")
	}
	if err := s.Exit(ctx); err != nil {
		t.Fatalf("exit should retry and succeed: %v", err)
	}
	if idx, ok, _ := progress.Progress(ctx, "alice"); !ok || idx != 1 {
		t.Fatalf("expected retried save to land, got %d (ok=%v)", idx, ok)
	}
	if s.Err() != nil {
		t.Fatalf("error should clear after successful retry: %v", s.Err())
	}
}

func TestRoundEndScoreFailureKeepsScore(t *testing.T) {
	ctx := context.Background()
	scores := &countingScores{ScoreStore: memory.NewScoreStore(), fail: true}
	s, _ := app.NewSession(app.SessionConfig{
		Mode: domain.ModeTimed, Username: "bob", Bank: twoQuestionBank(t), Layout: testLayout(),
		TimerTicks: 2, TickRate: 60, Scores: scores,
	})
	drop(t, s, correctLabel(s), onTarget(s))
	s.Tick(ctx)
	s.Tick(ctx)
	if s.State() != app.StateRoundEnded || s.Err() == nil {
		t.Fatalf("expected round end with persistence error, state=%s err=%v", s.State(), s.Err())
	}
	if s.Snapshot().Score != 3 {
		t.Fatalf("score must remain valid for display, got %d", s.Snapshot().Score)
	}
	scores.fail = false
	if err := s.Exit(ctx); err != nil {
		t.Fatalf("exit retry: %v", err)
	}
	entries, _ := scores.Scores(ctx)
	if len(entries) != 1 || entries[0].Score != 3 {
		t.Fatalf("expected retried merge, got %+v", entries)
	}
}

func TestReplaceBankKeepsPosition(t *testing.T) {
	s := newSession(t, domain.ModeInstructor, nil, nil)
	_ = s.Next()
	next, err := bank.Append(twoQuestionBank(t), domain.Question{Text: "New", Options: []string{"a", "b"}, Answer: "a", Difficulty: 1})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	s.ReplaceBank(next)
	if s.Snapshot().Index != 1 || s.Snapshot().Total != 3 {
		t.Fatalf("unexpected snapshot %+v", s.Snapshot())
	}
}

type countingScores struct {
	app.ScoreStore
	calls int
	fail  bool
}

func (c *countingScores) MergeScore(ctx context.Context, username string, score int) error {
	c.calls++
	if c.fail {
		return errors.New("disk full")
	}
	return c.ScoreStore.MergeScore(ctx, username, score)
}

type flakyProgress struct {
	app.ProgressStore
	failures int
}

func (f *flakyProgress) SaveProgress(ctx context.Context, username string, index int) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("file locked")
	}
	return f.ProgressStore.SaveProgress(ctx, username, index)
}

func TestPauseLetsGoOfDraggedChip(t *testing.T) {
	s := newSession(t, domain.ModePractice, nil, nil)
	chip := s.Chips()[0]
	grab := drag.Point{X: chip.Bounds.X, Y: chip.Bounds.Y}
	s.HandlePointer(drag.PointerEvent{Kind: drag.PointerDown, At: grab})
	s.HandlePointer(drag.PointerEvent{Kind: drag.PointerMove, At: drag.Point{X: grab.X + 1, Y: grab.Y}})

	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := s.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}

	held := s.Chips()[0]
	if held.Dragging {
		t.Fatal("chip must not stay attached to the pointer after pause")
	}
	s.HandlePointer(drag.PointerEvent{Kind: drag.PointerMove, At: onTarget(s)})
	if got := s.Chips()[0].Bounds; got != held.Bounds {
		t.Fatalf("chip moved without a new press: %+v -> %+v", held.Bounds, got)
	}
	if out := s.HandlePointer(drag.PointerEvent{Kind: drag.PointerUp, At: onTarget(s)}); out != domain.OutcomeNone {
		t.Fatalf("release after resume must not score, got %v", out)
	}
}
