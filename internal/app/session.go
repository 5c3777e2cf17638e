package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
	"logicquest/internal/drag"
	"logicquest/internal/timer"
)

// State is a session state. Paused is pushed on top of the state it interrupts.
type State int

const (
	StateAnswering State = iota
	StateFeedback
	StatePaused
	StateRoundEnded
	StateExited
)

func (s State) String() string {
	switch s {
	case StateAnswering:
		return "answering"
	case StateFeedback:
		return "feedback"
	case StatePaused:
		return "paused"
	case StateRoundEnded:
		return "round-ended"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a read-only view of the session for rendering and tests.
type Snapshot struct {
	Username         string
	Mode             domain.Mode
	State            State
	Index            int
	Total            int
	Score            int
	CorrectCount     int
	Feedback         domain.Feedback
	Paused           bool
	ShowAnswer       bool
	RemainingTicks   int
	RemainingSeconds float64
}

// SessionConfig wires a session. Progress and Scores may be nil for sessions that never persist.
type SessionConfig struct {
	Mode       domain.Mode
	Username   string
	Bank       *bank.Bank
	Layout     drag.Layout
	StartIndex int
	TimerTicks int
	TickRate   int
	Progress   ProgressStore
	Scores     ScoreStore
	Logger     *zap.Logger
}

// Session is the quiz state machine shared by all modes. It is driven from a single
// goroutine (the frame loop) and holds no locks.
type Session struct {
	mode     domain.Mode
	policy   domain.ModePolicy
	username string
	bank     *bank.Bank
	chips    *drag.Controller
	timer    *timer.RoundTimer
	progress ProgressStore
	scores   ScoreStore
	log      *zap.Logger

	states       []State
	index        int
	score        int
	correctCount int
	feedback     domain.Feedback
	showAnswer   bool

	pendingProgress bool
	progressIndex   int
	pendingScore    bool
	err             error
}

// NewSession starts a session in the Answering state at cfg.StartIndex (wrapped onto the bank).
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Bank == nil {
		return nil, fmt.Errorf("%w: no question bank", domain.ErrDataset)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		mode:     cfg.Mode,
		policy:   cfg.Mode.Policy(),
		username: cfg.Username,
		bank:     cfg.Bank,
		chips:    drag.NewController(cfg.Layout),
		progress: cfg.Progress,
		scores:   cfg.Scores,
		log:      log.With(zap.String("mode", cfg.Mode.String()), zap.String("user", cfg.Username)),
		states:   []State{StateAnswering},
		index:    cfg.Bank.Wrap(cfg.StartIndex),
	}
	if s.policy.Timed {
		s.timer = timer.New(cfg.TimerTicks, cfg.TickRate)
	}
	s.chips.Reset(s.Question())
	return s, nil
}

// State returns the current (top-of-stack) state.
func (s *Session) State() State {
	return s.states[len(s.states)-1]
}

func (s *Session) setState(st State) {
	s.states[len(s.states)-1] = st
}

func (s *Session) playing() bool {
	st := s.State()
	return st == StateAnswering || st == StateFeedback
}

func (s *Session) ended() bool {
	st := s.State()
	return st == StateRoundEnded || st == StateExited
}

// Question returns the current question.
func (s *Session) Question() domain.Question {
	q, _ := s.bank.Get(s.index)
	return q
}

// Chips returns the current draggable chips.
func (s *Session) Chips() []drag.Chip {
	return s.chips.Chips()
}

// Target returns the drop zone.
func (s *Session) Target() drag.Rect {
	return s.chips.Target()
}

// Err returns the last persistence error, if any is still unresolved.
func (s *Session) Err() error {
	return s.err
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Username:     s.username,
		Mode:         s.mode,
		State:        s.State(),
		Index:        s.index,
		Total:        s.bank.Len(),
		Score:        s.score,
		CorrectCount: s.correctCount,
		Feedback:     s.feedback,
		Paused:       s.State() == StatePaused,
		ShowAnswer:   s.showAnswer,
	}
	if s.timer != nil {
		snap.RemainingTicks = s.timer.Remaining()
		snap.RemainingSeconds = s.timer.Seconds()
	}
	return snap
}

// HandlePointer feeds one pointer event to the chips and applies the resulting outcome.
// Chips stay draggable while feedback is shown; a later drop replaces the feedback.
func (s *Session) HandlePointer(ev drag.PointerEvent) domain.Outcome {
	if !s.playing() {
		return domain.OutcomeNone
	}
	outcome := s.chips.Handle(ev)
	switch outcome {
	case domain.OutcomeCorrect:
		s.onCorrect()
	case domain.OutcomeWrong:
		s.feedback = domain.FeedbackWrong
		if !s.policy.AdvanceOnCorrect {
			s.setState(StateFeedback)
		}
	}
	return outcome
}

func (s *Session) onCorrect() {
	s.feedback = domain.FeedbackCorrect
	if s.policy.ScoresOnCorrect {
		s.score += s.Question().Difficulty
		s.correctCount++
	}
	if !s.policy.AdvanceOnCorrect {
		s.setState(StateFeedback)
		return
	}
	s.advance(1)
	if s.timer != nil {
		s.timer.Reset()
	}
	s.setState(StateAnswering)
}

func (s *Session) advance(step int) {
	s.index = s.bank.Wrap(s.index + step)
	s.chips.Reset(s.Question())
}

func (s *Session) checkPlaying() error {
	if s.ended() {
		return domain.ErrSessionEnded
	}
	if !s.playing() {
		return fmt.Errorf("%w: session is %s", domain.ErrInvalidAction, s.State())
	}
	return nil
}

// Next moves to the following question, wrapping after the last one.
func (s *Session) Next() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if s.policy.NextRequiresCorrect && s.feedback != domain.FeedbackCorrect {
		return fmt.Errorf("%w: answer the question first", domain.ErrInvalidAction)
	}
	s.advance(1)
	s.feedback = domain.FeedbackNone
	if s.timer != nil {
		s.timer.Reset()
	}
	s.setState(StateAnswering)
	return nil
}

// Prev moves to the preceding question (instructor mode only).
func (s *Session) Prev() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if !s.policy.AllowsPrev {
		return fmt.Errorf("%w: prev in %s mode", domain.ErrInvalidAction, s.mode)
	}
	s.advance(-1)
	s.feedback = domain.FeedbackNone
	s.setState(StateAnswering)
	return nil
}

// ToggleAnswer shows or hides the correct answer (instructor mode only).
func (s *Session) ToggleAnswer() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	if !s.policy.AllowsAuthoring {
		return fmt.Errorf("%w: show answer in %s mode", domain.ErrInvalidAction, s.mode)
	}
	s.showAnswer = !s.showAnswer
	return nil
}

// Tick advances one frame. Nothing happens while paused or after the round ended.
func (s *Session) Tick(ctx context.Context) {
	if !s.playing() || s.timer == nil {
		return
	}
	if s.timer.Tick() {
		s.endRound(ctx)
	}
}

func (s *Session) endRound(ctx context.Context) {
	s.states = []State{StateRoundEnded}
	s.pendingScore = true
	s.log.Info("round ended", zap.Int("score", s.score), zap.Int("correct", s.correctCount))
	_ = s.flush(ctx)
}

// Pause suspends the current state. A chip being dragged is let go with no outcome.
func (s *Session) Pause() error {
	if err := s.checkPlaying(); err != nil {
		return err
	}
	s.chips.Cancel()
	s.states = append(s.states, StatePaused)
	return nil
}

// Resume returns to exactly the state that was paused.
func (s *Session) Resume() error {
	if s.State() != StatePaused {
		return fmt.Errorf("%w: session is not paused", domain.ErrInvalidAction)
	}
	s.states = s.states[:len(s.states)-1]
	return nil
}

// SaveProgress persists the current index for the user; the session stays paused.
func (s *Session) SaveProgress(ctx context.Context) error {
	if s.State() != StatePaused {
		return fmt.Errorf("%w: save is only offered while paused", domain.ErrInvalidAction)
	}
	s.pendingProgress = true
	s.progressIndex = s.index
	return s.flush(ctx)
}

// Exit ends the session, retrying any persistence that failed earlier.
func (s *Session) Exit(ctx context.Context) error {
	if s.State() == StateExited {
		return nil
	}
	s.states = []State{StateExited}
	return s.flush(ctx)
}

// Flush retries pending writes without changing state.
func (s *Session) Flush(ctx context.Context) error {
	return s.flush(ctx)
}

// flush performs pending writes. Failures stay pending for the next persistence point.
func (s *Session) flush(ctx context.Context) error {
	var errs []error
	if s.pendingProgress && s.progress != nil {
		if err := s.progress.SaveProgress(ctx, s.username, s.progressIndex); err != nil {
			s.log.Warn("save progress failed", zap.Int("index", s.progressIndex), zap.Error(err))
			errs = append(errs, fmt.Errorf("save progress: %w", err))
		} else {
			s.pendingProgress = false
			s.log.Info("progress saved", zap.Int("index", s.progressIndex))
		}
	}
	if s.pendingScore && s.scores != nil {
		if err := s.scores.MergeScore(ctx, s.username, s.score); err != nil {
			s.log.Warn("merge score failed", zap.Int("score", s.score), zap.Error(err))
			errs = append(errs, fmt.Errorf("merge score: %w", err))
		} else {
			s.pendingScore = false
			s.log.Info("score merged", zap.Int("score", s.score))
		}
	}
	s.err = errors.Join(errs...)
	return s.err
}

// ReplaceBank swaps in a new bank (after authoring) and keeps the current position.
func (s *Session) ReplaceBank(b *bank.Bank) {
	if b == nil {
		return
	}
	s.bank = b
	s.index = b.Wrap(s.index)
	s.chips.Reset(s.Question())
}

// Resize applies new chip geometry; chips return to their bank slots.
func (s *Session) Resize(layout drag.Layout) {
	s.chips.SetLayout(layout)
}
