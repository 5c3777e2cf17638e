package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
	"logicquest/internal/drag"
)

// GameOptions carries the tunables every session is built with.
type GameOptions struct {
	TickRate     int
	TimerTicks   int
	ChipWidth    int
	ChipHeight   int
	ChipSpacing  int
	TargetWidth  int
	TargetHeight int
}

// LayoutFor centers the target zone on screen and puts the chip bank near the bottom.
func (o GameOptions) LayoutFor(width, height int) drag.Layout {
	bankY := height - o.ChipHeight - 3
	if bankY < 0 {
		bankY = 0
	}
	return drag.Layout{
		Width:      width,
		ChipWidth:  o.ChipWidth,
		ChipHeight: o.ChipHeight,
		Spacing:    o.ChipSpacing,
		BankY:      bankY,
		Target: drag.Rect{
			X: (width - o.TargetWidth) / 2,
			Y: (height - o.TargetHeight) / 2,
			W: o.TargetWidth,
			H: o.TargetHeight,
		},
	}
}

// Deps are the collaborators of a GameService. Writer, Resume, Users and Accounts are optional.
type Deps struct {
	Banks    BankRepository
	Writer   DatasetWriter
	Progress ProgressStore
	Scores   ScoreStore
	Resume   ResumeStore
	Users    UserMarker
	Accounts Accounts
	Options  GameOptions
	Logger   *zap.Logger
}

// GameService contains the use cases behind the screens: sign-in, sessions, leaderboard, authoring.
type GameService struct {
	banks    BankRepository
	writer   DatasetWriter
	progress ProgressStore
	scores   ScoreStore
	resume   ResumeStore
	users    UserMarker
	accounts Accounts
	opts     GameOptions
	log      *zap.Logger
}

func NewGameService(deps Deps) *GameService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &GameService{
		banks:    deps.Banks,
		writer:   deps.Writer,
		progress: deps.Progress,
		scores:   deps.Scores,
		resume:   deps.Resume,
		users:    deps.Users,
		accounts: deps.Accounts,
		opts:     deps.Options,
		log:      log,
	}
}

// Options returns the game tunables.
func (g *GameService) Options() GameOptions {
	return g.opts
}

// StartOptions selects what session to start.
type StartOptions struct {
	Mode      domain.Mode
	Username  string // empty means the signed-in user
	DatasetID string
	Width     int
	Height    int
}

// StartSession loads the bank and builds a session. A dataset that cannot be loaded
// prevents the session from starting.
func (g *GameService) StartSession(ctx context.Context, opts StartOptions) (*Session, error) {
	b, err := g.banks.GetBank(ctx, opts.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	username := opts.Username
	if username == "" && g.users != nil {
		if username, err = g.users.CurrentUser(ctx); err != nil {
			g.log.Warn("read current user", zap.Error(err))
		}
	}
	if username == "" {
		username = domain.GuestName
	}

	start := 0
	if opts.Mode.Policy().ResumesProgress && g.resume != nil {
		idx, ok, err := g.resume.LoadResumeIndex(ctx)
		switch {
		case err != nil:
			g.log.Warn("read resume marker", zap.Error(err))
		case ok:
			start = idx
		}
	}

	return NewSession(SessionConfig{
		Mode:       opts.Mode,
		Username:   username,
		Bank:       b,
		Layout:     g.opts.LayoutFor(opts.Width, opts.Height),
		StartIndex: start,
		TimerTicks: g.opts.TimerTicks,
		TickRate:   g.opts.TickRate,
		Progress:   g.progress,
		Scores:     g.scores,
		Logger:     g.log,
	})
}

// Continue queues the user's saved progress as the next practice session's start index.
func (g *GameService) Continue(ctx context.Context, username string) (int, bool, error) {
	if g.progress == nil || g.resume == nil {
		return 0, false, nil
	}
	idx, ok, err := g.progress.Progress(ctx, username)
	if err != nil || !ok {
		return 0, false, err
	}
	if err := g.resume.SetResumeIndex(ctx, idx); err != nil {
		return 0, false, fmt.Errorf("write resume marker: %w", err)
	}
	return idx, true, nil
}

// Leaderboard returns the top scores, padded with placeholders.
func (g *GameService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	if g.scores == nil {
		return TopScores(nil, domain.LeaderboardSize), nil
	}
	entries, err := g.scores.Scores(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return TopScores(entries, domain.LeaderboardSize), nil
}

// AddQuestion validates q against the current bank, appends it to the dataset and returns the new bank.
func (g *GameService) AddQuestion(ctx context.Context, datasetID string, q domain.Question) (*bank.Bank, error) {
	if g.writer == nil {
		return nil, fmt.Errorf("%w: dataset is read-only", domain.ErrInvalidAction)
	}
	current, err := g.banks.GetBank(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	next, err := bank.Append(current, q)
	if err != nil {
		return nil, err
	}
	if err := g.writer.AppendQuestion(ctx, datasetID, q); err != nil {
		return nil, fmt.Errorf("append question: %w", err)
	}
	if inv, ok := g.banks.(BankInvalidator); ok {
		inv.Invalidate(datasetID)
	}
	g.log.Info("question added", zap.String("dataset", datasetID), zap.Int("questions", next.Len()))
	return next, nil
}

// SignIn checks credentials and records the current user.
func (g *GameService) SignIn(ctx context.Context, username, key string) (domain.Role, error) {
	if g.accounts == nil {
		return domain.RolePlayer, fmt.Errorf("%w: sign-in not configured", domain.ErrInvalidAction)
	}
	role, err := g.accounts.Authenticate(ctx, username, key)
	if err != nil {
		return domain.RolePlayer, err
	}
	if g.users != nil {
		if err := g.users.SetCurrentUser(ctx, username); err != nil {
			return role, fmt.Errorf("record current user: %w", err)
		}
	}
	return role, nil
}
