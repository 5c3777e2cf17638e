package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"logicquest/internal/app"
	"logicquest/internal/domain"
)

// Screen is one full-terminal view. Only the top screen of the shell's stack
// receives events and frame ticks.
type Screen interface {
	HandleEvent(msg tea.Msg) Nav
	Tick() Nav
	Render(width, height int) string
}

// Screens that keep resources open implement closer; the shell calls Close when
// the screen leaves the stack or the program quits.
type closer interface {
	Close()
}

// Screens that lay themselves out to the terminal implement resizer.
type resizer interface {
	Resize(width, height int)
}

type NavKind int

const (
	NavNone NavKind = iota
	NavPush
	NavPop
	NavReplace
	NavQuit
)

// Nav is a screen's request to the shell after handling an event.
type Nav struct {
	Kind   NavKind
	Screen Screen
	Count  int // screens to pop; 0 means 1
	Cmd    tea.Cmd
}

func stay() Nav { return Nav{} }
func stayCmd(cmd tea.Cmd) Nav { return Nav{Cmd: cmd} }
func push(s Screen) Nav { return Nav{Kind: NavPush, Screen: s} }
func pop(n int) Nav { return Nav{Kind: NavPop, Count: n} }
func replace(s Screen) Nav { return Nav{Kind: NavReplace, Screen: s} }
func quit() Nav { return Nav{Kind: NavQuit} }

// Env is the state shared by all screens of one program run.
type Env struct {
	Ctx      context.Context
	Service  *app.GameService
	Log      *zap.Logger
	Username string
	Role     domain.Role
	Dataset  string
}

type frameMsg time.Time

// Shell is the bubbletea model driving the screen stack and the frame clock.
type Shell struct {
	env      *Env
	stack    []Screen
	width    int
	height   int
	interval time.Duration
}

// NewShell starts with root at the bottom of the stack.
func NewShell(env *Env, root Screen) *Shell {
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	rate := env.Service.Options().TickRate
	if rate <= 0 {
		rate = 60
	}
	return &Shell{
		env:      env,
		stack:    []Screen{root},
		width:    80,
		height:   24,
		interval: time.Second / time.Duration(rate),
	}
}

func (s *Shell) Init() tea.Cmd {
	return s.frame()
}

func (s *Shell) frame() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Top returns the screen currently receiving input.
func (s *Shell) Top() Screen {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// Depth returns the number of stacked screens.
func (s *Shell) Depth() int {
	return len(s.stack)
}

// Size returns the last known terminal size.
func (s *Shell) Size() (int, int) {
	return s.width, s.height
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = typed.Width, typed.Height
		for _, screen := range s.stack {
			if r, ok := screen.(resizer); ok {
				r.Resize(s.width, s.height)
			}
		}
		return s, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			return s, s.apply(quit())
		}
	case frameMsg:
		var cmd tea.Cmd
		if top := s.Top(); top != nil {
			cmd = s.apply(top.Tick())
		}
		if len(s.stack) == 0 {
			return s, cmd
		}
		return s, tea.Batch(cmd, s.frame())
	}
	top := s.Top()
	if top == nil {
		return s, tea.Quit
	}
	return s, s.apply(top.HandleEvent(msg))
}

func (s *Shell) View() string {
	top := s.Top()
	if top == nil {
		return ""
	}
	return top.Render(s.width, s.height)
}

func (s *Shell) apply(nav Nav) tea.Cmd {
	switch nav.Kind {
	case NavPush:
		s.pushScreen(nav.Screen)
	case NavReplace:
		s.popScreens(1)
		s.pushScreen(nav.Screen)
	case NavPop:
		n := nav.Count
		if n <= 0 {
			n = 1
		}
		s.popScreens(n)
	case NavQuit:
		s.popScreens(len(s.stack))
	}
	if len(s.stack) == 0 {
		return tea.Batch(nav.Cmd, tea.Quit)
	}
	return nav.Cmd
}

func (s *Shell) pushScreen(screen Screen) {
	if screen == nil {
		return
	}
	if r, ok := screen.(resizer); ok {
		r.Resize(s.width, s.height)
	}
	s.stack = append(s.stack, screen)
}

func (s *Shell) popScreens(n int) {
	for ; n > 0 && len(s.stack) > 0; n-- {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if c, ok := top.(closer); ok {
			c.Close()
		}
	}
}

// Options for Run.
type Options struct {
	Mode *domain.Mode // start straight in a game instead of the menu
}

// Run opens the menu (and optionally a game on top of it) and blocks until the player quits.
func Run(env *Env, opts Options) error {
	shell := NewShell(env, NewMenu(env))
	if opts.Mode != nil {
		game, err := StartGame(env, *opts.Mode, shell.width, shell.height)
		if err != nil {
			return err
		}
		shell.pushScreen(game)
	}
	program := tea.NewProgram(shell,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(env.Ctx),
	)
	_, err := program.Run()
	// a cancelled context ends the program without running Ctrl+C handling
	shell.popScreens(len(shell.stack))
	return err
}
