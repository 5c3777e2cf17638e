package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"logicquest/internal/app"
	"logicquest/internal/domain"
	"logicquest/internal/drag"
)

// GameScreen hosts one session and translates terminal input into session calls.
type GameScreen struct {
	env     *Env
	session *app.Session
	status  string
	closed  bool
}

// StartGame builds a session for mode sized to the terminal.
func StartGame(env *Env, mode domain.Mode, width, height int) (*GameScreen, error) {
	session, err := env.Service.StartSession(env.Ctx, app.StartOptions{
		Mode:      mode,
		Username:  env.Username,
		DatasetID: env.Dataset,
		Width:     width,
		Height:    height,
	})
	if err != nil {
		return nil, err
	}
	return NewGameScreen(env, session), nil
}

func NewGameScreen(env *Env, session *app.Session) *GameScreen {
	return &GameScreen{env: env, session: session}
}

// Session exposes the hosted session.
func (g *GameScreen) Session() *app.Session {
	return g.session
}

func (g *GameScreen) Resize(width, height int) {
	g.session.Resize(g.env.Service.Options().LayoutFor(width, height))
}

func (g *GameScreen) Tick() Nav {
	g.session.Tick(g.env.Ctx)
	return stay()
}

func (g *GameScreen) HandleEvent(msg tea.Msg) Nav {
	switch typed := msg.(type) {
	case tea.MouseMsg:
		if ev, ok := pointerEvent(typed); ok {
			g.session.HandlePointer(ev)
		}
	case tea.KeyMsg:
		return g.handleKey(typed)
	}
	return stay()
}

func pointerEvent(msg tea.MouseMsg) (drag.PointerEvent, bool) {
	at := drag.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return drag.PointerEvent{}, false
		}
		return drag.PointerEvent{Kind: drag.PointerDown, At: at}, true
	case tea.MouseActionMotion:
		return drag.PointerEvent{Kind: drag.PointerMove, At: at}, true
	case tea.MouseActionRelease:
		return drag.PointerEvent{Kind: drag.PointerUp, At: at}, true
	}
	return drag.PointerEvent{}, false
}

func (g *GameScreen) handleKey(key tea.KeyMsg) Nav {
	if g.session.State() == app.StateRoundEnded {
		switch key.String() {
		case "enter", "esc", " ", "q":
			return pop(1)
		}
		return stay()
	}

	var err error
	switch key.String() {
	case "esc", "p":
		if err = g.session.Pause(); err == nil {
			return push(NewPauseScreen(g.env, g))
		}
	case "n", "right":
		err = g.session.Next()
	case "b", "left":
		err = g.session.Prev()
	case "a":
		err = g.session.ToggleAnswer()
	case "+":
		if !g.session.Snapshot().Mode.Policy().AllowsAuthoring {
			err = fmt.Errorf("%w: authoring is instructor-only", domain.ErrInvalidAction)
			break
		}
		return push(NewAuthorScreen(g.env, g.session))
	default:
		return stay()
	}
	g.status = ""
	if err != nil && !errors.Is(err, domain.ErrSessionEnded) {
		g.status = hintFor(err)
	}
	return stay()
}

func hintFor(err error) string {
	if errors.Is(err, domain.ErrInvalidAction) {
		return "Not available right now"
	}
	return err.Error()
}

// Close ends the session and flushes pending writes.
func (g *GameScreen) Close() {
	if g.closed {
		return
	}
	g.closed = true
	if err := g.session.Exit(g.env.Ctx); err != nil {
		g.env.Log.Warn("session exit", zap.Error(err))
	}
}

func (g *GameScreen) Render(width, height int) string {
	snap := g.session.Snapshot()
	if snap.State == app.StateRoundEnded {
		return g.renderSummary(snap, width, height)
	}

	c := newCanvas(width, height)
	c.text(1, 0, headerLine(snap))
	c.text(1, 1, g.session.Question().Text)

	target := g.session.Target()
	c.box(target, "drop here", true)
	if snap.ShowAnswer {
		c.centered(target.X, target.Y-1, target.W, "answer: "+g.session.Question().Answer)
	}
	if fb := snap.Feedback.String(); fb != "" {
		c.centered(target.X, target.Y+target.H, target.W, fb)
	}

	chips := g.session.Chips()
	var dragged *drag.Chip
	for i := range chips {
		if chips[i].Dragging {
			dragged = &chips[i]
			continue
		}
		c.box(chips[i].Bounds, chips[i].Label, false)
	}
	if dragged != nil {
		c.box(dragged.Bounds, dragged.Label, true)
	}

	footer := keyHints(snap.Mode)
	if g.status != "" {
		footer = g.status + "  " + footer
	}
	if err := g.session.Err(); err != nil {
		footer = "save failed, will retry  " + footer
	}
	c.text(1, height-1, footer)
	return c.String()
}

func headerLine(snap app.Snapshot) string {
	line := fmt.Sprintf("%s | %s | Question %d/%d", snap.Mode.Title(), snap.Username, snap.Index+1, snap.Total)
	if snap.Mode.Policy().Timed {
		line += fmt.Sprintf(" | Score %d | Time %.1fs", snap.Score, snap.RemainingSeconds)
	}
	return line
}

func keyHints(mode domain.Mode) string {
	switch mode {
	case domain.ModeInstructor:
		return "drag a chip | n next | b prev | a answer | + add question | esc pause"
	case domain.ModeTimed:
		return "drag a chip | n skip | esc pause"
	default:
		return "drag a chip | n next (after a correct answer) | esc pause"
	}
}

func (g *GameScreen) renderSummary(snap app.Snapshot, width, height int) string {
	lines := []string{
		titleStyle.Render("Times up"),
		"",
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Questions answered: %d", snap.CorrectCount),
	}
	if err := g.session.Err(); err != nil {
		lines = append(lines, "", errorStyle.Render("Score not saved yet: "+err.Error()))
	}
	lines = append(lines, "", hintStyle.Render("press enter to return to the menu"))
	return panel(width, height, lines...)
}
