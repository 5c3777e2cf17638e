package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"logicquest/internal/domain"
)

type menuItem struct {
	label  string
	choose func(m *MenuScreen) Nav
}

// MenuScreen is the root screen.
type MenuScreen struct {
	env    *Env
	cursor int
	status string
	width  int
	height int
}

func NewMenu(env *Env) *MenuScreen {
	return &MenuScreen{env: env, width: 80, height: 24}
}

func (m *MenuScreen) Resize(width, height int) {
	m.width, m.height = width, height
}

// items depend on the signed-in role: only instructors see Instructor Mode.
func (m *MenuScreen) items() []menuItem {
	items := []menuItem{
		{domain.ModePractice.Title(), func(m *MenuScreen) Nav { return m.start(domain.ModePractice) }},
		{domain.ModeTimed.Title(), func(m *MenuScreen) Nav { return m.start(domain.ModeTimed) }},
	}
	if m.env.Role == domain.RoleInstructor {
		items = append(items, menuItem{domain.ModeInstructor.Title(), func(m *MenuScreen) Nav { return m.start(domain.ModeInstructor) }})
	}
	return append(items,
		menuItem{"Continue", (*MenuScreen).continueGame},
		menuItem{"Leaderboard", func(m *MenuScreen) Nav { return push(NewLeaderboardScreen(m.env)) }},
		menuItem{"Sign In", func(m *MenuScreen) Nav { return push(NewSignInScreen(m.env)) }},
		menuItem{"Quit", func(*MenuScreen) Nav { return quit() }},
	)
}

func (m *MenuScreen) Tick() Nav {
	return stay()
}

func (m *MenuScreen) HandleEvent(msg tea.Msg) Nav {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return stay()
	}
	items := m.items()
	m.cursor = moveCursor(m.cursor, 0, len(items))
	switch key.String() {
	case "up", "k":
		m.cursor = moveCursor(m.cursor, -1, len(items))
	case "down", "j", "tab":
		m.cursor = moveCursor(m.cursor, 1, len(items))
	case "q":
		return quit()
	case "enter", " ":
		m.status = ""
		return items[m.cursor].choose(m)
	}
	return stay()
}

func (m *MenuScreen) start(mode domain.Mode) Nav {
	game, err := StartGame(m.env, mode, m.width, m.height)
	if err != nil {
		m.env.Log.Warn("start session", zap.String("mode", mode.String()), zap.Error(err))
		m.status = "Cannot start: " + err.Error()
		return stay()
	}
	return push(game)
}

// continueGame queues the signed-in user's saved progress and starts practice from it.
func (m *MenuScreen) continueGame() Nav {
	_, ok, err := m.env.Service.Continue(m.env.Ctx, m.env.Username)
	if err != nil {
		m.status = "Cannot continue: " + err.Error()
		return stay()
	}
	if !ok {
		m.status = fmt.Sprintf("No saved game for %s", m.env.Username)
		return stay()
	}
	return m.start(domain.ModePractice)
}

func (m *MenuScreen) Render(width, height int) string {
	labels := make([]string, 0, 8)
	for _, item := range m.items() {
		labels = append(labels, item.label)
	}
	lines := []string{
		titleStyle.Render("Logic Quest"),
		hintStyle.Render("signed in as " + m.env.Username),
		"",
	}
	lines = append(lines, menuLines(labels, m.cursor)...)
	if m.status != "" {
		lines = append(lines, "", errorStyle.Render(m.status))
	}
	return panel(width, height, lines...)
}
