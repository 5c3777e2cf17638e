package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"logicquest/internal/domain"
)

// LeaderboardScreen shows the top scores.
type LeaderboardScreen struct {
	table table.Model
	error string
}

func NewLeaderboardScreen(env *Env) *LeaderboardScreen {
	s := &LeaderboardScreen{}
	lb, err := env.Service.Leaderboard(env.Ctx)
	if err != nil {
		s.error = err.Error()
		lb = domain.Leaderboard{}
	}
	s.table = leaderboardTable(lb)
	return s
}

func leaderboardTable(lb domain.Leaderboard) table.Model {
	rows := make([]table.Row, 0, len(lb.Entries))
	for i, e := range lb.Entries {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), e.Username, strconv.Itoa(e.Score)})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Player", Width: 20},
			{Title: "Score", Width: 7},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return t
}

func (s *LeaderboardScreen) Tick() Nav {
	return stay()
}

func (s *LeaderboardScreen) HandleEvent(msg tea.Msg) Nav {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "enter", "q", " ":
			return pop(1)
		}
	}
	return stay()
}

func (s *LeaderboardScreen) Render(width, height int) string {
	lines := []string{titleStyle.Render("Leaderboard"), "", s.table.View()}
	if s.error != "" {
		lines = append(lines, "", errorStyle.Render(s.error))
	}
	lines = append(lines, "", hintStyle.Render("enter back"))
	return panel(width, height, lines...)
}
