package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

var pauseItems = []string{"Resume", "Save Game", "Exit"}

// PauseScreen is the modal menu over a paused game.
type PauseScreen struct {
	env     *Env
	game    *GameScreen
	cursor  int
	message string
	failed  bool
}

func NewPauseScreen(env *Env, game *GameScreen) *PauseScreen {
	return &PauseScreen{env: env, game: game}
}

// Tick does nothing: the game below is frozen while the modal is open.
func (p *PauseScreen) Tick() Nav {
	return stay()
}

func (p *PauseScreen) HandleEvent(msg tea.Msg) Nav {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return stay()
	}
	switch key.String() {
	case "up", "k":
		p.cursor = moveCursor(p.cursor, -1, len(pauseItems))
	case "down", "j", "tab":
		p.cursor = moveCursor(p.cursor, 1, len(pauseItems))
	case "esc":
		return p.resume()
	case "enter", " ":
		return p.choose(pauseItems[p.cursor])
	}
	return stay()
}

func (p *PauseScreen) choose(item string) Nav {
	switch item {
	case "Resume":
		return p.resume()
	case "Save Game":
		if err := p.game.Session().SaveProgress(p.env.Ctx); err != nil {
			p.message, p.failed = "Could not save: "+err.Error(), true
			return stay()
		}
		p.message, p.failed = "Game has been saved", false
	case "Exit":
		// pause and game leave together; the game flushes on close
		return pop(2)
	}
	return stay()
}

func (p *PauseScreen) resume() Nav {
	_ = p.game.Session().Resume()
	return pop(1)
}

func (p *PauseScreen) Render(width, height int) string {
	lines := []string{titleStyle.Render("Paused"), ""}
	lines = append(lines, menuLines(pauseItems, p.cursor)...)
	if p.message != "" {
		style := okStyle
		if p.failed {
			style = errorStyle
		}
		lines = append(lines, "", style.Render(p.message))
	}
	return panel(width, height, lines...)
}
