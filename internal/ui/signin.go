package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"logicquest/internal/domain"
)

// SignInScreen asks for a username and an optional instructor key.
type SignInScreen struct {
	env   *Env
	form  *form
	error string
}

func NewSignInScreen(env *Env) *SignInScreen {
	f := newForm("Username", "Instructor key (optional)")
	f.inputs[1].EchoMode = textinput.EchoPassword
	return &SignInScreen{env: env, form: f}
}

func (s *SignInScreen) Tick() Nav {
	return stay()
}

func (s *SignInScreen) HandleEvent(msg tea.Msg) Nav {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return stayCmd(s.form.update(msg))
	}
	switch key.Type {
	case tea.KeyEsc:
		return pop(1)
	case tea.KeyTab, tea.KeyDown:
		return stayCmd(s.form.move(1))
	case tea.KeyShiftTab, tea.KeyUp:
		return stayCmd(s.form.move(-1))
	case tea.KeyEnter:
		if !s.form.last() {
			return stayCmd(s.form.move(1))
		}
		return s.submit()
	}
	return stayCmd(s.form.update(msg))
}

func (s *SignInScreen) submit() Nav {
	username := strings.TrimSpace(s.form.value(0))
	role, err := s.env.Service.SignIn(s.env.Ctx, username, s.form.value(1))
	switch {
	case errors.Is(err, domain.ErrUnknownUser):
		s.error = "Unknown user"
		return stay()
	case errors.Is(err, domain.ErrInvalidKey):
		s.error = "Wrong instructor key"
		return stay()
	case err != nil:
		s.error = err.Error()
		return stay()
	}
	s.env.Username = username
	s.env.Role = role
	return pop(1)
}

func (s *SignInScreen) Render(width, height int) string {
	lines := []string{titleStyle.Render("Sign In"), ""}
	lines = append(lines, s.form.lines()...)
	if s.error != "" {
		lines = append(lines, "", errorStyle.Render(s.error))
	}
	lines = append(lines, "", hintStyle.Render("tab switch field | enter sign in | esc back"))
	return panel(width, height, lines...)
}
