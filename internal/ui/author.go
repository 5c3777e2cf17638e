package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"logicquest/internal/app"
	"logicquest/internal/domain"
)

// AuthorScreen lets an instructor append a question to the running dataset.
type AuthorScreen struct {
	env     *Env
	session *app.Session
	form    *form
	error   string
}

func NewAuthorScreen(env *Env, session *app.Session) *AuthorScreen {
	return &AuthorScreen{
		env:     env,
		session: session,
		form:    newForm("Question", "Options (separated by |)", "Answer", "Difficulty"),
	}
}

func (a *AuthorScreen) Tick() Nav {
	return stay()
}

func (a *AuthorScreen) HandleEvent(msg tea.Msg) Nav {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return stayCmd(a.form.update(msg))
	}
	switch key.Type {
	case tea.KeyEsc:
		return pop(1)
	case tea.KeyTab, tea.KeyDown:
		return stayCmd(a.form.move(1))
	case tea.KeyShiftTab, tea.KeyUp:
		return stayCmd(a.form.move(-1))
	case tea.KeyEnter:
		if !a.form.last() {
			return stayCmd(a.form.move(1))
		}
		return a.submit()
	}
	return stayCmd(a.form.update(msg))
}

// parseQuestion reads the form; bank validation happens in the service.
func (a *AuthorScreen) parseQuestion() (domain.Question, string) {
	q := domain.Question{
		Text:   strings.TrimSpace(a.form.value(0)),
		Answer: strings.TrimSpace(a.form.value(2)),
	}
	for _, opt := range strings.Split(a.form.value(1), "|") {
		if opt = strings.TrimSpace(opt); opt != "" {
			q.Options = append(q.Options, opt)
		}
	}
	if q.Text == "" {
		return q, "Question text is required"
	}
	weight, err := strconv.Atoi(strings.TrimSpace(a.form.value(3)))
	if err != nil || weight <= 0 {
		return q, "Difficulty must be a positive number"
	}
	q.Difficulty = weight
	return q, ""
}

func (a *AuthorScreen) submit() Nav {
	q, problem := a.parseQuestion()
	if problem != "" {
		a.error = problem
		return stay()
	}
	b, err := a.env.Service.AddQuestion(a.env.Ctx, a.env.Dataset, q)
	if err != nil {
		a.error = err.Error()
		return stay()
	}
	a.session.ReplaceBank(b)
	a.env.Log.Info("question authored", zap.String("user", a.env.Username), zap.Int("questions", b.Len()))
	return pop(1)
}

func (a *AuthorScreen) Render(width, height int) string {
	lines := []string{titleStyle.Render("Add Question"), ""}
	lines = append(lines, a.form.lines()...)
	if a.error != "" {
		lines = append(lines, "", errorStyle.Render(a.error))
	}
	lines = append(lines, "", hintStyle.Render("tab next field | enter on the last field saves | esc cancel"))
	return panel(width, height, lines...)
}
