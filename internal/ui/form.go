package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical list of text inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels ...string) *form {
	f := &form{labels: labels}
	for _, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 200
		in.Width = 40
		f.inputs = append(f.inputs, in)
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = moveCursor(f.focus, delta, len(f.inputs))
	return f.inputs[f.focus].Focus()
}

// update feeds msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) lines() []string {
	out := make([]string, 0, 2*len(f.inputs))
	for i, in := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			label = selectedStyle.Render(label)
		}
		out = append(out, label, in.View())
	}
	return out
}
