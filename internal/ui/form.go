package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// credForm is a small vertical form of labelled text inputs. Fields labelled
// "password" are masked. Used by the login, register, and scraper pages.
type credForm struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newCredForm(labels ...string) credForm {
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		if strings.Contains(strings.ToLower(label), "password") {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	return credForm{labels: labels, inputs: inputs}
}

// next advances focus to the following field, wrapping around.
func (f *credForm) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *credForm) update(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (f *credForm) values() []string {
	vals := make([]string, len(f.inputs))
	for i := range f.inputs {
		vals[i] = strings.TrimSpace(f.inputs[i].Value())
	}
	return vals
}

func (f *credForm) complete() bool {
	for _, v := range f.values() {
		if v == "" {
			return false
		}
	}
	return true
}

func (f *credForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f *credForm) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", f.labels[i], in.View()))
	}
	return b.String()
}
