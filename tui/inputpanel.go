package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const placeholder = "Type your question here..."

// InputPanel is the single-line message box. Every edit is mirrored into the
// draft sink so the session always holds what the user sees. Enter is handled
// by the App.
type InputPanel struct {
	input   textinput.Model
	onDraft func(string)
}

// NewInputPanel creates an input panel with the given prompt.
func NewInputPanel(prompt string, onDraft func(string)) *InputPanel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.Focus()
	return &InputPanel{input: ti, onDraft: onDraft}
}

func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if after := p.input.Value(); after != before {
		p.syncDraft(after)
	}
	return p, cmd
}

func (p *InputPanel) View() string {
	return p.input.View()
}

func (p *InputPanel) SetSize(width, _ int) {
	p.input.Width = max(width-len(p.input.Prompt)-1, 1)
}

// Value returns the current text.
func (p *InputPanel) Value() string { return p.input.Value() }

// Reset clears the box without touching the draft sink; the session clears
// its own draft when it accepts a submission.
func (p *InputPanel) Reset() { p.input.Reset() }

func (p *InputPanel) syncDraft(text string) {
	if p.onDraft != nil {
		p.onDraft(text)
	}
}
