package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/cloudchat/chat"
)

var (
	userMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	botMsgStyle   = lipgloss.NewStyle()
	errorMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	welcomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	typingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var welcomeLines = []string{
	"👋 Welcome! Ask me anything about cloud services.",
	"Or click on a floating cloud to ask a suggested question!",
}

// Transcript is the read side of a chat session.
type Transcript interface {
	Transcript() []chat.Message
	Typing() bool
}

// ChatPanel displays the transcript in a scrollable viewport and keeps the
// newest message in view.
type ChatPanel struct {
	src      Transcript
	viewport viewport.Model
	spinner  spinner.Model
	width    int
}

// NewChatPanel creates a chat panel reading from src.
func NewChatPanel(src Transcript) *ChatPanel {
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = typingStyle
	p := &ChatPanel{src: src, viewport: vp, spinner: sp}
	p.refresh()
	return p
}

// Init starts the typing indicator animation.
func (p *ChatPanel) Init() tea.Cmd {
	return p.spinner.Tick
}

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case TranscriptChangedMsg:
		p.refresh()
		p.viewport.GotoBottom()
		return p, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		if p.src.Typing() {
			atBottom := p.viewport.AtBottom()
			p.refresh()
			if atBottom {
				p.viewport.GotoBottom()
			}
		}
		return p, cmd
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
	p.viewport.GotoBottom()
}

func (p *ChatPanel) refresh() {
	p.viewport.SetContent(p.render())
}

func (p *ChatPanel) render() string {
	messages := p.src.Transcript()
	var blocks []string
	if len(messages) == 0 {
		for _, line := range welcomeLines {
			blocks = append(blocks, welcomeStyle.Render(line))
		}
	}
	for _, m := range messages {
		blocks = append(blocks, renderMessage(m, p.width))
	}
	if p.src.Typing() {
		blocks = append(blocks, p.spinner.View()+typingStyle.Render(" typing"))
	}
	return strings.Join(blocks, "\n")
}

// renderMessage wraps a message to at most three quarters of the panel.
// User messages sit on the right, bot messages on the left.
func renderMessage(m chat.Message, width int) string {
	style := botMsgStyle
	switch {
	case m.Sender == chat.SenderUser:
		style = userMsgStyle
	case m.IsError:
		style = errorMsgStyle
	}

	if width <= 0 {
		return style.Render(m.Text)
	}
	maxW := max(width*3/4, 10)
	text := m.Text
	if lipgloss.Width(text) > maxW {
		style = style.Width(maxW)
	}
	bubble := style.Render(text)
	if m.Sender == chat.SenderUser {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}
	return bubble
}
