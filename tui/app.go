package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/cloudchat/app"
)

const (
	defaultLogRatio   = 0.3
	defaultCloudRatio = 0.3
	headerHeight      = 1
)

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle      = lipgloss.NewStyle().Faint(true)
)

const hints = "tab: pick cloud · enter: send · ctrl+l: logs · /quit or ctrl+c: quit"

// Options configures the App.
type Options struct {
	Title    string
	Prompt   string
	ShowLogs bool
}

// App is the root bubbletea model. It lays out the cloud, chat, log and
// input panels and routes keys and clicks; the container does the rest.
type App struct {
	ctx       context.Context
	container *app.Container
	title     string

	cloudPanel *CloudPanel
	chatPanel  *ChatPanel
	logPanel   *LogPanel
	inputPanel *InputPanel

	showLogs      bool
	width, height int
	cloudTop      int
	cloudHeight   int
}

// NewApp creates the root model for container. ctx bounds every submission
// started from the keyboard.
func NewApp(ctx context.Context, container *app.Container, opts Options) *App {
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}
	session := container.Session()
	return &App{
		ctx:        ctx,
		container:  container,
		title:      opts.Title,
		cloudPanel: NewCloudPanel(container.Board()),
		chatPanel:  NewChatPanel(session),
		logPanel:   NewLogPanel(),
		inputPanel: NewInputPanel(opts.Prompt, session.SetDraft),
		showLogs:   opts.ShowLogs,
	}
}

// Attach forwards session and board changes to program. Notifications are
// sent from a fresh goroutine because they can fire inside Update.
func (m *App) Attach(program *tea.Program) {
	m.container.Session().OnChange(func() {
		go program.Send(TranscriptChangedMsg{})
	})
	m.container.Board().OnChange(func() {
		go program.Send(CloudsChangedMsg{})
	})
}

func (m *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.chatPanel.Init(), driftTick())
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m, m.submit()
		case "tab":
			m.cloudPanel.Next()
			return m, nil
		case "shift+tab":
			m.cloudPanel.Prev()
			return m, nil
		case "esc":
			m.cloudPanel.ClearSelection()
			return m, nil
		case "ctrl+l":
			m.showLogs = !m.showLogs
			m.recalcLayout()
			return m, nil
		case "pgup", "pgdown":
			p, cmd := m.chatPanel.Update(msg)
			m.chatPanel = p.(*ChatPanel)
			return m, cmd
		}
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p.(*InputPanel)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			msg.Y >= m.cloudTop && msg.Y < m.cloudTop+m.cloudHeight {
			m.cloudPanel.ClickAt(msg.X, msg.Y-m.cloudTop)
			return m, nil
		}
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p.(*ChatPanel)
		cmds = append(cmds, cmd)

	case LogLineMsg:
		p, cmd := m.logPanel.Update(msg)
		m.logPanel = p.(*LogPanel)
		cmds = append(cmds, cmd)

	case TranscriptChangedMsg:
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p.(*ChatPanel)
		cmds = append(cmds, cmd)

	case CloudsChangedMsg, driftTickMsg:
		p, cmd := m.cloudPanel.Update(msg)
		m.cloudPanel = p.(*CloudPanel)
		cmds = append(cmds, cmd)

	default:
		// Spinner ticks go to the chat panel, cursor blinks to the input.
		p, cmd := m.chatPanel.Update(msg)
		m.chatPanel = p.(*ChatPanel)
		cmds = append(cmds, cmd)
		ip, icmd := m.inputPanel.Update(msg)
		m.inputPanel = ip.(*InputPanel)
		cmds = append(cmds, icmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles Enter: /exit and /quit, the highlighted cloud when the box
// is empty, otherwise the draft. Plain "exit" or "quit" is sent as a question.
func (m *App) submit() tea.Cmd {
	text := strings.TrimSpace(m.inputPanel.Value())
	switch strings.ToLower(text) {
	case "/exit", "/quit":
		return tea.Quit
	case "":
		m.cloudPanel.ActivateSelected()
		return nil
	}
	if _, ok := m.container.Session().SubmitAsync(m.ctx); ok {
		m.inputPanel.Reset()
	}
	return nil
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))
	parts := []string{
		m.header(),
		m.cloudPanel.View(),
		sep,
		m.chatPanel.View(),
		sep,
	}
	if m.showLogs {
		parts = append(parts, m.logPanel.View(), sep)
	}
	parts = append(parts, m.inputPanel.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *App) header() string {
	title := titleStyle.Render(m.title)
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(hints)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + hintStyle.Render(hints)
}

func (m *App) recalcLayout() {
	const inputH = 1
	seps := 2
	if m.showLogs {
		seps++
	}

	usable := max(m.height-headerHeight-inputH-seps, 3)
	m.cloudHeight = max(int(float64(usable)*defaultCloudRatio), 1)
	m.cloudTop = headerHeight
	rest := max(usable-m.cloudHeight, 1)

	logH := 0
	if m.showLogs {
		logH = max(int(float64(rest)*defaultLogRatio), 1)
	}
	chatH := max(rest-logH, 1)

	m.cloudPanel.SetSize(m.width, m.cloudHeight)
	m.chatPanel.SetSize(m.width, chatH)
	m.logPanel.SetSize(m.width, logH)
	m.inputPanel.SetSize(m.width, inputH)
}
