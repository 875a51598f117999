package tui

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hookchat/hookchat/internal/chat"
	"github.com/hookchat/hookchat/internal/config"
	"github.com/hookchat/hookchat/internal/render"
)

// welcomeText is shown while the conversation is empty
const welcomeText = "Say hi to start the conversation!"

// toastDuration is how long a toast stays on screen
const toastDuration = 5 * time.Second

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// Animation tick message
type animationTickMsg time.Time

// toastExpiredMsg dismisses the toast with the matching sequence number
type toastExpiredMsg struct {
	seq int
}

type toastKind int

const (
	toastError toastKind = iota
	toastInfo
)

type toast struct {
	kind  toastKind
	title string
	body  string
}

// Model is the chat widget. It renders the controller state and forwards
// input to it; it never mutates the conversation itself.
type Model struct {
	ctrl   *chat.Controller
	bridge *Bridge
	cfg    config.Config
	host   string

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	state          chat.State
	dark           bool
	ready          bool
	animationFrame int
	toast          *toast
	toastSeq       int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat model over ctrl. bridge must be attached to
// ctrl and registered as its notifier.
func NewChatModel(ctrl *chat.Controller, bridge *Bridge, cfg config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points

	m := Model{
		ctrl:     ctrl,
		bridge:   bridge,
		cfg:      cfg,
		host:     webhookHost(cfg.WebhookURL),
		textarea: ta,
		spinner:  s,
		state:    ctrl.Snapshot(),
		dark:     cfg.DarkMode,
	}
	m.applyTheme()
	m.textarea.SetValue(m.state.Draft)

	return m
}

// webhookHost returns the host part of the endpoint for the header
func webhookHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// applyTheme activates the palette for the current mode and restyles the input
func (m *Model) applyTheme() {
	theme := render.ThemeFor(m.dark, m.cfg.TUITheme, m.cfg.LightTheme)
	render.SetTUITheme(theme.Name)
	UpdateTheme()

	m.textarea.FocusedStyle.CursorLine = lipgloss.NewStyle()
	m.textarea.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	m.textarea.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	m.textarea.BlurredStyle = m.textarea.FocusedStyle
	m.spinner.Style = typingStyle
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.bridge.wait(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+t":
			m.dark = !m.dark
			m.applyTheme()
			m.updateViewport()
			return m, nil

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			if m.state.Awaiting {
				return m, nil
			}
			m.ctrl.SetDraft(m.textarea.Value())
			if !m.ctrl.SubmitDraft() {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.refresh()

		case "alt+enter":
			if !m.state.Awaiting {
				m.textarea.InsertString("\n")
				m.ctrl.SetDraft(m.textarea.Value())
			}
			return m, nil

		case "up", "down", "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		// Input is frozen while a reply is awaited
		if !m.state.Awaiting {
			m.textarea, cmd = m.textarea.Update(msg)
			m.ctrl.SetDraft(m.textarea.Value())
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case stateChangedMsg:
		cmds = append(cmds, m.refresh(), m.bridge.wait())

	case notificationMsg:
		body := msg.Description
		if m.cfg.Verbose && msg.Err != nil {
			body += "\n" + FormatError(msg.Err)
		}
		cmds = append(cmds, m.showToast(toastError, msg.Title, body), m.bridge.wait())

	case bridgeClosedMsg:
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}

	case spinner.TickMsg:
		if m.state.Awaiting {
			m.spinner, cmd = m.spinner.Update(msg)
			m.updateViewport()
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.state.Awaiting {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// refresh re-reads the controller state. Entering the awaiting state starts
// the typing animation; leaving it gives focus back to the input.
func (m *Model) refresh() tea.Cmd {
	prev := m.state
	m.state = m.ctrl.Snapshot()

	if !sameMessages(prev.Messages, m.state.Messages) {
		m.updateViewport()
		m.viewport.GotoBottom()
	}

	switch {
	case m.state.Awaiting && !prev.Awaiting:
		m.textarea.Blur()
		m.animationFrame = 0
		return tea.Batch(m.spinner.Tick, animationTick())
	case !m.state.Awaiting && prev.Awaiting:
		return m.textarea.Focus()
	}
	return nil
}

func sameMessages(a, b []chat.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// showToast displays a toast and schedules its dismissal
func (m *Model) showToast(kind toastKind, title, body string) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = &toast{kind: kind, title: title, body: body}

	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// copyLastReply puts the latest bot reply on the system clipboard
func (m *Model) copyLastReply() tea.Cmd {
	last, ok := m.ctrl.LastReply()
	if !ok {
		return m.showToast(toastInfo, "Nothing to copy", "There is no bot reply yet.")
	}
	if err := clipboardWrite(last.Text); err != nil {
		slog.Debug("clipboard write failed", "error", err)
		return m.showToast(toastError, "Copy failed", err.Error())
	}
	return m.showToast(toastInfo, "Copied", "Last reply copied to the clipboard.")
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// HEADER
	mode := "☀ " + render.GetTUITheme().Name
	if m.dark {
		mode = "☾ " + render.GetTUITheme().Name
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ HookChat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.host),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(mode),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// MESSAGES
	var messagesContent string
	if len(m.state.Messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// TOAST
	if m.toast != nil {
		sections = append(sections, m.renderToast(contentWidth))
	}

	// INPUT
	var inputContent string
	if m.state.Awaiting {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// STATUS BAR
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the empty conversation
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeStyle.Width(width).Render(welcomeText),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderToast(width int) string {
	style := toastInfoStyle
	if m.toast.kind == toastError {
		style = toastErrorStyle
	}

	content := toastTitleStyle.Render(m.toast.title)
	if m.toast.body != "" {
		content += "\n" + toastBodyStyle.Render(m.toast.body)
	}
	return style.Width(width - 2).Render(content)
}

// renderLoadingAnimation renders the waiting indicator shown in place of the input
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Waiting for reply ")

	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+T", "Theme"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	bubbleWidth := m.viewport.Width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	opts := render.OptionsFromConfig(m.cfg, m.dark, bubbleWidth-4)

	var content strings.Builder
	for i, msg := range m.state.Messages {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.Sender == chat.SenderUser:
			block := lipgloss.JoinVertical(lipgloss.Right,
				userLabelStyle.Render("You"),
				userBubbleStyle.Width(bubbleWidth).Render(msg.Text),
			)
			content.WriteString(lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block))

		case msg.Pending:
			content.WriteString(botLabelStyle.Render("Bot") + "\n")
			content.WriteString(botBubbleStyle.Render(m.spinner.View()))

		default:
			content.WriteString(botLabelStyle.Render("Bot") + "\n")
			content.WriteString(botBubbleStyle.Width(bubbleWidth).Render(render.Reply(msg.Text, opts)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat widget with a fresh conversation over exchanger
func RunChat(exchanger chat.Exchanger, cfg config.Config, logger *slog.Logger) error {
	bridge := NewBridge()
	defer bridge.Close()

	ctrl := chat.New(exchanger,
		chat.WithNotifier(bridge),
		chat.WithLogger(logger),
	)
	detach := bridge.Attach(ctrl)
	defer detach()

	p := tea.NewProgram(
		NewChatModel(ctrl, bridge, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
