package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"support-chat/internal/chatclient"
	"support-chat/internal/domain"
)

// relayEventMsg lleva un evento del turno en curso al loop de Update.
type relayEventMsg struct {
	ev     chatclient.Event
	events <-chan chatclient.Event
}

// waitForEvent lee el próximo evento del turno. Solo se lee hasta el evento final, así que
// un canal cerrado significa que ese evento se perdió y el turno se da por fallido.
func waitForEvent(events <-chan chatclient.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return relayEventMsg{ev: chatclient.FailedEvent{Err: chatclient.ErrTurnInterrupted}}
		}
		return relayEventMsg{ev: ev, events: events}
	}
}

// Model es el estado de la TUI. La conversación vive en la sesión;
// Update es el único que la muta.
type Model struct {
	session *chatclient.Session
	title   string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	events <-chan chatclient.Event
	cancel context.CancelFunc
	err    error

	ready  bool
	width  int
	height int
}

func NewModel(session *chatclient.Session, title string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	if title == "" {
		title = "Customer Support"
	}
	return Model{
		session: session,
		title:   title,
		input:   ti,
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 8
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
		m.input.Width = contentWidth - 6
		m.renderer = newRenderer(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case tea.KeyEsc:
			if m.session.State().Loading() {
				// corta el turno; el fallo llega como FailedEvent
				if m.cancel != nil {
					m.cancel()
				}
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			return m.submit()
		}

	case relayEventMsg:
		m.session.Apply(msg.ev)
		switch ev := msg.ev.(type) {
		case chatclient.FailedEvent:
			m.err = ev.Err
			m.finishTurn()
		case chatclient.DoneEvent:
			m.finishTurn()
		default:
			cmds = append(cmds, waitForEvent(msg.events))
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.session.State().Loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.session.State().Loading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit arranca un turno con el contenido del input. Sin turno nuevo no hace nada.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "/quit" || input == "/exit" {
		return m, tea.Quit
	}

	ctx, cancel := context.WithCancel(context.Background())
	events, ok := m.session.Submit(ctx, m.input.Value())
	if !ok {
		cancel()
		return m, nil
	}

	m.events = events
	m.cancel = cancel
	m.err = nil
	m.input.Reset()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(waitForEvent(events), m.spinner.Tick)
}

func (m *Model) finishTurn() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.events = nil
}

func (m Model) View() string {
	if !m.ready {
		return hintStyle.Render("  Initializing...")
	}
	contentWidth := m.width - 4

	header := headerStyle.Width(contentWidth).Render(
		titleStyle.Render(m.title) + hintStyle.Render("  Enter to send, Esc to quit"),
	)

	var input string
	if m.session.State().Loading() {
		input = m.spinner.View() + hintStyle.Render(" Waiting for a reply... (Esc to cancel)")
	} else {
		input = m.input.View()
	}

	sections := []string{header, m.viewport.View(), inputPanelStyle.Width(contentWidth).Render(input)}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) updateViewport() {
	var sb strings.Builder
	for i, msg := range m.session.State().Messages() {
		if i > 0 {
			sb.WriteString("\n")
		}
		if msg.Role == domain.RoleUser {
			sb.WriteString(userLabelStyle.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(assistantLabelStyle.Render("Support"))
		sb.WriteString("\n")
		sb.WriteString(m.renderMarkdown(msg.Content))
	}
	m.viewport.SetContent(sb.String())
}

// renderMarkdown usa glamour si hay renderer; ante error muestra el texto crudo.
func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil || content == "" {
		return content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

func newRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// Run inicia la TUI en pantalla alternativa hasta que el usuario sale.
func Run(session *chatclient.Session, title string) error {
	p := tea.NewProgram(
		NewModel(session, title),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
