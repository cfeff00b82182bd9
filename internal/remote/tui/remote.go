package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fireremote/internal/config"
	"github.com/muurk/fireremote/internal/remote"
)

// commandResultMsg reports the outcome of an async command send
type commandResultMsg struct {
	label string
	err   error
}

// RemoteModel is the main remote-control screen: a key grid driven by the
// keyboard, with an inline text entry mode for typing on the device
type RemoteModel struct {
	Client   *remote.Client
	Registry *config.Registry

	// TextMode switches the keyboard over to the text input
	TextMode  bool
	TextInput textinput.Model

	// LastPressed names the key currently highlighted in the grid
	LastPressed string
	LastErr     error

	DiscoverRequested bool
	PairRequested     bool
	QuitRequested     bool

	Width  int
	Height int
}

// NewRemoteModel creates the remote screen model
func NewRemoteModel(client *remote.Client, reg *config.Registry) RemoteModel {
	input := textinput.New()
	input.Placeholder = "text to type on the device"
	input.CharLimit = 120
	input.Width = 40

	return RemoteModel{
		Client:    client,
		Registry:  reg,
		TextInput: input,
	}
}

// Init does nothing; the remote screen is purely input-driven
func (m RemoteModel) Init() tea.Cmd {
	return nil
}

// sendKey dispatches a key press off the UI goroutine
func (m RemoteModel) sendKey(key remote.Key, label string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		return commandResultMsg{label: label, err: client.SendKey(key)}
	}
}

// sendMedia dispatches a media action off the UI goroutine
func (m RemoteModel) sendMedia(action remote.MediaAction, label string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		return commandResultMsg{label: label, err: client.SendMedia(action, 0, 0)}
	}
}

// sendText dispatches a typed string off the UI goroutine
func (m RemoteModel) sendText(text string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		return commandResultMsg{label: "text", err: client.SendText(text)}
	}
}

// Update handles remote screen input and command results
func (m RemoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commandResultMsg:
		m.LastPressed = ""
		m.LastErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.TextMode {
			return m.updateTextMode(msg)
		}
		return m.updateKeyGrid(msg)
	}

	return m, nil
}

// updateTextMode handles input while the text entry field is focused
func (m RemoteModel) updateTextMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.TextInput.Value()
		m.TextMode = false
		m.TextInput.Reset()
		m.TextInput.Blur()
		if text == "" {
			return m, nil
		}
		m.LastPressed = "text"
		return m, m.sendText(text)
	case "esc":
		m.TextMode = false
		m.TextInput.Reset()
		m.TextInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.TextInput, cmd = m.TextInput.Update(msg)
	return m, cmd
}

// updateKeyGrid maps keyboard input to remote commands
func (m RemoteModel) updateKeyGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	press := func(key remote.Key, label string) (tea.Model, tea.Cmd) {
		m.LastPressed = label
		m.LastErr = nil
		return m, m.sendKey(key, label)
	}
	media := func(action remote.MediaAction, label string) (tea.Model, tea.Cmd) {
		m.LastPressed = label
		m.LastErr = nil
		return m, m.sendMedia(action, label)
	}

	switch msg.String() {
	case "up":
		return press(remote.KeyDPadUp, "↑")
	case "down":
		return press(remote.KeyDPadDown, "↓")
	case "left":
		return press(remote.KeyDPadLeft, "←")
	case "right":
		return press(remote.KeyDPadRight, "→")
	case "enter":
		return press(remote.KeySelect, "OK")
	case "h":
		return press(remote.KeyHome, "Home")
	case "b", "backspace":
		return press(remote.KeyBack, "Back")
	case "m":
		return press(remote.KeyMenu, "Menu")
	case " ":
		return media(remote.MediaPlay, "Play")
	case "p":
		return media(remote.MediaPause, "Pause")
	case "[":
		return media(remote.MediaScanBackward, "Rew")
	case "]":
		return media(remote.MediaScanForward, "FF")
	case "t":
		m.TextMode = true
		m.TextInput.Focus()
		return m, textinput.Blink
	case "d":
		m.DiscoverRequested = true
		return m, nil
	case "P":
		m.PairRequested = true
		return m, nil
	case "q", "esc":
		m.QuitRequested = true
		return m, nil
	}

	return m, nil
}

// button renders one labelled key in the grid, highlighted while in flight
func (m RemoteModel) button(label string) string {
	if m.LastPressed == label {
		return PressedButtonStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

// View renders the remote screen
func (m RemoteModel) View() string {
	var b strings.Builder

	name := m.Client.Address()
	if m.Registry.Target != nil && m.Registry.Target.Name != "" {
		name = m.Registry.Target.Name
	}
	b.WriteString(RenderTitle("Remote: " + name))

	dpad := lipgloss.JoinVertical(
		lipgloss.Center,
		m.button("↑"),
		lipgloss.JoinHorizontal(lipgloss.Center, m.button("←"), m.button("OK"), m.button("→")),
		m.button("↓"),
	)
	system := lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.button("Back"), m.button("Home"), m.button("Menu"),
	)
	transport := lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.button("Rew"), m.button("Play"), m.button("Pause"), m.button("FF"),
	)

	b.WriteString(lipgloss.JoinVertical(lipgloss.Center, dpad, system, transport))
	b.WriteString("\n\n")

	if m.TextMode {
		b.WriteString("Type text, enter to send:\n")
		b.WriteString(m.TextInput.View())
		b.WriteString("\n")
	}

	switch {
	case m.LastErr != nil:
		b.WriteString(RenderError(fmt.Sprintf("%v", m.LastErr)))
		b.WriteString("\n")
	case m.LastPressed != "":
		b.WriteString(StatusStyle.Render("Sending " + m.LastPressed + "..."))
		b.WriteString("\n")
	}

	state := "unpaired"
	if m.Client.Paired() {
		state = "paired"
	}
	footer := state + " • arrows/enter: navigate • h/b/m: home/back/menu • space/p/[/]: media • t: text • d: discover • P: re-pair • q: quit"
	if m.TextMode {
		footer = "enter: send • esc: cancel"
	}
	return RenderApplicationContainer(b.String(), footer, m.Width, m.Height)
}
