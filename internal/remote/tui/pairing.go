package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fireremote/internal/remote"
)

// Pairing flow phases
type pairingPhase int

const (
	phaseRequesting pairingPhase = iota // waiting for the device to show the PIN
	phaseEnterPin                       // PIN visible on-device, waiting for input
	phaseVerifying                      // PIN submitted, waiting for the device
	phaseFailed                         // exchange rejected
)

// Messages for async pairing operations
type pinDisplayedMsg struct{ err error }
type pinVerifiedMsg struct{ err error }

// PairingModel is the PIN pairing screen
type PairingModel struct {
	Client  *remote.Client
	Spinner spinner.Model
	Input   textinput.Model

	phase pairingPhase
	Err   error

	PairedOK      bool
	BackRequested bool

	Width  int
	Height int
}

// NewPairingModel creates the pairing screen model
func NewPairingModel(client *remote.Client) PairingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "PIN"
	input.CharLimit = 8
	input.Width = 12
	input.Focus()

	return PairingModel{
		Client:  client,
		Spinner: s,
		Input:   input,
		phase:   phaseRequesting,
	}
}

// Init asks the device to display the PIN
func (m PairingModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.requestPin())
}

func (m PairingModel) requestPin() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		return pinDisplayedMsg{err: client.RequestPin()}
	}
}

func (m PairingModel) verifyPin(pin string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		return pinVerifiedMsg{err: client.VerifyPin(pin)}
	}
}

// Update handles pairing screen input and async results
func (m PairingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.phase != phaseRequesting && m.phase != phaseVerifying {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case pinDisplayedMsg:
		if msg.err != nil {
			m.phase = phaseFailed
			m.Err = msg.err
			return m, nil
		}
		m.phase = phaseEnterPin
		return m, textinput.Blink

	case pinVerifiedMsg:
		if msg.err != nil {
			m.phase = phaseFailed
			m.Err = msg.err
			return m, nil
		}
		m.PairedOK = true
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case phaseEnterPin:
			switch msg.String() {
			case "enter":
				pin := strings.TrimSpace(m.Input.Value())
				if pin == "" {
					return m, nil
				}
				m.phase = phaseVerifying
				return m, tea.Batch(m.Spinner.Tick, m.verifyPin(pin))
			case "esc":
				m.BackRequested = true
				return m, nil
			}
			var cmd tea.Cmd
			m.Input, cmd = m.Input.Update(msg)
			return m, cmd

		case phaseFailed:
			switch msg.String() {
			case "r":
				// Restart the handshake: the device shows a fresh PIN
				m.phase = phaseRequesting
				m.Err = nil
				m.Input.Reset()
				return m, tea.Batch(m.Spinner.Tick, m.requestPin())
			case "esc", "q":
				m.BackRequested = true
			}

		default:
			if msg.String() == "esc" {
				m.BackRequested = true
			}
		}
	}

	return m, nil
}

// View renders the pairing screen
func (m PairingModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Pair with Fire TV"))
	b.WriteString("\n")
	if m.Client != nil {
		b.WriteString(SubtitleStyle.Render("Target: " + m.Client.Address()))
		b.WriteString("\n\n")
	}

	switch m.phase {
	case phaseRequesting:
		b.WriteString(fmt.Sprintf("%s Asking the device to display a PIN...", m.Spinner.View()))
		return RenderApplicationContainer(b.String(), "esc: back", m.Width, m.Height)

	case phaseEnterPin:
		b.WriteString("Enter the PIN shown on your TV screen:\n\n")
		b.WriteString(m.Input.View())
		b.WriteString("\n")
		return RenderApplicationContainer(b.String(), "enter: verify • esc: back", m.Width, m.Height)

	case phaseVerifying:
		b.WriteString(fmt.Sprintf("%s Verifying PIN...", m.Spinner.View()))
		return RenderApplicationContainer(b.String(), "", m.Width, m.Height)

	case phaseFailed:
		b.WriteString(RenderError(fmt.Sprintf("Pairing failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render("The device shows a new PIN on every attempt."))
		return RenderApplicationContainer(b.String(), "r: retry • esc: back", m.Width, m.Height)
	}

	return RenderApplicationContainer(b.String(), "", m.Width, m.Height)
}
