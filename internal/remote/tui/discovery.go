package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fireremote/internal/discovery"
)

// scanCompleteMsg carries the result of an mDNS discovery session
type scanCompleteMsg struct {
	devices []*discovery.Device
	err     error
}

// DiscoveryModel is the device discovery screen: it runs an mDNS scan and
// lists the Fire TV devices that answered
type DiscoveryModel struct {
	Spinner  spinner.Model
	Scanning bool
	Devices  []*discovery.Device
	Cursor   int
	Err      error

	QuitRequested bool
	selected      *discovery.Device

	Width  int
	Height int
}

// NewDiscoveryModel creates the discovery screen model
func NewDiscoveryModel() DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return DiscoveryModel{
		Spinner:  s,
		Scanning: true,
	}
}

// SelectedDevice returns the device chosen by the user, or nil
func (m DiscoveryModel) SelectedDevice() *discovery.Device {
	return m.selected
}

// Init starts the scan and the spinner
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, runScan())
}

// runScan performs a blocking discovery session off the UI goroutine
func runScan() tea.Cmd {
	return func() tea.Msg {
		engine := discovery.NewEngine(discovery.Events{})
		devices, err := engine.Scan()
		return scanCompleteMsg{devices: devices, err: err}
	}
}

// Update handles discovery screen input and scan results
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case scanCompleteMsg:
		m.Scanning = false
		m.Devices = msg.devices
		m.Err = msg.err
		m.Cursor = 0
		return m, nil

	case tea.KeyMsg:
		if m.Scanning {
			if msg.String() == "q" || msg.String() == "esc" {
				m.QuitRequested = true
			}
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Devices)-1 {
				m.Cursor++
			}
		case "enter":
			if m.Cursor < len(m.Devices) {
				m.selected = m.Devices[m.Cursor]
			}
		case "r":
			m.Scanning = true
			m.Devices = nil
			m.Err = nil
			return m, tea.Batch(m.Spinner.Tick, runScan())
		case "q", "esc":
			m.QuitRequested = true
		}
	}

	return m, nil
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Discover Fire TV Devices"))
	b.WriteString("\n")

	switch {
	case m.Scanning:
		b.WriteString(fmt.Sprintf("%s Scanning the local network...\n", m.Spinner.View()))
		b.WriteString(SubtitleStyle.Render("Devices answer within a few seconds"))
		return RenderApplicationContainer(b.String(), "q: quit", m.Width, m.Height)

	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Discovery failed: %v", m.Err)))
		b.WriteString("\n")
		return RenderApplicationContainer(b.String(), "r: rescan • q: quit", m.Width, m.Height)

	case len(m.Devices) == 0:
		b.WriteString("No devices found.\n\n")
		b.WriteString(SubtitleStyle.Render("Make sure the Fire TV is on the same network and powered on."))
		return RenderApplicationContainer(b.String(), "r: rescan • q: quit", m.Width, m.Height)
	}

	b.WriteString(fmt.Sprintf("Found %d device(s):\n\n", len(m.Devices)))
	for i, d := range m.Devices {
		line := fmt.Sprintf("%s  %s:%d", d.Name, d.Address, d.Port)
		if d.Model != "" {
			line += "  " + SubtitleStyle.Render(d.Model)
		}
		b.WriteString(RenderListItem(line, i == m.Cursor))
		b.WriteString("\n")
	}

	return RenderApplicationContainer(
		b.String(),
		"↑/↓: select • enter: choose • r: rescan • q: quit",
		m.Width, m.Height,
	)
}
