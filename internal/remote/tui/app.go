package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fireremote/internal/config"
	"github.com/muurk/fireremote/internal/discovery"
	"github.com/muurk/fireremote/internal/remote"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenPairing   Screen = "pairing"
	ScreenRemote    Screen = "remote"
)

// Messages for screen transitions and engine events
type screenTransitionMsg struct {
	screen Screen
}

// repairRequiredMsg arrives when the device invalidated our token out of
// band; the app drops back to the pairing screen
type repairRequiredMsg struct{}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	// Screen models
	DiscoveryModel DiscoveryModel
	PairingModel   PairingModel
	RemoteModel    RemoteModel

	// Shared application state
	Registry *config.Registry
	Client   *remote.Client

	// UI state
	Width  int
	Height int

	// send delivers engine-event messages into the running program
	send func(tea.Msg)
}

// NewAppModel creates the application model. It starts on the remote screen
// when a paired target exists, on the pairing screen when a target is
// selected but unpaired, and on discovery otherwise.
func NewAppModel(reg *config.Registry, send func(tea.Msg)) AppModel {
	model := AppModel{
		Registry: reg,
		send:     send,
	}

	switch {
	case reg.Paired():
		model.CurrentScreen = ScreenRemote
	case reg.HasTarget():
		model.CurrentScreen = ScreenPairing
	default:
		model.CurrentScreen = ScreenDiscovery
	}

	if reg.HasTarget() {
		model.Client = model.buildClient(reg.Target.Address)
	}

	switch model.CurrentScreen {
	case ScreenDiscovery:
		model.DiscoveryModel = NewDiscoveryModel()
	case ScreenPairing:
		model.PairingModel = NewPairingModel(model.Client)
	case ScreenRemote:
		model.RemoteModel = NewRemoteModel(model.Client, reg)
	}

	return model
}

// buildClient constructs the control client for an address from the
// registry's preferences, restoring any persisted token
func (m *AppModel) buildClient(address string) *remote.Client {
	c := remote.NewClient(address)
	c.SetCredentialStore(m.Registry)

	prefs := m.Registry.Preferences
	if prefs != nil {
		c.SetFriendlyName(prefs.FriendlyName)
		c.SetAutoWake(prefs.AutoWake)
		if prefs.RequestTimeout > 0 {
			c.SetTimeout(secondsToDuration(prefs.RequestTimeout))
		}
		if prefs.CommandSpacingMS > 0 {
			c.SetCommandSpacing(millisToDuration(prefs.CommandSpacingMS))
		}
	}
	if m.Registry.Target != nil && m.Registry.Target.Address == address {
		c.RestoreToken(m.Registry.Target.Token)
	}

	send := m.send
	c.SetEvents(remote.Events{
		RepairRequired: func() { send(repairRequiredMsg{}) },
	})
	return c
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenPairing:
		return m.PairingModel.Init()
	case ScreenRemote:
		return m.RemoteModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DiscoveryModel.Width = msg.Width
		m.DiscoveryModel.Height = msg.Height
		m.PairingModel.Width = msg.Width
		m.PairingModel.Height = msg.Height
		m.RemoteModel.Width = msg.Width
		m.RemoteModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screenTransitionMsg:
		return m.transitionTo(msg.screen)

	case repairRequiredMsg:
		// The token died under us; the remote screen is useless until the
		// user re-pairs
		if m.CurrentScreen == ScreenRemote {
			return m.transitionTo(ScreenPairing)
		}
		return m, nil
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		if device := m.DiscoveryModel.SelectedDevice(); device != nil {
			return m.selectDevice(device)
		}
		if m.DiscoveryModel.QuitRequested {
			return m, tea.Quit
		}

	case ScreenPairing:
		updated, c := m.PairingModel.Update(msg)
		m.PairingModel = updated.(PairingModel)
		cmd = c

		if m.PairingModel.PairedOK {
			return m.transitionTo(ScreenRemote)
		}
		if m.PairingModel.BackRequested {
			return m.transitionTo(ScreenDiscovery)
		}

	case ScreenRemote:
		updated, c := m.RemoteModel.Update(msg)
		m.RemoteModel = updated.(RemoteModel)
		cmd = c

		if m.RemoteModel.DiscoverRequested {
			return m.transitionTo(ScreenDiscovery)
		}
		if m.RemoteModel.PairRequested {
			return m.transitionTo(ScreenPairing)
		}
		if m.RemoteModel.QuitRequested {
			return m, tea.Quit
		}
	}

	return m, cmd
}

// selectDevice records the chosen target in the registry and moves on to
// pairing (or straight to the remote if this target is already paired)
func (m AppModel) selectDevice(device *discovery.Device) (tea.Model, tea.Cmd) {
	m.Registry.SetTarget(device.Address, device.Name)
	m.Registry.RememberDevice(device.Address, device.Name, device.Model)
	_ = m.Registry.Save()

	m.Client = m.buildClient(device.Address)

	if m.Registry.Paired() {
		return m.transitionTo(ScreenRemote)
	}
	return m.transitionTo(ScreenPairing)
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenDiscovery:
		m.DiscoveryModel = NewDiscoveryModel()
		m.DiscoveryModel.Width = m.Width
		m.DiscoveryModel.Height = m.Height
		cmd = m.DiscoveryModel.Init()

	case ScreenPairing:
		m.PairingModel = NewPairingModel(m.Client)
		m.PairingModel.Width = m.Width
		m.PairingModel.Height = m.Height
		cmd = m.PairingModel.Init()

	case ScreenRemote:
		m.RemoteModel = NewRemoteModel(m.Client, m.Registry)
		m.RemoteModel.Width = m.Width
		m.RemoteModel.Height = m.Height
		cmd = m.RemoteModel.Init()
	}

	return m, cmd
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenPairing:
		return m.PairingModel.View()
	case ScreenRemote:
		return m.RemoteModel.View()
	default:
		return "Unknown screen"
	}
}
