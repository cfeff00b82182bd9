package remote

import (
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/fireremote/internal/logging"
)

// RequestPin asks the device to display a pairing PIN on screen. The
// operator-supplied friendly name is shown alongside the PIN. A response
// with the OK sentinel means the PIN is now visible on-device; anything
// else is a pairing error with no state mutated.
func (c *Client) RequestPin() error {
	if c.address == "" {
		return NewConfigError("no target device configured")
	}
	if err := c.EnsureAwake(); err != nil {
		return NewPairingError("device did not wake for pairing")
	}

	url := c.ControlBaseURL + "/v1/FireTV/pin/display"
	err := c.postSentinel(url, pinDisplayRequest{FriendlyName: c.friendlyName}, false)
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return NewPairingError("device refused to display pairing PIN")
	}
	logging.Info("Pairing PIN displayed on device", zap.String("address", c.address))
	return nil
}

// VerifyPin submits the on-screen PIN. The device's response reuses the
// description field: when verification succeeds it holds the new pairing
// token, when it fails it holds a status message or nothing. Only a
// non-empty description on a successful exchange is a token.
//
// On token receipt the credentials are persisted, the client is marked
// paired, the Paired event fires, and a device-info refresh is kicked off.
// On failure no pairing state changes and PairingFailed fires.
func (c *Client) VerifyPin(pin string) error {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return NewConfigError("PIN must not be empty")
	}
	if c.address == "" {
		return NewConfigError("no target device configured")
	}
	if err := c.EnsureAwake(); err != nil {
		return NewPairingError("device did not wake for pairing")
	}

	url := c.ControlBaseURL + "/v1/FireTV/pin/verify"
	token, err := c.postCommand(url, pinVerifyRequest{Pin: pin}, false)
	if err != nil {
		c.notifyPairingFailed("pairing request failed")
		return err
	}
	if token == "" {
		c.notifyPairingFailed("device rejected PIN")
		return NewPairingError("device rejected PIN")
	}

	c.mu.Lock()
	c.token = token
	c.paired = true
	store := c.store
	c.mu.Unlock()

	if store != nil {
		if err := store.SaveCredentials(c.address, token); err != nil {
			logging.Error("Failed to persist pairing credentials", zap.Error(err))
		}
	}

	logging.Info("Device paired", zap.String("address", c.address))
	if c.events.Paired != nil {
		c.events.Paired()
	}

	// Pairing unlocks the status endpoints; refresh device info in the
	// background so the UI has something to show
	go func() {
		if _, err := c.GetStatus(); err != nil {
			logging.Debug("Post-pairing status refresh failed", zap.Error(err))
		}
	}()

	return nil
}

// Unpair drops the pairing token locally and from persistence. The device
// keeps its side of the pairing; re-pairing issues a fresh token.
func (c *Client) Unpair() error {
	c.mu.Lock()
	c.token = ""
	c.paired = false
	store := c.store
	c.mu.Unlock()

	if store != nil {
		return store.ClearCredentials()
	}
	return nil
}

func (c *Client) notifyPairingFailed(reason string) {
	logging.Warn("Pairing failed", zap.String("reason", reason))
	if c.events.PairingFailed != nil {
		c.events.PairingFailed(reason)
	}
}
