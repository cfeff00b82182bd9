package remote

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fireremote/internal/logging"
)

// SendKey issues a logical key press. Navigation and system keys route
// through the rate-limited queue so rapid repeated input cannot flood the
// device. Directional/selection keys become a down/up POST pair; system
// keys are a single POST.
func (c *Client) SendKey(key Key) error {
	if c.address == "" {
		return NewConfigError("no target device configured")
	}

	return c.queue.enqueue(func() error {
		if err := c.EnsureAwake(); err != nil {
			return err
		}
		if directionalKeys[key] {
			return c.sendKeyPair(key)
		}
		return c.postSentinel(c.commandURL(string(key)), nil, true)
	})
}

// sendKeyPair sends the keyDown marker, waits the fixed short delay, then
// sends keyUp. A failed down phase short-circuits; the up phase is never
// sent for a key the device did not see go down.
func (c *Client) sendKeyPair(key Key) error {
	url := c.commandURL(string(key))

	if err := c.postSentinel(url, keyRequest{KeyActionType: keyActionDown}, true); err != nil {
		return err
	}
	time.Sleep(c.KeyUpDelay)
	return c.postSentinel(url, keyRequest{KeyActionType: keyActionUp}, true)
}

// SendMedia issues a media transport action. Media commands dispatch
// directly rather than through the key queue; the device handles transport
// actions on a separate, uncontended path.
func (c *Client) SendMedia(action MediaAction, duration, speed int) error {
	if c.address == "" {
		return NewConfigError("no target device configured")
	}
	if err := c.EnsureAwake(); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/v1/media?action=%s", c.ControlBaseURL, url.QueryEscape(string(action)))
	var payload any
	if duration > 0 || speed > 0 {
		payload = mediaRequest{Duration: duration, Speed: speed}
	}
	return c.postSentinel(u, payload, true)
}

// SendText types a string on the device, one character per request with a
// configurable delay between characters. Each call claims a fresh text
// session; starting a new send abandons the remainder of any previous one
// so interleaved character streams cannot reach the device.
func (c *Client) SendText(text string) error {
	if c.address == "" {
		return NewConfigError("no target device configured")
	}
	if text == "" {
		return nil
	}
	if err := c.EnsureAwake(); err != nil {
		return err
	}

	c.textMu.Lock()
	c.textSession++
	session := c.textSession
	c.textMu.Unlock()

	u := c.ControlBaseURL + "/v1/FireTV/text"
	for i, r := range []rune(text) {
		if i > 0 {
			time.Sleep(c.CharDelay)
		}

		c.textMu.Lock()
		current := c.textSession
		c.textMu.Unlock()
		if current != session {
			logging.Debug("Text send superseded", zap.Uint64("session", session))
			return nil
		}

		if err := c.postSentinel(u, textRequest{Text: string(r)}, true); err != nil {
			return err
		}
	}
	return nil
}

// commandURL builds the key-command endpoint for a logical action
func (c *Client) commandURL(action string) string {
	return fmt.Sprintf("%s/v1/FireTV?action=%s", c.ControlBaseURL, url.QueryEscape(action))
}
