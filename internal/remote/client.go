package remote

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fireremote/internal/logging"
)

const (
	// DefaultControlPort is the device's REST API port
	DefaultControlPort = 8080

	// DefaultWakePort is the DIAL port used only for the wake call
	DefaultWakePort = 8009

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultKeyUpDelay separates the down and up POSTs of a key press
	DefaultKeyUpDelay = 200 * time.Millisecond

	// DefaultCharDelay separates per-character text POSTs
	DefaultCharDelay = 150 * time.Millisecond

	// DefaultCommandSpacing is the minimum interval between queued
	// command dispatches, respecting the device-side flood limit
	DefaultCommandSpacing = 500 * time.Millisecond

	// apiKey is the fixed API key the device expects on every
	// authenticated call
	apiKey = "0987654321"
)

// Events carries the client's outbound notifications to the host UI.
// Any callback may be nil.
type Events struct {
	// Paired fires after a successful PIN verification
	Paired func()

	// PairingFailed fires when a PIN exchange is rejected
	PairingFailed func(reason string)

	// RepairRequired fires when the device invalidated our token out of
	// band (401/403 on any authenticated command)
	RepairRequired func()
}

// CredentialStore persists the pairing credentials across restarts.
// Implementations must survive process restart; the config registry is the
// normal implementation.
type CredentialStore interface {
	SaveCredentials(address, token string) error
	ClearCredentials() error
}

// Client is the control engine for a single target device. It owns the
// device state (address, pairing token, wake freshness), the wake
// coalescing machinery, and the rate-limited command queue.
//
// A Client is safe for concurrent use.
type Client struct {
	// ControlBaseURL is the HTTPS base for the REST API
	// (e.g. "https://192.168.1.40:8080")
	ControlBaseURL string

	// WakeBaseURL is the HTTP base for the DIAL wake call
	// (e.g. "http://192.168.1.40:8009")
	WakeBaseURL string

	// HTTPClient is the underlying HTTP client. The default accepts the
	// device's self-signed certificate.
	HTTPClient *http.Client

	// KeyUpDelay separates the down and up phases of a directional key
	KeyUpDelay time.Duration

	// CharDelay separates per-character text sends
	CharDelay time.Duration

	// WakeFreshnessWindow is how long a successful wake stays valid
	WakeFreshnessWindow time.Duration

	// WakeSettleDelay is the post-wake settle wait
	WakeSettleDelay time.Duration

	// WakeRetryDelay is the base backoff unit between wake attempts
	WakeRetryDelay time.Duration

	address      string
	friendlyName string

	mu       sync.Mutex
	token    string
	paired   bool
	autoWake bool

	store  CredentialStore
	events Events

	wake  *wakeState
	queue *commandQueue

	// textSession disambiguates concurrently-issued text sends so their
	// per-character delays cannot interleave
	textMu      sync.Mutex
	textSession uint64
}

// NewClient creates a control client for the device at the given address,
// using the default ports
func NewClient(address string) *Client {
	transport := &http.Transport{
		// The device serves its API with a self-signed certificate
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &Client{
		ControlBaseURL:      fmt.Sprintf("https://%s:%d", address, DefaultControlPort),
		WakeBaseURL:         fmt.Sprintf("http://%s:%d", address, DefaultWakePort),
		HTTPClient:          &http.Client{Timeout: DefaultTimeout, Transport: transport},
		KeyUpDelay:          DefaultKeyUpDelay,
		CharDelay:           DefaultCharDelay,
		WakeFreshnessWindow: DefaultWakeFreshness,
		WakeSettleDelay:     DefaultSettleDelay,
		WakeRetryDelay:      DefaultWakeRetryDelay,
		address:             address,
		friendlyName:        "fireremote",
		autoWake:            true,
		wake:                newWakeState(),
		queue:               newCommandQueue(DefaultCommandSpacing),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetFriendlyName sets the name shown on-device during pairing
func (c *Client) SetFriendlyName(name string) {
	if name != "" {
		c.friendlyName = name
	}
}

// SetAutoWake enables or disables the implicit wake before commands
func (c *Client) SetAutoWake(enabled bool) {
	c.mu.Lock()
	c.autoWake = enabled
	c.mu.Unlock()
}

// SetCommandSpacing sets the minimum interval between queued dispatches
func (c *Client) SetCommandSpacing(spacing time.Duration) {
	c.queue = newCommandQueue(spacing)
}

// SetCredentialStore attaches the persistence backend for the pairing token
func (c *Client) SetCredentialStore(store CredentialStore) {
	c.store = store
}

// SetEvents attaches the UI notification callbacks
func (c *Client) SetEvents(events Events) {
	c.events = events
}

// RestoreToken installs a previously persisted pairing token
func (c *Client) RestoreToken(token string) {
	c.mu.Lock()
	c.token = token
	c.paired = token != ""
	c.mu.Unlock()
}

// Paired reports whether a pairing token is present
func (c *Client) Paired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paired
}

// Address returns the configured target address
func (c *Client) Address() string {
	return c.address
}

// GetStatus retrieves the device status document
func (c *Client) GetStatus() (map[string]any, error) {
	return c.getJSON(c.ControlBaseURL + "/v1/FireTV/status")
}

// GetProperties retrieves the device properties document
func (c *Client) GetProperties() (map[string]any, error) {
	return c.getJSON(c.ControlBaseURL + "/v1/FireTV/properties")
}

func (c *Client) getJSON(url string) (map[string]any, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()
	logging.LogRequest(http.MethodGet, url, resp.StatusCode)

	if err := c.checkAuthStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, NewProtocolError("malformed JSON in device response")
	}
	return out, nil
}

// postCommand performs an authenticated POST and enforces the success
// sentinel. It returns the decoded description field on success.
func (c *Client) postCommand(url string, payload any, withToken bool) (string, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return "", NewProtocolError("failed to encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return "", NewNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		c.setAuthHeaders(req)
	} else {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", NewNetworkError("POST request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()
	logging.LogRequest(http.MethodPost, url, resp.StatusCode)

	if err := c.checkAuthStatus(resp.StatusCode); err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewNetworkError("failed to read response body", err)
	}
	var decoded apiResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", NewProtocolError("malformed JSON in device response")
	}
	return decoded.Description, nil
}

// postSentinel performs an authenticated POST and requires the
// description=="OK" sentinel
func (c *Client) postSentinel(url string, payload any, withToken bool) error {
	desc, err := c.postCommand(url, payload, withToken)
	if err != nil {
		return err
	}
	if desc != sentinelOK {
		return NewProtocolError(fmt.Sprintf("device rejected command: %q", desc))
	}
	return nil
}

// setAuthHeaders installs the fixed API key and, when paired, the token
func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("x-api-key", apiKey)
	c.mu.Lock()
	if c.paired {
		req.Header.Set("x-client-token", c.token)
	}
	c.mu.Unlock()
}

// checkAuthStatus intercepts 401/403 on any authenticated response. Either
// status means the device invalidated our token out of band (e.g. factory
// reset): pairing state is torn down immediately, the persisted token is
// cleared, and the re-pair event fires. Never retried automatically.
func (c *Client) checkAuthStatus(statusCode int) error {
	if statusCode != http.StatusUnauthorized && statusCode != http.StatusForbidden {
		return nil
	}

	c.mu.Lock()
	wasPaired := c.paired
	c.token = ""
	c.paired = false
	store := c.store
	c.mu.Unlock()

	if store != nil {
		if err := store.ClearCredentials(); err != nil {
			logging.Error("Failed to clear persisted credentials", zap.Error(err))
		}
	}
	if wasPaired {
		logging.Warn("Device rejected token", zap.Int("status_code", statusCode))
	}
	if c.events.RepairRequired != nil {
		c.events.RepairRequired()
	}
	return NewAuthError(statusCode)
}
