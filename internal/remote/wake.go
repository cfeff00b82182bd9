package remote

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/muurk/fireremote/internal/logging"
)

const (
	// DefaultWakeFreshness is how long a successful wake stays valid;
	// commands inside this window skip the redundant wake call
	DefaultWakeFreshness = 30 * time.Second

	// DefaultSettleDelay is the fixed wait after a successful wake before
	// the device is assumed ready to accept API calls
	DefaultSettleDelay = 2500 * time.Millisecond

	// DefaultWakeRetryDelay is the base backoff unit between wake
	// attempts; backoff grows linearly (1s, 2s, 3s)
	DefaultWakeRetryDelay = 1 * time.Second

	// wakeAttempts caps the wake retries
	wakeAttempts = 3
)

// wakeState coordinates in-flight wake attempts. While a wake is running,
// new callers are queued rather than triggering a duplicate network call;
// all queued callers resolve with the same outcome, in enqueue order.
type wakeState struct {
	mu       sync.Mutex
	waking   bool
	waiters  []chan error
	lastWake time.Time
}

func newWakeState() *wakeState {
	return &wakeState{}
}

// EnsureAwake makes sure the device is awake before an API call. It returns
// immediately when auto-wake is disabled or the last successful wake is
// still fresh. Concurrent callers during an in-flight wake coalesce into
// one network call and all receive that call's outcome.
func (c *Client) EnsureAwake() error {
	c.mu.Lock()
	autoWake := c.autoWake
	c.mu.Unlock()
	if !autoWake {
		return nil
	}

	w := c.wake
	w.mu.Lock()
	if !w.lastWake.IsZero() && time.Since(w.lastWake) < c.WakeFreshnessWindow {
		w.mu.Unlock()
		return nil
	}

	ch := make(chan error, 1)
	w.waiters = append(w.waiters, ch)
	if !w.waking {
		w.waking = true
		go c.runWake()
	}
	w.mu.Unlock()

	return <-ch
}

// runWake performs the wake call with bounded retry, waits out the settle
// delay, and releases every queued waiter with the shared outcome
func (c *Client) runWake() {
	err := c.wakeWithRetry()

	w := c.wake
	if err == nil {
		w.mu.Lock()
		w.lastWake = time.Now()
		w.mu.Unlock()

		// The device needs time after wake before it accepts API calls
		time.Sleep(c.WakeSettleDelay)
	}

	w.mu.Lock()
	waiters := w.waiters
	w.waiters = nil
	w.waking = false
	w.mu.Unlock()

	// FIFO release; all waiters see the same outcome
	for _, ch := range waiters {
		ch <- err
	}
}

// wakeWithRetry POSTs the DIAL wake endpoint with linearly increasing
// backoff between attempts
func (c *Client) wakeWithRetry() error {
	var lastErr error
	for attempt := 1; attempt <= wakeAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(attempt-1) * c.WakeRetryDelay)
		}
		lastErr = c.wakeOnce()
		logging.LogWake(c.address, attempt, lastErr)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// wakeOnce performs a single wake call. Success is any 2xx status; some
// firmware revisions answer the wake POST with 201 Created, which counts.
func (c *Client) wakeOnce() error {
	url := c.WakeBaseURL + "/apps/FireTVRemote"
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(""))
	if err != nil {
		return NewNetworkError("failed to create wake request", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("wake request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()
	logging.LogRequest(http.MethodPost, url, resp.StatusCode)

	if (resp.StatusCode >= 200 && resp.StatusCode <= 299) || resp.StatusCode == http.StatusCreated {
		return nil
	}
	return NewHTTPError(resp.StatusCode, fmt.Sprintf("wake rejected with status %d", resp.StatusCode))
}
