package remote

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestSendKeyDirectionalPair(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.SendKey(KeyDPadUp); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if log.count() != 2 {
		t.Fatalf("requests = %d, want down/up pair", log.count())
	}

	down, up := log.at(0), log.at(1)
	for _, req := range []recordedRequest{down, up} {
		if req.path != "/v1/FireTV" {
			t.Errorf("path = %q, want /v1/FireTV", req.path)
		}
		if got := req.query.Get("action"); got != "dpad_up" {
			t.Errorf("action = %q, want dpad_up", got)
		}
	}
	if got := down.jsonBody(t)["keyActionType"]; got != keyActionDown {
		t.Errorf("first body keyActionType = %v, want %q", got, keyActionDown)
	}
	if got := up.jsonBody(t)["keyActionType"]; got != keyActionUp {
		t.Errorf("second body keyActionType = %v, want %q", got, keyActionUp)
	}
}

func TestSendKeyDownFailureShortCircuits(t *testing.T) {
	// The keyUp phase must never be sent for a key the device did not see
	// go down
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "FAILURE")
	})

	err := c.SendKey(KeySelect)
	if err == nil {
		t.Fatal("SendKey() = nil, want error from rejected keyDown")
	}
	if log.count() != 1 {
		t.Errorf("requests = %d, want 1 (no keyUp after failed keyDown)", log.count())
	}
}

func TestSendKeySystemSinglePost(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.SendKey(KeyHome); err != nil {
		t.Fatalf("SendKey() error = %v", err)
	}
	if log.count() != 1 {
		t.Fatalf("requests = %d, want a single POST for a system key", log.count())
	}
	req := log.at(0)
	if got := req.query.Get("action"); got != "home" {
		t.Errorf("action = %q, want home", got)
	}
	if len(req.body) != 0 {
		t.Errorf("body = %q, want empty (no down/up marker)", req.body)
	}
}

func TestSendKeyNoAddress(t *testing.T) {
	c := NewClient("")
	if err := c.SendKey(KeyHome); !IsConfigError(err) {
		t.Errorf("SendKey() error = %v, want config error", err)
	}
}

func TestSendKeysAreSpaced(t *testing.T) {
	const spacing = 25 * time.Millisecond
	var mu sync.Mutex
	var starts []time.Time

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		writeDescription(w, "OK")
	})
	c.SetCommandSpacing(spacing)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.SendKey(KeyHome); err != nil {
				t.Errorf("SendKey() error = %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < spacing-time.Millisecond {
			t.Errorf("gap %d = %v, want at least %v", i, gap, spacing)
		}
	}
}

func TestSendMedia(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.SendMedia(MediaScanForward, 30, 2); err != nil {
		t.Fatalf("SendMedia() error = %v", err)
	}
	req := log.at(0)
	if req.path != "/v1/media" {
		t.Errorf("path = %q, want /v1/media", req.path)
	}
	if got := req.query.Get("action"); got != "scan_forward" {
		t.Errorf("action = %q, want scan_forward", got)
	}
	body := req.jsonBody(t)
	if body["duration"] != float64(30) || body["speed"] != float64(2) {
		t.Errorf("body = %v, want duration 30 and speed 2", body)
	}
}

func TestSendMediaNoParams(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.SendMedia(MediaPlay, 0, 0); err != nil {
		t.Fatalf("SendMedia() error = %v", err)
	}
	if req := log.at(0); len(req.body) != 0 {
		t.Errorf("body = %q, want empty for a bare transport action", req.body)
	}
}

func TestSendTextPerCharacter(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.SendText("hi!"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if log.count() != 3 {
		t.Fatalf("requests = %d, want one per character", log.count())
	}
	for i, want := range []string{"h", "i", "!"} {
		req := log.at(i)
		if req.path != "/v1/FireTV/text" {
			t.Errorf("path = %q, want /v1/FireTV/text", req.path)
		}
		if got := req.jsonBody(t)["text"]; got != want {
			t.Errorf("character %d = %v, want %q", i, got, want)
		}
	}
}

func TestSendTextEmpty(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.SendText(""); err != nil {
		t.Fatalf("SendText(\"\") error = %v", err)
	}
	if log.count() != 0 {
		t.Errorf("requests = %d, want 0 for empty text", log.count())
	}
}

func TestSendTextSuperseded(t *testing.T) {
	firstChar := make(chan struct{}, 1)
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case firstChar <- struct{}{}:
		default:
		}
		writeDescription(w, "OK")
	})
	c.CharDelay = 20 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- c.SendText("abcdef") }()

	<-firstChar
	// A new send claims the session; the old one must abandon its
	// remaining characters
	c.textMu.Lock()
	c.textSession++
	c.textMu.Unlock()

	if err := <-done; err != nil {
		t.Fatalf("superseded SendText() error = %v, want silent abandonment", err)
	}
	if n := log.count(); n >= 6 {
		t.Errorf("requests = %d, want fewer than the full 6 characters", n)
	}
}
