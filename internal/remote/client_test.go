package remote

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

// requestLog captures every request a test device server receives
type requestLog struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (l *requestLog) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	l.reqs = append(l.reqs, recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.Query(),
		header: r.Header.Clone(),
		body:   body,
	})
	l.mu.Unlock()
}

func (l *requestLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reqs)
}

func (l *requestLog) at(i int) recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reqs[i]
}

// find returns the first recorded request for the given path
func (l *requestLog) find(path string) (recordedRequest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.reqs {
		if r.path == path {
			return r, true
		}
	}
	return recordedRequest{}, false
}

func (r recordedRequest) jsonBody(t *testing.T) map[string]any {
	t.Helper()
	if len(r.body) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(r.body, &out); err != nil {
		t.Fatalf("request body is not valid JSON: %v (%q)", err, r.body)
	}
	return out
}

func writeDescription(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"description": desc})
}

// fakeStore is an in-memory CredentialStore
type fakeStore struct {
	mu      sync.Mutex
	address string
	token   string
	cleared int
}

func (s *fakeStore) SaveCredentials(address, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = address
	s.token = token
	return nil
}

func (s *fakeStore) ClearCredentials() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = ""
	s.token = ""
	s.cleared++
	return nil
}

func (s *fakeStore) savedToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeStore) clearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// newTestClient points a client at an httptest control server. Auto-wake is
// off and the timing knobs are shortened so tests stay fast.
func newTestClient(t *testing.T, control http.HandlerFunc) (*Client, *requestLog) {
	t.Helper()

	log := &requestLog{}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.record(r)
		control(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("192.0.2.10")
	c.ControlBaseURL = srv.URL
	c.HTTPClient = srv.Client()
	c.SetAutoWake(false)
	c.KeyUpDelay = time.Millisecond
	c.CharDelay = time.Millisecond
	c.SetCommandSpacing(time.Millisecond)
	return c, log
}

func TestAuthHeaders(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})
	c.RestoreToken("tok-123")

	if err := c.postSentinel(c.ControlBaseURL+"/v1/FireTV?action=home", nil, true); err != nil {
		t.Fatalf("postSentinel() error = %v", err)
	}

	req := log.at(0)
	if got := req.header.Get("x-api-key"); got != apiKey {
		t.Errorf("x-api-key = %q, want %q", got, apiKey)
	}
	if got := req.header.Get("x-client-token"); got != "tok-123" {
		t.Errorf("x-client-token = %q, want %q", got, "tok-123")
	}
}

func TestAuthHeadersUnpaired(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	if err := c.postSentinel(c.ControlBaseURL+"/v1/FireTV?action=home", nil, true); err != nil {
		t.Fatalf("postSentinel() error = %v", err)
	}
	if got := log.at(0).header.Get("x-client-token"); got != "" {
		t.Errorf("x-client-token = %q, want empty when unpaired", got)
	}
}

func TestPostSentinelRejectsNonOK(t *testing.T) {
	// HTTP 200 with a non-OK description is still a failure; the JSON
	// envelope is the real status channel
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "FAILURE")
	})

	err := c.postSentinel(c.ControlBaseURL+"/v1/FireTV?action=home", nil, true)
	if err == nil {
		t.Fatal("postSentinel() = nil, want sentinel rejection")
	}
	if !hasType(err, ErrTypeProtocol) {
		t.Errorf("error type = %v, want protocol error", err)
	}
}

func TestPostCommandMalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.postCommand(c.ControlBaseURL+"/v1/FireTV?action=home", nil, true)
	if !hasType(err, ErrTypeProtocol) {
		t.Errorf("postCommand() error = %v, want protocol error", err)
	}
}

func TestAuthRejectionTearsDownPairing(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		store := &fakeStore{}
		c.SetCredentialStore(store)
		c.RestoreToken("stale-token")

		repair := false
		c.SetEvents(Events{RepairRequired: func() { repair = true }})

		_, err := c.GetStatus()
		if !IsAuthError(err) {
			t.Fatalf("status %d: GetStatus() error = %v, want auth error", status, err)
		}
		if c.Paired() {
			t.Errorf("status %d: still paired after auth rejection", status)
		}
		if store.clearCount() != 1 {
			t.Errorf("status %d: ClearCredentials called %d times, want 1", status, store.clearCount())
		}
		if !repair {
			t.Errorf("status %d: RepairRequired event did not fire", status)
		}
	}
}

func TestGetStatus(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deviceName":"Living Room","powerState":"on"}`))
	})

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if status["deviceName"] != "Living Room" {
		t.Errorf("deviceName = %v, want %q", status["deviceName"], "Living Room")
	}
	if req := log.at(0); req.path != "/v1/FireTV/status" {
		t.Errorf("path = %q, want /v1/FireTV/status", req.path)
	}
}

func TestRestoreToken(t *testing.T) {
	c := NewClient("192.0.2.10")
	if c.Paired() {
		t.Error("new client reports paired")
	}
	c.RestoreToken("tok")
	if !c.Paired() {
		t.Error("Paired() = false after RestoreToken")
	}
	c.RestoreToken("")
	if c.Paired() {
		t.Error("Paired() = true after restoring empty token")
	}
}
