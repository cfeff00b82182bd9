package remote

import (
	"net/http"
	"testing"
	"time"
)

func TestRequestPin(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})
	c.SetFriendlyName("Den Laptop")

	if err := c.RequestPin(); err != nil {
		t.Fatalf("RequestPin() error = %v", err)
	}

	req, ok := log.find("/v1/FireTV/pin/display")
	if !ok {
		t.Fatal("no request to /v1/FireTV/pin/display")
	}
	if got := req.jsonBody(t)["friendlyName"]; got != "Den Laptop" {
		t.Errorf("friendlyName = %v, want %q", got, "Den Laptop")
	}
	if got := req.header.Get("x-api-key"); got != apiKey {
		t.Errorf("x-api-key = %q, want %q", got, apiKey)
	}
	// Pairing runs before a token exists
	if got := req.header.Get("x-client-token"); got != "" {
		t.Errorf("x-client-token = %q, want none on the pairing path", got)
	}
}

func TestRequestPinRefused(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "BUSY")
	})

	err := c.RequestPin()
	if !IsPairingError(err) {
		t.Errorf("RequestPin() error = %v, want pairing error", err)
	}
}

func TestVerifyPinSuccess(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/FireTV/pin/verify":
			// On success the description field carries the token
			writeDescription(w, "AB12CD34TOKEN")
		default:
			writeDescription(w, "OK")
		}
	})
	store := &fakeStore{}
	c.SetCredentialStore(store)

	paired := make(chan struct{}, 1)
	c.SetEvents(Events{Paired: func() { paired <- struct{}{} }})

	if err := c.VerifyPin(" 1234 "); err != nil {
		t.Fatalf("VerifyPin() error = %v", err)
	}

	req, ok := log.find("/v1/FireTV/pin/verify")
	if !ok {
		t.Fatal("no request to /v1/FireTV/pin/verify")
	}
	if got := req.jsonBody(t)["pin"]; got != "1234" {
		t.Errorf("pin = %v, want trimmed %q", got, "1234")
	}

	if !c.Paired() {
		t.Error("Paired() = false after successful verification")
	}
	if store.savedToken() != "AB12CD34TOKEN" {
		t.Errorf("persisted token = %q, want %q", store.savedToken(), "AB12CD34TOKEN")
	}
	select {
	case <-paired:
	case <-time.After(time.Second):
		t.Error("Paired event did not fire")
	}
}

func TestVerifyPinRejected(t *testing.T) {
	// A failed verification reuses the description field for the status
	// message; emptiness is what distinguishes it from a token
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "")
	})
	store := &fakeStore{}
	c.SetCredentialStore(store)

	var failReason string
	c.SetEvents(Events{PairingFailed: func(reason string) { failReason = reason }})

	err := c.VerifyPin("0000")
	if !IsPairingError(err) {
		t.Fatalf("VerifyPin() error = %v, want pairing error", err)
	}
	if c.Paired() {
		t.Error("Paired() = true after rejected PIN")
	}
	if store.savedToken() != "" {
		t.Errorf("persisted token = %q, want none", store.savedToken())
	}
	if failReason == "" {
		t.Error("PairingFailed event did not fire")
	}
}

func TestVerifyPinEmpty(t *testing.T) {
	c, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})

	err := c.VerifyPin("   ")
	if !IsConfigError(err) {
		t.Errorf("VerifyPin(blank) error = %v, want config error", err)
	}
	if log.count() != 0 {
		t.Errorf("requests = %d, want 0 for a blank PIN", log.count())
	}
}

func TestUnpair(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeDescription(w, "OK")
	})
	store := &fakeStore{}
	c.SetCredentialStore(store)
	c.RestoreToken("tok")

	if err := c.Unpair(); err != nil {
		t.Fatalf("Unpair() error = %v", err)
	}
	if c.Paired() {
		t.Error("Paired() = true after Unpair")
	}
	if store.clearCount() != 1 {
		t.Errorf("ClearCredentials called %d times, want 1", store.clearCount())
	}
}
