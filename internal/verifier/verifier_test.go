package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTurnstile(t *testing.T, required bool, handler http.HandlerFunc) *Turnstile {
	t.Helper()
	endpoint := ""
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		endpoint = srv.URL
	}
	log := zerolog.Nop()
	return New(Config{Secret: "secret", Required: required, Endpoint: endpoint}, &log)
}

func TestVerifySkippedWhenNotRequired(t *testing.T) {
	called := false
	v := newTurnstile(t, false, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if !v.Verify(context.Background(), "") {
		t.Error("unconfigured verification should pass")
	}
	if !v.Verify(context.Background(), "any-token") {
		t.Error("unconfigured verification should pass with a token too")
	}
	if called {
		t.Error("remote endpoint was called while verification is not required")
	}
}

func TestVerifyRequiredEmptyTokenFails(t *testing.T) {
	v := newTurnstile(t, true, func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote endpoint called for empty token")
	})

	if v.Verify(context.Background(), "") {
		t.Error("empty token passed while verification is required")
	}
}

func TestVerifyRemoteDecision(t *testing.T) {
	for _, success := range []bool{true, false} {
		var gotPayload map[string]string
		v := newTurnstile(t, true, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotPayload)
			json.NewEncoder(w).Encode(map[string]bool{"success": success})
		})

		if got := v.Verify(context.Background(), "tok-1"); got != success {
			t.Errorf("Verify = %v, want %v", got, success)
		}
		if gotPayload["secret"] != "secret" || gotPayload["response"] != "tok-1" {
			t.Errorf("payload = %v", gotPayload)
		}
	}
}

func TestVerifyNetworkFailureFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	log := zerolog.Nop()
	v := New(Config{Secret: "secret", Required: true, Endpoint: srv.URL}, &log)

	if v.Verify(context.Background(), "tok-1") {
		t.Error("unreachable verifier passed a token")
	}
}
