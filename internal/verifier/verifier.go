// Package verifier checks anti-automation tokens against the Turnstile
// siteverify endpoint.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Config controls the verification policy. Required is an explicit flag: when
// false the check is skipped entirely, a deliberate fail-open for environments
// without the service configured.
type Config struct {
	Secret   string
	Required bool
	Endpoint string
}

type Turnstile struct {
	cfg        Config
	httpClient *http.Client
	log        *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Turnstile {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &Turnstile{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Verify reports whether the token passes. Once verification is required, any
// missing token, remote rejection or network failure counts as a fail.
func (t *Turnstile) Verify(ctx context.Context, token string) bool {
	if !t.cfg.Required {
		t.log.Debug().Msg("token verification not required, skipping")
		return true
	}
	if token == "" {
		return false
	}

	payload, err := json.Marshal(map[string]string{
		"secret":   t.cfg.Secret,
		"response": token,
	})
	if err != nil {
		t.log.Error().Err(err).Msg("failed to encode siteverify request")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		t.log.Error().Err(err).Msg("failed to build siteverify request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.log.Error().Err(err).Msg("siteverify request failed")
		return false
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.log.Error().Err(err).Msg("failed to decode siteverify response")
		return false
	}
	return result.Success
}
