// Package admission decides whether a workshop-session subscription may be
// created and computes the derived participant status for display.
package admission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lennartdeknikker/jaco-line/internal/model"
	"github.com/lennartdeknikker/jaco-line/internal/store"
)

// Shape check only; deliverability is not this component's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxParticipantCount = 20

// TokenVerifier checks an anti-automation token. Implementations decide their
// own policy for missing configuration.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) bool
}

// Request is one subscription attempt. ParticipantCount stays raw JSON so
// out-of-range and non-numeric values can be dropped instead of rejected.
type Request struct {
	Name             string
	Email            string
	Phone            string
	SessionID        string
	ParticipantCount json.RawMessage
	Remarks          string
	Token            string
}

// SessionStatus is the derived display state of a session.
type SessionStatus struct {
	CurrentParticipants int
	IsFull              bool
}

// ComputeSessionStatus derives the participant status for a session. The
// manual isFull flag wins over the numeric comparison; an unset
// maxParticipants means unlimited. Callers must recompute on every read.
func ComputeSessionStatus(session *model.WorkshopSession, subscriptionCount int) SessionStatus {
	full := session.IsFull ||
		(session.MaxParticipants != nil && subscriptionCount >= *session.MaxParticipants)
	return SessionStatus{
		CurrentParticipants: subscriptionCount,
		IsFull:              full,
	}
}

// Controller applies the admission rules against the document store.
type Controller struct {
	store    store.Store
	verifier TokenVerifier
	log      *zerolog.Logger
}

func NewController(st store.Store, verifier TokenVerifier, log *zerolog.Logger) *Controller {
	return &Controller{store: st, verifier: verifier, log: log}
}

// Admit runs the ordered admission sequence and returns the id of the newly
// created subscription. The checks and the final write are separate store
// round trips; two concurrent attempts for the last open slot can both pass.
func (c *Controller) Admit(ctx context.Context, req Request) (string, *Error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	sessionID := strings.TrimSpace(req.SessionID)

	if name == "" || email == "" || sessionID == "" {
		return "", validationError(MsgRequiredFields)
	}
	if phone == "" {
		return "", validationError(MsgPhoneRequired)
	}
	if !emailPattern.MatchString(email) {
		return "", validationError(MsgInvalidEmail)
	}

	if c.verifier != nil && !c.verifier.Verify(ctx, req.Token) {
		return "", ErrVerification
	}

	// Duplicate check runs before the session lookup so a resubmitted form is
	// answered the same way whether or not the session still exists.
	_, err := c.store.FindSubscription(ctx, email, sessionID)
	switch {
	case err == nil:
		return "", ErrDuplicate
	case !errors.Is(err, store.ErrNotFound):
		return "", persistenceError(err)
	}

	session, err := c.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", persistenceError(err)
	}

	if session.IsFull {
		return "", ErrSessionFull
	}
	if session.MaxParticipants != nil {
		count, err := c.store.CountSubscriptions(ctx, sessionID)
		if err != nil {
			return "", persistenceError(err)
		}
		if count >= *session.MaxParticipants {
			return "", ErrSessionFull
		}
	}

	sub := &model.Subscription{
		Name:             name,
		Email:            email,
		Phone:            phone,
		ParticipantCount: SanitizeParticipantCount(req.ParticipantCount),
		Remarks:          strings.TrimSpace(req.Remarks),
		SessionRef:       model.Reference{Ref: sessionID},
	}

	id, err := c.store.CreateSubscription(ctx, sub)
	if err != nil {
		return "", persistenceError(err)
	}

	c.log.Info().
		Str("subscription_id", id).
		Str("session_id", sessionID).
		Msg("subscription admitted")
	return id, nil
}

// SanitizeParticipantCount parses an optional participant count. Integers in
// [0,20] are kept, whether sent as a number or a numeric string; everything
// else is dropped entirely, never clamped and never an error.
func SanitizeParticipantCount(raw json.RawMessage) *int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var asNumber float64
	if err := json.Unmarshal(trimmed, &asNumber); err == nil {
		if asNumber != math.Trunc(asNumber) {
			return nil
		}
		return boundedCount(int(asNumber))
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(asString))
		if err != nil {
			return nil
		}
		return boundedCount(n)
	}

	return nil
}

func boundedCount(n int) *int {
	if n < 0 || n > maxParticipantCount {
		return nil
	}
	return &n
}
