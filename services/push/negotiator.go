package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	deviceRepo "creatorhub/database/repository/device"
	"creatorhub/models"

	"go.uber.org/zap"
)

// SubscriptionAPI registers subscriptions with the dashboard backend.
type SubscriptionAPI interface {
	SavePushSubscription(ctx context.Context, userID string, subscription json.RawMessage) error
}

// SessionSource exposes the live session and its generation.
type SessionSource interface {
	Current() *models.Session
	Generation() uint64
}

// Negotiator drives the push permission state machine and the subscribe
// handshake for the signed-in user. Failures never leave the component other
// than as returned errors and LastError.
type Negotiator struct {
	platform  Platform
	api       SubscriptionAPI
	sessions  SessionSource
	repo      deviceRepo.DeviceRepository
	serverKey string
	logger    *zap.Logger

	inertOnce sync.Once

	mu        sync.Mutex
	state     models.PermissionState
	inert     bool
	dismissed bool
	prompting bool
	lastErr   string
}

// NewNegotiator creates a negotiator using the base64url application server key.
func NewNegotiator(platform Platform, api SubscriptionAPI, sessions SessionSource,
	repo deviceRepo.DeviceRepository, serverKey string, logger *zap.Logger) *Negotiator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Negotiator{
		platform:  platform,
		api:       api,
		sessions:  sessions,
		repo:      repo,
		serverKey: serverKey,
		logger:    logger,
		state:     models.PermissionUnknown,
	}
}

// State returns the current permission state.
func (n *Negotiator) State() models.PermissionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Inert reports whether the device lacks push support entirely.
func (n *Negotiator) Inert() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inert
}

// LastError is the user-visible message of the last failed step, or "".
func (n *Negotiator) LastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastErr
}

// ClearError dismisses the last error message.
func (n *Negotiator) ClearError() {
	n.mu.Lock()
	n.lastErr = ""
	n.mu.Unlock()
}

// Check resolves the state for the signed-in user: unknown becomes default when
// the platform has a notification capability, a persisted dismissal becomes
// denied and a persisted platform answer is adopted. Only unknown and default
// move; granted and denied are kept until the session ends. A failed read
// keeps what is already known. Without the capability the negotiator turns
// inert for good.
func (n *Negotiator) Check(ctx context.Context) models.PermissionState {
	n.mu.Lock()
	if n.inert {
		n.mu.Unlock()
		return models.PermissionUnknown
	}
	if !n.platform.Supported() {
		n.inert = true
		n.state = models.PermissionUnknown
		n.mu.Unlock()
		n.inertOnce.Do(func() {
			n.logger.Warn("push notifications unsupported on this device; channel disabled")
		})
		return models.PermissionUnknown
	}
	n.mu.Unlock()

	gen := n.sessions.Generation()
	s := n.sessions.Current()
	if s == nil {
		return n.State()
	}

	dismissed, err := deviceRepo.PushDismissed(ctx, n.repo)
	if err != nil {
		n.logger.Warn("failed to read push dismissal flag", zap.Error(err))
	}
	perm, permErr := n.platform.Permission(ctx, s.UserID)
	if permErr != nil {
		n.logger.Warn("failed to read platform permission", zap.String("userID", s.UserID), zap.Error(permErr))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sessions.Generation() != gen {
		return n.state
	}
	n.dismissed = n.dismissed || dismissed
	if n.state != models.PermissionUnknown && n.state != models.PermissionDefault {
		return n.state
	}

	next := models.PermissionDefault
	switch {
	case permErr == nil && perm == models.PermissionGranted:
		next = models.PermissionGranted
	case permErr == nil && perm == models.PermissionDenied, n.dismissed:
		next = models.PermissionDenied
	}
	n.state = next
	return n.state
}

// Activate runs Check for a new session and, when the device already holds a
// grant, registers a fresh subscription so the backend knows this session.
func (n *Negotiator) Activate(ctx context.Context) models.PermissionState {
	state := n.Check(ctx)
	if state != models.PermissionGranted {
		return state
	}
	if _, err := n.Subscribe(ctx); err != nil && !errors.Is(err, ErrSessionChanged) {
		n.logger.Warn("failed to re-register push subscription", zap.Error(err))
	}
	return state
}

// ShouldPrompt reports whether the permission prompt may be shown now.
func (n *Negotiator) ShouldPrompt() bool {
	if n.sessions.Current() == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.inert && !n.prompting && !n.dismissed && n.state == models.PermissionDefault
}

// RequestPermission shows the prompt and applies the answer. A grant is
// followed immediately by Subscribe. Outside the default state nothing is
// asked and the current state is returned.
func (n *Negotiator) RequestPermission(ctx context.Context, p Prompter) (models.PermissionState, error) {
	n.mu.Lock()
	if n.inert {
		n.mu.Unlock()
		return models.PermissionUnknown, n.fail(StepCapability, ErrPermissionUnsupported, ErrNoAgent)
	}
	if n.state != models.PermissionDefault || n.prompting {
		state := n.state
		n.mu.Unlock()
		return state, nil
	}
	n.prompting = true
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		n.prompting = false
		n.mu.Unlock()
	}()

	gen := n.sessions.Generation()
	s := n.sessions.Current()
	if s == nil {
		return n.State(), ErrNoSession
	}

	answer, err := n.platform.RequestPermission(ctx, s.UserID, p)
	if err != nil {
		return n.State(), n.fail(StepPermission, ErrSubscriptionFailed, err)
	}

	n.mu.Lock()
	if n.sessions.Generation() != gen {
		n.mu.Unlock()
		return models.PermissionUnknown, ErrSessionChanged
	}
	switch answer {
	case models.PermissionGranted, models.PermissionDenied:
		n.state = answer
	}
	state := n.state
	n.mu.Unlock()

	n.logger.Info("push permission answered", zap.String("userID", s.UserID), zap.String("state", string(state)))
	if state != models.PermissionGranted {
		return state, nil
	}
	_, err = n.Subscribe(ctx)
	return state, err
}

// Dismiss handles the in-app "not now" action: default becomes denied and the
// device remembers not to prompt again.
func (n *Negotiator) Dismiss(ctx context.Context) (models.PermissionState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != models.PermissionDefault {
		return n.state, nil
	}
	if err := deviceRepo.SetPushDismissed(ctx, n.repo, true); err != nil {
		n.logger.Warn("failed to persist push dismissal", zap.Error(err))
	}
	n.dismissed = true
	n.state = models.PermissionDenied
	return n.state, nil
}

// Subscribe performs the handshake for a granted permission: wait for the
// delivery agent, subscribe with the raw application server key and register
// the serialized descriptor for the user. Each call yields a fresh descriptor;
// the backend upserts by user id. PermissionState is never changed here.
func (n *Negotiator) Subscribe(ctx context.Context) (*models.PushSubscription, error) {
	n.mu.Lock()
	if n.state != models.PermissionGranted {
		n.mu.Unlock()
		return nil, ErrNotGranted
	}
	n.mu.Unlock()

	gen := n.sessions.Generation()
	s := n.sessions.Current()
	if s == nil {
		return nil, ErrNoSession
	}

	if err := n.platform.AgentReady(ctx); err != nil {
		if errors.Is(err, ErrNoAgent) {
			return nil, n.fail(StepAgent, ErrPermissionUnsupported, err)
		}
		return nil, n.fail(StepAgent, ErrSubscriptionFailed, err)
	}
	if !n.platform.CanSubscribe() {
		return nil, n.fail(StepCapability, ErrPermissionUnsupported, errors.New("push subscriptions unavailable"))
	}

	key, err := DecodeApplicationServerKey(n.serverKey)
	if err != nil {
		return nil, n.fail(StepKey, ErrSubscriptionFailed, err)
	}

	sub, err := n.platform.Subscribe(ctx, key)
	if err != nil {
		return nil, n.fail(StepSubscribe, ErrSubscriptionFailed, err)
	}
	raw, err := json.Marshal(sub)
	if err != nil {
		return nil, n.fail(StepSubscribe, ErrSubscriptionFailed, fmt.Errorf("failed to serialize subscription: %w", err))
	}

	if n.sessions.Generation() != gen {
		n.logger.Info("discarding push subscription for ended session", zap.String("userID", s.UserID))
		return nil, ErrSessionChanged
	}
	if err := n.api.SavePushSubscription(ctx, s.UserID, raw); err != nil {
		return nil, n.fail(StepRegister, ErrSubscriptionFailed, err)
	}

	n.mu.Lock()
	n.lastErr = ""
	n.mu.Unlock()
	n.logger.Info("push subscription registered", zap.String("userID", s.UserID))
	return sub, nil
}

// Deactivate resets the negotiator when the session ends.
func (n *Negotiator) Deactivate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.inert {
		n.state = models.PermissionUnknown
	}
	n.dismissed = false
	n.lastErr = ""
}

func (n *Negotiator) fail(step Step, kind, cause error) error {
	e := &Error{Step: step, Kind: kind, Err: cause}
	n.mu.Lock()
	n.lastErr = e.Message()
	n.mu.Unlock()
	n.logger.Warn("push negotiation failed", zap.String("step", string(step)), zap.Error(cause))
	return e
}
