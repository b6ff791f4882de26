package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	deviceRepo "creatorhub/database/repository/device"
	"creatorhub/models"
	"creatorhub/services/backend"
	"creatorhub/utils"

	"go.uber.org/zap"
)

// State is the lifecycle position of the process-wide session.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// AuthAPI is the part of the dashboard API the manager consumes.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	LoginWithFederatedCode(ctx context.Context, code string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Listener observes every session replacement. It receives nil on logout.
type Listener func(s *models.Session)

// snapshot pairs a session with the generation it was published under.
type snapshot struct {
	session *models.Session
	gen     uint64
}

// Manager owns the single live session of the process. Readers get committed
// snapshots; writers (login, logout, expiry) are serialized.
type Manager struct {
	api    AuthAPI
	repo   deviceRepo.DeviceRepository
	logger *zap.Logger
	now    func() time.Time

	current  atomic.Pointer[snapshot]
	inFlight atomic.Int32

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewManager creates a session manager persisting its token in repo.
func NewManager(api AuthAPI, repo deviceRepo.DeviceRepository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		api:       api,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	m.current.Store(&snapshot{})
	return m
}

// Current returns the live session, or nil. A session whose token has expired
// is torn down on read, exactly like a logout.
func (m *Manager) Current() *models.Session {
	snap := m.current.Load()
	if snap.session == nil {
		return nil
	}
	if !snap.session.Valid(m.now()) {
		m.expireIfCurrent(snap.gen, "session token expired")
		return nil
	}
	return snap.session
}

// Generation identifies the currently published session. It changes on every
// replacement, so background work can tell whether its session is still live.
func (m *Manager) Generation() uint64 {
	return m.current.Load().gen
}

// Token returns the raw token of the published session without expiry checks.
// It is the backend client's token source.
func (m *Manager) Token() string {
	if s := m.current.Load().session; s != nil {
		return s.Token
	}
	return ""
}

// State reports Anonymous, Authenticating or Authenticated.
func (m *Manager) State() State {
	if m.Current() != nil {
		return Authenticated
	}
	if m.inFlight.Load() > 0 {
		return Authenticating
	}
	return Anonymous
}

// OnChange registers l and returns a function that removes it. Listeners run
// synchronously under the writer lock and must not call back into the Manager.
func (m *Manager) OnChange(l Listener) (remove func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Login authenticates with email and password. On failure the live session is
// left untouched.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, backend.ErrNetwork) {
			m.logger.Warn("Login: auth backend unreachable", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		m.logger.Info("Login: rejected", zap.String("email", creds.Email), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	s, err := m.commit(ctx, resp)
	if err != nil {
		m.logger.Error("Login: unusable auth response", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	return s, nil
}

// LoginWithFederatedCode exchanges an externally obtained authorization code.
func (m *Manager) LoginWithFederatedCode(ctx context.Context, code string) (*models.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrFederatedAuth
	}

	m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	resp, err := m.api.LoginWithFederatedCode(ctx, code)
	if err != nil {
		if errors.Is(err, backend.ErrNetwork) {
			m.logger.Warn("LoginWithFederatedCode: auth backend unreachable", zap.Error(err))
			return nil, fmt.Errorf("%w: %w: %v", ErrFederatedAuth, ErrNetwork, err)
		}
		m.logger.Info("LoginWithFederatedCode: rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFederatedAuth, err)
	}
	s, err := m.commit(ctx, resp)
	if err != nil {
		m.logger.Error("LoginWithFederatedCode: unusable auth response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFederatedAuth, err)
	}
	return s, nil
}

// Restore rebuilds the session from the token store, so a restarted process
// keeps its login. It returns nil when nothing usable is persisted.
func (m *Manager) Restore(ctx context.Context) (*models.Session, error) {
	token, user, err := deviceRepo.LoadSessionRecord(ctx, m.repo)
	if errors.Is(err, deviceRepo.ErrNotFound) {
		return nil, nil
	}
	if errors.Is(err, deviceRepo.ErrCorruptRecord) {
		m.logger.Warn("Restore: discarding unreadable session record", zap.Error(err))
		if err := deviceRepo.ClearSessionRecord(ctx, m.repo); err != nil {
			m.logger.Warn("Restore: failed to clear token store", zap.Error(err))
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	s, err := m.build(token, *user)
	if err != nil || !s.Valid(m.now()) {
		m.logger.Info("Restore: discarding persisted session", zap.String("userID", user.ID))
		if err := deviceRepo.ClearSessionRecord(ctx, m.repo); err != nil {
			m.logger.Warn("Restore: failed to clear token store", zap.Error(err))
		}
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishLocked(s)
	m.logger.Info("Session restored", zap.String("userID", s.UserID), zap.String("role", s.Role.String()))
	return s, nil
}

// Logout notifies the backend on a best-effort basis, then unconditionally
// clears the token store and the session.
func (m *Manager) Logout(ctx context.Context) {
	if m.current.Load().session != nil {
		if err := m.api.Logout(ctx); err != nil {
			m.logger.Warn("Logout: backend invalidation failed", zap.Error(err))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(context.WithoutCancel(ctx), "logout")
}

// Expire drops the live session after the backend rejected its token.
func (m *Manager) Expire(reason string) {
	m.expireIfCurrent(m.current.Load().gen, reason)
}

func (m *Manager) expireIfCurrent(gen uint64, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.current.Load()
	if snap.gen != gen || snap.session == nil {
		return
	}
	m.clearLocked(context.Background(), reason)
}

// commit persists and publishes the session described by resp.
func (m *Manager) commit(ctx context.Context, resp *models.AuthResponse) (*models.Session, error) {
	s, err := m.build(resp.Token, resp.User)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := deviceRepo.SaveSessionRecord(ctx, m.repo, resp.Token, resp.User); err != nil {
		if cerr := deviceRepo.ClearSessionRecord(context.WithoutCancel(ctx), m.repo); cerr != nil {
			m.logger.Warn("failed to roll back token store", zap.Error(cerr))
		}
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	m.publishLocked(s)
	m.logger.Info("Session started", zap.String("userID", s.UserID), zap.String("role", s.Role.String()))
	return s, nil
}

// build turns a token and user record into a normalized session.
func (m *Manager) build(token string, u models.User) (*models.Session, error) {
	if token == "" {
		return nil, errors.New("auth response carries no token")
	}

	s := &models.Session{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Token:       token,
	}
	if claims, err := utils.InspectToken(token); err == nil {
		s.ExpiresAt = claims.ExpiresAt
		if s.UserID == "" {
			s.UserID = claims.Subject
		}
		if s.Email == "" {
			s.Email = claims.Email
		}
	}
	if s.UserID == "" {
		return nil, errors.New("auth response carries no user id")
	}
	if s.DisplayName == "" {
		s.DisplayName = s.Email
	}

	role, ok := models.ParseRole(u.Role)
	if !ok {
		m.logger.Warn("unrecognized role, treating as creator",
			zap.String("userID", s.UserID), zap.String("role", u.Role))
	}
	s.Role = role
	s.IsAuthenticated = true
	return s, nil
}

func (m *Manager) publishLocked(s *models.Session) {
	prev := m.current.Load()
	m.current.Store(&snapshot{session: s, gen: prev.gen + 1})
	for _, l := range m.listeners {
		l(s)
	}
}

func (m *Manager) clearLocked(ctx context.Context, reason string) {
	if err := deviceRepo.ClearSessionRecord(ctx, m.repo); err != nil {
		m.logger.Warn("failed to clear token store", zap.Error(err))
	}
	prev := m.current.Load()
	m.current.Store(&snapshot{gen: prev.gen + 1})
	if prev.session != nil {
		m.logger.Info("Session ended", zap.String("userID", prev.session.UserID), zap.String("reason", reason))
	}
	for _, l := range m.listeners {
		l(nil)
	}
}
