package notification

import (
	"context"
	"sync"
	"time"

	"creatorhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the in-memory notification collection of the signed-in user.
// Mutations apply locally first and reconcile with the backend on the syncer.
// No operation returns an error; without a session every call is a no-op.
type Store struct {
	api      NotificationAPI
	sessions SessionSource
	syncer   *Syncer
	logger   *zap.Logger

	// ClearOnFetchFailure empties the collection when a fetch fails instead
	// of keeping the last known list.
	ClearOnFetchFailure bool

	now func() time.Time

	mu      sync.RWMutex
	items   []models.Notification
	loading bool
}

func NewStore(api NotificationAPI, sessions SessionSource, syncer *Syncer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:      api,
		sessions: sessions,
		syncer:   syncer,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchAll replaces the collection with the backend's list. A result that
// arrives after the session changed is discarded.
func (s *Store) FetchAll(ctx context.Context) {
	gen := s.sessions.Generation()
	sess := s.sessions.Current()
	if sess == nil {
		return
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	list, err := s.api.ListNotifications(ctx, sess.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.sessions.Generation() != gen {
		s.logger.Debug("discarding notifications for ended session", zap.String("userID", sess.UserID))
		return
	}
	if err != nil {
		s.logger.Warn("failed to fetch notifications", zap.String("userID", sess.UserID), zap.Error(err))
		if s.ClearOnFetchFailure {
			s.items = nil
		}
		return
	}
	s.items = append(make([]models.Notification, 0, len(list)), list...)
	s.logger.Debug("notifications fetched", zap.String("userID", sess.UserID), zap.Int("count", len(list)))
}

// Add prepends a locally synthesized notification and creates it on the
// backend in the background. The local entry stays even if the create fails.
func (s *Store) Add(n models.Notification) (models.Notification, bool) {
	gen := s.sessions.Generation()
	sess := s.sessions.Current()
	if sess == nil {
		return models.Notification{}, false
	}

	n.ID = uuid.NewString()
	n.UserID = sess.UserID
	n.Timestamp = s.now().UTC()
	n.Read = false
	if !n.Type.Valid() {
		n.Type = models.NotificationInfo
	}

	s.mu.Lock()
	s.items = append([]models.Notification{n}, s.items...)
	s.mu.Unlock()

	s.enqueue(gen, "create", func(ctx context.Context) error {
		return s.api.CreateNotification(ctx, n)
	})
	return n, true
}

// MarkAsRead flips the read flag of id locally and on the backend.
func (s *Store) MarkAsRead(id string) {
	gen := s.sessions.Generation()
	if s.sessions.Current() == nil {
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return
	}

	s.enqueue(gen, "mark-read", func(ctx context.Context) error {
		return s.api.MarkNotificationRead(ctx, id)
	})
}

// ClearAll empties the collection locally and on the backend.
func (s *Store) ClearAll() {
	gen := s.sessions.Generation()
	sess := s.sessions.Current()
	if sess == nil {
		return
	}

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	userID := sess.UserID
	s.enqueue(gen, "clear", func(ctx context.Context) error {
		return s.api.ClearNotifications(ctx, userID)
	})
}

// List returns a snapshot of the collection, most recent first.
func (s *Store) List() []models.Notification {
	if s.sessions.Current() == nil {
		return []models.Notification{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Notification, 0, len(s.items)), s.items...)
}

func (s *Store) UnreadCount() int {
	if s.sessions.Current() == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Reset drops the collection. It is called when the session changes.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.loading = false
	s.mu.Unlock()
}

// enqueue skips the job if the session that issued it has ended by the time
// the worker gets to it.
func (s *Store) enqueue(gen uint64, name string, fn func(ctx context.Context) error) {
	if s.syncer == nil {
		return
	}
	s.syncer.Enqueue(name, func(ctx context.Context) error {
		if s.sessions.Generation() != gen {
			s.logger.Debug("skipping sync for ended session", zap.String("job", name))
			return nil
		}
		return fn(ctx)
	})
}
