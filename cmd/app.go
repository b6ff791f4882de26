package cmd

import (
	"context"
	"fmt"

	"creatorhub/config"
	"creatorhub/database"
	deviceRepo "creatorhub/database/repository/device"
	"creatorhub/models"
	"creatorhub/services/backend"
	"creatorhub/services/notification"
	"creatorhub/services/push"
	"creatorhub/services/session"
	"creatorhub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// app holds the wired components for one process.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	redis      *redis.Client
	repo       deviceRepo.DeviceRepository
	client     *backend.Client
	sessions   *session.Manager
	negotiator *push.Negotiator
	syncer     *notification.Syncer
	store      *notification.Store
}

// newApp wires every component and restores a persisted session. With
// background set, a new session triggers push activation and a notification
// fetch on their own goroutines.
func newApp(ctx context.Context, cfg config.Config, background bool) (*app, error) {
	logger := utils.GetLogger()
	a := &app{cfg: cfg, logger: logger}

	if memoryStore || cfg.RedisAddr == "" {
		logger.Info("Using in-memory device store")
		a.repo = deviceRepo.NewMemoryDeviceRepo()
	} else {
		client, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.repo = deviceRepo.NewRedisDeviceRepo(client, cfg.DeviceID)
	}

	a.client = backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger.Named("backend"))
	a.sessions = session.NewManager(a.client, a.repo, logger.Named("session"))
	a.client.SetTokenSource(a.sessions.Token)
	a.client.OnUnauthorized(func() {
		a.sessions.Expire("token rejected by backend")
	})

	platform := push.NewDevicePlatform(cfg.PushEnabled, cfg.PushServiceURL, a.repo, cfg.BackendTimeout, logger.Named("push"))
	a.negotiator = push.NewNegotiator(platform, a.client, a.sessions, a.repo, cfg.PushPublicKey, logger.Named("push"))

	a.syncer = notification.NewSyncer(cfg.SyncQueueSize, cfg.BackendTimeout, logger.Named("sync"))
	a.store = notification.NewStore(a.client, a.sessions, a.syncer, logger.Named("notifications"))
	a.store.ClearOnFetchFailure = cfg.ClearOnFetchFailure

	a.sessions.OnChange(func(s *models.Session) {
		a.store.Reset()
		if s == nil {
			a.negotiator.Deactivate()
			return
		}
		if background {
			go a.negotiator.Activate(context.Background())
			go a.store.FetchAll(context.Background())
		}
	})

	if _, err := a.sessions.Restore(ctx); err != nil {
		logger.Warn("Failed to restore session", zap.Error(err))
	}
	return a, nil
}

// requireSession returns the live session or an error telling the user to sign in.
func (a *app) requireSession() (*models.Session, error) {
	s := a.sessions.Current()
	if s == nil {
		return nil, fmt.Errorf("not signed in, run 'creatorhub login' first")
	}
	return s, nil
}

// Close flushes pending background sync and releases connections.
func (a *app) Close() {
	a.syncer.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.logger.Sync()
}
