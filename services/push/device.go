package push

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	deviceRepo "creatorhub/database/repository/device"
	"creatorhub/models"

	"go.uber.org/zap"
)

const (
	defaultAgentWait     = 5 * time.Second
	defaultAgentInterval = 250 * time.Millisecond
)

// DevicePlatform is the Platform of a headless device: permission answers
// live in the device repository and subscriptions are created by a push
// service reachable over HTTP.
type DevicePlatform struct {
	enabled    bool
	serviceURL string
	repo       deviceRepo.DeviceRepository
	httpClient *http.Client
	logger     *zap.Logger

	AgentWait     time.Duration
	AgentInterval time.Duration
}

// NewDevicePlatform creates a DevicePlatform. An empty serviceURL leaves the
// device without a notification capability.
func NewDevicePlatform(enabled bool, serviceURL string, repo deviceRepo.DeviceRepository, timeout time.Duration, logger *zap.Logger) *DevicePlatform {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DevicePlatform{
		enabled:       enabled,
		serviceURL:    strings.TrimRight(serviceURL, "/"),
		repo:          repo,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
		AgentWait:     defaultAgentWait,
		AgentInterval: defaultAgentInterval,
	}
}

func (d *DevicePlatform) Supported() bool {
	return d.enabled && d.serviceURL != ""
}

func (d *DevicePlatform) Permission(ctx context.Context, userID string) (models.PermissionState, error) {
	raw, err := d.repo.Get(ctx, deviceRepo.PermissionKey(userID))
	if errors.Is(err, deviceRepo.ErrNotFound) {
		return models.PermissionDefault, nil
	}
	if err != nil {
		return models.PermissionUnknown, err
	}
	state := models.ParsePermission(raw)
	if state == models.PermissionUnknown {
		return models.PermissionDefault, nil
	}
	return state, nil
}

func (d *DevicePlatform) RequestPermission(ctx context.Context, userID string, p Prompter) (models.PermissionState, error) {
	if p == nil {
		return models.PermissionDefault, errors.New("no prompter available")
	}
	answer, err := p.Ask(ctx)
	if err != nil {
		return models.PermissionDefault, fmt.Errorf("permission prompt failed: %w", err)
	}
	switch answer {
	case models.PermissionGranted, models.PermissionDenied:
		if err := d.repo.Set(ctx, deviceRepo.PermissionKey(userID), string(answer)); err != nil {
			return models.PermissionDefault, fmt.Errorf("failed to persist permission: %w", err)
		}
		return answer, nil
	default:
		return models.PermissionDefault, nil
	}
}

// AgentReady polls the push service health endpoint until it answers 2xx or
// AgentWait elapses.
func (d *DevicePlatform) AgentReady(ctx context.Context) error {
	if !d.Supported() {
		return ErrNoAgent
	}
	ctx, cancel := context.WithTimeout(ctx, d.AgentWait)
	defer cancel()

	ticker := time.NewTicker(d.AgentInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = d.ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("delivery agent not ready: %w", lastErr)
		case <-ticker.C:
		}
	}
}

func (d *DevicePlatform) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.serviceURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push service health returned %d", resp.StatusCode)
	}
	return nil
}

func (d *DevicePlatform) CanSubscribe() bool {
	u, err := url.Parse(d.serviceURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type subscribeRequest struct {
	ApplicationServerKey string `json:"applicationServerKey"`
}

type subscribeResponse struct {
	Endpoint string `json:"endpoint"`
}

// Subscribe creates a fresh device key pair and auth secret, then asks the
// push service for an endpoint bound to the application server key.
func (d *DevicePlatform) Subscribe(ctx context.Context, applicationServerKey []byte) (*models.PushSubscription, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate device key: %w", err)
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate auth secret: %w", err)
	}

	body, err := json.Marshal(subscribeRequest{
		ApplicationServerKey: base64.RawURLEncoding.EncodeToString(applicationServerKey),
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.serviceURL+"/subscriptions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("push service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var out subscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}
	if out.Endpoint == "" {
		return nil, errors.New("push service returned no endpoint")
	}

	d.logger.Debug("push subscription created", zap.String("endpoint", out.Endpoint))
	return &models.PushSubscription{
		Endpoint: out.Endpoint,
		Keys: models.PushKeys{
			P256dh: base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(secret),
		},
	}, nil
}
