package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/comicstore/pkg/config"
	redisclient "github.com/angelmondragon/comicstore/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Grant is a live session: the access id minted into the JWT jti, the
// refresh token handed to the shopper and the account it belongs to.
type Grant struct {
	AccessID     string
	RefreshToken string
	UserID       uuid.UUID
}

// record is the Redis value stored under the access session key.
type record struct {
	UserID   uuid.UUID `json:"user_id"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// Manager keeps refresh sessions in Redis, one key per access id.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := cfg.AccessTokenTTL()
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, keyer: client, ttl: ttl, now: time.Now}, nil
}

// Issue opens a session for the account.
func (m *Manager) Issue(ctx context.Context, userID uuid.UUID) (Grant, error) {
	if userID == uuid.Nil {
		return Grant{}, fmt.Errorf("user id is required")
	}
	return m.open(ctx, userID)
}

// Rotate checks the refresh token against the session behind oldAccessID,
// replaces that session with a fresh one for the same account and returns it.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (Grant, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return Grant{}, ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	current, err := m.load(ctx, key)
	if err != nil {
		return Grant{}, err
	}
	if subtle.ConstantTimeCompare([]byte(current.Token), []byte(provided)) != 1 {
		return Grant{}, ErrInvalidRefreshToken
	}

	grant, err := m.open(ctx, current.UserID)
	if err != nil {
		return Grant{}, err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Grant{}, err
	}
	return grant, nil
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as the JWT jti and Redis key suffix.
func NewAccessID() string {
	return uuid.NewString()
}

func (m *Manager) open(ctx context.Context, userID uuid.UUID) (Grant, error) {
	token, err := generateRefreshToken()
	if err != nil {
		return Grant{}, err
	}
	payload, err := json.Marshal(record{UserID: userID, Token: token, IssuedAt: m.clock().UTC()})
	if err != nil {
		return Grant{}, fmt.Errorf("encode session: %w", err)
	}
	accessID := NewAccessID()
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return Grant{}, err
	}
	return Grant{AccessID: accessID, RefreshToken: token, UserID: userID}, nil
}

func (m *Manager) load(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return record{}, ErrInvalidRefreshToken
		}
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.UserID == uuid.Nil || rec.Token == "" {
		return record{}, ErrInvalidRefreshToken
	}
	return rec, nil
}

func (m *Manager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
