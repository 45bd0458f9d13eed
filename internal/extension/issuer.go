package extension

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTokenTTL      = 5 * time.Minute
	DefaultSweepInterval = time.Minute
)

var (
	ErrMissingData   = errors.New("missing required data")
	ErrTokenNotFound = errors.New("completion token not found")
)

// Payload is hashed into the token. Field order is fixed by the struct so
// the digest is reproducible from the stored payload.
type Payload struct {
	TaskID    string `json:"taskId"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
	Random    string `json:"random"`
}

type IssuedToken struct {
	Token     string  `json:"token"`
	Payload   Payload `json:"tokenData"`
	ExpiresAt int64   `json:"expiresAt"`
}

func (t IssuedToken) Expired(now time.Time) bool {
	return t.ExpiresAt < now.UnixMilli()
}

// Store keeps the most recent token per (task, user) key.
type Store interface {
	Put(ctx context.Context, key string, token IssuedToken) error
	Get(ctx context.Context, key string) (IssuedToken, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
}

type Issuer struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewIssuer(store Store, ttl time.Duration, logger *zap.Logger) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func Key(taskID, userID string) string {
	return fmt.Sprintf("token_%s_%s", taskID, userID)
}

// Issue mints a token for the pair, replacing any earlier one.
func (i *Issuer) Issue(ctx context.Context, taskID, userID string) (IssuedToken, error) {
	if taskID == "" || userID == "" {
		return IssuedToken{}, ErrMissingData
	}

	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return IssuedToken{}, fmt.Errorf("read random: %w", err)
	}

	now := i.now()
	payload := Payload{
		TaskID:    taskID,
		UserID:    userID,
		Timestamp: now.UnixMilli(),
		Random:    hex.EncodeToString(random),
	}

	token, err := Digest(payload)
	if err != nil {
		return IssuedToken{}, err
	}

	issued := IssuedToken{
		Token:     token,
		Payload:   payload,
		ExpiresAt: now.Add(i.ttl).UnixMilli(),
	}
	if err := i.store.Put(ctx, Key(taskID, userID), issued); err != nil {
		return IssuedToken{}, fmt.Errorf("store token: %w", err)
	}

	i.logger.Debug("completion token issued",
		zap.String("task_id", taskID),
		zap.String("user_id", userID),
	)
	return issued, nil
}

func (i *Issuer) Lookup(ctx context.Context, taskID, userID string) (IssuedToken, error) {
	token, err := i.store.Get(ctx, Key(taskID, userID))
	if err != nil {
		return IssuedToken{}, err
	}
	if token.Expired(i.now()) {
		return IssuedToken{}, ErrTokenNotFound
	}
	return token, nil
}

func (i *Issuer) Sweep(ctx context.Context) (int, error) {
	return i.store.Sweep(ctx, i.now())
}

// Run sweeps expired tokens every interval until ctx is done.
func (i *Issuer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := i.Sweep(ctx)
			if err != nil {
				i.logger.Error("token sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				i.logger.Debug("expired tokens swept", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Digest is the hex SHA-256 of the payload's JSON encoding.
func Digest(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
