package extension

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "promote-social.com/promote-social/internal/errors"
)

const (
	DefaultInstallTimeout = time.Second
	DefaultTokenTimeout   = 5 * time.Second

	unresponsiveMessage = "Extension did not respond"
)

// Bridge is the site side of the protocol. It correlates token responses
// with their requests by request id.
type Bridge struct {
	conn    Conn
	siteURL string
	logger  *zap.Logger

	installTimeout time.Duration
	tokenTimeout   time.Duration

	mu             sync.Mutex
	pending        map[string]chan TokenResponse
	presence       []chan string
	returnHandlers map[int]func(time.Time)
	nextHandler    int

	done chan struct{}
}

func NewBridge(conn Conn, siteURL string, logger *zap.Logger) *Bridge {
	b := &Bridge{
		conn:           conn,
		siteURL:        siteURL,
		logger:         logger,
		installTimeout: DefaultInstallTimeout,
		tokenTimeout:   DefaultTokenTimeout,
		pending:        make(map[string]chan TokenResponse),
		returnHandlers: make(map[int]func(time.Time)),
		done:           make(chan struct{}),
	}
	go b.readLoop()
	return b
}

// CheckInstalled reports whether an extension answered the presence probe
// in time, and the version it announced.
func (b *Bridge) CheckInstalled(ctx context.Context) (string, bool) {
	ch := make(chan string, 1)
	b.mu.Lock()
	b.presence = append(b.presence, ch)
	b.mu.Unlock()
	defer b.dropPresence(ch)

	if err := b.conn.WriteMessage(Message{Type: TypeCheckInstalled}); err != nil {
		b.logger.Debug("presence probe failed", zap.Error(err))
		return "", false
	}

	timer := time.NewTimer(b.installTimeout)
	defer timer.Stop()

	select {
	case version := <-ch:
		return version, true
	case <-timer.C:
	case <-ctx.Done():
	case <-b.done:
	}
	return "", false
}

// RequestToken asks the extension to mint a token for the pair. A missing
// answer yields an unsuccessful response and ErrExtensionUnresponsive.
func (b *Bridge) RequestToken(ctx context.Context, taskID, userID string) (TokenResponse, error) {
	requestID := fmt.Sprintf("token_%d_%s", time.Now().UnixMilli(), uuid.NewString())

	msg, err := newMessage(TypeRequestToken, requestID, TokenRequest{
		TaskID:  taskID,
		UserID:  userID,
		SiteURL: b.siteURL,
	})
	if err != nil {
		return TokenResponse{}, err
	}

	ch := make(chan TokenResponse, 1)
	b.mu.Lock()
	b.pending[requestID] = ch
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, requestID)
		b.mu.Unlock()
	}()

	unresponsive := TokenResponse{Success: false, Error: unresponsiveMessage}

	if err := b.conn.WriteMessage(msg); err != nil {
		b.logger.Warn("token request not delivered", zap.String("request_id", requestID), zap.Error(err))
		return unresponsive, apperrors.ErrExtensionUnresponsive
	}

	timer := time.NewTimer(b.tokenTimeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		return resp, nil
	case <-timer.C:
	case <-b.done:
	case <-ctx.Done():
		return unresponsive, ctx.Err()
	}
	return unresponsive, apperrors.ErrExtensionUnresponsive
}

// OnUserReturn registers fn for USER_RETURNED_TO_SITE notices. The returned
// func unregisters it.
func (b *Bridge) OnUserReturn(fn func(at time.Time)) func() {
	b.mu.Lock()
	id := b.nextHandler
	b.nextHandler++
	b.returnHandlers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.returnHandlers, id)
		b.mu.Unlock()
	}
}

func (b *Bridge) Close() error {
	return b.conn.Close()
}

func (b *Bridge) readLoop() {
	defer close(b.done)

	for {
		msg, err := b.conn.ReadMessage()
		if err != nil {
			b.logger.Debug("bridge connection closed", zap.Error(err))
			return
		}
		b.dispatch(msg)
	}
}

func (b *Bridge) dispatch(msg Message) {
	switch msg.Type {
	case TypeInstalled:
		b.mu.Lock()
		waiters := b.presence
		b.presence = nil
		b.mu.Unlock()
		for _, ch := range waiters {
			ch <- msg.Version
		}

	case TypeTokenResponse:
		var resp TokenResponse
		if err := decodeData(msg, &resp); err != nil {
			b.logger.Warn("malformed token response", zap.String("request_id", msg.RequestID), zap.Error(err))
			return
		}
		b.mu.Lock()
		ch, ok := b.pending[msg.RequestID]
		delete(b.pending, msg.RequestID)
		b.mu.Unlock()
		if ok {
			ch <- resp
		}

	case TypeUserReturned:
		at := time.UnixMilli(msg.Timestamp)
		b.mu.Lock()
		handlers := make([]func(time.Time), 0, len(b.returnHandlers))
		for _, fn := range b.returnHandlers {
			handlers = append(handlers, fn)
		}
		b.mu.Unlock()
		for _, fn := range handlers {
			fn(at)
		}
	}
}

func (b *Bridge) dropPresence(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, c := range b.presence {
		if c == ch {
			b.presence = append(b.presence[:i], b.presence[i+1:]...)
			return
		}
	}
}
