package extension

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Companion is the extension side of the protocol. It answers presence
// probes and mints tokens with its Issuer.
type Companion struct {
	issuer  *Issuer
	version string
	logger  *zap.Logger
}

func NewCompanion(issuer *Issuer, version string, logger *zap.Logger) *Companion {
	return &Companion{
		issuer:  issuer,
		version: version,
		logger:  logger,
	}
}

// Serve announces the extension on conn and answers messages until the
// connection fails or ctx is done.
func (c *Companion) Serve(ctx context.Context, conn Conn) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := c.announce(conn); err != nil {
		return err
	}

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if err := c.handle(ctx, conn, msg); err != nil {
			return err
		}
	}
}

// NotifyReturn tells the site the user came back from the external task.
func (c *Companion) NotifyReturn(conn Conn, at time.Time) error {
	return conn.WriteMessage(Message{Type: TypeUserReturned, Timestamp: at.UnixMilli()})
}

func (c *Companion) announce(conn Conn) error {
	return conn.WriteMessage(Message{Type: TypeInstalled, Version: c.version})
}

func (c *Companion) handle(ctx context.Context, conn Conn, msg Message) error {
	switch msg.Type {
	case TypeCheckInstalled:
		return c.announce(conn)

	case TypeRequestToken:
		resp := c.issue(ctx, msg)
		reply, err := newMessage(TypeTokenResponse, msg.RequestID, resp)
		if err != nil {
			return err
		}
		return conn.WriteMessage(reply)

	default:
		c.logger.Debug("ignoring message", zap.String("type", string(msg.Type)))
		return nil
	}
}

func (c *Companion) issue(ctx context.Context, msg Message) TokenResponse {
	var req TokenRequest
	if err := decodeData(msg, &req); err != nil {
		return TokenResponse{Success: false, Error: "Missing required data"}
	}

	issued, err := c.issuer.Issue(ctx, req.TaskID, req.UserID)
	if errors.Is(err, ErrMissingData) {
		return TokenResponse{Success: false, Error: "Missing required data"}
	}
	if err != nil {
		c.logger.Error("token issue failed",
			zap.String("task_id", req.TaskID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return TokenResponse{Success: false, Error: err.Error()}
	}

	return TokenResponse{
		Success:   true,
		Token:     issued.Token,
		TokenData: &issued.Payload,
		ExpiresAt: issued.ExpiresAt,
	}
}
