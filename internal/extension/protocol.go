// Package extension implements the messaging protocol between the
// promote.social site and the browser extension that issues completion
// tokens.
//
// The site side is a Bridge, the extension side a Companion. They exchange
// Message values over a Conn.
package extension

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	TypeCheckInstalled MessageType = "CHECK_EXTENSION_INSTALLED"
	TypeInstalled      MessageType = "PROMOTE_SOCIAL_EXTENSION_INSTALLED"
	TypeRequestToken   MessageType = "REQUEST_COMPLETION_TOKEN"
	TypeTokenResponse  MessageType = "COMPLETION_TOKEN_RESPONSE"
	TypeUserReturned   MessageType = "USER_RETURNED_TO_SITE"
)

// Message is the envelope for every frame. Data carries a TokenRequest or a
// TokenResponse depending on Type.
type Message struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Version   string          `json:"version,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type TokenRequest struct {
	TaskID  string `json:"taskId"`
	UserID  string `json:"userId"`
	SiteURL string `json:"siteUrl"`
}

type TokenResponse struct {
	Success   bool     `json:"success"`
	Token     string   `json:"token,omitempty"`
	TokenData *Payload `json:"tokenData,omitempty"`
	ExpiresAt int64    `json:"expiresAt,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Conn is a bidirectional message transport. ReadMessage blocks until a
// message arrives or the connection is closed.
type Conn interface {
	ReadMessage() (Message, error)
	WriteMessage(Message) error
	Close() error
}

func newMessage(t MessageType, requestID string, data any) (Message, error) {
	msg := Message{Type: t, RequestID: requestID}
	if data == nil {
		return msg, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s: %w", t, err)
	}
	msg.Data = raw
	return msg, nil
}

func decodeData(msg Message, out any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%s: empty data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	return nil
}
