package zalo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Webhook event names delivered by the Zalo OA platform.
const (
	EventUserSendText  = "user_send_text"
	EventUserSendImage = "user_send_image"
	EventFollow        = "follow"
	EventUnfollow      = "unfollow"
)

// WebhookEvent is the wire form of an OA webhook delivery. Message events
// carry Sender; follow and unfollow events carry Follower instead.
type WebhookEvent struct {
	EventName string       `json:"event_name"`
	Sender    EventActor   `json:"sender"`
	Recipient EventActor   `json:"recipient"`
	Follower  EventActor   `json:"follower"`
	Message   EventMessage `json:"message"`
	Timestamp string       `json:"timestamp"`
}

// EventActor identifies a user on either side of an event.
type EventActor struct {
	ID string `json:"id"`
}

// EventMessage is the message payload of user_send_* events.
type EventMessage struct {
	MsgID string `json:"msg_id"`
	Text  string `json:"text"`
}

// UserID returns the acting user regardless of event shape.
func (e *WebhookEvent) UserID() string {
	if e.Sender.ID != "" {
		return e.Sender.ID
	}
	return e.Follower.ID
}

// VerifySignature checks the HMAC-SHA256 hex signature of a raw webhook
// payload. A missing secret or signature never verifies.
func VerifySignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
