package models

import "time"

// MessageType selects the shape of a message's attachment.
type MessageType string

const (
	MessagePlain           MessageType = "message"
	MessageSupplementShare MessageType = "supplement_share"
	MessageStackShare      MessageType = "stack_share"
)

// SupplementShare references a scan the sender is sharing.
type SupplementShare struct {
	ScanID      string `json:"scan_id"`
	ProductName string `json:"product_name"`
	Brand       string `json:"brand,omitempty"`
}

// StackShare references a stack the sender is sharing.
type StackShare struct {
	StackID   string `json:"stack_id"`
	StackName string `json:"stack_name"`
}

// MessageAttachment is a tagged union keyed by the message type: exactly
// the field matching the type is set, both are nil for plain messages.
type MessageAttachment struct {
	Supplement *SupplementShare `json:"supplement,omitempty"`
	Stack      *StackShare      `json:"stack,omitempty"`
}

// Message is a directed communication unit between two users. The Read
// flag transitions false→true exactly once and never reverts.
type Message struct {
	ID           string             `json:"id"`
	FromUserID   string             `json:"from_user_id"`
	FromUserName string             `json:"from_user_name"`
	ToUserID     string             `json:"to_user_id"`
	Content      string             `json:"content"`
	Type         MessageType        `json:"type"`
	Attachment   *MessageAttachment `json:"attachment,omitempty"`
	SentAt       time.Time          `json:"sent_at"`
	Read         bool               `json:"read"`
}

// Counterparty returns the other side of the message relative to userID.
func (m *Message) Counterparty(userID string) string {
	if m.FromUserID == userID {
		return m.ToUserID
	}
	return m.FromUserID
}
