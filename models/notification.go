package models

import "time"

// NotificationType classifies a system-generated event.
type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationFriendAccept  NotificationType = "friend_accept"
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationShare         NotificationType = "share"
	NotificationNewProduct    NotificationType = "new_product"
	NotificationReminder      NotificationType = "reminder"
)

// NotificationAction is the typed payload keyed by the notification
// type: friend_request carries the friend record to accept, like/comment
// carry the stack, share carries the message, reminder the stack rule.
type NotificationAction struct {
	FriendID  string `json:"friend_id,omitempty"`
	StackID   string `json:"stack_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
}

// Notification is an event record for the local user. Same read-state
// monotonicity as Message.
type Notification struct {
	ID           string              `json:"id"`
	Type         NotificationType    `json:"type"`
	FromUserID   string              `json:"from_user_id,omitempty"`
	FromUserName string              `json:"from_user_name,omitempty"`
	Message      string              `json:"message"`
	CreatedAt    time.Time           `json:"created_at"`
	Read         bool                `json:"read"`
	Action       *NotificationAction `json:"action,omitempty"`
}
