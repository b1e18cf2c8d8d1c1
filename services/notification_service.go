package services

import (
	"fmt"

	"github.com/goodypm20014-source/hapche-social/models"
)

// Notifier commits a notification and fans it out to the realtime hub
// and push devices. The store write is the source of truth; delivery
// legs are best-effort.
type Notifier struct {
	store *Store
	hub   *RealtimeHub
	push  *PushService
}

func NewNotifier(store *Store, hub *RealtimeHub, push *PushService) *Notifier {
	return &Notifier{store: store, hub: hub, push: push}
}

// Emit records the event and notifies connected clients and devices.
// Safe to call with hub/push unset.
func (n *Notifier) Emit(typ models.NotificationType, fromUserID, fromUserName, message string, action *models.NotificationAction) models.Notification {
	notif := models.Notification{
		ID:           n.store.ids.NewID(),
		Type:         typ,
		FromUserID:   fromUserID,
		FromUserName: fromUserName,
		Message:      message,
		CreatedAt:    n.store.clock.Now(),
		Action:       action,
	}
	n.store.AddNotification(notif)

	recipient := n.store.User().ID
	if n.hub != nil {
		n.hub.Broadcast(recipient, map[string]any{
			"kind":         "notification.created",
			"notification": notif,
			"unread":       n.store.UnreadNotificationCount(),
		})
	}
	if n.push != nil {
		n.push.PushToUser(recipient, "Хапче", message, map[string]string{
			"type":           string(typ),
			"notificationId": notif.ID,
		})
	}
	return notif
}

// NotifyLike tells the stack owner someone liked their stack.
func (n *Notifier) NotifyLike(stack models.Stack, actorID, actorName string) {
	if stack.CreatedBy != n.store.User().ID || actorID == stack.CreatedBy {
		return
	}
	n.Emit(models.NotificationLike, actorID, actorName,
		fmt.Sprintf("%s хареса вашия stack „%s“", actorName, stack.Name),
		&models.NotificationAction{StackID: stack.ID})
}

// NotifyComment tells the stack owner about a new comment.
func (n *Notifier) NotifyComment(stack models.Stack, comment models.StackComment) {
	if stack.CreatedBy != n.store.User().ID || comment.UserID == stack.CreatedBy {
		return
	}
	n.Emit(models.NotificationComment, comment.UserID, comment.UserName,
		fmt.Sprintf("%s коментира вашия stack „%s“", comment.UserName, stack.Name),
		&models.NotificationAction{StackID: stack.ID, CommentID: comment.ID})
}

// NotifyShare records an incoming share message.
func (n *Notifier) NotifyShare(msg models.Message) {
	n.Emit(models.NotificationShare, msg.FromUserID, msg.FromUserName,
		fmt.Sprintf("%s сподели с вас", msg.FromUserName),
		&models.NotificationAction{MessageID: msg.ID})
}

// NotifyFriendRequest records an incoming friend request with the
// record id the accept action needs.
func (n *Notifier) NotifyFriendRequest(friend models.Friend) {
	n.Emit(models.NotificationFriendRequest, friend.UserID, friend.Name,
		fmt.Sprintf("%s ви изпрати покана за приятелство", friend.Name),
		&models.NotificationAction{FriendID: friend.ID})
}
