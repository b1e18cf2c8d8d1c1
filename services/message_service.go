package services

import (
	"errors"
	"sort"

	"github.com/goodypm20014-source/hapche-social/models"
)

// ErrTierInsufficient marks a gated operation the current tier does not
// permit. Controllers translate it into an upsell response; the store
// itself never raises it.
var ErrTierInsufficient = errors.New("tier insufficient")

// AddMessage prepends a message. Kept total like every store mutation;
// the tier gate lives in SendMessage.
func (s *Store) AddMessage(msg models.Message) {
	s.mutate(func(st *models.AppState) {
		st.Messages = append([]models.Message{msg}, st.Messages...)
	})
}

// SendMessage builds and commits an outgoing message. Guests cannot
// message.
func (s *Store) SendMessage(toUserID, content string, typ models.MessageType, attachment *models.MessageAttachment) (models.Message, error) {
	if !CanSendMessages(s.EffectiveTier()) {
		return models.Message{}, ErrTierInsufficient
	}
	u := s.User()
	msg := models.Message{
		ID:           s.ids.NewID(),
		FromUserID:   u.ID,
		FromUserName: u.Name,
		ToUserID:     toUserID,
		Content:      content,
		Type:         typ,
		Attachment:   attachment,
		SentAt:       s.clock.Now(),
	}
	s.AddMessage(msg)
	return msg, nil
}

// MarkMessageAsRead flips read false→true. Already-read and unknown ids
// are no-ops; the flag never reverts.
func (s *Store) MarkMessageAsRead(id string) {
	s.mutate(func(st *models.AppState) {
		for i := range st.Messages {
			if st.Messages[i].ID == id {
				st.Messages[i].Read = true
				return
			}
		}
	})
}

// UnreadMessageCount recomputes the count from the list on every call.
// There is no cached counter to drift.
func (s *Store) UnreadMessageCount() int {
	n := 0
	s.read(func(st *models.AppState) {
		for _, m := range st.Messages {
			if !m.Read {
				n++
			}
		}
	})
	return n
}

// Conversation is the read-only grouping of messages by counterparty.
type Conversation struct {
	CounterpartyID   string         `json:"counterparty_id"`
	CounterpartyName string         `json:"counterparty_name"`
	LastMessage      models.Message `json:"last_message"`
	Unread           int            `json:"unread"`
}

// Conversations groups messages by counterparty, newest conversation
// first. A projection, not persisted state.
func (s *Store) Conversations() []Conversation {
	u := s.User()
	byPeer := map[string]*Conversation{}
	var order []string

	// Messages are stored most-recent-first, so the first message seen
	// per counterparty is the conversation's latest.
	for _, m := range s.Messages() {
		peer := m.Counterparty(u.ID)
		conv, ok := byPeer[peer]
		if !ok {
			name := m.FromUserName
			if m.FromUserID == u.ID {
				name = ""
			}
			conv = &Conversation{CounterpartyID: peer, CounterpartyName: name, LastMessage: m}
			byPeer[peer] = conv
			order = append(order, peer)
		}
		if conv.CounterpartyName == "" && m.FromUserID == peer {
			conv.CounterpartyName = m.FromUserName
		}
		if !m.Read && m.ToUserID == u.ID {
			conv.Unread++
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, peer := range order {
		out = append(out, *byPeer[peer])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.SentAt.After(out[j].LastMessage.SentAt)
	})
	return out
}

// Transcript returns the messages exchanged with one counterparty in
// chronological order.
func (s *Store) Transcript(counterpartyID string) []models.Message {
	u := s.User()
	var out []models.Message
	for _, m := range s.Messages() {
		if m.Counterparty(u.ID) == counterpartyID {
			out = append(out, m)
		}
	}
	// stored newest-first; transcripts read oldest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// AddNotification prepends a notification record.
func (s *Store) AddNotification(n models.Notification) {
	s.mutate(func(st *models.AppState) {
		st.Notifications = append([]models.Notification{n}, st.Notifications...)
	})
}

// MarkNotificationAsRead has the same monotonic contract as messages.
func (s *Store) MarkNotificationAsRead(id string) {
	s.mutate(func(st *models.AppState) {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				st.Notifications[i].Read = true
				return
			}
		}
	})
}

func (s *Store) UnreadNotificationCount() int {
	n := 0
	s.read(func(st *models.AppState) {
		for _, v := range st.Notifications {
			if !v.Read {
				n++
			}
		}
	})
	return n
}
