package models

import "time"

// FriendStatus is the state of a friend edge, kept from the local
// user's perspective.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
	FriendBlocked  FriendStatus = "blocked"
)

// Friend is one edge in the friend graph. At most one record exists per
// counterparty UserID; status only moves pending→accepted, removal
// deletes the record outright.
type Friend struct {
	ID     string       `json:"id"`
	UserID string       `json:"user_id"` // counterparty
	Name   string       `json:"name"`
	Status FriendStatus `json:"status"`
	Since  time.Time    `json:"since"`
}
