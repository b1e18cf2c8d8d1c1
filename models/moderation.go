package models

import "time"

// ModerationStatus is the classifier verdict attached to user content.
type ModerationStatus string

const (
	ModerationApproved ModerationStatus = "approved"
	ModerationPending  ModerationStatus = "pending"
	ModerationRejected ModerationStatus = "rejected"
	ModerationFlagged  ModerationStatus = "flagged"
)

// ModerationResult records the verdict for one piece of content.
// Rejected content is never committed; flagged content is committed but
// hidden from default rendering until reviewed. Content with no
// moderation record at all (legacy) counts as approved.
type ModerationResult struct {
	Status     ModerationStatus `json:"status"`
	CheckedAt  time.Time        `json:"checked_at"`
	Reason     string           `json:"reason,omitempty"`
	Confidence float64          `json:"confidence"` // 0.0–1.0
}

// IsContentApproved reports whether content carrying this verdict may be
// rendered normally to other users.
func IsContentApproved(m *ModerationResult) bool {
	if m == nil {
		return true
	}
	return m.Status == ModerationApproved
}

// IsContentVisible reports whether content may appear in default feeds
// for users other than its author. Flagged content stays hidden until a
// manual review clears it.
func IsContentVisible(m *ModerationResult) bool {
	return IsContentApproved(m)
}
