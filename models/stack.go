package models

import "time"

// StackReminder is a time-of-day reminder rule for one supplement.
type StackReminder struct {
	SupplementName string `json:"supplement_name"`
	Time           string `json:"time"` // HH:MM, 24h
	Days           []int  `json:"days"` // 0–6, Sunday–Saturday
	Enabled        bool   `json:"enabled"`
}

// CompatibilityAnalysis is the optional AI verdict on how well the
// supplements in a stack combine.
type CompatibilityAnalysis struct {
	Compatibility   int      `json:"compatibility"` // 0–100
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// StackComment is one comment on a stack. Comments are append-only and
// never reordered.
type StackComment struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	UserName   string            `json:"user_name"`
	Content    string            `json:"content"`
	CreatedAt  time.Time         `json:"created_at"`
	Moderation *ModerationResult `json:"moderation,omitempty"`
}

// Stack is a named supplement combination with social metadata.
// Likes and Followers are sets of user ids (no duplicates).
type Stack struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	Category      string                 `json:"category,omitempty"`
	Supplements   []string               `json:"supplements"`
	Reminders     []StackReminder        `json:"reminders"`
	AIAnalysis    *CompatibilityAnalysis `json:"ai_analysis,omitempty"`
	IsPublic      bool                   `json:"is_public"`
	CreatedBy     string                 `json:"created_by"`
	CreatedByName string                 `json:"created_by_name"`
	Likes         []string               `json:"likes"`
	Comments      []StackComment         `json:"comments"`
	Followers     []string               `json:"followers"`
	CreatedAt     time.Time              `json:"created_at"`
	Moderation    *ModerationResult      `json:"moderation,omitempty"`
}

// HasLike reports whether userID is in the stack's like set.
func (s *Stack) HasLike(userID string) bool {
	for _, id := range s.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// HasFollower reports whether userID follows the stack.
func (s *Stack) HasFollower(userID string) bool {
	for _, id := range s.Followers {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether the stack may be shown to viewerID in
// public feeds: owners always see their own stacks, everyone else only
// public stacks whose moderation verdict allows rendering.
func (s *Stack) VisibleTo(viewerID string) bool {
	if s.CreatedBy == viewerID {
		return true
	}
	return s.IsPublic && IsContentVisible(s.Moderation)
}
