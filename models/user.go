package models

import "time"

// UserTier is the subscription level gating feature access.
type UserTier string

const (
	TierGuest   UserTier = "guest"
	TierFree    UserTier = "free"
	TierPremium UserTier = "premium"
)

// ShareableInfo controls which parts of a profile card other users may see.
type ShareableInfo struct {
	FavoriteSupplements bool `json:"favorite_supplements"`
	Stacks              bool `json:"stacks"`
	Goals               bool `json:"goals"`
}

// PublicProfileCard is the publicly visible slice of a profile.
type PublicProfileCard struct {
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	Bio           string        `json:"bio,omitempty"`
	Interests     []string      `json:"interests"`
	IsPublic      bool          `json:"is_public"`
	ShareableInfo ShareableInfo `json:"shareable_info"`
}

// UserProfile is the single local identity. Created as a guest on first
// launch, upgraded by registration/subscription, never deleted.
type UserProfile struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	Email                  string            `json:"email,omitempty"`
	EmailVerified          bool              `json:"email_verified"`
	Phone                  string            `json:"phone,omitempty"`
	PhoneVerified          bool              `json:"phone_verified"`
	Tier                   UserTier          `json:"tier"`
	RegisteredAt           *time.Time        `json:"registered_at,omitempty"`
	SubscriptionExpiresAt  *time.Time        `json:"subscription_expires_at,omitempty"`
	HasCompletedOnboarding bool              `json:"has_completed_onboarding"`
	Rating                 float64           `json:"rating"` // 0.0–5.0
	Badges                 []string          `json:"badges"`
	Bio                    string            `json:"bio,omitempty"`
	BioModeration          *ModerationResult `json:"bio_moderation,omitempty"`
	ProfilePhotoURI        string            `json:"profile_photo_uri,omitempty"`
	Following              []string          `json:"following"` // user ids, never contains own id
	Followers              []string          `json:"followers"`
	ProfileCard            PublicProfileCard `json:"profile_card"`
}
