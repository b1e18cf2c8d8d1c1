package services

import (
	"time"

	"github.com/goodypm20014-source/hapche-social/models"
)

// Tier capability checks. Pure functions of the tier alone: no state, no
// I/O, no error path, safe to call on every request. An unrecognized
// tier behaves like a guest.

func CanAccessDetailedAnalysis(tier models.UserTier) bool {
	return tier == models.TierFree || tier == models.TierPremium
}

func CanAccessFavorites(tier models.UserTier) bool {
	return tier == models.TierFree || tier == models.TierPremium
}

func CanAccessStacks(tier models.UserTier) bool {
	return tier == models.TierPremium
}

func CanAccessFullDatabase(tier models.UserTier) bool {
	return tier == models.TierPremium
}

func CanPostToFeed(tier models.UserTier) bool {
	return tier == models.TierPremium
}

func CanSendMessages(tier models.UserTier) bool {
	return tier == models.TierFree || tier == models.TierPremium
}

func CanShareViaSMS(tier models.UserTier) bool {
	return tier == models.TierPremium
}

// Capabilities is the full gate table for one tier, in one response.
type Capabilities struct {
	DetailedAnalysis bool `json:"detailed_analysis"`
	Favorites        bool `json:"favorites"`
	Stacks           bool `json:"stacks"`
	FullDatabase     bool `json:"full_database"`
	PostToFeed       bool `json:"post_to_feed"`
	Messages         bool `json:"messages"`
	ShareViaSMS      bool `json:"share_via_sms"`
}

func CapabilitiesFor(tier models.UserTier) Capabilities {
	return Capabilities{
		DetailedAnalysis: CanAccessDetailedAnalysis(tier),
		Favorites:        CanAccessFavorites(tier),
		Stacks:           CanAccessStacks(tier),
		FullDatabase:     CanAccessFullDatabase(tier),
		PostToFeed:       CanPostToFeed(tier),
		Messages:         CanSendMessages(tier),
		ShareViaSMS:      CanShareViaSMS(tier),
	}
}

// EffectiveTier degrades an expired premium subscription to free for
// capability checks. The stored tier field itself only changes through
// explicit actions.
func EffectiveTier(u models.UserProfile, now time.Time) models.UserTier {
	switch u.Tier {
	case models.TierPremium:
		if u.SubscriptionExpiresAt != nil && now.After(*u.SubscriptionExpiresAt) {
			return models.TierFree
		}
		return models.TierPremium
	case models.TierFree:
		return models.TierFree
	default:
		return models.TierGuest
	}
}

// EffectiveTier returns the tier the store currently gates on.
func (s *Store) EffectiveTier() models.UserTier {
	return EffectiveTier(s.User(), s.clock.Now())
}
