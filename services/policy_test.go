package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goodypm20014-source/hapche-social/models"
)

func TestCapabilitiesByTier(t *testing.T) {
	tests := []struct {
		tier models.UserTier
		want Capabilities
	}{
		{models.TierGuest, Capabilities{}},
		{models.TierFree, Capabilities{
			DetailedAnalysis: true,
			Favorites:        true,
			Messages:         true,
		}},
		{models.TierPremium, Capabilities{
			DetailedAnalysis: true,
			Favorites:        true,
			Stacks:           true,
			FullDatabase:     true,
			PostToFeed:       true,
			Messages:         true,
			ShareViaSMS:      true,
		}},
		// unrecognized tiers gate like guests
		{models.UserTier("vip"), Capabilities{}},
		{models.UserTier(""), Capabilities{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Equal(t, tt.want, CapabilitiesFor(tt.tier))
		})
	}
}

func TestEffectiveTier(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		user models.UserProfile
		want models.UserTier
	}{
		{"guest", models.UserProfile{Tier: models.TierGuest}, models.TierGuest},
		{"free", models.UserProfile{Tier: models.TierFree}, models.TierFree},
		{"premium active", models.UserProfile{Tier: models.TierPremium, SubscriptionExpiresAt: &future}, models.TierPremium},
		{"premium no expiry", models.UserProfile{Tier: models.TierPremium}, models.TierPremium},
		{"premium expired", models.UserProfile{Tier: models.TierPremium, SubscriptionExpiresAt: &past}, models.TierFree},
		{"unknown tier", models.UserProfile{Tier: models.UserTier("vip")}, models.TierGuest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTier(tt.user, now))
		})
	}
}
