package services

import (
	"time"

	"github.com/goodypm20014-source/hapche-social/models"
)

// RegisterUser upgrades the guest profile to the free tier. Registering
// an already-registered profile only refreshes email and name; the tier
// never moves backwards here.
func (s *Store) RegisterUser(email, name string) {
	now := s.clock.Now()
	s.mutate(func(st *models.AppState) {
		st.User.Email = email
		st.User.Name = name
		st.User.ProfileCard.Name = name
		if st.User.Tier == models.TierGuest {
			st.User.Tier = models.TierFree
			st.User.RegisteredAt = &now
		}
	})
}

// SubscribeToPremium upgrades to premium for 30 days.
func (s *Store) SubscribeToPremium() {
	expires := s.clock.Now().Add(30 * 24 * time.Hour)
	s.mutate(func(st *models.AppState) {
		st.User.Tier = models.TierPremium
		st.User.SubscriptionExpiresAt = &expires
	})
}

// SetTier overrides the tier directly. Dev/administrative use only;
// this is the single downgrade path.
func (s *Store) SetTier(tier models.UserTier) {
	s.mutate(func(st *models.AppState) {
		st.User.Tier = tier
	})
}

func (s *Store) CompleteOnboarding() {
	s.mutate(func(st *models.AppState) {
		st.User.HasCompletedOnboarding = true
	})
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave
// the current value untouched.
type ProfileUpdate struct {
	Name            *string
	Bio             *string
	BioModeration   *models.ModerationResult
	ProfilePhotoURI *string
}

// UpdateProfile applies an edit. Bio moderation is a precondition the
// caller resolves first; a rejected bio never reaches this method.
func (s *Store) UpdateProfile(up ProfileUpdate) {
	s.mutate(func(st *models.AppState) {
		if up.Name != nil && *up.Name != "" {
			st.User.Name = *up.Name
			st.User.ProfileCard.Name = *up.Name
		}
		if up.Bio != nil {
			st.User.Bio = *up.Bio
			st.User.ProfileCard.Bio = *up.Bio
			st.User.BioModeration = up.BioModeration
		}
		if up.ProfilePhotoURI != nil && *up.ProfilePhotoURI != "" {
			st.User.ProfilePhotoURI = *up.ProfilePhotoURI
		}
	})
}

// ProfileCardUpdate is a partial profile-card edit.
type ProfileCardUpdate struct {
	Interests     *[]string
	IsPublic      *bool
	ShareableInfo *models.ShareableInfo
}

func (s *Store) UpdateProfileCard(up ProfileCardUpdate) {
	s.mutate(func(st *models.AppState) {
		if up.Interests != nil {
			st.User.ProfileCard.Interests = *up.Interests
		}
		if up.IsPublic != nil {
			st.User.ProfileCard.IsPublic = *up.IsPublic
		}
		if up.ShareableInfo != nil {
			st.User.ProfileCard.ShareableInfo = *up.ShareableInfo
		}
	})
}

// AddScan prepends a completed scan. Scans are recorded for every tier;
// the detailed analysis is redacted at read time for guests.
func (s *Store) AddScan(imageURI string, analysis models.SupplementAnalysis, score *int) models.ScanRecord {
	rec := models.ScanRecord{
		ID:        s.ids.NewID(),
		CreatedAt: s.clock.Now(),
		ImageURI:  imageURI,
		Analysis:  analysis,
		Score:     score,
	}
	s.mutate(func(st *models.AppState) {
		st.Scans = append([]models.ScanRecord{rec}, st.Scans...)
	})
	return rec
}

// AddFavorite saves an ingredient. Silent no-op below the free tier.
func (s *Store) AddFavorite(name string) {
	if !CanAccessFavorites(s.EffectiveTier()) {
		return
	}
	fav := models.FavoriteIngredient{
		ID:      s.ids.NewID(),
		Name:    name,
		AddedAt: s.clock.Now(),
	}
	s.mutate(func(st *models.AppState) {
		st.Favorites = append(st.Favorites, fav)
	})
}

// RemoveFavorite deletes by id; unknown ids are a no-op.
func (s *Store) RemoveFavorite(id string) {
	s.mutate(func(st *models.AppState) {
		out := st.Favorites[:0]
		for _, f := range st.Favorites {
			if f.ID != id {
				out = append(out, f)
			}
		}
		st.Favorites = out
	})
}
