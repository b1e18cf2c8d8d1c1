package services

import (
	"github.com/goodypm20014-source/hapche-social/models"
)

// Social graph mutations. All of these are total: a missing stack or
// friend id is a silent no-op, repeated application is idempotent, and
// like/follower sets never hold duplicates.

func addToSet(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func removeFromSet(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) withStack(id string, fn func(st *models.AppState, stack *models.Stack)) {
	s.mutate(func(st *models.AppState) {
		for i := range st.Stacks {
			if st.Stacks[i].ID == id {
				fn(st, &st.Stacks[i])
				return
			}
		}
	})
}

func (s *Store) LikeStack(stackID, userID string) {
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		stack.Likes = addToSet(stack.Likes, userID)
	})
}

func (s *Store) UnlikeStack(stackID, userID string) {
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		stack.Likes = removeFromSet(stack.Likes, userID)
	})
}

func (s *Store) FollowStack(stackID, userID string) {
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		stack.Followers = addToSet(stack.Followers, userID)
	})
}

func (s *Store) UnfollowStack(stackID, userID string) {
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		stack.Followers = removeFromSet(stack.Followers, userID)
	})
}

// AddStackComment appends a comment. Never rejects on social-graph
// state; moderation gating happens before this is called. Returns the
// stored comment and whether the stack existed.
func (s *Store) AddStackComment(stackID, userID, userName, content string, moderation *models.ModerationResult) (models.StackComment, bool) {
	comment := models.StackComment{
		ID:         s.ids.NewID(),
		UserID:     userID,
		UserName:   userName,
		Content:    content,
		CreatedAt:  s.clock.Now(),
		Moderation: moderation,
	}
	added := false
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		stack.Comments = append(stack.Comments, comment)
		added = true
	})
	return comment, added
}

// FollowUser adds targetID to the local following set. Only the local
// side of the edge exists here; the counterparty's followers live on
// their own device. Following yourself is ignored.
func (s *Store) FollowUser(targetID string) {
	s.mutate(func(st *models.AppState) {
		if targetID == st.User.ID {
			return
		}
		st.User.Following = addToSet(st.User.Following, targetID)
	})
}

func (s *Store) UnfollowUser(targetID string) {
	s.mutate(func(st *models.AppState) {
		st.User.Following = removeFromSet(st.User.Following, targetID)
	})
}

func (s *Store) IsFollowingUser(targetID string) bool {
	following := false
	s.read(func(st *models.AppState) {
		for _, id := range st.User.Following {
			if id == targetID {
				following = true
				return
			}
		}
	})
	return following
}

// SendFriendRequest creates a pending friend edge. At most one record
// may exist per counterparty: a duplicate request while one is pending
// or accepted is a silent no-op. Returns the record and whether it was
// created.
func (s *Store) SendFriendRequest(userID, userName string) (models.Friend, bool) {
	friend := models.Friend{
		ID:     s.ids.NewID(),
		UserID: userID,
		Name:   userName,
		Status: models.FriendPending,
		Since:  s.clock.Now(),
	}
	created := false
	s.mutate(func(st *models.AppState) {
		for _, f := range st.Friends {
			if f.UserID == userID {
				return
			}
		}
		st.Friends = append(st.Friends, friend)
		created = true
	})
	return friend, created
}

// AcceptFriendRequest moves pending→accepted. Accepting an accepted
// record or an unknown id changes nothing.
func (s *Store) AcceptFriendRequest(friendID string) {
	s.mutate(func(st *models.AppState) {
		for i := range st.Friends {
			if st.Friends[i].ID == friendID && st.Friends[i].Status == models.FriendPending {
				st.Friends[i].Status = models.FriendAccepted
				return
			}
		}
	})
}

// RemoveFriend deletes the record regardless of status.
func (s *Store) RemoveFriend(friendID string) {
	s.mutate(func(st *models.AppState) {
		out := st.Friends[:0]
		for _, f := range st.Friends {
			if f.ID != friendID {
				out = append(out, f)
			}
		}
		st.Friends = out
	})
}

// AcceptedFriends returns accepted edges only.
func (s *Store) AcceptedFriends() []models.Friend {
	var out []models.Friend
	s.read(func(st *models.AppState) {
		for _, f := range st.Friends {
			if f.Status == models.FriendAccepted {
				out = append(out, f)
			}
		}
	})
	return out
}

// AddStack appends a stack. Silent no-op below premium.
func (s *Store) AddStack(stack models.Stack) bool {
	if !CanAccessStacks(s.EffectiveTier()) {
		return false
	}
	s.mutate(func(st *models.AppState) {
		st.Stacks = append(st.Stacks, stack)
	})
	return true
}

// RemoveStack deletes a stack; only its owner may do so.
func (s *Store) RemoveStack(stackID, actorID string) {
	s.mutate(func(st *models.AppState) {
		out := st.Stacks[:0]
		for _, stack := range st.Stacks {
			if stack.ID == stackID && stack.CreatedBy == actorID {
				continue
			}
			out = append(out, stack)
		}
		st.Stacks = out
	})
}

// ToggleStackPublic flips visibility; owner only.
func (s *Store) ToggleStackPublic(stackID, actorID string) {
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		if stack.CreatedBy == actorID {
			stack.IsPublic = !stack.IsPublic
		}
	})
}

// UpdateStackReminders replaces a stack's reminder rules; owner only.
func (s *Store) UpdateStackReminders(stackID, actorID string, reminders []models.StackReminder) {
	s.withStack(stackID, func(_ *models.AppState, stack *models.Stack) {
		if stack.CreatedBy == actorID {
			stack.Reminders = reminders
		}
	})
}

// PublicStacks is the feed projection for a viewer: public stacks whose
// moderation verdict allows rendering, plus the viewer's own.
func (s *Store) PublicStacks(viewerID string) []models.Stack {
	var out []models.Stack
	s.read(func(st *models.AppState) {
		for _, stack := range st.Stacks {
			if stack.VisibleTo(viewerID) && stack.IsPublic {
				out = append(out, stack)
			}
		}
	})
	return out
}
