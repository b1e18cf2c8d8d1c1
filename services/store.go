package services

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/utils"
)

// Clock supplies the current time. Injected so store behavior is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator mints entity ids.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return utils.NewID() }

// Persister durably round-trips the serialized snapshot. Load returns
// (nil, nil) when no snapshot exists yet.
type Persister interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is the single state container: one in-memory AppState behind a
// mutex, every mutation funneled through mutate, each mutation followed
// by a fire-and-forget snapshot write. The in-memory state is
// authoritative for the session; persistence is best-effort restart
// recovery and its failures are logged, never surfaced.
type Store struct {
	mu      sync.Mutex
	state   models.AppState
	saveSeq uint64 // guarded by mu; orders snapshot writes across handlers

	persister Persister
	clock     Clock
	ids       IDGenerator
	log       *zap.Logger

	saveCh chan snapshotWrite
	done   chan struct{}
}

// snapshotWrite is one serialized state plus its commit order.
type snapshotWrite struct {
	seq uint64
	raw []byte
}

// StoreOption tweaks store construction (tests inject clock/ids).
type StoreOption func(*Store)

func WithClock(c Clock) StoreOption        { return func(s *Store) { s.clock = c } }
func WithIDs(g IDGenerator) StoreOption    { return func(s *Store) { s.ids = g } }
func WithLogger(l *zap.Logger) StoreOption { return func(s *Store) { s.log = l } }

// NewStore rehydrates state from the persister, or creates a fresh
// guest profile when no snapshot exists.
func NewStore(p Persister, opts ...StoreOption) (*Store, error) {
	s := &Store{
		persister: p,
		clock:     RealClock{},
		ids:       UUIDGenerator{},
		log:       zap.NewNop(),
		saveCh:    make(chan snapshotWrite, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := p.Load()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		s.state = s.freshState()
	} else if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, err
	}

	go s.saveLoop()
	return s, nil
}

func (s *Store) freshState() models.AppState {
	id := s.ids.NewID()
	return models.AppState{
		User: models.UserProfile{
			ID:        id,
			Name:      "Гост",
			Tier:      models.TierGuest,
			Badges:    []string{},
			Following: []string{},
			Followers: []string{},
			ProfileCard: models.PublicProfileCard{
				UserID:    id,
				Name:      "Гост",
				Interests: []string{},
			},
		},
	}
}

// mutate runs fn under the store lock, then schedules a snapshot write
// with the resulting state. All writes in the services package go
// through here. The sequence number taken under the lock preserves
// commit order through the handoff to the writer goroutine.
func (s *Store) mutate(fn func(st *models.AppState)) {
	s.mu.Lock()
	fn(&s.state)
	raw, err := json.Marshal(s.state)
	s.saveSeq++
	seq := s.saveSeq
	s.mu.Unlock()

	if err != nil {
		s.log.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	s.scheduleSave(snapshotWrite{seq: seq, raw: raw})
}

// scheduleSave hands the snapshot to the writer goroutine. Newest state
// wins: a pending unsent snapshot is replaced unless it is already
// newer, since two handlers can reach here out of commit order.
func (s *Store) scheduleSave(w snapshotWrite) {
	for {
		select {
		case s.saveCh <- w:
			return
		default:
			select {
			case pending := <-s.saveCh:
				if pending.seq > w.seq {
					w = pending
				}
			default:
			}
		}
	}
}

func (s *Store) saveLoop() {
	var lastSaved uint64
	write := func(w snapshotWrite) {
		if w.seq <= lastSaved {
			return
		}
		if err := s.persister.Save(w.raw); err != nil {
			s.log.Warn("snapshot write failed", zap.Error(err))
			return
		}
		lastSaved = w.seq
	}
	for {
		select {
		case w := <-s.saveCh:
			write(w)
		case <-s.done:
			// final drain
			select {
			case w := <-s.saveCh:
				write(w)
			default:
			}
			return
		}
	}
}

// Close flushes the pending snapshot and stops the writer.
func (s *Store) Close() {
	close(s.done)
}

// read runs fn under the lock. fn must copy out anything it returns.
func (s *Store) read(fn func(st *models.AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// User returns a copy of the local profile.
func (s *Store) User() models.UserProfile {
	var u models.UserProfile
	s.read(func(st *models.AppState) { u = st.User })
	return u
}

// Scans returns the scan list, most recent first.
func (s *Store) Scans() []models.ScanRecord {
	var out []models.ScanRecord
	s.read(func(st *models.AppState) {
		out = append(out, st.Scans...)
	})
	return out
}

// Favorites returns the saved ingredients.
func (s *Store) Favorites() []models.FavoriteIngredient {
	var out []models.FavoriteIngredient
	s.read(func(st *models.AppState) {
		out = append(out, st.Favorites...)
	})
	return out
}

// Stacks returns all stacks.
func (s *Store) Stacks() []models.Stack {
	var out []models.Stack
	s.read(func(st *models.AppState) {
		out = append(out, st.Stacks...)
	})
	return out
}

// StackByID returns a copy of one stack.
func (s *Store) StackByID(id string) (models.Stack, bool) {
	var (
		stack models.Stack
		ok    bool
	)
	s.read(func(st *models.AppState) {
		for i := range st.Stacks {
			if st.Stacks[i].ID == id {
				stack = st.Stacks[i]
				ok = true
				return
			}
		}
	})
	return stack, ok
}

// Messages returns the message list, most recent first.
func (s *Store) Messages() []models.Message {
	var out []models.Message
	s.read(func(st *models.AppState) {
		out = append(out, st.Messages...)
	})
	return out
}

// Notifications returns the notification list, most recent first.
func (s *Store) Notifications() []models.Notification {
	var out []models.Notification
	s.read(func(st *models.AppState) {
		out = append(out, st.Notifications...)
	})
	return out
}

// Friends returns every friend record, pending included.
func (s *Store) Friends() []models.Friend {
	var out []models.Friend
	s.read(func(st *models.AppState) {
		out = append(out, st.Friends...)
	})
	return out
}
