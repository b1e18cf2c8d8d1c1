package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodypm20014-source/hapche-social/models"
)

// fakeClock is a settable Clock for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// seqIDs mints id-1, id-2, ...
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// memPersister keeps the latest snapshot in memory.
type memPersister struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	loadErr error
	saveErr error
}

func (p *memPersister) Load() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if p.data == nil {
		return nil, nil
	}
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out, nil
}

func (p *memPersister) Save(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.data = make([]byte, len(data))
	copy(p.data, data)
	p.saves++
	return nil
}

func (p *memPersister) snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		return nil
	}
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out
}

var testEpoch = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) // a Monday

func newTestStore(t *testing.T) (*Store, *fakeClock, *memPersister) {
	t.Helper()
	clock := newFakeClock(testEpoch)
	p := &memPersister{}
	s, err := NewStore(p, WithClock(clock), WithIDs(&seqIDs{}))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, clock, p
}

func TestNewStore_FreshGuestProfile(t *testing.T) {
	s, _, _ := newTestStore(t)

	u := s.User()
	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, "Гост", u.Name)
	assert.Equal(t, models.TierGuest, u.Tier)
	assert.NotNil(t, u.Badges)
	assert.NotNil(t, u.Following)
	assert.Equal(t, u.ID, u.ProfileCard.UserID)
}

func TestNewStore_RehydratesSnapshot(t *testing.T) {
	prev := models.AppState{
		User: models.UserProfile{ID: "u-prev", Name: "Мария", Tier: models.TierFree},
		Favorites: []models.FavoriteIngredient{
			{ID: "f-1", Name: "магнезий"},
		},
	}
	raw, err := json.Marshal(prev)
	require.NoError(t, err)

	p := &memPersister{data: raw}
	s, err := NewStore(p, WithClock(newFakeClock(testEpoch)), WithIDs(&seqIDs{}))
	require.NoError(t, err)
	defer s.Close()

	u := s.User()
	assert.Equal(t, "u-prev", u.ID)
	assert.Equal(t, "Мария", u.Name)
	assert.Equal(t, models.TierFree, u.Tier)
	require.Len(t, s.Favorites(), 1)
	assert.Equal(t, "магнезий", s.Favorites()[0].Name)
}

func TestNewStore_LoadFailure(t *testing.T) {
	p := &memPersister{loadErr: fmt.Errorf("disk gone")}
	_, err := NewStore(p)
	assert.Error(t, err)
}

func TestRegisterUser(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.RegisterUser("maria@example.com", "Мария")

	u := s.User()
	assert.Equal(t, models.TierFree, u.Tier)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, "Мария", u.Name)
	assert.Equal(t, "Мария", u.ProfileCard.Name)
	require.NotNil(t, u.RegisteredAt)
	assert.Equal(t, testEpoch, *u.RegisteredAt)
}

func TestRegisterUser_DoesNotDowngrade(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.RegisterUser("a@example.com", "A")
	s.SubscribeToPremium()

	s.RegisterUser("b@example.com", "B")

	u := s.User()
	assert.Equal(t, models.TierPremium, u.Tier, "re-registering must not downgrade the tier")
	assert.Equal(t, "b@example.com", u.Email)
}

func TestSubscribeToPremium(t *testing.T) {
	s, clock, _ := newTestStore(t)
	s.RegisterUser("a@example.com", "A")

	s.SubscribeToPremium()

	u := s.User()
	assert.Equal(t, models.TierPremium, u.Tier)
	require.NotNil(t, u.SubscriptionExpiresAt)
	assert.Equal(t, clock.Now().Add(30*24*time.Hour), *u.SubscriptionExpiresAt)
}

func TestExpiredPremiumGatesAsFree(t *testing.T) {
	s, clock, _ := newTestStore(t)
	s.RegisterUser("a@example.com", "A")
	s.SubscribeToPremium()
	require.Equal(t, models.TierPremium, s.EffectiveTier())

	clock.Advance(31 * 24 * time.Hour)

	assert.Equal(t, models.TierFree, s.EffectiveTier())
	// the stored field is untouched; only the gate degrades
	assert.Equal(t, models.TierPremium, s.User().Tier)
	assert.False(t, s.AddStack(models.Stack{ID: "st-1"}))
	assert.Empty(t, s.Stacks())
}

func TestGuestFavoritesSilentNoOp(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.AddFavorite("цинк")
	assert.Empty(t, s.Favorites(), "guests cannot save favorites")

	s.RegisterUser("a@example.com", "A")
	s.AddFavorite("цинк")
	require.Len(t, s.Favorites(), 1)
	assert.Equal(t, "цинк", s.Favorites()[0].Name)

	s.RemoveFavorite(s.Favorites()[0].ID)
	assert.Empty(t, s.Favorites())

	// unknown id is a no-op
	s.RemoveFavorite("missing")
}

func TestAddScan_NewestFirst(t *testing.T) {
	s, clock, _ := newTestStore(t)

	first := s.AddScan("file:///a.jpg", models.SupplementAnalysis{ProductName: "A"}, nil)
	clock.Advance(time.Minute)
	second := s.AddScan("file:///b.jpg", models.SupplementAnalysis{ProductName: "B"}, nil)

	scans := s.Scans()
	require.Len(t, scans, 2)
	assert.Equal(t, second.ID, scans[0].ID)
	assert.Equal(t, first.ID, scans[1].ID)
}

func TestMutationsReachPersister(t *testing.T) {
	s, _, p := newTestStore(t)

	s.RegisterUser("a@example.com", "A")

	require.Eventually(t, func() bool {
		raw := p.snapshot()
		if raw == nil {
			return false
		}
		var st models.AppState
		if err := json.Unmarshal(raw, &st); err != nil {
			return false
		}
		return st.User.Tier == models.TierFree
	}, 2*time.Second, 5*time.Millisecond, "mutation should land in the persisted snapshot")
}

// recordingPersister keeps every snapshot it is handed, in write order.
type recordingPersister struct {
	mu    sync.Mutex
	saved [][]byte
}

func (p *recordingPersister) Load() ([]byte, error) { return nil, nil }

func (p *recordingPersister) Save(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	p.saved = append(p.saved, cp)
	return nil
}

func (p *recordingPersister) records() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.saved))
	copy(out, p.saved)
	return out
}

func TestConcurrentMutationsNeverRegressSnapshot(t *testing.T) {
	p := &recordingPersister{}
	s, err := NewStore(p, WithClock(newFakeClock(testEpoch)))
	require.NoError(t, err)
	s.RegisterUser("a@example.com", "A")

	const (
		workers   = 8
		perWorker = 25
	)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.AddFavorite("цинк")
			}
		}()
	}
	wg.Wait()
	s.Close()

	favorites := func(raw []byte) int {
		var st models.AppState
		require.NoError(t, json.Unmarshal(raw, &st))
		return len(st.Favorites)
	}

	require.Eventually(t, func() bool {
		recs := p.records()
		if len(recs) == 0 {
			return false
		}
		var st models.AppState
		if err := json.Unmarshal(recs[len(recs)-1], &st); err != nil {
			return false
		}
		return len(st.Favorites) == workers*perWorker
	}, 2*time.Second, 5*time.Millisecond, "the final snapshot must hold every committed favorite")

	// interleaved handlers must never overwrite newer durable state
	// with older state
	prev := 0
	for _, raw := range p.records() {
		n := favorites(raw)
		require.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestPersistFailureDoesNotBlockReads(t *testing.T) {
	clock := newFakeClock(testEpoch)
	p := &memPersister{saveErr: fmt.Errorf("disk full")}
	s, err := NewStore(p, WithClock(clock), WithIDs(&seqIDs{}))
	require.NoError(t, err)
	defer s.Close()

	s.RegisterUser("a@example.com", "A")
	s.AddFavorite("цинк")

	// in-memory state is authoritative even when every write fails
	assert.Equal(t, models.TierFree, s.User().Tier)
	assert.Len(t, s.Favorites(), 1)
}
