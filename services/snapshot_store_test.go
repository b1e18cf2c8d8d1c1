package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goodypm20014-source/hapche-social/models"
)

func snapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Snapshot{}))
	return db
}

func TestSnapshotStore_LoadEmpty(t *testing.T) {
	s := NewSnapshotStore(snapshotDB(t))

	raw, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	s := NewSnapshotStore(snapshotDB(t))

	state := models.AppState{User: models.UserProfile{ID: "u-1", Name: "Мария", Tier: models.TierFree}}
	first, err := json.Marshal(state)
	require.NoError(t, err)
	require.NoError(t, s.Save(first))

	got, err := s.Load()
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(got))

	// a second save replaces the single row, never adds one
	state.User.Tier = models.TierPremium
	second, err := json.Marshal(state)
	require.NoError(t, err)
	require.NoError(t, s.Save(second))

	got, err = s.Load()
	require.NoError(t, err)
	assert.JSONEq(t, string(second), string(got))

	var count int64
	require.NoError(t, s.db.Model(&models.Snapshot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSnapshotStore_MigratesV0(t *testing.T) {
	db := snapshotDB(t)
	s := NewSnapshotStore(db)

	// a pre-versioning snapshot: profile without the social fields
	old := []byte(`{"user": {"id": "u-old", "name": "Мария", "tier": "free"}, "scans": []}`)
	require.NoError(t, db.Create(&models.Snapshot{
		Namespace: models.SnapshotNamespace,
		Version:   0,
		Data:      old,
	}).Error)

	raw, err := s.Load()
	require.NoError(t, err)

	var state models.AppState
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, "u-old", state.User.ID)
	assert.NotNil(t, state.User.Badges)
	assert.NotNil(t, state.User.Following)
	assert.NotNil(t, state.User.Followers)
	assert.Equal(t, "u-old", state.User.ProfileCard.UserID)
	assert.Equal(t, "Мария", state.User.ProfileCard.Name)
	assert.False(t, state.User.ProfileCard.IsPublic)
}

func TestSnapshotStore_UnknownVersion(t *testing.T) {
	db := snapshotDB(t)
	s := NewSnapshotStore(db)

	require.NoError(t, db.Create(&models.Snapshot{
		Namespace: models.SnapshotNamespace,
		Version:   -1,
		Data:      []byte(`{}`),
	}).Error)

	_, err := s.Load()
	assert.Error(t, err)
}
