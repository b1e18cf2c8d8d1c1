package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goodypm20014-source/hapche-social/models"
)

// SnapshotStore persists the serialized AppState as a single row keyed
// by the storage namespace, rewritten on every mutation.
type SnapshotStore struct {
	db *gorm.DB
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Load reads the snapshot row and runs the migration chain up to the
// current schema version. Returns (nil, nil) when no snapshot exists.
func (s *SnapshotStore) Load() ([]byte, error) {
	var snap models.Snapshot
	err := s.db.First(&snap, "namespace = ?", models.SnapshotNamespace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	raw := snap.Data
	for v := snap.Version; v < models.SnapshotVersion; v++ {
		migrate, ok := snapshotMigrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration from snapshot version %d", v)
		}
		migrated, err := migrate(raw)
		if err != nil {
			return nil, fmt.Errorf("migrating snapshot v%d: %w", v, err)
		}
		raw = migrated
	}
	return raw, nil
}

// Save upserts the snapshot row at the current version.
func (s *SnapshotStore) Save(data []byte) error {
	snap := models.Snapshot{
		Namespace: models.SnapshotNamespace,
		Version:   models.SnapshotVersion,
		Data:      data,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "data", "updated_at"}),
	}).Create(&snap).Error
}

// snapshotMigrations maps a source version to the step lifting it one
// version. Steps are applied in sequence until SnapshotVersion.
var snapshotMigrations = map[int]func([]byte) ([]byte, error){
	0: migrateSnapshotV0,
}

// migrateSnapshotV0 lifts pre-versioning snapshots: early builds stored
// the profile before the social fields existed, so missing sets and the
// profile card are filled with defaults instead of being left null.
func migrateSnapshotV0(raw []byte) ([]byte, error) {
	var state map[string]json.RawMessage
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}

	var user map[string]any
	if u, ok := state["user"]; ok {
		if err := json.Unmarshal(u, &user); err != nil {
			return nil, err
		}
	} else {
		user = map[string]any{}
	}

	ensure := func(key string, def any) {
		if _, ok := user[key]; !ok {
			user[key] = def
		}
	}
	ensure("badges", []string{})
	ensure("following", []string{})
	ensure("followers", []string{})
	ensure("rating", 0.0)
	if _, ok := user["profile_card"]; !ok {
		user["profile_card"] = map[string]any{
			"user_id":   user["id"],
			"name":      user["name"],
			"interests": []string{},
			"is_public": false,
			"shareable_info": map[string]bool{
				"favorite_supplements": false,
				"stacks":               false,
				"goals":                false,
			},
		}
	}

	u, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	state["user"] = u
	return json.Marshal(state)
}
