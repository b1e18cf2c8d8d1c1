package models

// AppState is the full state container: one local profile plus every
// list it owns. The in-memory copy is authoritative for the session;
// the persisted snapshot exists for restart recovery.
type AppState struct {
	User          UserProfile          `json:"user"`
	Scans         []ScanRecord         `json:"scans"` // most-recent-first
	Favorites     []FavoriteIngredient `json:"favorites"`
	Stacks        []Stack              `json:"stacks"`
	Messages      []Message            `json:"messages"` // most-recent-first
	Notifications []Notification       `json:"notifications"`
	Friends       []Friend             `json:"friends"`
}

// SnapshotVersion is the current snapshot schema version. Loading an
// older snapshot runs the migration chain before unmarshal.
const SnapshotVersion = 1

// SnapshotNamespace keys the single snapshot row.
const SnapshotNamespace = "hapche-app-storage"

// Snapshot is the persisted row: the whole AppState serialized as one
// JSON blob, rewritten on every mutation.
type Snapshot struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Version   int    `gorm:"not null"`
	Data      []byte `gorm:"type:blob"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}
