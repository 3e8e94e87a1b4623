package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Snapshot persistence
// ============================================================

// Snapshot keys, one per editor surface.
const (
	EditorSnapshotKey  = "hotspot-editor-data"
	ProjectSnapshotKey = "multi-language-editor-data"
)

// SnapshotStore persists full-state snapshots keyed by editor surface.
// Load returns (nil, nil) when no snapshot exists.
type SnapshotStore interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
}

// ============================================================
// Identity
// ============================================================

// newID generates ids like "hotspot-1719922551123-3f9a81bc":
// prefix, unix milliseconds, random suffix.
func newID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}
