package service

import (
	"sync"

	"github.com/google/uuid"

	"hotspot-editor/internal/editor/draw"
	"hotspot-editor/internal/editor/store"
)

// ============================================================
// Session Manager
// ============================================================

// Session bundles the per-client editing state: both store surfaces, the
// drawing controller and the keyboard dispatcher with its clipboard.
type Session struct {
	Token    string
	Hotspots *store.HotspotStore
	Projects *store.ProjectStore
	Drawing  *draw.Controller
	Keymap   *draw.Dispatcher
}

type SessionManager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	snapshots store.SnapshotStore
}

func NewSessionManager(snapshots store.SnapshotStore) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		snapshots: snapshots,
	}
}

// Issue creates a session with fresh stores over the shared snapshot
// backend and returns its token.
func (m *SessionManager) Issue() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	projects := store.NewProjectStore(m.snapshots)
	s := &Session{
		Token:    uuid.NewString(),
		Hotspots: store.NewHotspotStore(m.snapshots),
		Projects: projects,
		Drawing:  draw.NewController(projects, 0, 0),
		Keymap:   draw.NewEditorKeymap(projects),
	}
	m.sessions[s.Token] = s
	return s
}

// Resolve returns the session for the token.
func (m *SessionManager) Resolve(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	return s, ok
}

// Drop removes the session. Its clipboard and view state die with it.
func (m *SessionManager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
