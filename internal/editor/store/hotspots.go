package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"hotspot-editor/internal/editor/geometry"
	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Hotspot Store (single language)
// ============================================================

// HotspotStore owns the single-language hotspot collection. Every mutating
// operation writes a full-state snapshot; validation failures are silent
// no-ops rather than errors, which suits a UI editing loop where retries
// are harmless.
type HotspotStore struct {
	mu          sync.Mutex
	hotspots    []models.Hotspot
	selectedID  string
	bgURL       string
	bgSize      *models.ImageSize
	canvasScale float64
	snapshots   SnapshotStore
	listeners   []func()
}

// NewHotspotStore builds a store and restores the latest snapshot. A missing
// or corrupt snapshot degrades to empty state.
func NewHotspotStore(snapshots SnapshotStore) *HotspotStore {
	s := &HotspotStore{
		canvasScale: 1,
		snapshots:   snapshots,
	}
	s.load()
	return s
}

// OnChange registers a listener invoked after every state change.
func (s *HotspotStore) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *HotspotStore) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ============================================================
// CRUD & selection
// ============================================================

// Add assigns a fresh id and the top z-index, and selects the new hotspot.
func (s *HotspotStore) Add(h models.Hotspot) string {
	s.mu.Lock()
	h.ID = newID("hotspot")
	h.ZIndex = s.maxZIndexLocked() + 1
	s.hotspots = append(s.hotspots, h)
	s.selectedID = h.ID
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return h.ID
}

// AddRect creates a default hotspot from a drawn rectangle.
func (s *HotspotStore) AddRect(rect models.Rect) string {
	return s.Add(models.Hotspot{
		Type: models.TypeHotspot,
		Name: "New hotspot",
		Rect: rect,
	})
}

// Update shallow-merges the patch; unknown ids are a silent no-op.
func (s *HotspotStore) Update(id string, patch models.HotspotPatch) {
	s.mu.Lock()
	h := s.findLocked(id)
	if h == nil {
		s.mu.Unlock()
		return
	}
	patch.Apply(h)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Delete removes the hotspot; a deleted selection becomes none.
func (s *HotspotStore) Delete(id string) {
	s.mu.Lock()
	kept := s.hotspots[:0]
	removed := false
	for _, h := range s.hotspots {
		if h.ID == id {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	s.hotspots = kept
	if !removed {
		s.mu.Unlock()
		return
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Select sets the selection; an empty id clears it. Selection is view state
// and is not persisted.
func (s *HotspotStore) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

// Selected returns a copy of the selected hotspot, if any.
func (s *HotspotStore) Selected() (models.Hotspot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.findLocked(s.selectedID)
	if h == nil {
		return models.Hotspot{}, false
	}
	return *h, true
}

// Hotspots returns a copy of the collection.
func (s *HotspotStore) Hotspots() []models.Hotspot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Hotspot, len(s.hotspots))
	copy(out, s.hotspots)
	return out
}

// Copy duplicates the hotspot with a fresh id, the name suffixed, position
// shifted by two percentage points (clamped at 95%) and the top z-index.
func (s *HotspotStore) Copy(id string) (string, bool) {
	s.mu.Lock()
	src := s.findLocked(id)
	if src == nil {
		s.mu.Unlock()
		return "", false
	}
	dup := *src
	dup.ID = newID("hotspot")
	if dup.Name != "" {
		dup.Name += " copy"
	}
	dup.Rect = geometry.OffsetRect(dup.Rect, 2, 95)
	dup.ZIndex = s.maxZIndexLocked() + 1
	s.hotspots = append(s.hotspots, dup)
	s.selectedID = dup.ID
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return dup.ID, true
}

// DeleteSelected removes the current selection, if any.
func (s *HotspotStore) DeleteSelected() {
	s.mu.Lock()
	id := s.selectedID
	s.mu.Unlock()
	if id != "" {
		s.Delete(id)
	}
}

// CopySelected duplicates the current selection, if any.
func (s *HotspotStore) CopySelected() (string, bool) {
	s.mu.Lock()
	id := s.selectedID
	s.mu.Unlock()
	if id == "" {
		return "", false
	}
	return s.Copy(id)
}

// ============================================================
// Layer order
// ============================================================

// MoveToTop raises the hotspot above every other.
func (s *HotspotStore) MoveToTop(id string) {
	s.mu.Lock()
	h := s.findLocked(id)
	if h == nil {
		s.mu.Unlock()
		return
	}
	h.ZIndex = s.maxZIndexLocked() + 1
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// MoveToBottom lowers the hotspot below every other.
func (s *HotspotStore) MoveToBottom(id string) {
	s.mu.Lock()
	h := s.findLocked(id)
	if h == nil {
		s.mu.Unlock()
		return
	}
	min := h.ZIndex
	for i := range s.hotspots {
		if s.hotspots[i].ZIndex < min {
			min = s.hotspots[i].ZIndex
		}
	}
	h.ZIndex = min - 1
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// MoveUp swaps z-index with the nearest hotspot strictly above. Swapping,
// rather than incrementing, keeps the z-order dense and collision-free
// under repeated moves.
func (s *HotspotStore) MoveUp(id string) {
	s.swapNeighbor(id, true)
}

// MoveDown swaps z-index with the nearest hotspot strictly below.
func (s *HotspotStore) MoveDown(id string) {
	s.swapNeighbor(id, false)
}

func (s *HotspotStore) swapNeighbor(id string, up bool) {
	s.mu.Lock()
	h := s.findLocked(id)
	if h == nil {
		s.mu.Unlock()
		return
	}
	var neighbor *models.Hotspot
	for i := range s.hotspots {
		other := &s.hotspots[i]
		if up {
			if other.ZIndex <= h.ZIndex {
				continue
			}
			if neighbor == nil || other.ZIndex < neighbor.ZIndex {
				neighbor = other
			}
		} else {
			if other.ZIndex >= h.ZIndex {
				continue
			}
			if neighbor == nil || other.ZIndex > neighbor.ZIndex {
				neighbor = other
			}
		}
	}
	if neighbor == nil {
		s.mu.Unlock()
		return
	}
	h.ZIndex, neighbor.ZIndex = neighbor.ZIndex, h.ZIndex
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ============================================================
// Background image & canvas
// ============================================================

// SetBackgroundImage stores the image URL and its decoded pixel size.
func (s *HotspotStore) SetBackgroundImage(url string, size models.ImageSize) {
	s.mu.Lock()
	s.bgURL = url
	s.bgSize = &size
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ClearBackgroundImage drops the background image and its size.
func (s *HotspotStore) ClearBackgroundImage() {
	s.mu.Lock()
	s.bgURL = ""
	s.bgSize = nil
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// BackgroundImage returns the current URL and size; size is nil until an
// image decode has completed.
func (s *HotspotStore) BackgroundImage() (string, *models.ImageSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bgSize == nil {
		return s.bgURL, nil
	}
	size := *s.bgSize
	return s.bgURL, &size
}

// SetCanvasScale records the zoom factor. Pure view state, not persisted.
func (s *HotspotStore) SetCanvasScale(scale float64) {
	s.mu.Lock()
	s.canvasScale = scale
	s.mu.Unlock()
	s.notify()
}

// CanvasScale returns the current zoom factor.
func (s *HotspotStore) CanvasScale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvasScale
}

// ClearAll drops every hotspot and the selection.
func (s *HotspotStore) ClearAll() {
	s.mu.Lock()
	s.hotspots = nil
	s.selectedID = ""
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ============================================================
// Export / import
// ============================================================

// ExportConfig strips ids and z-indexes; modules are emitted in paint order
// (ascending z-index).
func (s *HotspotStore) ExportConfig() models.ExportConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := make([]models.Hotspot, len(s.hotspots))
	copy(ordered, s.hotspots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	modules := make([]models.ExportModule, 0, len(ordered))
	for _, h := range ordered {
		modules = append(modules, models.ExportModule{
			Type:   h.Type,
			Name:   h.Name,
			Rect:   h.Rect,
			Action: h.Action,
			Data:   h.Data,
		})
	}
	return models.ExportConfig{
		BackgroundImageURL: s.bgURL,
		Modules:            modules,
	}
}

// ImportConfig rebuilds the collection from modules with fresh ids and
// z-index following array position, replaces the background image and
// clears the selection.
func (s *HotspotStore) ImportConfig(cfg models.ExportConfig) {
	s.mu.Lock()
	now := time.Now().UnixMilli()
	hotspots := make([]models.Hotspot, 0, len(cfg.Modules))
	for i, m := range cfg.Modules {
		hotspots = append(hotspots, models.Hotspot{
			ID:     fmt.Sprintf("imported-%d-%d", now, i),
			Type:   m.Type,
			Name:   m.Name,
			Rect:   m.Rect,
			Action: m.Action,
			Data:   m.Data,
			ZIndex: i + 1,
		})
	}
	s.hotspots = hotspots
	s.bgURL = cfg.BackgroundImageURL
	s.selectedID = ""
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ============================================================
// Persistence
// ============================================================

func (s *HotspotStore) persistLocked() {
	if s.snapshots == nil {
		return
	}
	snap := models.EditorSnapshot{
		Hotspots:            s.hotspots,
		BackgroundImageURL:  s.bgURL,
		BackgroundImageSize: s.bgSize,
		Timestamp:           time.Now().UnixMilli(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("marshal editor snapshot", "error", err)
		return
	}
	if err := s.snapshots.Save(EditorSnapshotKey, data); err != nil {
		slog.Error("save editor snapshot", "error", err)
	}
}

func (s *HotspotStore) load() {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(EditorSnapshotKey)
	if err != nil {
		slog.Warn("load editor snapshot", "error", err)
		return
	}
	if data == nil {
		return
	}
	var snap models.EditorSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("corrupt editor snapshot, starting empty", "error", err)
		return
	}
	s.hotspots = snap.Hotspots
	s.bgURL = snap.BackgroundImageURL
	s.bgSize = snap.BackgroundImageSize
	s.selectedID = ""
}

func (s *HotspotStore) findLocked(id string) *models.Hotspot {
	if id == "" {
		return nil
	}
	for i := range s.hotspots {
		if s.hotspots[i].ID == id {
			return &s.hotspots[i]
		}
	}
	return nil
}

func (s *HotspotStore) maxZIndexLocked() int {
	max := 0
	for i := range s.hotspots {
		if s.hotspots[i].ZIndex > max {
			max = s.hotspots[i].ZIndex
		}
	}
	return max
}
