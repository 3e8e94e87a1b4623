package store

import (
	"encoding/json"
	"sync"
	"testing"

	"hotspot-editor/internal/editor/models"
)

// memorySnapshots is an in-memory SnapshotStore for tests.
type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string][]byte)}
}

func (m *memorySnapshots) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memorySnapshots) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func sampleHotspot(name string) models.Hotspot {
	return models.Hotspot{
		Type: models.TypeHotspot,
		Name: name,
		Rect: models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "15.00%"},
	}
}

func TestAddAssignsIDZIndexAndSelection(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())

	first := s.Add(sampleHotspot("a"))
	second := s.Add(sampleHotspot("b"))

	if first == "" || second == "" || first == second {
		t.Fatalf("ids not unique: %q %q", first, second)
	}

	hotspots := s.Hotspots()
	if len(hotspots) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(hotspots))
	}
	if hotspots[0].ZIndex != 1 || hotspots[1].ZIndex != 2 {
		t.Errorf("z-indexes %d, %d; want 1, 2", hotspots[0].ZIndex, hotspots[1].ZIndex)
	}

	sel, ok := s.Selected()
	if !ok || sel.ID != second {
		t.Errorf("new hotspot not selected: %v %v", ok, sel.ID)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	s.Add(sampleHotspot("a"))

	before := s.Hotspots()
	name := "renamed"
	s.Update("missing", models.HotspotPatch{Name: &name})
	after := s.Hotspots()

	if len(after) != len(before) || after[0].Name != before[0].Name {
		t.Errorf("update with unknown id changed state")
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	id := s.Add(sampleHotspot("a"))

	name := "renamed"
	s.Update(id, models.HotspotPatch{Name: &name})

	got := s.Hotspots()[0]
	if got.Name != "renamed" {
		t.Errorf("name = %q, want %q", got.Name, "renamed")
	}
	if got.Rect.Left != "10.00%" {
		t.Errorf("rect changed by unrelated patch: %+v", got.Rect)
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	id := s.Add(sampleHotspot("a"))

	s.Delete(id)

	if _, ok := s.Selected(); ok {
		t.Error("selection survived deleting the selected hotspot")
	}
	if len(s.Hotspots()) != 0 {
		t.Error("hotspot not removed")
	}
}

func TestCopySuffixesNameAndOffsetsRect(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	id := s.Add(sampleHotspot("button"))

	dupID, ok := s.Copy(id)
	if !ok {
		t.Fatal("copy failed")
	}

	var dup models.Hotspot
	for _, h := range s.Hotspots() {
		if h.ID == dupID {
			dup = h
		}
	}
	if dup.Name != "button copy" {
		t.Errorf("name = %q, want %q", dup.Name, "button copy")
	}
	if dup.Rect.Left != "12.00%" || dup.Rect.Top != "12.00%" {
		t.Errorf("rect not offset: %+v", dup.Rect)
	}
	if dup.ZIndex != 2 {
		t.Errorf("copy z-index = %d, want top", dup.ZIndex)
	}

	sel, _ := s.Selected()
	if sel.ID != dupID {
		t.Error("copy not selected")
	}
}

func TestMoveUpSwapsWithNearestAbove(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	a := s.Add(sampleHotspot("a")) // z=1
	b := s.Add(sampleHotspot("b")) // z=2
	c := s.Add(sampleHotspot("c")) // z=3

	s.MoveUp(a)

	z := map[string]int{}
	for _, h := range s.Hotspots() {
		z[h.ID] = h.ZIndex
	}
	if z[a] != 2 || z[b] != 1 || z[c] != 3 {
		t.Errorf("z after MoveUp(a): a=%d b=%d c=%d", z[a], z[b], z[c])
	}

	// Already on top: no change.
	s.MoveUp(c)
	for _, h := range s.Hotspots() {
		if h.ID == c && h.ZIndex != 3 {
			t.Errorf("MoveUp on topmost changed z to %d", h.ZIndex)
		}
	}
}

func TestMoveToBottomGoesBelowAll(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	s.Add(sampleHotspot("a"))
	s.Add(sampleHotspot("b"))
	c := s.Add(sampleHotspot("c"))

	s.MoveToBottom(c)

	for _, h := range s.Hotspots() {
		if h.ID == c {
			if h.ZIndex != 0 {
				t.Errorf("z = %d, want 0", h.ZIndex)
			}
		} else if h.ZIndex <= 0 {
			t.Errorf("non-moved hotspot fell below: %d", h.ZIndex)
		}
	}
}

func TestExportSortsByZIndexAndStripsIdentity(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	a := s.Add(sampleHotspot("a"))
	s.Add(sampleHotspot("b"))
	s.MoveToTop(a) // a now paints last

	cfg := s.ExportConfig()
	if len(cfg.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(cfg.Modules))
	}
	if cfg.Modules[0].Name != "b" || cfg.Modules[1].Name != "a" {
		t.Errorf("modules not in paint order: %q, %q", cfg.Modules[0].Name, cfg.Modules[1].Name)
	}
}

func TestImportAssignsFreshIdentity(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	s.Add(sampleHotspot("old"))
	s.Select(s.Hotspots()[0].ID)

	s.ImportConfig(models.ExportConfig{
		BackgroundImageURL: "/uploads/bg.png",
		Modules: []models.ExportModule{
			{Type: models.TypeHotspot, Name: "x", Rect: models.Rect{Left: "0.00%", Top: "0.00%", Width: "10.00%", Height: "10.00%"}},
			{Type: models.TypeVideo, Name: "y", Rect: models.Rect{Left: "5.00%", Top: "5.00%", Width: "10.00%", Height: "10.00%"}},
		},
	})

	hotspots := s.Hotspots()
	if len(hotspots) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(hotspots))
	}
	for i, h := range hotspots {
		if h.ID == "" {
			t.Error("imported hotspot without id")
		}
		if h.ZIndex != i+1 {
			t.Errorf("z-index %d, want %d", h.ZIndex, i+1)
		}
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection survived import")
	}
	url, _ := s.BackgroundImage()
	if url != "/uploads/bg.png" {
		t.Errorf("background url = %q", url)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snaps := newMemorySnapshots()

	s := NewHotspotStore(snaps)
	s.Add(sampleHotspot("persisted"))
	s.SetBackgroundImage("/uploads/bg.png", models.ImageSize{Width: 800, Height: 600})

	restored := NewHotspotStore(snaps)
	hotspots := restored.Hotspots()
	if len(hotspots) != 1 || hotspots[0].Name != "persisted" {
		t.Fatalf("state not restored: %+v", hotspots)
	}
	url, size := restored.BackgroundImage()
	if url != "/uploads/bg.png" || size == nil || size.Width != 800 {
		t.Errorf("background not restored: %q %+v", url, size)
	}
	if _, ok := restored.Selected(); ok {
		t.Error("selection restored; should reset on load")
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	snaps := newMemorySnapshots()
	snaps.Save(EditorSnapshotKey, []byte("{not json"))

	s := NewHotspotStore(snaps)
	if len(s.Hotspots()) != 0 {
		t.Error("corrupt snapshot produced hotspots")
	}

	// The store keeps working and overwrites the bad snapshot.
	s.Add(sampleHotspot("fresh"))
	data, _ := snaps.Load(EditorSnapshotKey)
	var snap models.EditorSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot still corrupt: %v", err)
	}
	if len(snap.Hotspots) != 1 {
		t.Errorf("expected 1 persisted hotspot, got %d", len(snap.Hotspots))
	}
}

func TestOnChangeFiresAfterMutation(t *testing.T) {
	s := NewHotspotStore(newMemorySnapshots())
	calls := 0
	s.OnChange(func() { calls++ })

	s.Add(sampleHotspot("a"))
	s.SetCanvasScale(1.5)

	if calls != 2 {
		t.Errorf("listener fired %d times, want 2", calls)
	}
}
