package store

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"hotspot-editor/internal/editor/codec"
	"hotspot-editor/internal/editor/geometry"
	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Project Store (multi-language)
// ============================================================

// ProjectStore owns the project list, the active project and the session
// view state of the multi-language editor. The same permissive no-op policy
// as HotspotStore applies: validation rejections leave the state untouched
// without surfacing an error.
type ProjectStore struct {
	mu         sync.Mutex
	projects   []*models.Project
	current    *models.Project
	langState  models.LanguageState
	selectedID string
	snapshots  SnapshotStore
	listeners  []func()
}

// NewProjectStore builds a store and restores the latest snapshot.
func NewProjectStore(snapshots SnapshotStore) *ProjectStore {
	s := &ProjectStore{
		langState: models.LanguageState{CurrentLanguage: models.LangZhCN},
		snapshots: snapshots,
	}
	s.load()
	return s
}

// OnChange registers a listener invoked after every state change.
func (s *ProjectStore) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *ProjectStore) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ============================================================
// Project lifecycle
// ============================================================

// Create adds a project, makes it active and switches the current language
// to its default. Returns "" when the language set is invalid.
func (s *ProjectStore) Create(name string, languages []models.LanguageCode, defaultLanguage models.LanguageCode) string {
	if len(languages) == 0 {
		return ""
	}
	found := false
	for _, l := range languages {
		if l == defaultLanguage {
			found = true
			break
		}
	}
	if !found {
		return ""
	}

	s.mu.Lock()
	now := time.Now().UnixMilli()
	p := &models.Project{
		ID:              newID("project"),
		Name:            name,
		CreatedAt:       now,
		UpdatedAt:       now,
		Languages:       append([]models.LanguageCode(nil), languages...),
		DefaultLanguage: defaultLanguage,
		BackgroundImage: make(map[models.LanguageCode]*models.BackgroundImage),
	}
	s.projects = append(s.projects, p)
	s.current = p
	s.langState.CurrentLanguage = defaultLanguage
	s.selectedID = ""
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return p.ID
}

// Load activates the project with the id; unknown ids are a no-op.
func (s *ProjectStore) Load(id string) {
	s.mu.Lock()
	p := s.projectLocked(id)
	if p == nil {
		s.mu.Unlock()
		return
	}
	s.current = p
	s.langState.CurrentLanguage = p.DefaultLanguage
	s.selectedID = ""
	s.mu.Unlock()
	s.notify()
}

// Delete removes the project and deactivates it if it was active.
func (s *ProjectStore) Delete(id string) {
	s.mu.Lock()
	kept := s.projects[:0]
	removed := false
	for _, p := range s.projects {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.projects = kept
	if !removed {
		s.mu.Unlock()
		return
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.selectedID = ""
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Rename updates the project's name wherever it is stored.
func (s *ProjectStore) Rename(id, name string) {
	s.mu.Lock()
	p := s.projectLocked(id)
	if p == nil {
		s.mu.Unlock()
		return
	}
	p.Name = name
	p.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// UpdateProjectInfo patches name and description of the active project.
func (s *ProjectStore) UpdateProjectInfo(name, description *string) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if name != nil {
		s.current.Name = *name
	}
	if description != nil {
		s.current.Description = *description
	}
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Projects returns shallow descriptors of every stored project.
func (s *ProjectStore) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p)
	}
	return out
}

// Current returns a deep copy of the active project, or nil.
func (s *ProjectStore) Current() *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProject(s.current)
}

// ============================================================
// Language set
// ============================================================

// AddLanguage appends the language; duplicates and unsupported codes are a
// no-op. New languages start with no overrides anywhere: every hotspot
// falls back to its template until edited.
func (s *ProjectStore) AddLanguage(code models.LanguageCode) {
	s.mu.Lock()
	if s.current == nil || !models.IsSupported(code) || s.current.HasLanguage(code) {
		s.mu.Unlock()
		return
	}
	s.current.Languages = append(s.current.Languages, code)
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// RemoveLanguage rejects removing the last or the default language.
// Otherwise it prunes every override for the language from all hotspots,
// drops the language's background image and, if the removed language was
// current, falls back to the default language.
func (s *ProjectStore) RemoveLanguage(code models.LanguageCode) {
	s.mu.Lock()
	p := s.current
	if p == nil || len(p.Languages) <= 1 || code == p.DefaultLanguage || !p.HasLanguage(code) {
		s.mu.Unlock()
		return
	}

	for i := range p.Hotspots {
		p.Hotspots[i].PruneLanguage(code)
	}
	delete(p.BackgroundImage, code)

	kept := p.Languages[:0]
	for _, l := range p.Languages {
		if l != code {
			kept = append(kept, l)
		}
	}
	p.Languages = kept
	p.UpdatedAt = time.Now().UnixMilli()

	if s.langState.CurrentLanguage == code {
		s.langState.CurrentLanguage = p.DefaultLanguage
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetDefaultLanguage records the fallback language; codes outside the
// project's language set are a no-op. Existing overrides are not rewritten.
func (s *ProjectStore) SetDefaultLanguage(code models.LanguageCode) {
	s.mu.Lock()
	if s.current == nil || !s.current.HasLanguage(code) {
		s.mu.Unlock()
		return
	}
	s.current.DefaultLanguage = code
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetCurrentLanguage switches the editing language. View state only.
func (s *ProjectStore) SetCurrentLanguage(code models.LanguageCode) {
	s.mu.Lock()
	s.langState.CurrentLanguage = code
	s.mu.Unlock()
	s.notify()
}

// ============================================================
// Background images
// ============================================================

// SetBackgroundImage stores url and decoded pixel size for the language.
func (s *ProjectStore) SetBackgroundImage(code models.LanguageCode, url string, size models.ImageSize) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if s.current.BackgroundImage == nil {
		s.current.BackgroundImage = make(map[models.LanguageCode]*models.BackgroundImage)
	}
	s.current.BackgroundImage[code] = &models.BackgroundImage{URL: url, Size: size}
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// RemoveBackgroundImage deletes the language's background image entry.
func (s *ProjectStore) RemoveBackgroundImage(code models.LanguageCode) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	delete(s.current.BackgroundImage, code)
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// ============================================================
// Hotspot CRUD & selection
// ============================================================

// AddHotspot assigns a fresh id and the top z-index, and selects the new
// hotspot. Returns "" when no project is active.
func (s *ProjectStore) AddHotspot(h models.MultiLanguageHotspot) string {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ""
	}
	h.ID = newID("hotspot")
	h.ZIndex = s.maxZIndexLocked() + 1
	s.current.Hotspots = append(s.current.Hotspots, h)
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.selectedID = h.ID
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return h.ID
}

// UpdateHotspot shallow-merges the patch; unknown ids are a no-op.
func (s *ProjectStore) UpdateHotspot(id string, patch models.MultiLanguageHotspotPatch) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	h := s.current.Hotspot(id)
	if h == nil {
		s.mu.Unlock()
		return
	}
	patch.Apply(h)
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// DeleteHotspot removes the hotspot; a deleted selection becomes none.
func (s *ProjectStore) DeleteHotspot(id string) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	kept := s.current.Hotspots[:0]
	removed := false
	for _, h := range s.current.Hotspots {
		if h.ID == id {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	s.current.Hotspots = kept
	if !removed {
		s.mu.Unlock()
		return
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Select sets the selection; an empty id clears it.
func (s *ProjectStore) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
}

// Selected returns a deep copy of the selected hotspot, if any.
func (s *ProjectStore) Selected() (models.MultiLanguageHotspot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.selectedID == "" {
		return models.MultiLanguageHotspot{}, false
	}
	h := s.current.Hotspot(s.selectedID)
	if h == nil {
		return models.MultiLanguageHotspot{}, false
	}
	return h.Clone(), true
}

// Hotspot returns a deep copy of the hotspot with the id, if any.
func (s *ProjectStore) Hotspot(id string) (models.MultiLanguageHotspot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.MultiLanguageHotspot{}, false
	}
	h := s.current.Hotspot(id)
	if h == nil {
		return models.MultiLanguageHotspot{}, false
	}
	return h.Clone(), true
}

// Hotspots returns deep copies of the active project's hotspots.
func (s *ProjectStore) Hotspots() []models.MultiLanguageHotspot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	out := make([]models.MultiLanguageHotspot, 0, len(s.current.Hotspots))
	for i := range s.current.Hotspots {
		out = append(out, s.current.Hotspots[i].Clone())
	}
	return out
}

// DeleteSelected removes the current selection, if any.
func (s *ProjectStore) DeleteSelected() {
	s.mu.Lock()
	id := s.selectedID
	s.mu.Unlock()
	if id != "" {
		s.DeleteHotspot(id)
	}
}

// ============================================================
// Multi-language text
// ============================================================

// UpdateText is the single mutation primitive every copy/reset/batch
// operation goes through. It locates the hotspot, creates the nested path
// as needed and writes the language override. Writes to action fields of a
// hotspot without an action are refused.
func (s *ProjectStore) UpdateText(hotspotID string, field models.TextField, lang models.LanguageCode, value string) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	h := s.current.Hotspot(hotspotID)
	if h == nil {
		s.mu.Unlock()
		return
	}
	slot := h.EnsureText(field)
	if slot == nil {
		s.mu.Unlock()
		return
	}
	slot.Set(lang, value)
	s.current.UpdatedAt = time.Now().UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Effective resolves the field for the language: override first, template
// as fallback.
func (s *ProjectStore) Effective(hotspotID string, field models.TextField, lang models.LanguageCode) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	h := s.current.Hotspot(hotspotID)
	if h == nil {
		return ""
	}
	return h.Effective(field, lang)
}

// CopyConfigBetweenLanguages copies every override present for fromLang to
// toLang; fields without a fromLang override are left untouched.
func (s *ProjectStore) CopyConfigBetweenLanguages(hotspotID string, fromLang, toLang models.LanguageCode) {
	h, ok := s.Hotspot(hotspotID)
	if !ok {
		return
	}
	for _, field := range models.TextFields {
		if v, ok := h.Text(field).Get(fromLang); ok && v != "" {
			s.UpdateText(hotspotID, field, toLang, v)
		}
	}
}

// ResetToDefault rewrites the language's overrides from the default
// language's effective values. No-op when lang is the default itself.
func (s *ProjectStore) ResetToDefault(hotspotID string, lang models.LanguageCode) {
	s.mu.Lock()
	if s.current == nil || s.current.DefaultLanguage == lang {
		s.mu.Unlock()
		return
	}
	defaultLang := s.current.DefaultLanguage
	s.mu.Unlock()

	h, ok := s.Hotspot(hotspotID)
	if !ok {
		return
	}
	for _, field := range models.TextFields {
		if v := h.Effective(field, defaultLang); v != "" {
			s.UpdateText(hotspotID, field, lang, v)
		}
	}
}

// CopyTextToLanguages fans the field's effective value at sourceLang out to
// every target language.
func (s *ProjectStore) CopyTextToLanguages(hotspotID string, field models.TextField, sourceLang models.LanguageCode, targetLangs []models.LanguageCode) {
	h, ok := s.Hotspot(hotspotID)
	if !ok {
		return
	}
	value := h.Effective(field, sourceLang)
	for _, lang := range targetLangs {
		s.UpdateText(hotspotID, field, lang, value)
	}
}

// BatchEdit applies the operation's value over the cartesian product of
// target hotspots and target languages. Each write is an independent
// in-memory mutation, so there is no partial-failure state to roll back.
func (s *ProjectStore) BatchEdit(cfg models.BatchEditConfig) {
	field := cfg.Operation.Field()
	if field == "" {
		return
	}

	var targets []string
	if cfg.ApplyToAll {
		for _, h := range s.Hotspots() {
			targets = append(targets, h.ID)
		}
	} else {
		targets = cfg.SelectedHotspotIDs
	}

	for _, id := range targets {
		for _, lang := range cfg.TargetLanguages {
			s.UpdateText(id, field, lang, cfg.Value)
		}
	}
}

// ============================================================
// View state
// ============================================================

// LanguageState returns a copy of the session view state.
func (s *ProjectStore) LanguageState() models.LanguageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.langState
	state.CompareLanguages = append([]models.LanguageCode(nil), s.langState.CompareLanguages...)
	return state
}

// ToggleShowAllLanguages flips the all-languages panel. Never persisted.
func (s *ProjectStore) ToggleShowAllLanguages() {
	s.mu.Lock()
	s.langState.ShowAllLanguages = !s.langState.ShowAllLanguages
	s.mu.Unlock()
	s.notify()
}

// ToggleCompareMode flips side-by-side comparison. Never persisted.
func (s *ProjectStore) ToggleCompareMode() {
	s.mu.Lock()
	s.langState.CompareMode = !s.langState.CompareMode
	s.mu.Unlock()
	s.notify()
}

// SetCompareLanguages records which languages compare mode shows.
func (s *ProjectStore) SetCompareLanguages(langs []models.LanguageCode) {
	s.mu.Lock()
	s.langState.CompareLanguages = append([]models.LanguageCode(nil), langs...)
	s.mu.Unlock()
	s.notify()
}

// ============================================================
// Drawing board
// ============================================================

// AddRect creates a default hotspot from a drawn rectangle.
func (s *ProjectStore) AddRect(rect models.Rect) string {
	return s.AddHotspot(models.MultiLanguageHotspot{
		Type: models.TypeHotspot,
		Rect: rect,
		Name: &models.LocalizedText{Template: "New hotspot"},
	})
}

// CaptureSelected returns a deep copy of the selection for the clipboard.
func (s *ProjectStore) CaptureSelected() (models.MultiLanguageHotspot, bool) {
	return s.Selected()
}

// Paste inserts a clipboard hotspot shifted by two percentage points
// (clamped at 98%) with the name suffixed, through the normal add path.
func (s *ProjectStore) Paste(h models.MultiLanguageHotspot) (string, bool) {
	dup := h.Clone()
	dup.Rect = geometry.OffsetRect(dup.Rect, 2, 98)
	if dup.Name != nil {
		if dup.Name.Template != "" {
			dup.Name.Template += " copy"
		}
		for lang, v := range dup.Name.Overrides {
			if v != "" {
				dup.Name.Overrides[lang] = v + " copy"
			}
		}
	}
	id := s.AddHotspot(dup)
	return id, id != ""
}

// ============================================================
// Export / import
// ============================================================

// ExportSingleLanguage flattens the active project for one language.
// Nil when no project is active or the language has no background image.
func (s *ProjectStore) ExportSingleLanguage(lang models.LanguageCode) *models.SingleLanguageExportConfig {
	s.mu.Lock()
	p := cloneProject(s.current)
	s.mu.Unlock()
	return codec.ExportSingleLanguage(p, lang)
}

// ExportAllLanguages exports every language that has a background image.
func (s *ProjectStore) ExportAllLanguages() map[models.LanguageCode]*models.SingleLanguageExportConfig {
	s.mu.Lock()
	p := cloneProject(s.current)
	s.mu.Unlock()
	return codec.ExportAllLanguages(p)
}

// ImportProjectConfig replaces or inserts the project from a config file
// and activates it. Malformed payloads leave the store unchanged.
func (s *ProjectStore) ImportProjectConfig(data []byte) error {
	p, err := codec.ParseProjectImport(data)
	if err != nil {
		slog.Warn("import project config", "error", err)
		return err
	}

	s.mu.Lock()
	replaced := false
	for i, existing := range s.projects {
		if existing.ID == p.ID {
			s.projects[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		s.projects = append(s.projects, p)
	}
	s.current = p
	s.langState.CurrentLanguage = p.DefaultLanguage
	s.selectedID = ""
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// ============================================================
// Persistence
// ============================================================

func (s *ProjectStore) persistLocked() {
	if s.snapshots == nil {
		return
	}
	snap := models.ProjectSnapshot{
		Projects:  s.projects,
		Timestamp: time.Now().UnixMilli(),
	}
	if s.current != nil {
		snap.CurrentProjectID = s.current.ID
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("marshal project snapshot", "error", err)
		return
	}
	if err := s.snapshots.Save(ProjectSnapshotKey, data); err != nil {
		slog.Error("save project snapshot", "error", err)
	}
}

func (s *ProjectStore) load() {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(ProjectSnapshotKey)
	if err != nil {
		slog.Warn("load project snapshot", "error", err)
		return
	}
	if data == nil {
		return
	}
	var snap models.ProjectSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("corrupt project snapshot, starting empty", "error", err)
		return
	}
	s.projects = snap.Projects
	for _, p := range s.projects {
		p.Migrate()
	}
	if snap.CurrentProjectID != "" {
		if p := s.projectLocked(snap.CurrentProjectID); p != nil {
			s.current = p
			s.langState.CurrentLanguage = p.DefaultLanguage
		}
	}
}

func (s *ProjectStore) projectLocked(id string) *models.Project {
	for _, p := range s.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *ProjectStore) maxZIndexLocked() int {
	max := 0
	for i := range s.current.Hotspots {
		if s.current.Hotspots[i].ZIndex > max {
			max = s.current.Hotspots[i].ZIndex
		}
	}
	return max
}

func cloneProject(p *models.Project) *models.Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Languages = append([]models.LanguageCode(nil), p.Languages...)
	if p.BackgroundImage != nil {
		c.BackgroundImage = make(map[models.LanguageCode]*models.BackgroundImage, len(p.BackgroundImage))
		for k, v := range p.BackgroundImage {
			img := *v
			c.BackgroundImage[k] = &img
		}
	}
	c.Hotspots = make([]models.MultiLanguageHotspot, 0, len(p.Hotspots))
	for i := range p.Hotspots {
		c.Hotspots = append(c.Hotspots, p.Hotspots[i].Clone())
	}
	return &c
}
