package store

import (
	"testing"

	"hotspot-editor/internal/editor/models"
)

func newTestProjectStore(t *testing.T) (*ProjectStore, string) {
	t.Helper()
	s := NewProjectStore(newMemorySnapshots())
	id := s.Create("campaign", []models.LanguageCode{models.LangZhCN, models.LangEnUS}, models.LangZhCN)
	if id == "" {
		t.Fatal("project creation failed")
	}
	return s, id
}

func TestCreateRejectsInvalidLanguageSet(t *testing.T) {
	s := NewProjectStore(newMemorySnapshots())

	if id := s.Create("p", nil, models.LangZhCN); id != "" {
		t.Error("created project with no languages")
	}
	if id := s.Create("p", []models.LanguageCode{models.LangEnUS}, models.LangZhCN); id != "" {
		t.Error("created project whose default is outside its languages")
	}
}

func TestCreateActivatesAndSwitchesLanguage(t *testing.T) {
	s, _ := newTestProjectStore(t)

	p := s.Current()
	if p == nil || p.Name != "campaign" {
		t.Fatalf("project not active: %+v", p)
	}
	if s.LanguageState().CurrentLanguage != models.LangZhCN {
		t.Errorf("current language = %q, want zh-CN", s.LanguageState().CurrentLanguage)
	}
}

func TestRemoveLanguageGuards(t *testing.T) {
	s, _ := newTestProjectStore(t)

	s.RemoveLanguage(models.LangZhCN) // default
	if len(s.Current().Languages) != 2 {
		t.Error("removed the default language")
	}

	s.RemoveLanguage(models.LangEnUS)
	s.RemoveLanguage(models.LangZhCN) // now the last
	if len(s.Current().Languages) != 1 {
		t.Error("removed the last language")
	}
}

func TestRemoveLanguagePrunesOverrides(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.UpdateText(id, models.FieldName, models.LangEnUS, "Button")
	s.SetBackgroundImage(models.LangEnUS, "/uploads/en.png", models.ImageSize{Width: 100, Height: 100})
	s.SetCurrentLanguage(models.LangEnUS)

	s.RemoveLanguage(models.LangEnUS)

	h, _ := s.Hotspot(id)
	if _, ok := h.Name.Get(models.LangEnUS); ok {
		t.Error("override survived language removal")
	}
	if _, ok := s.Current().BackgroundImage[models.LangEnUS]; ok {
		t.Error("background image survived language removal")
	}
	if s.LanguageState().CurrentLanguage != models.LangZhCN {
		t.Error("current language not reset to default")
	}
}

func TestAddLanguageStartsWithFallbacks(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.AddLanguage(models.LangJaJP)

	if s.Effective(id, models.FieldName, models.LangJaJP) != "New hotspot" {
		t.Error("new language does not fall back to the template")
	}

	// Duplicates and unknown codes are refused.
	s.AddLanguage(models.LangJaJP)
	s.AddLanguage(models.LanguageCode("xx-XX"))
	if got := len(s.Current().Languages); got != 3 {
		t.Errorf("language count = %d, want 3", got)
	}
}

func TestUpdateTextRefusesActionFieldsWithoutAction(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.UpdateText(id, models.FieldActionURL, models.LangZhCN, "https://a.com")
	h, _ := s.Hotspot(id)
	if h.Action != nil {
		t.Error("write to action.url invented an action")
	}

	action := &models.MultiLanguageAction{Type: models.ActionJumpURL}
	s.UpdateHotspot(id, models.MultiLanguageHotspotPatch{Action: action})
	s.UpdateText(id, models.FieldActionURL, models.LangZhCN, "https://a.com")

	if got := s.Effective(id, models.FieldActionURL, models.LangZhCN); got != "https://a.com" {
		t.Errorf("action.url = %q", got)
	}
}

func TestOverrideResolution(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.UpdateText(id, models.FieldName, models.LangZhCN, "按钮")

	if got := s.Effective(id, models.FieldName, models.LangZhCN); got != "按钮" {
		t.Errorf("override not used: %q", got)
	}
	if got := s.Effective(id, models.FieldName, models.LangEnUS); got != "New hotspot" {
		t.Errorf("template fallback broken: %q", got)
	}

	// An empty override also falls back.
	s.UpdateText(id, models.FieldName, models.LangEnUS, "")
	if got := s.Effective(id, models.FieldName, models.LangEnUS); got != "New hotspot" {
		t.Errorf("empty override did not fall back: %q", got)
	}
}

func TestCopyConfigBetweenLanguages(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.UpdateText(id, models.FieldName, models.LangZhCN, "按钮")
	s.UpdateText(id, models.FieldTextContent, models.LangZhCN, "内容")

	s.CopyConfigBetweenLanguages(id, models.LangZhCN, models.LangEnUS)

	h, _ := s.Hotspot(id)
	if v, _ := h.Name.Get(models.LangEnUS); v != "按钮" {
		t.Errorf("name not copied: %q", v)
	}
	if v, _ := h.Data.TextContent.Get(models.LangEnUS); v != "内容" {
		t.Errorf("textContent not copied: %q", v)
	}
}

func TestResetToDefault(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.UpdateText(id, models.FieldName, models.LangZhCN, "默认名")
	s.UpdateText(id, models.FieldName, models.LangEnUS, "drifted")

	s.ResetToDefault(id, models.LangEnUS)

	if got := s.Effective(id, models.FieldName, models.LangEnUS); got != "默认名" {
		t.Errorf("reset value = %q, want default language value", got)
	}
}

func TestCopyTextToLanguages(t *testing.T) {
	s, _ := newTestProjectStore(t)
	s.AddLanguage(models.LangJaJP)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.UpdateText(id, models.FieldName, models.LangZhCN, "按钮")
	s.CopyTextToLanguages(id, models.FieldName, models.LangZhCN, []models.LanguageCode{models.LangEnUS, models.LangJaJP})

	for _, lang := range []models.LanguageCode{models.LangEnUS, models.LangJaJP} {
		if got := s.Effective(id, models.FieldName, lang); got != "按钮" {
			t.Errorf("%s = %q, want copied value", lang, got)
		}
	}
}

func TestBatchEdit(t *testing.T) {
	s, _ := newTestProjectStore(t)
	a := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})
	b := s.AddRect(models.Rect{Left: "40.00%", Top: "40.00%", Width: "20.00%", Height: "20.00%"})

	s.BatchEdit(models.BatchEditConfig{
		Operation:       models.BatchUpdateName,
		TargetLanguages: []models.LanguageCode{models.LangZhCN, models.LangEnUS},
		Value:           "统一",
		ApplyToAll:      true,
	})

	for _, id := range []string{a, b} {
		for _, lang := range []models.LanguageCode{models.LangZhCN, models.LangEnUS} {
			if got := s.Effective(id, models.FieldName, lang); got != "统一" {
				t.Errorf("hotspot %s %s = %q", id, lang, got)
			}
		}
	}
}

func TestBatchEditSelectedOnly(t *testing.T) {
	s, _ := newTestProjectStore(t)
	a := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})
	b := s.AddRect(models.Rect{Left: "40.00%", Top: "40.00%", Width: "20.00%", Height: "20.00%"})

	s.BatchEdit(models.BatchEditConfig{
		Operation:          models.BatchUpdateTextContent,
		TargetLanguages:    []models.LanguageCode{models.LangEnUS},
		Value:              "only a",
		SelectedHotspotIDs: []string{a},
	})

	if got := s.Effective(a, models.FieldTextContent, models.LangEnUS); got != "only a" {
		t.Errorf("selected hotspot not updated: %q", got)
	}
	hb, _ := s.Hotspot(b)
	if hb.Data != nil && hb.Data.TextContent != nil {
		if _, ok := hb.Data.TextContent.Get(models.LangEnUS); ok {
			t.Error("unselected hotspot updated")
		}
	}
}

func TestBatchEditActionTypeIsSkipped(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})

	s.BatchEdit(models.BatchEditConfig{
		Operation:       models.BatchUpdateActionType,
		TargetLanguages: []models.LanguageCode{models.LangZhCN},
		Value:           "JUMP_URL",
		ApplyToAll:      true,
	})

	h, _ := s.Hotspot(id)
	if h.Action != nil {
		t.Error("UPDATE_ACTION_TYPE mutated the hotspot")
	}
}

func TestPasteOffsetsAndSuffixes(t *testing.T) {
	s, _ := newTestProjectStore(t)
	id := s.AddRect(models.Rect{Left: "96.00%", Top: "96.00%", Width: "3.00%", Height: "3.00%"})
	s.UpdateText(id, models.FieldName, models.LangEnUS, "Button")

	src, _ := s.Hotspot(id)
	pastedID, ok := s.Paste(src)
	if !ok {
		t.Fatal("paste failed")
	}

	p, _ := s.Hotspot(pastedID)
	if p.Rect.Left != "98.00%" || p.Rect.Top != "98.00%" {
		t.Errorf("paste rect not clamped at 98%%: %+v", p.Rect)
	}
	if p.Name.Template != "New hotspot copy" {
		t.Errorf("template = %q", p.Name.Template)
	}
	if v, _ := p.Name.Get(models.LangEnUS); v != "Button copy" {
		t.Errorf("en-US override = %q", v)
	}
	if p.ID == src.ID {
		t.Error("paste reused the source id")
	}
}

func TestProjectSnapshotRoundTrip(t *testing.T) {
	snaps := newMemorySnapshots()

	s := NewProjectStore(snaps)
	s.Create("campaign", []models.LanguageCode{models.LangZhCN, models.LangEnUS}, models.LangZhCN)
	id := s.AddRect(models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "20.00%"})
	s.UpdateText(id, models.FieldName, models.LangEnUS, "Button")

	restored := NewProjectStore(snaps)
	p := restored.Current()
	if p == nil || p.Name != "campaign" {
		t.Fatalf("project not restored: %+v", p)
	}
	if got := restored.Effective(id, models.FieldName, models.LangEnUS); got != "Button" {
		t.Errorf("override not restored: %q", got)
	}
	if _, ok := restored.Selected(); ok {
		t.Error("selection restored; should reset on load")
	}
}

func TestLegacySnapshotMigratesTemplates(t *testing.T) {
	snaps := newMemorySnapshots()
	// A pre-template snapshot: name stored as a bare language map.
	legacy := `{
		"projects": [{
			"id": "project-1",
			"name": "old",
			"languages": ["zh-CN", "en-US"],
			"defaultLanguage": "zh-CN",
			"hotspots": [{
				"id": "hotspot-1",
				"type": "HOTSPOT",
				"rect": {"left": "10.00%", "top": "10.00%", "width": "20.00%", "height": "20.00%"},
				"zIndex": 1,
				"name": {"zh-CN": "按钮"}
			}]
		}],
		"currentProjectId": "project-1",
		"timestamp": 1719922551123
	}`
	snaps.Save(ProjectSnapshotKey, []byte(legacy))

	s := NewProjectStore(snaps)
	h, ok := s.Hotspot("hotspot-1")
	if !ok {
		t.Fatal("legacy hotspot not restored")
	}
	if h.Name.Template != "按钮" {
		t.Errorf("template not seeded from default language: %q", h.Name.Template)
	}
	// The untranslated language falls back to the migrated template.
	if got := s.Effective("hotspot-1", models.FieldName, models.LangEnUS); got != "按钮" {
		t.Errorf("fallback after migration = %q", got)
	}
}

func TestDeleteActiveProjectDeactivates(t *testing.T) {
	s, id := newTestProjectStore(t)

	s.Delete(id)

	if s.Current() != nil {
		t.Error("deleted project still active")
	}
	if len(s.Projects()) != 0 {
		t.Error("project list not empty")
	}
}
