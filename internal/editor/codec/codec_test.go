package codec

import (
	"testing"

	"hotspot-editor/internal/editor/models"
)

func bilingualProject() *models.Project {
	return &models.Project{
		ID:              "project-1",
		Name:            "campaign",
		Languages:       []models.LanguageCode{models.LangZhCN, models.LangEnUS},
		DefaultLanguage: models.LangZhCN,
		BackgroundImage: map[models.LanguageCode]*models.BackgroundImage{
			models.LangZhCN: {URL: "/uploads/zh.png", Size: models.ImageSize{Width: 750, Height: 1334}},
		},
		Hotspots: []models.MultiLanguageHotspot{
			{
				ID:     "hotspot-1",
				Type:   models.TypeHotspot,
				Rect:   models.Rect{Left: "10.00%", Top: "10.00%", Width: "20.00%", Height: "10.00%"},
				ZIndex: 1,
				Name:   &models.LocalizedText{Overrides: map[models.LanguageCode]string{models.LangZhCN: "按钮"}},
				Action: &models.MultiLanguageAction{
					Type: models.ActionJumpURL,
					Data: &models.MultiLanguageActionData{
						URL: &models.LocalizedText{Overrides: map[models.LanguageCode]string{models.LangZhCN: "https://a.com"}},
					},
				},
			},
		},
	}
}

func TestExportSingleLanguageResolvesValues(t *testing.T) {
	p := bilingualProject()

	cfg := ExportSingleLanguage(p, models.LangZhCN)
	if cfg == nil {
		t.Fatal("expected a config for zh-CN")
	}
	if cfg.Language != models.LangZhCN || cfg.BackgroundImageURL != "/uploads/zh.png" {
		t.Errorf("header wrong: %+v", cfg)
	}
	if len(cfg.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(cfg.Modules))
	}
	m := cfg.Modules[0]
	if m.Name != "按钮" {
		t.Errorf("name = %q", m.Name)
	}
	if m.Action == nil || m.Action.Type != models.ActionJumpURL || m.Action.Data == nil || m.Action.Data.URL != "https://a.com" {
		t.Errorf("action not resolved: %+v", m.Action)
	}
}

func TestExportSingleLanguageNilWithoutBackground(t *testing.T) {
	p := bilingualProject()

	if cfg := ExportSingleLanguage(p, models.LangEnUS); cfg != nil {
		t.Errorf("expected nil for language without a background image, got %+v", cfg)
	}
}

func TestExportAllLanguagesOmitsMissing(t *testing.T) {
	p := bilingualProject()

	all := ExportAllLanguages(p)
	if len(all) != 1 {
		t.Fatalf("expected 1 language, got %d", len(all))
	}
	if _, ok := all[models.LangZhCN]; !ok {
		t.Error("zh-CN missing from export")
	}
	if _, ok := all[models.LangEnUS]; ok {
		t.Error("en-US exported without a background image")
	}
}

func TestExportSortsByZIndex(t *testing.T) {
	p := bilingualProject()
	p.Hotspots = append(p.Hotspots, models.MultiLanguageHotspot{
		ID:     "hotspot-2",
		Type:   models.TypeHotspot,
		Rect:   models.Rect{Left: "0.00%", Top: "0.00%", Width: "5.00%", Height: "5.00%"},
		ZIndex: 0, // below hotspot-1
		Name:   &models.LocalizedText{Template: "under"},
	})

	cfg := ExportSingleLanguage(p, models.LangZhCN)
	if cfg.Modules[0].Name != "under" || cfg.Modules[1].Name != "按钮" {
		t.Errorf("modules not in paint order: %q, %q", cfg.Modules[0].Name, cfg.Modules[1].Name)
	}
}

func TestExportFallsBackToTemplate(t *testing.T) {
	p := bilingualProject()
	p.BackgroundImage[models.LangEnUS] = &models.BackgroundImage{URL: "/uploads/en.png"}
	p.Hotspots[0].Name.Template = "Button"

	cfg := ExportSingleLanguage(p, models.LangEnUS)
	if cfg == nil {
		t.Fatal("expected a config for en-US")
	}
	if cfg.Modules[0].Name != "Button" {
		t.Errorf("template fallback broken: %q", cfg.Modules[0].Name)
	}
}

func TestParseProjectImport(t *testing.T) {
	payload := `{
		"currentProject": {
			"id": "project-9",
			"name": "imported",
			"languages": ["zh-CN"],
			"defaultLanguage": "zh-CN",
			"hotspots": [{
				"id": "hotspot-1",
				"type": "HOTSPOT",
				"rect": {"left": "10.00%", "top": "10.00%", "width": "20.00%", "height": "10.00%"},
				"zIndex": 1,
				"name": {"zh-CN": "旧格式"}
			}]
		}
	}`

	p, err := ParseProjectImport([]byte(payload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ID != "project-9" || p.Name != "imported" {
		t.Errorf("project header: %+v", p)
	}
	// Legacy localized values are migrated on import.
	if p.Hotspots[0].Name.Template != "旧格式" {
		t.Errorf("template not seeded: %q", p.Hotspots[0].Name.Template)
	}
}

func TestParseProjectImportErrors(t *testing.T) {
	if _, err := ParseProjectImport([]byte("{not json")); err != ErrInvalidPayload {
		t.Errorf("malformed JSON: %v", err)
	}
	if _, err := ParseProjectImport([]byte(`{"other": 1}`)); err != ErrNoProject {
		t.Errorf("missing currentProject: %v", err)
	}
	if _, err := ParseProjectImport([]byte(`{"currentProject": {}}`)); err != ErrNoProject {
		t.Errorf("project without id: %v", err)
	}
}

func TestParseEditorImport(t *testing.T) {
	payload := `{
		"backgroundImageUrl": "/uploads/bg.png",
		"modules": [
			{"type": "HOTSPOT", "name": "a", "rect": {"left": "0.00%", "top": "0.00%", "width": "10.00%", "height": "10.00%"}}
		]
	}`

	cfg, err := ParseEditorImport([]byte(payload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.BackgroundImageURL != "/uploads/bg.png" || len(cfg.Modules) != 1 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
