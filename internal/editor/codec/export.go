package codec

import (
	"encoding/json"
	"sort"

	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Export
// ============================================================

// ExportSingleLanguage flattens the project for one language: every
// localized field is resolved to its effective value and the per-language
// background image is selected. Returns nil when the language has no
// background image, since a renderer cannot place modules without one.
func ExportSingleLanguage(p *models.Project, lang models.LanguageCode) *models.SingleLanguageExportConfig {
	if p == nil {
		return nil
	}
	bg, ok := p.BackgroundImage[lang]
	if !ok || bg == nil || bg.URL == "" {
		return nil
	}

	ordered := make([]models.MultiLanguageHotspot, len(p.Hotspots))
	copy(ordered, p.Hotspots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	modules := make([]models.ExportModule, 0, len(ordered))
	for i := range ordered {
		modules = append(modules, resolveModule(&ordered[i], lang))
	}

	return &models.SingleLanguageExportConfig{
		Language:           lang,
		BackgroundImageURL: bg.URL,
		Modules:            modules,
	}
}

// ExportAllLanguages exports every project language that has a background
// image; languages without one are omitted rather than emitted as nulls.
func ExportAllLanguages(p *models.Project) map[models.LanguageCode]*models.SingleLanguageExportConfig {
	if p == nil {
		return nil
	}
	out := make(map[models.LanguageCode]*models.SingleLanguageExportConfig)
	for _, lang := range p.Languages {
		if cfg := ExportSingleLanguage(p, lang); cfg != nil {
			out[lang] = cfg
		}
	}
	return out
}

// resolveModule collapses a multi-language hotspot to the single-language
// wire shape, dropping id and zIndex.
func resolveModule(h *models.MultiLanguageHotspot, lang models.LanguageCode) models.ExportModule {
	m := models.ExportModule{
		Type: h.Type,
		Name: h.Effective(models.FieldName, lang),
		Rect: h.Rect,
	}

	if h.Action != nil {
		action := &models.Action{Type: h.Action.Type}
		url := h.Effective(models.FieldActionURL, lang)
		text := h.Effective(models.FieldActionText, lang)
		if url != "" || text != "" {
			action.Data = &models.ActionData{URL: url, Text: text}
		}
		m.Action = action
	}

	if h.Data != nil {
		m.Data = &models.ReplaceableData{
			TextContent: h.Effective(models.FieldTextContent, lang),
			ImageURL:    h.Effective(models.FieldImageURL, lang),
			VideoURL:    h.Effective(models.FieldVideoURL, lang),
			GifURL:      h.Effective(models.FieldGifURL, lang),
			FontSize:    h.Data.FontSize,
			Color:       h.Data.Color,
			FontWeight:  h.Data.FontWeight,
			TextAlign:   h.Data.TextAlign,
		}
	}

	return m
}

// MarshalExport renders any export payload as indented JSON, the shape
// written to downloaded config files.
func MarshalExport(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
