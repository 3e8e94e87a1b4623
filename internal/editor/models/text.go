package models

import (
	"encoding/json"
)

// ============================================================
// Localized text
// ============================================================

// LocalizedText separates the language-independent template value from sparse
// per-language overrides. The effective value for a language is its override
// when present and non-empty, else the template. An absent override means
// "fall back", never "empty string".
type LocalizedText struct {
	Template  string                  `json:"template,omitempty"`
	Overrides map[LanguageCode]string `json:"overrides,omitempty"`
}

// Resolve returns the effective value for the language.
func (t *LocalizedText) Resolve(lang LanguageCode) string {
	if t == nil {
		return ""
	}
	if v, ok := t.Overrides[lang]; ok && v != "" {
		return v
	}
	return t.Template
}

// Get returns the raw override for the language, without template fallback.
func (t *LocalizedText) Get(lang LanguageCode) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.Overrides[lang]
	return v, ok
}

// Set writes the override for the language, allocating the map on first use.
func (t *LocalizedText) Set(lang LanguageCode, value string) {
	if t.Overrides == nil {
		t.Overrides = make(map[LanguageCode]string)
	}
	t.Overrides[lang] = value
}

// Delete prunes the override for the language.
func (t *LocalizedText) Delete(lang LanguageCode) {
	if t == nil {
		return
	}
	delete(t.Overrides, lang)
}

// Clone returns a deep copy.
func (t *LocalizedText) Clone() *LocalizedText {
	if t == nil {
		return nil
	}
	c := &LocalizedText{Template: t.Template}
	if t.Overrides != nil {
		c.Overrides = make(map[LanguageCode]string, len(t.Overrides))
		for k, v := range t.Overrides {
			c.Overrides[k] = v
		}
	}
	return c
}

// UnmarshalJSON accepts three shapes:
//   - the native {"template": ..., "overrides": {...}} object
//   - a bare string (legacy single-language value → template)
//   - a bare language map like {"zh-CN": "..."} (legacy multi-language value
//     → overrides; the template stays empty until migration seeds it from
//     the project's default language)
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		t.Template = plain
		t.Overrides = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	_, hasTemplate := raw["template"]
	_, hasOverrides := raw["overrides"]
	if hasTemplate || hasOverrides || len(raw) == 0 {
		type native LocalizedText
		var n native
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = LocalizedText(n)
		return nil
	}

	// Legacy map keyed by language code.
	t.Template = ""
	t.Overrides = make(map[LanguageCode]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		t.Overrides[LanguageCode(k)] = s
	}
	return nil
}

// Migrate seeds an empty template from the default language's override.
// Legacy data stored the default language's value in the same slot the
// template now occupies, so this preserves the old resolution order.
func (t *LocalizedText) Migrate(defaultLang LanguageCode) {
	if t == nil || t.Template != "" {
		return
	}
	if v, ok := t.Overrides[defaultLang]; ok && v != "" {
		t.Template = v
	}
}
