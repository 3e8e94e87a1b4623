package models

// ============================================================
// Multi-language hotspot
// ============================================================

// TextField identifies one of the overridable leaf paths of a hotspot.
type TextField string

const (
	FieldName        TextField = "name"
	FieldActionURL   TextField = "action.url"
	FieldActionText  TextField = "action.text"
	FieldTextContent TextField = "data.textContent"
	FieldImageURL    TextField = "data.imageUrl"
	FieldVideoURL    TextField = "data.videoUrl"
	FieldGifURL      TextField = "data.gifUrl"
)

// TextFields lists every overridable leaf, in copy/reset order.
var TextFields = []TextField{
	FieldName,
	FieldActionURL,
	FieldActionText,
	FieldTextContent,
	FieldImageURL,
	FieldVideoURL,
	FieldGifURL,
}

type MultiLanguageActionData struct {
	URL  *LocalizedText `json:"url,omitempty"`
	Text *LocalizedText `json:"text,omitempty"`
}

type MultiLanguageAction struct {
	Type ActionType               `json:"type"`
	Data *MultiLanguageActionData `json:"data,omitempty"`
}

// MultiLanguageData keeps the styling fields language-independent; only the
// content leaves are localized.
type MultiLanguageData struct {
	TextContent *LocalizedText `json:"textContent,omitempty"`
	ImageURL    *LocalizedText `json:"imageUrl,omitempty"`
	VideoURL    *LocalizedText `json:"videoUrl,omitempty"`
	GifURL      *LocalizedText `json:"gifUrl,omitempty"`
	FontSize    int            `json:"fontSize,omitempty"`
	Color       string         `json:"color,omitempty"`
	FontWeight  string         `json:"fontWeight,omitempty"`
	TextAlign   string         `json:"textAlign,omitempty"`
}

// MultiLanguageHotspot shares rect, type and zIndex across languages; name
// and content leaves carry per-language overrides over a template.
type MultiLanguageHotspot struct {
	ID     string               `json:"id"`
	Type   HotspotType          `json:"type"`
	Rect   Rect                 `json:"rect"`
	ZIndex int                  `json:"zIndex"`
	Name   *LocalizedText       `json:"name,omitempty"`
	Action *MultiLanguageAction `json:"action,omitempty"`
	Data   *MultiLanguageData   `json:"data,omitempty"`
}

// Text returns the localized slot for the field, or nil when the containing
// object is absent.
func (h *MultiLanguageHotspot) Text(field TextField) *LocalizedText {
	switch field {
	case FieldName:
		return h.Name
	case FieldActionURL:
		if h.Action == nil || h.Action.Data == nil {
			return nil
		}
		return h.Action.Data.URL
	case FieldActionText:
		if h.Action == nil || h.Action.Data == nil {
			return nil
		}
		return h.Action.Data.Text
	case FieldTextContent:
		if h.Data == nil {
			return nil
		}
		return h.Data.TextContent
	case FieldImageURL:
		if h.Data == nil {
			return nil
		}
		return h.Data.ImageURL
	case FieldVideoURL:
		if h.Data == nil {
			return nil
		}
		return h.Data.VideoURL
	case FieldGifURL:
		if h.Data == nil {
			return nil
		}
		return h.Data.GifURL
	}
	return nil
}

// EnsureText returns the slot for the field, creating intermediate objects
// as needed. Action fields return nil while the hotspot has no action: the
// action type is unknown, so the write is refused rather than invented.
func (h *MultiLanguageHotspot) EnsureText(field TextField) *LocalizedText {
	switch field {
	case FieldName:
		if h.Name == nil {
			h.Name = &LocalizedText{}
		}
		return h.Name
	case FieldActionURL, FieldActionText:
		if h.Action == nil {
			return nil
		}
		if h.Action.Data == nil {
			h.Action.Data = &MultiLanguageActionData{}
		}
		if field == FieldActionURL {
			if h.Action.Data.URL == nil {
				h.Action.Data.URL = &LocalizedText{}
			}
			return h.Action.Data.URL
		}
		if h.Action.Data.Text == nil {
			h.Action.Data.Text = &LocalizedText{}
		}
		return h.Action.Data.Text
	case FieldTextContent, FieldImageURL, FieldVideoURL, FieldGifURL:
		if h.Data == nil {
			h.Data = &MultiLanguageData{}
		}
		switch field {
		case FieldTextContent:
			if h.Data.TextContent == nil {
				h.Data.TextContent = &LocalizedText{}
			}
			return h.Data.TextContent
		case FieldImageURL:
			if h.Data.ImageURL == nil {
				h.Data.ImageURL = &LocalizedText{}
			}
			return h.Data.ImageURL
		case FieldVideoURL:
			if h.Data.VideoURL == nil {
				h.Data.VideoURL = &LocalizedText{}
			}
			return h.Data.VideoURL
		case FieldGifURL:
			if h.Data.GifURL == nil {
				h.Data.GifURL = &LocalizedText{}
			}
			return h.Data.GifURL
		}
	}
	return nil
}

// Effective resolves the field for the language: override first, template
// as fallback.
func (h *MultiLanguageHotspot) Effective(field TextField, lang LanguageCode) string {
	return h.Text(field).Resolve(lang)
}

// PruneLanguage drops every override for the language from all leaves.
func (h *MultiLanguageHotspot) PruneLanguage(lang LanguageCode) {
	for _, field := range TextFields {
		h.Text(field).Delete(lang)
	}
}

// Migrate seeds templates from the default language on legacy imports.
func (h *MultiLanguageHotspot) Migrate(defaultLang LanguageCode) {
	for _, field := range TextFields {
		h.Text(field).Migrate(defaultLang)
	}
}

// Clone returns a deep copy.
func (h *MultiLanguageHotspot) Clone() MultiLanguageHotspot {
	c := *h
	c.Name = h.Name.Clone()
	if h.Action != nil {
		action := *h.Action
		if h.Action.Data != nil {
			action.Data = &MultiLanguageActionData{
				URL:  h.Action.Data.URL.Clone(),
				Text: h.Action.Data.Text.Clone(),
			}
		}
		c.Action = &action
	}
	if h.Data != nil {
		data := *h.Data
		data.TextContent = h.Data.TextContent.Clone()
		data.ImageURL = h.Data.ImageURL.Clone()
		data.VideoURL = h.Data.VideoURL.Clone()
		data.GifURL = h.Data.GifURL.Clone()
		c.Data = &data
	}
	return c
}

// MultiLanguageHotspotPatch is a shallow-merge update; nil fields are left
// untouched.
type MultiLanguageHotspotPatch struct {
	Type   *HotspotType         `json:"type,omitempty"`
	Rect   *Rect                `json:"rect,omitempty"`
	ZIndex *int                 `json:"zIndex,omitempty"`
	Name   *LocalizedText       `json:"name,omitempty"`
	Action *MultiLanguageAction `json:"action,omitempty"`
	Data   *MultiLanguageData   `json:"data,omitempty"`
}

// Apply merges the patch into the hotspot.
func (p MultiLanguageHotspotPatch) Apply(h *MultiLanguageHotspot) {
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.Rect != nil {
		h.Rect = *p.Rect
	}
	if p.ZIndex != nil {
		h.ZIndex = *p.ZIndex
	}
	if p.Name != nil {
		h.Name = p.Name
	}
	if p.Action != nil {
		h.Action = p.Action
	}
	if p.Data != nil {
		h.Data = p.Data
	}
}

// ============================================================
// Project
// ============================================================

type BackgroundImage struct {
	URL  string    `json:"url"`
	Size ImageSize `json:"size"`
}

// Project groups languages, per-language background images and the shared
// hotspot collection. defaultLanguage is always a member of languages.
type Project struct {
	ID              string                            `json:"id"`
	Name            string                            `json:"name"`
	Description     string                            `json:"description,omitempty"`
	CreatedAt       int64                             `json:"createdAt"`
	UpdatedAt       int64                             `json:"updatedAt"`
	Languages       []LanguageCode                    `json:"languages"`
	DefaultLanguage LanguageCode                      `json:"defaultLanguage"`
	BackgroundImage map[LanguageCode]*BackgroundImage `json:"backgroundImages"`
	Hotspots        []MultiLanguageHotspot            `json:"hotspots"`
}

// HasLanguage reports membership in the language list.
func (p *Project) HasLanguage(code LanguageCode) bool {
	for _, l := range p.Languages {
		if l == code {
			return true
		}
	}
	return false
}

// Hotspot returns the hotspot with the id, or nil.
func (p *Project) Hotspot(id string) *MultiLanguageHotspot {
	for i := range p.Hotspots {
		if p.Hotspots[i].ID == id {
			return &p.Hotspots[i]
		}
	}
	return nil
}

// Migrate runs legacy template seeding over every hotspot.
func (p *Project) Migrate() {
	for i := range p.Hotspots {
		p.Hotspots[i].Migrate(p.DefaultLanguage)
	}
}

// ============================================================
// View state, batch edit, snapshots
// ============================================================

// LanguageState is session view state; it is never persisted as domain data.
type LanguageState struct {
	CurrentLanguage  LanguageCode   `json:"currentLanguage"`
	ShowAllLanguages bool           `json:"showAllLanguages"`
	CompareMode      bool           `json:"compareMode"`
	CompareLanguages []LanguageCode `json:"compareLanguages"`
}

type BatchEditOperation string

const (
	BatchUpdateName        BatchEditOperation = "UPDATE_NAME"
	BatchUpdateActionType  BatchEditOperation = "UPDATE_ACTION_TYPE"
	BatchUpdateActionURL   BatchEditOperation = "UPDATE_ACTION_URL"
	BatchUpdateActionText  BatchEditOperation = "UPDATE_ACTION_TEXT"
	BatchUpdateTextContent BatchEditOperation = "UPDATE_TEXT_CONTENT"
	BatchUpdateImageURL    BatchEditOperation = "UPDATE_IMAGE_URL"
	BatchUpdateVideoURL    BatchEditOperation = "UPDATE_VIDEO_URL"
	BatchUpdateGifURL      BatchEditOperation = "UPDATE_GIF_URL"
)

// Field maps the operation to its text field; operations without a text
// field (UPDATE_ACTION_TYPE) return "" and are skipped by batch edit.
func (op BatchEditOperation) Field() TextField {
	switch op {
	case BatchUpdateName:
		return FieldName
	case BatchUpdateActionURL:
		return FieldActionURL
	case BatchUpdateActionText:
		return FieldActionText
	case BatchUpdateTextContent:
		return FieldTextContent
	case BatchUpdateImageURL:
		return FieldImageURL
	case BatchUpdateVideoURL:
		return FieldVideoURL
	case BatchUpdateGifURL:
		return FieldGifURL
	}
	return ""
}

type BatchEditConfig struct {
	Operation          BatchEditOperation `json:"operation"`
	TargetLanguages    []LanguageCode     `json:"targetLanguages"`
	Value              string             `json:"value"`
	ApplyToAll         bool               `json:"applyToAll,omitempty"`
	SelectedHotspotIDs []string           `json:"selectedHotspotIds,omitempty"`
}

// SingleLanguageExportConfig is the flat per-language wire format.
type SingleLanguageExportConfig struct {
	Language           LanguageCode   `json:"language"`
	BackgroundImageURL string         `json:"backgroundImageUrl"`
	Modules            []ExportModule `json:"modules"`
}

// ProjectSnapshot is the multi-language editor state written to the
// snapshot store on every mutation.
type ProjectSnapshot struct {
	Projects         []*Project `json:"projects"`
	CurrentProjectID string     `json:"currentProjectId,omitempty"`
	Timestamp        int64      `json:"timestamp"`
}
