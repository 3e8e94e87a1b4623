package models

// ============================================================
// Hotspot types
// ============================================================

type HotspotType string

const (
	TypeHotspot     HotspotType = "HOTSPOT"
	TypeReplaceable HotspotType = "REPLACEABLE"
	TypeVideo       HotspotType = "VIDEO"
	TypeGif         HotspotType = "GIF"
)

type ActionType string

const (
	ActionJumpURL     ActionType = "JUMP_URL"
	ActionOpenVIPPage ActionType = "OPEN_VIP_PAGE"
	ActionShowToast   ActionType = "SHOW_TOAST"
)

// Rect holds percentage strings such as "12.50%". Geometry is stored as
// percentages of the background image so it survives canvas resizes.
type Rect struct {
	Left   string `json:"left"`
	Top    string `json:"top"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type ActionData struct {
	URL  string `json:"url,omitempty"`  // JUMP_URL
	Text string `json:"text,omitempty"` // SHOW_TOAST
}

type Action struct {
	Type ActionType  `json:"type"`
	Data *ActionData `json:"data,omitempty"`
}

// ReplaceableData carries the payload of REPLACEABLE, VIDEO and GIF regions.
type ReplaceableData struct {
	TextContent string `json:"textContent,omitempty"`
	FontSize    int    `json:"fontSize,omitempty"`
	Color       string `json:"color,omitempty"`
	FontWeight  string `json:"fontWeight,omitempty"` // normal, bold
	TextAlign   string `json:"textAlign,omitempty"`  // left, center, right
	ImageURL    string `json:"imageUrl,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	GifURL      string `json:"gifUrl,omitempty"`
}

// Hotspot is the single-language region entity.
type Hotspot struct {
	ID     string           `json:"id"`
	Name   string           `json:"name,omitempty"`
	Type   HotspotType      `json:"type"`
	Rect   Rect             `json:"rect"`
	Action *Action          `json:"action,omitempty"`
	Data   *ReplaceableData `json:"data,omitempty"`
	ZIndex int              `json:"zIndex"`
}

// HotspotPatch is a shallow-merge update; nil fields are left untouched.
type HotspotPatch struct {
	Name   *string          `json:"name,omitempty"`
	Type   *HotspotType     `json:"type,omitempty"`
	Rect   *Rect            `json:"rect,omitempty"`
	Action *Action          `json:"action,omitempty"`
	Data   *ReplaceableData `json:"data,omitempty"`
	ZIndex *int             `json:"zIndex,omitempty"`
}

// Apply merges the patch into the hotspot.
func (p HotspotPatch) Apply(h *Hotspot) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.Rect != nil {
		h.Rect = *p.Rect
	}
	if p.Action != nil {
		h.Action = p.Action
	}
	if p.Data != nil {
		h.Data = p.Data
	}
	if p.ZIndex != nil {
		h.ZIndex = *p.ZIndex
	}
}

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ============================================================
// Export wire format
// ============================================================

// ExportModule is a hotspot stripped of id and zIndex: the shape an external
// renderer consumes. Order in the modules slice carries the paint order.
type ExportModule struct {
	Type   HotspotType      `json:"type"`
	Name   string           `json:"name,omitempty"`
	Rect   Rect             `json:"rect"`
	Action *Action          `json:"action,omitempty"`
	Data   *ReplaceableData `json:"data,omitempty"`
}

type ExportConfig struct {
	BackgroundImageURL string         `json:"backgroundImageUrl"`
	Modules            []ExportModule `json:"modules"`
}

// ============================================================
// Persisted snapshots
// ============================================================

// EditorSnapshot is the full single-language editor state written to the
// snapshot store on every mutation.
type EditorSnapshot struct {
	Hotspots            []Hotspot  `json:"hotspots"`
	BackgroundImageURL  string     `json:"backgroundImageUrl,omitempty"`
	BackgroundImageSize *ImageSize `json:"backgroundImageSize,omitempty"`
	Timestamp           int64      `json:"timestamp"`
}
