package codec

import (
	"encoding/json"
	"errors"

	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Import
// ============================================================

var (
	ErrNoProject      = errors.New("codec: import payload has no currentProject")
	ErrInvalidPayload = errors.New("codec: import payload is not valid JSON")
)

// projectImport is the wrapper shape project config files are written in.
type projectImport struct {
	CurrentProject *models.Project `json:"currentProject"`
}

// ParseProjectImport reads a project config file. The payload must wrap the
// project under a currentProject key; the parsed project is migrated so
// legacy localized values gain templates.
func ParseProjectImport(data []byte) (*models.Project, error) {
	var wrapper projectImport
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, ErrInvalidPayload
	}
	if wrapper.CurrentProject == nil || wrapper.CurrentProject.ID == "" {
		return nil, ErrNoProject
	}
	p := wrapper.CurrentProject
	if p.BackgroundImage == nil {
		p.BackgroundImage = make(map[models.LanguageCode]*models.BackgroundImage)
	}
	p.Migrate()
	return p, nil
}

// ParseEditorImport reads a single-language export file back into the
// editor's wire shape.
func ParseEditorImport(data []byte) (*models.ExportConfig, error) {
	var cfg models.ExportConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, ErrInvalidPayload
	}
	return &cfg, nil
}
