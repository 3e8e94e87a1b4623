package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"hotspot-editor/internal/editor/models"
	"hotspot-editor/internal/editor/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Project Handler (multi-language)
// ============================================================

// ProjectHandler exposes the multi-language project editor over HTTP.
type ProjectHandler struct {
	sessions *service.SessionManager
	storage  *service.FileStorage
	decoder  *service.Decoder
}

func NewProjectHandler(sessions *service.SessionManager, storage *service.FileStorage, decoder *service.Decoder) *ProjectHandler {
	return &ProjectHandler{
		sessions: sessions,
		storage:  storage,
		decoder:  decoder,
	}
}

func (h *ProjectHandler) authorize(c fiber.Ctx) (*service.Session, bool) {
	return authorize(h.sessions, c)
}

// ============================================================
// Project lifecycle
// ============================================================

type createProjectRequest struct {
	Name            string                `json:"name"`
	Languages       []models.LanguageCode `json:"languages"`
	DefaultLanguage models.LanguageCode   `json:"defaultLanguage"`
}

// CreateProject adds a project and makes it active.
func (h *ProjectHandler) CreateProject(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req createProjectRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	id := s.Projects.Create(req.Name, req.Languages, req.DefaultLanguage)
	if id == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "default language must be one of the project languages"})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

// ListProjects returns all stored projects.
func (h *ProjectHandler) ListProjects(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(fiber.Map{"projects": s.Projects.Projects()})
}

// CurrentProject returns the active project and the language view state.
func (h *ProjectHandler) CurrentProject(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	p := s.Projects.Current()
	if p == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no active project"})
	}
	return c.JSON(fiber.Map{
		"project":       p,
		"languageState": s.Projects.LanguageState(),
	})
}

// LoadProject activates a stored project.
func (h *ProjectHandler) LoadProject(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.Load(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// DeleteProject removes a project.
func (h *ProjectHandler) DeleteProject(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.Delete(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// UpdateProject patches name and description of a project.
func (h *ProjectHandler) UpdateProject(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if id := c.Params("id"); id != "" && req.Name != nil && req.Description == nil {
		s.Projects.Rename(id, *req.Name)
	} else {
		s.Projects.UpdateProjectInfo(req.Name, req.Description)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Languages
// ============================================================

// SupportedLanguages returns the language registry.
func (h *ProjectHandler) SupportedLanguages(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"languages": models.SupportedLanguages})
}

// AddLanguage appends a language to the active project.
func (h *ProjectHandler) AddLanguage(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.AddLanguage(models.LanguageCode(c.Params("code")))
	return c.SendStatus(http.StatusNoContent)
}

// RemoveLanguage removes a language and prunes its overrides.
func (h *ProjectHandler) RemoveLanguage(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.RemoveLanguage(models.LanguageCode(c.Params("code")))
	return c.SendStatus(http.StatusNoContent)
}

// SetDefaultLanguage changes the fallback language.
func (h *ProjectHandler) SetDefaultLanguage(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.SetDefaultLanguage(models.LanguageCode(c.Params("code")))
	return c.SendStatus(http.StatusNoContent)
}

// SetCurrentLanguage switches the editing language.
func (h *ProjectHandler) SetCurrentLanguage(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.SetCurrentLanguage(models.LanguageCode(c.Params("code")))
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Background images
// ============================================================

// UploadBackground saves a per-language background image. Decode results
// that lose the race to a newer upload for the same language are dropped.
func (h *ProjectHandler) UploadBackground(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	lang := models.LanguageCode(c.Params("code"))
	data, filename, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	key := "project:" + s.Token + ":" + string(lang)
	token := h.decoder.Begin(key)
	size, err := service.DecodeSize(data)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "not a decodable image"})
	}
	if !h.decoder.Commit(key, token) {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "superseded by a newer upload"})
	}

	path, err := h.storage.SaveUpload(s.Token, string(lang)+"-"+filename, data)
	if err != nil {
		slog.Error("save background upload", "error", err, "language", lang)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	s.Projects.SetBackgroundImage(lang, path, size)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"url":  path,
		"size": size,
	})
}

// RemoveBackground deletes the language's background image.
func (h *ProjectHandler) RemoveBackground(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.RemoveBackgroundImage(models.LanguageCode(c.Params("code")))
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Hotspots & text
// ============================================================

// AddHotspot creates a multi-language hotspot.
func (h *ProjectHandler) AddHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var hotspot models.MultiLanguageHotspot
	if err := json.Unmarshal(c.Body(), &hotspot); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	id := s.Projects.AddHotspot(hotspot)
	if id == "" {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no active project"})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

// UpdateHotspot shallow-merges a patch.
func (h *ProjectHandler) UpdateHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var patch models.MultiLanguageHotspotPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.UpdateHotspot(c.Params("id"), patch)
	return c.SendStatus(http.StatusNoContent)
}

// DeleteHotspot removes the hotspot.
func (h *ProjectHandler) DeleteHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.DeleteHotspot(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// SelectHotspot sets the selection; an empty id clears it.
func (h *ProjectHandler) SelectHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.Select(req.ID)
	return c.SendStatus(http.StatusNoContent)
}

type updateTextRequest struct {
	Field    models.TextField    `json:"field"`
	Language models.LanguageCode `json:"language"`
	Value    string              `json:"value"`
}

// UpdateText writes a per-language override for one field.
func (h *ProjectHandler) UpdateText(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req updateTextRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.UpdateText(c.Params("id"), req.Field, req.Language, req.Value)
	return c.SendStatus(http.StatusNoContent)
}

// CopyConfig copies every override from one language to another.
func (h *ProjectHandler) CopyConfig(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		From models.LanguageCode `json:"from"`
		To   models.LanguageCode `json:"to"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.CopyConfigBetweenLanguages(c.Params("id"), req.From, req.To)
	return c.SendStatus(http.StatusNoContent)
}

// ResetToDefault rewrites a language from the default language's values.
func (h *ProjectHandler) ResetToDefault(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Language models.LanguageCode `json:"language"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.ResetToDefault(c.Params("id"), req.Language)
	return c.SendStatus(http.StatusNoContent)
}

// CopyText fans one field's value out to several languages.
func (h *ProjectHandler) CopyText(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Field           models.TextField      `json:"field"`
		SourceLanguage  models.LanguageCode   `json:"sourceLanguage"`
		TargetLanguages []models.LanguageCode `json:"targetLanguages"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.CopyTextToLanguages(c.Params("id"), req.Field, req.SourceLanguage, req.TargetLanguages)
	return c.SendStatus(http.StatusNoContent)
}

// BatchEdit applies one value across hotspots and languages.
func (h *ProjectHandler) BatchEdit(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var cfg models.BatchEditConfig
	if err := json.Unmarshal(c.Body(), &cfg); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.BatchEdit(cfg)
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// View state
// ============================================================

// ToggleShowAllLanguages flips the all-languages panel.
func (h *ProjectHandler) ToggleShowAllLanguages(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.ToggleShowAllLanguages()
	return c.JSON(s.Projects.LanguageState())
}

// ToggleCompareMode flips side-by-side comparison.
func (h *ProjectHandler) ToggleCompareMode(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Projects.ToggleCompareMode()
	return c.JSON(s.Projects.LanguageState())
}

// SetCompareLanguages records which languages compare mode shows.
func (h *ProjectHandler) SetCompareLanguages(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Languages []models.LanguageCode `json:"languages"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Projects.SetCompareLanguages(req.Languages)
	return c.JSON(s.Projects.LanguageState())
}

// ============================================================
// Export / import
// ============================================================

// ExportLanguage flattens the active project for one language.
func (h *ProjectHandler) ExportLanguage(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	lang := models.LanguageCode(c.Params("code"))
	cfg := s.Projects.ExportSingleLanguage(lang)
	if cfg == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "language has no background image"})
	}
	return c.JSON(cfg)
}

// ExportAll exports every language with a background image.
func (h *ProjectHandler) ExportAll(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(s.Projects.ExportAllLanguages())
}

// Import replaces or inserts a project from a config file.
func (h *ProjectHandler) Import(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	data, _, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.Projects.ImportProjectConfig(data); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid project config"})
	}
	return c.JSON(fiber.Map{"project": s.Projects.Current()})
}

// ============================================================
// Drawing & keyboard
// ============================================================

type pointerRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HitID string  `json:"hitId,omitempty"`
}

// PointerDown forwards a press to the drawing controller.
func (h *ProjectHandler) PointerDown(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req pointerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Drawing.PointerDown(req.X, req.Y, req.HitID)
	return c.SendStatus(http.StatusNoContent)
}

// PointerMove forwards pointer motion.
func (h *ProjectHandler) PointerMove(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req pointerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Drawing.PointerMove(req.X, req.Y)
	return c.SendStatus(http.StatusNoContent)
}

// PointerUp commits the draw, returning the created hotspot id if any.
func (h *ProjectHandler) PointerUp(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req pointerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	id := s.Drawing.PointerUp(req.X, req.Y)
	return c.JSON(fiber.Map{"id": id, "created": id != ""})
}

// SetCanvasSize updates the controller's canvas dimensions.
func (h *ProjectHandler) SetCanvasSize(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Width <= 0 || req.Height <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid canvas size"})
	}

	s.Drawing.SetCanvasSize(req.Width, req.Height)
	return c.SendStatus(http.StatusNoContent)
}

// Keyboard dispatches a key combo against the session's keymap.
func (h *ProjectHandler) Keyboard(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Combo            string `json:"combo"`
		TextInputFocused bool   `json:"textInputFocused"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	handled := s.Keymap.Dispatch(req.Combo, req.TextInputFocused)
	return c.JSON(fiber.Map{"handled": handled})
}
