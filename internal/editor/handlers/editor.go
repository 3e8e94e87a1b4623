package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"hotspot-editor/internal/editor/codec"
	"hotspot-editor/internal/editor/models"
	"hotspot-editor/internal/editor/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Editor Handler (single language)
// ============================================================

// EditorHandler exposes the single-language hotspot editor over HTTP.
// Every route resolves the session from the Bearer token; the session owns
// the store the route acts on.
type EditorHandler struct {
	sessions *service.SessionManager
	storage  *service.FileStorage
	decoder  *service.Decoder
}

func NewEditorHandler(sessions *service.SessionManager, storage *service.FileStorage, decoder *service.Decoder) *EditorHandler {
	return &EditorHandler{
		sessions: sessions,
		storage:  storage,
		decoder:  decoder,
	}
}

// OpenSession issues a fresh editing session.
func (h *EditorHandler) OpenSession(c fiber.Ctx) error {
	s := h.sessions.Issue()
	return c.Status(http.StatusCreated).JSON(fiber.Map{"token": s.Token})
}

// CloseSession drops the session and its clipboard.
func (h *EditorHandler) CloseSession(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	h.sessions.Drop(s.Token)
	return c.SendStatus(http.StatusNoContent)
}

// State returns the full editor state.
func (h *EditorHandler) State(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	url, size := s.Hotspots.BackgroundImage()
	selected, _ := s.Hotspots.Selected()
	return c.JSON(fiber.Map{
		"hotspots":            s.Hotspots.Hotspots(),
		"selectedId":          selected.ID,
		"backgroundImageUrl":  url,
		"backgroundImageSize": size,
		"canvasScale":         s.Hotspots.CanvasScale(),
	})
}

// AddHotspot creates a hotspot from the request body.
func (h *EditorHandler) AddHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var hotspot models.Hotspot
	if err := json.Unmarshal(c.Body(), &hotspot); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	id := s.Hotspots.Add(hotspot)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

// UpdateHotspot shallow-merges a patch into the hotspot.
func (h *EditorHandler) UpdateHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var patch models.HotspotPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.Hotspots.Update(c.Params("id"), patch)
	return c.SendStatus(http.StatusNoContent)
}

// DeleteHotspot removes the hotspot.
func (h *EditorHandler) DeleteHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Hotspots.Delete(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// SelectHotspot sets the selection; an empty id clears it.
func (h *EditorHandler) SelectHotspot(c fiber.Ctx) error {
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

	s.Hotspots.Select(req.ID)
	return c.SendStatus(http.StatusNoContent)
}

// CopyHotspot duplicates the hotspot in place.
func (h *EditorHandler) CopyHotspot(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	id, copied := s.Hotspots.Copy(c.Params("id"))
	if !copied {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "hotspot not found"})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

// MoveLayer adjusts the z-order. Direction is one of up, down, top, bottom.
func (h *EditorHandler) MoveLayer(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	id := c.Params("id")
	switch c.Params("direction") {
	case "up":
		s.Hotspots.MoveUp(id)
	case "down":
		s.Hotspots.MoveDown(id)
	case "top":
		s.Hotspots.MoveToTop(id)
	case "bottom":
		s.Hotspots.MoveToBottom(id)
	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown direction"})
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadBackground saves the image, decodes its size and sets it as the
// editor background. A stale decode (an older upload finishing late) is
// discarded.
func (h *EditorHandler) UploadBackground(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	data, filename, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	token := h.decoder.Begin("editor:" + s.Token)
	size, err := service.DecodeSize(data)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "not a decodable image"})
	}
	if !h.decoder.Commit("editor:"+s.Token, token) {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "superseded by a newer upload"})
	}

	path, err := h.storage.SaveUpload(s.Token, filename, data)
	if err != nil {
		slog.Error("save background upload", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	s.Hotspots.SetBackgroundImage(path, size)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"url":  path,
		"size": size,
	})
}

// ClearBackground removes the background image.
func (h *EditorHandler) ClearBackground(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Hotspots.ClearBackgroundImage()
	return c.SendStatus(http.StatusNoContent)
}

// SetCanvasScale records the zoom factor.
func (h *EditorHandler) SetCanvasScale(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req struct {
		Scale float64 `json:"scale"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Scale <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid scale"})
	}

	s.Hotspots.SetCanvasScale(req.Scale)
	return c.SendStatus(http.StatusNoContent)
}

// ClearAll drops every hotspot.
func (h *EditorHandler) ClearAll(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	s.Hotspots.ClearAll()
	return c.SendStatus(http.StatusNoContent)
}

// Export renders the editor state as a downloadable config.
func (h *EditorHandler) Export(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	data, err := codec.MarshalExport(s.Hotspots.ExportConfig())
	if err != nil {
		slog.Error("marshal export", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", `attachment; filename="hotspot-config.json"`)
	return c.Send(data)
}

// Import replaces the editor state from an uploaded config file.
func (h *EditorHandler) Import(c fiber.Ctx) error {
	s, ok := h.authorize(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	data, _, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cfg, err := codec.ParseEditorImport(data)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid config file"})
	}

	s.Hotspots.ImportConfig(*cfg)
	return c.JSON(fiber.Map{"imported": len(cfg.Modules)})
}

// ============================================================
// Helpers
// ============================================================

func (h *EditorHandler) authorize(c fiber.Ctx) (*service.Session, bool) {
	return authorize(h.sessions, c)
}

func authorize(sessions *service.SessionManager, c fiber.Ctx) (*service.Session, bool) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, false
	}
	return sessions.Resolve(strings.TrimPrefix(auth, "Bearer "))
}

// readUpload reads the multipart "file" field into memory.
func readUpload(c fiber.Ctx) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(http.StatusBadRequest, "file required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fiber.NewError(http.StatusInternalServerError, "failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fiber.NewError(http.StatusInternalServerError, "failed to read file")
	}
	return data, filepath.Base(fileHeader.Filename), nil
}
