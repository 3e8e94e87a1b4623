package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"hotspot-editor/internal/common/config"
	"hotspot-editor/internal/common/middleware"
	"hotspot-editor/internal/editor/handlers"
	"hotspot-editor/internal/editor/repository"
	"hotspot-editor/internal/editor/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/lmittmann/tint"
)

// ============================================================
// Hotspot Editor Server
// ============================================================

func main() {
	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(cfg.MigrationsPath); err != nil {
		slog.Error("init database", "error", err)
		os.Exit(1)
	}

	sessions := service.NewSessionManager(repo)
	storage := service.NewFileStorage(cfg.StorageRoot)
	decoder := service.NewDecoder()

	editor := handlers.NewEditorHandler(sessions, storage, decoder)
	projects := handlers.NewProjectHandler(sessions, storage, decoder)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Hotspot Editor",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe)
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Session Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Post("/sessions", editor.OpenSession)
	api.Delete("/sessions", editor.CloseSession)

	// ============================================================
	// Single-Language Editor Routes
	// ============================================================

	ed := api.Group("/editor")

	ed.Get("/state", editor.State)
	ed.Post("/hotspots", editor.AddHotspot)
	ed.Patch("/hotspots/:id", editor.UpdateHotspot)
	ed.Delete("/hotspots/:id", editor.DeleteHotspot)
	ed.Post("/hotspots/:id/copy", editor.CopyHotspot)
	ed.Post("/hotspots/:id/layer/:direction", editor.MoveLayer)
	ed.Put("/selection", editor.SelectHotspot)
	ed.Put("/background", editor.UploadBackground)
	ed.Delete("/background", editor.ClearBackground)
	ed.Put("/canvas-scale", editor.SetCanvasScale)
	ed.Post("/clear", editor.ClearAll)
	ed.Get("/export", editor.Export)
	ed.Post("/import", editor.Import)

	// ============================================================
	// Multi-Language Project Routes
	// ============================================================

	pr := api.Group("/projects")

	pr.Post("/", projects.CreateProject)
	pr.Get("/", projects.ListProjects)
	pr.Get("/current", projects.CurrentProject)
	pr.Post("/:id/load", projects.LoadProject)
	pr.Delete("/:id", projects.DeleteProject)
	pr.Patch("/:id", projects.UpdateProject)
	pr.Post("/import", projects.Import)

	lang := api.Group("/project/languages")

	lang.Get("/supported", projects.SupportedLanguages)
	lang.Post("/:code", projects.AddLanguage)
	lang.Delete("/:code", projects.RemoveLanguage)
	lang.Put("/:code/default", projects.SetDefaultLanguage)
	lang.Put("/:code/current", projects.SetCurrentLanguage)
	lang.Put("/:code/background", projects.UploadBackground)
	lang.Delete("/:code/background", projects.RemoveBackground)
	lang.Get("/:code/export", projects.ExportLanguage)

	hs := api.Group("/project/hotspots")

	hs.Post("/", projects.AddHotspot)
	hs.Patch("/:id", projects.UpdateHotspot)
	hs.Delete("/:id", projects.DeleteHotspot)
	hs.Put("/:id/text", projects.UpdateText)
	hs.Post("/:id/copy-config", projects.CopyConfig)
	hs.Post("/:id/reset-to-default", projects.ResetToDefault)
	hs.Post("/:id/copy-text", projects.CopyText)

	api.Put("/project/selection", projects.SelectHotspot)
	api.Post("/project/batch-edit", projects.BatchEdit)
	api.Get("/project/export-all", projects.ExportAll)

	view := api.Group("/project/view")

	view.Post("/show-all-languages", projects.ToggleShowAllLanguages)
	view.Post("/compare-mode", projects.ToggleCompareMode)
	view.Put("/compare-languages", projects.SetCompareLanguages)

	// ============================================================
	// Drawing & Keyboard Routes
	// ============================================================

	draw := api.Group("/draw")

	draw.Put("/canvas-size", projects.SetCanvasSize)
	draw.Post("/pointer-down", projects.PointerDown)
	draw.Post("/pointer-move", projects.PointerMove)
	draw.Post("/pointer-up", projects.PointerUp)

	api.Post("/keyboard", projects.Keyboard)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("starting hotspot editor", "addr", addr, "env", cfg.Environment, "db", cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
