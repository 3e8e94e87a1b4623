package draw

import (
	"math"

	"hotspot-editor/internal/editor/geometry"
	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Drawing controller
// ============================================================

// Board is the store surface the controller draws onto.
type Board interface {
	AddRect(rect models.Rect) string
	Select(id string)
}

// State of the pointer interaction.
type State int

const (
	Idle State = iota
	Drawing
)

// Controller turns raw pointer events into hotspot creation. A press on an
// existing hotspot selects it; a press on empty canvas anchors a new
// rectangle that grows with the pointer and is committed on release.
// Coordinates are canvas pixels, already unscaled by the caller.
type Controller struct {
	board Board

	canvasW float64
	canvasH float64

	state    State
	anchorX  float64
	anchorY  float64
	currentX float64
	currentY float64
}

// NewController builds a controller for a canvas of the given pixel size.
func NewController(board Board, canvasW, canvasH float64) *Controller {
	return &Controller{
		board:   board,
		canvasW: canvasW,
		canvasH: canvasH,
	}
}

// SetCanvasSize updates the canvas dimensions after a resize.
func (c *Controller) SetCanvasSize(w, h float64) {
	c.canvasW = w
	c.canvasH = h
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// PointerDown starts an interaction. hitID names the hotspot under the
// pointer, or "" for empty canvas. Pressing a hotspot selects it and stays
// idle; pressing empty canvas clears the selection and anchors a draw.
func (c *Controller) PointerDown(x, y float64, hitID string) {
	if hitID != "" {
		c.board.Select(hitID)
		c.state = Idle
		return
	}
	c.board.Select("")
	c.anchorX, c.anchorY = x, y
	c.currentX, c.currentY = x, y
	c.state = Drawing
}

// PointerMove extends the rectangle being drawn. No-op while idle.
func (c *Controller) PointerMove(x, y float64) {
	if c.state != Drawing {
		return
	}
	c.currentX, c.currentY = x, y
}

// PointerUp commits the drawn rectangle. Rectangles under the minimum draw
// size in either dimension are discarded as accidental clicks. Returns the
// new hotspot's id, or "" when nothing was created.
func (c *Controller) PointerUp(x, y float64) string {
	if c.state != Drawing {
		return ""
	}
	c.currentX, c.currentY = x, y
	c.state = Idle

	left, top, w, h := c.bbox()
	if w < geometry.MinDrawSize || h < geometry.MinDrawSize {
		return ""
	}
	if c.canvasW <= 0 || c.canvasH <= 0 {
		return ""
	}
	rect := geometry.RectFromPixels(left, top, w, h, c.canvasW, c.canvasH)
	return c.board.AddRect(rect)
}

// Cancel abandons the interaction without creating anything.
func (c *Controller) Cancel() {
	c.state = Idle
}

// Preview returns the rectangle being drawn as canvas pixels. The second
// return is false while idle.
func (c *Controller) Preview() (left, top, w, h float64, ok bool) {
	if c.state != Drawing {
		return 0, 0, 0, 0, false
	}
	left, top, w, h = c.bbox()
	return left, top, w, h, true
}

// bbox normalizes anchor and current into a top-left plus size, so drawing
// in any direction works.
func (c *Controller) bbox() (left, top, w, h float64) {
	left = math.Min(c.anchorX, c.currentX)
	top = math.Min(c.anchorY, c.currentY)
	w = math.Abs(c.currentX - c.anchorX)
	h = math.Abs(c.currentY - c.anchorY)
	return left, top, w, h
}
