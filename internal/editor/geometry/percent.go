package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Pixel ⇄ percent conversion
// ============================================================

// MinDrawSize is the smallest pixel dimension a drawn rectangle may have;
// anything smaller is discarded instead of persisted.
const MinDrawSize = 10

// ToPercent converts a pixel value to a two-decimal percent string of the
// container dimension, e.g. ToPercent(125, 1000) == "12.50%".
func ToPercent(pixel, container float64) string {
	if container == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", pixel/container*100)
}

// ToPixels is the inverse of ToPercent. The round trip differs from the
// original pixel value by at most the rounding error of the two-decimal
// format (0.005% of the container).
func ToPixels(percent string, container float64) float64 {
	return ParsePercent(percent) / 100 * container
}

// ParsePercent extracts the numeric prefix of a percent string. Malformed
// input parses as 0.
func ParsePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatPercent renders a numeric percentage in the stored two-decimal form.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// RectFromPixels converts a pixel rectangle inside a container to the
// percentage representation.
func RectFromPixels(left, top, width, height, containerW, containerH float64) models.Rect {
	return models.Rect{
		Left:   ToPercent(left, containerW),
		Top:    ToPercent(top, containerH),
		Width:  ToPercent(width, containerW),
		Height: ToPercent(height, containerH),
	}
}

// OffsetRect shifts left/top by delta percentage points, clamped to maxPos.
// Width and height are untouched: duplicated hotspots keep their size.
func OffsetRect(r models.Rect, delta, maxPos float64) models.Rect {
	left := ParsePercent(r.Left) + delta
	top := ParsePercent(r.Top) + delta
	if left > maxPos {
		left = maxPos
	}
	if top > maxPos {
		top = maxPos
	}
	out := r
	out.Left = FormatPercent(left)
	out.Top = FormatPercent(top)
	return out
}
